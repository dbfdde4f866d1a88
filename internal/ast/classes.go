package ast

import (
	"strings"

	"github.com/mirelson/hscript/internal/token"
)

// ClassMember is either a VarDecl (field) or a FuncDecl (method,
// constructor, or destructor).
type ClassMember interface {
	Node
}

// ClassDecl declares a class: fields, methods, an optional constructor
// (a FuncDecl named identically to the class) and an optional destructor
// (a FuncDecl named "~"+ClassName, parsed but never invoked).
type ClassDecl struct {
	Name     string
	Members  []ClassMember
	Position token.Position
}

func (c *ClassDecl) Pos() token.Position { return c.Position }
func (c *ClassDecl) String() string {
	var sb strings.Builder
	sb.WriteString("class ")
	sb.WriteString(c.Name)
	sb.WriteString(" {\n")
	for _, m := range c.Members {
		sb.WriteString("  ")
		sb.WriteString(m.String())
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}
func (c *ClassDecl) topLevelNode() {}

// Constructor returns the member FuncDecl whose name matches the class
// name, or nil if the class has no explicit constructor.
func (c *ClassDecl) Constructor() *FuncDecl {
	for _, m := range c.Members {
		if fd, ok := m.(*FuncDecl); ok && fd.Name == c.Name {
			return fd
		}
	}
	return nil
}

// Destructor returns the member FuncDecl named "~"+ClassName, or nil.
func (c *ClassDecl) Destructor() *FuncDecl {
	for _, m := range c.Members {
		if fd, ok := m.(*FuncDecl); ok && fd.IsDestructor() {
			return fd
		}
	}
	return nil
}

// Method returns the first FuncDecl member named name, or nil.
// Constructors and destructors are FuncDecl members too and are not
// skipped.
func (c *ClassDecl) Method(name string) *FuncDecl {
	for _, m := range c.Members {
		if fd, ok := m.(*FuncDecl); ok && fd.Name == name {
			return fd
		}
	}
	return nil
}

// Fields returns the VarDecl members in declaration order.
func (c *ClassDecl) Fields() []*VarDecl {
	var out []*VarDecl
	for _, m := range c.Members {
		if vd, ok := m.(*VarDecl); ok {
			out = append(out, vd)
		}
	}
	return out
}
