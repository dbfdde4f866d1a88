package ast

import (
	"strings"

	"github.com/mirelson/hscript/internal/token"
)

// VarDecl declares a variable, with either an initializer, an array-size
// initializer (`Type name(expr)`), or neither (default-constructed).
type VarDecl struct {
	TypeRef       *TypeRef
	Name          string
	Initializer   Expr
	ArraySizeInit Expr
	IsConst       bool
	Position      token.Position
}

func (v *VarDecl) Pos() token.Position { return v.Position }
func (v *VarDecl) String() string {
	var sb strings.Builder
	if v.IsConst {
		sb.WriteString("const ")
	}
	sb.WriteString(v.TypeRef.String())
	sb.WriteString(" ")
	sb.WriteString(v.Name)
	if v.Initializer != nil {
		sb.WriteString(" = ")
		sb.WriteString(v.Initializer.String())
	} else if v.ArraySizeInit != nil {
		sb.WriteString("(")
		sb.WriteString(v.ArraySizeInit.String())
		sb.WriteString(")")
	}
	sb.WriteString(";")
	return sb.String()
}
func (v *VarDecl) stmtNode()     {}
func (v *VarDecl) topLevelNode() {}

// ParamQualifier is the optional in/out/inout qualifier on a parameter.
// Parsed but unused semantically.
type ParamQualifier int

const (
	QualifierNone ParamQualifier = iota
	QualifierIn
	QualifierOut
	QualifierInout
)

// Param is a single function parameter.
type Param struct {
	TypeRef   *TypeRef
	Name      string
	Qualifier ParamQualifier
}

func (p Param) String() string { return p.TypeRef.String() + " " + p.Name }

// FuncDecl declares a free function, a class method, a constructor
// (Name == owning class name), or a destructor (Name == "~"+className).
type FuncDecl struct {
	ReturnType *TypeRef
	Name       string
	Params     []Param
	Body       *Block
	Position   token.Position
}

func (f *FuncDecl) Pos() token.Position { return f.Position }
func (f *FuncDecl) String() string {
	var sb strings.Builder
	if f.ReturnType != nil {
		sb.WriteString(f.ReturnType.String())
		sb.WriteString(" ")
	}
	sb.WriteString(f.Name)
	sb.WriteString("(")
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(") ")
	if f.Body != nil {
		sb.WriteString(f.Body.String())
	}
	return sb.String()
}
func (f *FuncDecl) topLevelNode() {}

// IsDestructor reports whether this FuncDecl is a destructor (`~Name`).
func (f *FuncDecl) IsDestructor() bool { return strings.HasPrefix(f.Name, "~") }
