// Package ast defines the abstract syntax tree produced by the parser.
//
// Node kinds are split across files by category (declarations.go,
// classes.go, enums.go, control_flow.go, expressions.go). Every node
// carries a source Position for diagnostics.
package ast

import (
	"strings"

	"github.com/mirelson/hscript/internal/token"
)

// Node is implemented by every AST node.
type Node interface {
	Pos() token.Position
	String() string
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// TopLevelDecl is implemented by VarDecl, FuncDecl, ClassDecl, EnumDecl.
type TopLevelDecl interface {
	Node
	topLevelNode()
}

// Program is the root node: a sequence of top-level declarations.
type Program struct {
	Decls []TopLevelDecl
}

func (p *Program) Pos() token.Position {
	if len(p.Decls) == 0 {
		return token.Position{}
	}
	return p.Decls[0].Pos()
}

func (p *Program) String() string {
	var sb strings.Builder
	for _, d := range p.Decls {
		sb.WriteString(d.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// TypeRef describes a parsed type reference: a primitive or class name,
// optional `const`, optional handle `@` suffix, and an optional template
// argument (used for `array<T>` / `T[]`).
type TypeRef struct {
	Name        string
	IsHandle    bool
	IsConst     bool
	TemplateArg *TypeRef
	Position    token.Position
}

func (t *TypeRef) Pos() token.Position { return t.Position }

func (t *TypeRef) String() string {
	s := ""
	if t.IsConst {
		s += "const "
	}
	s += t.Name
	if t.Name == "array" && t.TemplateArg != nil {
		s += "<" + t.TemplateArg.String() + ">"
	}
	if t.IsHandle {
		s += "@"
	}
	return s
}

// IsArray reports whether this type reference names an array type.
func (t *TypeRef) IsArray() bool { return t.Name == "array" }
