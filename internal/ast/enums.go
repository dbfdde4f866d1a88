package ast

import (
	"strings"

	"github.com/mirelson/hscript/internal/token"
)

// EnumValue is a single `Ident (= Expr)?` member of an EnumDecl.
type EnumValue struct {
	Name  string
	Value Expr // nil means "successor of previous value, or 0 for the first"
}

// EnumDecl declares `enum Name { A, B = expr, ... }`.
type EnumDecl struct {
	Name     string
	Values   []EnumValue
	Position token.Position
}

func (e *EnumDecl) Pos() token.Position { return e.Position }
func (e *EnumDecl) String() string {
	var sb strings.Builder
	sb.WriteString("enum ")
	sb.WriteString(e.Name)
	sb.WriteString(" { ")
	for i, v := range e.Values {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.Name)
		if v.Value != nil {
			sb.WriteString(" = ")
			sb.WriteString(v.Value.String())
		}
	}
	sb.WriteString(" }")
	return sb.String()
}
func (e *EnumDecl) topLevelNode() {}
