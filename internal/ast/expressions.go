package ast

import (
	"fmt"
	"strings"

	"github.com/mirelson/hscript/internal/token"
)

// IntLiteral is an integer literal.
type IntLiteral struct {
	Value    int64
	Position token.Position
}

func (e *IntLiteral) Pos() token.Position { return e.Position }
func (e *IntLiteral) String() string      { return fmt.Sprintf("%d", e.Value) }
func (e *IntLiteral) exprNode()           {}

// FloatLiteral is a float literal.
type FloatLiteral struct {
	Value    float64
	Position token.Position
}

func (e *FloatLiteral) Pos() token.Position { return e.Position }
func (e *FloatLiteral) String() string      { return fmt.Sprintf("%g", e.Value) }
func (e *FloatLiteral) exprNode()           {}

// StringLiteral is a string literal.
type StringLiteral struct {
	Value    string
	Position token.Position
}

func (e *StringLiteral) Pos() token.Position { return e.Position }
func (e *StringLiteral) String() string      { return fmt.Sprintf("%q", e.Value) }
func (e *StringLiteral) exprNode()           {}

// BoolLiteral is `true` or `false`.
type BoolLiteral struct {
	Value    bool
	Position token.Position
}

func (e *BoolLiteral) Pos() token.Position { return e.Position }
func (e *BoolLiteral) String() string      { return fmt.Sprintf("%t", e.Value) }
func (e *BoolLiteral) exprNode()           {}

// NullLiteral is `null`.
type NullLiteral struct{ Position token.Position }

func (e *NullLiteral) Pos() token.Position { return e.Position }
func (e *NullLiteral) String() string      { return "null" }
func (e *NullLiteral) exprNode()           {}

// Identifier is a bare name reference (variable, function, or `this`).
type Identifier struct {
	Name     string
	Position token.Position
}

func (e *Identifier) Pos() token.Position { return e.Position }
func (e *Identifier) String() string      { return e.Name }
func (e *Identifier) exprNode()           {}

// AssignExpr is `target op= value` for op in {"", "+", "-", "*", "/", "%",
// "&", "|", "^"}; op == "" is plain assignment.
type AssignExpr struct {
	Target   Expr
	Op       string
	Value    Expr
	Position token.Position
}

func (e *AssignExpr) Pos() token.Position { return e.Position }
func (e *AssignExpr) String() string {
	return e.Target.String() + " " + e.Op + "= " + e.Value.String()
}
func (e *AssignExpr) exprNode() {}

// HandleAssignExpr is `@target = value`; value is coerced to a handle.
type HandleAssignExpr struct {
	Target   Expr
	Value    Expr
	Position token.Position
}

func (e *HandleAssignExpr) Pos() token.Position { return e.Position }
func (e *HandleAssignExpr) String() string      { return "@" + e.Target.String() + " = " + e.Value.String() }
func (e *HandleAssignExpr) exprNode()           {}

// BinaryExpr is `Left Op Right`.
type BinaryExpr struct {
	Left     Expr
	Op       string
	Right    Expr
	Position token.Position
}

func (e *BinaryExpr) Pos() token.Position { return e.Position }
func (e *BinaryExpr) String() string {
	return "(" + e.Left.String() + " " + e.Op + " " + e.Right.String() + ")"
}
func (e *BinaryExpr) exprNode() {}

// UnaryExpr is a prefix or postfix unary operator: -, !, ~, ++, --, @.
type UnaryExpr struct {
	Op       string
	Operand  Expr
	Prefix   bool
	Position token.Position
}

func (e *UnaryExpr) Pos() token.Position { return e.Position }
func (e *UnaryExpr) String() string {
	if e.Prefix {
		return e.Op + e.Operand.String()
	}
	return e.Operand.String() + e.Op
}
func (e *UnaryExpr) exprNode() {}

// CallExpr is `Callee(Args...)`.
type CallExpr struct {
	Callee   Expr
	Args     []Expr
	Position token.Position
}

func (e *CallExpr) Pos() token.Position { return e.Position }
func (e *CallExpr) String() string {
	var sb strings.Builder
	sb.WriteString(e.Callee.String())
	sb.WriteString("(")
	for i, a := range e.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteString(")")
	return sb.String()
}
func (e *CallExpr) exprNode() {}

// MemberExpr is `Object.Member` or, when parsed from `A::B`, a namespace
// access used for enum member lookup.
type MemberExpr struct {
	Object      Expr
	Member      string
	IsNamespace bool
	Position    token.Position
}

func (e *MemberExpr) Pos() token.Position { return e.Position }
func (e *MemberExpr) String() string {
	if e.IsNamespace {
		return e.Object.String() + "::" + e.Member
	}
	return e.Object.String() + "." + e.Member
}
func (e *MemberExpr) exprNode() {}

// IndexExpr is `Object[Index]`.
type IndexExpr struct {
	Object   Expr
	Index    Expr
	Position token.Position
}

func (e *IndexExpr) Pos() token.Position { return e.Position }
func (e *IndexExpr) String() string      { return e.Object.String() + "[" + e.Index.String() + "]" }
func (e *IndexExpr) exprNode()           {}

// NewExpr is `new Name(Args...)`.
type NewExpr struct {
	ClassName string
	Args      []Expr
	Position  token.Position
}

func (e *NewExpr) Pos() token.Position { return e.Position }
func (e *NewExpr) String() string {
	var sb strings.Builder
	sb.WriteString("new ")
	sb.WriteString(e.ClassName)
	sb.WriteString("(")
	for i, a := range e.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteString(")")
	return sb.String()
}
func (e *NewExpr) exprNode() {}

// CastExpr is `(TargetType) Expr`.
type CastExpr struct {
	TargetType *TypeRef
	Value      Expr
	Position   token.Position
}

func (e *CastExpr) Pos() token.Position { return e.Position }
func (e *CastExpr) String() string {
	return "(" + e.TargetType.String() + ")" + e.Value.String()
}
func (e *CastExpr) exprNode() {}

// TernaryExpr is `Cond ? Then : Else`.
type TernaryExpr struct {
	Cond     Expr
	Then     Expr
	Else     Expr
	Position token.Position
}

func (e *TernaryExpr) Pos() token.Position { return e.Position }
func (e *TernaryExpr) String() string {
	return e.Cond.String() + " ? " + e.Then.String() + " : " + e.Else.String()
}
func (e *TernaryExpr) exprNode() {}
