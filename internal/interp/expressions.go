package interp

import (
	"math"

	"github.com/mirelson/hscript/internal/ast"
	"github.com/mirelson/hscript/internal/runtime"
	"github.com/mirelson/hscript/internal/token"
)

// evalExpr dispatches on the concrete expression type.
func (i *Interpreter) evalExpr(expr ast.Expr, env *runtime.Environment) (runtime.Value, error) {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return runtime.NewInt(e.Value), nil
	case *ast.FloatLiteral:
		return runtime.Float(e.Value), nil
	case *ast.StringLiteral:
		return runtime.String(e.Value), nil
	case *ast.BoolLiteral:
		return runtime.Bool(e.Value), nil
	case *ast.NullLiteral:
		return runtime.Null{}, nil
	case *ast.Identifier:
		return i.evalIdentifier(e, env)
	case *ast.AssignExpr:
		return i.evalAssign(e, env)
	case *ast.HandleAssignExpr:
		return i.evalHandleAssign(e, env)
	case *ast.BinaryExpr:
		return i.evalBinaryExpr(e, env)
	case *ast.UnaryExpr:
		return i.evalUnary(e, env)
	case *ast.TernaryExpr:
		return i.evalTernary(e, env)
	case *ast.CallExpr:
		return i.evalCall(e, env)
	case *ast.MemberExpr:
		return i.evalMember(e, env)
	case *ast.IndexExpr:
		return i.evalIndex(e, env)
	case *ast.NewExpr:
		return i.evalNew(e, env)
	case *ast.CastExpr:
		return i.evalCast(e, env)
	default:
		return nil, i.runtimeErrorf(expr.Pos(), "unsupported expression %T", expr)
	}
}

// evalIdentifier resolves a bare name. Inside a method, `this.fields` is
// consulted before the environment chain, so a method body can refer to
// its own fields as bare identifiers.
func (i *Interpreter) evalIdentifier(id *ast.Identifier, env *runtime.Environment) (runtime.Value, error) {
	if id.Name != "this" {
		if thisVal, ok := env.Get("this"); ok {
			if obj, ok := thisVal.(*runtime.Object); ok {
				if v, ok := obj.Fields[id.Name]; ok {
					return v, nil
				}
			}
		}
	}
	if v, ok := env.Get(id.Name); ok {
		return v, nil
	}
	return nil, i.runtimeErrorf(id.Position, "undefined identifier %q", id.Name)
}

// assignTo writes val into the lvalue denoted by target.
func (i *Interpreter) assignTo(target ast.Expr, val runtime.Value, env *runtime.Environment) error {
	switch t := target.(type) {
	case *ast.Identifier:
		if thisVal, ok := env.Get("this"); ok {
			if obj, ok := thisVal.(*runtime.Object); ok {
				if _, exists := obj.Fields[t.Name]; exists {
					obj.Fields[t.Name] = val
					return nil
				}
			}
		}
		env.Set(t.Name, val)
		return nil
	case *ast.MemberExpr:
		return i.assignMember(t, val, env)
	case *ast.IndexExpr:
		return i.assignIndex(t, val, env)
	default:
		return i.runtimeErrorf(target.Pos(), "invalid assignment target")
	}
}

// currentLValueOrZero reads the current value of an identifier lvalue,
// defaulting to Int(0) when it's never been defined anywhere, to allow
// first-use compound-assignment patterns. Non-identifier targets
// (member/index) are read normally and surface their own runtime errors.
func (i *Interpreter) currentLValueOrZero(target ast.Expr, env *runtime.Environment) (runtime.Value, error) {
	id, ok := target.(*ast.Identifier)
	if !ok {
		return i.evalExpr(target, env)
	}
	if thisVal, ok := env.Get("this"); ok {
		if obj, ok := thisVal.(*runtime.Object); ok {
			if v, ok := obj.Fields[id.Name]; ok {
				return v, nil
			}
		}
	}
	if v, ok := env.Get(id.Name); ok {
		return v, nil
	}
	return runtime.NewInt(0), nil
}

func (i *Interpreter) evalAssign(a *ast.AssignExpr, env *runtime.Environment) (runtime.Value, error) {
	if a.Op == "" {
		val, err := i.evalExpr(a.Value, env)
		if err != nil {
			return nil, err
		}
		if err := i.assignTo(a.Target, val, env); err != nil {
			return nil, err
		}
		return val, nil
	}

	cur, err := i.currentLValueOrZero(a.Target, env)
	if err != nil {
		return nil, err
	}
	rhs, err := i.evalExpr(a.Value, env)
	if err != nil {
		return nil, err
	}
	result, err := i.applyBinary(a.Op, cur, rhs, a.Position)
	if err != nil {
		return nil, err
	}
	if err := i.assignTo(a.Target, result, env); err != nil {
		return nil, err
	}
	return result, nil
}

// evalHandleAssign implements HandleAssignExpr's coercion: a handle
// passes through, null becomes a null handle, an object/native is
// wrapped fresh, anything else becomes a null handle.
func (i *Interpreter) evalHandleAssign(h *ast.HandleAssignExpr, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evalExpr(h.Value, env)
	if err != nil {
		return nil, err
	}
	var handle *runtime.Handle
	switch v := val.(type) {
	case *runtime.Handle:
		handle = v
	case *runtime.Object, *runtime.Native:
		handle = runtime.NewHandle(v)
	default:
		handle = &runtime.Handle{}
	}
	if err := i.assignTo(h.Target, handle, env); err != nil {
		return nil, err
	}
	return handle, nil
}

func (i *Interpreter) evalTernary(t *ast.TernaryExpr, env *runtime.Environment) (runtime.Value, error) {
	cond, err := i.evalExpr(t.Cond, env)
	if err != nil {
		return nil, err
	}
	if runtime.Truthy(cond) {
		return i.evalExpr(t.Then, env)
	}
	return i.evalExpr(t.Else, env)
}

func (i *Interpreter) evalBinaryExpr(b *ast.BinaryExpr, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evalExpr(b.Left, env)
	if err != nil {
		return nil, err
	}

	// Short-circuit evaluation: the right operand is never evaluated
	// when the left side already determines the result.
	if b.Op == "&&" {
		if !runtime.Truthy(left) {
			return runtime.Bool(false), nil
		}
		right, err := i.evalExpr(b.Right, env)
		if err != nil {
			return nil, err
		}
		return runtime.Bool(runtime.Truthy(right)), nil
	}
	if b.Op == "||" {
		if runtime.Truthy(left) {
			return runtime.Bool(true), nil
		}
		right, err := i.evalExpr(b.Right, env)
		if err != nil {
			return nil, err
		}
		return runtime.Bool(runtime.Truthy(right)), nil
	}

	right, err := i.evalExpr(b.Right, env)
	if err != nil {
		return nil, err
	}
	return i.applyBinary(b.Op, left, right, b.Position)
}

func asNumeric(v runtime.Value) (float64, bool) {
	nv, ok := v.(runtime.NumericValue)
	if !ok {
		return 0, false
	}
	return nv.AsFloat(), true
}

func asInt32(v runtime.Value) (int32, bool) {
	nv, ok := v.(runtime.NumericValue)
	if !ok {
		return 0, false
	}
	return int32(nv.AsFloat()), true
}

func zeroFollowingLeft(left runtime.Value) runtime.Value {
	if _, ok := left.(runtime.Float); ok {
		return runtime.Float(0)
	}
	return runtime.NewInt(0)
}

// applyBinary implements the numeric/comparison/concatenation rules:
// `+` concatenates when either side is a string; bitwise/shift
// ops always truncate to 32-bit int; other arithmetic follows the left
// operand's kind (Int vs Float); division/modulo by zero yields zero
// rather than trapping.
func (i *Interpreter) applyBinary(op string, left, right runtime.Value, pos token.Position) (runtime.Value, error) {
	if op == "+" {
		if _, ok := left.(runtime.String); ok {
			return runtime.String(left.String() + right.String()), nil
		}
		if _, ok := right.(runtime.String); ok {
			return runtime.String(left.String() + right.String()), nil
		}
	}

	switch op {
	case "&", "|", "^", "<<", ">>":
		li, ok := asInt32(left)
		if !ok {
			return nil, i.runtimeErrorf(pos, "operator %q requires numeric operands, got %s", op, left.Type())
		}
		ri, ok := asInt32(right)
		if !ok {
			return nil, i.runtimeErrorf(pos, "operator %q requires numeric operands, got %s", op, right.Type())
		}
		switch op {
		case "&":
			return runtime.NewInt(int64(li & ri)), nil
		case "|":
			return runtime.NewInt(int64(li | ri)), nil
		case "^":
			return runtime.NewInt(int64(li ^ ri)), nil
		case "<<":
			return runtime.NewInt(int64(li << uint32(ri))), nil
		default:
			return runtime.NewInt(int64(li >> uint32(ri))), nil
		}
	}

	switch op {
	case "==":
		return runtime.Bool(runtime.Equal(left, right)), nil
	case "!=":
		return runtime.Bool(!runtime.Equal(left, right)), nil
	}

	lf, lok := asNumeric(left)
	rf, rok := asNumeric(right)

	switch op {
	case "<", "<=", ">", ">=":
		if !lok || !rok {
			return nil, i.runtimeErrorf(pos, "comparison requires numeric operands, got %s and %s", left.Type(), right.Type())
		}
		switch op {
		case "<":
			return runtime.Bool(lf < rf), nil
		case "<=":
			return runtime.Bool(lf <= rf), nil
		case ">":
			return runtime.Bool(lf > rf), nil
		default:
			return runtime.Bool(lf >= rf), nil
		}
	}

	if !lok || !rok {
		return nil, i.runtimeErrorf(pos, "operator %q requires numeric operands, got %s and %s", op, left.Type(), right.Type())
	}

	var result float64
	switch op {
	case "+":
		result = lf + rf
	case "-":
		result = lf - rf
	case "*":
		result = lf * rf
	case "/":
		if rf == 0 {
			return zeroFollowingLeft(left), nil
		}
		result = lf / rf
	case "%":
		if rf == 0 {
			return zeroFollowingLeft(left), nil
		}
		result = math.Mod(lf, rf)
	default:
		return nil, i.runtimeErrorf(pos, "unknown operator %q", op)
	}

	if _, ok := left.(runtime.Float); ok {
		return runtime.Float(result), nil
	}
	return runtime.NewInt(int64(result)), nil
}

func (i *Interpreter) evalUnary(u *ast.UnaryExpr, env *runtime.Environment) (runtime.Value, error) {
	switch u.Op {
	case "@":
		v, err := i.evalExpr(u.Operand, env)
		if err != nil {
			return nil, err
		}
		return runtime.NewHandle(v), nil
	case "++", "--":
		return i.evalIncDec(u, env)
	}

	v, err := i.evalExpr(u.Operand, env)
	if err != nil {
		return nil, err
	}
	switch u.Op {
	case "-":
		if f, ok := v.(runtime.Float); ok {
			return -f, nil
		}
		if iv, ok := v.(runtime.Int); ok {
			return runtime.NewInt(int64(-iv)), nil
		}
		return nil, i.runtimeErrorf(u.Position, "unary - requires a numeric operand, got %s", v.Type())
	case "!":
		return runtime.Bool(!runtime.Truthy(v)), nil
	case "~":
		iv, ok := asInt32(v)
		if !ok {
			return nil, i.runtimeErrorf(u.Position, "unary ~ requires a numeric operand, got %s", v.Type())
		}
		return runtime.NewInt(int64(^iv)), nil
	default:
		return nil, i.runtimeErrorf(u.Position, "unknown unary operator %q", u.Op)
	}
}

// evalIncDec implements prefix/postfix `++`/`--` on any lvalue: prefix
// returns the new value, postfix returns the old.
func (i *Interpreter) evalIncDec(u *ast.UnaryExpr, env *runtime.Environment) (runtime.Value, error) {
	cur, err := i.evalExpr(u.Operand, env)
	if err != nil {
		return nil, err
	}
	delta := 1.0
	if u.Op == "--" {
		delta = -1.0
	}
	var next runtime.Value
	switch c := cur.(type) {
	case runtime.Int:
		next = runtime.NewInt(int64(c) + int64(delta))
	case runtime.Float:
		next = runtime.Float(float64(c) + delta)
	default:
		return nil, i.runtimeErrorf(u.Position, "%s requires a numeric lvalue, got %s", u.Op, cur.Type())
	}
	if err := i.assignTo(u.Operand, next, env); err != nil {
		return nil, err
	}
	if u.Prefix {
		return next, nil
	}
	return cur, nil
}

// evalCast implements the cast rules: integer-family casts truncate via
// Int, float-family takes the numeric value, bool uses
// truthiness, string uses stringification, and an unrecognized target
// type returns the value unchanged.
func (i *Interpreter) evalCast(c *ast.CastExpr, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evalExpr(c.Value, env)
	if err != nil {
		return nil, err
	}
	switch c.TargetType.Name {
	case "int", "uint", "int8", "uint8", "int16", "uint16", "int32", "uint32", "int64", "uint64":
		if f, ok := asNumeric(val); ok {
			return runtime.NewInt(int64(f)), nil
		}
		return runtime.NewInt(0), nil
	case "float", "double":
		if f, ok := asNumeric(val); ok {
			return runtime.Float(f), nil
		}
		return runtime.Float(0), nil
	case "bool":
		return runtime.Bool(runtime.Truthy(val)), nil
	case "string":
		return runtime.String(val.String()), nil
	default:
		return val, nil
	}
}
