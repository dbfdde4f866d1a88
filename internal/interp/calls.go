package interp

import (
	"github.com/mirelson/hscript/internal/ast"
	"github.com/mirelson/hscript/internal/runtime"
	"github.com/mirelson/hscript/internal/token"
)

// evalCall handles a CallExpr: when the callee is a MemberExpr, the
// receiver is evaluated and bound; otherwise the callee is evaluated as
// an ordinary value and invoked. Arguments are eagerly evaluated
// left-to-right.
func (i *Interpreter) evalCall(c *ast.CallExpr, env *runtime.Environment) (runtime.Value, error) {
	args := make([]runtime.Value, len(c.Args))
	for idx, argExpr := range c.Args {
		v, err := i.evalExpr(argExpr, env)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}

	if member, ok := c.Callee.(*ast.MemberExpr); ok && !member.IsNamespace {
		obj, err := i.evalExpr(member.Object, env)
		if err != nil {
			return nil, err
		}
		return i.callMethod(obj, member.Member, args, member.Position)
	}

	calleeVal, err := i.evalExpr(c.Callee, env)
	if err != nil {
		return nil, err
	}
	return i.callValue(calleeVal, args, c.Position)
}

// callMethod dereferences handles, then resolves via getMember and
// invokes the result.
func (i *Interpreter) callMethod(obj runtime.Value, name string, args []runtime.Value, pos token.Position) (runtime.Value, error) {
	if h, ok := obj.(*runtime.Handle); ok {
		if h.Ref == nil {
			return nil, i.runtimeErrorf(pos, "null handle dereference calling %q", name)
		}
		return i.callMethod(h.Ref, name, args, pos)
	}
	member, err := i.getMember(obj, name, pos)
	if err != nil {
		return nil, err
	}
	return i.callValue(member, args, pos)
}

// callValue invokes fnVal. *runtime.Function values created via getMember
// already carry their bound `this` when the receiver is an Object.
func (i *Interpreter) callValue(fnVal runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, error) {
	switch fn := fnVal.(type) {
	case *runtime.NativeFunction:
		v, err := fn.Call(args)
		if err != nil {
			return nil, i.runtimeErrorf(pos, "%v", err)
		}
		return v, nil
	case *runtime.Function:
		decl, ok := fn.Decl.(*ast.FuncDecl)
		if !ok {
			return nil, i.runtimeErrorf(pos, "malformed function value %q", fn.Name)
		}
		return i.callUserFunction(decl, fn.ThisVal, args)
	default:
		return nil, i.runtimeErrorf(pos, "value of type %s is not callable", fnVal.Type())
	}
}

// callUserFunction creates a new frame parented directly to globals
// (function frames never parent to the caller's scope — there are no
// closures), binds `this` when present, binds parameters (defaulting
// missing ones per their declared type), and executes the body.
func (i *Interpreter) callUserFunction(decl *ast.FuncDecl, thisVal runtime.Value, args []runtime.Value) (runtime.Value, error) {
	frame := i.globals.Child()
	if thisVal != nil {
		frame.Define("this", thisVal)
	}
	for idx, param := range decl.Params {
		var val runtime.Value
		if idx < len(args) {
			val = args[idx]
		} else {
			v, err := i.zeroValue(param.TypeRef, frame)
			if err != nil {
				return nil, err
			}
			val = v
		}
		frame.Define(param.Name, val)
	}

	if decl.Body == nil {
		return runtime.Void{}, nil
	}
	sig, err := i.execBlock(decl.Body, frame)
	if err != nil {
		return nil, err
	}
	if sig.Kind == runtime.Return {
		return sig.Value, nil
	}
	return runtime.Void{}, nil
}
