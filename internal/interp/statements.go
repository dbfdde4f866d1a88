package interp

import (
	"github.com/mirelson/hscript/internal/ast"
	"github.com/mirelson/hscript/internal/runtime"
)

// execBlock runs a Block's statements in a child environment, stopping
// early on any non-Normal signal or error.
func (i *Interpreter) execBlock(b *ast.Block, env *runtime.Environment) (runtime.Signal, error) {
	child := env.Child()
	for _, stmt := range b.Statements {
		sig, err := i.execStmt(stmt, child)
		if err != nil {
			return runtime.NormalSignal, err
		}
		if !sig.IsNormal() {
			return sig, nil
		}
	}
	return runtime.NormalSignal, nil
}

// execStmt dispatches on the concrete statement type, returning
// (Signal, error) explicitly rather than mutating shared control-flow
// flags.
func (i *Interpreter) execStmt(stmt ast.Stmt, env *runtime.Environment) (runtime.Signal, error) {
	if i.trace && i.tracer != nil {
		i.tracer(stmt.Pos().String(), stmt.String())
	}

	switch s := stmt.(type) {
	case *ast.Block:
		return i.execBlock(s, env)

	case *ast.ExprStmt:
		_, err := i.evalExpr(s.Expr, env)
		return runtime.NormalSignal, err

	case *ast.VarDecl:
		_, err := i.evalVarDecl(s, env)
		return runtime.NormalSignal, err

	case *ast.IfStmt:
		return i.execIfStmt(s, env)

	case *ast.ForStmt:
		return i.execForStmt(s, env)

	case *ast.WhileStmt:
		return i.execWhileStmt(s, env)

	case *ast.DoWhileStmt:
		return i.execDoWhileStmt(s, env)

	case *ast.SwitchStmt:
		return i.execSwitchStmt(s, env)

	case *ast.ReturnStmt:
		if s.Value == nil {
			return runtime.ReturnSignal(runtime.Void{}), nil
		}
		v, err := i.evalExpr(s.Value, env)
		if err != nil {
			return runtime.NormalSignal, err
		}
		return runtime.ReturnSignal(v), nil

	case *ast.BreakStmt:
		return runtime.BreakSignal, nil

	case *ast.ContinueStmt:
		return runtime.ContinueSignal, nil

	default:
		return runtime.NormalSignal, i.runtimeErrorf(stmt.Pos(), "unsupported statement %T", stmt)
	}
}

// evalVarDecl evaluates a VarDecl (local or global) against env: an
// explicit initializer, an array-size initializer allocating a
// zero-filled Array, or a zeroValue default. Used both by execStmt and
// Run's global pass.
func (i *Interpreter) evalVarDecl(vd *ast.VarDecl, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.computeVarDeclValue(vd, env)
	if err != nil {
		return nil, err
	}
	env.Define(vd.Name, val)
	return val, nil
}

// computeVarDeclValue resolves a VarDecl's value (initializer,
// array-size allocation, or zero default) without binding it into env.
// Shared by evalVarDecl and instantiateClass, which evaluates field
// initializers against the global environment rather than the object's
// own frame: fields never see each other as bare identifiers during
// construction.
func (i *Interpreter) computeVarDeclValue(vd *ast.VarDecl, env *runtime.Environment) (runtime.Value, error) {
	switch {
	case vd.Initializer != nil:
		val, err := i.evalExpr(vd.Initializer, env)
		if err != nil {
			return nil, err
		}
		// A handle-typed declaration binds a handle to an object or native
		// initializer rather than the value itself.
		if vd.TypeRef.IsHandle {
			switch val.(type) {
			case *runtime.Object, *runtime.Native:
				return runtime.NewHandle(val), nil
			}
		}
		return val, nil

	case vd.ArraySizeInit != nil:
		sizeVal, err := i.evalExpr(vd.ArraySizeInit, env)
		if err != nil {
			return nil, err
		}
		n, ok := sizeVal.(runtime.Int)
		if !ok || n < 0 {
			return nil, i.runtimeErrorf(vd.Position, "array size must be a non-negative int")
		}
		elems := make([]runtime.Value, int(n))
		var elemType *ast.TypeRef
		if vd.TypeRef.TemplateArg != nil {
			elemType = vd.TypeRef.TemplateArg
		} else {
			elemType = &ast.TypeRef{Name: "int"}
		}
		for idx := range elems {
			ev, err := i.zeroValue(elemType, env)
			if err != nil {
				return nil, err
			}
			elems[idx] = ev
		}
		return &runtime.Array{Elements: elems}, nil

	default:
		return i.zeroValue(vd.TypeRef, env)
	}
}

func (i *Interpreter) execIfStmt(s *ast.IfStmt, env *runtime.Environment) (runtime.Signal, error) {
	cond, err := i.evalExpr(s.Cond, env)
	if err != nil {
		return runtime.NormalSignal, err
	}
	if runtime.Truthy(cond) {
		return i.execStmt(s.Then, env)
	}
	if s.Else != nil {
		return i.execStmt(s.Else, env)
	}
	return runtime.NormalSignal, nil
}

func (i *Interpreter) execForStmt(s *ast.ForStmt, env *runtime.Environment) (runtime.Signal, error) {
	loopEnv := env.Child()
	if s.Init != nil {
		if _, err := i.execStmt(s.Init, loopEnv); err != nil {
			return runtime.NormalSignal, err
		}
	}
	for {
		if s.Cond != nil {
			cond, err := i.evalExpr(s.Cond, loopEnv)
			if err != nil {
				return runtime.NormalSignal, err
			}
			if !runtime.Truthy(cond) {
				break
			}
		}

		sig, err := i.execStmt(s.Body, loopEnv)
		if err != nil {
			return runtime.NormalSignal, err
		}
		switch sig.Kind {
		case runtime.Break:
			return runtime.NormalSignal, nil
		case runtime.Return:
			return sig, nil
		}

		if s.Update != nil {
			if _, err := i.evalExpr(s.Update, loopEnv); err != nil {
				return runtime.NormalSignal, err
			}
		}
	}
	return runtime.NormalSignal, nil
}

func (i *Interpreter) execWhileStmt(s *ast.WhileStmt, env *runtime.Environment) (runtime.Signal, error) {
	for {
		cond, err := i.evalExpr(s.Cond, env)
		if err != nil {
			return runtime.NormalSignal, err
		}
		if !runtime.Truthy(cond) {
			return runtime.NormalSignal, nil
		}
		sig, err := i.execStmt(s.Body, env)
		if err != nil {
			return runtime.NormalSignal, err
		}
		switch sig.Kind {
		case runtime.Break:
			return runtime.NormalSignal, nil
		case runtime.Return:
			return sig, nil
		}
	}
}

func (i *Interpreter) execDoWhileStmt(s *ast.DoWhileStmt, env *runtime.Environment) (runtime.Signal, error) {
	for {
		sig, err := i.execStmt(s.Body, env)
		if err != nil {
			return runtime.NormalSignal, err
		}
		switch sig.Kind {
		case runtime.Break:
			return runtime.NormalSignal, nil
		case runtime.Return:
			return sig, nil
		}
		cond, err := i.evalExpr(s.Cond, env)
		if err != nil {
			return runtime.NormalSignal, err
		}
		if !runtime.Truthy(cond) {
			return runtime.NormalSignal, nil
		}
	}
}

// execSwitchStmt implements C-style fall-through: once a matching (or
// default) case is found, every subsequent case's statements run in
// order until a Break signal, a Return, or the cases run out.
func (i *Interpreter) execSwitchStmt(s *ast.SwitchStmt, env *runtime.Environment) (runtime.Signal, error) {
	discVal, err := i.evalExpr(s.Discriminant, env)
	if err != nil {
		return runtime.NormalSignal, err
	}

	switchEnv := env.Child()
	matchedIdx := -1
	defaultIdx := -1
	for idx, c := range s.Cases {
		if c.Value == nil {
			defaultIdx = idx
			continue
		}
		caseVal, err := i.evalExpr(c.Value, switchEnv)
		if err != nil {
			return runtime.NormalSignal, err
		}
		if runtime.Equal(discVal, caseVal) {
			matchedIdx = idx
			break
		}
	}
	if matchedIdx == -1 {
		matchedIdx = defaultIdx
	}
	if matchedIdx == -1 {
		return runtime.NormalSignal, nil
	}

	for _, c := range s.Cases[matchedIdx:] {
		for _, stmt := range c.Body {
			sig, err := i.execStmt(stmt, switchEnv)
			if err != nil {
				return runtime.NormalSignal, err
			}
			switch sig.Kind {
			case runtime.Break:
				return runtime.NormalSignal, nil
			case runtime.Continue, runtime.Return:
				return sig, nil
			}
		}
	}
	return runtime.NormalSignal, nil
}
