package interp

import (
	"github.com/mirelson/hscript/internal/ast"
	"github.com/mirelson/hscript/internal/runtime"
	"github.com/mirelson/hscript/internal/token"
)

func (i *Interpreter) evalIndex(ix *ast.IndexExpr, env *runtime.Environment) (runtime.Value, error) {
	objVal, err := i.evalExpr(ix.Object, env)
	if err != nil {
		return nil, err
	}
	idxVal, err := i.evalExpr(ix.Index, env)
	if err != nil {
		return nil, err
	}
	return i.indexGet(objVal, idxVal, ix.Position)
}

func (i *Interpreter) assignIndex(ix *ast.IndexExpr, val runtime.Value, env *runtime.Environment) error {
	objVal, err := i.evalExpr(ix.Object, env)
	if err != nil {
		return err
	}
	idxVal, err := i.evalExpr(ix.Index, env)
	if err != nil {
		return err
	}
	return i.indexSet(objVal, idxVal, val, ix.Position)
}

// indexGet handles an IndexExpr read: array access bounds-checks (out of
// range is a runtime error, including index == length), native objects
// delegate to the host's indexed access via reflection, and handles
// dereference first.
func (i *Interpreter) indexGet(objVal, idxVal runtime.Value, pos token.Position) (runtime.Value, error) {
	switch o := objVal.(type) {
	case *runtime.Handle:
		if o.Ref == nil {
			return nil, i.runtimeErrorf(pos, "null handle dereference indexing")
		}
		return i.indexGet(o.Ref, idxVal, pos)
	case *runtime.Array:
		n, ok := idxVal.(runtime.Int)
		if !ok {
			return nil, i.runtimeErrorf(pos, "array index must be an int, got %s", idxVal.Type())
		}
		if int(n) < 0 || int(n) >= len(o.Elements) {
			return nil, i.runtimeErrorf(pos, "array index %d out of range (length %d)", n, len(o.Elements))
		}
		return o.Elements[n], nil
	case *runtime.Native:
		return i.nativeIndexGet(o, idxVal, pos)
	default:
		return nil, i.runtimeErrorf(pos, "value of type %s is not indexable", objVal.Type())
	}
}

func (i *Interpreter) indexSet(objVal, idxVal, val runtime.Value, pos token.Position) error {
	switch o := objVal.(type) {
	case *runtime.Handle:
		if o.Ref == nil {
			return i.runtimeErrorf(pos, "null handle dereference indexing")
		}
		return i.indexSet(o.Ref, idxVal, val, pos)
	case *runtime.Array:
		n, ok := idxVal.(runtime.Int)
		if !ok {
			return i.runtimeErrorf(pos, "array index must be an int, got %s", idxVal.Type())
		}
		if int(n) < 0 || int(n) >= len(o.Elements) {
			return i.runtimeErrorf(pos, "array index %d out of range (length %d)", n, len(o.Elements))
		}
		o.Elements[n] = val
		return nil
	case *runtime.Native:
		return i.nativeIndexSet(o, idxVal, val, pos)
	default:
		return i.runtimeErrorf(pos, "value of type %s is not indexable", objVal.Type())
	}
}
