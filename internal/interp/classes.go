package interp

import (
	"github.com/mirelson/hscript/internal/ast"
	"github.com/mirelson/hscript/internal/runtime"
	"github.com/mirelson/hscript/internal/token"
)

func (i *Interpreter) evalNew(n *ast.NewExpr, env *runtime.Environment) (runtime.Value, error) {
	ci, ok := i.classes[n.ClassName]
	if !ok {
		return nil, i.runtimeErrorf(n.Position, "unknown class %q", n.ClassName)
	}
	args := make([]runtime.Value, len(n.Args))
	for idx, argExpr := range n.Args {
		v, err := i.evalExpr(argExpr, env)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}
	return i.instantiateClass(ci, args, env)
}

// instantiateClass builds a fresh Object with each field initialized in
// the *global* environment (not the object's own frame — fields never
// see each other as bare identifiers during construction), then the
// constructor, if any, is invoked with `this` bound to the new object.
// Zero-valued fields, nested class-typed ones included, are resolved in
// the global environment too; env is not consulted.
func (i *Interpreter) instantiateClass(ci *classInfo, args []runtime.Value, env *runtime.Environment) (*runtime.Object, error) {
	obj := runtime.NewObject(ci.decl.Name)
	for _, field := range ci.decl.Fields() {
		val, err := i.computeVarDeclValue(field, i.globals)
		if err != nil {
			return nil, err
		}
		obj.Fields[field.Name] = val
	}
	if ctor := ci.decl.Constructor(); ctor != nil {
		if _, err := i.callUserFunction(ctor, obj, args); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

func (i *Interpreter) instantiateClassByName(name string, args []runtime.Value, pos token.Position) (runtime.Value, error) {
	ci, ok := i.classes[name]
	if !ok {
		return nil, i.runtimeErrorf(pos, "unknown class %q", name)
	}
	return i.instantiateClass(ci, args, i.globals)
}
