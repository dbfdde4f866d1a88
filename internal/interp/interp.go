// Package interp is a tree-walking evaluator over internal/ast: a type
// switch over ast.Node dispatching to per-kind eval functions, a
// lexically scoped internal/runtime.Environment, and a Value result.
// Rather than stashing a pending exception on the Interpreter and
// checking boolean exit/continue/break flags after every statement,
// hscript threads errors and control flow through explicit return
// values (error, and runtime.Signal respectively).
package interp

import (
	"fmt"
	"io"

	"github.com/mirelson/hscript/internal/ast"
	"github.com/mirelson/hscript/internal/cerrors"
	"github.com/mirelson/hscript/internal/runtime"
	"github.com/mirelson/hscript/internal/token"
)

// classInfo is a registered class declaration.
type classInfo struct {
	decl *ast.ClassDecl
}

// Interpreter holds the registries and global environment needed to
// execute a parsed Program, plus everything a single Load/Call session
// accumulates.
type Interpreter struct {
	output io.Writer

	globals *runtime.Environment
	classes map[string]*classInfo
	enums   map[string]map[string]runtime.Value

	trace  bool
	tracer func(pos string, msg string)
	source string
	file   string
}

// New creates an Interpreter with an empty global scope. output receives
// everything the script writes (e.g. via a "print" native function);
// passing nil discards it.
func New(output io.Writer) *Interpreter {
	if output == nil {
		output = io.Discard
	}
	return &Interpreter{
		output:  output,
		globals: runtime.NewEnvironment(),
		classes: make(map[string]*classInfo),
		enums:   make(map[string]map[string]runtime.Value),
	}
}

// Output returns the writer scripts write to.
func (i *Interpreter) Output() io.Writer { return i.output }

// SetOutput redirects script output to w, replacing whatever New was
// given.
func (i *Interpreter) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	i.output = w
}

// SetTrace installs a callback invoked before each statement is
// executed when enabled is true.
func (i *Interpreter) SetTrace(enabled bool, fn func(pos, msg string)) {
	i.trace = enabled
	i.tracer = fn
}

// RegisterNativeFunction exposes a host function to scripts under name.
// It is bound directly into globals so bare-identifier lookup and
// CallExpr resolution find it immediately, without waiting for a Run
// pass.
func (i *Interpreter) RegisterNativeFunction(name string, fn func(args []runtime.Value) (runtime.Value, error)) {
	i.globals.Define(name, &runtime.NativeFunction{Name: name, Fn: fn})
}

// DefineGlobal sets a global variable, overwriting any prior value.
func (i *Interpreter) DefineGlobal(name string, v runtime.Value) {
	i.globals.Define(name, v)
}

// Global returns a global's current value.
func (i *Interpreter) Global(name string) (runtime.Value, bool) {
	return i.globals.GetLocal(name)
}

// Run loads and executes prog: two registration passes register every
// class, enum, and function declaration (so forward references between
// them resolve regardless of declaration order), then a final pass
// evaluates global VarDecls in source order.
func (i *Interpreter) Run(prog *ast.Program, source, file string) error {
	i.source = source
	i.file = file

	for _, decl := range prog.Decls {
		switch d := decl.(type) {
		case *ast.ClassDecl:
			i.classes[d.Name] = &classInfo{decl: d}
		case *ast.EnumDecl:
			i.registerEnum(d)
		}
	}

	// Second registration pass: every ClassDecl gets a constructor-like
	// NativeFunction under its own name (so `ClassName(args)` works as a
	// call expression, not just `new ClassName(args)`), and every
	// FuncDecl becomes a Function value in globals, so plain-identifier
	// callee resolution in evalCall finds both.
	for _, decl := range prog.Decls {
		switch d := decl.(type) {
		case *ast.ClassDecl:
			name := d.Name
			i.globals.Define(name, &runtime.NativeFunction{
				Name: name,
				Fn: func(args []runtime.Value) (runtime.Value, error) {
					return i.instantiateClassByName(name, args, d.Position)
				},
			})
		case *ast.FuncDecl:
			i.globals.Define(d.Name, &runtime.Function{Name: d.Name, Decl: d})
		}
	}

	for _, decl := range prog.Decls {
		if vd, ok := decl.(*ast.VarDecl); ok {
			if _, err := i.evalGlobalVarDecl(vd); err != nil {
				return err
			}
		}
	}
	return nil
}

// registerEnum evaluates each member's value expression against a
// scratch environment seeded with previously-registered members of the
// same enum, so `B = A + 1`-style references resolve, and assigns the
// C-style "successor of previous, 0 for the first" default when a
// member has no initializer. Members resolve through a dedicated table
// rather than synthetic globals.
func (i *Interpreter) registerEnum(d *ast.EnumDecl) {
	table := make(map[string]runtime.Value)
	env := i.globals.Child()
	var prev int64
	for idx, member := range d.Values {
		var val runtime.Value
		if member.Value != nil {
			v, err := i.evalExpr(member.Value, env)
			if err != nil {
				val = runtime.NewInt(0)
			} else {
				val = v
			}
		} else if idx == 0 {
			val = runtime.NewInt(0)
		} else {
			val = runtime.NewInt(prev + 1)
		}
		if iv, ok := val.(runtime.Int); ok {
			prev = int64(iv)
		}
		table[member.Name] = val
		env.Define(member.Name, val)
	}
	i.enums[d.Name] = table
}

// zeroValue produces the default-constructed value for a declared type:
// Int/Float/Bool/String zero values, a null handle for `@`-suffixed
// types, an empty Array for array types, or a freshly instantiated
// Object for a registered class name. Both the statement-level and
// global VarDecl evaluation paths route through this one helper, so
// default-construction is never skipped for either.
func (i *Interpreter) zeroValue(t *ast.TypeRef, env *runtime.Environment) (runtime.Value, error) {
	if t.IsHandle {
		return &runtime.Handle{}, nil
	}
	if t.IsArray() {
		return &runtime.Array{}, nil
	}
	if v, ok := runtime.DefaultForPrimitive(t.Name); ok {
		return v, nil
	}
	if class, ok := i.classes[t.Name]; ok {
		return i.instantiateClass(class, nil, env)
	}
	return runtime.Void{}, nil
}

// evalGlobalVarDecl evaluates a top-level VarDecl into the global scope.
func (i *Interpreter) evalGlobalVarDecl(vd *ast.VarDecl) (runtime.Value, error) {
	return i.evalVarDecl(vd, i.globals)
}

func (i *Interpreter) runtimeErrorf(pos token.Position, format string, args ...any) error {
	return cerrors.New(cerrors.RuntimeKind, pos, fmt.Sprintf(format, args...), i.source, i.file)
}

// CallFunction looks up name in globals and invokes it as a host-driven
// call: the result is the function's return value, or Void for a
// function that doesn't return.
func (i *Interpreter) CallFunction(name string, args []runtime.Value) (runtime.Value, error) {
	fnVal, ok := i.globals.GetLocal(name)
	if !ok {
		return nil, cerrors.New(cerrors.RuntimeKind, token.Position{}, fmt.Sprintf("undefined function %q", name), i.source, i.file)
	}
	return i.callValue(fnVal, args, token.Position{})
}

// SetGlobal writes a global variable using the same Set semantics
// applied to the root scope (defines it if never bound).
func (i *Interpreter) SetGlobal(name string, v runtime.Value) {
	i.globals.Set(name, v)
}

// RegisterObject binds a host value as a runtime.Native global under
// name, with its script-visible type name set to typeName.
func (i *Interpreter) RegisterObject(name string, obj any, typeName string) {
	if typeName == "" {
		typeName = fmt.Sprintf("%T", obj)
	}
	i.globals.Define(name, &runtime.Native{TypeName: typeName, Host: obj})
}

// RegisterClass binds a native callable under name that, when invoked
// from script (`name(args)` — the plain-call form, not `new name(args)`),
// produces a runtime.Native wrapping factory's result.
func (i *Interpreter) RegisterClass(name string, factory func(args []runtime.Value) (any, error)) {
	i.globals.Define(name, &runtime.NativeFunction{
		Name: name,
		Fn: func(args []runtime.Value) (runtime.Value, error) {
			host, err := factory(args)
			if err != nil {
				return nil, err
			}
			return &runtime.Native{TypeName: name, Host: host}, nil
		},
	})
}
