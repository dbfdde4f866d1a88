package runtime

import "strings"

// Object is a script-created instance of a declared class: a typed field
// map plus identity. It is always stored and passed as a *Object
// pointer, so reference identity survives copies. Method resolution
// happens in the evaluator against the class table, keyed by TypeName.
type Object struct {
	TypeName string
	Fields   map[string]Value
}

// NewObject creates an Object with an empty field map.
func NewObject(typeName string) *Object {
	return &Object{TypeName: typeName, Fields: make(map[string]Value)}
}

func (o *Object) Type() string { return o.TypeName }
func (o *Object) String() string {
	return "<" + o.TypeName + " object>"
}

// Native is a host-provided opaque value exposed to scripts. Host holds
// whatever the embedder registered (a Go struct, map, etc).
type Native struct {
	TypeName string
	Host     any
}

func (n *Native) Type() string   { return n.TypeName }
func (n *Native) String() string { return "<native " + n.TypeName + ">" }

// Handle is a nullable, identity-preserving reference to an Object or a
// Native value; Ref being absent represents null.
type Handle struct {
	Ref Value // *Object, *Native, or nil
}

func (h *Handle) Type() string { return "handle" }
func (h *Handle) String() string {
	if h.Ref == nil {
		return "null"
	}
	return "@" + h.Ref.String()
}

// NewHandle wraps ref (an *Object or *Native) in a Handle. Passing any
// other value, or nil, produces a null handle, matching
// HandleAssignExpr's coercion rule.
func NewHandle(ref Value) *Handle {
	switch ref.(type) {
	case *Object, *Native:
		return &Handle{Ref: ref}
	default:
		return &Handle{Ref: nil}
	}
}

// Array is a dynamically-sized, ordered sequence of values.
type Array struct {
	Elements []Value
}

func (a *Array) Type() string { return "array" }
func (a *Array) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Function is a callable script function or method value.
type Function struct {
	Name    string
	Decl    any // *ast.FuncDecl; typed any to avoid an import cycle
	ThisVal Value
}

func (f *Function) Type() string   { return "function" }
func (f *Function) String() string { return "<function " + f.Name + ">" }

// NativeFunc is the signature every host-registered function and
// internal/builtins helper implements.
type NativeFunc func(args []Value) (Value, error)

// NativeFunction wraps a host-provided callable.
type NativeFunction struct {
	Name string
	Fn   NativeFunc
}

func (n *NativeFunction) Type() string   { return "native_function" }
func (n *NativeFunction) String() string { return "<native function " + n.Name + ">" }

// Call invokes the wrapped host function.
func (n *NativeFunction) Call(args []Value) (Value, error) {
	return n.Fn(args)
}
