package interp

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mirelson/hscript/internal/ast"
	"github.com/mirelson/hscript/internal/runtime"
	"github.com/mirelson/hscript/internal/token"
)

// evalMember implements reading `Object.Member` and `Object::Member`.
// The `::` form is used for enum member access, resolved via a dedicated
// table; any other namespace access falls back to ordinary member
// resolution.
func (i *Interpreter) evalMember(m *ast.MemberExpr, env *runtime.Environment) (runtime.Value, error) {
	if m.IsNamespace {
		if ident, ok := m.Object.(*ast.Identifier); ok {
			if table, ok := i.enums[ident.Name]; ok {
				if v, ok := table[m.Member]; ok {
					return v, nil
				}
				return nil, i.runtimeErrorf(m.Position, "unknown enum member %q on %q", m.Member, ident.Name)
			}
		}
	}
	obj, err := i.evalExpr(m.Object, env)
	if err != nil {
		return nil, err
	}
	return i.getMember(obj, m.Member, m.Position)
}

func (i *Interpreter) assignMember(m *ast.MemberExpr, val runtime.Value, env *runtime.Environment) error {
	obj, err := i.evalExpr(m.Object, env)
	if err != nil {
		return err
	}
	return i.setMember(obj, m.Member, val, m.Position)
}

// getMember resolves member access across Handle, Object, Array, Native,
// and String.
func (i *Interpreter) getMember(obj runtime.Value, name string, pos token.Position) (runtime.Value, error) {
	switch o := obj.(type) {
	case *runtime.Handle:
		if o.Ref == nil {
			return nil, i.runtimeErrorf(pos, "null handle dereference accessing %q", name)
		}
		return i.getMember(o.Ref, name, pos)
	case *runtime.Object:
		if v, ok := o.Fields[name]; ok {
			return v, nil
		}
		if ci, ok := i.classes[o.TypeName]; ok {
			if fd := ci.decl.Method(name); fd != nil {
				return &runtime.Function{Name: name, Decl: fd, ThisVal: o}, nil
			}
		}
		return nil, i.runtimeErrorf(pos, "unknown member %q on %s", name, o.TypeName)
	case *runtime.Array:
		return i.arrayMember(o, name, pos)
	case *runtime.Native:
		return i.nativeMember(o, name, pos)
	case runtime.String:
		return i.stringMember(o, name, pos)
	default:
		return nil, i.runtimeErrorf(pos, "cannot access member %q on %s", name, obj.Type())
	}
}

// setMember implements writing to `Object.Member`.
func (i *Interpreter) setMember(obj runtime.Value, name string, val runtime.Value, pos token.Position) error {
	switch o := obj.(type) {
	case *runtime.Handle:
		if o.Ref == nil {
			return i.runtimeErrorf(pos, "null handle dereference assigning %q", name)
		}
		return i.setMember(o.Ref, name, val, pos)
	case *runtime.Object:
		o.Fields[name] = val
		return nil
	case *runtime.Native:
		return i.setNativeField(o, name, val, pos)
	default:
		return i.runtimeErrorf(pos, "cannot set member %q on %s", name, obj.Type())
	}
}

// arrayMember synthesizes the array builtin methods: size/length, empty,
// push/insertLast, pop/removeLast, resize, reserve (no-op), insertAt,
// removeAt, find.
func (i *Interpreter) arrayMember(a *runtime.Array, name string, pos token.Position) (runtime.Value, error) {
	switch name {
	case "size", "length":
		return nativeFn(name, func(args []runtime.Value) (runtime.Value, error) {
			return runtime.NewInt(int64(len(a.Elements))), nil
		}), nil
	case "empty":
		return nativeFn(name, func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Bool(len(a.Elements) == 0), nil
		}), nil
	case "push", "insertLast":
		return nativeFn(name, func(args []runtime.Value) (runtime.Value, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("%s expects 1 argument", name)
			}
			a.Elements = append(a.Elements, args[0])
			return runtime.Void{}, nil
		}), nil
	case "pop", "removeLast":
		return nativeFn(name, func(args []runtime.Value) (runtime.Value, error) {
			if len(a.Elements) == 0 {
				return nil, fmt.Errorf("%s on empty array", name)
			}
			last := a.Elements[len(a.Elements)-1]
			a.Elements = a.Elements[:len(a.Elements)-1]
			return last, nil
		}), nil
	case "resize":
		return nativeFn(name, func(args []runtime.Value) (runtime.Value, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("resize expects 1 argument")
			}
			n, ok := args[0].(runtime.Int)
			if !ok || n < 0 {
				return nil, fmt.Errorf("resize expects a non-negative int")
			}
			sz := int(n)
			if sz <= len(a.Elements) {
				a.Elements = a.Elements[:sz]
			} else {
				for len(a.Elements) < sz {
					a.Elements = append(a.Elements, runtime.NewInt(0))
				}
			}
			return runtime.Void{}, nil
		}), nil
	case "reserve":
		return nativeFn(name, func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Void{}, nil
		}), nil
	case "insertAt":
		return nativeFn(name, func(args []runtime.Value) (runtime.Value, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("insertAt expects 2 arguments")
			}
			idx, ok := args[0].(runtime.Int)
			if !ok || int(idx) < 0 || int(idx) > len(a.Elements) {
				return nil, fmt.Errorf("insertAt index out of range")
			}
			n := int(idx)
			a.Elements = append(a.Elements, nil)
			copy(a.Elements[n+1:], a.Elements[n:])
			a.Elements[n] = args[1]
			return runtime.Void{}, nil
		}), nil
	case "removeAt":
		return nativeFn(name, func(args []runtime.Value) (runtime.Value, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("removeAt expects 1 argument")
			}
			idx, ok := args[0].(runtime.Int)
			if !ok || int(idx) < 0 || int(idx) >= len(a.Elements) {
				return nil, fmt.Errorf("removeAt index out of range")
			}
			n := int(idx)
			a.Elements = append(a.Elements[:n], a.Elements[n+1:]...)
			return runtime.Void{}, nil
		}), nil
	case "find":
		return nativeFn(name, func(args []runtime.Value) (runtime.Value, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("find expects 1 argument")
			}
			for idx, e := range a.Elements {
				if runtime.Equal(e, args[0]) {
					return runtime.NewInt(int64(idx)), nil
				}
			}
			return runtime.NewInt(-1), nil
		}), nil
	default:
		return nil, i.runtimeErrorf(pos, "unknown array member %q", name)
	}
}

// stringMember synthesizes the String builtin methods. toUpper/toLower
// go through golang.org/x/text/cases rather than strings.ToUpper/ToLower
// for Unicode-correct casing.
func (i *Interpreter) stringMember(s runtime.String, name string, pos token.Position) (runtime.Value, error) {
	str := string(s)
	switch name {
	case "len", "length":
		return nativeFn(name, func(args []runtime.Value) (runtime.Value, error) {
			return runtime.NewInt(int64(len([]rune(str)))), nil
		}), nil
	case "empty":
		return nativeFn(name, func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Bool(str == ""), nil
		}), nil
	case "toInt":
		return nativeFn(name, func(args []runtime.Value) (runtime.Value, error) {
			n, _ := strconv.ParseInt(strings.TrimSpace(str), 10, 64)
			return runtime.NewInt(n), nil
		}), nil
	case "toFloat":
		return nativeFn(name, func(args []runtime.Value) (runtime.Value, error) {
			f, _ := strconv.ParseFloat(strings.TrimSpace(str), 64)
			return runtime.Float(f), nil
		}), nil
	case "toUpper":
		return nativeFn(name, func(args []runtime.Value) (runtime.Value, error) {
			return runtime.String(cases.Upper(language.Und).String(str)), nil
		}), nil
	case "toLower":
		return nativeFn(name, func(args []runtime.Value) (runtime.Value, error) {
			return runtime.String(cases.Lower(language.Und).String(str)), nil
		}), nil
	case "getToken":
		return nativeFn(name, func(args []runtime.Value) (runtime.Value, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("getToken expects 1 argument")
			}
			idx, ok := args[0].(runtime.Int)
			if !ok {
				return nil, fmt.Errorf("getToken expects an int argument")
			}
			tokens := strings.Fields(str)
			if int(idx) < 0 || int(idx) >= len(tokens) {
				return runtime.String(""), nil
			}
			return runtime.String(tokens[idx]), nil
		}), nil
	case "substr":
		return nativeFn(name, func(args []runtime.Value) (runtime.Value, error) {
			if len(args) < 1 {
				return nil, fmt.Errorf("substr expects at least 1 argument")
			}
			runes := []rune(str)
			start, ok := args[0].(runtime.Int)
			if !ok || int(start) < 0 || int(start) > len(runes) {
				return nil, fmt.Errorf("substr start out of range")
			}
			end := len(runes)
			if len(args) > 1 {
				n, ok := args[1].(runtime.Int)
				if !ok {
					return nil, fmt.Errorf("substr length must be an int")
				}
				end = int(start) + int(n)
				if end > len(runes) {
					end = len(runes)
				}
			}
			return runtime.String(string(runes[start:end])), nil
		}), nil
	case "findFirst":
		return nativeFn(name, func(args []runtime.Value) (runtime.Value, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("findFirst expects 1 argument")
			}
			sub, ok := args[0].(runtime.String)
			if !ok {
				return nil, fmt.Errorf("findFirst expects a string argument")
			}
			return runtime.NewInt(int64(strings.Index(str, string(sub)))), nil
		}), nil
	default:
		return nil, i.runtimeErrorf(pos, "unknown string member %q", name)
	}
}

func nativeFn(name string, fn func(args []runtime.Value) (runtime.Value, error)) *runtime.NativeFunction {
	return &runtime.NativeFunction{Name: name, Fn: fn}
}
