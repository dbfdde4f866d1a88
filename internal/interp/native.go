package interp

import (
	"fmt"
	"reflect"
	"unicode"

	"github.com/mirelson/hscript/internal/runtime"
	"github.com/mirelson/hscript/internal/token"
)

// wrapNative converts an arbitrary host Go value into a script Value.
// Primitive host types are detected explicitly (nil, bool, string, the
// integer and float families); functions become callable
// NativeFunctions, slices of any wrap element-wise, and everything else
// stays an opaque runtime.Native resolved field-by-field through the
// reflect bridge below.
func wrapNative(host any) runtime.Value {
	switch v := host.(type) {
	case nil:
		return runtime.Null{}
	case runtime.Value:
		return v
	case bool:
		return runtime.Bool(v)
	case string:
		return runtime.String(v)
	case int:
		return runtime.NewInt(int64(v))
	case int8:
		return runtime.NewInt(int64(v))
	case int16:
		return runtime.NewInt(int64(v))
	case int32:
		return runtime.NewInt(int64(v))
	case int64:
		return runtime.NewInt(v)
	case uint:
		return runtime.NewInt(int64(v))
	case uint8:
		return runtime.NewInt(int64(v))
	case uint16:
		return runtime.NewInt(int64(v))
	case uint32:
		return runtime.NewInt(int64(v))
	case uint64:
		return runtime.NewInt(int64(v))
	case float32:
		return runtime.Float(float64(v))
	case float64:
		return runtime.Float(v)
	case []any:
		elems := make([]runtime.Value, len(v))
		for idx, e := range v {
			elems[idx] = wrapNative(e)
		}
		return &runtime.Array{Elements: elems}
	}
	rv := reflect.ValueOf(host)
	if rv.Kind() == reflect.Func {
		return wrapGoFunc(fmt.Sprintf("%T", host), rv)
	}
	return &runtime.Native{TypeName: fmt.Sprintf("%T", host), Host: host}
}

// unwrap converts a script Value to a plain Go value suitable for
// reflect.ValueOf, used when a native call's argument has no declared
// Go target type to convert against.
func unwrap(v runtime.Value) any {
	switch val := v.(type) {
	case runtime.Int:
		return int64(val)
	case runtime.Float:
		return float64(val)
	case runtime.String:
		return string(val)
	case runtime.Bool:
		return bool(val)
	case *runtime.Handle:
		if val.Ref == nil {
			return nil
		}
		return unwrap(val.Ref)
	case *runtime.Native:
		return val.Host
	case *runtime.Array:
		elems := make([]any, len(val.Elements))
		for idx, e := range val.Elements {
			elems[idx] = unwrap(e)
		}
		return elems
	default:
		return nil
	}
}

// convertReflectValue converts a script Value into a reflect.Value of
// targetType via a Kind-based switch (int family, float family, string,
// bool, slice, and pointer for a wrapped host of exactly that type) plus
// a passthrough for targetType == interface{} / any. Map targets are not
// converted.
func convertReflectValue(targetType reflect.Type, v runtime.Value) (reflect.Value, error) {
	switch targetType.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := asInt32(v)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected a numeric value, got %s", v.Type())
		}
		return reflect.ValueOf(n).Convert(targetType), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := asInt32(v)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected a numeric value, got %s", v.Type())
		}
		return reflect.ValueOf(uint64(n)).Convert(targetType), nil

	case reflect.Float32, reflect.Float64:
		f, ok := asNumeric(v)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected a numeric value, got %s", v.Type())
		}
		return reflect.ValueOf(f).Convert(targetType), nil

	case reflect.String:
		s, ok := v.(runtime.String)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected a string, got %s", v.Type())
		}
		return reflect.ValueOf(string(s)).Convert(targetType), nil

	case reflect.Bool:
		b, ok := v.(runtime.Bool)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected a bool, got %s", v.Type())
		}
		return reflect.ValueOf(bool(b)).Convert(targetType), nil

	case reflect.Slice:
		arr, ok := v.(*runtime.Array)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected an array, got %s", v.Type())
		}
		elemType := targetType.Elem()
		out := reflect.MakeSlice(targetType, len(arr.Elements), len(arr.Elements))
		for idx, e := range arr.Elements {
			ev, err := convertReflectValue(elemType, e)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("array element %d: %w", idx, err)
			}
			out.Index(idx).Set(ev)
		}
		return out, nil

	case reflect.Interface:
		return reflect.ValueOf(unwrap(v)), nil

	case reflect.Ptr:
		if h, ok := v.(*runtime.Handle); ok {
			if n, ok := h.Ref.(*runtime.Native); ok {
				if hv := reflect.ValueOf(n.Host); hv.Type() == targetType {
					return hv, nil
				}
			}
		}
		if n, ok := v.(*runtime.Native); ok {
			if hv := reflect.ValueOf(n.Host); hv.Type() == targetType {
				return hv, nil
			}
		}
		return reflect.Value{}, fmt.Errorf("cannot convert %s to %s", v.Type(), targetType)

	default:
		return reflect.Value{}, fmt.Errorf("unsupported native parameter type %s", targetType)
	}
}

// wrapGoResult converts a single Go return value back to a script Value.
func wrapGoResult(v reflect.Value) runtime.Value {
	if !v.IsValid() {
		return runtime.Void{}
	}
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return runtime.Null{}
		}
		return wrapNative(v.Interface())
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return runtime.NewInt(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return runtime.NewInt(int64(v.Uint()))
	case reflect.Float32, reflect.Float64:
		return runtime.Float(v.Float())
	case reflect.String:
		return runtime.String(v.String())
	case reflect.Bool:
		return runtime.Bool(v.Bool())
	case reflect.Slice, reflect.Array:
		elems := make([]runtime.Value, v.Len())
		for idx := 0; idx < v.Len(); idx++ {
			elems[idx] = wrapGoResult(v.Index(idx))
		}
		return &runtime.Array{Elements: elems}
	case reflect.Ptr, reflect.Struct, reflect.Map:
		if v.Kind() == reflect.Ptr && v.IsNil() {
			return &runtime.Handle{}
		}
		return wrapNative(v.Interface())
	default:
		return runtime.Void{}
	}
}

// exportedFieldName capitalizes a script identifier's first rune, the
// convention native registration expects a host struct to follow (script
// code writes `obj.count`, the Go struct exposes `Count`).
func exportedFieldName(name string) string {
	if name == "" {
		return name
	}
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// nativeMember resolves `native.member`: an exported struct field read
// directly, or an exported method wrapped as a callable NativeFunction.
func (i *Interpreter) nativeMember(n *runtime.Native, name string, pos token.Position) (runtime.Value, error) {
	rv := reflect.ValueOf(n.Host)
	exported := exportedFieldName(name)

	methodRV := rv.MethodByName(exported)
	if !methodRV.IsValid() && rv.Kind() != reflect.Ptr {
		if rv.CanAddr() {
			methodRV = rv.Addr().MethodByName(exported)
		}
	}
	if methodRV.IsValid() {
		return wrapGoFunc(exported, methodRV), nil
	}

	structVal := rv
	if structVal.Kind() == reflect.Ptr {
		if structVal.IsNil() {
			return nil, i.runtimeErrorf(pos, "nil native receiver accessing %q", name)
		}
		structVal = structVal.Elem()
	}
	if structVal.Kind() == reflect.Map {
		key := reflect.ValueOf(name)
		mv := structVal.MapIndex(key)
		if !mv.IsValid() {
			return nil, i.runtimeErrorf(pos, "unknown native member %q", name)
		}
		return wrapGoResult(mv), nil
	}
	if structVal.Kind() == reflect.Struct {
		field := structVal.FieldByName(exported)
		if field.IsValid() {
			return wrapGoResult(field), nil
		}
	}
	return nil, i.runtimeErrorf(pos, "unknown native member %q on %s", name, n.TypeName)
}

// wrapGoFunc wraps a reflect.Value function (or bound method) as a
// NativeFunction, converting each script argument to the declared Go
// parameter type.
func wrapGoFunc(name string, fn reflect.Value) *runtime.NativeFunction {
	return &runtime.NativeFunction{
		Name: name,
		Fn: func(args []runtime.Value) (runtime.Value, error) {
			fnType := fn.Type()
			if fnType.IsVariadic() {
				return nil, fmt.Errorf("variadic native functions are not supported")
			}
			if len(args) != fnType.NumIn() {
				return nil, fmt.Errorf("%s expects %d arguments, got %d", name, fnType.NumIn(), len(args))
			}
			in := make([]reflect.Value, len(args))
			for idx, arg := range args {
				rv, err := convertReflectValue(fnType.In(idx), arg)
				if err != nil {
					return nil, fmt.Errorf("argument %d: %w", idx, err)
				}
				in[idx] = rv
			}
			out := fn.Call(in)
			return methodResultToValue(out)
		},
	}
}

// methodResultToValue converts a Go method's return values to a single
// script Value: zero returns become Void, a trailing error return is
// surfaced as a Go error, and multiple non-error returns are wrapped in
// an Array.
func methodResultToValue(out []reflect.Value) (runtime.Value, error) {
	if len(out) == 0 {
		return runtime.Void{}, nil
	}
	last := out[len(out)-1]
	if last.Type().Implements(reflect.TypeOf((*error)(nil)).Elem()) {
		if !last.IsNil() {
			return nil, last.Interface().(error)
		}
		out = out[:len(out)-1]
	}
	switch len(out) {
	case 0:
		return runtime.Void{}, nil
	case 1:
		return wrapGoResult(out[0]), nil
	default:
		elems := make([]runtime.Value, len(out))
		for idx, v := range out {
			elems[idx] = wrapGoResult(v)
		}
		return &runtime.Array{Elements: elems}, nil
	}
}

// setNativeField writes to an exported field on a native host struct.
func (i *Interpreter) setNativeField(n *runtime.Native, name string, val runtime.Value, pos token.Position) error {
	rv := reflect.ValueOf(n.Host)
	if rv.Kind() != reflect.Ptr {
		return i.runtimeErrorf(pos, "native value %s is not addressable, cannot set %q", n.TypeName, name)
	}
	elem := rv.Elem()
	exported := exportedFieldName(name)
	if elem.Kind() == reflect.Map {
		elem.SetMapIndex(reflect.ValueOf(name), reflect.ValueOf(unwrap(val)))
		return nil
	}
	field := elem.FieldByName(exported)
	if !field.IsValid() || !field.CanSet() {
		return i.runtimeErrorf(pos, "unknown or unsettable native field %q on %s", name, n.TypeName)
	}
	rval, err := convertReflectValue(field.Type(), val)
	if err != nil {
		return i.runtimeErrorf(pos, "field %q: %v", name, err)
	}
	field.Set(rval)
	return nil
}

// nativeIndexGet supports indexing a native Go slice, array, or
// map[string]T host value with `native[idx]`.
func (i *Interpreter) nativeIndexGet(n *runtime.Native, idxVal runtime.Value, pos token.Position) (runtime.Value, error) {
	rv := reflect.ValueOf(n.Host)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		idx, ok := idxVal.(runtime.Int)
		if !ok || int(idx) < 0 || int(idx) >= rv.Len() {
			return nil, i.runtimeErrorf(pos, "native index out of range")
		}
		return wrapGoResult(rv.Index(int(idx))), nil
	case reflect.Map:
		key, ok := idxVal.(runtime.String)
		if !ok {
			return nil, i.runtimeErrorf(pos, "native map index must be a string")
		}
		mv := rv.MapIndex(reflect.ValueOf(string(key)))
		if !mv.IsValid() {
			return nil, i.runtimeErrorf(pos, "no such key %q in native map", string(key))
		}
		return wrapGoResult(mv), nil
	default:
		return nil, i.runtimeErrorf(pos, "native value %s is not indexable", n.TypeName)
	}
}

// nativeIndexSet supports `native[idx] = value` on a native Go slice or
// map[string]T host value.
func (i *Interpreter) nativeIndexSet(n *runtime.Native, idxVal, val runtime.Value, pos token.Position) error {
	rv := reflect.ValueOf(n.Host)
	switch rv.Kind() {
	case reflect.Slice:
		idx, ok := idxVal.(runtime.Int)
		if !ok || int(idx) < 0 || int(idx) >= rv.Len() {
			return i.runtimeErrorf(pos, "native index out of range")
		}
		rval, err := convertReflectValue(rv.Type().Elem(), val)
		if err != nil {
			return i.runtimeErrorf(pos, "native index assignment: %v", err)
		}
		rv.Index(int(idx)).Set(rval)
		return nil
	case reflect.Map:
		key, ok := idxVal.(runtime.String)
		if !ok {
			return i.runtimeErrorf(pos, "native map index must be a string")
		}
		rval, err := convertReflectValue(rv.Type().Elem(), val)
		if err != nil {
			return i.runtimeErrorf(pos, "native map assignment: %v", err)
		}
		rv.SetMapIndex(reflect.ValueOf(string(key)), rval)
		return nil
	default:
		return i.runtimeErrorf(pos, "native value %s is not indexable", n.TypeName)
	}
}
