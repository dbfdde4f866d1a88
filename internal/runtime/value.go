// Package runtime defines the runtime value model, lexical environment,
// and control-flow signal used by the evaluator: a narrow Value
// interface plus a fixed set of concrete implementers, switched on
// exhaustively by the evaluator.
package runtime

import (
	"math"
	"strconv"
)

// Value is implemented by every runtime value kind: Int, Float, Bool,
// String, Null, Void, *Object, *Native, *Handle, *Array, *Function,
// *NativeFunction.
type Value interface {
	Type() string
	String() string
}

// NumericValue is implemented by values usable in arithmetic.
type NumericValue interface {
	Value
	AsFloat() float64
}

// Int is a 32-bit two's-complement integer: integral values are
// truncated to 32-bit two's-complement semantics on construction.
type Int int32

// NewInt truncates v to 32-bit two's-complement range, equivalent to
// `value | 0`.
func NewInt(v int64) Int { return Int(int32(v)) }

func (i Int) Type() string     { return "int" }
func (i Int) String() string   { return strconv.FormatInt(int64(i), 10) }
func (i Int) AsFloat() float64 { return float64(i) }

// Float is a 64-bit floating point value.
type Float float64

func (f Float) Type() string     { return "float" }
func (f Float) String() string   { return strconv.FormatFloat(float64(f), 'g', -1, 64) }
func (f Float) AsFloat() float64 { return float64(f) }

// Bool is a boolean value.
type Bool bool

func (b Bool) Type() string   { return "bool" }
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// String is a string value.
type String string

func (s String) Type() string   { return "string" }
func (s String) String() string { return string(s) }

// Null is the literal `null` value.
type Null struct{}

func (Null) Type() string   { return "null" }
func (Null) String() string { return "null" }

// Void is the result of a statement or call with no meaningful value
// (e.g. a function declared `void`).
type Void struct{}

func (Void) Type() string   { return "void" }
func (Void) String() string { return "" }

// Truthy reports the boolean condition value of v.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case Bool:
		return bool(val)
	case Int:
		return val != 0
	case Float:
		return val != 0
	case String:
		return val != ""
	case Null, Void:
		return false
	case *Handle:
		return val.Ref != nil
	case *Array:
		return true
	default:
		return true
	}
}

// Equal compares two values: handles by reference identity, ints/floats
// numerically with cross-kind promotion, strings/bools by value, objects
// by identity, null equals only null.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Int:
		switch bv := b.(type) {
		case Int:
			return av == bv
		case Float:
			return float64(av) == float64(bv)
		}
		return false
	case Float:
		switch bv := b.(type) {
		case Int:
			return float64(av) == float64(bv)
		case Float:
			return av == bv
		}
		return false
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Null:
		_, ok := b.(Null)
		return ok
	case Void:
		_, ok := b.(Void)
		return ok
	case *Handle:
		bv, ok := b.(*Handle)
		return ok && av.Ref == bv.Ref
	case *Object:
		bv, ok := b.(*Object)
		return ok && av == bv
	case *Native:
		bv, ok := b.(*Native)
		return ok && av == bv
	default:
		return false
	}
}

// DefaultForPrimitive returns the zero value for a primitive type name,
// or (nil, false) if name is not a recognized primitive.
func DefaultForPrimitive(name string) (Value, bool) {
	switch name {
	case "int", "uint", "int8", "uint8", "int16", "uint16", "int32", "uint32", "int64", "uint64":
		return Int(0), true
	case "float", "double":
		return Float(0), true
	case "bool":
		return Bool(false), true
	case "string":
		return String(""), true
	case "void":
		return Void{}, true
	default:
		return nil, false
	}
}

// IsNaN reports whether v is a Float holding NaN (used by testable
// equality-reflexivity properties, which exclude NaN).
func IsNaN(v Value) bool {
	f, ok := v.(Float)
	return ok && math.IsNaN(float64(f))
}
