// Package builtins registers native functions into a freshly created
// interp.Interpreter: a flat per-concern file split, each function
// checking its own argument count and types against this interpreter's
// NativeFunction signature (func(args []runtime.Value) (runtime.Value, error)).
package builtins

import (
	"fmt"
	"math"

	"github.com/mirelson/hscript/internal/runtime"
)

// RegisterMath installs Sqrt, Abs, Min, Max, Pow, Floor, Ceil, Sign, and
// the Pi/Infinity/NaN constants as global native functions.
func RegisterMath(i Registrar) {
	i.RegisterNativeFunction("Sqrt", builtinSqrt)
	i.RegisterNativeFunction("Abs", builtinAbs)
	i.RegisterNativeFunction("Min", builtinMin)
	i.RegisterNativeFunction("Max", builtinMax)
	i.RegisterNativeFunction("Pow", builtinPow)
	i.RegisterNativeFunction("Floor", builtinFloor)
	i.RegisterNativeFunction("Ceil", builtinCeil)
	i.RegisterNativeFunction("Sign", builtinSign)
	i.RegisterNativeFunction("Pi", builtinPi)
	i.RegisterNativeFunction("Infinity", builtinInfinity)
	i.RegisterNativeFunction("NaN", builtinNaN)
	i.RegisterNativeFunction("IsNaN", builtinIsNaN)
}

// Registrar is the subset of *interp.Interpreter this package depends on,
// kept narrow so internal/builtins never needs to import internal/ast.
type Registrar interface {
	RegisterNativeFunction(name string, fn func(args []runtime.Value) (runtime.Value, error))
	DefineGlobal(name string, v runtime.Value)
}

func asFloat(v runtime.Value) (float64, bool) {
	nv, ok := v.(runtime.NumericValue)
	if !ok {
		return 0, false
	}
	return nv.AsFloat(), true
}

// builtinSqrt implements Sqrt(x): always returns a Float, even for an
// Int argument, and errors on a negative operand.
func builtinSqrt(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("Sqrt() expects exactly 1 argument, got %d", len(args))
	}
	f, ok := asFloat(args[0])
	if !ok {
		return nil, fmt.Errorf("Sqrt() expects a numeric argument, got %s", args[0].Type())
	}
	if f < 0 {
		return nil, fmt.Errorf("Sqrt() of negative number (%g)", f)
	}
	return runtime.Float(math.Sqrt(f)), nil
}

// builtinAbs implements Abs(x), preserving the operand's kind (Int stays
// Int, Float stays Float).
func builtinAbs(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("Abs() expects exactly 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case runtime.Int:
		if v < 0 {
			return runtime.NewInt(int64(-v)), nil
		}
		return v, nil
	case runtime.Float:
		return runtime.Float(math.Abs(float64(v))), nil
	default:
		return nil, fmt.Errorf("Abs() expects Int or Float, got %s", args[0].Type())
	}
}

// builtinMin implements Min(a, b): mixed Int/Float arguments promote to
// Float for the comparison itself, but the winning argument's own kind
// (Int or Float) is returned unchanged.
func builtinMin(args []runtime.Value) (runtime.Value, error) {
	return minMax(args, "Min", func(a, b float64) bool { return a < b })
}

// builtinMax implements Max(a, b).
func builtinMax(args []runtime.Value) (runtime.Value, error) {
	return minMax(args, "Max", func(a, b float64) bool { return a > b })
}

func minMax(args []runtime.Value, name string, better func(a, b float64) bool) (runtime.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%s() expects exactly 2 arguments, got %d", name, len(args))
	}
	lf, lok := asFloat(args[0])
	rf, rok := asFloat(args[1])
	if !lok || !rok {
		return nil, fmt.Errorf("%s() expects numeric arguments, got %s and %s", name, args[0].Type(), args[1].Type())
	}
	_, lInt := args[0].(runtime.Int)
	_, rInt := args[1].(runtime.Int)
	if better(lf, rf) {
		if lInt {
			return args[0], nil
		}
		return runtime.Float(lf), nil
	}
	if rInt {
		return args[1], nil
	}
	return runtime.Float(rf), nil
}

// builtinPow implements Pow(base, exponent), always returning a Float.
func builtinPow(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("Pow() expects exactly 2 arguments, got %d", len(args))
	}
	base, ok1 := asFloat(args[0])
	exp, ok2 := asFloat(args[1])
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("Pow() expects numeric arguments, got %s and %s", args[0].Type(), args[1].Type())
	}
	return runtime.Float(math.Pow(base, exp)), nil
}

// builtinFloor implements Floor(x), always returning an Int.
func builtinFloor(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("Floor() expects exactly 1 argument, got %d", len(args))
	}
	f, ok := asFloat(args[0])
	if !ok {
		return nil, fmt.Errorf("Floor() expects a numeric argument, got %s", args[0].Type())
	}
	return runtime.NewInt(int64(math.Floor(f))), nil
}

// builtinCeil implements Ceil(x), always returning an Int.
func builtinCeil(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("Ceil() expects exactly 1 argument, got %d", len(args))
	}
	f, ok := asFloat(args[0])
	if !ok {
		return nil, fmt.Errorf("Ceil() expects a numeric argument, got %s", args[0].Type())
	}
	return runtime.NewInt(int64(math.Ceil(f))), nil
}

// builtinSign implements Sign(x): -1, 0, or 1.
func builtinSign(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("Sign() expects exactly 1 argument, got %d", len(args))
	}
	f, ok := asFloat(args[0])
	if !ok {
		return nil, fmt.Errorf("Sign() expects a numeric argument, got %s", args[0].Type())
	}
	switch {
	case f > 0:
		return runtime.NewInt(1), nil
	case f < 0:
		return runtime.NewInt(-1), nil
	default:
		return runtime.NewInt(0), nil
	}
}

// builtinPi implements Pi(): the mathematical constant π.
func builtinPi(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("Pi() expects no arguments, got %d", len(args))
	}
	return runtime.Float(math.Pi), nil
}

// builtinInfinity implements Infinity().
func builtinInfinity(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("Infinity() expects no arguments, got %d", len(args))
	}
	return runtime.Float(math.Inf(1)), nil
}

// builtinNaN implements NaN().
func builtinNaN(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("NaN() expects no arguments, got %d", len(args))
	}
	return runtime.Float(math.NaN()), nil
}

// builtinIsNaN implements IsNaN(x): a non-Float argument is never NaN.
func builtinIsNaN(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("IsNaN() expects exactly 1 argument, got %d", len(args))
	}
	f, ok := args[0].(runtime.Float)
	if !ok {
		return runtime.Bool(false), nil
	}
	return runtime.Bool(math.IsNaN(float64(f))), nil
}
