package builtins

import (
	"math"
	"testing"

	"github.com/mirelson/hscript/internal/runtime"
)

// fakeRegistrar records registrations without needing an interpreter.
type fakeRegistrar struct {
	fns     map[string]func(args []runtime.Value) (runtime.Value, error)
	globals map[string]runtime.Value
}

func newFakeRegistrar() *fakeRegistrar {
	return &fakeRegistrar{
		fns:     make(map[string]func(args []runtime.Value) (runtime.Value, error)),
		globals: make(map[string]runtime.Value),
	}
}

func (r *fakeRegistrar) RegisterNativeFunction(name string, fn func(args []runtime.Value) (runtime.Value, error)) {
	r.fns[name] = fn
}

func (r *fakeRegistrar) DefineGlobal(name string, v runtime.Value) {
	r.globals[name] = v
}

func TestRegisterMathInstallsAllFunctions(t *testing.T) {
	r := newFakeRegistrar()
	RegisterMath(r)
	for _, name := range []string{"Sqrt", "Abs", "Min", "Max", "Pow", "Floor", "Ceil", "Sign", "Pi", "Infinity", "NaN", "IsNaN"} {
		if _, ok := r.fns[name]; !ok {
			t.Errorf("expected %s to be registered", name)
		}
	}
}

func TestSqrt(t *testing.T) {
	v, err := builtinSqrt([]runtime.Value{runtime.NewInt(9)})
	if err != nil {
		t.Fatalf("Sqrt(9) failed: %v", err)
	}
	if fv, ok := v.(runtime.Float); !ok || fv != 3 {
		t.Fatalf("Sqrt(9) = %v, want Float(3)", v)
	}

	if _, err := builtinSqrt([]runtime.Value{runtime.Float(-1)}); err == nil {
		t.Fatalf("expected Sqrt of a negative number to error")
	}
	if _, err := builtinSqrt([]runtime.Value{runtime.String("x")}); err == nil {
		t.Fatalf("expected Sqrt of a string to error")
	}
}

func TestAbsPreservesKind(t *testing.T) {
	v, err := builtinAbs([]runtime.Value{runtime.NewInt(-4)})
	if err != nil {
		t.Fatalf("Abs(-4) failed: %v", err)
	}
	if iv, ok := v.(runtime.Int); !ok || iv != 4 {
		t.Fatalf("Abs(-4) = %v, want Int(4)", v)
	}

	v, err = builtinAbs([]runtime.Value{runtime.Float(-2.5)})
	if err != nil {
		t.Fatalf("Abs(-2.5) failed: %v", err)
	}
	if fv, ok := v.(runtime.Float); !ok || fv != 2.5 {
		t.Fatalf("Abs(-2.5) = %v, want Float(2.5)", v)
	}
}

func TestMinMaxMixedKinds(t *testing.T) {
	v, err := builtinMin([]runtime.Value{runtime.NewInt(3), runtime.Float(2.5)})
	if err != nil {
		t.Fatalf("Min failed: %v", err)
	}
	if fv, ok := v.(runtime.Float); !ok || fv != 2.5 {
		t.Fatalf("Min(3, 2.5) = %v, want Float(2.5)", v)
	}

	v, err = builtinMax([]runtime.Value{runtime.NewInt(3), runtime.Float(2.5)})
	if err != nil {
		t.Fatalf("Max failed: %v", err)
	}
	if iv, ok := v.(runtime.Int); !ok || iv != 3 {
		t.Fatalf("Max(3, 2.5) = %v, want Int(3)", v)
	}
}

func TestFloorCeilSign(t *testing.T) {
	if v, _ := builtinFloor([]runtime.Value{runtime.Float(2.9)}); v != runtime.Int(2) {
		t.Errorf("Floor(2.9) = %v, want 2", v)
	}
	if v, _ := builtinCeil([]runtime.Value{runtime.Float(2.1)}); v != runtime.Int(3) {
		t.Errorf("Ceil(2.1) = %v, want 3", v)
	}
	if v, _ := builtinSign([]runtime.Value{runtime.Float(-0.5)}); v != runtime.Int(-1) {
		t.Errorf("Sign(-0.5) = %v, want -1", v)
	}
	if v, _ := builtinSign([]runtime.Value{runtime.NewInt(0)}); v != runtime.Int(0) {
		t.Errorf("Sign(0) = %v, want 0", v)
	}
}

func TestConstantsAndIsNaN(t *testing.T) {
	v, _ := builtinPi(nil)
	if fv, ok := v.(runtime.Float); !ok || float64(fv) != math.Pi {
		t.Errorf("Pi() = %v", v)
	}

	v, _ = builtinNaN(nil)
	isNaN, _ := builtinIsNaN([]runtime.Value{v})
	if isNaN != runtime.Bool(true) {
		t.Errorf("expected IsNaN(NaN()) to be true")
	}
	isNaN, _ = builtinIsNaN([]runtime.Value{runtime.NewInt(1)})
	if isNaN != runtime.Bool(false) {
		t.Errorf("expected IsNaN(1) to be false")
	}
}
