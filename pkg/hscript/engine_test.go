package hscript

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mirelson/hscript/internal/runtime"
)

func loadEngine(t *testing.T, src string, opts ...Option) *Engine {
	t.Helper()
	e := New(opts...)
	if err := e.Load(src); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return e
}

func callInt(t *testing.T, e *Engine, fn string, args []Value, want int64) {
	t.Helper()
	result, err := e.Call(fn, args...)
	if err != nil {
		t.Fatalf("%s failed: %v", fn, err)
	}
	iv, ok := result.(runtime.Int)
	if !ok || int64(iv) != want {
		t.Fatalf("%s = %v, want %d", fn, result, want)
	}
}

func TestCounterClass(t *testing.T) {
	e := loadEngine(t, `
class TestClass {
	int v;
	TestClass(int initial) { v = initial; }
	void inc() { v++; }
}
int main(int start) {
	TestClass t = new TestClass(start);
	t.inc(); t.inc(); t.inc();
	return t.v;
}
`)
	callInt(t, e, "main", []Value{runtime.NewInt(12)}, 15)
}

func TestFallThroughSwitch(t *testing.T) {
	e := loadEngine(t, `
int f(int x) {
	switch (x) {
	case 1:
	case 2:
		return 20;
	case 3:
		return 30;
	default:
		return 0;
	}
	return -1;
}
`)
	for in, want := range map[int64]int64{1: 20, 2: 20, 3: 30, 9: 0} {
		callInt(t, e, "f", []Value{runtime.NewInt(in)}, want)
	}
}

func TestShortCircuitWithSideEffectMarker(t *testing.T) {
	e := loadEngine(t, `
int c = 0;
bool side() { c++; return true; }
bool r = false && side();
`)
	c, ok := e.GetGlobal("c")
	if !ok {
		t.Fatalf("expected c to be defined")
	}
	if iv, _ := c.(runtime.Int); iv != 0 {
		t.Fatalf("expected side() never to run, c = %v", c)
	}
	r, _ := e.GetGlobal("r")
	if bv, _ := r.(runtime.Bool); bool(bv) {
		t.Fatalf("expected r to be false, got %v", r)
	}
}

func TestHandleAliasing(t *testing.T) {
	e := loadEngine(t, `
class Box { int n; }
int run() {
	Box a;
	a.n = 5;
	Box@ h = @a;
	h.n = 9;
	return a.n;
}
bool identity() {
	Box a;
	Box@ h1 = @a;
	Box@ h2 = @a;
	return h1 == h2;
}
`)
	callInt(t, e, "run", nil, 9)

	result, err := e.Call("identity")
	if err != nil {
		t.Fatalf("identity failed: %v", err)
	}
	if bv, _ := result.(runtime.Bool); !bool(bv) {
		t.Fatalf("expected two handles to the same object to compare equal")
	}
}

func TestArrayOperations(t *testing.T) {
	e := loadEngine(t, `
int run() {
	int[] xs;
	xs.push(1); xs.push(2); xs.push(3);
	int s = xs.size();
	int idx = xs.find(2);
	xs.removeAt(0);
	return s * 10000 + idx * 1000 + xs.size() * 100 + xs[0];
}
`)
	callInt(t, e, "run", nil, 31202)
}

func TestNativeBridgePrint(t *testing.T) {
	var buf bytes.Buffer
	e := New(WithOutput(&buf))
	err := e.RegisterFunction("G_Print", func(args []Value) (Value, error) {
		for _, a := range args {
			e.Output().Write([]byte(a.String()))
		}
		return runtime.Void{}, nil
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := e.Load(`void main() { G_Print("x=" + 3); }`); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, err := e.Call("main"); err != nil {
		t.Fatalf("main failed: %v", err)
	}
	if got := buf.String(); got != "x=3" {
		t.Fatalf("expected output %q, got %q", "x=3", got)
	}
}

func TestRegisterGlobalsAndInts(t *testing.T) {
	e := New()
	if err := e.RegisterInt("limit", 10); err != nil {
		t.Fatalf("RegisterInt failed: %v", err)
	}
	if err := e.RegisterGlobal("greeting", runtime.String("hi")); err != nil {
		t.Fatalf("RegisterGlobal failed: %v", err)
	}
	if err := e.Load(`string shout() { return greeting + "/" + limit; }`); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	result, err := e.Call("shout")
	if err != nil {
		t.Fatalf("shout failed: %v", err)
	}
	if sv, _ := result.(runtime.String); sv != "hi/10" {
		t.Fatalf("shout = %v, want hi/10", result)
	}
}

func TestGetSetGlobal(t *testing.T) {
	e := loadEngine(t, `int n = 1;`)
	if err := e.SetGlobal("n", runtime.NewInt(7)); err != nil {
		t.Fatalf("SetGlobal failed: %v", err)
	}
	v, ok := e.GetGlobal("n")
	if !ok {
		t.Fatalf("expected n to exist")
	}
	if iv, _ := v.(runtime.Int); iv != 7 {
		t.Fatalf("n = %v, want 7", v)
	}
	if _, ok := e.GetGlobal("missing"); ok {
		t.Fatalf("expected missing global to be absent")
	}
}

type stopwatch struct {
	Elapsed int
}

func (s *stopwatch) Tick(by int) int {
	s.Elapsed += by
	return s.Elapsed
}

func TestRegisterObject(t *testing.T) {
	e := New()
	sw := &stopwatch{}
	if err := e.RegisterObject("clock", sw, "Stopwatch"); err != nil {
		t.Fatalf("RegisterObject failed: %v", err)
	}
	if err := e.Load(`int run() { clock.tick(5); clock.tick(2); return clock.elapsed; }`); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	callInt(t, e, "run", nil, 7)
	if sw.Elapsed != 7 {
		t.Fatalf("expected the host object to be mutated, got %d", sw.Elapsed)
	}
}

func TestRegisterClassFactory(t *testing.T) {
	e := New()
	err := e.RegisterClass("Stopwatch", func(args []Value) (any, error) {
		start := 0
		if len(args) > 0 {
			if iv, ok := args[0].(runtime.Int); ok {
				start = int(iv)
			}
		}
		return &stopwatch{Elapsed: start}, nil
	})
	if err != nil {
		t.Fatalf("RegisterClass failed: %v", err)
	}
	if err := e.Load(`int run() { return Stopwatch(40).tick(2); }`); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	callInt(t, e, "run", nil, 42)
}

func TestLoadReportsParseErrors(t *testing.T) {
	e := New()
	err := e.Load(`int f( { }`)
	if err == nil {
		t.Fatalf("expected a parse error")
	}
	if !strings.Contains(err.Error(), "error") {
		t.Fatalf("unexpected error text: %v", err)
	}
}

func TestCallUnknownFunction(t *testing.T) {
	e := loadEngine(t, `int f() { return 1; }`)
	if _, err := e.Call("nope"); err == nil {
		t.Fatalf("expected an undefined-function error")
	}
}

func TestVoidFunctionReturnsVoid(t *testing.T) {
	e := loadEngine(t, `void f() { int x = 1; }`)
	result, err := e.Call("f")
	if err != nil {
		t.Fatalf("f failed: %v", err)
	}
	if _, ok := result.(runtime.Void); !ok {
		t.Fatalf("expected Void, got %T", result)
	}
}

func TestMissingArgumentsDefaultPerType(t *testing.T) {
	e := loadEngine(t, `
string f(int a, string b, bool c) { return a + "/" + b + "/" + c; }
`)
	result, err := e.Call("f", runtime.NewInt(1))
	if err != nil {
		t.Fatalf("f failed: %v", err)
	}
	if sv, _ := result.(runtime.String); sv != "1//false" {
		t.Fatalf("f(1) = %v, want 1//false", result)
	}
}

func TestFunctionFramesParentToGlobals(t *testing.T) {
	e := loadEngine(t, `
int g = 100;
int outer() {
	int local = 5;
	return inner();
}
int inner() { return g; }
int leaky() { int hidden = 5; return leak(); }
int leak() { return hidden; }
`)
	// inner() sees the global through its frame's parent.
	callInt(t, e, "outer", nil, 100)

	// leak() must not see leaky()'s locals: frames parent to globals,
	// never to the caller's scope.
	if _, err := e.Call("leaky"); err == nil || !strings.Contains(err.Error(), "hidden") {
		t.Fatalf("expected an undefined-identifier error for hidden, got %v", err)
	}
}

func TestWithTraceCallback(t *testing.T) {
	var traced []string
	e := New(WithTrace(func(pos, msg string) {
		traced = append(traced, msg)
	}))
	if err := e.Load(`int f() { int x = 1; return x; }`); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, err := e.Call("f"); err != nil {
		t.Fatalf("f failed: %v", err)
	}
	if len(traced) == 0 {
		t.Fatalf("expected the trace callback to fire")
	}
}
