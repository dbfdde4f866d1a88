package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mirelson/hscript/internal/lexer"
	"github.com/mirelson/hscript/internal/parser"
	"github.com/mirelson/hscript/internal/runtime"
	"github.com/mirelson/hscript/internal/token"
)

// newRunInterp lexes, parses, and loads src into a fresh Interpreter
// writing output to buf, failing the test on any lex/parse/runtime error.
func newRunInterp(t *testing.T, src string, buf *bytes.Buffer) *Interpreter {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l, src, "<test>")
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parser errors: %v", errs)
	}
	i := New(buf)
	if err := i.Run(program, src, "<test>"); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return i
}

func TestCounterClassHandleConstructor(t *testing.T) {
	var buf bytes.Buffer
	src := `
class Counter {
	int value;
	Counter(int start) { value = start; }
	void increment() { value = value + 1; }
	int get() { return value; }
}

Counter@ makeCounter(int start) {
	Counter@ c = new Counter(start);
	return c;
}
`
	i := newRunInterp(t, src, &buf)

	result, err := i.CallFunction("makeCounter", []runtime.Value{runtime.NewInt(5)})
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	h, ok := result.(*runtime.Handle)
	if !ok || h.Ref == nil {
		t.Fatalf("expected a non-null handle, got %#v", result)
	}
	obj, ok := h.Ref.(*runtime.Object)
	if !ok {
		t.Fatalf("expected handle to reference an Object, got %T", h.Ref)
	}
	if v, _ := obj.Fields["value"].(runtime.Int); v != 5 {
		t.Fatalf("expected value=5, got %v", obj.Fields["value"])
	}

	if _, err := i.callMethod(result, "increment", nil, token.Position{}); err != nil {
		t.Fatalf("increment call failed: %v", err)
	}
	if v, _ := obj.Fields["value"].(runtime.Int); v != 6 {
		t.Fatalf("expected value=6 after increment, got %v", obj.Fields["value"])
	}
}

func TestSwitchFallThrough(t *testing.T) {
	var buf bytes.Buffer
	src := `
int classify(int n) {
	int result = 0;
	switch (n) {
	case 1:
	case 2:
		result = 12;
		break;
	case 3:
		result = 3;
		break;
	default:
		result = -1;
	}
	return result;
}
`
	i := newRunInterp(t, src, &buf)

	for _, tt := range []struct {
		in, want int64
	}{
		{1, 12}, {2, 12}, {3, 3}, {4, -1},
	} {
		result, err := i.CallFunction("classify", []runtime.Value{runtime.NewInt(tt.in)})
		if err != nil {
			t.Fatalf("classify(%d) failed: %v", tt.in, err)
		}
		if iv, ok := result.(runtime.Int); !ok || int64(iv) != tt.want {
			t.Fatalf("classify(%d) = %v, want %d", tt.in, result, tt.want)
		}
	}
}

func TestShortCircuitSideEffect(t *testing.T) {
	var buf bytes.Buffer
	src := `
int counter = 0;

bool markAndReturn(bool v) {
	counter = counter + 1;
	return v;
}

bool runAnd() {
	return markAndReturn(false) && markAndReturn(true);
}

bool runOr() {
	return markAndReturn(true) || markAndReturn(false);
}
`
	i := newRunInterp(t, src, &buf)

	if _, err := i.CallFunction("runAnd", nil); err != nil {
		t.Fatalf("runAnd failed: %v", err)
	}
	v, _ := i.Global("counter")
	if iv, _ := v.(runtime.Int); iv != 1 {
		t.Fatalf("expected && to short-circuit after 1 call, counter=%v", v)
	}

	i.DefineGlobal("counter", runtime.NewInt(0))
	if _, err := i.CallFunction("runOr", nil); err != nil {
		t.Fatalf("runOr failed: %v", err)
	}
	v, _ = i.Global("counter")
	if iv, _ := v.(runtime.Int); iv != 1 {
		t.Fatalf("expected || to short-circuit after 1 call, counter=%v", v)
	}
}

func TestHandleAliasingIdentity(t *testing.T) {
	var buf bytes.Buffer
	src := `
class Box {
	int n;
}

Box@ makeBox() {
	Box@ a = new Box();
	a.n = 1;
	Box@ b = a;
	b.n = 2;
	return a;
}
`
	i := newRunInterp(t, src, &buf)
	result, err := i.CallFunction("makeBox", nil)
	if err != nil {
		t.Fatalf("makeBox failed: %v", err)
	}
	h := result.(*runtime.Handle)
	obj := h.Ref.(*runtime.Object)
	if v, _ := obj.Fields["n"].(runtime.Int); v != 2 {
		t.Fatalf("expected aliasing a handle to mutate the shared Object, n=%v", obj.Fields["n"])
	}
}

func TestArrayPushPopResize(t *testing.T) {
	var buf bytes.Buffer
	src := `
int arrayOps() {
	int arr(0);
	arr.push(10);
	arr.push(20);
	arr.push(30);
	int popped = arr.pop();
	arr.resize(5);
	return arr.size() * 1000 + popped;
}
`
	i := newRunInterp(t, src, &buf)
	result, err := i.CallFunction("arrayOps", nil)
	if err != nil {
		t.Fatalf("arrayOps failed: %v", err)
	}
	if iv, _ := result.(runtime.Int); iv != 5030 {
		t.Fatalf("expected size=5 popped=30 (5030), got %v", result)
	}
}

func TestNativeBridgeHostFunction(t *testing.T) {
	var buf bytes.Buffer
	i := New(&buf)
	i.RegisterNativeFunction("HostDouble", func(args []runtime.Value) (runtime.Value, error) {
		n := args[0].(runtime.Int)
		return runtime.NewInt(int64(n) * 2), nil
	})

	src := `
int useHost(int n) {
	return HostDouble(n);
}
`
	l := lexer.New(src)
	p := parser.New(l, src, "<test>")
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parser errors: %v", errs)
	}
	if err := i.Run(program, src, "<test>"); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	result, err := i.CallFunction("useHost", []runtime.Value{runtime.NewInt(21)})
	if err != nil {
		t.Fatalf("useHost failed: %v", err)
	}
	if iv, _ := result.(runtime.Int); iv != 42 {
		t.Fatalf("expected 42, got %v", result)
	}
}

func TestEnumMemberAccess(t *testing.T) {
	var buf bytes.Buffer
	src := `
enum Color { Red, Green, Blue }

int colorValue() {
	return Color::Blue;
}
`
	i := newRunInterp(t, src, &buf)
	result, err := i.CallFunction("colorValue", nil)
	if err != nil {
		t.Fatalf("colorValue failed: %v", err)
	}
	if iv, _ := result.(runtime.Int); iv != 2 {
		t.Fatalf("expected Blue=2, got %v", result)
	}
}

func TestPrintOutputsToWriter(t *testing.T) {
	var buf bytes.Buffer
	// No print builtin is exposed by default, so exercise
	// SetOutput/Output via a registered native instead.
	i := New(&buf)
	i.RegisterNativeFunction("Print", func(args []runtime.Value) (runtime.Value, error) {
		i.Output().Write([]byte(args[0].String()))
		return runtime.Void{}, nil
	})
	src := `void say() { Print("hi"); }`
	l := lexer.New(src)
	p := parser.New(l, src, "<test>")
	program := p.ParseProgram()
	if err := i.Run(program, src, "<test>"); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if _, err := i.CallFunction("say", nil); err != nil {
		t.Fatalf("say failed: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "hi" {
		t.Fatalf("expected output %q, got %q", "hi", got)
	}
}
