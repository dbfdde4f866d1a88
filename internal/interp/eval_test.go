package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mirelson/hscript/internal/runtime"
)

// callInt runs fn with no arguments and asserts the Int result.
func callInt(t *testing.T, i *Interpreter, fn string, want int64) {
	t.Helper()
	result, err := i.CallFunction(fn, nil)
	if err != nil {
		t.Fatalf("%s failed: %v", fn, err)
	}
	iv, ok := result.(runtime.Int)
	if !ok || int64(iv) != want {
		t.Fatalf("%s = %v, want %d", fn, result, want)
	}
}

func TestIntOverflowTruncatesTo32Bits(t *testing.T) {
	var buf bytes.Buffer
	src := `
int addOverflow() { return 2147483647 + 1; }
int shiftOverflow() { return 1 << 31; }
`
	i := newRunInterp(t, src, &buf)
	callInt(t, i, "addOverflow", -2147483648)
	callInt(t, i, "shiftOverflow", -2147483648)
}

func TestDivisionAndModuloByZeroYieldZero(t *testing.T) {
	var buf bytes.Buffer
	src := `
int divZero() { return 7 / 0; }
int modZero() { return 7 % 0; }
int intDiv() { return 7 / 2; }
`
	i := newRunInterp(t, src, &buf)
	callInt(t, i, "divZero", 0)
	callInt(t, i, "modZero", 0)
	callInt(t, i, "intDiv", 3)
}

func TestFloatArithmeticFollowsLeftOperand(t *testing.T) {
	var buf bytes.Buffer
	src := `
float leftFloat() { return 7.0 / 2; }
int leftInt() { return 7 / 2.0; }
`
	i := newRunInterp(t, src, &buf)

	result, err := i.CallFunction("leftFloat", nil)
	if err != nil {
		t.Fatalf("leftFloat failed: %v", err)
	}
	if fv, ok := result.(runtime.Float); !ok || fv != 3.5 {
		t.Fatalf("leftFloat = %v, want Float(3.5)", result)
	}
	callInt(t, i, "leftInt", 3)
}

func TestStringConcatenation(t *testing.T) {
	var buf bytes.Buffer
	src := `
string leftStr() { return "x=" + 3; }
string rightStr() { return 3 + "=x"; }
`
	i := newRunInterp(t, src, &buf)

	for fn, want := range map[string]string{"leftStr": "x=3", "rightStr": "3=x"} {
		result, err := i.CallFunction(fn, nil)
		if err != nil {
			t.Fatalf("%s failed: %v", fn, err)
		}
		if sv, ok := result.(runtime.String); !ok || string(sv) != want {
			t.Fatalf("%s = %v, want %q", fn, result, want)
		}
	}
}

func TestIncrementDecrementPrefixPostfix(t *testing.T) {
	var buf bytes.Buffer
	src := `
int prefixReturnsNew() { int x = 5; int y = ++x; return y * 100 + x; }
int postfixReturnsOld() { int x = 5; int y = x++; return y * 100 + x; }
int decrement() { int x = 5; x--; --x; return x; }
int memberIncrement() {
	int[] arr(1);
	arr[0] = 7;
	arr[0]++;
	return arr[0];
}
`
	i := newRunInterp(t, src, &buf)
	callInt(t, i, "prefixReturnsNew", 606)
	callInt(t, i, "postfixReturnsOld", 506)
	callInt(t, i, "decrement", 3)
	callInt(t, i, "memberIncrement", 8)
}

func TestContinueRunsForUpdate(t *testing.T) {
	var buf bytes.Buffer
	src := `
int sumOdds() {
	int s = 0;
	for (int i = 0; i < 5; i++) {
		if (i % 2 == 0) continue;
		s += i;
	}
	return s;
}
`
	i := newRunInterp(t, src, &buf)
	callInt(t, i, "sumOdds", 4)
}

func TestWhileAndDoWhile(t *testing.T) {
	var buf bytes.Buffer
	src := `
int whileBreak() {
	int n = 0;
	while (true) {
		n++;
		if (n >= 3) break;
	}
	return n;
}
int doWhileRunsOnce() {
	int n = 0;
	do { n++; } while (false);
	return n;
}
`
	i := newRunInterp(t, src, &buf)
	callInt(t, i, "whileBreak", 3)
	callInt(t, i, "doWhileRunsOnce", 1)
}

func TestTernary(t *testing.T) {
	var buf bytes.Buffer
	src := `
int pick(int n) { return n > 0 ? 1 : -1; }
`
	i := newRunInterp(t, src, &buf)
	result, err := i.CallFunction("pick", []runtime.Value{runtime.NewInt(5)})
	if err != nil {
		t.Fatalf("pick failed: %v", err)
	}
	if iv, _ := result.(runtime.Int); iv != 1 {
		t.Fatalf("pick(5) = %v, want 1", result)
	}
	result, _ = i.CallFunction("pick", []runtime.Value{runtime.NewInt(-5)})
	if iv, _ := result.(runtime.Int); iv != -1 {
		t.Fatalf("pick(-5) = %v, want -1", result)
	}
}

func TestCasts(t *testing.T) {
	var buf bytes.Buffer
	src := `
int truncate() { return int(3.9); }
int cStyle() { return (int) 2.5; }
float widen() { return float(3); }
string stringify() { return string(42); }
bool truthiness() { return bool(5); }
`
	i := newRunInterp(t, src, &buf)
	callInt(t, i, "truncate", 3)
	callInt(t, i, "cStyle", 2)

	result, _ := i.CallFunction("widen", nil)
	if fv, ok := result.(runtime.Float); !ok || fv != 3 {
		t.Fatalf("widen = %v, want Float(3)", result)
	}
	result, _ = i.CallFunction("stringify", nil)
	if sv, ok := result.(runtime.String); !ok || sv != "42" {
		t.Fatalf("stringify = %v, want \"42\"", result)
	}
	result, _ = i.CallFunction("truthiness", nil)
	if bv, ok := result.(runtime.Bool); !ok || !bool(bv) {
		t.Fatalf("truthiness = %v, want true", result)
	}
}

func TestCompoundAssignOnUndefinedReadsZero(t *testing.T) {
	var buf bytes.Buffer
	src := `
int firstUse() { q += 5; return q; }
`
	i := newRunInterp(t, src, &buf)
	callInt(t, i, "firstUse", 5)
}

func TestArrayBoundsErrors(t *testing.T) {
	var buf bytes.Buffer
	src := `
int readNegative() { int arr(3); return arr[-1]; }
int readLength() { int arr(3); return arr[3]; }
`
	i := newRunInterp(t, src, &buf)
	for _, fn := range []string{"readNegative", "readLength"} {
		_, err := i.CallFunction(fn, nil)
		if err == nil {
			t.Fatalf("expected %s to raise an out-of-range error", fn)
		}
		if !strings.Contains(err.Error(), "out of range") {
			t.Fatalf("%s: unexpected error %v", fn, err)
		}
	}
}

func TestNullHandleDereference(t *testing.T) {
	var buf bytes.Buffer
	src := `
class Box { int n; }
int deref() { Box@ h; return h.n; }
`
	i := newRunInterp(t, src, &buf)
	_, err := i.CallFunction("deref", nil)
	if err == nil || !strings.Contains(err.Error(), "null handle") {
		t.Fatalf("expected a null handle dereference error, got %v", err)
	}
}

func TestDefaultConstructionCallsNoArgConstructor(t *testing.T) {
	var buf bytes.Buffer
	src := `
class Preset {
	int x;
	Preset() { x = 7; }
}
class Plain {
	int y;
}
int preset() { Preset p; return p.x; }
int plain() { Plain p; return p.y; }
`
	i := newRunInterp(t, src, &buf)
	callInt(t, i, "preset", 7)
	callInt(t, i, "plain", 0)
}

func TestForwardReferenceAcrossDeclarations(t *testing.T) {
	var buf bytes.Buffer
	src := `
int caller() { return callee() + 1; }
int callee() { return 41; }
int globalUsesLaterFunc = callee();
`
	i := newRunInterp(t, src, &buf)
	callInt(t, i, "caller", 42)
	v, ok := i.Global("globalUsesLaterFunc")
	if !ok {
		t.Fatalf("expected the global to be defined")
	}
	if iv, _ := v.(runtime.Int); iv != 41 {
		t.Fatalf("globalUsesLaterFunc = %v, want 41", v)
	}
}

func TestStringMethods(t *testing.T) {
	var buf bytes.Buffer
	src := `
int length() { return "héllo".length(); }
string upper() { return "héllo".toUpper(); }
int toInt() { return "  42 ".toInt(); }
string tokenAt() { return "alpha beta gamma".getToken(1); }
string slice() { return "abcdef".substr(2, 3); }
int findComma() { return "a,b".findFirst(","); }
`
	i := newRunInterp(t, src, &buf)
	callInt(t, i, "length", 5)
	callInt(t, i, "toInt", 42)
	callInt(t, i, "findComma", 1)

	result, _ := i.CallFunction("upper", nil)
	if sv, _ := result.(runtime.String); sv != "HÉLLO" {
		t.Fatalf("upper = %v, want HÉLLO", result)
	}
	result, _ = i.CallFunction("tokenAt", nil)
	if sv, _ := result.(runtime.String); sv != "beta" {
		t.Fatalf("tokenAt = %v, want beta", result)
	}
	result, _ = i.CallFunction("slice", nil)
	if sv, _ := result.(runtime.String); sv != "cde" {
		t.Fatalf("slice = %v, want cde", result)
	}
}

func TestArrayFindInsertRemove(t *testing.T) {
	var buf bytes.Buffer
	src := `
int ops() {
	int[] xs;
	xs.push(1);
	xs.push(2);
	xs.push(3);
	int idx = xs.find(2);
	xs.removeAt(0);
	xs.insertAt(0, 9);
	return idx * 1000 + xs.size() * 100 + xs[0];
}
int notFound() {
	int[] xs;
	xs.push(1);
	return xs.find(5);
}
`
	i := newRunInterp(t, src, &buf)
	callInt(t, i, "ops", 1309)
	callInt(t, i, "notFound", -1)
}

func TestEnumExplicitAndSuccessorValues(t *testing.T) {
	var buf bytes.Buffer
	src := `
enum Flag { A, B = 10, C, D = B + 5 }

int a() { return Flag::A; }
int c() { return Flag::C; }
int d() { return Flag::D; }
`
	i := newRunInterp(t, src, &buf)
	callInt(t, i, "a", 0)
	callInt(t, i, "c", 11)
	callInt(t, i, "d", 15)
}

func TestMethodFieldBareIdentifierResolution(t *testing.T) {
	var buf bytes.Buffer
	src := `
int shadow = 100;

class Acc {
	int shadow;
	Acc() { shadow = 1; }
	void add(int n) { shadow += n; }
	int get() { return shadow; }
}

int run() {
	Acc a;
	a.add(5);
	return a.get() * 1000 + shadow;
}
`
	i := newRunInterp(t, src, &buf)
	callInt(t, i, "run", 6100)
}
