package runtime

import "testing"

func TestEnvironmentDefineAndGet(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", Int(1))

	v, ok := env.Get("x")
	if !ok || v != Int(1) {
		t.Fatalf("Get(x) = %v, %v", v, ok)
	}
	if _, ok := env.Get("missing"); ok {
		t.Fatalf("expected missing name to be unbound")
	}
}

func TestEnvironmentGetWalksOutward(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", Int(1))
	inner := outer.Child()

	v, ok := inner.Get("x")
	if !ok || v != Int(1) {
		t.Fatalf("expected inner scope to see outer binding, got %v, %v", v, ok)
	}
}

func TestEnvironmentSetMutatesDefiningScope(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", Int(1))
	inner := outer.Child()

	inner.Set("x", Int(2))

	if v, _ := outer.Get("x"); v != Int(2) {
		t.Fatalf("expected Set to mutate the defining scope, outer x = %v", v)
	}
	if _, ok := inner.GetLocal("x"); ok {
		t.Fatalf("expected Set not to shadow x in the inner scope")
	}
}

func TestEnvironmentSetDefinesLocallyWhenUnbound(t *testing.T) {
	outer := NewEnvironment()
	inner := outer.Child()

	inner.Set("y", Int(3))

	if _, ok := outer.GetLocal("y"); ok {
		t.Fatalf("expected y not to leak to the outer scope")
	}
	if v, ok := inner.GetLocal("y"); !ok || v != Int(3) {
		t.Fatalf("expected y to be defined locally, got %v, %v", v, ok)
	}
}

func TestEnvironmentDefineShadows(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", Int(1))
	inner := outer.Child()
	inner.Define("x", Int(9))

	if v, _ := inner.Get("x"); v != Int(9) {
		t.Fatalf("expected inner shadow to win, got %v", v)
	}
	if v, _ := outer.Get("x"); v != Int(1) {
		t.Fatalf("expected outer binding untouched, got %v", v)
	}
}

func TestEnvironmentHas(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", Int(1))
	inner := outer.Child()

	if !inner.Has("x") {
		t.Fatalf("expected Has to walk up")
	}
	if inner.Has("y") {
		t.Fatalf("expected Has(y) to be false")
	}
}
