package evaluator

import (
	"testing"
)

func TestEvaluator_LookupAndAliases(t *testing.T) {
	e := New()
	x := NewList(ints(1, 2, 3)...)
	e.Bind("x", x)
	e.Bind("y", x)

	y, err := e.Lookup("y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.DelItem(y, NewInt(0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := e.Lookup("x")
	expectEqual(t, got, NewList(ints(2, 3)...))

	fn, err := e.Lookup("getattr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fn.Inspect() != "<built-in function getattr>" {
		t.Errorf("getattr = %s", fn.Inspect())
	}

	_, err = e.Lookup("undefined_name")
	expectException(t, err, KindNameError, "name 'undefined_name' is not defined")
}

func TestEvaluator_CallExternal(t *testing.T) {
	e := New()
	_, err := e.Call(&ExternalFunction{Name: "make_point"}, Positional())
	expectException(t, err, KindRuntimeError, "make_point")

	var seen string
	e.External = func(name string, args Args) (Object, error) {
		seen = name
		return NewInt(int64(args.Len())), nil
	}
	got, err := e.Call(&ExternalFunction{Name: "make_point"}, Positional(NONE, NONE))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen != "make_point" {
		t.Errorf("handler saw %q", seen)
	}
	expectEqual(t, got, NewInt(2))
}

func TestEvaluator_CallNonCallable(t *testing.T) {
	e := New()
	_, err := e.Call(NewInt(3), Positional())
	expectException(t, err, KindTypeError, "'int' object is not callable")
}

func TestEvaluator_Unbind(t *testing.T) {
	e := New()
	e.Bind("b", NewInt(2))
	e.Bind("a", NewInt(1))
	if names := e.Names(); len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("names = %v", names)
	}

	if err := e.Unbind("b"); err != nil {
		t.Fatal(err)
	}
	_, err := e.Lookup("b")
	expectException(t, err, KindNameError, "name 'b' is not defined")

	expectException(t, e.Unbind("b"), KindNameError, "name 'b' is not defined")
	expectException(t, e.Unbind("getattr"), KindNameError, "name 'getattr' is not defined")
	if _, err := e.Lookup("getattr"); err != nil {
		t.Errorf("builtin lost: %v", err)
	}
}

func TestBuiltinNames(t *testing.T) {
	names := BuiltinNames()
	want := []string{"delattr", "getattr", "hasattr", "len", "setattr", "slice"}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}
