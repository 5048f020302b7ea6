package evaluator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/samber/mo"
)

func TestExceptionHash(t *testing.T) {
	exc1 := NewExceptionFromArgs(KindValueError, NewString("message one"))
	exc2 := NewExceptionFromArgs(KindValueError, NewString("message one"))
	exc3 := NewExceptionFromArgs(KindValueError)
	exc4 := NewExceptionFromArgs(KindTypeError, NewString("message one"))
	exc5 := NewExceptionFromArgs(KindValueError, NewString("message two"))

	if exc1.Hash() != exc2.Hash() {
		t.Error("same kind and message should hash equal")
	}
	for name, other := range map[string]*Exception{"no message": exc3, "other kind": exc4, "other message": exc5} {
		if exc1.Hash() == other.Hash() {
			t.Errorf("%s should hash differently", name)
		}
	}
	if ObjectsEqual(exc1, exc2) {
		t.Error("distinct exceptions compare by identity")
	}
	if !Hashable(exc1) {
		t.Error("exceptions are hashable")
	}
}

func TestExceptionMessageFromArgs(t *testing.T) {
	tests := []struct {
		name    string
		exc     *Exception
		message string
		repr    string
	}{
		{"no args", NewExceptionFromArgs(KindValueError), "", "ValueError()"},
		{"string arg", NewExceptionFromArgs(KindValueError, NewString("test error")), "test error", "ValueError('test error')"},
		{"int arg", NewExceptionFromArgs(KindRuntimeError, NewInt(3)), "3", "RuntimeError(3)"},
		{"two args", NewExceptionFromArgs(KindTypeError, NewString("a"), NewInt(1)), "('a', 1)", "TypeError('a', 1)"},
		{"key error", NewExceptionFromArgs(KindKeyError, NewString("c")), "'c'", "KeyError('c')"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.exc.Message != tt.message {
				t.Errorf("message = %q, want %q", tt.exc.Message, tt.message)
			}
			if tt.exc.Inspect() != tt.repr {
				t.Errorf("repr = %s, want %s", tt.exc.Inspect(), tt.repr)
			}
		})
	}
}

func TestExceptionAsError(t *testing.T) {
	var err error = typeError("bad %s", "thing")
	wrapped := fmt.Errorf("step 3: %w", err)

	exc, ok := AsException(wrapped)
	if !ok {
		t.Fatal("AsException should unwrap")
	}
	if exc.Error() != "TypeError: bad thing" {
		t.Errorf("Error() = %q", exc.Error())
	}
	if !errors.Is(wrapped, &Exception{Kind: KindTypeError}) {
		t.Error("errors.Is should match by kind")
	}
	if errors.Is(wrapped, &Exception{Kind: KindValueError}) {
		t.Error("errors.Is should not match another kind")
	}
	if _, ok := AsException(errors.New("plain")); ok {
		t.Error("plain errors carry no exception")
	}
}

func TestIsA(t *testing.T) {
	tests := []struct {
		kind, ancestor ExceptionKind
		want           bool
	}{
		{KindKeyError, KindKeyError, true},
		{KindKeyError, KindLookupError, true},
		{KindIndexError, KindLookupError, true},
		{KindKeyError, KindException, true},
		{KindTypeError, KindException, true},
		{KindNotImplementedError, KindRuntimeError, true},
		{KindTypeError, KindValueError, false},
		{KindLookupError, KindKeyError, false},
		{KindException, KindTypeError, false},
	}
	for _, tt := range tests {
		if got := IsA(tt.kind, tt.ancestor); got != tt.want {
			t.Errorf("IsA(%s, %s) = %v, want %v", tt.kind, tt.ancestor, got, tt.want)
		}
	}
}

func TestParseExceptionKind(t *testing.T) {
	for kind, name := range exceptionKindNames {
		got, ok := ParseExceptionKind(name)
		if !ok || got != kind {
			t.Errorf("ParseExceptionKind(%q) = %v, %v", name, got, ok)
		}
	}
	if _, ok := ParseExceptionKind("OSError"); ok {
		t.Error("OSError is not a known kind")
	}
}

func TestObjectsEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Object
		want bool
	}{
		{"bool int", TRUE, NewInt(1), true},
		{"false zero", FALSE, NewInt(0), true},
		{"bool two", TRUE, NewInt(2), false},
		{"int str", NewInt(1), NewString("1"), false},
		{"lists", NewList(ints(1, 2)...), NewList(ints(1, 2)...), true},
		{"list tuple", NewList(ints(1, 2)...), NewTuple(ints(1, 2)...), false},
		{"nested tuple", NewTuple(NewList(ints(1)...)), NewTuple(NewList(ints(1)...)), true},
		{"records", frozenPoint(), frozenPoint(), true},
		{"record names", frozenPoint(), NewFrozenRecord("Other", map[string]Object{"x": NewInt(1), "y": NewInt(2)}), false},
		{"slices", &Slice{Stop: mo.Some[int64](3)}, &Slice{Stop: mo.Some[int64](3)}, true},
		{"slices differ", &Slice{Stop: mo.Some[int64](3)}, &Slice{Start: mo.Some[int64](3)}, false},
		{"none", NONE, NONE, true},
		{"none zero", NONE, NewInt(0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ObjectsEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("ObjectsEqual(%s, %s) = %v, want %v", tt.a.Inspect(), tt.b.Inspect(), got, tt.want)
			}
		})
	}
}

func TestObjectsEqual_SelfReferential(t *testing.T) {
	a := NewList(NewInt(1))
	a.Append(a)
	b := NewList(NewInt(1))
	b.Append(b)
	if !ObjectsEqual(a, b) {
		t.Error("structurally identical cyclic lists should compare equal")
	}
	if a.Inspect() != "[1, [...]]" {
		t.Errorf("repr = %s", a.Inspect())
	}
}

func TestDictStorage(t *testing.T) {
	d := NewDict()
	for i := int64(0); i < 40; i++ {
		if err := d.Put(NewInt(i), NewInt(i*i)); err != nil {
			t.Fatal(err)
		}
	}
	for i := int64(0); i < 40; i += 2 {
		if !d.Remove(NewInt(i)) {
			t.Fatalf("remove %d failed", i)
		}
	}
	if d.Len() != 20 {
		t.Fatalf("len = %d, want 20", d.Len())
	}
	keys := d.Keys()
	for i, k := range keys {
		want := int64(2*i + 1)
		if k.(*Integer).Value != want {
			t.Fatalf("key %d = %s, want %d", i, k.Inspect(), want)
		}
	}
	val, ok := d.Get(NewInt(7))
	if !ok {
		t.Fatal("7 should be present")
	}
	expectEqual(t, val, NewInt(49))
	if _, ok := d.Get(NewInt(8)); ok {
		t.Error("8 should be gone")
	}

	// Updates keep the original insertion position.
	if err := d.Put(NewInt(1), NewString("first")); err != nil {
		t.Fatal(err)
	}
	if first := d.Items()[0]; first.Key.Inspect() != "1" || first.Value.Inspect() != "'first'" {
		t.Errorf("first item = %s: %s", first.Key.Inspect(), first.Value.Inspect())
	}
}

func TestDictUnhashable(t *testing.T) {
	_, err := NewDictFromItems(DictItem{NewList(), NewInt(1)})
	expectException(t, err, KindTypeError, "unhashable type: 'list'")

	err = NewDict().Put(mutablePoint(), NONE)
	expectException(t, err, KindTypeError, "unhashable type: 'MutablePoint'")

	if err := NewDict().Put(frozenPoint(), NONE); err != nil {
		t.Errorf("frozen records are hashable: %v", err)
	}

	holder := NewFrozenRecord("Holder", map[string]Object{"id": NewInt(1), "items": NewList(NewInt(2))})
	if Hashable(holder) {
		t.Error("frozen record holding a list reported hashable")
	}
	err = NewDict().Put(holder, NONE)
	expectException(t, err, KindTypeError, "unhashable type: 'list'")

	nested := NewFrozenRecord("Outer", map[string]Object{"inner": frozenPoint(), "tag": NewTuple(NewInt(1))})
	if !Hashable(nested) {
		t.Error("frozen record of hashable fields reported unhashable")
	}
}

func TestInspect(t *testing.T) {
	d := mustDict(t, DictItem{NewString("a"), NewList(TRUE, NONE)})
	tests := []struct {
		obj  Object
		want string
	}{
		{NewString("it's"), `"it's"`},
		{NewString("a\nb"), `'a\nb'`},
		{NewTuple(NewInt(1)), "(1,)"},
		{NewTuple(), "()"},
		{d, "{'a': [True, None]}"},
		{frozenPoint(), "Point(x=1, y=2)"},
		{&Slice{}, "slice(None, None, None)"},
	}
	for _, tt := range tests {
		if got := tt.obj.Inspect(); got != tt.want {
			t.Errorf("Inspect() = %s, want %s", got, tt.want)
		}
	}
}

func TestMutable(t *testing.T) {
	if !Mutable(NewList()) || !Mutable(NewDict()) || !Mutable(mutablePoint()) {
		t.Error("lists, dicts and mutable records are mutable")
	}
	if Mutable(frozenPoint()) || Mutable(NewTuple()) || Mutable(NewString("")) {
		t.Error("frozen records, tuples and strings are not mutable")
	}
}
