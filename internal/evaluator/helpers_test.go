package evaluator

import (
	"strings"
	"testing"
)

// expectException fails the test unless err carries an exception of kind
// whose message contains wantSubstr.
func expectException(t *testing.T, err error, kind ExceptionKind, wantSubstr string) *Exception {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got no error", kind)
	}
	exc, ok := AsException(err)
	if !ok {
		t.Fatalf("expected *Exception, got %T: %v", err, err)
	}
	if exc.Kind != kind {
		t.Fatalf("kind = %s, want %s (message %q)", exc.Kind, kind, exc.Message)
	}
	if !strings.Contains(exc.Message, wantSubstr) {
		t.Errorf("message %q should contain %q", exc.Message, wantSubstr)
	}
	return exc
}

func expectEqual(t *testing.T, got, want Object) {
	t.Helper()
	if !ObjectsEqual(got, want) {
		t.Errorf("got %s, want %s", inspectOrNil(got), inspectOrNil(want))
	}
}

func inspectOrNil(obj Object) string {
	if obj == nil {
		return "<nil>"
	}
	return obj.Inspect()
}

func ints(vals ...int64) []Object {
	out := make([]Object, len(vals))
	for i, v := range vals {
		out[i] = NewInt(v)
	}
	return out
}

func mustDict(t *testing.T, items ...DictItem) *Dict {
	t.Helper()
	d, err := NewDictFromItems(items...)
	if err != nil {
		t.Fatalf("building dict: %v", err)
	}
	return d
}

func mutablePoint() *Record {
	return NewRecord("MutablePoint", map[string]Object{"x": NewInt(1), "y": NewInt(2)})
}

func frozenPoint() *Record {
	return NewFrozenRecord("Point", map[string]Object{"x": NewInt(1), "y": NewInt(2)})
}
