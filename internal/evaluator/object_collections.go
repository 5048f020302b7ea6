package evaluator

import (
	"strings"
	"unsafe"

	"github.com/samber/mo"
)

// Tuple represents an immutable, fixed-length sequence of objects.
type Tuple struct {
	Elements []Object
}

// NewTuple creates a Tuple holding elements.
func NewTuple(elements ...Object) *Tuple {
	return &Tuple{Elements: elements}
}

func (t *Tuple) Type() ObjectType { return TUPLE_OBJ }
func (t *Tuple) TypeName() string { return RUNTIME_TYPE_TUPLE }
func (t *Tuple) Inspect() string  { return inspectObject(t, nil) }
func (t *Tuple) Hash() uint32 {
	h := uint32(1)
	for _, el := range t.Elements {
		h = 31*h + el.Hash()
	}
	return h
}

// Len returns the number of elements
func (t *Tuple) Len() int { return len(t.Elements) }

// List is a mutable sequence. Every binding holds the same *List, so in-place
// changes are visible through all aliases.
type List struct {
	Elements []Object
}

// NewList creates a new List from a slice of Objects
func NewList(elements ...Object) *List {
	if elements == nil {
		elements = []Object{}
	}
	return &List{Elements: elements}
}

func (l *List) Type() ObjectType { return LIST_OBJ }
func (l *List) TypeName() string { return RUNTIME_TYPE_LIST }
func (l *List) Inspect() string  { return inspectObject(l, nil) }

// Hash is identity based; lists are rejected as mapping keys before hashing.
func (l *List) Hash() uint32 { return uint32(uintptr(unsafe.Pointer(l))) }

// Len returns the number of elements
func (l *List) Len() int { return len(l.Elements) }

// Get returns the element at index i, or nil if out of bounds
func (l *List) Get(i int) Object {
	if i < 0 || i >= len(l.Elements) {
		return nil
	}
	return l.Elements[i]
}

// Set replaces the element at an in-bounds index.
func (l *List) Set(i int, value Object) {
	l.Elements[i] = value
}

// Append adds value at the end.
func (l *List) Append(value Object) {
	l.Elements = append(l.Elements, value)
}

// RemoveAt deletes the element at an in-bounds index, shifting the tail
// one position toward the front.
func (l *List) RemoveAt(i int) {
	copy(l.Elements[i:], l.Elements[i+1:])
	l.Elements[len(l.Elements)-1] = nil
	l.Elements = l.Elements[:len(l.Elements)-1]
}

// ToSlice returns a copy of the elements
func (l *List) ToSlice() []Object {
	out := make([]Object, len(l.Elements))
	copy(out, l.Elements)
	return out
}

// DictItem is a single mapping entry.
type DictItem struct {
	Key   Object
	Value Object
}

// Dict is a mutable, insertion-ordered mapping with value-equality keys.
// Like List, it is shared by reference.
type Dict struct {
	storage *dictStorage
}

// NewDict creates an empty Dict
func NewDict() *Dict {
	return &Dict{storage: newDictStorage()}
}

// NewDictFromItems creates a Dict from items; later duplicates overwrite
// earlier ones. Keys must be hashable.
func NewDictFromItems(items ...DictItem) (*Dict, error) {
	d := NewDict()
	for _, item := range items {
		if err := d.Put(item.Key, item.Value); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Dict) Type() ObjectType { return DICT_OBJ }
func (d *Dict) TypeName() string { return RUNTIME_TYPE_DICT }
func (d *Dict) Inspect() string  { return inspectObject(d, nil) }
func (d *Dict) Hash() uint32     { return uint32(uintptr(unsafe.Pointer(d))) }

// Len returns the number of entries
func (d *Dict) Len() int { return d.storage.Len() }

// Get returns value for key and whether it exists. Unhashable keys are
// never present.
func (d *Dict) Get(key Object) (Object, bool) {
	if !Hashable(key) {
		return nil, false
	}
	val := d.storage.Get(key)
	return val, val != nil
}

// Put adds or updates key.
func (d *Dict) Put(key, value Object) error {
	if err := checkHashable(key); err != nil {
		return err
	}
	d.storage.Put(key, value)
	return nil
}

// Remove deletes key and reports whether it was present.
func (d *Dict) Remove(key Object) bool {
	if !Hashable(key) {
		return false
	}
	return d.storage.Remove(key)
}

// Items returns entries in insertion order
func (d *Dict) Items() []DictItem { return d.storage.Items() }

// Keys returns keys in insertion order
func (d *Dict) Keys() []Object {
	items := d.storage.Items()
	keys := make([]Object, len(items))
	for i, item := range items {
		keys[i] = item.Key
	}
	return keys
}

// Slice holds the three optional components of a slice value.
type Slice struct {
	Start mo.Option[int64]
	Stop  mo.Option[int64]
	Step  mo.Option[int64]
}

func (s *Slice) Type() ObjectType { return SLICE_OBJ }
func (s *Slice) TypeName() string { return RUNTIME_TYPE_SLICE }
func (s *Slice) Inspect() string {
	return "slice(" + optionRepr(s.Start) + ", " + optionRepr(s.Stop) + ", " + optionRepr(s.Step) + ")"
}
func (s *Slice) Hash() uint32 {
	return hashString(s.Inspect())
}

// optionObject converts an optional component to Integer or None.
func optionObject(o mo.Option[int64]) Object {
	if v, ok := o.Get(); ok {
		return &Integer{Value: v}
	}
	return NONE
}

func optionRepr(o mo.Option[int64]) string {
	return optionObject(o).Inspect()
}

// inspectObject renders containers, printing "[...]" / "{...}" for a
// container that is already being printed further up.
func inspectObject(obj Object, seen map[Object]bool) string {
	switch o := obj.(type) {
	case *List:
		if seen[o] {
			return "[...]"
		}
		seen = markSeen(seen, o)
		defer delete(seen, o)
		return "[" + joinInspect(o.Elements, seen) + "]"
	case *Tuple:
		if len(o.Elements) == 1 {
			return "(" + inspectObject(o.Elements[0], seen) + ",)"
		}
		return "(" + joinInspect(o.Elements, seen) + ")"
	case *Dict:
		if seen[o] {
			return "{...}"
		}
		seen = markSeen(seen, o)
		defer delete(seen, o)
		var out strings.Builder
		out.WriteString("{")
		for i, item := range o.Items() {
			if i > 0 {
				out.WriteString(", ")
			}
			out.WriteString(inspectObject(item.Key, seen))
			out.WriteString(": ")
			out.WriteString(inspectObject(item.Value, seen))
		}
		out.WriteString("}")
		return out.String()
	case *Record:
		if seen[o] {
			return o.TypeName() + "(...)"
		}
		seen = markSeen(seen, o)
		defer delete(seen, o)
		var out strings.Builder
		out.WriteString(o.TypeName())
		out.WriteString("(")
		for i, field := range o.Fields {
			if i > 0 {
				out.WriteString(", ")
			}
			out.WriteString(field.Key)
			out.WriteString("=")
			out.WriteString(inspectObject(field.Value, seen))
		}
		out.WriteString(")")
		return out.String()
	default:
		return obj.Inspect()
	}
}

func markSeen(seen map[Object]bool, obj Object) map[Object]bool {
	if seen == nil {
		seen = make(map[Object]bool)
	}
	seen[obj] = true
	return seen
}

func joinInspect(elements []Object, seen map[Object]bool) string {
	parts := make([]string, len(elements))
	for i, el := range elements {
		parts[i] = inspectObject(el, seen)
	}
	return strings.Join(parts, ", ")
}
