package evaluator

import (
	"sort"
	"unsafe"
)

// RecordField represents a single field in a Record.
type RecordField struct {
	Key   string
	Value Object
}

// Record is a structured value with named fields. Mutable is fixed when the
// record is built: a mutable record accepts new and updated fields in place,
// a frozen one never changes.
// Fields are kept sorted by key for O(log N) access.
type Record struct {
	Fields  []RecordField // Sorted by Key
	Name    string        // Declared type name, e.g. "Point"
	Mutable bool
}

// NewRecord creates a mutable Record from a map of fields.
func NewRecord(name string, fieldMap map[string]Object) *Record {
	return newRecord(name, fieldMap, true)
}

// NewFrozenRecord creates a frozen Record from a map of fields.
func NewFrozenRecord(name string, fieldMap map[string]Object) *Record {
	return newRecord(name, fieldMap, false)
}

func newRecord(name string, fieldMap map[string]Object, mutable bool) *Record {
	fields := make([]RecordField, 0, len(fieldMap))
	for k, v := range fieldMap {
		fields = append(fields, RecordField{Key: k, Value: v})
	}
	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Key < fields[j].Key
	})
	if name == "" {
		name = RUNTIME_TYPE_RECORD
	}
	return &Record{Fields: fields, Name: name, Mutable: mutable}
}

func (r *Record) search(key string) int {
	return sort.Search(len(r.Fields), func(i int) bool {
		return r.Fields[i].Key >= key
	})
}

// Get returns the value for a key, or nil if not found.
func (r *Record) Get(key string) Object {
	idx := r.search(key)
	if idx < len(r.Fields) && r.Fields[idx].Key == key {
		return r.Fields[idx].Value
	}
	return nil
}

// set updates the value for a key in place, or adds it if not found.
// Callers check Mutable first.
func (r *Record) set(key string, val Object) {
	idx := r.search(key)
	if idx < len(r.Fields) && r.Fields[idx].Key == key {
		r.Fields[idx].Value = val
		return
	}

	// Insert new
	r.Fields = append(r.Fields, RecordField{})
	copy(r.Fields[idx+1:], r.Fields[idx:])
	r.Fields[idx] = RecordField{Key: key, Value: val}
}

// remove drops key and reports whether it existed. Callers check Mutable first.
func (r *Record) remove(key string) bool {
	idx := r.search(key)
	if idx >= len(r.Fields) || r.Fields[idx].Key != key {
		return false
	}
	r.Fields = append(r.Fields[:idx], r.Fields[idx+1:]...)
	return true
}

// FieldNames returns the field names in sorted order
func (r *Record) FieldNames() []string {
	names := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		names[i] = f.Key
	}
	return names
}

func (r *Record) Type() ObjectType { return RECORD_OBJ }
func (r *Record) TypeName() string { return r.Name }
func (r *Record) Inspect() string  { return inspectObject(r, nil) }

func (r *Record) Hash() uint32 {
	if r.Mutable {
		return uint32(uintptr(unsafe.Pointer(r)))
	}
	h := hashString(r.Name)
	for _, field := range r.Fields {
		h = 31*h + (hashString(field.Key) ^ (field.Value.Hash() * 31))
	}
	return h
}
