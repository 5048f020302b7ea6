package evaluator

import (
	"hash/fnv"
)

type ObjectType string

const (
	NONE_OBJ      = "NONE"
	BOOLEAN_OBJ   = "BOOLEAN"
	INTEGER_OBJ   = "INTEGER"
	STRING_OBJ    = "STRING"
	TUPLE_OBJ     = "TUPLE"
	LIST_OBJ      = "LIST"   // Mutable, shared by reference
	DICT_OBJ      = "DICT"   // Mutable, shared by reference, insertion ordered
	SLICE_OBJ     = "SLICE"  // start/stop/step, each optional
	RECORD_OBJ    = "RECORD" // Mutable or frozen structured value
	EXCEPTION_OBJ = "EXCEPTION"
	BUILTIN_OBJ   = "BUILTIN"
	EXTERNAL_OBJ  = "EXTERNAL" // Function provided by the host

	// Guest-visible type names
	RUNTIME_TYPE_NONE     = "NoneType"
	RUNTIME_TYPE_BOOL     = "bool"
	RUNTIME_TYPE_INT      = "int"
	RUNTIME_TYPE_STRING   = "str"
	RUNTIME_TYPE_TUPLE    = "tuple"
	RUNTIME_TYPE_LIST     = "list"
	RUNTIME_TYPE_DICT     = "dict"
	RUNTIME_TYPE_SLICE    = "slice"
	RUNTIME_TYPE_RECORD   = "Record"
	RUNTIME_TYPE_BUILTIN  = "builtin_function_or_method"
	RUNTIME_TYPE_FUNCTION = "function"
)

type Object interface {
	Type() ObjectType
	TypeName() string // Name used in guest-visible messages
	Inspect() string
	Hash() uint32
}

// Helper for hashing strings
func hashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// Mutable reports whether obj may be changed in place.
func Mutable(obj Object) bool {
	switch o := obj.(type) {
	case *List, *Dict:
		return true
	case *Record:
		return o.Mutable
	default:
		return false
	}
}

// Hashable reports whether obj may be used as a mapping key.
func Hashable(obj Object) bool {
	switch o := obj.(type) {
	case *List, *Dict:
		return false
	case *Record:
		if o.Mutable {
			return false
		}
		for _, f := range o.Fields {
			if !Hashable(f.Value) {
				return false
			}
		}
		return true
	case *Tuple:
		for _, el := range o.Elements {
			if !Hashable(el) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
