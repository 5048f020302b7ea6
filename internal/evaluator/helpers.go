package evaluator

import (
	"fmt"
)

func newError(kind ExceptionKind, format string, a ...interface{}) *Exception {
	return NewException(kind, fmt.Sprintf(format, a...), nil)
}

func typeError(format string, a ...interface{}) *Exception {
	return newError(KindTypeError, format, a...)
}

func attributeError(format string, a ...interface{}) *Exception {
	return newError(KindAttributeError, format, a...)
}

func indexError(format string, a ...interface{}) *Exception {
	return newError(KindIndexError, format, a...)
}

func nameError(name string) *Exception {
	return newError(KindNameError, "name '%s' is not defined", name)
}

func runtimeError(format string, a ...interface{}) *Exception {
	return newError(KindRuntimeError, format, a...)
}

// keyError carries the missing key itself as payload.
func keyError(key Object) *Exception {
	return NewExceptionFromArgs(KindKeyError, key)
}

// checkHashable returns a TypeError naming the first unhashable value found
// in key, looking inside tuples.
func checkHashable(key Object) error {
	switch k := key.(type) {
	case *Tuple:
		for _, el := range k.Elements {
			if err := checkHashable(el); err != nil {
				return err
			}
		}
		return nil
	case *Record:
		if !k.Mutable {
			for _, f := range k.Fields {
				if err := checkHashable(f.Value); err != nil {
					return err
				}
			}
			return nil
		}
	}
	if !Hashable(key) {
		return typeError("unhashable type: '%s'", key.TypeName())
	}
	return nil
}

// toInt accepts Integer and Boolean, the types usable as sequence indices.
func toInt(obj Object) (int64, bool) {
	switch o := obj.(type) {
	case *Integer:
		return o.Value, true
	case *Boolean:
		if o.Value {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// normalizeIndex maps a possibly negative index onto [0, length).
func normalizeIndex(idx int64, length int) (int, bool) {
	if idx < 0 {
		idx += int64(length)
	}
	if idx < 0 || idx >= int64(length) {
		return 0, false
	}
	return int(idx), true
}
