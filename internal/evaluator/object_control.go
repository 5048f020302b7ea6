package evaluator

import (
	"errors"
	"strings"
)

// ExceptionKind is the flat classification of a runtime failure.
type ExceptionKind int

const (
	KindException ExceptionKind = iota
	KindTypeError
	KindValueError
	KindAttributeError
	KindLookupError
	KindKeyError
	KindIndexError
	KindNameError
	KindRuntimeError
	KindNotImplementedError
	KindAssertionError
)

var exceptionKindNames = map[ExceptionKind]string{
	KindException:           "Exception",
	KindTypeError:           "TypeError",
	KindValueError:          "ValueError",
	KindAttributeError:      "AttributeError",
	KindLookupError:         "LookupError",
	KindKeyError:            "KeyError",
	KindIndexError:          "IndexError",
	KindNameError:           "NameError",
	KindRuntimeError:        "RuntimeError",
	KindNotImplementedError: "NotImplementedError",
	KindAssertionError:      "AssertionError",
}

// exceptionParents lists the direct ancestor of each kind. Kinds that are
// missing derive from Exception directly.
var exceptionParents = map[ExceptionKind]ExceptionKind{
	KindKeyError:            KindLookupError,
	KindIndexError:          KindLookupError,
	KindNotImplementedError: KindRuntimeError,
}

func (k ExceptionKind) String() string {
	if name, ok := exceptionKindNames[k]; ok {
		return name
	}
	return "Exception"
}

// ParseExceptionKind looks a kind up by its guest-visible name.
func ParseExceptionKind(name string) (ExceptionKind, bool) {
	for kind, n := range exceptionKindNames {
		if n == name {
			return kind, true
		}
	}
	return 0, false
}

// IsA reports whether kind equals ancestor or derives from it.
func IsA(kind, ancestor ExceptionKind) bool {
	for {
		if kind == ancestor {
			return true
		}
		if kind == KindException {
			return false
		}
		parent, ok := exceptionParents[kind]
		if !ok {
			parent = KindException
		}
		kind = parent
	}
}

// Exception is a raised (or raisable) failure. It is an ordinary value and,
// at the same time, the Go error every failing operation returns.
type Exception struct {
	Kind    ExceptionKind
	Message string
	Args    *Tuple // Positional values the exception was raised with
}

// NewException builds an exception with an explicit payload. A nil args
// tuple is derived from message: () for an empty message, (message,) otherwise.
func NewException(kind ExceptionKind, message string, args *Tuple) *Exception {
	if args == nil {
		if message == "" {
			args = NewTuple()
		} else {
			args = NewTuple(&String{Value: message})
		}
	}
	return &Exception{Kind: kind, Message: message, Args: args}
}

// NewExceptionFromArgs builds an exception the way a guest-level call such
// as ValueError('bad', 1) does: the message is the rendering of args.
func NewExceptionFromArgs(kind ExceptionKind, args ...Object) *Exception {
	return &Exception{Kind: kind, Message: messageFromArgs(kind, args), Args: NewTuple(args...)}
}

func messageFromArgs(kind ExceptionKind, args []Object) string {
	switch len(args) {
	case 0:
		return ""
	case 1:
		// KeyError shows the key as written, so an empty-string key stays visible.
		if kind == KindKeyError {
			return args[0].Inspect()
		}
		if s, ok := args[0].(*String); ok {
			return s.Value
		}
		return args[0].Inspect()
	default:
		return NewTuple(args...).Inspect()
	}
}

func (e *Exception) Type() ObjectType { return EXCEPTION_OBJ }
func (e *Exception) TypeName() string { return e.Kind.String() }
func (e *Exception) Inspect() string {
	parts := make([]string, len(e.Args.Elements))
	for i, arg := range e.Args.Elements {
		parts[i] = arg.Inspect()
	}
	return e.Kind.String() + "(" + strings.Join(parts, ", ") + ")"
}

// Hash mixes kind and message, so exceptions of the same kind and message
// land together and any difference in either separates them.
func (e *Exception) Hash() uint32 {
	return hashString(e.Kind.String())*31 ^ hashString("\x00"+e.Message)
}

// Error implements error.
func (e *Exception) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Message
}

// Is lets errors.Is match exceptions by kind.
func (e *Exception) Is(target error) bool {
	t, ok := target.(*Exception)
	return ok && t.Kind == e.Kind && t.Message == ""
}

// AsException extracts the exception carried by err.
func AsException(err error) (*Exception, bool) {
	var exc *Exception
	if errors.As(err, &exc) {
		return exc, true
	}
	return nil, false
}

// IsKind reports whether err carries an exception of exactly kind.
func IsKind(err error, kind ExceptionKind) bool {
	exc, ok := AsException(err)
	return ok && exc.Kind == kind
}
