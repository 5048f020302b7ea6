package evaluator

import "fmt"

// Kwarg is a keyword argument at a call site.
type Kwarg struct {
	Name  string
	Value Object
}

// Args carries already-evaluated call arguments.
type Args struct {
	Positional []Object
	Kwargs     []Kwarg
}

// Positional builds Args with positional arguments only.
func Positional(args ...Object) Args {
	return Args{Positional: args}
}

// Len returns the total argument count, positional plus keyword.
func (a Args) Len() int { return len(a.Positional) + len(a.Kwargs) }

type BuiltinFunction func(e *Evaluator, args Args) (Object, error)

// Builtin is a function implemented by the runtime.
type Builtin struct {
	Fn   BuiltinFunction
	Name string
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) TypeName() string { return RUNTIME_TYPE_BUILTIN }
func (b *Builtin) Inspect() string  { return fmt.Sprintf("<built-in function %s>", b.Name) }
func (b *Builtin) Hash() uint32     { return hashString(b.Name) }

// ExternalFunction names a function the host provides. Calls are routed to
// the evaluator's ExternalHandler.
type ExternalFunction struct {
	Name string
}

func (f *ExternalFunction) Type() ObjectType { return EXTERNAL_OBJ }
func (f *ExternalFunction) TypeName() string { return RUNTIME_TYPE_FUNCTION }
func (f *ExternalFunction) Inspect() string  { return fmt.Sprintf("<function %s>", f.Name) }
func (f *ExternalFunction) Hash() uint32     { return hashString("external:" + f.Name) }

// IsCallable reports whether obj can be invoked.
func IsCallable(obj Object) bool {
	switch obj.(type) {
	case *Builtin, *ExternalFunction:
		return true
	default:
		return false
	}
}
