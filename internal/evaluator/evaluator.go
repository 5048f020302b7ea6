package evaluator

// ExternalHandler resolves calls to functions the host provides.
type ExternalHandler func(name string, args Args) (Object, error)

// Evaluator is the entry surface the statement executor drives: bindings,
// builtins and host functions, plus the attribute and subscript operations
// shared by builtin calls and dotted syntax.
type Evaluator struct {
	Env      *Environment
	Builtins map[string]*Builtin
	// External resolves ExternalFunction calls. May be nil when the host
	// provides no functions.
	External ExternalHandler
}

func New() *Evaluator {
	return &Evaluator{
		Env:      NewEnvironment(),
		Builtins: GetBuiltinsList(),
	}
}

// Lookup resolves name against the bindings, then the builtins.
func (e *Evaluator) Lookup(name string) (Object, error) {
	if obj, ok := e.Env.Get(name); ok {
		return obj, nil
	}
	if b, ok := e.Builtins[name]; ok {
		return b, nil
	}
	return nil, nameError(name)
}

// Bind stores val under name. The binding holds a reference.
func (e *Evaluator) Bind(name string, val Object) {
	e.Env.Set(name, val)
}

// Unbind removes the binding for name. Builtins cannot be unbound.
func (e *Evaluator) Unbind(name string) error {
	if !e.Env.Delete(name) {
		return nameError(name)
	}
	return nil
}

// Names lists the bound names, sorted. Builtins are not included.
func (e *Evaluator) Names() []string {
	return e.Env.Names()
}

// Call invokes fn with already-evaluated arguments.
func (e *Evaluator) Call(fn Object, args Args) (Object, error) {
	switch f := fn.(type) {
	case *Builtin:
		return f.Fn(e, args)
	case *ExternalFunction:
		if e.External == nil {
			return nil, runtimeError("no host handler for external function '%s'", f.Name)
		}
		return e.External(f.Name, args)
	}
	return nil, typeError("'%s' object is not callable", fn.TypeName())
}

// CallName looks name up and calls it.
func (e *Evaluator) CallName(name string, args Args) (Object, error) {
	fn, err := e.Lookup(name)
	if err != nil {
		return nil, err
	}
	return e.Call(fn, args)
}

// GetAttr evaluates obj.name.
func (e *Evaluator) GetAttr(obj Object, name string) (Object, error) {
	return GetAttr(obj, name)
}

// SetAttr evaluates obj.name = value.
func (e *Evaluator) SetAttr(obj Object, name string, value Object) error {
	return SetAttr(obj, name, value)
}

// DelItem evaluates del container[key].
func (e *Evaluator) DelItem(container, key Object) error {
	return DelItem(container, key)
}
