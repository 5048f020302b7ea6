// Package monty embeds the value runtime in Go programs. A Runtime holds
// named bindings; Go values cross into it through a Marshaller and Go
// functions are exposed to it as external functions.
package monty

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/ShabbirHasan1/monty/internal/evaluator"
)

// Exception is the error every failing runtime operation returns.
type Exception = evaluator.Exception

// AsException unwraps err to the runtime exception it carries.
func AsException(err error) (*Exception, bool) {
	return evaluator.AsException(err)
}

// Runtime wraps an evaluator and provides a high-level embedding API.
type Runtime struct {
	eval       *evaluator.Evaluator
	marshaller *Marshaller

	mu    sync.RWMutex
	funcs map[string]reflect.Value
}

// New creates a runtime with the builtins and no bindings.
func New() *Runtime {
	r := &Runtime{
		eval:       evaluator.New(),
		marshaller: NewMarshaller(),
		funcs:      make(map[string]reflect.Value),
	}
	r.eval.External = r.hostCallHandler
	return r
}

// Bind makes val available under name. Go functions become external
// functions the runtime calls through reflection; any other value is
// converted with the Marshaller.
func (r *Runtime) Bind(name string, val interface{}) error {
	if fn := reflect.ValueOf(val); fn.Kind() == reflect.Func && !fn.IsNil() {
		r.mu.Lock()
		r.funcs[name] = fn
		r.mu.Unlock()
		r.eval.Bind(name, &evaluator.ExternalFunction{Name: name})
		return nil
	}

	obj, err := r.marshaller.ToValue(val)
	if err != nil {
		return fmt.Errorf("binding %s: %w", name, err)
	}
	r.eval.Bind(name, obj)
	return nil
}

// Unbind removes the binding for name, including a bound Go function.
func (r *Runtime) Unbind(name string) error {
	if err := r.eval.Unbind(name); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.funcs, name)
	r.mu.Unlock()
	return nil
}

// Names lists the current bindings, sorted.
func (r *Runtime) Names() []string {
	return r.eval.Names()
}

// Get retrieves a binding converted to its natural Go form.
func (r *Runtime) Get(name string) (interface{}, error) {
	obj, err := r.eval.Lookup(name)
	if err != nil {
		return nil, err
	}
	return r.marshaller.FromValue(obj, nil)
}

// Decode converts the binding name into the Go value target points to.
func (r *Runtime) Decode(name string, target interface{}) error {
	ptr := reflect.ValueOf(target)
	if ptr.Kind() != reflect.Ptr || ptr.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer, got %T", target)
	}
	obj, err := r.eval.Lookup(name)
	if err != nil {
		return err
	}
	rv, err := r.marshaller.convert(obj, ptr.Elem().Type())
	if err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	ptr.Elem().Set(rv)
	return nil
}

// GetAttr reads attribute attr of the value bound to name.
func (r *Runtime) GetAttr(name, attr string) (interface{}, error) {
	obj, err := r.eval.Lookup(name)
	if err != nil {
		return nil, err
	}
	val, err := r.eval.GetAttr(obj, attr)
	if err != nil {
		return nil, err
	}
	return r.marshaller.FromValue(val, nil)
}

// SetAttr assigns attribute attr of the value bound to name.
func (r *Runtime) SetAttr(name, attr string, value interface{}) error {
	obj, err := r.eval.Lookup(name)
	if err != nil {
		return err
	}
	val, err := r.marshaller.ToValue(value)
	if err != nil {
		return err
	}
	return r.eval.SetAttr(obj, attr, val)
}

// DelItem deletes key from the container bound to name.
func (r *Runtime) DelItem(name string, key interface{}) error {
	obj, err := r.eval.Lookup(name)
	if err != nil {
		return err
	}
	k, err := r.marshaller.ToValue(key)
	if err != nil {
		return err
	}
	return r.eval.DelItem(obj, k)
}

// Call calls a builtin or bound function by name with Go arguments.
func (r *Runtime) Call(name string, args ...interface{}) (interface{}, error) {
	positional := make([]evaluator.Object, len(args))
	for i, arg := range args {
		obj, err := r.marshaller.ToValue(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		positional[i] = obj
	}

	result, err := r.eval.CallName(name, evaluator.Positional(positional...))
	if err != nil {
		return nil, err
	}
	return r.marshaller.FromValue(result, nil)
}

func (r *Runtime) hostCallHandler(name string, args evaluator.Args) (evaluator.Object, error) {
	r.mu.RLock()
	fn, ok := r.funcs[name]
	r.mu.RUnlock()
	if !ok {
		return nil, evaluator.NewException(evaluator.KindRuntimeError,
			fmt.Sprintf("no host handler for external function '%s'", name), nil)
	}
	if len(args.Kwargs) > 0 {
		return nil, typeErrorf("%s() got an unexpected keyword argument '%s'", name, args.Kwargs[0].Name)
	}

	fnType := fn.Type()
	numIn := fnType.NumIn()
	isVariadic := fnType.IsVariadic()
	given := len(args.Positional)

	if isVariadic {
		if given < numIn-1 {
			return nil, typeErrorf("%s() takes at least %d arguments (%d given)", name, numIn-1, given)
		}
	} else if given != numIn {
		return nil, typeErrorf("%s() takes %d arguments (%d given)", name, numIn, given)
	}

	goArgs := make([]reflect.Value, given)
	for i, arg := range args.Positional {
		targetType := fnType.In(min(i, numIn-1))
		if isVariadic && i >= numIn-1 {
			targetType = targetType.Elem()
		}
		v, err := r.marshaller.convert(arg, targetType)
		if err != nil {
			return nil, typeErrorf("%s() argument %d: %v", name, i+1, err)
		}
		goArgs[i] = v
	}

	return r.results(fn.Call(goArgs))
}

// results converts a Go call's return values: a trailing non-nil error
// becomes a raised exception, no results give None and several give a tuple.
func (r *Runtime) results(out []reflect.Value) (evaluator.Object, error) {
	if n := len(out); n > 0 && out[n-1].Type() == errorType {
		if errVal := out[n-1]; !errVal.IsNil() {
			err := errVal.Interface().(error)
			if exc, ok := evaluator.AsException(err); ok {
				return nil, exc
			}
			return nil, evaluator.NewException(evaluator.KindRuntimeError, err.Error(), nil)
		}
		out = out[:n-1]
	}

	switch len(out) {
	case 0:
		return evaluator.NONE, nil
	case 1:
		return r.marshaller.toValue(out[0])
	}
	elements := make([]evaluator.Object, len(out))
	for i, res := range out {
		val, err := r.marshaller.toValue(res)
		if err != nil {
			return nil, err
		}
		elements[i] = val
	}
	return evaluator.NewTuple(elements...), nil
}

func typeErrorf(format string, a ...interface{}) *evaluator.Exception {
	return evaluator.NewException(evaluator.KindTypeError, fmt.Sprintf(format, a...), nil)
}
