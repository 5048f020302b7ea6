package conformance

import (
	"fmt"
	"sort"

	"github.com/ShabbirHasan1/monty/internal/config"
	"github.com/ShabbirHasan1/monty/internal/evaluator"
	"github.com/samber/lo"
)

// Host provides the external functions a scenario may call.
type Host interface {
	Names() []string
	Call(name string, args evaluator.Args) (evaluator.Object, error)
}

// HostFunc implements one external function.
type HostFunc func(args evaluator.Args) (evaluator.Object, error)

// FuncHost is a Host backed by a table of Go functions.
type FuncHost struct {
	funcs map[string]HostFunc
}

func NewHost() *FuncHost {
	return &FuncHost{funcs: make(map[string]HostFunc)}
}

// Register adds or replaces name.
func (h *FuncHost) Register(name string, fn HostFunc) *FuncHost {
	h.funcs[name] = fn
	return h
}

// Names returns the registered names, sorted.
func (h *FuncHost) Names() []string {
	names := lo.Keys(h.funcs)
	sort.Strings(names)
	return names
}

func (h *FuncHost) Call(name string, args evaluator.Args) (evaluator.Object, error) {
	fn, ok := h.funcs[name]
	if !ok {
		return nil, evaluator.NewException(evaluator.KindNameError, "name '"+name+"' is not defined", nil)
	}
	return fn(args)
}

// DefaultHost provides the record factories the behavioural corpus uses:
// make_point returns a frozen Point(x=1, y=2), make_mutable_point a
// mutable MutablePoint(x=1, y=2).
func DefaultHost() *FuncHost {
	return NewHost().
		Register(config.MakePointFuncName, func(args evaluator.Args) (evaluator.Object, error) {
			if err := noArgs(config.MakePointFuncName, args); err != nil {
				return nil, err
			}
			return evaluator.NewFrozenRecord(config.PointTypeName, pointFields()), nil
		}).
		Register(config.MakeMutablePointFuncName, func(args evaluator.Args) (evaluator.Object, error) {
			if err := noArgs(config.MakeMutablePointFuncName, args); err != nil {
				return nil, err
			}
			return evaluator.NewRecord(config.MutablePointTypeName, pointFields()), nil
		})
}

func pointFields() map[string]evaluator.Object {
	return map[string]evaluator.Object{
		"x": evaluator.NewInt(1),
		"y": evaluator.NewInt(2),
	}
}

func noArgs(name string, args evaluator.Args) error {
	if args.Len() == 0 {
		return nil
	}
	msg := fmt.Sprintf("%s() takes 0 positional arguments but %d were given", name, args.Len())
	return evaluator.NewException(evaluator.KindTypeError, msg, nil)
}
