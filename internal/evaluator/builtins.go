package evaluator

import (
	"sort"

	"github.com/ShabbirHasan1/monty/internal/config"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Builtins holds every function the runtime provides, keyed by name.
var Builtins map[string]*Builtin

func init() {
	Builtins = map[string]*Builtin{
		config.GetattrFuncName: {Name: config.GetattrFuncName, Fn: builtinGetattr},
		config.SetattrFuncName: {Name: config.SetattrFuncName, Fn: builtinSetattr},
		config.DelattrFuncName: {Name: config.DelattrFuncName, Fn: builtinDelattr},
		config.HasattrFuncName: {Name: config.HasattrFuncName, Fn: builtinHasattr},
		config.LenFuncName:     {Name: config.LenFuncName, Fn: builtinLen},
		config.SliceFuncName:   {Name: config.SliceFuncName, Fn: builtinSlice},
	}
}

// GetBuiltinsList returns a copy of the builtin table.
func GetBuiltinsList() map[string]*Builtin {
	return lo.Assign(Builtins)
}

// checkArity validates the call shape. No builtin accepts keyword arguments.
func checkArity(name string, args Args, atLeast, atMost int) error {
	if len(args.Kwargs) > 0 {
		return typeError("%s() takes no keyword arguments", name)
	}
	got := len(args.Positional)
	if got >= atLeast && got <= atMost {
		return nil
	}
	switch {
	case atLeast == atMost:
		return typeError("%s expected %d argument%s, got %d", name, atLeast, plural(atLeast), got)
	case got < atLeast:
		return typeError("%s expected at least %d argument%s, got %d", name, atLeast, plural(atLeast), got)
	default:
		return typeError("%s expected at most %d argument%s, got %d", name, atMost, plural(atMost), got)
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// attrName extracts the attribute-name argument.
func attrName(fn string, obj Object) (string, error) {
	s, ok := obj.(*String)
	if !ok {
		return "", typeError("%s(): attribute name must be string", fn)
	}
	return s.Value, nil
}

// builtinGetattr implements getattr(obj, name[, default]). The default
// replaces a missing attribute only; any other failure propagates.
func builtinGetattr(e *Evaluator, args Args) (Object, error) {
	if err := checkArity(config.GetattrFuncName, args, 2, 3); err != nil {
		return nil, err
	}
	name, err := attrName(config.GetattrFuncName, args.Positional[1])
	if err != nil {
		return nil, err
	}
	val, err := GetAttr(args.Positional[0], name)
	if err != nil {
		if len(args.Positional) == 3 && IsKind(err, KindAttributeError) {
			return args.Positional[2], nil
		}
		return nil, err
	}
	return val, nil
}

func builtinSetattr(e *Evaluator, args Args) (Object, error) {
	if err := checkArity(config.SetattrFuncName, args, 3, 3); err != nil {
		return nil, err
	}
	name, err := attrName(config.SetattrFuncName, args.Positional[1])
	if err != nil {
		return nil, err
	}
	if err := SetAttr(args.Positional[0], name, args.Positional[2]); err != nil {
		return nil, err
	}
	return NONE, nil
}

func builtinDelattr(e *Evaluator, args Args) (Object, error) {
	if err := checkArity(config.DelattrFuncName, args, 2, 2); err != nil {
		return nil, err
	}
	name, err := attrName(config.DelattrFuncName, args.Positional[1])
	if err != nil {
		return nil, err
	}
	if err := DelAttr(args.Positional[0], name); err != nil {
		return nil, err
	}
	return NONE, nil
}

func builtinHasattr(e *Evaluator, args Args) (Object, error) {
	if err := checkArity(config.HasattrFuncName, args, 2, 2); err != nil {
		return nil, err
	}
	name, err := attrName(config.HasattrFuncName, args.Positional[1])
	if err != nil {
		return nil, err
	}
	return nativeBoolToBoolean(HasAttr(args.Positional[0], name)), nil
}

func builtinLen(e *Evaluator, args Args) (Object, error) {
	if err := checkArity(config.LenFuncName, args, 1, 1); err != nil {
		return nil, err
	}
	switch o := args.Positional[0].(type) {
	case *String:
		return NewInt(int64(len([]rune(o.Value)))), nil
	case *Tuple:
		return NewInt(int64(o.Len())), nil
	case *List:
		return NewInt(int64(o.Len())), nil
	case *Dict:
		return NewInt(int64(o.Len())), nil
	}
	return nil, typeError("object of type '%s' has no len()", args.Positional[0].TypeName())
}

// builtinSlice implements slice(stop) and slice(start, stop[, step]).
func builtinSlice(e *Evaluator, args Args) (Object, error) {
	if err := checkArity(config.SliceFuncName, args, 1, 3); err != nil {
		return nil, err
	}
	parts := make([]mo.Option[int64], 3)
	for i, arg := range args.Positional {
		opt, err := sliceComponent(arg)
		if err != nil {
			return nil, err
		}
		parts[i] = opt
	}
	if len(args.Positional) == 1 {
		return &Slice{Stop: parts[0]}, nil
	}
	return &Slice{Start: parts[0], Stop: parts[1], Step: parts[2]}, nil
}

func sliceComponent(obj Object) (mo.Option[int64], error) {
	if _, ok := obj.(*None); ok {
		return mo.None[int64](), nil
	}
	if i, ok := toInt(obj); ok {
		return mo.Some(i), nil
	}
	return mo.None[int64](), typeError("slice indices must be integers or None, not '%s'", obj.TypeName())
}

// BuiltinNames lists the builtin names, sorted.
func BuiltinNames() []string {
	names := lo.Keys(Builtins)
	sort.Strings(names)
	return names
}
