package conformance

import (
	"fmt"

	"github.com/ShabbirHasan1/monty/internal/evaluator"
	"github.com/ShabbirHasan1/monty/internal/scenario"
)

// evalExpr builds the value x describes. References resolve through the
// evaluator, so they see every binding made by earlier steps.
func evalExpr(e *evaluator.Evaluator, x scenario.Expr) (evaluator.Object, error) {
	switch x := x.(type) {
	case *scenario.Lit:
		return x.Value, nil
	case *scenario.RefExpr:
		return e.Lookup(x.Name)
	case *scenario.ListExpr:
		elems, err := evalExprs(e, x.Elements)
		if err != nil {
			return nil, err
		}
		return evaluator.NewList(elems...), nil
	case *scenario.TupleExpr:
		elems, err := evalExprs(e, x.Elements)
		if err != nil {
			return nil, err
		}
		return evaluator.NewTuple(elems...), nil
	case *scenario.DictExpr:
		items := make([]evaluator.DictItem, len(x.Keys))
		for i := range x.Keys {
			k, err := evalExpr(e, x.Keys[i])
			if err != nil {
				return nil, err
			}
			v, err := evalExpr(e, x.Values[i])
			if err != nil {
				return nil, err
			}
			items[i] = evaluator.DictItem{Key: k, Value: v}
		}
		return evaluator.NewDictFromItems(items...)
	case *scenario.RecordExpr:
		fields := make(map[string]evaluator.Object, len(x.Fields))
		for _, f := range x.Fields {
			v, err := evalExpr(e, f.Value)
			if err != nil {
				return nil, err
			}
			fields[f.Name] = v
		}
		if x.Frozen {
			return evaluator.NewFrozenRecord(x.TypeName, fields), nil
		}
		return evaluator.NewRecord(x.TypeName, fields), nil
	case *scenario.SliceExpr:
		return &evaluator.Slice{Start: x.Start, Stop: x.Stop, Step: x.Step}, nil
	case *scenario.ExceptionExpr:
		args, err := evalExprs(e, x.Args)
		if err != nil {
			return nil, err
		}
		return evaluator.NewExceptionFromArgs(x.Kind, args...), nil
	}
	return nil, fmt.Errorf("unknown expression %T", x)
}

func evalExprs(e *evaluator.Evaluator, xs []scenario.Expr) ([]evaluator.Object, error) {
	out := make([]evaluator.Object, len(xs))
	for i, x := range xs {
		v, err := evalExpr(e, x)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
