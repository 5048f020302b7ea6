// Package conformance runs behavioural scenarios against the runtime. It
// decodes scenario YAML, drives the evaluator one step at a time and checks
// each step's outcome.
package conformance

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ShabbirHasan1/monty/internal/config"
	"github.com/ShabbirHasan1/monty/internal/evaluator"
	"github.com/ShabbirHasan1/monty/internal/scenario"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"gopkg.in/yaml.v3"
)

// Literal tags understood inside step values.
const (
	TagTuple  = "!tuple"
	TagSlice  = "!slice"
	TagRecord = "!record"
	TagFrozen = "!frozen"
	TagExc    = "!exc"
	TagRef    = "!ref"

	recordTypeKey = "__type__"
)

var stepKeys = []string{
	"let", "value", "call", "args", "kwargs", "get", "set", "delattr", "del", "index", "key", "raise",
	"want", "raises", "contains", "message", "payload", "same",
}

// decoder carries the file path for error messages.
type decoder struct {
	path string
}

func (d *decoder) errorf(n *yaml.Node, format string, a ...interface{}) error {
	return fmt.Errorf("%s:%d: %s", d.path, n.Line, fmt.Sprintf(format, a...))
}

// Decode parses scenario YAML. The path is used for messages and as the
// scenario name when the file does not set one.
func Decode(data []byte, path string) (*scenario.Scenario, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%s: empty scenario", path)
	}

	d := &decoder{path: path}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, d.errorf(root, "scenario must be a mapping")
	}

	sc := &scenario.Scenario{File: path}
	comments := []string{doc.HeadComment, root.HeadComment}
	if len(root.Content) > 0 {
		comments = append(comments, root.Content[0].HeadComment)
	}
	sc.Mode = modeDirective(comments...)

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "name":
			sc.Name = val.Value
		case config.ModeDirective:
			sc.Mode = val.Value
		case "steps":
			if val.Kind != yaml.SequenceNode {
				return nil, d.errorf(val, "steps must be a sequence")
			}
			for _, n := range val.Content {
				step, err := d.step(n)
				if err != nil {
					return nil, err
				}
				sc.Steps = append(sc.Steps, step)
			}
		default:
			return nil, d.errorf(key, "unknown scenario key %q", key.Value)
		}
	}

	if sc.Mode != "" && !config.ValidMode(sc.Mode) {
		return nil, fmt.Errorf("%s: mode %q is not one of %v", path, sc.Mode, config.Modes)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// modeDirective finds a "# mode: <m>" line among head comments.
func modeDirective(comments ...string) string {
	for _, c := range comments {
		for _, line := range strings.Split(c, "\n") {
			line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
			if v, ok := strings.CutPrefix(line, config.ModeDirective+":"); ok {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}

func (d *decoder) step(n *yaml.Node) (*scenario.Step, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, "step must be a mapping")
	}

	fields := make(map[string]*yaml.Node)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if !lo.Contains(stepKeys, key.Value) {
			return nil, d.errorf(key, "unknown step key %q", key.Value)
		}
		if _, dup := fields[key.Value]; dup {
			return nil, d.errorf(key, "duplicate step key %q", key.Value)
		}
		fields[key.Value] = n.Content[i+1]
	}

	step := &scenario.Step{Line: n.Line}
	if let, ok := fields["let"]; ok {
		step.Let = let.Value
	}

	action, err := d.action(n, fields)
	if err != nil {
		return nil, err
	}
	step.Action = action

	expect, err := d.expect(n, fields)
	if err != nil {
		return nil, err
	}
	step.Expect = expect
	return step, nil
}

func (d *decoder) action(n *yaml.Node, fields map[string]*yaml.Node) (scenario.Action, error) {
	var act scenario.Action

	kinds := lo.Filter([]string{"call", "get", "set", "delattr", "del", "index", "raise"}, func(k string, _ int) bool {
		_, ok := fields[k]
		return ok
	})
	switch {
	case len(kinds) > 1:
		return act, d.errorf(n, "step has more than one action: %s", strings.Join(kinds, ", "))
	case len(kinds) == 0:
		if _, ok := fields["value"]; !ok {
			return act, d.errorf(n, "step has no action")
		}
		kinds = []string{"value"}
	}
	kind, _ := scenario.ActionKindByName(kinds[0])
	act.Kind = kind
	node := fields[kinds[0]]

	var err error
	switch kind {
	case scenario.ActValue, scenario.ActRaise:
		act.Value, err = d.expr(node)
	case scenario.ActCall:
		act.Target = node.Value
		if args, ok := fields["args"]; ok {
			if args.Kind != yaml.SequenceNode {
				return act, d.errorf(args, "args must be a sequence")
			}
			act.Args, err = d.exprs(args.Content)
			if err != nil {
				return act, err
			}
		}
		if kwargs, ok := fields["kwargs"]; ok {
			act.Kwargs, err = d.kwargs(kwargs)
		}
	case scenario.ActGet, scenario.ActSet, scenario.ActDelattr:
		target, attr, ok := strings.Cut(node.Value, ".")
		if !ok || target == "" || attr == "" {
			return act, d.errorf(node, "%s needs target.name, got %q", kind, node.Value)
		}
		act.Target, act.Attr = target, attr
		if kind == scenario.ActSet {
			val, ok := fields["value"]
			if !ok {
				return act, d.errorf(n, "set needs a value")
			}
			act.Value, err = d.expr(val)
		}
	case scenario.ActDel, scenario.ActIndex:
		act.Target = node.Value
		key, ok := fields["key"]
		if !ok {
			return act, d.errorf(n, "%s needs a key", kind)
		}
		act.Key, err = d.expr(key)
	}
	return act, err
}

func (d *decoder) expect(n *yaml.Node, fields map[string]*yaml.Node) (scenario.Expect, error) {
	var exp scenario.Expect
	var err error

	if want, ok := fields["want"]; ok {
		if exp.Want, err = d.expr(want); err != nil {
			return exp, err
		}
	}
	if raises, ok := fields["raises"]; ok {
		exp.Raises = raises.Value
		if _, known := exp.RaisesKind(); !known {
			return exp, d.errorf(raises, "unknown exception kind %q", raises.Value)
		}
	}
	if contains, ok := fields["contains"]; ok {
		exp.Contains = contains.Value
	}
	if message, ok := fields["message"]; ok {
		exp.Message = lo.ToPtr(message.Value)
	}
	if payload, ok := fields["payload"]; ok {
		if exp.Payload, err = d.expr(payload); err != nil {
			return exp, err
		}
	}
	if same, ok := fields["same"]; ok {
		exp.Same = same.Value
	}

	if exp.Want != nil && exp.ExpectsRaise() {
		return exp, d.errorf(n, "want and raises are mutually exclusive")
	}
	if !exp.ExpectsRaise() && (exp.Contains != "" || exp.Message != nil || exp.Payload != nil) {
		return exp, d.errorf(n, "contains, message and payload need raises")
	}
	return exp, nil
}

func (d *decoder) exprs(nodes []*yaml.Node) ([]scenario.Expr, error) {
	out := make([]scenario.Expr, 0, len(nodes))
	for _, n := range nodes {
		x, err := d.expr(n)
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}

func (d *decoder) kwargs(n *yaml.Node) ([]scenario.KwargExpr, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, "kwargs must be a mapping")
	}
	var out []scenario.KwargExpr
	for i := 0; i+1 < len(n.Content); i += 2 {
		val, err := d.expr(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		out = append(out, scenario.KwargExpr{Name: n.Content[i].Value, Value: val})
	}
	return out, nil
}

// expr decodes a literal. Plain YAML maps to the matching runtime value:
// null, bools, ints and strings to scalars, sequences to lists and mappings
// to dicts. Tags select the other kinds.
func (d *decoder) expr(n *yaml.Node) (scenario.Expr, error) {
	if n.Kind == yaml.AliasNode {
		return d.expr(n.Alias)
	}

	switch n.ShortTag() {
	case TagTuple:
		if n.Kind != yaml.SequenceNode {
			return nil, d.errorf(n, "%s needs a sequence", TagTuple)
		}
		elems, err := d.exprs(n.Content)
		if err != nil {
			return nil, err
		}
		return &scenario.TupleExpr{Elements: elems}, nil
	case TagSlice:
		return d.slice(n)
	case TagRecord, TagFrozen:
		return d.record(n, n.ShortTag() == TagFrozen)
	case TagExc:
		return d.exception(n)
	case TagRef:
		if n.Kind != yaml.ScalarNode || n.Value == "" {
			return nil, d.errorf(n, "%s needs a binding name", TagRef)
		}
		return &scenario.RefExpr{Name: n.Value}, nil
	}

	switch n.Kind {
	case yaml.ScalarNode:
		return d.scalar(n)
	case yaml.SequenceNode:
		elems, err := d.exprs(n.Content)
		if err != nil {
			return nil, err
		}
		return &scenario.ListExpr{Elements: elems}, nil
	case yaml.MappingNode:
		dict := &scenario.DictExpr{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, err := d.expr(n.Content[i])
			if err != nil {
				return nil, err
			}
			v, err := d.expr(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			dict.Keys = append(dict.Keys, k)
			dict.Values = append(dict.Values, v)
		}
		return dict, nil
	}
	return nil, d.errorf(n, "unsupported literal")
}

func (d *decoder) scalar(n *yaml.Node) (scenario.Expr, error) {
	switch n.ShortTag() {
	case "!!null":
		return &scenario.Lit{Value: evaluator.NONE}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, d.errorf(n, "%v", err)
		}
		return &scenario.Lit{Value: evaluator.NewBool(b)}, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, d.errorf(n, "%v", err)
		}
		return &scenario.Lit{Value: evaluator.NewInt(i)}, nil
	case "!!str":
		return &scenario.Lit{Value: evaluator.NewString(n.Value)}, nil
	}
	return nil, d.errorf(n, "unsupported scalar %s %q", n.ShortTag(), n.Value)
}

// slice decodes !slice [stop], [start, stop] or [start, stop, step],
// mirroring the slice() builtin.
func (d *decoder) slice(n *yaml.Node) (scenario.Expr, error) {
	if n.Kind != yaml.SequenceNode || len(n.Content) == 0 || len(n.Content) > 3 {
		return nil, d.errorf(n, "%s needs one to three components", TagSlice)
	}
	parts := make([]mo.Option[int64], 3)
	for i, c := range n.Content {
		switch c.ShortTag() {
		case "!!null":
		case "!!int":
			var v int64
			if err := c.Decode(&v); err != nil {
				return nil, d.errorf(c, "%v", err)
			}
			parts[i] = mo.Some(v)
		default:
			return nil, d.errorf(c, "slice components must be integers or null")
		}
	}
	if len(n.Content) == 1 {
		return &scenario.SliceExpr{Stop: parts[0]}, nil
	}
	return &scenario.SliceExpr{Start: parts[0], Stop: parts[1], Step: parts[2]}, nil
}

func (d *decoder) record(n *yaml.Node, frozen bool) (scenario.Expr, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, "record needs a mapping")
	}
	rec := &scenario.RecordExpr{Frozen: frozen}
	for i := 0; i+1 < len(n.Content); i += 2 {
		name, valNode := n.Content[i].Value, n.Content[i+1]
		if name == recordTypeKey {
			rec.TypeName = valNode.Value
			continue
		}
		val, err := d.expr(valNode)
		if err != nil {
			return nil, err
		}
		rec.Fields = append(rec.Fields, scenario.FieldExpr{Name: name, Value: val})
	}
	return rec, nil
}

// exception decodes !exc KindName or !exc {kind: KindName, args: [...]}.
func (d *decoder) exception(n *yaml.Node) (scenario.Expr, error) {
	var kindName string
	var args []*yaml.Node

	switch n.Kind {
	case yaml.ScalarNode:
		kindName = n.Value
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			switch key, val := n.Content[i].Value, n.Content[i+1]; key {
			case "kind":
				kindName = val.Value
			case "args":
				if val.Kind != yaml.SequenceNode {
					return nil, d.errorf(val, "exception args must be a sequence")
				}
				args = val.Content
			default:
				return nil, d.errorf(n.Content[i], "unknown exception key %q", key)
			}
		}
	default:
		return nil, d.errorf(n, "%s needs a kind name or mapping", TagExc)
	}

	kind, ok := evaluator.ParseExceptionKind(kindName)
	if !ok {
		return nil, d.errorf(n, "unknown exception kind %q", kindName)
	}
	argExprs, err := d.exprs(args)
	if err != nil {
		return nil, err
	}
	return &scenario.ExceptionExpr{Kind: kind, Args: argExprs}, nil
}
