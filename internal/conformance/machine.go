package conformance

import (
	"errors"
	"strings"
	"time"

	"github.com/ShabbirHasan1/monty/internal/evaluator"
	"github.com/ShabbirHasan1/monty/internal/scenario"
	"go.uber.org/zap"
)

// ExternalCall is a host call the machine is suspended on.
type ExternalCall struct {
	Name string
	Args evaluator.Args
}

var (
	ErrNotSuspended = errors.New("machine is not suspended on an external call")
	ErrStarted      = errors.New("machine already started")
)

// Machine executes a scenario one step at a time. With a handler installed
// it runs to completion in Start; without one it suspends at every external
// call and continues when the driver supplies the result through Resume.
type Machine struct {
	sc      *scenario.Scenario
	eval    *evaluator.Evaluator
	report  *scenario.Report
	logger  *zap.Logger
	pc      int
	pending *ExternalCall
	started bool
	begin   time.Time
}

// NewMachine prepares sc for execution. externals are bound as host
// function names before the first step.
func NewMachine(sc *scenario.Scenario, mode string, externals []string, logger *zap.Logger) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	eval := evaluator.New()
	for _, name := range externals {
		eval.Bind(name, &evaluator.ExternalFunction{Name: name})
	}
	return &Machine{
		sc:     sc,
		eval:   eval,
		report: &scenario.Report{Name: sc.Name, File: sc.File, Mode: mode, Steps: len(sc.Steps)},
		logger: logger.With(zap.String("scenario", sc.Name), zap.String("mode", mode)),
	}
}

// SetHandler makes external calls run inline instead of suspending.
func (m *Machine) SetHandler(h evaluator.ExternalHandler) {
	m.eval.External = h
}

// Start runs from the first step. It returns the call the machine is
// suspended on, or nil once the scenario has finished.
func (m *Machine) Start() (*ExternalCall, error) {
	if m.started {
		return nil, ErrStarted
	}
	m.started = true
	m.begin = time.Now()
	m.logger.Debug("scenario started", zap.Int("steps", len(m.sc.Steps)))
	return m.run(), nil
}

// Resume completes the pending call with the host's result and runs on.
func (m *Machine) Resume(result evaluator.Object, err error) (*ExternalCall, error) {
	if m.pending == nil {
		return nil, ErrNotSuspended
	}
	m.pending = nil
	m.finish(m.sc.Steps[m.pc], result, err)
	m.pc++
	return m.run(), nil
}

// Done reports whether every step has run.
func (m *Machine) Done() bool {
	return m.started && m.pending == nil && m.pc >= len(m.sc.Steps)
}

// Report returns the outcome so far.
func (m *Machine) Report() *scenario.Report {
	return m.report
}

func (m *Machine) run() *ExternalCall {
	for m.pc < len(m.sc.Steps) {
		step := m.sc.Steps[m.pc]

		var result evaluator.Object
		var err error
		if step.Action.Kind == scenario.ActCall {
			fn, args, cerr := m.callee(step.Action)
			if cerr == nil {
				if ext, ok := fn.(*evaluator.ExternalFunction); ok {
					m.report.ExternalCalls++
					if m.eval.External == nil {
						m.pending = &ExternalCall{Name: ext.Name, Args: args}
						return m.pending
					}
				}
				result, err = m.eval.Call(fn, args)
			} else {
				err = cerr
			}
		} else {
			result, err = m.execute(step.Action)
		}

		m.finish(step, result, err)
		m.pc++
	}

	m.report.Duration = time.Since(m.begin)
	m.logger.Debug("scenario finished",
		zap.Bool("passed", m.report.Passed()),
		zap.Int("failures", len(m.report.Failures)),
		zap.Duration("duration", m.report.Duration))
	return nil
}

func (m *Machine) callee(act scenario.Action) (evaluator.Object, evaluator.Args, error) {
	var args evaluator.Args
	fn, err := m.eval.Lookup(act.Target)
	if err != nil {
		return nil, args, err
	}
	if args.Positional, err = evalExprs(m.eval, act.Args); err != nil {
		return nil, args, err
	}
	for _, kw := range act.Kwargs {
		v, err := evalExpr(m.eval, kw.Value)
		if err != nil {
			return nil, args, err
		}
		args.Kwargs = append(args.Kwargs, evaluator.Kwarg{Name: kw.Name, Value: v})
	}
	return fn, args, nil
}

// execute performs every action except calls. Actions with no result of
// their own yield None.
func (m *Machine) execute(act scenario.Action) (evaluator.Object, error) {
	switch act.Kind {
	case scenario.ActValue:
		return evalExpr(m.eval, act.Value)
	case scenario.ActRaise:
		v, err := evalExpr(m.eval, act.Value)
		if err != nil {
			return nil, err
		}
		if exc, ok := v.(*evaluator.Exception); ok {
			return nil, exc
		}
		return nil, evaluator.NewException(evaluator.KindTypeError, "exceptions must derive from BaseException", nil)
	}

	target, err := m.eval.Lookup(act.Target)
	if err != nil {
		return nil, err
	}

	switch act.Kind {
	case scenario.ActGet:
		return m.eval.GetAttr(target, act.Attr)
	case scenario.ActSet:
		v, err := evalExpr(m.eval, act.Value)
		if err != nil {
			return nil, err
		}
		return evaluator.NONE, m.eval.SetAttr(target, act.Attr, v)
	case scenario.ActDelattr:
		return evaluator.NONE, evaluator.DelAttr(target, act.Attr)
	case scenario.ActDel, scenario.ActIndex:
		key, err := evalExpr(m.eval, act.Key)
		if err != nil {
			return nil, err
		}
		if act.Kind == scenario.ActIndex {
			return evaluator.GetItem(target, key)
		}
		return evaluator.NONE, m.eval.DelItem(target, key)
	}
	return nil, errors.New("unsupported action " + act.Kind.String())
}

// finish checks the step's outcome against its expectations and binds
// the result (or the caught exception) under the step's let name.
func (m *Machine) finish(step *scenario.Step, result evaluator.Object, err error) {
	i := m.pc
	exp := step.Expect
	failures := len(m.report.Failures)
	defer func() {
		if len(m.report.Failures) > failures {
			m.logger.Warn("step failed",
				zap.Int("step", i+1),
				zap.Int("line", step.Line),
				zap.String("reason", m.report.Failures[len(m.report.Failures)-1].Message))
		}
	}()

	if err != nil {
		exc, ok := evaluator.AsException(err)
		if !ok {
			m.report.Fail(i, step.Line, "host error: %v", err)
			return
		}
		if !exp.ExpectsRaise() {
			m.report.Fail(i, step.Line, "uncaught %s", exc.Error())
			return
		}
		kind, _ := exp.RaisesKind()
		if !evaluator.IsA(exc.Kind, kind) {
			m.report.Fail(i, step.Line, "raised %s, want %s", exc.Error(), exp.Raises)
			return
		}
		if exp.Contains != "" && !strings.Contains(exc.Message, exp.Contains) {
			m.report.Fail(i, step.Line, "message %q does not contain %q", exc.Message, exp.Contains)
		}
		if exp.Message != nil && exc.Message != *exp.Message {
			m.report.Fail(i, step.Line, "message %q, want %q", exc.Message, *exp.Message)
		}
		if exp.Payload != nil {
			m.check(i, step, "payload", exc.Args, exp.Payload)
		}
		if step.Let != "" {
			m.eval.Bind(step.Let, exc)
		}
		return
	}

	if exp.ExpectsRaise() {
		m.report.Fail(i, step.Line, "expected %s, nothing was raised", exp.Raises)
		return
	}
	if exp.Want != nil {
		m.check(i, step, "result", result, exp.Want)
	}
	if exp.Same != "" {
		other, lerr := m.eval.Lookup(exp.Same)
		if lerr != nil || other != result {
			m.report.Fail(i, step.Line, "result is not the object bound to %q", exp.Same)
		}
	}
	if step.Let != "" {
		m.eval.Bind(step.Let, result)
	}
}

func (m *Machine) check(i int, step *scenario.Step, what string, got evaluator.Object, want scenario.Expr) {
	wantVal, err := evalExpr(m.eval, want)
	if err != nil {
		m.report.Fail(i, step.Line, "building expected %s: %v", what, err)
		return
	}
	if !evaluator.ObjectsEqual(got, wantVal) {
		m.report.Fail(i, step.Line, "%s %s, want %s", what, got.Inspect(), wantVal.Inspect())
	}
}
