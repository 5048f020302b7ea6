package conformance

import (
	"errors"
	"strings"
	"testing"

	"github.com/ShabbirHasan1/monty/internal/evaluator"
)

func mustDecode(t *testing.T, src string) *Machine {
	t.Helper()
	sc, err := Decode([]byte(src), "machine.yaml")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return NewMachine(sc, "iter", DefaultHost().Names(), nil)
}

const suspendingScenario = `steps:
  - let: p
    call: make_mutable_point
  - set: p.x
    value: 7
  - let: q
    call: make_point
  - get: q.y
    want: 2
`

func TestMachine_SuspendsAtExternalCalls(t *testing.T) {
	m := mustDecode(t, suspendingScenario)
	host := DefaultHost()

	call, err := m.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	var names []string
	for call != nil {
		names = append(names, call.Name)
		if m.Done() {
			t.Fatal("machine reports done while suspended")
		}
		result, callErr := host.Call(call.Name, call.Args)
		call, err = m.Resume(result, callErr)
		if err != nil {
			t.Fatalf("resume: %v", err)
		}
	}

	if strings.Join(names, ",") != "make_mutable_point,make_point" {
		t.Errorf("suspensions = %v", names)
	}
	if !m.Done() {
		t.Error("machine should be done")
	}
	r := m.Report()
	if !r.Passed() {
		t.Errorf("failures: %v", r.Failures)
	}
	if r.ExternalCalls != 2 || r.Steps != 4 {
		t.Errorf("report = %+v", r)
	}
}

func TestMachine_DirectRunsToCompletion(t *testing.T) {
	m := mustDecode(t, suspendingScenario)
	m.SetHandler(DefaultHost().Call)
	call, err := m.Start()
	if err != nil || call != nil {
		t.Fatalf("start = %v, %v; want to finish", call, err)
	}
	if !m.Report().Passed() {
		t.Errorf("failures: %v", m.Report().Failures)
	}
}

func TestMachine_Misuse(t *testing.T) {
	m := mustDecode(t, "steps: []\n")
	if _, err := m.Resume(evaluator.NONE, nil); !errors.Is(err, ErrNotSuspended) {
		t.Errorf("resume before start = %v", err)
	}
	if _, err := m.Start(); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Start(); !errors.Is(err, ErrStarted) {
		t.Errorf("second start = %v", err)
	}
}

func TestMachine_HostFailureIsStepFailure(t *testing.T) {
	m := mustDecode(t, "steps:\n  - call: make_point\n")
	call, _ := m.Start()
	if call == nil {
		t.Fatal("expected a suspension")
	}
	if _, err := m.Resume(nil, errors.New("connection reset")); err != nil {
		t.Fatal(err)
	}
	r := m.Report()
	if len(r.Failures) != 1 || !strings.Contains(r.Failures[0].Message, "host error: connection reset") {
		t.Errorf("failures = %v", r.Failures)
	}
}

func TestMachine_ReportsMismatches(t *testing.T) {
	src := `steps:
  - value: 1
    want: 2
  - value: 1
    raises: ValueError
  - raise: !exc {kind: KeyError, args: [k]}
    raises: IndexError
  - raise: !exc {kind: KeyError, args: [k]}
    raises: KeyError
    contains: nope
  - raise: !exc TypeError
  - let: a
    value: [1]
  - value: [1]
    same: a
  - call: make_point
    args: [1]
    raises: TypeError
    contains: takes 0 positional arguments but 1 were given
`
	m := mustDecode(t, src)
	m.SetHandler(DefaultHost().Call)
	if _, err := m.Start(); err != nil {
		t.Fatal(err)
	}

	wantMessages := []string{
		"result 1, want 2",
		"expected ValueError, nothing was raised",
		"raised KeyError: 'k', want IndexError",
		"does not contain \"nope\"",
		"uncaught TypeError",
		"not the object bound to \"a\"",
	}
	failures := m.Report().Failures
	if len(failures) != len(wantMessages) {
		t.Fatalf("failures = %v", failures)
	}
	for i, want := range wantMessages {
		if !strings.Contains(failures[i].Message, want) {
			t.Errorf("failure %d = %q, want %q", i, failures[i].Message, want)
		}
	}
	if failures[0].Step != 1 || failures[0].Line != 2 {
		t.Errorf("first failure at step %d line %d", failures[0].Step, failures[0].Line)
	}
}

func TestFuncHost(t *testing.T) {
	host := DefaultHost()
	if strings.Join(host.Names(), ",") != "make_mutable_point,make_point" {
		t.Errorf("names = %v", host.Names())
	}
	_, err := host.Call("missing", evaluator.Positional())
	if exc, ok := evaluator.AsException(err); !ok || exc.Kind != evaluator.KindNameError {
		t.Errorf("unknown host function error = %v", err)
	}

	p, err := host.Call("make_point", evaluator.Positional())
	if err != nil {
		t.Fatal(err)
	}
	if p.Inspect() != "Point(x=1, y=2)" || evaluator.Mutable(p) {
		t.Errorf("make_point = %s", p.Inspect())
	}
	mp, _ := host.Call("make_mutable_point", evaluator.Positional())
	if mp.Inspect() != "MutablePoint(x=1, y=2)" || !evaluator.Mutable(mp) {
		t.Errorf("make_mutable_point = %s", mp.Inspect())
	}
}
