// Package scenario defines the decoded form of a conformance scenario: an
// ordered list of steps, each performing one action against the runtime and
// checking its outcome.
package scenario

import (
	"github.com/ShabbirHasan1/monty/internal/evaluator"
)

// Scenario is one behavioural test program.
type Scenario struct {
	Name string
	File string
	// Mode is the execution mode requested by the file itself, empty when
	// the file carries no directive.
	Mode  string
	Steps []*Step
}

// ActionKind selects what a step does.
type ActionKind int

const (
	ActValue   ActionKind = iota // evaluate a literal
	ActCall                      // call a builtin or host function
	ActGet                       // read target.name
	ActSet                       // write target.name = value
	ActDelattr                   // delete target.name
	ActDel                       // del target[key]
	ActIndex                     // read target[key]
	ActRaise                     // raise an exception value
)

var actionNames = map[ActionKind]string{
	ActValue:   "value",
	ActCall:    "call",
	ActGet:     "get",
	ActSet:     "set",
	ActDelattr: "delattr",
	ActDel:     "del",
	ActIndex:   "index",
	ActRaise:   "raise",
}

func (k ActionKind) String() string { return actionNames[k] }

// ActionKindByName maps a step key to its action.
func ActionKindByName(name string) (ActionKind, bool) {
	for k, n := range actionNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Step is a single action plus what it is expected to produce.
type Step struct {
	Line int
	// Let binds the action's result, or the caught exception when Raises is set.
	Let    string
	Action Action
	Expect Expect
}

// Action is the operation a step performs. Fields not used by Kind are zero.
type Action struct {
	Kind   ActionKind
	Target string // binding name for get/set/delattr/del/index, function name for call
	Attr   string // attribute name for get/set/delattr
	Args   []Expr
	Kwargs []KwargExpr
	Key    Expr
	Value  Expr // literal for value/set/raise
}

// Expect lists the checks applied after the action ran.
type Expect struct {
	Want     Expr
	Raises   string
	Contains string
	Message  *string
	Payload  Expr
	Same     string
}

// ExpectsRaise reports whether the step should fail with an exception.
func (e Expect) ExpectsRaise() bool { return e.Raises != "" }

// RaisesKind resolves the expected exception kind.
func (e Expect) RaisesKind() (evaluator.ExceptionKind, bool) {
	return evaluator.ParseExceptionKind(e.Raises)
}
