package scenario

import (
	"fmt"
	"time"
)

// Failure records one step that did not behave as expected.
type Failure struct {
	Step    int // 1-based step number
	Line    int // line in the scenario file
	Message string
}

// String formats the failure with its position. A Step of 0 marks a
// failure of the whole file, which has no position.
func (f Failure) String() string {
	if f.Step == 0 {
		return f.Message
	}
	return fmt.Sprintf("step %d (line %d): %s", f.Step, f.Line, f.Message)
}

// Report is the outcome of running one scenario in one mode.
type Report struct {
	Name     string
	File     string
	Mode     string
	Steps    int
	Failures []Failure
	// ExternalCalls counts host calls; in iter mode each one was a suspension.
	ExternalCalls int
	Duration      time.Duration
}

// Passed reports whether every step behaved as expected.
func (r *Report) Passed() bool { return len(r.Failures) == 0 }

// Fail appends a failure for step index i (0-based).
func (r *Report) Fail(i, line int, format string, a ...interface{}) {
	r.Failures = append(r.Failures, Failure{Step: i + 1, Line: line, Message: fmt.Sprintf(format, a...)})
}
