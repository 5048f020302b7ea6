package pipeline

import (
	"errors"

	"github.com/ShabbirHasan1/monty/internal/scenario"
)

// PipelineContext carries one scenario file through load, execution and
// recording.
type PipelineContext struct {
	FilePath string
	Source   []byte

	// ModeOverride comes from the command line and wins over everything.
	ModeOverride string
	// DefaultMode comes from configuration and applies when the file has no directive.
	DefaultMode string
	// Mode is the mode actually used, resolved by the load stage.
	Mode string

	Scenario *scenario.Scenario
	Report   *scenario.Report

	Errors []error
}

// NewPipelineContext prepares a context for the file at path.
func NewPipelineContext(path string) *PipelineContext {
	return &PipelineContext{FilePath: path}
}

// AddError records a stage failure.
func (c *PipelineContext) AddError(err error) {
	c.Errors = append(c.Errors, err)
}

// Err joins the recorded failures, nil when there are none.
func (c *PipelineContext) Err() error {
	return errors.Join(c.Errors...)
}

// Failed reports whether loading or execution failed, or any step failed.
func (c *PipelineContext) Failed() bool {
	return len(c.Errors) > 0 || (c.Report != nil && !c.Report.Passed())
}
