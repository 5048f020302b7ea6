// Package backend provides an interface for different execution backends.
// This allows switching between running host calls inline and suspending
// the machine at each one.
package backend

import (
	"fmt"

	"github.com/ShabbirHasan1/monty/internal/config"
	"github.com/ShabbirHasan1/monty/internal/conformance"
	"github.com/ShabbirHasan1/monty/internal/pipeline"
	"github.com/ShabbirHasan1/monty/internal/scenario"
	"go.uber.org/zap"
)

// Backend is the interface for execution backends
type Backend interface {
	// Run executes the scenario from pipeline context and returns its report
	Run(ctx *pipeline.PipelineContext) (*scenario.Report, error)

	// Name returns the backend name for display
	Name() string
}

// ForMode returns the backend implementing mode.
func ForMode(mode string, host conformance.Host, logger *zap.Logger) (Backend, error) {
	switch mode {
	case config.ModeDirect:
		return NewDirect(host, logger), nil
	case config.ModeIter:
		return NewIter(host, logger), nil
	}
	return nil, fmt.Errorf("unknown execution mode %q", mode)
}
