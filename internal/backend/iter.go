package backend

import (
	"fmt"

	"github.com/ShabbirHasan1/monty/internal/config"
	"github.com/ShabbirHasan1/monty/internal/conformance"
	"github.com/ShabbirHasan1/monty/internal/pipeline"
	"github.com/ShabbirHasan1/monty/internal/scenario"
	"go.uber.org/zap"
)

// IterBackend drives the machine as an iterator: every host call suspends
// it, the backend resolves the call and resumes it with the result.
type IterBackend struct {
	host   conformance.Host
	logger *zap.Logger
}

// NewIter creates a new iterating backend
func NewIter(host conformance.Host, logger *zap.Logger) *IterBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IterBackend{host: host, logger: logger}
}

// Run executes the scenario, servicing each suspension in turn
func (b *IterBackend) Run(ctx *pipeline.PipelineContext) (*scenario.Report, error) {
	if ctx.Scenario == nil {
		return nil, fmt.Errorf("no scenario to execute")
	}

	m := conformance.NewMachine(ctx.Scenario, config.ModeIter, b.host.Names(), b.logger)
	call, err := m.Start()
	for err == nil && call != nil {
		b.logger.Debug("external call", zap.String("name", call.Name), zap.Int("args", call.Args.Len()))
		result, callErr := b.host.Call(call.Name, call.Args)
		call, err = m.Resume(result, callErr)
	}
	if err != nil {
		return nil, err
	}
	return m.Report(), nil
}

func (b *IterBackend) Name() string {
	return config.ModeIter
}
