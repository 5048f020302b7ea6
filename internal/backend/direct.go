package backend

import (
	"fmt"

	"github.com/ShabbirHasan1/monty/internal/config"
	"github.com/ShabbirHasan1/monty/internal/conformance"
	"github.com/ShabbirHasan1/monty/internal/pipeline"
	"github.com/ShabbirHasan1/monty/internal/scenario"
	"go.uber.org/zap"
)

// DirectBackend runs host calls inline, so the machine never suspends.
type DirectBackend struct {
	host   conformance.Host
	logger *zap.Logger
}

// NewDirect creates a new direct backend
func NewDirect(host conformance.Host, logger *zap.Logger) *DirectBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectBackend{host: host, logger: logger}
}

// Run executes the scenario in a single pass
func (b *DirectBackend) Run(ctx *pipeline.PipelineContext) (*scenario.Report, error) {
	if ctx.Scenario == nil {
		return nil, fmt.Errorf("no scenario to execute")
	}

	m := conformance.NewMachine(ctx.Scenario, config.ModeDirect, b.host.Names(), b.logger)
	m.SetHandler(b.host.Call)
	call, err := m.Start()
	if err != nil {
		return nil, err
	}
	if call != nil {
		return nil, fmt.Errorf("direct run suspended on %s", call.Name)
	}
	return m.Report(), nil
}

func (b *DirectBackend) Name() string {
	return config.ModeDirect
}
