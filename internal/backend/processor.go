package backend

import (
	"fmt"

	"github.com/ShabbirHasan1/monty/internal/conformance"
	"github.com/ShabbirHasan1/monty/internal/pipeline"
	"go.uber.org/zap"
)

// ExecutionProcessor implements pipeline.Processor by running the scenario
// on the backend its resolved mode selects
type ExecutionProcessor struct {
	Host   conformance.Host
	Logger *zap.Logger
}

// NewExecutionProcessor creates a new pipeline step running scenarios against host
func NewExecutionProcessor(host conformance.Host, logger *zap.Logger) *ExecutionProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecutionProcessor{Host: host, Logger: logger}
}

func (p *ExecutionProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// If previous steps failed, don't run execution
	if ctx.Scenario == nil || len(ctx.Errors) > 0 {
		return ctx
	}

	b, err := ForMode(ctx.Mode, p.Host, p.Logger)
	if err != nil {
		ctx.AddError(fmt.Errorf("%s: %w", ctx.FilePath, err))
		return ctx
	}

	report, err := b.Run(ctx)
	if err != nil {
		ctx.AddError(fmt.Errorf("%s: %s backend: %w", ctx.FilePath, b.Name(), err))
		return ctx
	}
	ctx.Report = report
	return ctx
}
