package report

import (
	"path/filepath"
	"strings"

	"github.com/ShabbirHasan1/monty/internal/config"
	"github.com/ShabbirHasan1/monty/internal/pipeline"
	"github.com/ShabbirHasan1/monty/internal/scenario"
	"github.com/google/uuid"
)

// RecordProcessor implements pipeline.Processor as the last stage: it
// prints each outcome and, when a store is attached, records it under Run.
// Files that failed to load or execute are recorded as failed scenarios.
type RecordProcessor struct {
	Printer *Printer
	Store   *Store
	Run     uuid.UUID
}

func (rp *RecordProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	var r *scenario.Report
	if len(ctx.Errors) > 0 {
		if rp.Printer != nil {
			rp.Printer.Error(ctx.FilePath, ctx.Err())
		}
		r = errorReport(ctx)
	} else {
		if ctx.Report == nil {
			return ctx
		}
		r = ctx.Report
		if rp.Printer != nil {
			rp.Printer.Scenario(r)
		}
	}

	if rp.Store != nil {
		if err := rp.Store.Record(rp.Run, r); err != nil {
			ctx.AddError(err)
		}
	}
	return ctx
}

// errorReport describes a file that never produced a report of its own.
func errorReport(ctx *pipeline.PipelineContext) *scenario.Report {
	name := strings.TrimSuffix(filepath.Base(ctx.FilePath), filepath.Ext(ctx.FilePath))
	if ctx.Scenario != nil && ctx.Scenario.Name != "" {
		name = ctx.Scenario.Name
	}
	mode := config.DefaultMode
	for _, m := range []string{ctx.Mode, ctx.ModeOverride, ctx.DefaultMode} {
		if m != "" {
			mode = m
			break
		}
	}
	return &scenario.Report{
		Name:     name,
		File:     ctx.FilePath,
		Mode:     mode,
		Failures: []scenario.Failure{{Message: ctx.Err().Error()}},
	}
}
