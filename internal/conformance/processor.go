package conformance

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ShabbirHasan1/monty/internal/config"
	"github.com/ShabbirHasan1/monty/internal/pipeline"
	"github.com/samber/lo"
)

// LoadProcessor reads and decodes the scenario file, then settles the
// execution mode: command line first, then the file's directive, then the
// configured default.
type LoadProcessor struct{}

func (lp *LoadProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Source == nil {
		data, err := os.ReadFile(ctx.FilePath)
		if err != nil {
			ctx.AddError(fmt.Errorf("reading scenario %s: %w", ctx.FilePath, err))
			return ctx
		}
		ctx.Source = data
	}

	sc, err := Decode(ctx.Source, ctx.FilePath)
	if err != nil {
		ctx.AddError(err)
		return ctx
	}
	ctx.Scenario = sc
	ctx.Mode = ResolveMode(ctx.ModeOverride, sc.Mode, ctx.DefaultMode)
	return ctx
}

// ResolveMode picks the first non-empty mode, falling back to the default mode.
func ResolveMode(modes ...string) string {
	for _, m := range modes {
		if m != "" {
			return m
		}
	}
	return config.DefaultMode
}

// CollectFiles expands paths into scenario files. Directories are walked
// recursively; files inside them are kept when their extension is a
// scenario extension and they are not a config file. Explicit file
// arguments are kept as given.
func CollectFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("scenario path: %w", err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || lo.Contains(config.ConfigFileNames, d.Name()) {
				return nil
			}
			if lo.Contains(config.ScenarioFileExtensions, filepath.Ext(path)) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", p, err)
		}
	}
	sort.Strings(files)
	return lo.Uniq(files), nil
}
