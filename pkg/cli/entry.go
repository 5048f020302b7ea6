// Package cli implements the monty command line: running conformance
// scenarios and listing the recorded run history.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ShabbirHasan1/monty/internal/backend"
	"github.com/ShabbirHasan1/monty/internal/config"
	"github.com/ShabbirHasan1/monty/internal/conformance"
	"github.com/ShabbirHasan1/monty/internal/pipeline"
	"github.com/ShabbirHasan1/monty/internal/report"
	"github.com/alexflint/go-arg"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const programName = "monty"

// Exit codes
const (
	ExitOK     = 0
	ExitFailed = 1 // a scenario failed or could not be run
	ExitUsage  = 2
)

// RunCmd runs scenario files and directories.
type RunCmd struct {
	Mode     string   `arg:"--mode" help:"execution mode for every scenario: direct or iter (overrides file directives)"`
	History  string   `arg:"--history" help:"SQLite file to record this run in"`
	Color    string   `arg:"--color" help:"auto, always or never"`
	FailFast bool     `arg:"--fail-fast" help:"stop at the first failing scenario"`
	Paths    []string `arg:"positional,required" help:"scenario files or directories"`
}

// HistoryCmd lists recent runs.
type HistoryCmd struct {
	History string `arg:"--history" help:"SQLite history file"`
	Limit   int    `arg:"--limit" help:"number of runs to show"`
}

// Args are the command line arguments.
type Args struct {
	Config   string      `arg:"--config" help:"path to monty.yaml (default: search upward from the working directory)"`
	LogLevel string      `arg:"--log-level" help:"debug, info, warn or error"`
	Run      *RunCmd     `arg:"subcommand:run" help:"run conformance scenarios"`
	History  *HistoryCmd `arg:"subcommand:history" help:"list recent runs"`
}

// Main parses argv (without the program name), runs the selected command
// and returns the process exit code.
func Main(argv []string, stdout, stderr io.Writer) int {
	var args Args
	p, err := arg.NewParser(arg.Config{Program: programName}, &args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitUsage
	}
	if err := p.Parse(argv); err != nil {
		if errors.Is(err, arg.ErrHelp) {
			p.WriteHelp(stdout)
			return ExitOK
		}
		p.WriteUsage(stderr)
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitUsage
	}
	if p.Subcommand() == nil {
		p.WriteUsage(stderr)
		fmt.Fprintln(stderr, "error: a command is required (run or history)")
		return ExitUsage
	}

	cfg, err := loadConfig(args.Config)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitUsage
	}
	if args.LogLevel != "" {
		cfg.LogLevel = args.LogLevel
	}

	logger, err := NewLogger(cfg.LogLevel, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: log level: %v\n", err)
		return ExitUsage
	}
	defer logger.Sync()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	switch cmd := p.Subcommand().(type) {
	case *RunCmd:
		return runScenarios(cmd, cfg, logger, stdout, stderr)
	case *HistoryCmd:
		return listHistory(cmd, cfg, logger, stdout, stderr)
	}
	return ExitUsage
}

// loadConfig reads the explicit config file, or the nearest monty.yaml
// above the working directory, or falls back to defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadConfig(path)
	}
	found, err := config.FindConfig(".")
	if err != nil {
		return nil, err
	}
	if found == "" {
		return config.Default(), nil
	}
	return config.LoadConfig(found)
}

func runScenarios(cmd *RunCmd, cfg *config.Config, logger *zap.Logger, stdout, stderr io.Writer) int {
	if cmd.Mode != "" && !config.ValidMode(cmd.Mode) {
		fmt.Fprintf(stderr, "error: mode %q is not one of %v\n", cmd.Mode, config.Modes)
		return ExitUsage
	}
	color := firstNonEmpty(cmd.Color, cfg.Color)
	if color != config.ColorAuto && color != config.ColorAlways && color != config.ColorNever {
		fmt.Fprintf(stderr, "error: color %q must be auto, always or never\n", color)
		return ExitUsage
	}

	files, err := conformance.CollectFiles(cmd.Paths)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitUsage
	}
	if len(files) == 0 {
		fmt.Fprintln(stderr, "error: no scenario files found")
		return ExitUsage
	}

	printer := report.NewPrinter(stdout, report.UseColor(color, stdout))
	recorder := &report.RecordProcessor{Printer: printer}

	if path := firstNonEmpty(cmd.History, cfg.History); path != "" {
		store, err := report.Open(path, logger)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return ExitFailed
		}
		defer store.Close()
		run, err := store.BeginRun(firstNonEmpty(cmd.Mode, cfg.Mode))
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return ExitFailed
		}
		recorder.Store, recorder.Run = store, run
		defer finishRun(store, run, logger)
	}

	p := pipeline.New(
		&conformance.LoadProcessor{},
		backend.NewExecutionProcessor(conformance.DefaultHost(), logger),
		recorder,
	)

	failFast := cmd.FailFast || cfg.FailFast
	for _, file := range files {
		ctx := pipeline.NewPipelineContext(file)
		ctx.ModeOverride = cmd.Mode
		ctx.DefaultMode = cfg.Mode
		ctx = p.Run(ctx)
		if ctx.Failed() && failFast {
			logger.Info("stopping at first failure", zap.String("file", file))
			break
		}
	}

	if !printer.Summary() {
		return ExitFailed
	}
	return ExitOK
}

func finishRun(store *report.Store, run uuid.UUID, logger *zap.Logger) {
	if err := store.FinishRun(run); err != nil {
		logger.Error("finishing run", zap.Stringer("run", run), zap.Error(err))
	}
}

func listHistory(cmd *HistoryCmd, cfg *config.Config, logger *zap.Logger, stdout, stderr io.Writer) int {
	path := firstNonEmpty(cmd.History, cfg.History)
	if path == "" {
		fmt.Fprintln(stderr, "error: no history database configured (set history in monty.yaml or pass --history)")
		return ExitUsage
	}
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(stderr, "error: history %s: %v\n", path, err)
		return ExitFailed
	}
	limit := cmd.Limit
	if limit <= 0 {
		limit = config.DefaultHistoryLimit
	}

	store, err := report.Open(path, logger)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitFailed
	}
	defer store.Close()

	runs, err := store.Recent(limit)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitFailed
	}
	report.NewPrinter(stdout, report.UseColor(cfg.Color, stdout)).History(runs)
	return ExitOK
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
