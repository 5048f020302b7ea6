package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ShabbirHasan1/monty/internal/config"
	"github.com/ShabbirHasan1/monty/internal/scenario"
	"github.com/mattn/go-isatty"
)

const (
	ansiReset = "\033[0m"
	ansiRed   = "\033[31m"
	ansiGreen = "\033[32m"
	ansiDim   = "\033[2m"
)

// UseColor decides whether output to w should be coloured under the given
// color setting. auto colours only terminals and honours NO_COLOR.
func UseColor(setting string, w io.Writer) bool {
	switch setting {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Printer writes scenario results as PASS/FAIL lines.
type Printer struct {
	w     io.Writer
	color bool

	passed, failed int
}

func NewPrinter(w io.Writer, color bool) *Printer {
	return &Printer{w: w, color: color}
}

func (p *Printer) paint(code, s string) string {
	if !p.color {
		return s
	}
	return code + s + ansiReset
}

// Scenario prints one report followed by its failures, indented.
func (p *Printer) Scenario(r *scenario.Report) {
	status := p.paint(ansiGreen, "PASS")
	if r.Passed() {
		p.passed++
	} else {
		status = p.paint(ansiRed, "FAIL")
		p.failed++
	}
	fmt.Fprintf(p.w, "%s %s [%s] %s\n", status, r.Name, r.Mode,
		p.paint(ansiDim, r.Duration.Round(time.Microsecond).String()))
	for _, f := range r.Failures {
		fmt.Fprintf(p.w, "    %s\n", f)
	}
}

// Error prints a file that could not be loaded or executed.
func (p *Printer) Error(path string, err error) {
	p.failed++
	fmt.Fprintf(p.w, "%s %s\n    %v\n", p.paint(ansiRed, "ERROR"), path, err)
}

// Summary prints the totals and reports whether everything passed.
func (p *Printer) Summary() bool {
	line := fmt.Sprintf("%d passed, %d failed", p.passed, p.failed)
	if p.failed > 0 {
		line = p.paint(ansiRed, line)
	} else {
		line = p.paint(ansiGreen, line)
	}
	fmt.Fprintln(p.w, line)
	return p.failed == 0
}

// History prints a run listing, newest first.
func (p *Printer) History(runs []Run) {
	if len(runs) == 0 {
		fmt.Fprintln(p.w, "no runs recorded")
		return
	}
	for _, r := range runs {
		status := p.paint(ansiGreen, "ok  ")
		if r.Failed > 0 {
			status = p.paint(ansiRed, "fail")
		} else if r.FinishedAt.IsZero() {
			status = p.paint(ansiDim, "open")
		}
		fmt.Fprintf(p.w, "%s %s %s %-6s %d passed, %d failed\n",
			status, r.ID, r.StartedAt.Format(time.DateTime), r.Mode, r.Passed, r.Failed)
	}
}
