package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ShabbirHasan1/monty/internal/config"
	"github.com/ShabbirHasan1/monty/internal/pipeline"
	"github.com/ShabbirHasan1/monty/internal/scenario"
	"github.com/google/uuid"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func passing(name string) *scenario.Report {
	return &scenario.Report{Name: name, File: name + ".yaml", Mode: config.ModeDirect, Steps: 2, Duration: time.Millisecond}
}

func failing(name string) *scenario.Report {
	r := passing(name)
	r.Mode = config.ModeIter
	r.Fail(1, 7, "result %d, want %d", 1, 2)
	return r
}

func TestStore_RunLifecycle(t *testing.T) {
	s := openStore(t)

	first, err := s.BeginRun(config.ModeDirect)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Record(first, passing("a")); err != nil {
		t.Fatal(err)
	}
	if err := s.Record(first, failing("b")); err != nil {
		t.Fatal(err)
	}
	if err := s.FinishRun(first); err != nil {
		t.Fatal(err)
	}

	second, _ := s.BeginRun(config.ModeIter)

	runs, err := s.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	if runs[0].ID != second || runs[1].ID != first {
		t.Errorf("order = %v, %v", runs[0].ID, runs[1].ID)
	}
	if !runs[0].FinishedAt.IsZero() {
		t.Error("unfinished run has a finish time")
	}
	done := runs[1]
	if done.Passed != 1 || done.Failed != 1 || done.Mode != config.ModeDirect || done.FinishedAt.IsZero() {
		t.Errorf("finished run = %+v", done)
	}

	limited, _ := s.Recent(1)
	if len(limited) != 1 {
		t.Errorf("limit ignored: %d runs", len(limited))
	}

	results, err := s.Results(first)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].Name != "a" || results[1].Name != "b" {
		t.Fatalf("results = %+v", results)
	}
	if !results[0].Passed() || results[1].Passed() {
		t.Error("pass state lost")
	}
	if !strings.Contains(results[1].Failures[0].Message, "step 2 (line 7): result 1, want 2") {
		t.Errorf("failure = %q", results[1].Failures[0].Message)
	}
	if results[0].Duration != time.Millisecond {
		t.Errorf("duration = %v", results[0].Duration)
	}
}

func TestStore_MultilineFailures(t *testing.T) {
	s := openStore(t)
	run, _ := s.BeginRun(config.ModeIter)

	r := passing("host")
	r.Fail(0, 3, "host error: %v", errors.Join(errors.New("dial failed"), errors.New("retry failed")))
	r.Fail(1, 4, "result 1, want 2")
	if err := s.Record(run, r); err != nil {
		t.Fatal(err)
	}

	results, err := s.Results(run)
	if err != nil {
		t.Fatal(err)
	}
	got := results[0].Failures
	if len(got) != 2 {
		t.Fatalf("failures = %+v", got)
	}
	if got[0].Message != "step 1 (line 3): host error: dial failed\nretry failed" {
		t.Errorf("first failure = %q", got[0].Message)
	}
}

func TestStore_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	id, _ := s.BeginRun(config.ModeDirect)
	s.Close()

	s, err = Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	runs, _ := s.Recent(config.DefaultHistoryLimit)
	if len(runs) != 1 || runs[0].ID != id {
		t.Errorf("runs after reopen = %+v", runs)
	}
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)
	p.Scenario(passing("ok_case"))
	p.Scenario(failing("bad_case"))
	p.Error("broken.yaml", errors.New("broken.yaml:3: unknown step key"))
	if p.Summary() {
		t.Error("summary should report failure")
	}

	out := buf.String()
	for _, want := range []string{
		"PASS ok_case [direct]",
		"FAIL bad_case [iter]",
		"    step 2 (line 7): result 1, want 2",
		"ERROR broken.yaml",
		"1 passed, 2 failed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("uncoloured printer emitted escape codes")
	}

	buf.Reset()
	p = NewPrinter(&buf, true)
	p.Scenario(passing("ok_case"))
	if !p.Summary() || !strings.Contains(buf.String(), ansiGreen+"PASS"+ansiReset) {
		t.Errorf("coloured output = %q", buf.String())
	}
}

func TestPrinter_History(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)
	p.History(nil)
	if !strings.Contains(buf.String(), "no runs recorded") {
		t.Errorf("empty history = %q", buf.String())
	}

	buf.Reset()
	id := uuid.New()
	p.History([]Run{{ID: id, StartedAt: time.Now(), FinishedAt: time.Now(), Mode: "iter", Passed: 3, Failed: 1}})
	if !strings.Contains(buf.String(), "fail "+id.String()) || !strings.Contains(buf.String(), "3 passed, 1 failed") {
		t.Errorf("history = %q", buf.String())
	}
}

func TestUseColor(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if !UseColor(config.ColorAlways, f) {
		t.Error("always should colour")
	}
	if UseColor(config.ColorNever, f) {
		t.Error("never should not colour")
	}
	if UseColor(config.ColorAuto, f) {
		t.Error("auto should not colour a regular file")
	}
	if UseColor(config.ColorAuto, &bytes.Buffer{}) {
		t.Error("auto should not colour a buffer")
	}
}

func TestRecordProcessor(t *testing.T) {
	s := openStore(t)
	run, _ := s.BeginRun(config.ModeDirect)
	var buf bytes.Buffer
	rp := &RecordProcessor{Printer: NewPrinter(&buf, false), Store: s, Run: run}

	ctx := pipeline.NewPipelineContext("a.yaml")
	ctx.Report = passing("a")
	rp.Process(ctx)

	bad := pipeline.NewPipelineContext("bad.yaml")
	bad.AddError(errors.New("bad.yaml:1: scenario must be a mapping"))
	rp.Process(bad)

	results, _ := s.Results(run)
	if len(results) != 2 || results[0].Name != "a" {
		t.Fatalf("recorded = %+v", results)
	}
	errored := results[1]
	if errored.Name != "bad" || errored.File != "bad.yaml" || errored.Mode != config.ModeDirect || errored.Passed() {
		t.Errorf("errored file recorded as %+v", errored)
	}
	if len(errored.Failures) != 1 || errored.Failures[0].String() != "bad.yaml:1: scenario must be a mapping" {
		t.Errorf("errored failures = %+v", errored.Failures)
	}

	if err := s.FinishRun(run); err != nil {
		t.Fatal(err)
	}
	runs, _ := s.Recent(1)
	if runs[0].Passed != 1 || runs[0].Failed != 1 {
		t.Errorf("run totals = %d passed, %d failed", runs[0].Passed, runs[0].Failed)
	}
	if !strings.Contains(buf.String(), "PASS a") || !strings.Contains(buf.String(), "ERROR bad.yaml") {
		t.Errorf("printed = %q", buf.String())
	}
}
