// Package report records scenario outcomes: a SQLite run history and a
// terminal printer.
package report

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ShabbirHasan1/monty/internal/scenario"
	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  INTEGER NOT NULL,
	finished_at INTEGER,
	mode        TEXT NOT NULL,
	passed      INTEGER NOT NULL DEFAULT 0,
	failed      INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS scenario_results (
	run_id      TEXT NOT NULL REFERENCES runs(id),
	name        TEXT NOT NULL,
	file        TEXT NOT NULL,
	mode        TEXT NOT NULL,
	passed      INTEGER NOT NULL,
	failures    TEXT NOT NULL, -- JSON array of messages
	duration_ns INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS scenario_results_run ON scenario_results(run_id);
`

// Run summarises one CLI invocation.
type Run struct {
	ID         uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time // zero while the run is in progress
	Mode       string
	Passed     int
	Failed     int
}

// Store persists run history in a SQLite database.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the history database at path. The path
// ":memory:" gives a private in-memory database.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history %s: %w", path, err)
	}
	// One connection keeps an in-memory database alive and serialises writers.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening history %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return &Store{db: db, logger: logger.With(zap.String("history", path))}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// BeginRun starts a new run and returns its ID.
func (s *Store) BeginRun(mode string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.db.Exec(`INSERT INTO runs (id, started_at, mode) VALUES (?, ?, ?)`,
		id.String(), time.Now().UnixNano(), mode)
	if err != nil {
		s.logger.Error("begin run", zap.Error(err))
		return uuid.Nil, fmt.Errorf("recording run: %w", err)
	}
	return id, nil
}

// Record stores one scenario report under run.
func (s *Store) Record(run uuid.UUID, r *scenario.Report) error {
	passed := 0
	if r.Passed() {
		passed = 1
	}
	failures := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		failures[i] = f.String()
	}
	encoded, err := json.Marshal(failures)
	if err != nil {
		return fmt.Errorf("encoding failures of %s: %w", r.Name, err)
	}
	_, err = s.db.Exec(`INSERT INTO scenario_results
		(run_id, name, file, mode, passed, failures, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.String(), r.Name, r.File, r.Mode, passed, string(encoded), int64(r.Duration))
	if err != nil {
		s.logger.Error("record scenario", zap.String("scenario", r.Name), zap.Error(err))
		return fmt.Errorf("recording %s: %w", r.Name, err)
	}
	return nil
}

// FinishRun stamps the run's end time and pass/fail totals from its
// recorded scenarios.
func (s *Store) FinishRun(run uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE runs SET
		finished_at = ?,
		passed = (SELECT COUNT(*) FROM scenario_results WHERE run_id = runs.id AND passed),
		failed = (SELECT COUNT(*) FROM scenario_results WHERE run_id = runs.id AND NOT passed)
		WHERE id = ?`, time.Now().UnixNano(), run.String())
	if err != nil {
		s.logger.Error("finish run", zap.Error(err))
		return fmt.Errorf("finishing run %s: %w", run, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	rows, err := s.db.Query(`SELECT id, started_at, finished_at, mode, passed, failed
		FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			id       string
			started  int64
			finished sql.NullInt64
			run      Run
		)
		if err := rows.Scan(&id, &started, &finished, &run.Mode, &run.Passed, &run.Failed); err != nil {
			return nil, fmt.Errorf("reading run: %w", err)
		}
		if run.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("run id %q: %w", id, err)
		}
		run.StartedAt = time.Unix(0, started)
		if finished.Valid {
			run.FinishedAt = time.Unix(0, finished.Int64)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Results returns the scenario results recorded for run, in insertion order.
func (s *Store) Results(run uuid.UUID) ([]*scenario.Report, error) {
	rows, err := s.db.Query(`SELECT name, file, mode, failures, duration_ns
		FROM scenario_results WHERE run_id = ? ORDER BY rowid`, run.String())
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}
	defer rows.Close()

	var reports []*scenario.Report
	for rows.Next() {
		var (
			r        scenario.Report
			failures string
			duration int64
		)
		if err := rows.Scan(&r.Name, &r.File, &r.Mode, &failures, &duration); err != nil {
			return nil, fmt.Errorf("reading result: %w", err)
		}
		r.Duration = time.Duration(duration)
		var messages []string
		if err := json.Unmarshal([]byte(failures), &messages); err != nil {
			return nil, fmt.Errorf("decoding failures of %s: %w", r.Name, err)
		}
		for _, msg := range messages {
			r.Failures = append(r.Failures, scenario.Failure{Message: msg})
		}
		reports = append(reports, &r)
	}
	return reports, rows.Err()
}
