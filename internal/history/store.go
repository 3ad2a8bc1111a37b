// Package history records transition runs in a local SQLite database
package history

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/glebarez/go-sqlite"
)

// Store manages the transition history database
type Store struct {
	db *sql.DB
}

// Run is one recorded transition.
type Run struct {
	ID               int64
	StartedAt        time.Time
	Duration         time.Duration
	Stories          int
	Warnings         []string
	FixPlanPreserved bool
	SpecsAdded       int
	SpecsModified    int
	SpecsRemoved     int
}

// Open opens the history database at the given path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// InitSchema creates the database schema
func (s *Store) InitSchema() error {
	schema := `
	-- One row per transition run
	CREATE TABLE IF NOT EXISTS transitions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		stories INTEGER NOT NULL,
		warnings TEXT,
		fix_plan_preserved INTEGER NOT NULL,
		specs_added INTEGER NOT NULL,
		specs_modified INTEGER NOT NULL,
		specs_removed INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transitions_started ON transitions(started_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// RecordRun appends a transition run to the history
func (s *Store) RecordRun(run *Run) error {
	_, err := s.db.Exec(`
		INSERT INTO transitions
			(started_at, duration_ms, stories, warnings, fix_plan_preserved,
			 specs_added, specs_modified, specs_removed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.Unix(),
		run.Duration.Milliseconds(),
		run.Stories,
		strings.Join(run.Warnings, "\n"),
		boolToInt(run.FixPlanPreserved),
		run.SpecsAdded,
		run.SpecsModified,
		run.SpecsRemoved,
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// LastRun returns the most recent transition, or nil if none is recorded
func (s *Store) LastRun() (*Run, error) {
	runs, err := s.Runs(1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return runs[0], nil
}

// Runs returns the most recent transitions, newest first
func (s *Store) Runs(limit int) ([]*Run, error) {
	rows, err := s.db.Query(`
		SELECT id, started_at, duration_ms, stories, COALESCE(warnings, ''),
		       fix_plan_preserved, specs_added, specs_modified, specs_removed
		FROM transitions
		ORDER BY started_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var (
			run        Run
			startedAt  int64
			durationMS int64
			warnings   string
			preserved  int
		)
		if err := rows.Scan(&run.ID, &startedAt, &durationMS, &run.Stories,
			&warnings, &preserved, &run.SpecsAdded, &run.SpecsModified,
			&run.SpecsRemoved); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.StartedAt = time.Unix(startedAt, 0)
		run.Duration = time.Duration(durationMS) * time.Millisecond
		if warnings != "" {
			run.Warnings = strings.Split(warnings, "\n")
		}
		run.FixPlanPreserved = preserved != 0
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
