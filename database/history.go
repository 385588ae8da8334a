// Package database persists run history in a local sqlite database.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"slidegen/deck"
)

// Migration represents a database migration
type Migration struct {
	Version     int
	Description string
	Up          string
}

func getMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create runs table",
			Up: `
				CREATE TABLE IF NOT EXISTS runs (
					id TEXT PRIMARY KEY,
					started_at TIMESTAMP NOT NULL,
					finished_at TIMESTAMP NOT NULL,
					status TEXT NOT NULL,
					input_file TEXT NOT NULL,
					output_file TEXT,
					error_message TEXT,
					intermediate_count INTEGER NOT NULL DEFAULT 0
				);

				CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
			`,
		},
	}
}

// RunRecord is one stored pipeline run.
type RunRecord struct {
	ID                string
	StartedAt         time.Time
	FinishedAt        time.Time
	Status            string
	InputFile         string
	OutputFile        string
	ErrorMessage      string
	IntermediateCount int
}

// HistoryStore records pipeline runs.
type HistoryStore struct {
	db *sql.DB
}

// OpenHistory opens (and migrates) the run-history database under dataDir.
func OpenHistory(dataDir string) (*HistoryStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "slidegen.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &HistoryStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return err
	}

	for _, m := range getMigrations() {
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = ?", m.Version).Scan(&count); err != nil {
			return fmt.Errorf("failed to check migration status for version %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}
		if _, err := db.Exec(m.Up); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Description, err)
		}
		if _, err := db.Exec("INSERT INTO schema_migrations (version, description) VALUES (?, ?)", m.Version, m.Description); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// RecordRun stores the outcome of one pipeline run.
func (s *HistoryStore) RecordRun(runID string, startedAt time.Time, inputFile string, result deck.RunResult) error {
	status := "failed"
	if result.Success {
		status = "success"
	}

	_, err := s.db.Exec(`
		INSERT INTO runs (id, started_at, finished_at, status, input_file, output_file, error_message, intermediate_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, startedAt, time.Now(), status, inputFile, result.OutputFile, result.ErrorMessage, len(result.IntermediateFiles))
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", runID, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *HistoryStore) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, started_at, finished_at, status, input_file, output_file, error_message, intermediate_count
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		var outputFile, errorMessage sql.NullString
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Status, &r.InputFile, &outputFile, &errorMessage, &r.IntermediateCount); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		r.OutputFile = outputFile.String
		r.ErrorMessage = errorMessage.String
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}
