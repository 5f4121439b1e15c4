package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const (
	StatusSubmitted = "SUBMITTED"
	StatusRejected  = "REJECTED"
	StatusFailed    = "FAILED"
	StatusDryRun    = "DRY_RUN"
)

// Run is one submission attempt as recorded in the history.
type Run struct {
	ID          string
	SubmittedAt time.Time
	Endpoint    string
	URLCount    int
	StatusCode  int
	Status      string
	Message     string
}

// Store is the append-only submission history.
type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", dbPath, err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS submission_log (
		run_id TEXT PRIMARY KEY,
		submitted_at DATETIME,
		endpoint TEXT,
		url_count INTEGER,
		status_code INTEGER,
		status TEXT,
		message TEXT
	);
	`
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: conn}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Record(r Run) error {
	_, err := s.db.Exec(`
		INSERT INTO submission_log (run_id, submitted_at, endpoint, url_count, status_code, status, message)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.SubmittedAt.UTC(), r.Endpoint, r.URLCount, r.StatusCode, r.Status, r.Message)
	if err != nil {
		return fmt.Errorf("record run %s: %w", r.ID, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT run_id, submitted_at, endpoint, url_count, status_code, status, message
		FROM submission_log
		ORDER BY submitted_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.SubmittedAt, &r.Endpoint, &r.URLCount, &r.StatusCode, &r.Status, &r.Message); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Reset deletes every recorded run and reports how many were removed.
func (s *Store) Reset() (int64, error) {
	res, err := s.db.Exec("DELETE FROM submission_log")
	if err != nil {
		return 0, fmt.Errorf("failed to reset history: %w", err)
	}
	return res.RowsAffected()
}
