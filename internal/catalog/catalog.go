// Package catalog keeps a small SQLite index of archive-processing runs, so
// repeated conversions of a growing result archive can be compared without
// re-reading the HDF5 output.
package catalog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DB wraps the catalog database handle.
type DB struct {
	*sql.DB
}

// Open opens (and if needed initializes) the catalog at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id         TEXT PRIMARY KEY,
			archive_path   TEXT,
			case_count     BIGINT,
			timestamp      TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS run_buckets (
			run_id         TEXT,
			length         BIGINT,
			sequences      BIGINT,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: init %s: %w", path, err)
	}

	return &DB{db}, nil
}

// Run summarizes one archive-processing run.
type Run struct {
	ID        string
	Archive   string
	CaseCount int
	Buckets   map[int]int // sequence length -> sequence count
	Timestamp time.Time
}

// RecordRun inserts a run summary and returns its generated ID.
func (db *DB) RecordRun(archive string, caseCount int, buckets map[int]int) (string, error) {
	id := uuid.NewString()

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("catalog: record run: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs (run_id, archive_path, case_count) VALUES (?, ?, ?)`,
		id, archive, caseCount,
	); err != nil {
		return "", fmt.Errorf("catalog: record run: %w", err)
	}
	for length, n := range buckets {
		if _, err := tx.Exec(
			`INSERT INTO run_buckets (run_id, length, sequences) VALUES (?, ?, ?)`,
			id, length, n,
		); err != nil {
			return "", fmt.Errorf("catalog: record bucket %d: %w", length, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("catalog: record run: %w", err)
	}
	return id, nil
}

// GetRun loads one run with its bucket histogram.
func (db *DB) GetRun(id string) (*Run, error) {
	run := &Run{ID: id, Buckets: map[int]int{}}
	err := db.QueryRow(
		`SELECT archive_path, case_count, timestamp FROM runs WHERE run_id = ?`, id,
	).Scan(&run.Archive, &run.CaseCount, &run.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("catalog: run %s: %w", id, err)
	}

	rows, err := db.Query(`SELECT length, sequences FROM run_buckets WHERE run_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("catalog: run %s buckets: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var length, n int
		if err := rows.Scan(&length, &n); err != nil {
			return nil, fmt.Errorf("catalog: run %s buckets: %w", id, err)
		}
		run.Buckets[length] = n
	}
	return run, rows.Err()
}

// ListRuns returns run IDs in reverse chronological order.
func (db *DB) ListRuns() ([]string, error) {
	rows, err := db.Query(`SELECT run_id FROM runs ORDER BY timestamp DESC`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("catalog: list runs: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
