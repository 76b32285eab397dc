// Package db provides SQL-backed history stores for harness runs.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"membench/internal/benchmark"
)

// SQLiteStore implements benchmark.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store and applies migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME NOT NULL,
		commit_hash TEXT,
		hostname TEXT,
		cpus INTEGER,
		levels TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(query)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save persists a completed run. Levels are stored as a JSON blob for
// flexibility.
func (s *SQLiteStore) Save(run benchmark.Run) error {
	levels, err := json.Marshal(run.Levels)
	if err != nil {
		return fmt.Errorf("failed to marshal levels: %w", err)
	}
	query := `INSERT INTO runs (created_at, commit_hash, hostname, cpus, levels) VALUES (?, ?, ?, ?, ?)`
	_, err = s.db.Exec(query, run.Timestamp, run.Commit, run.Hostname, run.CPUs, string(levels))
	return err
}

// LoadAll retrieves all stored runs, oldest first.
func (s *SQLiteStore) LoadAll() ([]benchmark.Run, error) {
	query := `SELECT created_at, commit_hash, hostname, cpus, levels FROM runs ORDER BY created_at ASC`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []benchmark.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LoadLatest retrieves the most recent run, or nil if none exist.
func (s *SQLiteStore) LoadLatest() (*benchmark.Run, error) {
	query := `SELECT created_at, commit_hash, hostname, cpus, levels FROM runs ORDER BY created_at DESC LIMIT 1`
	row := s.db.QueryRow(query)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (benchmark.Run, error) {
	var run benchmark.Run
	var levels string
	if err := row.Scan(&run.Timestamp, &run.Commit, &run.Hostname, &run.CPUs, &levels); err != nil {
		return benchmark.Run{}, err
	}
	if err := json.Unmarshal([]byte(levels), &run.Levels); err != nil {
		return benchmark.Run{}, fmt.Errorf("failed to unmarshal levels: %w", err)
	}
	return run, nil
}
