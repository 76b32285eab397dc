package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"membench/internal/benchmark"
)

// PostgresStore implements benchmark.Store using PostgreSQL. It exists
// for shared history across a CI fleet; SQLite remains the default for
// single-machine use.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store and applies migrations.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id SERIAL PRIMARY KEY,
		created_at TIMESTAMP NOT NULL,
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
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Save persists a completed run.
func (s *PostgresStore) Save(run benchmark.Run) error {
	levels, err := json.Marshal(run.Levels)
	if err != nil {
		return fmt.Errorf("failed to marshal levels: %w", err)
	}
	query := `INSERT INTO runs (created_at, commit_hash, hostname, cpus, levels) VALUES ($1, $2, $3, $4, $5)`
	_, err = s.db.Exec(query, run.Timestamp, run.Commit, run.Hostname, run.CPUs, string(levels))
	return err
}

// LoadAll retrieves all stored runs, oldest first.
func (s *PostgresStore) LoadAll() ([]benchmark.Run, error) {
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
func (s *PostgresStore) LoadLatest() (*benchmark.Run, error) {
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
