package db

import (
	"fmt"
	"strings"

	"membench/internal/benchmark"
)

// StoreConfig holds configuration for the storage backend.
type StoreConfig struct {
	Type             string // "sqlite", "postgres" or "file"
	ConnectionString string // File path for SQLite/file, DSN for Postgres
}

// NewStore creates a new benchmark.Store based on the provided configuration.
func NewStore(config StoreConfig) (benchmark.Store, error) {
	switch strings.ToLower(config.Type) {
	case "postgres", "postgresql":
		if config.ConnectionString == "" {
			return nil, fmt.Errorf("postgres connection string is required")
		}
		return NewPostgresStore(config.ConnectionString)
	case "file", "json":
		if config.ConnectionString == "" {
			config.ConnectionString = ".membench.json"
		}
		return benchmark.NewFileStore(config.ConnectionString)
	case "sqlite", "sqlite3", "":
		if config.ConnectionString == "" {
			config.ConnectionString = ".membench.db"
		}
		return NewSQLiteStore(config.ConnectionString)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", config.Type)
	}
}
