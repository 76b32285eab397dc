package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"membench/internal/benchmark"
)

func TestNewStore_SQLite(t *testing.T) {
	store, err := NewStore(StoreConfig{
		Type:             "sqlite",
		ConnectionString: filepath.Join(t.TempDir(), "runs.db"),
	})
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &SQLiteStore{}, store)
}

func TestNewStore_DefaultsToSQLite(t *testing.T) {
	store, err := NewStore(StoreConfig{
		ConnectionString: filepath.Join(t.TempDir(), "runs.db"),
	})
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &SQLiteStore{}, store)
}

func TestNewStore_File(t *testing.T) {
	store, err := NewStore(StoreConfig{
		Type:             "file",
		ConnectionString: filepath.Join(t.TempDir(), "runs.json"),
	})
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &benchmark.FileStore{}, store)
}

func TestNewStore_PostgresRequiresDSN(t *testing.T) {
	_, err := NewStore(StoreConfig{Type: "postgres"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection string")
}

func TestNewStore_UnsupportedType(t *testing.T) {
	_, err := NewStore(StoreConfig{Type: "etcd"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store type")
}
