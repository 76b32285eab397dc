package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"membench/internal/benchmark"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testRun(ts time.Time, seqFill uint64) benchmark.Run {
	return benchmark.Run{
		Timestamp: ts,
		Commit:    "abc1234",
		Hostname:  "bench-host",
		CPUs:      8,
		Levels: []benchmark.Level{
			{SizeBytes: 200000, Trials: 5, Workers: 4, SeqFillNs: seqFill, ParFillNs: 2000, SeqCopyNs: 1500, ParCopyNs: 2500},
		},
	}
}

func TestSQLiteStore_SaveAndLoadAll(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(testRun(base, 1000)))
	require.NoError(t, store.Save(testRun(base.Add(time.Hour), 900)))

	runs, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, uint64(1000), runs[0].Levels[0].SeqFillNs)
	assert.Equal(t, uint64(900), runs[1].Levels[0].SeqFillNs)
	assert.Equal(t, "abc1234", runs[0].Commit)
	assert.Equal(t, "bench-host", runs[0].Hostname)
	assert.Equal(t, 8, runs[0].CPUs)
	assert.Equal(t, int64(200000), runs[0].Levels[0].SizeBytes)
}

func TestSQLiteStore_LoadLatest(t *testing.T) {
	store := newTestStore(t)

	latest, err := store.LoadLatest()
	require.NoError(t, err)
	assert.Nil(t, latest, "empty store yields no latest run")

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(testRun(base, 1000)))
	require.NoError(t, store.Save(testRun(base.Add(time.Hour), 900)))

	latest, err = store.LoadLatest()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, uint64(900), latest.Levels[0].SeqFillNs)
}

func TestSQLiteStore_EmptyLoadAll(t *testing.T) {
	store := newTestStore(t)

	runs, err := store.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, runs)
}
