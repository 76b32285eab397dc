package main

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"membench/internal/benchmark"
	"membench/internal/harness"
	"membench/internal/notify"
)

type mockStore struct {
	saved   []benchmark.Run
	runs    []benchmark.Run
	loadErr error
	saveErr error
}

func (m *mockStore) Save(run benchmark.Run) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, run)
	return nil
}

func (m *mockStore) LoadLatest() (*benchmark.Run, error) {
	if len(m.runs) == 0 {
		return nil, nil
	}
	return &m.runs[len(m.runs)-1], nil
}

func (m *mockStore) LoadAll() ([]benchmark.Run, error) {
	return m.runs, m.loadErr
}

func (m *mockStore) Close() error { return nil }

type mockNotifier struct {
	messages []string
}

func (m *mockNotifier) Notify(ctx context.Context, message string) error {
	m.messages = append(m.messages, message)
	return nil
}

func restoreGlobals(t *testing.T) {
	t.Helper()
	prevStore := newStoreFunc
	prevHarness := runHarnessFunc
	prevNotifier := newNotifierFunc
	t.Cleanup(func() {
		newStoreFunc = prevStore
		runHarnessFunc = prevHarness
		newNotifierFunc = prevNotifier
		viper.Reset()
	})
	viper.Reset()
}

func passingLevels() []benchmark.Level {
	return []benchmark.Level{
		{
			SizeBytes: 200000, Trials: 5, Workers: 2,
			SeqFillNs: 100, ParFillNs: 200, SeqCopyNs: 100, ParCopyNs: 200,
		},
	}
}

func TestRunCmd_SavesOnSuccess(t *testing.T) {
	restoreGlobals(t)

	store := &mockStore{}
	newStoreFunc = func() (benchmark.Store, error) { return store, nil }
	runHarnessFunc = func(ctx context.Context, cfg harness.Config) ([]benchmark.Level, error) {
		return passingLevels(), nil
	}

	cmd := newRunCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--save", "--quiet"})

	err := cmd.Execute()
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "200,000")
	assert.Contains(t, buf.String(), "Run saved to history")
	require.Len(t, store.saved, 1)
	assert.Len(t, store.saved[0].Levels, 1)
	assert.Positive(t, store.saved[0].CPUs)
}

func TestRunCmd_PassesConfigToHarness(t *testing.T) {
	restoreGlobals(t)

	var got harness.Config
	runHarnessFunc = func(ctx context.Context, cfg harness.Config) ([]benchmark.Level, error) {
		got = cfg
		return passingLevels(), nil
	}

	cmd := newRunCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"--trials", "3", "--base", "50000", "--workers", "2", "--multi-pass", "--quiet"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, 3, got.Trials)
	assert.Equal(t, int64(50000), got.BaseBytes)
	assert.Equal(t, 2, got.Workers)
	assert.True(t, got.MultiPass)
}

func TestRunCmd_OrderingViolation(t *testing.T) {
	restoreGlobals(t)

	notifier := &mockNotifier{}
	newNotifierFunc = func() notify.Notifier { return notifier }
	runHarnessFunc = func(ctx context.Context, cfg harness.Config) ([]benchmark.Level, error) {
		levels := passingLevels()
		levels[0].SeqFillNs = 500
		levels[0].SeqFillSlower = true
		return levels, &harness.OrderingError{
			Op: "fill", SizeBytes: 200000, SequentialNs: 500, ParallelNs: 200,
		}
	}

	cmd := newRunCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--notify", "--quiet"})

	err := cmd.Execute()
	require.Error(t, err)

	var ordErr *harness.OrderingError
	assert.ErrorAs(t, err, &ordErr)
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "ordering violation")
}

func TestRunCmd_StoreFailure(t *testing.T) {
	restoreGlobals(t)

	newStoreFunc = func() (benchmark.Store, error) { return nil, fmt.Errorf("disk full") }
	runHarnessFunc = func(ctx context.Context, cfg harness.Config) ([]benchmark.Level, error) {
		return passingLevels(), nil
	}

	cmd := newRunCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"--save", "--quiet"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history store")
}
