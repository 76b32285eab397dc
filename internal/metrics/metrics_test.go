package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"membench/internal/benchmark"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()

	assert.NotNil(t, m.TrialDuration)
	assert.NotNil(t, m.BytesProcessed)
	assert.NotNil(t, m.LevelsTotal)
	assert.NotNil(t, m.RunsTotal)
	assert.NotNil(t, m.OrderingFailed)
	assert.NotNil(t, m.LastLevelMean)
}

func TestNewMetrics_NoCollisionAcrossInstances(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = NewMetrics()
		_ = NewMetrics()
	})
}

func TestObserveTrial(t *testing.T) {
	m := NewMetrics()

	m.ObserveTrial("seq_fill", 200000, 2*time.Millisecond)
	m.ObserveTrial("seq_fill", 200000, 3*time.Millisecond)

	assert.InDelta(t, 400000, testutil.ToFloat64(m.BytesProcessed.WithLabelValues("seq_fill")), 0.001)
}

func TestObserveLevel(t *testing.T) {
	m := NewMetrics()

	m.ObserveLevel(benchmark.Level{
		SizeBytes: 200000,
		SeqFillNs: 1000, ParFillNs: 2000, SeqCopyNs: 1500, ParCopyNs: 2500,
	})

	assert.InDelta(t, 1, testutil.ToFloat64(m.LevelsTotal), 0.001)
	assert.InDelta(t, 2000, testutil.ToFloat64(m.LastLevelMean.WithLabelValues("par_fill")), 0.001)
}

func TestRunCompletedAndOrderingViolation(t *testing.T) {
	m := NewMetrics()

	m.RunCompleted("ok")
	m.RunCompleted("ok")
	m.RunCompleted("failed")
	m.OrderingViolation()

	assert.InDelta(t, 2, testutil.ToFloat64(m.RunsTotal.WithLabelValues("ok")), 0.001)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RunsTotal.WithLabelValues("failed")), 0.001)
	assert.InDelta(t, 1, testutil.ToFloat64(m.OrderingFailed), 0.001)
}

func TestHandler_ServesRegisteredMetrics(t *testing.T) {
	m := NewMetrics()
	m.RunCompleted("ok")

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "membench_runs_total")
}
