package benchmark

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	prev := Run{
		Timestamp: time.Now().Add(-time.Hour),
		Levels: []Level{
			{SizeBytes: 200000, SeqFillNs: 100, ParFillNs: 200, SeqCopyNs: 300, ParCopyNs: 400},
			{SizeBytes: 2000000, SeqFillNs: 1000, ParFillNs: 900, SeqCopyNs: 1100, ParCopyNs: 1000},
		},
	}
	curr := Run{
		Timestamp: time.Now(),
		Levels: []Level{
			{SizeBytes: 200000, SeqFillNs: 110, ParFillNs: 180, SeqCopyNs: 300, ParCopyNs: 500},
			{SizeBytes: 20000000, SeqFillNs: 5, ParFillNs: 5, SeqCopyNs: 5, ParCopyNs: 5},
		},
	}

	comps := Compare(prev, curr)
	require.Len(t, comps, 1, "only the shared size level should be compared")

	c := comps[0]
	assert.Equal(t, int64(200000), c.SizeBytes)
	assert.InDelta(t, 10.0, c.SeqFillDiff, 0.001)
	assert.InDelta(t, -10.0, c.ParFillDiff, 0.001)
	assert.InDelta(t, 0.0, c.SeqCopyDiff, 0.001)
	assert.InDelta(t, 25.0, c.ParCopyDiff, 0.001)
}

func TestCompare_ZeroPrevYieldsZeroDiff(t *testing.T) {
	prev := Run{Levels: []Level{{SizeBytes: 100}}}
	curr := Run{Levels: []Level{{SizeBytes: 100, SeqFillNs: 50}}}

	comps := Compare(prev, curr)
	require.Len(t, comps, 1)
	assert.Equal(t, 0.0, comps[0].SeqFillDiff)
}

func TestComparison_Regressed(t *testing.T) {
	c := Comparison{SeqFillDiff: 5, ParFillDiff: 12, SeqCopyDiff: -3, ParCopyDiff: 0}
	assert.True(t, c.Regressed(10))
	assert.False(t, c.Regressed(15))
}

func TestComparison_String(t *testing.T) {
	c := Comparison{SizeBytes: 200000, SeqFillDiff: 10, ParFillDiff: -10}
	s := c.String()
	assert.Contains(t, s, "200000 bytes")
	assert.Contains(t, s, "+10.00%")
	assert.Contains(t, s, "-10.00%")
}
