package benchmark

import "fmt"

// Comparison captures the per-variant percentage change between the same
// size level of two runs.
type Comparison struct {
	SizeBytes   int64
	SeqFillDiff float64 // Percentage change
	ParFillDiff float64 // Percentage change
	SeqCopyDiff float64 // Percentage change
	ParCopyDiff float64 // Percentage change
	Prev        Level
	Curr        Level
}

// Compare runs comparison between two runs.
// It returns a comparison for every size level present in both.
func Compare(prev, curr Run) []Comparison {
	prevMap := make(map[int64]Level)
	for _, l := range prev.Levels {
		prevMap[l.SizeBytes] = l
	}

	var comparisons []Comparison
	for _, c := range curr.Levels {
		p, ok := prevMap[c.SizeBytes]
		if !ok {
			continue
		}
		comparisons = append(comparisons, Comparison{
			SizeBytes:   c.SizeBytes,
			SeqFillDiff: pctDiff(p.SeqFillNs, c.SeqFillNs),
			ParFillDiff: pctDiff(p.ParFillNs, c.ParFillNs),
			SeqCopyDiff: pctDiff(p.SeqCopyNs, c.SeqCopyNs),
			ParCopyDiff: pctDiff(p.ParCopyNs, c.ParCopyNs),
			Prev:        p,
			Curr:        c,
		})
	}
	return comparisons
}

func pctDiff(prev, curr uint64) float64 {
	if prev == 0 {
		return 0
	}
	return (float64(curr) - float64(prev)) / float64(prev) * 100
}

// Regressed reports whether any variant slowed down by more than
// threshold percent.
func (c Comparison) Regressed(threshold float64) bool {
	return c.SeqFillDiff > threshold || c.ParFillDiff > threshold ||
		c.SeqCopyDiff > threshold || c.ParCopyDiff > threshold
}

func (c Comparison) String() string {
	return fmt.Sprintf("%d bytes: seq fill %+.2f%%, par fill %+.2f%%, seq copy %+.2f%%, par copy %+.2f%%",
		c.SizeBytes, c.SeqFillDiff, c.ParFillDiff, c.SeqCopyDiff, c.ParCopyDiff)
}
