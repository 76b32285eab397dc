package stats

// Mean computes the arithmetic mean of a batch of nanosecond timings.
// Each value is divided by the batch size before accumulation so very
// large timing magnitudes cannot overflow an intermediate sum.
func Mean(values []uint64) uint64 {
	n := uint64(len(values))
	if n == 0 {
		return 0
	}
	var avg uint64
	for _, v := range values {
		avg += v / n
	}
	return avg
}

// MeanFloat is the floating-point counterpart of Mean, used where
// sub-nanosecond precision matters (e.g. run-over-run comparisons).
func MeanFloat(values []uint64) float64 {
	n := float64(len(values))
	if n == 0 {
		return 0
	}
	var avg float64
	for _, v := range values {
		avg += float64(v) / n
	}
	return avg
}
