// Package memops provides the sequential and worker-pool parallel
// memory fill/copy primitives measured by the harness.
package memops

import (
	"runtime"
	"sync"
)

// Fill sets every byte of buf to value using a single goroutine.
func Fill(buf []byte, value byte) {
	for i := range buf {
		buf[i] = value
	}
}

// Copy copies src into dst on a single goroutine. It panics if dst is
// shorter than src, matching the disjoint-buffer contract of the harness.
func Copy(dst, src []byte) {
	if len(dst) < len(src) {
		panic("memops: destination shorter than source")
	}
	copy(dst, src)
}

// Workers derives a pool size from a maximum-concurrency hint.
// The hint is halved with floor division; a non-positive hint yields 0.
func Workers(maxProcs int) int {
	if maxProcs <= 0 {
		return 0
	}
	return maxProcs / 2
}

// DefaultWorkers re-queries the runtime's concurrency limit and halves it.
// It is called before every parallel operation rather than cached, so a
// mid-run GOMAXPROCS change is picked up.
func DefaultWorkers() int {
	return Workers(runtime.GOMAXPROCS(0))
}

// Range is a contiguous half-open index interval [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of indices covered by the range.
func (r Range) Len() int { return r.End - r.Start }

// Partition splits [0, n) into parts contiguous near-equal ranges.
// The remainder of the integer division goes to the last range, so no
// index is dropped or duplicated. parts < 1 yields a single range.
func Partition(n, parts int) []Range {
	if n <= 0 {
		return nil
	}
	if parts < 1 {
		parts = 1
	}
	if parts > n {
		parts = n
	}
	chunk := n / parts
	ranges := make([]Range, parts)
	for i := 0; i < parts; i++ {
		ranges[i] = Range{Start: i * chunk, End: (i + 1) * chunk}
	}
	ranges[parts-1].End = n
	return ranges
}

// ParallelFill sets every byte of buf to value using workers goroutines,
// each writing a disjoint sub-range. The call blocks until all workers
// have finished. With fewer than two workers it degrades to a plain
// sequential fill.
func ParallelFill(buf []byte, value byte, workers int) {
	if workers < 2 || len(buf) == 0 {
		Fill(buf, value)
		return
	}

	var wg sync.WaitGroup
	for _, r := range Partition(len(buf), workers) {
		wg.Add(1)
		go func(r Range) {
			defer wg.Done()
			for i := r.Start; i < r.End; i++ {
				buf[i] = value
			}
		}(r)
	}
	wg.Wait()
}

// ParallelCopy copies src into dst element-wise using workers goroutines
// over disjoint sub-ranges, blocking until the last worker joins. With
// fewer than two workers it degrades to a sequential copy.
func ParallelCopy(dst, src []byte, workers int) {
	if len(dst) < len(src) {
		panic("memops: destination shorter than source")
	}
	if workers < 2 || len(src) == 0 {
		Copy(dst, src)
		return
	}

	var wg sync.WaitGroup
	for _, r := range Partition(len(src), workers) {
		wg.Add(1)
		go func(r Range) {
			defer wg.Done()
			for i := r.Start; i < r.End; i++ {
				dst[i] = src[i]
			}
		}(r)
	}
	wg.Wait()
}
