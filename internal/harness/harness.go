// Package harness implements the timing comparison loop that measures
// sequential fill/copy primitives against their worker-pool parallel
// equivalents across escalating data sizes.
package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"membench/internal/benchmark"
	"membench/internal/memops"
	"membench/internal/stats"
)

// Sentinel values written between timed regions to bounce cache lines,
// plus the fill payloads themselves. Distinct per phase so no timed
// operation can be satisfied by the previous one's writes.
const (
	dirtySrcPre  = 3
	dirtyDstPre  = 255
	seqFillValue = 123
	parFillValue = 42
	dirtySrcMid  = 6
	dirtyDstMid  = 200
)

// Clock returns a monotonic nanosecond count. Injected so tests can
// drive the harness with a deterministic fake.
type Clock func() uint64

var processStart = time.Now()

// MonotonicClock is the production clock; it reads the monotonic
// duration since process start.
func MonotonicClock() uint64 {
	return uint64(time.Since(processStart))
}

// Observer receives measurements as they are produced. Implementations
// must be cheap; calls happen between timed regions, never inside them.
type Observer interface {
	ObserveTrial(variant string, sizeBytes int64, elapsed time.Duration)
	ObserveLevel(level benchmark.Level)
}

// Config controls a harness run. The zero value is not usable; pass it
// through New which applies defaults.
type Config struct {
	BaseBytes int64 // starting magnitude; first level is 2*BaseBytes
	MaxBytes  int64 // upper bound on the level size
	Trials    int   // timed repetitions per level
	Growth    int64 // geometric factor applied to BaseBytes per level

	// MultiPass enables escalation past the first size level.
	MultiPass bool

	// Workers fixes the pool size for parallel operations. Zero derives
	// the count from the runtime before every parallel operation
	// (GOMAXPROCS halved); a negative value forces the parallel variants
	// to degrade to single-threaded execution.
	Workers int

	Output   io.Writer    // progress and statistics; defaults to io.Discard
	Clock    Clock        // defaults to MonotonicClock
	Logger   *slog.Logger // defaults to slog.Default()
	Observer Observer     // optional
}

// Defaults mirrors the reference run: 5 trials from 200,000 bytes up to
// 1 GB, sizes growing tenfold.
const (
	DefaultBaseBytes = 100_000
	DefaultMaxBytes  = 1_000_000_000
	DefaultTrials    = 5
	DefaultGrowth    = 10
)

// Harness runs the comparison. Construct with New.
type Harness struct {
	cfg Config
}

func New(cfg Config) *Harness {
	if cfg.BaseBytes <= 0 {
		cfg.BaseBytes = DefaultBaseBytes
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.Trials <= 0 {
		cfg.Trials = DefaultTrials
	}
	if cfg.Growth < 2 {
		cfg.Growth = DefaultGrowth
	}
	if cfg.Output == nil {
		cfg.Output = io.Discard
	}
	if cfg.Clock == nil {
		cfg.Clock = MonotonicClock
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Harness{cfg: cfg}
}

// OrderingError reports that a sequential variant was slower on average
// than its parallel counterpart on the first size level.
type OrderingError struct {
	Op           string // "fill" or "copy"
	SizeBytes    int64
	SequentialNs uint64
	ParallelNs   uint64
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("ordering violation: sequential %s mean %s ns exceeds parallel %s mean %s ns at %s bytes",
		e.Op, humanize.Comma(int64(e.SequentialNs)), e.Op,
		humanize.Comma(int64(e.ParallelNs)), humanize.Comma(e.SizeBytes))
}

// Run executes the comparison loop and returns the per-level aggregates.
// On the first size level the sequential means must not exceed the
// parallel means; a violation is returned as *OrderingError together
// with the levels measured so far. Escalation past the first level
// requires MultiPass and continues only while both sequential variants
// remain strictly faster than their parallel counterparts and the next
// size stays within MaxBytes.
func (h *Harness) Run(ctx context.Context) ([]benchmark.Level, error) {
	base := h.cfg.BaseBytes
	var levels []benchmark.Level

	for pass := 0; ; pass++ {
		size := 2 * base

		level, err := h.runLevel(ctx, size)
		if err != nil {
			return levels, err
		}
		levels = append(levels, level)

		h.report(level)
		if h.cfg.Observer != nil {
			h.cfg.Observer.ObserveLevel(level)
		}

		if pass == 0 {
			if level.SeqFillNs > level.ParFillNs {
				return levels, &OrderingError{
					Op: "fill", SizeBytes: size,
					SequentialNs: level.SeqFillNs, ParallelNs: level.ParFillNs,
				}
			}
			if level.SeqCopyNs > level.ParCopyNs {
				return levels, &OrderingError{
					Op: "copy", SizeBytes: size,
					SequentialNs: level.SeqCopyNs, ParallelNs: level.ParCopyNs,
				}
			}
		}

		base *= h.cfg.Growth
		if !h.cfg.MultiPass || 2*base > h.cfg.MaxBytes {
			break
		}
		// Stop escalating once either parallel variant has caught up
		// with its sequential counterpart.
		if level.SeqFillNs >= level.ParFillNs || level.SeqCopyNs >= level.ParCopyNs {
			break
		}
	}

	return levels, nil
}

func (h *Harness) runLevel(ctx context.Context, size int64) (benchmark.Level, error) {
	out := h.cfg.Output
	now := h.cfg.Clock

	fmt.Fprintln(out, "====================================")
	fmt.Fprintf(out, "Data size: %s\n", humanize.Comma(size))

	src := make([]byte, size)
	dst := make([]byte, size)

	seqFillTimes := make([]uint64, 0, h.cfg.Trials)
	parFillTimes := make([]uint64, 0, h.cfg.Trials)
	seqCopyTimes := make([]uint64, 0, h.cfg.Trials)
	parCopyTimes := make([]uint64, 0, h.cfg.Trials)

	workers := h.workers()
	for x := 0; x < h.cfg.Trials; x++ {
		if err := ctx.Err(); err != nil {
			return benchmark.Level{}, err
		}

		// Init memory with different values to wipe out src cache lines.
		memops.Fill(src, dirtySrcPre)
		memops.Fill(dst, dirtyDstPre)

		start := now()
		memops.Fill(src, seqFillValue)
		seqFill := now() - start

		workers = h.workers()
		start = now()
		memops.ParallelFill(src, parFillValue, workers)
		parFill := now() - start

		start = now()
		memops.Copy(dst, src)
		seqCopy := now() - start

		// Bounce the cache so the copy comparison is not warmed by the
		// fill phase.
		memops.Fill(src, dirtySrcMid)
		memops.Fill(dst, dirtyDstMid)

		workers = h.workers()
		start = now()
		memops.ParallelCopy(dst, src, workers)
		parCopy := now() - start

		seqFillTimes = append(seqFillTimes, seqFill)
		parFillTimes = append(parFillTimes, parFill)
		seqCopyTimes = append(seqCopyTimes, seqCopy)
		parCopyTimes = append(parCopyTimes, parCopy)

		fmt.Fprintf(out, "sequential fill time: %s ns\n", humanize.Comma(int64(seqFill)))
		fmt.Fprintf(out, "parallel fill time:   %s ns\n\n", humanize.Comma(int64(parFill)))
		fmt.Fprintf(out, "sequential copy time: %s ns\n", humanize.Comma(int64(seqCopy)))
		fmt.Fprintf(out, "parallel copy time:   %s ns\n\n", humanize.Comma(int64(parCopy)))

		if h.cfg.Observer != nil {
			h.cfg.Observer.ObserveTrial("seq_fill", size, time.Duration(seqFill))
			h.cfg.Observer.ObserveTrial("par_fill", size, time.Duration(parFill))
			h.cfg.Observer.ObserveTrial("seq_copy", size, time.Duration(seqCopy))
			h.cfg.Observer.ObserveTrial("par_copy", size, time.Duration(parCopy))
		}
	}

	level := benchmark.Level{
		SizeBytes: size,
		Trials:    h.cfg.Trials,
		Workers:   workers,
		SeqFillNs: stats.Mean(seqFillTimes),
		ParFillNs: stats.Mean(parFillTimes),
		SeqCopyNs: stats.Mean(seqCopyTimes),
		ParCopyNs: stats.Mean(parCopyTimes),
	}
	level.SeqFillSlower = level.SeqFillNs > level.ParFillNs
	level.SeqCopySlower = level.SeqCopyNs > level.ParCopyNs
	return level, nil
}

func (h *Harness) report(level benchmark.Level) {
	out := h.cfg.Output
	fmt.Fprintln(out, "------------------------------------")
	if level.SeqFillSlower {
		fmt.Fprintf(out, "<< SEQUENTIAL FILL SLOWER FOR %s bytes >>\n", humanize.Comma(level.SizeBytes))
	}
	if level.SeqCopySlower {
		fmt.Fprintf(out, "<< SEQUENTIAL COPY SLOWER FOR %s bytes >>\n", humanize.Comma(level.SizeBytes))
	}
	h.cfg.Logger.Debug("level complete",
		"size_bytes", level.SizeBytes,
		"workers", level.Workers,
		"seq_fill_ns", level.SeqFillNs,
		"par_fill_ns", level.ParFillNs,
		"seq_copy_ns", level.SeqCopyNs,
		"par_copy_ns", level.ParCopyNs,
	)
}

// workers resolves the pool size for the next parallel operation.
func (h *Harness) workers() int {
	switch {
	case h.cfg.Workers < 0:
		return 0
	case h.cfg.Workers > 0:
		return h.cfg.Workers
	default:
		return memops.DefaultWorkers()
	}
}
