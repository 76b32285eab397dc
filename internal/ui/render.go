// Package ui renders harness results and history for the terminal.
package ui

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"membench/internal/benchmark"
)

// RenderRun prints the per-level summary table of a single run.
func RenderRun(w io.Writer, run benchmark.Run) {
	fmt.Fprintln(w, headerStyle.Render("Benchmark summary"))

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "SIZE\tWORKERS\tSEQ FILL\tPAR FILL\tSEQ COPY\tPAR COPY\tVERDICT")
	for _, l := range run.Levels {
		fmt.Fprintf(tw, "%s\t%d\t%s ns\t%s ns\t%s ns\t%s ns\t%s\n",
			humanize.Comma(l.SizeBytes),
			l.Workers,
			humanize.Comma(int64(l.SeqFillNs)),
			humanize.Comma(int64(l.ParFillNs)),
			humanize.Comma(int64(l.SeqCopyNs)),
			humanize.Comma(int64(l.ParCopyNs)),
			verdict(l),
		)
	}
	tw.Flush()
}

func verdict(l benchmark.Level) string {
	switch {
	case l.SeqFillSlower && l.SeqCopySlower:
		return failStyle.Render("sequential slower")
	case l.SeqFillSlower:
		return failStyle.Render("seq fill slower")
	case l.SeqCopySlower:
		return failStyle.Render("seq copy slower")
	default:
		return passStyle.Render("sequential faster")
	}
}

// RenderHistory prints one line per stored run.
func RenderHistory(w io.Writer, runs []benchmark.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No runs recorded."))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "TIMESTAMP\tCOMMIT\tHOST\tCPUS\tLEVELS\tFIRST SIZE")
	for _, r := range runs {
		firstSize := "-"
		if len(r.Levels) > 0 {
			firstSize = humanize.Comma(r.Levels[0].SizeBytes)
		}
		commit := r.Commit
		if commit == "" {
			commit = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			r.Timestamp.Format("2006-01-02 15:04:05"),
			commit, r.Hostname, r.CPUs, len(r.Levels), firstSize)
	}
	tw.Flush()
}

// RenderComparisons prints the diff table between two runs, marking
// regressions beyond threshold percent.
func RenderComparisons(w io.Writer, comps []benchmark.Comparison, threshold float64) {
	if len(comps) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No overlapping size levels to compare."))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "SIZE\tSEQ FILL\tPAR FILL\tSEQ COPY\tPAR COPY\tSTATUS")
	for _, c := range comps {
		status := passStyle.Render("PASS")
		if c.Regressed(threshold) {
			status = failStyle.Render("FAIL")
		} else if c.SeqFillDiff < -threshold || c.ParFillDiff < -threshold ||
			c.SeqCopyDiff < -threshold || c.ParCopyDiff < -threshold {
			status = improveStyle.Render("IMPR")
		}
		fmt.Fprintf(tw, "%s\t%+.2f%%\t%+.2f%%\t%+.2f%%\t%+.2f%%\t%s\n",
			humanize.Comma(c.SizeBytes),
			c.SeqFillDiff, c.ParFillDiff, c.SeqCopyDiff, c.ParCopyDiff,
			status)
	}
	tw.Flush()
}
