package benchmark

import "time"

// Level holds the aggregated means for one data size within a run.
type Level struct {
	SizeBytes     int64  `json:"size_bytes"`
	Trials        int    `json:"trials"`
	Workers       int    `json:"workers"`
	SeqFillNs     uint64 `json:"seq_fill_ns"`
	ParFillNs     uint64 `json:"par_fill_ns"`
	SeqCopyNs     uint64 `json:"seq_copy_ns"`
	ParCopyNs     uint64 `json:"par_copy_ns"`
	SeqFillSlower bool   `json:"seq_fill_slower"`
	SeqCopySlower bool   `json:"seq_copy_slower"`
}

// Run represents a collection of level results from a single harness execution.
type Run struct {
	Timestamp time.Time `json:"timestamp"`
	Commit    string    `json:"commit,omitempty"` // Git commit hash
	Hostname  string    `json:"hostname,omitempty"`
	CPUs      int       `json:"cpus,omitempty"`
	Levels    []Level   `json:"levels"`
}

// Store defines the interface for persisting harness runs.
type Store interface {
	Save(run Run) error
	LoadLatest() (*Run, error)
	LoadAll() ([]Run, error)
	Close() error
}
