package store

import (
	"sync"
	"time"
)

// RunRecord is the outcome of one pipeline run.
type RunRecord struct {
	RunID       string    `json:"run_id"`
	Topic       string    `json:"topic"`
	Status      string    `json:"status"` // running, complete, timeout, cancelled, error
	OutputPath  string    `json:"output_path,omitempty"`
	Title       string    `json:"title,omitempty"`
	Warnings    []string  `json:"warnings,omitempty"`
	Error       string    `json:"error,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at,omitzero"`
}

// Runs is a thread-safe in-memory record of recent runs. Once capacity is
// reached the oldest record is evicted.
type Runs struct {
	mu       sync.RWMutex
	capacity int
	order    []string
	records  map[string]RunRecord
}

// NewRuns creates a run registry holding at most capacity records
// (minimum 1).
func NewRuns(capacity int) *Runs {
	return &Runs{
		capacity: max(capacity, 1),
		records:  make(map[string]RunRecord),
	}
}

// Put inserts or replaces a record.
func (r *Runs) Put(rec RunRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[rec.RunID]; !ok {
		r.order = append(r.order, rec.RunID)
		for len(r.order) > r.capacity {
			delete(r.records, r.order[0])
			r.order = r.order[1:]
		}
	}
	r.records[rec.RunID] = rec
}

// Get returns the record for runID.
func (r *Runs) Get(runID string) (RunRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[runID]
	return rec, ok
}

// List returns records newest first.
func (r *Runs) List() []RunRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]RunRecord, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		out = append(out, r.records[r.order[i]])
	}
	return out
}
