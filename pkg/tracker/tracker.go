// Package tracker counts planner activity per planning run.
package tracker

import (
	"sync"
	"sync/atomic"
)

// Tracker tracks expansion statistics per run label.
type Tracker struct {
	mu    sync.RWMutex
	stats map[string]*RunStats
}

// RunStats holds the counters of one run.
// Fields are accessed atomically.
type RunStats struct {
	Expanded  int64
	Generated int64
	Pruned    int64
	Revisited int64
	Relaxed   int64
}

// New creates a new Tracker.
func New() *Tracker {
	return &Tracker{
		stats: make(map[string]*RunStats),
	}
}

// getStats returns the stats object for a run, creating it if needed.
func (t *Tracker) getStats(run string) *RunStats {
	t.mu.RLock()
	s, ok := t.stats[run]
	t.mu.RUnlock()
	if ok {
		return s
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	// Double check
	if s, ok = t.stats[run]; ok {
		return s
	}
	s = &RunStats{}
	t.stats[run] = s
	return s
}

// TrackExpanded increments the expansion counter.
func (t *Tracker) TrackExpanded(run string) {
	atomic.AddInt64(&t.getStats(run).Expanded, 1)
}

// TrackGenerated adds n generated successors.
func (t *Tracker) TrackGenerated(run string, n int) {
	atomic.AddInt64(&t.getStats(run).Generated, int64(n))
}

// TrackPruned adds n successors rejected as infeasible.
func (t *Tracker) TrackPruned(run string, n int) {
	atomic.AddInt64(&t.getStats(run).Pruned, int64(n))
}

// TrackRevisited adds n successors dropped because their cell was already
// closed or held a cheaper open node. A high rate hints at coarse sampling.
func (t *Tracker) TrackRevisited(run string, n int) {
	atomic.AddInt64(&t.getStats(run).Revisited, int64(n))
}

func (t *Tracker) TrackRelaxed(run string) {
	atomic.AddInt64(&t.getStats(run).Relaxed, 1)
}

// Snapshot returns a copy of the current stats.
func (t *Tracker) Snapshot() map[string]RunStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(map[string]RunStats)
	for k, v := range t.stats {
		result[k] = RunStats{
			Expanded:  atomic.LoadInt64(&v.Expanded),
			Generated: atomic.LoadInt64(&v.Generated),
			Pruned:    atomic.LoadInt64(&v.Pruned),
			Revisited: atomic.LoadInt64(&v.Revisited),
			Relaxed:   atomic.LoadInt64(&v.Relaxed),
		}
	}
	return result
}

// Reset zeroes the counters of every run but keeps the labels.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, s := range t.stats {
		atomic.StoreInt64(&s.Expanded, 0)
		atomic.StoreInt64(&s.Generated, 0)
		atomic.StoreInt64(&s.Pruned, 0)
		atomic.StoreInt64(&s.Revisited, 0)
		atomic.StoreInt64(&s.Relaxed, 0)
	}
}
