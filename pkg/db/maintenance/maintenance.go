// Package maintenance tidies the run log at startup.
package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"trajplan/pkg/db"
	"trajplan/pkg/store"
)

// interruptedError is recorded on runs that never finished.
const interruptedError = "interrupted"

// Run executes all maintenance tasks: closing interrupted runs and pruning.
// It must run before the current process records its own run.
// Failures are logged and never stop startup.
func Run(ctx context.Context, s store.Store, d *db.DB, retention time.Duration) error {
	slog.Info("Starting database maintenance...")

	if n, err := closeInterrupted(ctx, s); err != nil {
		slog.Error("Closing interrupted runs failed", "error", err)
	} else if n > 0 {
		slog.Warn("Closed interrupted runs", "count", n)
	}

	if retention <= 0 {
		return nil
	}
	if n, err := d.PruneRuns(retention); err != nil {
		slog.Error("Run pruning failed", "error", err)
	} else {
		slog.Info("Run pruning completed", "removed", n, "retention", retention)
	}

	return nil
}

// closeInterrupted marks runs left without a finish time by a crashed process.
func closeInterrupted(ctx context.Context, s store.Store) (int, error) {
	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to list runs: %w", err)
	}

	count := 0
	for _, r := range runs {
		if !r.FinishedAt.IsZero() {
			continue
		}
		r.FinishedAt = time.Now()
		r.Error = interruptedError
		if err := s.SaveRun(ctx, r); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
