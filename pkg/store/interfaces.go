package store

import (
	"context"

	"trajplan/pkg/model"
)

// RunStore handles planning run persistence.
type RunStore interface {
	// SaveRun inserts or updates a run. An empty ID is replaced by a new one.
	SaveRun(ctx context.Context, run *model.Run) error
	GetRun(ctx context.Context, id string) (*model.Run, error)
	// ListRuns returns runs newest first. limit <= 0 returns all of them.
	ListRuns(ctx context.Context, limit int) ([]*model.Run, error)
}

// WaypointStore handles the planned path of a run.
type WaypointStore interface {
	// SaveWaypoints replaces the stored path of a run.
	SaveWaypoints(ctx context.Context, runID string, wps []model.Waypoint) error
	ListWaypoints(ctx context.Context, runID string) ([]model.Waypoint, error)
}
