// Package model holds the records persisted and exported for planning runs.
package model

import "time"

// Run summarizes one planning run.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Found      bool
	Cost       float64
	NodeCount  int
	Expanded   int
	Generated  int
	Pruned     int
	Revisited  int
	Relaxed    int
	Error      string // empty when the run succeeded

	OriginLat float64
	OriginLon float64
	OriginAlt float64
}

// Duration returns the wall time of the run.
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Waypoint is one node of a planned path, root first.
type Waypoint struct {
	Seq           int
	NodeIndex     int
	ParentIndex   int // -1 for the start
	X             float64
	Y             float64
	Z             float64
	Heading       float64
	VerticalSpeed float64
	Speed         float64
	G             float64
	H             float64
	Lat           float64
	Lon           float64
}
