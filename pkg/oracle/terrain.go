package oracle

import (
	"trajplan/pkg/geo"
	"trajplan/pkg/search"
	"trajplan/pkg/terrain"
)

// TerrainAware adds terrain clearance to another oracle's feasibility check.
// Costs and heuristics are delegated unchanged.
type TerrainAware struct {
	search.Oracle
	Frame   geo.LocalFrame
	Checker *terrain.Checker
}

// NewTerrainAware wraps base with a terrain check in frame.
func NewTerrainAware(base search.Oracle, frame geo.LocalFrame, checker *terrain.Checker) *TerrainAware {
	return &TerrainAware{Oracle: base, Frame: frame, Checker: checker}
}

// Feasible implements search.Oracle.
func (t *TerrainAware) Feasible(from, to *search.Node) bool {
	if !t.Oracle.Feasible(from, to) {
		return false
	}
	return t.Checker.SegmentClear(
		t.Frame.ToGeo(from.X, from.Y), t.Frame.ToGeo(to.X, to.Y),
		t.Frame.Alt+from.Z, t.Frame.Alt+to.Z,
	)
}
