// Package oracle provides the default cost, heuristic and feasibility model
// used by the planner in open airspace.
package oracle

import (
	"math"

	"trajplan/pkg/config"
	"trajplan/pkg/search"
)

// Euclidean scores steps by horizontal distance plus a weighted climb term.
// Its heuristic is the remaining distance to the edge of the goal
// neighborhood, so it never overestimates when HeuristicWeight <= 1.
type Euclidean struct {
	HeuristicWeight float64
	ClimbWeight     float64

	// Local altitude limits; Ceiling 0 disables the upper bound.
	Floor   float64
	Ceiling float64
}

// New builds an Euclidean oracle from the planner config.
func New(cfg config.PlannerConfig) *Euclidean {
	return &Euclidean{
		HeuristicWeight: cfg.HeuristicWeight,
		ClimbWeight:     cfg.ClimbWeight,
		Floor:           math.Inf(-1),
		Ceiling:         cfg.Ceiling.Meters(),
	}
}

// Cost implements search.Oracle.
func (e *Euclidean) Cost(from, to *search.Node) float64 {
	return from.DistanceTo(to) + e.ClimbWeight*math.Abs(to.Z-from.Z)
}

// Heuristic implements search.Oracle.
func (e *Euclidean) Heuristic(n, goal *search.Node) float64 {
	d := n.DistanceTo(goal) - n.Neighborhood
	if d < 0 {
		return 0
	}
	return e.HeuristicWeight * d
}

// Feasible implements search.Oracle. Only the altitude envelope is checked.
func (e *Euclidean) Feasible(_, to *search.Node) bool {
	if to.Z < e.Floor {
		return false
	}
	if e.Ceiling > 0 && to.Z > e.Ceiling {
		return false
	}
	return true
}

var _ search.Oracle = (*Euclidean)(nil)
