// Package search holds the node model, node arena, frontier and A* loop of
// the trajectory planner.
package search

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// DefaultNeighborhood is the goal radius of a new node, in local frame units.
const DefaultNeighborhood = 5.0

// NoParent marks the root of a search tree.
const NoParent = -1

var (
	// ErrInvalidState is returned for non-finite vehicle states or bad links.
	ErrInvalidState = errors.New("invalid node state")
	// ErrInvalidConfig is returned for caller contract violations such as a non-positive step.
	ErrInvalidConfig = errors.New("invalid search configuration")
	// ErrForeignNode is returned when a node is used with an arena that does not own it.
	ErrForeignNode = errors.New("node does not belong to arena")
)

// State is the kinematic state of the vehicle in the local frame.
// X points east, Y north, Z up. Psi is the heading in degrees clockwise
// from north.
type State struct {
	X     float64
	Y     float64
	Z     float64
	Psi   float64
	VS    float64
	Speed float64
}

func (s State) validate() error {
	for name, v := range map[string]float64{
		"x": s.X, "y": s.Y, "z": s.Z, "psi": s.Psi, "vs": s.VS, "speed": s.Speed,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is %v", ErrInvalidState, name, v)
		}
	}
	return nil
}

// Node is one sampled vehicle state in the search tree.
// The zero value is a placeholder and must not be used for planning.
type Node struct {
	Index  int
	Parent int
	State

	VX float64
	VY float64
	VZ float64

	G float64
	H float64

	Neighborhood float64

	children []int
}

// NewNode creates a node with zero cost and the default neighborhood.
func NewNode(parent, index int, s State) (*Node, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: negative index %d", ErrInvalidState, index)
	}
	if parent != NoParent && (parent < 0 || parent >= index) {
		return nil, fmt.Errorf("%w: parent %d must precede index %d", ErrInvalidState, parent, index)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}

	rad := s.Psi * math.Pi / 180
	return &Node{
		Index:        index,
		Parent:       parent,
		State:        s,
		VX:           s.Speed * math.Sin(rad),
		VY:           s.Speed * math.Cos(rad),
		VZ:           s.VS,
		Neighborhood: DefaultNeighborhood,
	}, nil
}

// HasParent reports whether n was produced by an expansion.
func (n *Node) HasParent() bool {
	return n.Parent != NoParent
}

// F returns the total priority g+h.
func (n *Node) F() float64 {
	return n.G + n.H
}

// SetCost assigns the accumulated cost and the heuristic estimate.
func (n *Node) SetCost(g, h float64) error {
	if math.IsNaN(g) || math.IsInf(g, 0) || g < 0 {
		return fmt.Errorf("%w: g=%v", ErrInvalidState, g)
	}
	if math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
		return fmt.Errorf("%w: h=%v", ErrInvalidState, h)
	}
	n.G = g
	n.H = h
	return nil
}

// DistanceTo returns the horizontal distance to o. Altitude is ignored.
func (n *Node) DistanceTo(o *Node) float64 {
	return planar.Distance(orb.Point{n.X, n.Y}, orb.Point{o.X, o.Y})
}

// IsGoal reports whether goal lies strictly inside the neighborhood of n.
func (n *Node) IsGoal(goal *Node) bool {
	return n.DistanceTo(goal) < n.Neighborhood
}

// AddChild registers child under n. It returns false when a child with the
// same index is already registered or when child is not parented by n.
func (n *Node) AddChild(child *Node) bool {
	if child.Parent != n.Index {
		return false
	}
	for _, idx := range n.children {
		if idx == child.Index {
			return false
		}
	}
	n.children = append(n.children, child.Index)
	return true
}

// Children returns the indices of the registered children in insertion order.
func (n *Node) Children() []int {
	out := make([]int, len(n.children))
	copy(out, n.children)
	return out
}

// Less orders nodes by g+h, then by index.
func (n *Node) Less(o *Node) bool {
	fn, fo := n.F(), o.F()
	if fn != fo {
		return fn < fo
	}
	return n.Index < o.Index
}

// Equal reports whether n and o are the same search node.
func (n *Node) Equal(o *Node) bool {
	return n.Index == o.Index
}

// NotEqual reports whether n and o are different search nodes.
func (n *Node) NotEqual(o *Node) bool {
	return !n.Equal(o)
}

func (n *Node) String() string {
	return fmt.Sprintf("node[%d] (%.1f, %.1f, %.1f) psi=%.1f f=%.2f", n.Index, n.X, n.Y, n.Z, n.Psi, n.F())
}
