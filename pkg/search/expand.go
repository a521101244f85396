package search

import (
	"fmt"
	"math"

	"trajplan/pkg/dynamics"
)

// GenerateChildren expands n over the Cartesian product of heading deltas
// (degrees) and vertical speeds, integrating over dt seconds. Every
// successor is appended to nodes and registered as a child of n. Costs are
// left at zero for the search loop to fill in.
//
// Empty sample sets produce no children and no error.
func (n *Node) GenerateChildren(headings, verticalSpeeds []float64, dt float64, nodes *Arena) ([]*Node, error) {
	nodes.mu.Lock()
	defer nodes.mu.Unlock()

	speed := n.Speed
	if nodes.childSpeed > 0 {
		speed = nodes.childSpeed
	}
	return nodes.generateLocked(n, headings, verticalSpeeds, []float64{speed}, dt)
}

// Expand applies an action set to n. Without speed deltas this is exactly
// GenerateChildren with the action set's samples and step.
func (a *Arena) Expand(n *Node, actions dynamics.ActionSet) ([]*Node, error) {
	if err := actions.Validate(); err != nil {
		return nil, fmt.Errorf("expand node %d: %w", n.Index, err)
	}
	if len(actions.SpeedDeltas) == 0 {
		return n.GenerateChildren(actions.HeadingDeltas, actions.VerticalSpeeds, actions.StepSeconds(), a)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.generateLocked(n, actions.HeadingDeltas, actions.VerticalSpeeds, actions.ChildSpeeds(n.Speed), actions.StepSeconds())
}

func (a *Arena) generateLocked(n *Node, headings, verticalSpeeds, speeds []float64, dt float64) ([]*Node, error) {
	if !a.owns(n) {
		return nil, fmt.Errorf("%w: index %d", ErrForeignNode, n.Index)
	}
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 {
		return nil, fmt.Errorf("%w: step duration must be positive, got %v", ErrInvalidConfig, dt)
	}
	for _, samples := range [][]float64{headings, verticalSpeeds, speeds} {
		for _, v := range samples {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: non-finite sample %v", ErrInvalidConfig, v)
			}
		}
	}

	out := make([]*Node, 0, len(headings)*len(verticalSpeeds)*len(speeds))
	for _, childSpeed := range speeds {
		for _, dpsi := range headings {
			psi := n.Psi + dpsi
			rad := psi * math.Pi / 180
			x := n.X + n.Speed*math.Sin(rad)*dt
			y := n.Y + n.Speed*math.Cos(rad)*dt

			for _, vs := range verticalSpeeds {
				child, err := a.spawnLocked(n.Index, State{
					X:     x,
					Y:     y,
					Z:     n.Z + vs*dt,
					Psi:   psi,
					VS:    vs,
					Speed: childSpeed,
				})
				if err != nil {
					return out, fmt.Errorf("expand node %d: %w", n.Index, err)
				}
				n.AddChild(child)
				out = append(out, child)
			}
		}
	}
	return out, nil
}
