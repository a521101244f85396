// Package dynamics describes the discretized action set a vehicle can apply
// during one planning step.
package dynamics

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidActionSet is returned when an action set cannot drive an expansion.
var ErrInvalidActionSet = errors.New("invalid action set")

// ActionSet holds the candidate controls sampled at every expansion.
// Headings are deltas in degrees, vertical speeds are absolute values that
// replace the current one. SpeedDeltas is optional; when empty the
// horizontal speed is carried forward unchanged.
type ActionSet struct {
	HeadingDeltas  []float64
	VerticalSpeeds []float64
	SpeedDeltas    []float64
	Step           time.Duration
	MinSpeed       float64 // 0 disables the lower bound
	MaxSpeed       float64 // 0 disables the upper bound
}

// Validate reports configuration errors in the action set.
func (a ActionSet) Validate() error {
	if len(a.HeadingDeltas) == 0 {
		return fmt.Errorf("%w: no heading deltas", ErrInvalidActionSet)
	}
	if len(a.VerticalSpeeds) == 0 {
		return fmt.Errorf("%w: no vertical speeds", ErrInvalidActionSet)
	}
	if a.Step <= 0 {
		return fmt.Errorf("%w: step must be positive, got %v", ErrInvalidActionSet, a.Step)
	}
	for name, samples := range map[string][]float64{
		"heading delta":  a.HeadingDeltas,
		"vertical speed": a.VerticalSpeeds,
		"speed delta":    a.SpeedDeltas,
	} {
		for i, v := range samples {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %s[%d] is not finite", ErrInvalidActionSet, name, i)
			}
		}
	}
	if a.MinSpeed < 0 {
		return fmt.Errorf("%w: min speed %.2f is negative", ErrInvalidActionSet, a.MinSpeed)
	}
	if a.MaxSpeed > 0 && a.MaxSpeed < a.MinSpeed {
		return fmt.Errorf("%w: max speed %.2f below min speed %.2f", ErrInvalidActionSet, a.MaxSpeed, a.MinSpeed)
	}
	return nil
}

// StepSeconds returns the step duration in seconds.
func (a ActionSet) StepSeconds() float64 {
	return a.Step.Seconds()
}

// Size returns the upper bound of successors one expansion can produce.
func (a ActionSet) Size() int {
	n := len(a.HeadingDeltas) * len(a.VerticalSpeeds)
	if len(a.SpeedDeltas) > 0 {
		n *= len(a.SpeedDeltas)
	}
	return n
}

// ChildSpeeds returns the horizontal speeds a child of a node flying at
// speed may take. Samples outside [MinSpeed, MaxSpeed] are dropped.
func (a ActionSet) ChildSpeeds(speed float64) []float64 {
	if len(a.SpeedDeltas) == 0 {
		return []float64{speed}
	}
	out := make([]float64, 0, len(a.SpeedDeltas))
	for _, d := range a.SpeedDeltas {
		s := speed + d
		if s < a.MinSpeed || (a.MaxSpeed > 0 && s > a.MaxSpeed) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Spread returns count samples evenly spaced over [-span, span].
// A single sample is always 0.
func Spread(span float64, count int) []float64 {
	if count <= 0 {
		return nil
	}
	if count == 1 {
		return []float64{0}
	}
	out := make([]float64, count)
	stepSize := 2 * span / float64(count-1)
	for i := range out {
		out[i] = -span + float64(i)*stepSize
	}
	return out
}
