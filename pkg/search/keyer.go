package search

import (
	"fmt"
	"math"
)

// Keyer maps a state onto a discrete cell. Two states with the same key are
// treated as the same search state by the planner's closed set.
type Keyer interface {
	Key(s State) (string, error)
}

// GridKeyer bins states on a regular planar grid with heading and altitude bins.
type GridKeyer struct {
	CellSize    float64
	HeadingBin  float64 // degrees; 0 ignores heading
	AltitudeBin float64 // 0 ignores altitude
}

// Key implements Keyer.
func (k GridKeyer) Key(s State) (string, error) {
	if k.CellSize <= 0 {
		return "", fmt.Errorf("%w: grid cell size must be positive", ErrInvalidConfig)
	}
	cx := int64(math.Floor(s.X / k.CellSize))
	cy := int64(math.Floor(s.Y / k.CellSize))
	return fmt.Sprintf("%d:%d:%d:%d", cx, cy, bin(wrapHeading(s.Psi), k.HeadingBin), bin(s.Z, k.AltitudeBin)), nil
}

func bin(v, size float64) int64 {
	if size <= 0 {
		return 0
	}
	return int64(math.Floor(v / size))
}

// wrapHeading maps an unbounded heading into [0, 360).
func wrapHeading(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
