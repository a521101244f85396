package terrain

import (
	"log/slog"
	"math"

	"github.com/paulmach/orb"

	"trajplan/pkg/geo"
	"trajplan/pkg/logging"
)

// Checker tests straight flight segments for terrain clearance.
type Checker struct {
	elevation Elevation
	margin    float64 // meters the vehicle must stay above ground
	step      float64 // sampling distance along a segment, meters
}

// NewChecker creates a checker. A nil elevation source clears every segment.
func NewChecker(e Elevation, margin, step float64) *Checker {
	if step <= 0 {
		step = 10
	}
	return &Checker{elevation: e, margin: margin, step: step}
}

// SegmentClear reports whether the segment from p1 at alt1 to p2 at alt2
// (meters MSL) keeps the margin above ground at both ends and every sample
// in between. Lookup failures are skipped.
func (c *Checker) SegmentClear(p1, p2 orb.Point, alt1, alt2 float64) bool {
	if c.elevation == nil {
		return true // Fail open if no elevation data
	}

	dist := geo.Distance(p1, p2)
	steps := int(math.Ceil(dist / c.step))
	if steps < 1 {
		steps = 1
	}

	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := orb.Point{p1.Lon() + (p2.Lon()-p1.Lon())*t, p1.Lat() + (p2.Lat()-p1.Lat())*t}

		ground, err := c.elevation.ElevationAt(p)
		if err != nil {
			slog.Debug("Terrain lookup failed", "lat", p.Lat(), "lon", p.Lon(), "err", err)
			continue
		}

		alt := alt1 + (alt2-alt1)*t
		if alt-ground < c.margin {
			logging.TraceDefault("Segment blocked by terrain",
				"step", i, "of", steps,
				"ground_m", ground,
				"alt_m", alt,
				"margin_m", c.margin)
			return false
		}
	}
	return true
}
