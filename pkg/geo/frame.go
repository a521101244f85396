package geo

import (
	"math"

	"github.com/paulmach/orb"

	"trajplan/pkg/config"
	"trajplan/pkg/model"
	"trajplan/pkg/search"
)

// LocalFrame is a flat east/north/up frame anchored at a home position.
// It is accurate for the few-kilometer extent of a planning run.
type LocalFrame struct {
	Origin orb.Point // lon, lat
	Alt    float64   // origin altitude, meters
}

// NewLocalFrame builds a frame from the mission origin.
func NewLocalFrame(o config.OriginConfig) LocalFrame {
	return LocalFrame{Origin: orb.Point{o.Lon, o.Lat}, Alt: o.Alt}
}

// ToGeo converts local x (east) and y (north) meters to a geographic point.
func (f LocalFrame) ToGeo(x, y float64) orb.Point {
	dist := math.Hypot(x, y)
	if dist == 0 {
		return f.Origin
	}
	bearing := math.Atan2(x, y) * 180 / math.Pi
	return DestinationPoint(f.Origin, dist, bearing)
}

// ToLocal converts a geographic point to local x (east) and y (north) meters.
func (f LocalFrame) ToLocal(p orb.Point) (x, y float64) {
	dist := Distance(f.Origin, p)
	if dist == 0 {
		return 0, 0
	}
	rad := Bearing(f.Origin, p) * math.Pi / 180
	return dist * math.Sin(rad), dist * math.Cos(rad)
}

// Waypoints converts a path (root first) into persisted waypoints.
func (f LocalFrame) Waypoints(path []*search.Node) []model.Waypoint {
	out := make([]model.Waypoint, len(path))
	for i, n := range path {
		p := f.ToGeo(n.X, n.Y)
		out[i] = model.Waypoint{
			Seq:           i,
			NodeIndex:     n.Index,
			ParentIndex:   n.Parent,
			X:             n.X,
			Y:             n.Y,
			Z:             n.Z,
			Heading:       n.Psi,
			VerticalSpeed: n.VS,
			Speed:         n.Speed,
			G:             n.G,
			H:             n.H,
			Lat:           p.Lat(),
			Lon:           p.Lon(),
		}
	}
	return out
}
