// Package geo converts between the planner's local frame and geographic
// coordinates, discretizes states into H3 cells and exports paths as GeoJSON.
package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// EarthRadius is the mean Earth radius in meters.
const EarthRadius = 6371000

// Distance calculates the Haversine distance between two points in meters.
// Points are orb.Point{lon, lat}.
func Distance(p1, p2 orb.Point) float64 {
	dLat := (p2.Lat() - p1.Lat()) * (math.Pi / 180.0)
	dLon := (p2.Lon() - p1.Lon()) * (math.Pi / 180.0)
	lat1 := p1.Lat() * (math.Pi / 180.0)
	lat2 := p2.Lat() * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadius * c
}

// DestinationPoint returns the point reached from start after distMeters along bearing (degrees).
func DestinationPoint(start orb.Point, distMeters, bearing float64) orb.Point {
	lat1 := start.Lat() * (math.Pi / 180.0)
	lon1 := start.Lon() * (math.Pi / 180.0)
	brng := bearing * (math.Pi / 180.0)
	ang := distMeters / EarthRadius

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(ang) +
		math.Cos(lat1)*math.Sin(ang)*math.Cos(brng))
	lon2 := lon1 + math.Atan2(math.Sin(brng)*math.Sin(ang)*math.Cos(lat1),
		math.Cos(ang)-math.Sin(lat1)*math.Sin(lat2))

	return orb.Point{lon2 * (180.0 / math.Pi), lat2 * (180.0 / math.Pi)}
}

// Bearing calculates the initial bearing from p1 to p2 in degrees, [0, 360).
func Bearing(p1, p2 orb.Point) float64 {
	lat1 := p1.Lat() * (math.Pi / 180.0)
	lat2 := p2.Lat() * (math.Pi / 180.0)
	dLon := (p2.Lon() - p1.Lon()) * (math.Pi / 180.0)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) -
		math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	return NormalizeHeading(math.Atan2(y, x) * (180.0 / math.Pi))
}

// NormalizeAngle normalizes an angle difference to the range [-180, 180].
func NormalizeAngle(angleDeg float64) float64 {
	angleDeg = math.Mod(angleDeg, 360)
	if angleDeg > 180 {
		angleDeg -= 360
	} else if angleDeg < -180 {
		angleDeg += 360
	}
	return angleDeg
}

// NormalizeHeading maps an unbounded heading into [0, 360).
func NormalizeHeading(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}
