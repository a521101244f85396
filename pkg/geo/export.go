package geo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"trajplan/pkg/model"
)

// PathFeatureCollection builds a GeoJSON collection with the flown track as a
// LineString and one Point feature per waypoint carrying its state.
func PathFeatureCollection(run *model.Run, waypoints []model.Waypoint) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	line := make(orb.LineString, 0, len(waypoints))
	for _, w := range waypoints {
		line = append(line, orb.Point{w.Lon, w.Lat})
	}
	track := geojson.NewFeature(line)
	track.Properties["kind"] = "track"
	if run != nil {
		track.Properties["run_id"] = run.ID
		track.Properties["found"] = run.Found
		track.Properties["cost"] = run.Cost
		track.Properties["expanded"] = run.Expanded
		track.Properties["origin"] = []float64{run.OriginLat, run.OriginLon, run.OriginAlt}
	}
	fc.Append(track)

	for _, w := range waypoints {
		f := geojson.NewFeature(orb.Point{w.Lon, w.Lat})
		f.Properties["kind"] = "waypoint"
		f.Properties["seq"] = w.Seq
		f.Properties["node"] = w.NodeIndex
		f.Properties["x"] = w.X
		f.Properties["y"] = w.Y
		f.Properties["z"] = w.Z
		f.Properties["heading"] = w.Heading
		f.Properties["vs"] = w.VerticalSpeed
		f.Properties["speed"] = w.Speed
		f.Properties["g"] = w.G
		fc.Append(f)
	}
	return fc
}

// WriteGeoJSON writes the collection to path, creating the directory.
func WriteGeoJSON(path string, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal geojson: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write geojson: %w", err)
	}
	return nil
}
