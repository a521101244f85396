package geo

import (
	"fmt"
	"math"

	"github.com/uber/h3-go/v4"

	"trajplan/pkg/search"
)

// CellKeyer discretizes states into H3 cells plus heading and altitude bins.
// It implements search.Keyer.
type CellKeyer struct {
	Frame       LocalFrame
	Resolution  int
	HeadingBin  float64 // degrees, 0 ignores heading
	AltitudeBin float64 // meters, 0 ignores altitude
}

// Key implements search.Keyer.
func (k CellKeyer) Key(s search.State) (string, error) {
	p := k.Frame.ToGeo(s.X, s.Y)
	cell, err := h3.LatLngToCell(h3.NewLatLng(p.Lat(), p.Lon()), k.Resolution)
	if err != nil {
		return "", fmt.Errorf("h3 cell at (%.6f, %.6f): %w", p.Lat(), p.Lon(), err)
	}

	var hb, ab int64
	if k.HeadingBin > 0 {
		hb = int64(math.Floor(NormalizeHeading(s.Psi) / k.HeadingBin))
	}
	if k.AltitudeBin > 0 {
		ab = int64(math.Floor(s.Z / k.AltitudeBin))
	}
	return fmt.Sprintf("%s:%d:%d", cell.String(), hb, ab), nil
}
