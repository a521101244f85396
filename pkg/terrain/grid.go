// Package terrain reads gridded ground elevation and checks flight segments
// against it.
package terrain

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/paulmach/orb"
)

const (
	// ETOPO1 Constants (cell-registered: 10801 rows × 21601 cols)
	etopo1Rows = 10801
	etopo1Cols = 21601
)

// Elevation returns ground elevation in meters MSL.
type Elevation interface {
	ElevationAt(p orb.Point) (float64, error)
}

// Grid is a global, row-major grid of little-endian int16 samples running
// north to south and west to east.
type Grid struct {
	file       *os.File
	rows, cols int
	perDegree  float64

	mu    sync.Mutex
	cache map[int64]int16 // sample offset -> value
}

// OpenETOPO1 opens the 1 arc-minute ETOPO1 binary file.
func OpenETOPO1(path string) (*Grid, error) {
	return OpenGrid(path, etopo1Rows, etopo1Cols)
}

// OpenGrid opens a grid file with the given dimensions. rows-1 must span
// 180 degrees of latitude.
func OpenGrid(path string, rows, cols int) (*Grid, error) {
	if rows < 2 || cols < 2 {
		return nil, fmt.Errorf("invalid grid size %dx%d", rows, cols)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	want := int64(rows) * int64(cols) * 2
	if info.Size() != want {
		f.Close()
		return nil, fmt.Errorf("invalid elevation grid size: expected %d, got %d", want, info.Size())
	}

	return &Grid{
		file:      f,
		rows:      rows,
		cols:      cols,
		perDegree: float64(rows-1) / 180.0,
		cache:     make(map[int64]int16),
	}, nil
}

// Close closes the file handle.
func (g *Grid) Close() error {
	return g.file.Close()
}

// ElevationAt returns the elevation of the nearest sample to p.
func (g *Grid) ElevationAt(p orb.Point) (float64, error) {
	lat, lon := p.Lat(), p.Lon()
	if lat > 90 || lat < -90 || lon > 180 || lon < -180 {
		return 0, fmt.Errorf("coordinates out of bounds: %f, %f", lat, lon)
	}

	row := int(math.Round((90.0 - lat) * g.perDegree))
	col := int(math.Round((lon + 180.0) * g.perDegree))
	row = min(max(row, 0), g.rows-1)
	col %= g.cols

	offset := int64(row*g.cols+col) * 2

	g.mu.Lock()
	defer g.mu.Unlock()
	if v, ok := g.cache[offset]; ok {
		return float64(v), nil
	}

	b := make([]byte, 2)
	if _, err := g.file.ReadAt(b, offset); err != nil {
		return 0, err
	}
	v := int16(binary.LittleEndian.Uint16(b))
	g.cache[offset] = v
	return float64(v), nil
}
