package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trajplan/pkg/config"
	"trajplan/pkg/search"
)

func testFrame() LocalFrame {
	return NewLocalFrame(config.OriginConfig{Lat: 37.1021, Lon: -76.3872, Alt: 3})
}

func TestLocalFrame_RoundTrip(t *testing.T) {
	f := testFrame()

	tests := []struct {
		name string
		x, y float64
	}{
		{"Origin", 0, 0},
		{"North", 0, 100},
		{"East", 250, 0},
		{"SouthWest", -120, -80},
		{"Far", 1500, 2000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := f.ToGeo(tt.x, tt.y)
			x, y := f.ToLocal(p)
			assert.InDelta(t, tt.x, x, 0.01)
			assert.InDelta(t, tt.y, y, 0.01)
		})
	}
}

func TestLocalFrame_NorthMovesLatitude(t *testing.T) {
	f := testFrame()
	p := f.ToGeo(0, 1000)
	assert.Greater(t, p.Lat(), f.Origin.Lat())
	assert.InDelta(t, f.Origin.Lon(), p.Lon(), 1e-9)
	assert.InDelta(t, 1000, Distance(f.Origin, p), 0.5)
}

func TestLocalFrame_Waypoints(t *testing.T) {
	arena, err := search.NewArena()
	require.NoError(t, err)
	root, err := arena.Root(search.State{Speed: 2})
	require.NoError(t, err)
	children, err := root.GenerateChildren([]float64{0}, []float64{1}, 1, arena)
	require.NoError(t, err)
	require.NoError(t, children[0].SetCost(2, 3))

	wps := testFrame().Waypoints(arena.Path(children[0]))
	require.Len(t, wps, 2)

	assert.Equal(t, 0, wps[0].Seq)
	assert.Equal(t, search.NoParent, wps[0].ParentIndex)
	assert.Equal(t, 1, wps[1].Seq)
	assert.Equal(t, root.Index, wps[1].ParentIndex)
	assert.InDelta(t, 2, wps[1].Y, 1e-9)
	assert.InDelta(t, 1, wps[1].Z, 1e-9)
	assert.Equal(t, 2.0, wps[1].G)
	assert.Equal(t, 3.0, wps[1].H)
	assert.False(t, math.IsNaN(wps[1].Lat))
	assert.Greater(t, wps[1].Lat, wps[0].Lat)
}
