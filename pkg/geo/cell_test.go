package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trajplan/pkg/search"
)

func TestCellKeyer_Key(t *testing.T) {
	k := CellKeyer{Frame: testFrame(), Resolution: 15, HeadingBin: 10, AltitudeBin: 5}

	base, err := k.Key(search.State{X: 10, Y: 10, Z: 2, Psi: 3})
	require.NoError(t, err)

	same, err := k.Key(search.State{X: 10, Y: 10, Z: 3, Psi: 363})
	require.NoError(t, err)
	assert.Equal(t, base, same, "wrapped heading and altitude within the bin share a key")

	far, err := k.Key(search.State{X: 50, Y: 10, Z: 2, Psi: 3})
	require.NoError(t, err)
	assert.NotEqual(t, base, far)

	turned, err := k.Key(search.State{X: 10, Y: 10, Z: 2, Psi: 45})
	require.NoError(t, err)
	assert.NotEqual(t, base, turned)

	climbed, err := k.Key(search.State{X: 10, Y: 10, Z: 12, Psi: 3})
	require.NoError(t, err)
	assert.NotEqual(t, base, climbed)
}

func TestCellKeyer_IgnoresBinsWhenZero(t *testing.T) {
	k := CellKeyer{Frame: testFrame(), Resolution: 9}

	a, err := k.Key(search.State{X: 0, Y: 0, Z: 0, Psi: 0})
	require.NoError(t, err)
	b, err := k.Key(search.State{X: 0, Y: 0, Z: 400, Psi: 180})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCellKeyer_InvalidResolution(t *testing.T) {
	k := CellKeyer{Frame: testFrame(), Resolution: 16}
	_, err := k.Key(search.State{})
	assert.Error(t, err)
}

func TestCellKeyer_ImplementsKeyer(t *testing.T) {
	var _ search.Keyer = CellKeyer{}
}
