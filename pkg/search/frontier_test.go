package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scored(t *testing.T, index int, g, h float64) *Node {
	t.Helper()
	n := mustNode(t, NoParent, index, State{})
	require.NoError(t, n.SetCost(g, h))
	return n
}

func TestFrontier_Order(t *testing.T) {
	f := NewFrontier()
	assert.Nil(t, f.Pop())
	assert.Nil(t, f.Peek())

	f.Push(scored(t, 4, 3, 3))
	f.Push(scored(t, 1, 1, 1))
	f.Push(scored(t, 3, 2, 2))
	f.Push(scored(t, 2, 4, 0))
	f.Push(scored(t, 0, 10, 0))

	assert.Equal(t, 5, f.Len())
	assert.Equal(t, 1, f.Peek().Index)

	var got []int
	for f.Len() > 0 {
		got = append(got, f.Pop().Index)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 0}, got, "ties on f resolve by index")
}

func TestFrontier_RemoveAndFix(t *testing.T) {
	f := NewFrontier()
	a := scored(t, 1, 5, 0)
	b := scored(t, 2, 6, 0)
	c := scored(t, 3, 7, 0)
	f.Push(a)
	f.Push(b)
	f.Push(c)

	assert.True(t, f.Contains(b))
	assert.True(t, f.Remove(b))
	assert.False(t, f.Contains(b))
	assert.False(t, f.Remove(b))
	assert.Equal(t, 2, f.Len())

	require.NoError(t, c.SetCost(1, 0))
	f.Fix(c)
	assert.Same(t, c, f.Peek())

	f.Push(c)
	assert.Equal(t, 2, f.Len(), "re-pushing a queued node does not duplicate it")

	assert.Same(t, c, f.Pop())
	assert.Same(t, a, f.Pop())
	assert.Equal(t, 0, f.Len())
}
