package voronoi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/model3d/model2d"

	"github.com/voidshard/townplan/geom"
)

func TestBuilderScatterDeterministic(t *testing.T) {
	b1 := NewBuilder(model2d.Coord{X: -100, Y: -100}, model2d.Coord{X: 100, Y: 100})
	b2 := NewBuilder(model2d.Coord{X: -100, Y: -100}, model2d.Coord{X: 100, Y: 100})
	b1.SetSeed(42)
	b2.SetSeed(42)

	assert.Equal(t, 20, b1.Scatter(20))
	assert.Equal(t, 20, b2.Scatter(20))
	assert.Equal(t, b1.Seeds(), b2.Seeds())
}

func TestBuilderScatterShape(t *testing.T) {
	b := NewBuilder(model2d.Coord{X: -500, Y: -500}, model2d.Coord{X: 500, Y: 500})
	b.SetSeed(7)
	require.Equal(t, 15, b.Scatter(15))

	seeds := b.Seeds()
	assert.Equal(t, model2d.Coord{}, seeds[0])
	for _, s := range seeds[1:] {
		assert.GreaterOrEqual(t, math.Hypot(s.X, s.Y), 10.0)
	}
}

func TestBuilderMinDistance(t *testing.T) {
	b := NewBuilder(model2d.Coord{}, model2d.Coord{X: 100, Y: 100})
	b.SetSeedFilters(MinDistance(5))

	assert.True(t, b.AddSeed(model2d.Coord{X: 10, Y: 10}))
	assert.False(t, b.AddSeed(model2d.Coord{X: 11, Y: 10}))
	assert.True(t, b.AddSeed(model2d.Coord{X: 20, Y: 10}))
	assert.Equal(t, 2, b.SeedCount())
}

func TestBuilderInBox(t *testing.T) {
	b := NewBuilder(model2d.Coord{}, model2d.Coord{X: 100, Y: 100})
	b.SetCandidateFilters(InBox(model2d.Coord{}, model2d.Coord{X: 10, Y: 10}))

	assert.True(t, b.AddSeed(model2d.Coord{X: 5, Y: 5}))
	assert.False(t, b.AddSeed(model2d.Coord{X: -1, Y: 3}))
	assert.False(t, b.AddSeed(model2d.Coord{X: 3, Y: 11}))
	assert.Equal(t, 1, b.SeedCount())
}

func TestBuilderAddRandomSeedInBounds(t *testing.T) {
	b := NewBuilder(model2d.Coord{X: -10, Y: 5}, model2d.Coord{X: 10, Y: 25})
	b.SetSeed(3)

	for i := 0; i < 50; i++ {
		c, ok := b.AddRandomSeed()
		require.True(t, ok)
		assert.GreaterOrEqual(t, c.X, -10.0)
		assert.Less(t, c.X, 10.0)
		assert.GreaterOrEqual(t, c.Y, 5.0)
		assert.Less(t, c.Y, 25.0)
	}
	assert.Equal(t, 50, b.SeedCount())
}

func TestBuilderVoronoiNeedsSeeds(t *testing.T) {
	b := NewBuilder(model2d.Coord{}, model2d.Coord{X: 10, Y: 10})
	_, err := b.Voronoi(geom.NewArena())
	require.ErrorIs(t, err, ErrNoSeeds)
}

func TestBuilderVoronoi(t *testing.T) {
	b := NewBuilder(model2d.Coord{}, model2d.Coord{X: 30, Y: 30})
	require.True(t, b.AddSeed(model2d.Coord{X: 5, Y: 4}))
	require.True(t, b.AddSeed(model2d.Coord{X: 20, Y: 6}))
	require.True(t, b.AddSeed(model2d.Coord{X: 11, Y: 22}))

	v, err := b.Voronoi(geom.NewArena())
	require.NoError(t, err)
	assert.Len(t, v.Points(), 3)
}
