package ward

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/model3d/model2d"

	"github.com/voidshard/townplan/geom"
)

func TestObbCutSquare(t *testing.T) {
	a := geom.NewArena()
	p := box(a, 0, 0, 100, 100)

	halves := obbCut(p, 0.5, 0, 0)

	require.Len(t, halves, 2)
	assert.InDelta(t, 5000, halves[0].Area(), 1e-9)
	assert.InDelta(t, 5000, halves[1].Area(), 1e-9)
}

func TestObbCutGap(t *testing.T) {
	a := geom.NewArena()
	p := box(a, 0, 0, 100, 100)

	halves := obbCut(p, 0.5, 0, 2)

	require.Len(t, halves, 2)
	assert.InDelta(t, 4900, halves[0].Area(), 1e-9)
	assert.InDelta(t, 4900, halves[1].Area(), 1e-9)
}

func TestObbCutClampsRatio(t *testing.T) {
	// jitter pushing way past the end of the axis still cuts inside
	// the block, so neither half may vanish.
	a := geom.NewArena()
	p := box(a, 0, 0, 100, 100)

	halves := obbCut(p, 5, 0, 0)

	require.Len(t, halves, 2)
	for _, h := range halves {
		assert.Greater(t, h.Area(), 1000.0)
	}
}

func TestBisectSquare(t *testing.T) {
	a := geom.NewArena()
	p := box(a, 0, 0, 10, 10)

	halves := bisect(p, p.Verts[0], 0.5, 0, 0)

	require.Len(t, halves, 2)
	assert.InDelta(t, 100, halves[0].Area()+halves[1].Area(), 1e-9)
	assert.InDelta(t, 50, halves[0].Area(), 1e-9)
}

func TestBisectGapShavesHalves(t *testing.T) {
	a := geom.NewArena()
	p := box(a, 0, 0, 10, 10)

	halves := bisect(p, p.Verts[0], 0.5, 0, 1)

	require.Len(t, halves, 2)
	assert.InDelta(t, 90, halves[0].Area()+halves[1].Area(), 1e-9)
}

func TestRadialSectors(t *testing.T) {
	a := geom.NewArena()
	p := box(a, 0, 0, 10, 10)

	sectors := Radial(p, p.Centroid(), 0)

	require.Len(t, sectors, 4)
	for _, s := range sectors {
		assert.InDelta(t, 25, s.Area(), 1e-9)
	}
}

func TestRadialGapTrimsSpokes(t *testing.T) {
	a := geom.NewArena()
	p := box(a, 0, 0, 10, 10)

	sectors := Radial(p, p.Centroid(), 0.6)

	require.Len(t, sectors, 4)
	for _, s := range sectors {
		assert.Less(t, s.Area(), 25.0)
		assert.Greater(t, s.Area(), 15.0)
	}
}

func TestSemiRadialSkipsHubEdges(t *testing.T) {
	a := geom.NewArena()
	p := box(a, 0, 0, 10, 10)

	sectors := SemiRadial(p, 0)

	// all four corners tie for closest to the centroid, the first one
	// wins, and its two incident edges produce no sector.
	require.Len(t, sectors, 2)
	assert.InDelta(t, 100, sectors[0].Area()+sectors[1].Area(), 1e-9)
	for _, s := range sectors {
		assert.True(t, s.HasVertex(p.Verts[0]))
	}
}

func TestRingPeelsEveryEdge(t *testing.T) {
	a := geom.NewArena()
	p := box(a, 0, 0, 10, 10)

	strips := Ring(p, 2)

	// four strips around an uncollected 6x6 courtyard.
	require.Len(t, strips, 4)
	assert.InDelta(t, 64, totalArea(strips), 1e-9)
	for _, s := range strips {
		assert.Greater(t, s.Area(), 0.0)
	}
}

func TestDistToLine(t *testing.T) {
	assert.InDelta(t, 3,
		distToLine(model2d.Coord{}, model2d.Coord{X: 1}, model2d.Coord{X: 5, Y: 3}), 1e-9)
	assert.InDelta(t, 0,
		distToLine(model2d.Coord{}, model2d.Coord{X: 1, Y: 1}, model2d.Coord{X: 4, Y: 4}), 1e-9)

	// zero direction degrades to plain distance
	assert.InDelta(t, 5,
		distToLine(model2d.Coord{}, model2d.Coord{}, model2d.Coord{X: 3, Y: 4}), 1e-9)
}
