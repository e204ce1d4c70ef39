package voronoi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/model3d/model2d"

	"github.com/voidshard/townplan/geom"
)

func liveCount(v *Voronoi) int {
	n := 0
	for _, s := range v.slots {
		if s.live {
			n++
		}
	}
	return n
}

func TestNewBootstrap(t *testing.T) {
	a := geom.NewArena()
	v := New(a, 0, 0, 10, 10)

	assert.Len(t, v.Points(), 0)
	assert.Len(t, v.Triangulation(), 0)
	assert.Len(t, v.Partitioning(), 0)
	assert.Equal(t, 2, liveCount(v))

	// both seed triangles share the frame circumcircle
	for _, s := range v.slots {
		c := a.At(s.tri.Center)
		assert.InDelta(t, 5.0, c.X, 1e-9)
		assert.InDelta(t, 5.0, c.Y, 1e-9)
		assert.InDelta(t, math.Sqrt(50), s.tri.R, 1e-9)
	}

	for _, f := range v.frame {
		assert.NotNil(t, v.RegionFor(f))
	}
}

func TestAddPointFansAroundCavity(t *testing.T) {
	a := geom.NewArena()
	v := New(a, 0, 0, 10, 10)

	p, ok := v.AddPoint(model2d.Coord{X: 5, Y: 5})
	require.True(t, ok)

	// both bootstrap triangles die, four take their place
	assert.Equal(t, 4, liveCount(v))
	require.Len(t, v.Points(), 1)

	r := v.RegionFor(p)
	require.NotNil(t, r)

	poly := v.Polygon(r)
	require.Equal(t, 4, poly.Len())
	assert.InDelta(t, 50.0, poly.Area(), 1e-9)
	assert.True(t, poly.ContainsCoord(model2d.Coord{X: 5, Y: 5}, true))

	// circumcentres of the fan, swept by angle around the seed
	want := []model2d.Coord{{X: 5, Y: 0}, {X: 10, Y: 5}, {X: 5, Y: 10}, {X: 0, Y: 5}}
	for i, w := range want {
		assert.InDelta(t, w.X, poly.Pt(i).X, 1e-9)
		assert.InDelta(t, w.Y, poly.Pt(i).Y, 1e-9)
	}

	// every fan triangle leans on the frame, so no cell is real yet
	assert.Len(t, v.Partitioning(), 0)
	assert.Len(t, v.Triangulation(), 0)
}

func TestAddPointOutsideFrameSkipped(t *testing.T) {
	a := geom.NewArena()
	v := New(a, 0, 0, 10, 10)

	_, ok := v.AddPoint(model2d.Coord{X: 100, Y: 100})
	assert.False(t, ok)
	assert.Len(t, v.Points(), 0)
	assert.Equal(t, 2, liveCount(v))
}

func TestStaleRefsSkipped(t *testing.T) {
	a := geom.NewArena()
	v := New(a, 0, 0, 10, 10)

	frameRegion := v.RegionFor(v.frame[0])
	require.Len(t, v.liveTris(frameRegion), 1)

	_, ok := v.AddPoint(model2d.Coord{X: 5, Y: 5})
	require.True(t, ok)

	// the bootstrap triangle died; the corner region must resolve only
	// triangles that still exist
	after := v.liveTris(frameRegion)
	assert.Len(t, after, 2)
	for _, tr := range after {
		assert.True(t, tr.touches(v.frame[0]))
	}

	// a ref to a freed slot, even at the right index, resolves to nothing
	_, ok = v.live(TriRef{Index: 0, Gen: 0})
	assert.False(t, ok)
}

func gridPoints(n int, spacing float64) []model2d.Coord {
	pts := []model2d.Coord{}
	for iy := 0; iy < n; iy++ {
		for ix := 0; ix < n; ix++ {
			pts = append(pts, model2d.Coord{
				X: float64(ix)*spacing + 0.6*math.Sin(float64(ix*5+iy)),
				Y: float64(iy)*spacing + 0.6*math.Cos(float64(ix+iy*3)),
			})
		}
	}
	return pts
}

func TestBuildGridPartitioning(t *testing.T) {
	pts := gridPoints(5, 10)
	a := geom.NewArena()
	v := Build(a, pts)

	require.Len(t, v.Points(), 25)

	parts := v.Partitioning()
	assert.GreaterOrEqual(t, len(parts), 9)

	real := map[geom.Vertex]bool{}
	for _, r := range parts {
		real[r.Seed] = true

		// a voronoi cell always contains its own seed
		poly := v.Polygon(r)
		require.GreaterOrEqual(t, poly.Len(), 3)
		assert.True(t, poly.ContainsCoord(a.At(r.Seed), false))
	}

	// the inner 3x3 seeds are far from the frame & must all be kept
	seeds := v.Points()
	for iy := 1; iy < 4; iy++ {
		for ix := 1; ix < 4; ix++ {
			assert.True(t, real[seeds[iy*5+ix]])
		}
	}
}

func TestNeighbourCellsShareCornerHandles(t *testing.T) {
	pts := gridPoints(5, 10)
	a := geom.NewArena()
	v := Build(a, pts)

	seeds := v.Points()
	p1 := v.Polygon(v.RegionFor(seeds[1*5+1]))
	p2 := v.Polygon(v.RegionFor(seeds[1*5+2]))

	shared := 0
	for _, vert := range p1.Verts {
		if p2.HasVertex(vert) {
			shared++
		}
	}
	assert.GreaterOrEqual(t, shared, 2)
}

func TestBuildSquarePlusCentre(t *testing.T) {
	pts := []model2d.Coord{
		{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 0, Y: 20}, {X: 20, Y: 20},
		{X: 10.3, Y: 9.8},
	}
	a := geom.NewArena()
	v := Build(a, pts)

	require.Len(t, v.Points(), 5)

	// the square corners lean on the frame; only the centre cell is real
	parts := v.Partitioning()
	require.Len(t, parts, 1)
	assert.Equal(t, v.Points()[4], parts[0].Seed)

	poly := v.Polygon(parts[0])
	assert.Equal(t, 4, poly.Len())
	assert.True(t, poly.ContainsCoord(model2d.Coord{X: 10.3, Y: 9.8}, true))
}

func TestRelax(t *testing.T) {
	pts := gridPoints(3, 10)
	a := geom.NewArena()
	v := Build(a, pts)
	require.Len(t, v.Points(), 9)

	relaxed := v.Relax(nil)
	require.Len(t, relaxed.Points(), 9)
	for _, r := range relaxed.Partitioning() {
		poly := relaxed.Polygon(r)
		assert.True(t, poly.ContainsCoord(relaxed.Arena().At(r.Seed), false))
	}
}

func TestRelaxNobodyIsNoop(t *testing.T) {
	pts := gridPoints(3, 10)
	a := geom.NewArena()
	v := Build(a, pts)

	relaxed := v.Relax([]geom.Vertex{})
	require.Len(t, relaxed.Points(), 9)
	for i, s := range relaxed.Points() {
		assert.Equal(t, pts[i], relaxed.Arena().At(s))
	}
}

func TestTriangulationGrid(t *testing.T) {
	pts := gridPoints(4, 10)
	a := geom.NewArena()
	v := Build(a, pts)

	tris := v.Triangulation()
	assert.NotEmpty(t, tris)
	for _, tr := range tris {
		for _, f := range v.frame {
			assert.False(t, tr.touches(f))
		}
		// the circumcircle must be empty of every other seed
		c := a.At(tr.Center)
		for _, s := range v.Points() {
			if tr.touches(s) {
				continue
			}
			assert.GreaterOrEqual(t, a.At(s).Dist(c), tr.R-1e-9)
		}
	}
}
