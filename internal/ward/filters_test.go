package ward

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/model3d/model2d"

	"github.com/voidshard/townplan/geom"
)

func TestInsetBlockStreetsAllRound(t *testing.T) {
	a := geom.NewArena()
	shape := box(a, 0, 0, 10, 10)
	w := Widths{MainStreet: 2, RegularStreet: 1, Alley: 0.6}

	block := InsetBlock(shape, []EdgeKind{EdgeStreet, EdgeStreet, EdgeStreet, EdgeStreet}, w)

	// a full main street width per side leaves an 8x8 block
	assert.InDelta(t, 64, block.Area(), 1e-9)
}

func TestInsetBlockMixedKinds(t *testing.T) {
	a := geom.NewArena()
	shape := box(a, 0, 0, 10, 10)
	w := Widths{MainStreet: 2, RegularStreet: 1, Alley: 0.6}

	block := InsetBlock(shape, []EdgeKind{EdgeWall, EdgeInner, EdgeOpen, EdgeStreet}, w)

	// insets of 1, 0.5, 0.3 and 1 leave an 8.5 x 8.7 block
	assert.InDelta(t, 8.5*8.7, block.Area(), 1e-9)
}

func TestInsetBlockMissingKindsCountAsOpen(t *testing.T) {
	a := geom.NewArena()
	shape := box(a, 0, 0, 10, 10)
	w := Widths{MainStreet: 2, RegularStreet: 1, Alley: 0.6}

	block := InsetBlock(shape, nil, w)

	assert.InDelta(t, 9.4*9.4, block.Area(), 1e-9)
}

func TestInsetBlockConcaveFallsBackToBuffer(t *testing.T) {
	a := geom.NewArena()
	shape := geom.PolygonOf(a,
		model2d.Coord{},
		model2d.Coord{X: 20},
		model2d.Coord{X: 20, Y: 10},
		model2d.Coord{X: 10, Y: 10},
		model2d.Coord{X: 10, Y: 20},
		model2d.Coord{Y: 20},
	)
	require.False(t, shape.IsConvex())
	w := Widths{MainStreet: 2, RegularStreet: 1, Alley: 0.6}

	block := InsetBlock(shape, nil, w)

	assert.Less(t, block.Area(), shape.Area())
	assert.Greater(t, block.Area(), 250.0)
}

func TestFilterInnerDropsCourtyardLots(t *testing.T) {
	a := geom.NewArena()
	block := box(a, 0, 0, 30, 30)
	corner := box(a, 0, 0, 10, 10)
	courtyard := box(a, 12, 12, 6, 6)

	kept := FilterInner(block, []geom.Polygon{corner, courtyard})

	require.Len(t, kept, 1)
	assert.Equal(t, corner.Coords(), kept[0].Coords())
}

func TestFilterInnerKeepsEdgeHuggers(t *testing.T) {
	a := geom.NewArena()
	block := box(a, 0, 0, 30, 30)

	// sits just inside the tolerance of the right boundary
	hugger := box(a, 29.95, 10, 0.04, 5)

	kept := FilterInner(block, []geom.Polygon{hugger})
	assert.Len(t, kept, 1)
}

func TestFilterOutskirtsNoPopulatedEdgesDropsAll(t *testing.T) {
	a := geom.NewArena()
	shape := box(a, 0, 0, 20, 20)
	lots := []geom.Polygon{box(a, 2, 2, 4, 4), box(a, 10, 10, 4, 4)}
	rng := rand.New(rand.NewSource(1))

	kept := FilterOutskirts(rng, shape, lots, nil,
		[]VertexKind{VertexOpen, VertexOpen, VertexOpen, VertexOpen})

	assert.Empty(t, kept)
}

func TestFilterOutskirtsKeepsRoadside(t *testing.T) {
	a := geom.NewArena()
	shape := box(a, 0, 0, 20, 20)

	// flush against the road along the bottom edge
	roadside := box(a, 2, 0, 4, 2)

	rng := rand.New(rand.NewSource(1))
	kept := FilterOutskirts(rng, shape, []geom.Polygon{roadside},
		[]float64{1, 0, 0, 0},
		[]VertexKind{VertexGate, VertexGate, VertexGate, VertexGate})

	require.Len(t, kept, 1)
	assert.Equal(t, roadside.Coords(), kept[0].Coords())
}

func TestFilterOutskirtsDeterministic(t *testing.T) {
	mk := func(seed int64) []geom.Polygon {
		a := geom.NewArena()
		shape := box(a, 0, 0, 20, 20)
		lots := []geom.Polygon{}
		for x := 0.0; x < 20; x += 4 {
			for y := 0.0; y < 20; y += 4 {
				lots = append(lots, box(a, x+0.5, y+0.5, 3, 3))
			}
		}
		return FilterOutskirts(rand.New(rand.NewSource(seed)), shape, lots,
			[]float64{1, 0, 0.4, 0},
			[]VertexKind{VertexGate, VertexInner, VertexInner, VertexOpen})
	}

	run1 := mk(17)
	run2 := mk(17)

	require.Equal(t, len(run1), len(run2))
	for i := range run1 {
		assert.Equal(t, run1[i].Coords(), run2[i].Coords())
	}
}
