package townplan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/model3d/model2d"

	"github.com/voidshard/townplan/geom"
)

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(&Config{Districts: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewUnwalledTown(t *testing.T) {
	town, err := New(&Config{
		Districts: 10,
		Plaza:     FeatureOn,
		Citadel:   FeatureOff,
		Walls:     FeatureOff,
		Seed:      7,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), town.Seed)
	assert.Nil(t, town.Wall)
	assert.Nil(t, town.Citadel)
	require.NotNil(t, town.Plaza)
	assert.Equal(t, WardKind(Market), town.Plaza.Kind)

	city := 0
	for i, d := range town.Districts {
		assert.Equal(t, i, d.ID)
		if d.WithinCity {
			city++
			assert.False(t, d.WithinWalls)
			assert.NotEqual(t, WardKind(""), d.Kind, "district %d has no ward", i)
		} else {
			assert.Contains(t, []WardKind{Farm, Empty}, d.Kind, "district %d", i)
		}
	}
	assert.Equal(t, 10, city)

	// every gate gets a street in to the market square
	require.NotEmpty(t, town.Gates)
	require.Len(t, town.Streets, len(town.Gates))
	for i, s := range town.Streets {
		require.NotEmpty(t, s.Verts)
		assert.Equal(t, town.Gates[i], s.Verts[0])
		assert.True(t, town.Plaza.Shape.HasVertex(s.Verts[s.Len()-1]),
			"street %d misses the square", i)
	}

	// roads, when routed, always run back in to a gate
	for _, r := range town.Roads {
		assert.True(t, hasVertex(town.Gates, r.Verts[r.Len()-1]))
	}
	assert.NotEmpty(t, town.Arteries)

	assert.Greater(t, town.Radius, 0.0)
	assert.Greater(t, town.Stats.Lots, 0)
	assert.Equal(t, 1, town.Stats.count(Market))
}

func TestNewWalledTown(t *testing.T) {
	town, err := New(&Config{
		Districts: 15,
		Plaza:     FeatureOn,
		Citadel:   FeatureOn,
		Walls:     FeatureOn,
		Seed:      3,
		Attempts:  64,
	})
	require.NoError(t, err)

	require.NotNil(t, town.Wall)
	ring := town.Wall.Shape
	require.GreaterOrEqual(t, ring.Len(), 3)
	require.NotEmpty(t, town.Wall.Gates)
	assert.NotEmpty(t, town.Wall.Towers)

	// gates never sit on neighbouring wall corners
	for _, g1 := range town.Wall.Gates {
		i1 := ring.IndexOf(g1)
		require.NotEqual(t, -1, i1)
		for _, g2 := range town.Wall.Gates {
			if g1 == g2 {
				continue
			}
			gap := (ring.IndexOf(g2) - i1 + ring.Len()) % ring.Len()
			assert.NotEqual(t, 1, gap, "gates %d and %d are adjacent", g1, g2)
		}
	}

	// towers stand clear of the gates
	for _, tower := range town.Wall.Towers {
		assert.False(t, hasVertex(town.Wall.Gates, tower))
	}

	cit := town.Citadel
	require.NotNil(t, cit)
	assert.Equal(t, WardKind(Castle), cit.Kind)
	assert.True(t, cit.WithinCity)
	assert.False(t, cit.WithinWalls)
	assert.GreaterOrEqual(t, cit.Shape.Compactness(), 0.75)
	assert.NotEmpty(t, cit.Lots, "citadel holds no keep")
	require.NotNil(t, cit.Wall)
	require.NotEmpty(t, cit.Wall.Gates)
	for _, g := range cit.Wall.Gates {
		assert.True(t, hasVertex(town.Gates, g), "citadel gate %d not a town gate", g)
	}
	assert.Equal(t, 1, town.Stats.count(Castle))

	// wall and citadel gates alike reach the market square
	require.NotNil(t, town.Plaza)
	require.Len(t, town.Streets, len(town.Gates))
	for i, s := range town.Streets {
		require.NotEmpty(t, s.Verts)
		assert.Equal(t, town.Gates[i], s.Verts[0])
		assert.True(t, town.Plaza.Shape.HasVertex(s.Verts[s.Len()-1]))
	}

	for _, d := range town.Districts {
		if d.WithinWalls {
			assert.True(t, d.WithinCity)
		}
		if d.WithinCity {
			assert.NotEqual(t, WardKind(""), d.Kind)
		}
	}
	assert.Greater(t, town.Stats.Lots, 0)
}

func TestDeterministicRebuild(t *testing.T) {
	build := func() *Town {
		town, err := New(&Config{
			Districts: 12,
			Plaza:     FeatureOn,
			Citadel:   FeatureOff,
			Walls:     FeatureOn,
			Seed:      11,
			Attempts:  64,
		})
		require.NoError(t, err)
		return town
	}

	t1 := build()
	t2 := build()

	type district struct {
		Kind   WardKind
		City   bool
		Coords []model2d.Coord
		Lots   int
	}
	snap := func(town *Town) []district {
		out := []district{}
		for _, d := range town.Districts {
			out = append(out, district{
				Kind:   d.Kind,
				City:   d.WithinCity,
				Coords: d.Shape.Coords(),
				Lots:   len(d.Lots),
			})
		}
		return out
	}

	assert.Empty(t, cmp.Diff(snap(t1), snap(t2)))
	assert.Equal(t, t1.Gates, t2.Gates)
	assert.Equal(t, t1.Stats.Lots, t2.Stats.Lots)
	assert.Equal(t, t1.Radius, t2.Radius)
	assert.Equal(t, t1.Center, t2.Center)
	assert.Equal(t, len(t1.Arteries), len(t2.Arteries))
}

func TestPlannerOverride(t *testing.T) {
	bare := PlannerFunc(func(town *Town, d *District) []geom.Polygon {
		return nil
	})

	town, err := New(&Config{
		Districts: 10,
		Plaza:     FeatureOn,
		Citadel:   FeatureOff,
		Walls:     FeatureOff,
		Seed:      7,
		Planners:  map[WardKind]Planner{Craftsmen: bare},
	})
	require.NoError(t, err)

	found := 0
	for _, d := range town.Districts {
		if d.Kind == Craftsmen {
			found++
			assert.Empty(t, d.Lots)
		}
	}
	assert.Greater(t, found, 0)
}

func TestCityBlockInset(t *testing.T) {
	a := geom.NewArena()
	s := row(a, 1, 10)
	town := handTown(a, s, 1)

	block := town.CityBlock(town.Districts[0])

	// every edge borders town interior, so the block pulls back half a
	// regular street all round
	require.Equal(t, 4, block.Len())
	assert.InDelta(t, 81, block.Area(), 1e-6)
}

func TestIsEnclosed(t *testing.T) {
	a := geom.NewArena()
	s := row(a, 3, 10)
	town := handTown(a, s, 2)

	assert.True(t, town.IsEnclosed(town.Districts[0]))
	assert.False(t, town.IsEnclosed(town.Districts[1]), "touches open country")
	assert.False(t, town.IsEnclosed(town.Districts[2]), "is open country")

	// being behind the wall trumps the neighbour check
	town.Districts[1].WithinWalls = true
	assert.True(t, town.IsEnclosed(town.Districts[1]))
}
