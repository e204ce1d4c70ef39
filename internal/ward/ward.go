// Package ward turns district polygons into building lots.
//
// A district's shape is inset away from its borders to leave a buildable
// block, the block is recursively carved into lots, and filters then thin
// the result so the quarter reads lived-in rather than wall to wall.
package ward

import (
	"math"
	"math/rand"

	"github.com/voidshard/townplan/geom"
)

// Params controls how a block is carved up.
type Params struct {
	// MinSq is the target terminal lot area. Halves under a randomized
	// multiple of this stop recursing and become lots.
	MinSq float64

	// GridChaos in [0,1] skews cut positions and angles away from a
	// regular grid.
	GridChaos float64

	// SizeChaos in [0,1] widens the spread of terminal lot sizes.
	SizeChaos float64

	// EmptyProb is the chance a terminal lot is left unbuilt.
	EmptyProb float64
}

// Subdivide recursively cuts block into building lots. Cuts run across
// the block's long axis so lots come out roughly rectangular. alley is
// the gap left between halves when a cut doubles as a lane; the first
// cut is always a lane, deeper ones only for halves still well over
// the target size.
func Subdivide(rng *rand.Rand, block geom.Polygon, prm Params, alley float64) []geom.Polygon {
	return subdivide(rng, block, prm, alley, true)
}

func subdivide(rng *rand.Rand, p geom.Polygon, prm Params, alley float64, split bool) []geom.Polygon {
	if p.Len() < 3 {
		return nil
	}

	spread := 0.8 * prm.GridChaos
	jitter := (1-spread)/2 + rng.Float64()*spread

	// Small blocks keep their cuts square no matter the chaos.
	angleSpread := math.Pi / 6 * prm.GridChaos
	if p.Area() < prm.MinSq*4 {
		angleSpread = 0
	}
	b := (rng.Float64() - 0.5) * angleSpread

	gap := 0.0
	if split {
		gap = alley
	}

	halves := obbCut(p, jitter, b, gap)
	if len(halves) < 2 {
		halves = bisect(p, p.Verts[longestEdge(p)], jitter, b, gap)
	}
	if len(halves) < 2 {
		// Nothing managed to slice this shape, emit it whole.
		return []geom.Polygon{p.Copy()}
	}

	lots := []geom.Polygon{}
	for _, half := range halves {
		sq := half.Area()
		threshold := prm.MinSq * math.Pow(2, 4*prm.SizeChaos*(rng.Float64()-0.5))
		if sq < threshold {
			if rng.Float64() >= prm.EmptyProb {
				lots = append(lots, half)
			}
		} else {
			shouldSplit := sq > prm.MinSq/(rng.Float64()*rng.Float64())
			lots = append(lots, subdivide(rng, half, prm, alley, shouldSplit)...)
		}
	}
	return lots
}

// longestEdge returns the index of the corner starting the longest edge.
// Ties keep the first.
func longestEdge(p geom.Polygon) int {
	idx := 0
	best := -1.0
	for i := 0; i < p.Len(); i++ {
		l := p.Pt(i).Dist(p.Pt(i + 1))
		if l > best {
			best = l
			idx = i
		}
	}
	return idx
}

// normal is the mean of three uniform draws, a cheap bell-ish curve
// on [0,1).
func normal(rng *rand.Rand) float64 {
	return (rng.Float64() + rng.Float64() + rng.Float64()) / 3
}

// fuzzy draws around 0.5, with f widening how far from the centre a
// draw can land. f of zero is no draw at all.
func fuzzy(rng *rand.Rand, f float64) float64 {
	if f == 0 {
		return 0.5
	}
	return (1-f)/2 + f*normal(rng)
}
