package ward

import (
	"math"
	"math/rand"

	"github.com/unixpickle/model3d/model2d"

	"github.com/voidshard/townplan/geom"
)

// FitLot tidies a raw terminal lot into something buildable, or rejects
// it outright. Slivers, triangles and lots too small to hold a building
// come back false. Awkward but usable shapes are squared up toward
// their largest inscribed rectangle, and anything still fancier than a
// quad has its shortest edges collapsed until four corners remain.
func FitLot(lot geom.Polygon, minSq float64) (geom.Polygon, bool) {
	if lot.Len() < 3 {
		return geom.Polygon{}, false
	}
	area := lot.Area()
	if area < minSq/4 {
		return geom.Polygon{}, false
	}
	if lot.Len() < 4 {
		return geom.Polygon{}, false
	}

	obb := lot.OBB()
	if len(obb) < 4 {
		return geom.Polygon{}, false
	}
	d01 := obb[0].Dist(obb[1])
	d12 := obb[1].Dist(obb[2])
	if d01 < 1.2 || d12 < 1.2 {
		return geom.Polygon{}, false
	}
	obbArea := d01 * d12
	if obbArea > 0.001 && area/obbArea <= 0.5 {
		return geom.Polygon{}, false
	}

	out := lot
	if !isRectangle(lot, area, obbArea) {
		rect := lot.LIRA()
		if len(rect) == 4 {
			minDim := math.Max(1.2, math.Sqrt(area)/2)
			if rect[0].Dist(rect[1]) >= minDim && rect[1].Dist(rect[2]) >= minDim {
				out = geom.PolygonOf(lot.Arena, rect...)
			}
		}
	}

	if out.Len() > 4 {
		out = collapseToQuad(out)
	}
	return out, true
}

// isRectangle is a fill ratio test, not an exact one. A quad covering
// over three quarters of its obb is close enough to leave alone.
func isRectangle(lot geom.Polygon, area, obbArea float64) bool {
	if lot.Len() != 4 {
		return false
	}
	if obbArea < 0.001 {
		return false
	}
	return area/obbArea > 0.75
}

// collapseToQuad erases the start corner of the currently shortest edge
// until four corners remain.
func collapseToQuad(p geom.Polygon) geom.Polygon {
	pts := p.Coords()
	for len(pts) > 4 {
		shortest := 0
		best := math.Inf(1)
		for i := range pts {
			d := pts[i].Dist(pts[(i+1)%len(pts)])
			if d < best {
				best = d
				shortest = i
			}
		}
		pts = append(pts[:shortest], pts[shortest+1:]...)
	}
	return geom.PolygonOf(p.Arena, pts...)
}

// OrthoBuilding carves block into rectangular structures aligned to the
// block's longest edge, the classic keep and barracks look. fill is the
// chance each terminal slice is kept. Blocks already under minBlockSq
// come back whole.
func OrthoBuilding(rng *rand.Rand, block geom.Polygon, minBlockSq, fill float64) []geom.Polygon {
	if block.Area() < minBlockSq {
		return []geom.Polygon{block.Copy()}
	}

	i := longestEdge(block)
	c1 := block.Pt(i + 1).Sub(block.Pt(i))
	c2 := rot90(c1)

	// Slicing can come back empty when a cut misses or fill skips
	// every piece, so have a few goes before giving up.
	for attempt := 0; attempt < 100; attempt++ {
		parts := orthoSlice(rng, block, c1, c2, minBlockSq, fill)
		if len(parts) > 0 {
			return parts
		}
	}
	return []geom.Polygon{block.Copy()}
}

func orthoSlice(rng *rand.Rand, p geom.Polygon, c1, c2 model2d.Coord, minBlockSq, fill float64) []geom.Polygon {
	i := longestEdge(p)
	v0 := p.Pt(i)
	v := p.Pt(i + 1).Sub(v0)

	ratio := 0.4 + rng.Float64()*0.2
	p1 := lerp(v0, p.Pt(i+1), ratio)

	// Cut along whichever base axis lies closer to perpendicular to
	// the longest edge.
	c := c1
	if math.Abs(v.Dot(c1)) >= math.Abs(v.Dot(c2)) {
		c = c2
	}

	halves := p.Cut(p1, p1.Add(c), 0)
	if len(halves) != 2 {
		return nil
	}

	parts := []geom.Polygon{}
	for _, half := range halves {
		threshold := minBlockSq * math.Pow(2, normal(rng)*2-1)
		if half.Area() < threshold {
			if rng.Float64() < fill {
				parts = append(parts, half)
			}
		} else {
			parts = append(parts, orthoSlice(rng, half, c1, c2, minBlockSq, fill)...)
		}
	}
	return parts
}
