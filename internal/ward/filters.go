package ward

import (
	"math"
	"math/rand"

	"github.com/unixpickle/model3d/model2d"

	"github.com/voidshard/townplan/geom"
)

// EdgeKind says what a district border edge runs along, which decides
// how far buildings keep back from it.
type EdgeKind int

const (
	// EdgeOpen faces open country outside the town proper.
	EdgeOpen EdgeKind = iota
	// EdgeInner borders another district inside the town.
	EdgeInner
	// EdgeStreet runs along the plaza or an artery.
	EdgeStreet
	// EdgeWall hugs the curtain wall.
	EdgeWall
)

// Widths holds the clearances reserved for the three street grades.
type Widths struct {
	MainStreet    float64
	RegularStreet float64
	Alley         float64
}

// InsetBlock pulls a district shape back from each of its border edges,
// half a street width per side, leaving the buildable block. kinds[i]
// classifies the edge starting at corner i; missing entries count as
// open. Convex shapes shrink exactly, concave ones fall back to the
// clip based buffer.
func InsetBlock(shape geom.Polygon, kinds []EdgeKind, w Widths) geom.Polygon {
	insets := make([]float64, shape.Len())
	for i := range insets {
		k := EdgeOpen
		if i < len(kinds) {
			k = kinds[i]
		}
		switch k {
		case EdgeWall, EdgeStreet:
			insets[i] = w.MainStreet / 2
		case EdgeInner:
			insets[i] = w.RegularStreet / 2
		default:
			insets[i] = w.Alley / 2
		}
	}

	if shape.IsConvex() {
		return shape.Shrink(insets)
	}
	return shape.Buffer(insets)
}

// FilterInner drops lots that never touch the block outline. Lots
// landlocked behind their neighbours have no street access and read as
// noise when drawn.
func FilterInner(block geom.Polygon, lots []geom.Polygon) []geom.Polygon {
	kept := []geom.Polygon{}
	for _, lot := range lots {
		if touchesOutline(block, lot) {
			kept = append(kept, lot)
		}
	}
	return kept
}

// touchesOutline reports whether any corner of lot sits within a tenth
// of a unit of the block boundary.
func touchesOutline(block, lot geom.Polygon) bool {
	n := block.Len()
	for i := 0; i < lot.Len(); i++ {
		c := lot.Pt(i)
		for j := 0; j < n; j++ {
			a := block.Pt(j)
			d := block.Pt(j + 1).Sub(a)
			l2 := d.Dot(d)
			if l2 == 0 {
				continue
			}
			t := c.Sub(a).Dot(d) / l2
			if t < 0 || t > 1 {
				continue
			}
			pr := a.Add(d.Scale(t))
			dx := c.X - pr.X
			dy := c.Y - pr.Y
			if dx*dx+dy*dy < 0.01 {
				return true
			}
		}
	}
	return false
}

// VertexKind classifies a district corner for density purposes.
type VertexKind int

const (
	// VertexOpen touches at least one district outside the town.
	VertexOpen VertexKind = iota
	// VertexInner touches only in-town districts.
	VertexInner
	// VertexGate carries a town gate.
	VertexGate
)

// FilterOutskirts thins lots in districts beyond the walls, where
// houses cluster along whatever is worth living next to and peter out
// everywhere else. edgeFactor[i] weights the edge starting at corner i:
// full weight for roads and edges shared with walled districts, less
// for plain in-town neighbours, zero or missing for open country.
// kinds supplies per corner density, gates drawing the most. A lot's
// survival odds scale with how close it sits to a weighted edge.
func FilterOutskirts(rng *rand.Rand, shape geom.Polygon, lots []geom.Polygon, edgeFactor []float64, kinds []VertexKind) []geom.Polygon {
	type popEdge struct {
		a, d model2d.Coord
		max  float64
	}

	n := shape.Len()
	edges := []popEdge{}
	for i := 0; i < n; i++ {
		f := 0.0
		if i < len(edgeFactor) {
			f = edgeFactor[i]
		}
		if f <= 0 {
			continue
		}

		a := shape.Pt(i)
		d := shape.Pt(i + 1).Sub(a)

		// Deepest the district reaches away from this edge, scaled by
		// its weight. Lot distances are judged against this.
		max := 0.0
		for j := 0; j < n; j++ {
			if j == i || j == (i+1)%n {
				continue
			}
			dist := distToLine(a, d, shape.Pt(j)) * f
			if dist > max {
				max = dist
			}
		}
		edges = append(edges, popEdge{a: a, d: d, max: max})
	}

	density := make([]float64, n)
	for i := 0; i < n; i++ {
		k := VertexOpen
		if i < len(kinds) {
			k = kinds[i]
		}
		switch k {
		case VertexGate:
			density[i] = 1.0
		case VertexInner:
			density[i] = 2 * rng.Float64()
		}
	}

	kept := []geom.Polygon{}
	for _, lot := range lots {
		minDist := 1.0
		for _, e := range edges {
			for i := 0; i < lot.Len(); i++ {
				ratio := 1.0
				if e.max > 0 {
					ratio = distToLine(e.a, e.d, lot.Pt(i)) / e.max
				}
				if ratio < minDist {
					minDist = ratio
				}
			}
		}

		w := shape.Interpolate(lot.Center())
		p := 0.0
		for j, dj := range density {
			if j < len(w) {
				p += dj * w[j]
			}
		}
		// p of zero sends minDist to +Inf and the lot is dropped; a ward
		// with no populated corner grows no houses at all
		minDist /= p

		if fuzzy(rng, 1.0) > minDist {
			kept = append(kept, lot)
		}
	}
	return kept
}

// distToLine is the perpendicular distance from c to the infinite line
// through a with direction d.
func distToLine(a, d, c model2d.Coord) float64 {
	l := length(d)
	if l == 0 {
		return c.Dist(a)
	}
	return math.Abs(d.X*(c.Y-a.Y)-d.Y*(c.X-a.X)) / l
}
