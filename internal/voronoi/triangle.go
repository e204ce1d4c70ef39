package voronoi

import (
	"math"

	"github.com/unixpickle/model3d/model2d"

	"github.com/voidshard/townplan/geom"
)

// TriRef addresses a triangle slot at a particular generation.
// Refs go stale when their triangle is removed; readers check the
// generation & skip rather than dereference a dead slot.
type TriRef struct {
	Index int
	Gen   int
}

// Triangle is one delaunay triangle. The circumcircle centre is allocated
// in the arena exactly once, so every cell fanned around one of our
// corners shares the same centre vertex -- that sharing is what lets
// downstream cuts keep neighbouring cells stitched together.
type Triangle struct {
	A, B, C geom.Vertex

	Center geom.Vertex
	R      float64
}

// newTriangle builds a triangle over the given arena vertices, fixing the
// winding so that directed edges of adjacent triangles run in opposite
// directions.
func newTriangle(a *geom.Arena, v1, v2, v3 geom.Vertex) Triangle {
	p1 := a.At(v1)
	p2 := a.At(v2)
	p3 := a.At(v3)

	s := (p2.X-p1.X)*(p2.Y+p1.Y) + (p3.X-p2.X)*(p3.Y+p2.Y) + (p1.X-p3.X)*(p1.Y+p3.Y)
	b, c := v2, v3
	if s <= 0 {
		b, c = v3, v2
	}

	center, r := circumcircle(p1, p2, p3)
	return Triangle{A: v1, B: b, C: c, Center: a.Put(center), R: r}
}

// hasEdge reports whether the directed edge x -> y belongs to this triangle.
func (t Triangle) hasEdge(x, y geom.Vertex) bool {
	return (t.A == x && t.B == y) || (t.B == x && t.C == y) || (t.C == x && t.A == y)
}

// touches reports whether v is a corner of this triangle.
func (t Triangle) touches(v geom.Vertex) bool {
	return t.A == v || t.B == v || t.C == v
}

// circumcircle returns the centre & radius of the circle through the three
// given points. Near colinear points have no finite circumcircle; we hand
// back the vertex mean & the largest vertex distance instead, which is
// meaningless but keeps the numbers finite.
func circumcircle(p1, p2, p3 model2d.Coord) (model2d.Coord, float64) {
	d := 2 * (p1.X*(p2.Y-p3.Y) + p2.X*(p3.Y-p1.Y) + p3.X*(p1.Y-p2.Y))
	if math.Abs(d) < 1e-12 {
		c := p1.Add(p2).Add(p3).Scale(1.0 / 3)
		return c, math.Max(c.Dist(p1), math.Max(c.Dist(p2), c.Dist(p3)))
	}

	q1 := p1.X*p1.X + p1.Y*p1.Y
	q2 := p2.X*p2.X + p2.Y*p2.Y
	q3 := p3.X*p3.X + p3.Y*p3.Y

	c := model2d.Coord{
		X: (q1*(p2.Y-p3.Y) + q2*(p3.Y-p1.Y) + q3*(p1.Y-p2.Y)) / d,
		Y: (q1*(p3.X-p2.X) + q2*(p1.X-p3.X) + q3*(p2.X-p1.X)) / d,
	}
	return c, c.Dist(p1)
}
