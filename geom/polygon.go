package geom

import (
	"math"

	"github.com/unixpickle/model3d/model2d"
)

// Polygon is an ordered closed loop of arena vertices. The closing edge
// from the last vertex back to the first is implied.
//
// Winding is the caller's problem. All of the inward offset math assumes
// counter clockwise loops (interior to the left of each edge) and nothing
// here checks or fixes that for you.
type Polygon struct {
	Arena *Arena
	Verts []Vertex
}

// NewPolygon wraps existing vertex handles in a polygon. The slice is
// used as-is, not copied.
func NewPolygon(a *Arena, verts []Vertex) Polygon {
	return Polygon{Arena: a, Verts: verts}
}

// PolygonOf allocates fresh vertices for the given coords and returns
// the polygon over them.
func PolygonOf(a *Arena, coords ...model2d.Coord) Polygon {
	verts := make([]Vertex, len(coords))
	for i, c := range coords {
		verts[i] = a.Put(c)
	}
	return Polygon{Arena: a, Verts: verts}
}

// Len is the number of corners.
func (p Polygon) Len() int {
	return len(p.Verts)
}

// Pt returns the coord of the i-th corner. The index wraps, so Pt(Len())
// is the first corner again.
func (p Polygon) Pt(i int) model2d.Coord {
	return p.Arena.At(p.Verts[i%len(p.Verts)])
}

// Coords copies out the corner positions in order.
func (p Polygon) Coords() []model2d.Coord {
	out := make([]model2d.Coord, len(p.Verts))
	for i, v := range p.Verts {
		out[i] = p.Arena.At(v)
	}
	return out
}

// Copy returns a polygon with its own vertex slice. The vertices
// themselves are still shared, only the loop ordering is private.
func (p Polygon) Copy() Polygon {
	verts := make([]Vertex, len(p.Verts))
	copy(verts, p.Verts)
	return Polygon{Arena: p.Arena, Verts: verts}
}

// IndexOf returns the position of the handle in the loop, or -1.
func (p Polygon) IndexOf(v Vertex) int {
	for i, w := range p.Verts {
		if w == v {
			return i
		}
	}
	return -1
}

// HasVertex reports whether the loop holds this exact handle.
func (p Polygon) HasVertex(v Vertex) bool {
	return p.IndexOf(v) != -1
}

// Next returns the corner after v. If v is not in the loop the first
// corner is returned, which mirrors how lookups behave on missed finds
// elsewhere in the package, eh. Callers generally know v is present.
func (p Polygon) Next(v Vertex) Vertex {
	return p.Verts[(p.IndexOf(v)+1)%len(p.Verts)]
}

// Prev returns the corner before v.
func (p Polygon) Prev(v Vertex) Vertex {
	return p.Verts[(p.IndexOf(v)+len(p.Verts)-1)%len(p.Verts)]
}

// FindEdge returns the index of the directed edge a->b, or -1 when the
// loop has no such edge. Direction matters: two districts that share a
// border hold the same pair of handles wound opposite ways.
func (p Polygon) FindEdge(a, b Vertex) int {
	n := len(p.Verts)
	for i := 0; i < n; i++ {
		if p.Verts[i] == a && p.Verts[(i+1)%n] == b {
			return i
		}
	}
	return -1
}

// Borders reports whether the two loops share at least one edge.
func (p Polygon) Borders(q Polygon) bool {
	n := len(q.Verts)
	for i := 0; i < n; i++ {
		if p.FindEdge(q.Verts[(i+1)%n], q.Verts[i]) != -1 {
			return true
		}
	}
	return false
}

// IsConvex reports whether every corner turns the same way (left, for
// counter clockwise loops).
func (p Polygon) IsConvex() bool {
	n := len(p.Verts)
	for i := 0; i < n; i++ {
		v0 := p.Pt((i + n - 1) % n)
		v1 := p.Pt(i)
		v2 := p.Pt(i + 1)
		if cross(v1.X-v0.X, v1.Y-v0.Y, v2.X-v1.X, v2.Y-v1.Y) <= 0 {
			return false
		}
	}
	return true
}

// signedArea is the shoelace sum over 2. Positive for counter clockwise
// loops.
func (p Polygon) signedArea() float64 {
	n := len(p.Verts)
	if n < 3 {
		return 0
	}
	s := 0.0
	for i := 0; i < n; i++ {
		a := p.Pt(i)
		b := p.Pt(i + 1)
		s += a.X*b.Y - b.X*a.Y
	}
	return s * 0.5
}

// Area returns the enclosed area regardless of winding. Loops with
// fewer than 3 corners have zero area.
func (p Polygon) Area() float64 {
	return math.Abs(p.signedArea())
}

// Perimeter sums the edge lengths, closing edge included.
func (p Polygon) Perimeter() float64 {
	n := len(p.Verts)
	total := 0.0
	for i := 0; i < n; i++ {
		total += p.Pt(i).Dist(p.Pt(i + 1))
	}
	return total
}

// Compactness is 4*pi*area/perimeter^2. A circle scores 1, a square
// about 0.79, a triangle about 0.6.
func (p Polygon) Compactness() float64 {
	per := p.Perimeter()
	if per == 0 {
		return 0
	}
	return 4 * math.Pi * p.Area() / (per * per)
}

// Center is the plain vertex average. Cheaper than Centroid and good
// enough when the corners are spread evenly.
func (p Polygon) Center() model2d.Coord {
	c := model2d.Coord{}
	for _, v := range p.Verts {
		c = c.Add(p.Arena.At(v))
	}
	return c.Scale(1 / float64(len(p.Verts)))
}

// Centroid is the true area centroid. Degenerate zero-area loops fall
// back to the vertex average.
func (p Polygon) Centroid() model2d.Coord {
	x := 0.0
	y := 0.0
	a := 0.0
	n := len(p.Verts)
	for i := 0; i < n; i++ {
		v0 := p.Pt(i)
		v1 := p.Pt(i + 1)
		f := cross(v0.X, v0.Y, v1.X, v1.Y)
		a += f
		x += (v0.X + v1.X) * f
		y += (v0.Y + v1.Y) * f
	}
	if math.Abs(a) < 1e-12 {
		return p.Center()
	}
	s6 := 1 / (3 * a)
	return model2d.Coord{X: s6 * x, Y: s6 * y}
}

// MinVertexDist is the distance from c to the nearest corner. Nb. this
// is vertex distance, not distance to the outline.
func (p Polygon) MinVertexDist(c model2d.Coord) float64 {
	d := math.Inf(1)
	for _, v := range p.Verts {
		d1 := p.Arena.At(v).Dist(c)
		if d1 < d {
			d = d1
		}
	}
	return d
}

// ContainsCoord tests point-in-polygon with an even-odd ray cast.
// With excludeBoundary false, points sitting on an edge (within a small
// tolerance) count as inside.
func (p Polygon) ContainsCoord(pt model2d.Coord, excludeBoundary bool) bool {
	n := len(p.Verts)
	if n < 3 {
		return false
	}

	inside := false
	for i := 0; i < n; i++ {
		p1 := p.Pt(i)
		p2 := p.Pt(i + 1)

		if !excludeBoundary {
			edge := p2.Sub(p1)
			lenSq := edge.Dot(edge)
			if lenSq > 1e-9 {
				t := pt.Sub(p1).Dot(edge) / lenSq
				if t >= 0 && t <= 1 {
					d := pt.Sub(p1.Add(edge.Scale(t)))
					if d.Dot(d) < 1e-9 {
						return true
					}
				}
			}
		}

		if (p1.Y <= pt.Y && p2.Y > pt.Y) || (p2.Y <= pt.Y && p1.Y > pt.Y) {
			vt := (pt.Y - p1.Y) / (p2.Y - p1.Y)
			if pt.X < p1.X+vt*(p2.X-p1.X) {
				inside = !inside
			}
		}
	}
	return inside
}

// Interpolate returns inverse distance weights of c against every
// corner, normalised to sum to 1. Callers use this to spread a density
// value sitting on the corners across the interior.
func (p Polygon) Interpolate(c model2d.Coord) []float64 {
	sum := 0.0
	dd := make([]float64, len(p.Verts))
	for i, v := range p.Verts {
		d := 1 / p.Arena.At(v).Dist(c)
		sum += d
		dd[i] = d
	}
	for i := range dd {
		dd[i] /= sum
	}
	return dd
}

// SmoothVertex returns where v would land after one smoothing step, a
// weighted average with its two neighbours. f is the weight of v itself,
// so larger f means less movement. The polygon is not modified.
func (p Polygon) SmoothVertex(v Vertex, f float64) model2d.Coord {
	prev := p.Arena.At(p.Prev(v))
	next := p.Arena.At(p.Next(v))
	curr := p.Arena.At(v)
	return model2d.Coord{
		X: prev.X + curr.X*f + next.X,
		Y: prev.Y + curr.Y*f + next.Y,
	}.Scale(1 / (2 + f))
}

// SmoothVertexEq computes one smoothing step for every corner at once,
// from the current positions. The caller decides which of the returned
// coords to write back, since smoothing a shared border in place would
// otherwise feed already-moved neighbours into later corners.
func (p Polygon) SmoothVertexEq(f float64) []model2d.Coord {
	n := len(p.Verts)
	out := make([]model2d.Coord, n)
	v1 := p.Pt(n - 1)
	v2 := p.Pt(0)
	for i := 0; i < n; i++ {
		v0 := v1
		v1 = v2
		v2 = p.Pt(i + 1)
		out[i] = model2d.Coord{
			X: (v0.X + v1.X*f + v2.X) / (2 + f),
			Y: (v0.Y + v1.Y*f + v2.Y) / (2 + f),
		}
	}
	return out
}

// SimplifyTo trims the loop down to n corners, each pass dropping the
// corner spanning the smallest triangle with its neighbours, ie. the one
// whose removal moves the outline least. Corners are dropped from the
// returned copy only, never freed from the arena.
func (p Polygon) SimplifyTo(n int) Polygon {
	out := p.Copy()
	for len(out.Verts) > n && len(out.Verts) > 0 {
		drop := 0
		minMeasure := math.Inf(1)

		v1 := out.Pt(len(out.Verts) - 1)
		v2 := out.Pt(0)
		for i := 0; i < len(out.Verts); i++ {
			v0 := v1
			v1 = v2
			v2 = out.Pt((i + 1) % len(out.Verts))

			measure := math.Abs(v0.X*(v1.Y-v2.Y) + v1.X*(v2.Y-v0.Y) + v2.X*(v0.Y-v1.Y))
			if measure < minMeasure {
				drop = i
				minMeasure = measure
			}
		}
		out.Verts = append(out.Verts[:drop], out.Verts[drop+1:]...)
	}
	return out
}

// Split divides the loop into two along the chord between two existing
// corners. Both halves keep the chord's corners, so the pieces stay
// stitched to each other and to every neighbour of the original.
func (p Polygon) Split(a, b Vertex) []Polygon {
	i1 := p.IndexOf(a)
	i2 := p.IndexOf(b)
	if i1 == -1 || i2 == -1 {
		return []Polygon{p.Copy()}
	}
	return p.SplitAt(i1, i2)
}

// SplitAt is Split by corner index.
func (p Polygon) SplitAt(i1, i2 int) []Polygon {
	if i1 > i2 {
		i1, i2 = i2, i1
	}

	first := Polygon{Arena: p.Arena}
	first.Verts = append(first.Verts, p.Verts[i1:i2+1]...)

	second := Polygon{Arena: p.Arena}
	second.Verts = append(second.Verts, p.Verts[i2:]...)
	second.Verts = append(second.Verts, p.Verts[:i1+1]...)

	return []Polygon{first, second}
}

// Cut slices the loop along the infinite line through c1 and c2.
//
// The line must cross the outline exactly twice, otherwise the original
// loop comes back alone. On success the two crossing points are
// allocated once and shared by both halves. The half lying to the left
// of the cut direction comes first. A positive gap pulls each half back
// from the cut by gap/2, which is how streets get their width.
func (p Polygon) Cut(c1, c2 model2d.Coord, gap float64) []Polygon {
	x1 := c1.X
	y1 := c1.Y
	dx1 := c2.X - x1
	dy1 := c2.Y - y1

	n := len(p.Verts)
	edge1 := 0
	ratio1 := 0.0
	edge2 := 0
	ratio2 := 0.0
	count := 0

	for i := 0; i < n; i++ {
		v0 := p.Pt(i)
		v1 := p.Pt(i + 1)

		t, ok := IntersectLines(x1, y1, dx1, dy1, v0.X, v0.Y, v1.X-v0.X, v1.Y-v0.Y)
		if ok && t.Y >= 0 && t.Y <= 1 {
			switch count {
			case 0:
				edge1 = i
				ratio1 = t.X
			case 1:
				edge2 = i
				ratio2 = t.X
			}
			count++
		}
	}

	if count != 2 {
		return []Polygon{p.Copy()}
	}

	point1 := p.Arena.Put(model2d.Coord{X: x1 + dx1*ratio1, Y: y1 + dy1*ratio1})
	point2 := p.Arena.Put(model2d.Coord{X: x1 + dx1*ratio2, Y: y1 + dy1*ratio2})

	half1 := Polygon{Arena: p.Arena}
	half1.Verts = append(half1.Verts, point1)
	half1.Verts = append(half1.Verts, p.Verts[edge1+1:edge2+1]...)
	half1.Verts = append(half1.Verts, point2)

	half2 := Polygon{Arena: p.Arena}
	half2.Verts = append(half2.Verts, point2)
	half2.Verts = append(half2.Verts, p.Verts[edge2+1:]...)
	half2.Verts = append(half2.Verts, p.Verts[:edge1+1]...)
	half2.Verts = append(half2.Verts, point1)

	if gap > 0 {
		half1 = half1.Peel(len(half1.Verts)-1, gap/2)
		half2 = half2.Peel(len(half2.Verts)-1, gap/2)
	}

	ev := p.Pt(edge1 + 1).Sub(p.Pt(edge1))
	if cross(dx1, dy1, ev.X, ev.Y) > 0 {
		return []Polygon{half1, half2}
	}
	return []Polygon{half2, half1}
}

// Peel insets the single edge starting at corner i, ie. cuts the loop
// along that edge pushed inward by d and keeps the matching half.
func (p Polygon) Peel(i int, d float64) Polygon {
	n := len(p.Verts)
	v1 := p.Pt(i)
	v2 := p.Pt((i + 1) % n)
	nm := scaleTo(rot90(v2.Sub(v1)), d)
	return p.Cut(v1.Add(nm), v2.Add(nm), 0)[0]
}

// Shrink insets every edge inward by its own distance. d must have one
// entry per corner, d[i] belonging to the edge that starts at corner i,
// or the loop is returned unchanged.
//
// Each new corner is the intersection of its two adjacent offset edge
// lines. Near zero length edges leave the corner where it was, parallel
// neighbours fall back to the averaged offset. The output always has
// the same corner count as the input, so a shrink that collapses part
// of the shape can fold over itself. Callers that care check the area.
func (p Polygon) Shrink(d []float64) Polygon {
	n := len(p.Verts)
	if len(d) != n || n < 3 {
		return p.Copy()
	}

	out := Polygon{Arena: p.Arena, Verts: make([]Vertex, 0, n)}
	for i := 0; i < n; i++ {
		prevI := (i + n - 1) % n
		prev := p.Pt(prevI)
		curr := p.Pt(i)
		next := p.Pt(i + 1)

		prevEdge := curr.Sub(prev)
		currEdge := next.Sub(curr)
		prevLen := length(prevEdge)
		currLen := length(currEdge)
		if prevLen < 1e-9 || currLen < 1e-9 {
			out.Verts = append(out.Verts, p.Arena.Put(curr))
			continue
		}

		prevNorm := model2d.Coord{X: -prevEdge.Y / prevLen, Y: prevEdge.X / prevLen}
		currNorm := model2d.Coord{X: -currEdge.Y / currLen, Y: currEdge.X / currLen}

		a := prev.Add(prevNorm.Scale(d[prevI]))
		b := curr.Add(currNorm.Scale(d[i]))

		t, ok := IntersectLines(a.X, a.Y, prevEdge.X, prevEdge.Y, b.X, b.Y, currEdge.X, currEdge.Y)
		if ok {
			out.Verts = append(out.Verts, p.Arena.Put(a.Add(prevEdge.Scale(t.X))))
		} else {
			avg := prevNorm.Scale(d[prevI]).Add(currNorm.Scale(d[i])).Scale(0.5)
			out.Verts = append(out.Verts, p.Arena.Put(curr.Add(avg)))
		}
	}
	return out
}

// ShrinkEq shrinks every edge by the same distance.
func (p Polygon) ShrinkEq(d float64) Polygon {
	dd := make([]float64, len(p.Verts))
	for i := range dd {
		dd[i] = d
	}
	return p.Shrink(dd)
}
