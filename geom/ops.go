package geom

import (
	"math"

	"github.com/unixpickle/model3d/model2d"
)

// Clip runs Sutherland-Hodgman, cutting subject down to the part inside
// clip. With subtract set the per-edge test is flipped, which trims away
// the part inside clip instead. Nb. the flipped mode is only a fair
// approximation of a true difference (it clips against each edge's far
// half plane in turn, so concave bites can over-trim), but it is cheap
// and fine for the convex-ish shapes the generator feeds it.
//
// New corners are allocated fresh, nothing is shared with the inputs.
// Results with fewer than 3 corners come back empty.
func Clip(subject, clip Polygon, subtract bool) Polygon {
	if len(subject.Verts) < 3 || len(clip.Verts) < 3 {
		return Polygon{Arena: subject.Arena}
	}

	output := subject.Coords()
	cn := len(clip.Verts)
	for ci := 0; ci < cn; ci++ {
		if len(output) == 0 {
			break
		}
		input := output
		output = []model2d.Coord{}

		e1 := clip.Pt(ci)
		e2 := clip.Pt(ci + 1)
		edge := e2.Sub(e1)
		normal := rot90(edge)
		if subtract {
			normal = model2d.Coord{X: edge.Y, Y: -edge.X}
		}

		previous := input[len(input)-1]
		prevDist := normal.Dot(previous.Sub(e1))
		for _, current := range input {
			currDist := normal.Dot(current.Sub(e1))
			if currDist >= 0 {
				if prevDist < 0 {
					t := prevDist / (prevDist - currDist)
					output = append(output, lerp(previous, current, t))
				}
				output = append(output, current)
			} else if prevDist >= 0 {
				t := prevDist / (prevDist - currDist)
				output = append(output, lerp(previous, current, t))
			}
			previous = current
			prevDist = currDist
		}
	}

	if len(output) < 3 {
		return Polygon{Arena: subject.Arena}
	}
	return PolygonOf(subject.Arena, output...)
}

// Buffer offsets every edge inward by its own distance, like Shrink, but
// survives concave loops. The offset edges are laid end to end, any self
// intersections get resolved by splicing the crossing point into both
// edges, and the largest resulting piece wins. Edges with a zero distance
// keep their original shared corners.
func (p Polygon) Buffer(d []float64) Polygon {
	n := len(p.Verts)
	if len(d) != n || n < 3 {
		return p.Copy()
	}

	q := Polygon{Arena: p.Arena}
	for i := 0; i < n; i++ {
		v0 := p.Verts[i]
		v1 := p.Verts[(i+1)%n]
		if d[i] == 0 {
			q.Verts = append(q.Verts, v0, v1)
		} else {
			c0 := p.Arena.At(v0)
			c1 := p.Arena.At(v1)
			nm := scaleTo(rot90(c1.Sub(c0)), d[i])
			q.Verts = append(q.Verts, p.Arena.Put(c0.Add(nm)), p.Arena.Put(c1.Add(nm)))
		}
	}

	// splice crossing points into both edges. The same handle lands in
	// two spots, which is what lets the part walk below jump between
	// the pieces of a figure-eight.
	const delta = 0.000001
	wasCut := true
	lastEdge := 0
	for iter := 0; wasCut && iter < 1000; iter++ {
		wasCut = false
		qn := len(q.Verts)
		for edgeI := lastEdge; edgeI+2 < qn && !wasCut; edgeI++ {
			lastEdge = edgeI
			p11 := q.Pt(edgeI)
			p12 := q.Pt(edgeI + 1)

			jEnd := qn
			if edgeI == 0 {
				jEnd = qn - 1
			}
			for j := edgeI + 2; j < jEnd; j++ {
				p21 := q.Pt(j)
				p22 := q.Pt((j + 1) % qn)

				t, ok := IntersectLines(
					p11.X, p11.Y, p12.X-p11.X, p12.Y-p11.Y,
					p21.X, p21.Y, p22.X-p21.X, p22.Y-p21.Y)
				if ok && t.X > delta && t.X < 1-delta && t.Y > delta && t.Y < 1-delta {
					pn := p.Arena.Put(lerp(p11, p12, t.X))

					verts := make([]Vertex, 0, qn+2)
					verts = append(verts, q.Verts[:edgeI+1]...)
					verts = append(verts, pn)
					verts = append(verts, q.Verts[edgeI+1:j+1]...)
					verts = append(verts, pn)
					verts = append(verts, q.Verts[j+1:]...)
					q.Verts = verts

					wasCut = true
					break
				}
			}
		}
	}

	// walk out the simple parts and keep the biggest correctly wound one
	regular := map[int]bool{}
	for i := range q.Verts {
		regular[i] = true
	}

	best := Polygon{Arena: p.Arena}
	bestSq := math.Inf(-1)

	qn := len(q.Verts)
	for safety := qn * 2; len(regular) > 0 && safety > 0; safety-- {
		start := -1
		for i := 0; i < qn; i++ {
			if regular[i] {
				start = i
				break
			}
		}

		part := Polygon{Arena: p.Arena}
		curr := start
		for inner := qn * 2; inner > 0; inner-- {
			part.Verts = append(part.Verts, q.Verts[curr])
			delete(regular, curr)

			next := (curr + 1) % qn
			next1 := q.IndexOf(q.Verts[next])
			if next1 == next {
				next1 = lastIndexOf(q.Verts, q.Verts[next])
			}
			if next1 == -1 {
				curr = next
			} else {
				curr = next1
			}
			if curr == start || len(regular) == 0 {
				break
			}
		}

		if s := part.signedArea(); s > bestSq {
			bestSq = s
			best = part
		}
	}

	return best
}

func lastIndexOf(verts []Vertex, v Vertex) int {
	for i := len(verts) - 1; i >= 0; i-- {
		if verts[i] == v {
			return i
		}
	}
	return -1
}

// Stripe widens a polyline into a closed outline, the shape of a road
// drawn along it. Joints get mitered, and capExtend > 0 pushes both end
// caps outward along the line by that fraction of the half width.
// Lines with fewer than 2 points produce nothing.
func Stripe(line []model2d.Coord, width, capExtend float64) []model2d.Coord {
	if len(line) < 2 {
		return nil
	}
	hw := width / 2

	left := []model2d.Coord{}
	right := []model2d.Coord{}

	dir := scaleTo(line[1].Sub(line[0]), 1)
	perp := model2d.Coord{X: -dir.Y * hw, Y: dir.X * hw}
	p0 := line[0]
	if capExtend > 0 {
		p0 = p0.Sub(dir.Scale(hw * capExtend))
	}
	left = append(left, p0.Sub(perp))
	right = append(right, p0.Add(perp))

	for i := 1; i < len(line)-1; i++ {
		dir1 := scaleTo(line[i].Sub(line[i-1]), 1)
		dir2 := scaleTo(line[i+1].Sub(line[i]), 1)
		dot := dir1.Dot(dir2)
		miter := scaleTo(rot90(dir1.Add(dir2)), hw*math.Sqrt(2/(1+dot)))
		left = append(left, line[i].Sub(miter))
		right = append(right, line[i].Add(miter))
	}

	n := len(line)
	dir = scaleTo(line[n-1].Sub(line[n-2]), 1)
	perp = model2d.Coord{X: -dir.Y * hw, Y: dir.X * hw}
	pn := line[n-1]
	if capExtend > 0 {
		pn = pn.Add(dir.Scale(hw * capExtend))
	}
	left = append(left, pn.Sub(perp))
	right = append(right, pn.Add(perp))

	for i := len(right) - 1; i >= 0; i-- {
		left = append(left, right[i])
	}
	return left
}
