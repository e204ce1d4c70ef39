package wall

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/boljen/go-bitmap"
	"github.com/unixpickle/model3d/model2d"

	"github.com/voidshard/townplan/geom"
)

// ErrNoGateCandidates means the wall outline has no corner a gate could
// go on, ie. every candidate was reserved or no two walled districts
// meet on the outline. A town like that can't be entered, so we refuse
// to build it.
var ErrNoGateCandidates = fmt.Errorf("wall outline has no viable gate corner")

// Wall is a closed defensive ring around a group of districts with
// gates, towers and a per edge flag saying whether that stretch is
// standing wall or an opening.
type Wall struct {
	// Shape is the wall outline. Its vertices are shared with the
	// district polygons it was built around, so smoothing the wall
	// reshapes those districts too.
	Shape geom.Polygon

	// Gates are outline corners roads pass through.
	Gates []geom.Vertex

	// Towers sit on corners that still carry wall, see BuildTowers.
	Towers []geom.Vertex

	segments bitmap.Bitmap
	real     bool
}

// DistrictSplit records a district outside the walls cut in two to
// leave a seam for the road out of a gate. Splits are replayed in
// order: district Outer is replaced by the two Halves, and later
// entries index the list with earlier replacements already applied.
type DistrictSplit struct {
	Outer  int
	Halves []geom.Polygon
}

// Build erects a wall along the given outline, enclosing the given
// districts. Every outline edge starts out as standing wall.
//
// A real wall is smoothed so it doesn't zigzag around every district
// corner, and roads get stubs carved through the districts just beyond
// each gate. Reserved vertices (eg. a citadel's) are never moved and
// never become gates. An imaginary wall (a town limit rather than
// masonry) keeps the outline as given and only picks gates.
func Build(rng *rand.Rand, shape geom.Polygon, enclosed, outer []geom.Polygon, reserved []geom.Vertex, real bool) (*Wall, []DistrictSplit, error) {
	w := &Wall{
		Shape:    shape,
		Gates:    []geom.Vertex{},
		Towers:   []geom.Vertex{},
		segments: bitmap.New(shape.Len()),
		real:     real,
	}
	for i := 0; i < shape.Len(); i++ {
		w.segments.Set(i, true)
	}

	if real && len(enclosed) > 1 {
		w.smooth(reserved, len(enclosed))
	}

	splits, err := w.buildGates(rng, enclosed, outer, reserved)
	if err != nil {
		return nil, nil, err
	}
	return w, splits, nil
}

// smooth relaxes the outline, easing off for larger towns so the wall
// still hugs the districts. New positions are all computed from the old
// ones before any vertex is written.
func (w *Wall) smooth(reserved []geom.Vertex, districts int) {
	factor := math.Min(1, 40/float64(districts))
	moved := make([]model2d.Coord, w.Shape.Len())
	for i, v := range w.Shape.Verts {
		if hasVertex(reserved, v) {
			moved[i] = w.Shape.Arena.At(v)
			continue
		}
		moved[i] = w.Shape.SmoothVertex(v, factor)
	}
	for i, v := range w.Shape.Verts {
		w.Shape.Arena.Set(v, moved[i])
	}
}

// buildGates picks gate corners one by one at random, dropping each
// pick's outline neighbours from the candidate pool so no two gates end
// up side by side.
func (w *Wall) buildGates(rng *rand.Rand, enclosed, outer []geom.Polygon, reserved []geom.Vertex) ([]DistrictSplit, error) {
	entrances := []geom.Vertex{}
	if len(enclosed) > 1 {
		// corners where walled districts meet make natural gates,
		// there's already a street on the inside
		for _, v := range w.Shape.Verts {
			if hasVertex(reserved, v) {
				continue
			}
			shared := 0
			for _, p := range enclosed {
				if p.HasVertex(v) {
					shared++
				}
			}
			if shared > 1 {
				entrances = append(entrances, v)
			}
		}
	} else {
		for _, v := range w.Shape.Verts {
			if !hasVertex(reserved, v) {
				entrances = append(entrances, v)
			}
		}
	}
	if len(entrances) == 0 {
		return nil, ErrNoGateCandidates
	}

	outers := append([]geom.Polygon{}, outer...)
	splits := []DistrictSplit{}

	for len(entrances) > 0 {
		index := rng.Intn(len(entrances))
		gate := entrances[index]
		w.Gates = append(w.Gates, gate)

		if w.real {
			if split, ok := w.roadStub(gate, outers, reserved); ok {
				next := make([]geom.Polygon, 0, len(outers)+1)
				next = append(next, outers[:split.Outer]...)
				next = append(next, split.Halves...)
				next = append(next, outers[split.Outer+1:]...)
				outers = next
				splits = append(splits, split)
			}
		}

		// the candidate list follows the outline, so a pick's list
		// neighbours are its outline neighbours. The ends wrap.
		switch {
		case index == 0:
			if len(entrances) > 2 {
				entrances = entrances[2:]
			} else {
				entrances = entrances[:0]
			}
			if len(entrances) > 0 {
				entrances = entrances[:len(entrances)-1]
			}
		case index == len(entrances)-1:
			entrances = entrances[:index-1]
			if len(entrances) > 0 {
				entrances = entrances[1:]
			}
		default:
			entrances = append(entrances[:index-1], entrances[index+2:]...)
		}

		if len(entrances) < 3 {
			break
		}
	}

	if w.real {
		// settle each gate between its (possibly already settled)
		// neighbours
		for _, gate := range w.Gates {
			w.Shape.Arena.Set(gate, w.Shape.SmoothVertex(gate, 1))
		}
	}

	return splits, nil
}

// roadStub splits the one district just outside a gate in two, leaving
// a seam for the road to follow away from town. Nothing happens when
// the gate opens onto no district, more than one, or a triangle, or
// when the split would leave a degenerate half.
func (w *Wall) roadStub(gate geom.Vertex, outers []geom.Polygon, reserved []geom.Vertex) (DistrictSplit, bool) {
	found := -1
	for i, p := range outers {
		if p.HasVertex(gate) {
			if found != -1 {
				return DistrictSplit{}, false
			}
			found = i
		}
	}
	if found == -1 || outers[found].Len() <= 3 {
		return DistrictSplit{}, false
	}

	arena := w.Shape.Arena
	prev := arena.At(w.Shape.Prev(gate))
	next := arena.At(w.Shape.Next(gate))
	dir := next.Sub(prev)
	out := model2d.Coord{X: dir.Y, Y: -dir.X} // outward normal, the outline runs counter clockwise

	at := arena.At(gate)
	best := geom.Vertex(-1)
	bestDot := math.Inf(-1)
	for _, v := range outers[found].Verts {
		if w.Shape.HasVertex(v) || hasVertex(reserved, v) {
			continue
		}
		d := arena.At(v).Sub(at)
		l := math.Hypot(d.X, d.Y)
		if l <= 0.001 {
			continue
		}
		if dot := d.Dot(out) / l; dot > bestDot {
			bestDot = dot
			best = v
		}
	}
	if best < 0 {
		return DistrictSplit{}, false
	}

	halves := outers[found].Split(gate, best)
	if len(halves) != 2 || halves[0].Len() < 3 || halves[1].Len() < 3 {
		return DistrictSplit{}, false
	}
	return DistrictSplit{Outer: found, Halves: halves}, true
}

// BuildTowers places a tower on every non gate corner that still has
// standing wall on at least one side. Call it after knocking out any
// segments, eg. where the wall runs along a citadel.
func (w *Wall) BuildTowers() {
	w.Towers = w.Towers[:0]
	if !w.real {
		return
	}
	n := w.Shape.Len()
	for i, v := range w.Shape.Verts {
		if hasVertex(w.Gates, v) {
			continue
		}
		if w.segments.Get((i+n-1)%n) || w.segments.Get(i) {
			w.Towers = append(w.Towers, v)
		}
	}
}

// SegmentActive reports whether the outline edge from corner i to
// corner i+1 is standing wall.
func (w *Wall) SegmentActive(i int) bool {
	return w.segments.Get(i)
}

// DeactivateEdge knocks down the wall between two vertices, given in
// either order. Reports whether the outline has such an edge.
func (w *Wall) DeactivateEdge(a, b geom.Vertex) bool {
	i := w.Shape.FindEdge(a, b)
	if i == -1 {
		i = w.Shape.FindEdge(b, a)
	}
	if i == -1 {
		return false
	}
	w.segments.Set(i, false)
	return true
}

// BordersBy reports whether the directed edge v0 -> v1 runs along
// standing wall. Districts inside the walls wind with the outline,
// districts outside wind against it.
func (w *Wall) BordersBy(withinWalls bool, v0, v1 geom.Vertex) bool {
	var i int
	if withinWalls {
		i = w.Shape.FindEdge(v0, v1)
	} else {
		i = w.Shape.FindEdge(v1, v0)
	}
	return i != -1 && w.segments.Get(i)
}

// Borders reports whether any standing wall lies on the district's
// outline.
func (w *Wall) Borders(p geom.Polygon, withinWalls bool) bool {
	n := w.Shape.Len()
	for i := 0; i < n; i++ {
		if !w.segments.Get(i) {
			continue
		}
		v0 := w.Shape.Verts[i]
		v1 := w.Shape.Verts[(i+1)%n]

		found := -1
		if withinWalls {
			found = p.FindEdge(v0, v1)
		} else {
			found = p.FindEdge(v1, v0)
		}
		if found != -1 {
			return true
		}
	}
	return false
}

// Radius is the distance from the origin to the farthest wall corner.
func (w *Wall) Radius() float64 {
	r := 0.0
	for _, v := range w.Shape.Verts {
		c := w.Shape.Arena.At(v)
		r = math.Max(r, math.Hypot(c.X, c.Y))
	}
	return r
}

func hasVertex(vs []geom.Vertex, v geom.Vertex) bool {
	for _, x := range vs {
		if x == v {
			return true
		}
	}
	return false
}
