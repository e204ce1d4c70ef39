package townplan

import (
	"math"

	"github.com/unixpickle/model3d/model2d"

	"github.com/voidshard/townplan/geom"
)

// link is one walkable edge out of a junction.
type link struct {
	to     geom.Vertex
	weight float64
}

// topology is the street graph: every district corner is a junction and
// every district edge a possible street. Wall and citadel corners stay
// out of it (bar the gates) so no street sneaks through fortifications.
type topology struct {
	arena *geom.Arena

	// junctions in first-seen order, and the edges out of each
	order []geom.Vertex
	links map[geom.Vertex][]link

	// junctions off the town limit ring, split by which side of it
	// they fall on. A corner pinched between city and countryside
	// districts lands in both.
	inner map[geom.Vertex]bool
	outer map[geom.Vertex]bool

	tree    *model2d.CoordTree
	byCoord map[model2d.Coord]geom.Vertex
}

// newTopology indexes the whole town for pathfinding.
func newTopology(t *Town) *topology {
	top := &topology{
		arena: t.arena,
		links: map[geom.Vertex][]link{},
		inner: map[geom.Vertex]bool{},
		outer: map[geom.Vertex]bool{},
	}

	blocked := map[geom.Vertex]bool{}
	if t.Citadel != nil {
		for _, v := range t.Citadel.Shape.Verts {
			blocked[v] = true
		}
	}
	if t.cityWall != nil {
		for _, v := range t.cityWall.Shape.Verts {
			blocked[v] = true
		}
	}
	for _, g := range t.Gates {
		delete(blocked, g)
	}

	ring := t.border.Shape

	seen := map[geom.Vertex]bool{}
	for _, d := range t.Districts {
		n := d.Shape.Len()
		for i := 0; i < n; i++ {
			v0 := d.Shape.Verts[i]
			v1 := d.Shape.Verts[(i+1)%n]

			if !seen[v0] {
				seen[v0] = true
				top.order = append(top.order, v0)
			}
			if !blocked[v0] && !ring.HasVertex(v0) {
				if d.WithinCity {
					top.inner[v0] = true
				} else {
					top.outer[v0] = true
				}
			}
			if !blocked[v0] && !blocked[v1] {
				top.connect(v0, v1)
			}
		}
	}
	return top
}

// connect links two junctions both ways, once.
func (tp *topology) connect(a, b geom.Vertex) {
	w := tp.arena.At(a).Dist(tp.arena.At(b))
	tp.addLink(a, b, w)
	tp.addLink(b, a, w)
}

func (tp *topology) addLink(from, to geom.Vertex, w float64) {
	for _, l := range tp.links[from] {
		if l.to == to {
			return
		}
	}
	tp.links[from] = append(tp.links[from], link{to: to, weight: w})
}

// buildPath returns the cheapest walk between two junctions that never
// steps on anything in exclude (the start itself is exempt), or nil if
// no such walk exists. Plain dijkstra; towns are small enough that the
// linear open-list scan never shows up anywhere.
func (tp *topology) buildPath(from, to geom.Vertex, exclude map[geom.Vertex]bool) []geom.Vertex {
	closed := map[geom.Vertex]bool{}
	for v := range exclude {
		closed[v] = true
	}

	open := []geom.Vertex{from}
	inOpen := map[geom.Vertex]bool{from: true}
	cameFrom := map[geom.Vertex]geom.Vertex{}
	score := map[geom.Vertex]float64{from: 0}

	for len(open) > 0 {
		best, bestScore := 0, math.Inf(1)
		for i, v := range open {
			if s := score[v]; s < bestScore {
				bestScore = s
				best = i
			}
		}
		current := open[best]
		if current == to {
			return walkBack(cameFrom, current)
		}

		open = append(open[:best], open[best+1:]...)
		inOpen[current] = false
		closed[current] = true

		for _, l := range tp.links[current] {
			if closed[l.to] {
				continue
			}
			tentative := bestScore + l.weight
			if !inOpen[l.to] {
				open = append(open, l.to)
				inOpen[l.to] = true
			} else if tentative >= score[l.to] {
				continue
			}
			cameFrom[l.to] = current
			score[l.to] = tentative
		}
	}
	return nil
}

// walkBack unrolls the cameFrom chain into a start to finish path.
func walkBack(cameFrom map[geom.Vertex]geom.Vertex, last geom.Vertex) []geom.Vertex {
	path := []geom.Vertex{last}
	for {
		prev, ok := cameFrom[last]
		if !ok {
			break
		}
		path = append(path, prev)
		last = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// nearestJunction returns the junction closest to an arbitrary point.
func (tp *topology) nearestJunction(c model2d.Coord) (geom.Vertex, bool) {
	if len(tp.order) == 0 {
		return 0, false
	}
	if tp.tree == nil {
		coords := make([]model2d.Coord, len(tp.order))
		tp.byCoord = map[model2d.Coord]geom.Vertex{}
		for i, v := range tp.order {
			coords[i] = tp.arena.At(v)
			tp.byCoord[coords[i]] = v
		}
		tp.tree = model2d.NewCoordTree(coords)
	}

	nn := tp.tree.KNN(1, c)
	if len(nn) == 0 {
		return 0, false
	}
	return tp.byCoord[nn[0]], true
}
