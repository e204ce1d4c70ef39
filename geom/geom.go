// Package geom holds the flat 2d geometry used to carve up a town plan.
//
// Everything here works on polygons whose corners live in a shared Arena.
// That sharing is the point: districts cut from the same diagram reuse the
// same corner handles, so nudging one corner (say, when smoothing a wall)
// moves every shape that touches it. Operations that invent new corners
// (cuts, insets, clips) allocate them in the same arena so the invariant
// survives further slicing.
package geom

import (
	"github.com/unixpickle/model3d/model2d"
)

// Vertex is a stable handle to a point in an Arena.
// Two polygons holding the same Vertex share that corner, ie. comparing
// handles with == tells you whether two shapes genuinely touch, which
// float comparison never reliably does.
type Vertex int

// Arena owns the backing points for a family of polygons.
// Handles are never invalidated; the arena only grows.
type Arena struct {
	pts []model2d.Coord
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{pts: []model2d.Coord{}}
}

// Put adds a point and returns its handle.
func (a *Arena) Put(c model2d.Coord) Vertex {
	a.pts = append(a.pts, c)
	return Vertex(len(a.pts) - 1)
}

// At returns the current position of a vertex.
func (a *Arena) At(v Vertex) model2d.Coord {
	return a.pts[v]
}

// Set moves a vertex. Every polygon holding the handle sees the move.
func (a *Arena) Set(v Vertex, c model2d.Coord) {
	a.pts[v] = c
}

// Len reports how many vertices have been allocated so far.
func (a *Arena) Len() int {
	return len(a.pts)
}
