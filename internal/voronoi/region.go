package voronoi

import (
	"math"
	"sort"

	"github.com/unixpickle/model3d/model2d"

	"github.com/voidshard/townplan/geom"
)

// Region is the voronoi cell fanned around a single seed vertex.
// Tris holds refs into the parent diagram's triangle slots; refs left
// stale by later insertions are skipped when the region is read.
type Region struct {
	Seed geom.Vertex
	Tris []TriRef
}

// liveTris resolves r's refs against the diagram, dropping stale ones.
func (v *Voronoi) liveTris(r *Region) []Triangle {
	out := make([]Triangle, 0, len(r.Tris))
	for _, ref := range r.Tris {
		if t, ok := v.live(ref); ok {
			out = append(out, t)
		}
	}
	return out
}

// Polygon returns the boundary of r: the circumcircle centres of its live
// triangles swept by angle around the seed. The returned polygon reuses
// the centre vertices, so cells of bordering seeds share corner handles.
func (v *Voronoi) Polygon(r *Region) geom.Polygon {
	tris := v.liveTris(r)
	seed := v.arena.At(r.Seed)
	sort.Slice(tris, func(i, j int) bool {
		ci := v.arena.At(tris[i].Center).Sub(seed)
		cj := v.arena.At(tris[j].Center).Sub(seed)
		return math.Atan2(ci.Y, ci.X) < math.Atan2(cj.Y, cj.X)
	})

	verts := make([]geom.Vertex, len(tris))
	for i, t := range tris {
		verts[i] = t.Center
	}
	return geom.NewPolygon(v.arena, verts)
}

// Center returns the mean of r's live circumcircle centres, the point a
// lloyd relaxation pass moves the seed to. A region with no live
// triangles keeps its seed.
func (v *Voronoi) Center(r *Region) model2d.Coord {
	tris := v.liveTris(r)
	if len(tris) == 0 {
		return v.arena.At(r.Seed)
	}
	c := model2d.Coord{}
	for _, t := range tris {
		c = c.Add(v.arena.At(t.Center))
	}
	return c.Scale(1.0 / float64(len(tris)))
}

// isReal reports whether none of r's live triangles touch the frame,
// ie. whether the cell is genuine rather than a construction artifact.
func (v *Voronoi) isReal(r *Region) bool {
	for _, ref := range r.Tris {
		t, ok := v.live(ref)
		if !ok {
			continue
		}
		if !v.realTri(t) {
			return false
		}
	}
	return true
}
