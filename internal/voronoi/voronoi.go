package voronoi

import (
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/model3d/model2d"

	"github.com/voidshard/townplan/geom"
)

// Voronoi is an incremental delaunay triangulation from which we read
// voronoi cells. Construction starts from a rectangular frame large enough
// that every later insertion lands inside some circumcircle; cells touching
// the frame are artifacts of that bootstrap and are never handed out by
// Partitioning.
type Voronoi struct {
	arena *geom.Arena

	slots []triSlot
	free  []int

	seeds   []geom.Vertex
	regions map[geom.Vertex]*Region
	frame   [4]geom.Vertex
}

// triSlot is one reusable triangle slot. Freeing bumps gen so that refs
// held elsewhere are detectably stale.
type triSlot struct {
	tri  Triangle
	gen  int
	live bool
}

// New returns a diagram bootstrapped over the given bounding frame.
func New(a *geom.Arena, minx, miny, maxx, maxy float64) *Voronoi {
	me := &Voronoi{
		arena:   a,
		slots:   []triSlot{},
		free:    []int{},
		seeds:   []geom.Vertex{},
		regions: map[geom.Vertex]*Region{},
	}

	c1 := a.Put(model2d.Coord{X: minx, Y: miny})
	c2 := a.Put(model2d.Coord{X: minx, Y: maxy})
	c3 := a.Put(model2d.Coord{X: maxx, Y: miny})
	c4 := a.Put(model2d.Coord{X: maxx, Y: maxy})
	me.frame = [4]geom.Vertex{c1, c2, c3, c4}

	me.pushTri(newTriangle(a, c1, c2, c3))
	me.pushTri(newTriangle(a, c2, c3, c4))

	return me
}

// Arena returns the vertex arena backing this diagram.
func (v *Voronoi) Arena() *geom.Arena {
	return v.arena
}

// Points returns the inserted seed vertices in insertion order.
// Frame corners are not included.
func (v *Voronoi) Points() []geom.Vertex {
	return append([]geom.Vertex{}, v.seeds...)
}

// RegionFor returns the region fanned around the given seed vertex,
// or nil if the vertex is unknown.
func (v *Voronoi) RegionFor(seed geom.Vertex) *Region {
	return v.regions[seed]
}

// AddPoint inserts c into the triangulation (bowyer-watson): collect the
// triangles whose circumcircle strictly contains c, retriangulate the
// boundary of their union as a fan around c, drop the rest.
// Points inside no circumcircle (ie. outside the frame) are skipped; the
// bool reports whether the point actually went in.
func (v *Voronoi) AddPoint(c model2d.Coord) (geom.Vertex, bool) {
	bad := []TriRef{}
	for i, s := range v.slots {
		if s.live && c.Dist(v.arena.At(s.tri.Center)) < s.tri.R {
			bad = append(bad, TriRef{Index: i, Gen: s.gen})
		}
	}
	if len(bad) == 0 {
		return 0, false
	}

	p := v.arena.Put(c)
	v.seeds = append(v.seeds, p)

	// boundary of the union of bad triangles: directed edges whose
	// reverse doesn't appear in another bad triangle
	ea := []geom.Vertex{}
	eb := []geom.Vertex{}
	for _, ref1 := range bad {
		t1, _ := v.live(ref1)
		e1, e2, e3 := true, true, true
		for _, ref2 := range bad {
			if ref2 == ref1 {
				continue
			}
			t2, _ := v.live(ref2)
			if e1 && t2.hasEdge(t1.B, t1.A) {
				e1 = false
			}
			if e2 && t2.hasEdge(t1.C, t1.B) {
				e2 = false
			}
			if e3 && t2.hasEdge(t1.A, t1.C) {
				e3 = false
			}
			if !(e1 || e2 || e3) {
				break
			}
		}
		if e1 {
			ea = append(ea, t1.A)
			eb = append(eb, t1.B)
		}
		if e2 {
			ea = append(ea, t1.B)
			eb = append(eb, t1.C)
		}
		if e3 {
			ea = append(ea, t1.C)
			eb = append(eb, t1.A)
		}
	}

	// walk the boundary loop, fanning new triangles around p
	if len(ea) > 0 {
		index := 0
		created := 0
		for {
			v.pushTri(newTriangle(v.arena, p, ea[index], eb[index]))
			created++

			next := -1
			for i, a := range ea {
				if a == eb[index] {
					next = i
					break
				}
			}
			// an open boundary means the cavity was degenerate,
			// bail rather than spin
			if next < 0 || created > len(ea) {
				break
			}
			index = next
			if index == 0 {
				break
			}
		}
	}

	for _, ref := range bad {
		v.removeTri(ref)
	}
	return p, true
}

// pushTri stores t & registers it on the regions of its three corners.
func (v *Voronoi) pushTri(t Triangle) TriRef {
	var ref TriRef
	if n := len(v.free); n > 0 {
		i := v.free[n-1]
		v.free = v.free[:n-1]
		v.slots[i].tri = t
		v.slots[i].live = true
		ref = TriRef{Index: i, Gen: v.slots[i].gen}
	} else {
		v.slots = append(v.slots, triSlot{tri: t, live: true})
		ref = TriRef{Index: len(v.slots) - 1}
	}

	for _, c := range [3]geom.Vertex{t.A, t.B, t.C} {
		r, ok := v.regions[c]
		if !ok {
			r = &Region{Seed: c, Tris: []TriRef{}}
			v.regions[c] = r
		}
		r.Tris = append(r.Tris, ref)
	}
	return ref
}

// removeTri frees the slot, bumping its generation, & drops the ref from
// the corner regions.
func (v *Voronoi) removeTri(ref TriRef) {
	if ref.Index < 0 || ref.Index >= len(v.slots) {
		return
	}
	s := &v.slots[ref.Index]
	if !s.live || s.gen != ref.Gen {
		return
	}
	s.live = false
	s.gen++
	v.free = append(v.free, ref.Index)

	for _, c := range [3]geom.Vertex{s.tri.A, s.tri.B, s.tri.C} {
		r, ok := v.regions[c]
		if !ok {
			continue
		}
		for i, tr := range r.Tris {
			if tr == ref {
				// ref order is meaningless, Polygon sorts by angle anyway
				essentials.UnorderedDelete(&r.Tris, i)
				break
			}
		}
	}
}

// live resolves a ref, returning false for stale or freed slots.
func (v *Voronoi) live(ref TriRef) (Triangle, bool) {
	if ref.Index < 0 || ref.Index >= len(v.slots) {
		return Triangle{}, false
	}
	s := v.slots[ref.Index]
	if !s.live || s.gen != ref.Gen {
		return Triangle{}, false
	}
	return s.tri, true
}

// realTri reports whether no corner of t is a frame corner.
func (v *Voronoi) realTri(t Triangle) bool {
	for _, f := range v.frame {
		if t.touches(f) {
			return false
		}
	}
	return true
}

// Triangulation returns the live delaunay triangles clear of the frame.
func (v *Voronoi) Triangulation() []Triangle {
	out := []Triangle{}
	for _, s := range v.slots {
		if s.live && v.realTri(s.tri) {
			out = append(out, s.tri)
		}
	}
	return out
}

// Partitioning returns the genuine voronoi cells in seed insertion order.
// Cells whose fan touches a frame corner are bootstrap artifacts and are
// excluded, as are the frame corners themselves.
func (v *Voronoi) Partitioning() []*Region {
	out := []*Region{}
	for _, seed := range v.seeds {
		r, ok := v.regions[seed]
		if !ok {
			continue
		}
		if v.isReal(r) {
			out = append(out, r)
		}
	}
	return out
}

// Build constructs a diagram over the given points, sizing the frame to
// 1.5x their bounding box so genuine cells stay clear of the frame.
// Points whose insertion finds no containing circumcircle are skipped.
func Build(a *geom.Arena, points []model2d.Coord) *Voronoi {
	minx, miny := 1e+10, 1e+10
	maxx, maxy := -1e+9, -1e+9
	for _, p := range points {
		if p.X < minx {
			minx = p.X
		}
		if p.Y < miny {
			miny = p.Y
		}
		if p.X > maxx {
			maxx = p.X
		}
		if p.Y > maxy {
			maxy = p.Y
		}
	}

	dx := (maxx - minx) * 0.5
	dy := (maxy - miny) * 0.5

	me := New(a, minx-dx/2, miny-dy/2, maxx+dx/2, maxy+dy/2)
	for _, p := range points {
		me.AddPoint(p)
	}
	return me
}

// Relax performs one lloyd relaxation pass: seeds listed in toRelax move
// to their cell centres (nil means every seed) & the diagram is rebuilt
// in the same arena. Seeds whose cells touch the frame stay put, as do
// seeds absent from toRelax; relaxed seeds are re-inserted last.
func (v *Voronoi) Relax(toRelax []geom.Vertex) *Voronoi {
	order := append([]geom.Vertex{}, v.seeds...)
	coords := make([]model2d.Coord, len(order))
	for i, s := range order {
		coords[i] = v.arena.At(s)
	}

	relaxable := map[geom.Vertex]bool{}
	if toRelax == nil {
		for _, s := range v.seeds {
			relaxable[s] = true
		}
	} else {
		for _, s := range toRelax {
			relaxable[s] = true
		}
	}

	for _, r := range v.Partitioning() {
		if !relaxable[r.Seed] {
			continue
		}
		for i, s := range order {
			if s == r.Seed {
				order = append(order[:i], order[i+1:]...)
				coords = append(coords[:i], coords[i+1:]...)
				break
			}
		}
		order = append(order, r.Seed)
		coords = append(coords, v.Center(r))
	}

	return Build(v.arena, coords)
}
