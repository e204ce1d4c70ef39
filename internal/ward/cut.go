package ward

import (
	"math"
	"sort"

	"github.com/unixpickle/model3d/model2d"

	"github.com/voidshard/townplan/geom"
)

// obbCut slices p across the long axis of its oriented bounding box.
// The cut sits near the centroid's projection onto that axis, nudged by
// jitter, clamped away from the ends so neither half comes out a
// sliver, then tilted by angle b. Returns nil when the cut misses.
func obbCut(p geom.Polygon, jitter, b, gap float64) []geom.Polygon {
	obb := p.OBB()
	if len(obb) < 4 {
		return nil
	}

	corner := obb[0]
	ax1 := obb[1].Sub(corner)
	ax2 := obb[3].Sub(corner)

	h := ax1
	if length(ax2) > length(ax1) {
		h = ax2
	}
	hLen := length(h)
	if hLen < 0.001 {
		return nil
	}

	proj := p.Centroid().Sub(corner).Dot(h) / (hLen * hLen)
	ratio := (proj + jitter) / 2
	if ratio < 0.2 {
		ratio = 0.2
	}
	if ratio > 0.8 {
		ratio = 0.8
	}

	c1 := corner.Add(h.Scale(ratio))
	vx := h.X*math.Cos(b) - h.Y*math.Sin(b)
	vy := h.X*math.Sin(b) + h.Y*math.Cos(b)
	c2 := model2d.Coord{X: c1.X - vy, Y: c1.Y + vx}

	halves := p.Cut(c1, c2, gap)
	if len(halves) < 2 {
		return nil
	}
	return halves
}

// bisect cuts p across the edge starting at vertex, at ratio along it
// and tilted by angle b. This is the fallback for shapes whose obb axis
// misses the interior. Returns nil when the cut misses.
func bisect(p geom.Polygon, vertex geom.Vertex, ratio, b, gap float64) []geom.Polygon {
	v0 := p.Arena.At(vertex)
	v1 := p.Arena.At(p.Next(vertex))
	d := v1.Sub(v0)

	p1 := lerp(v0, v1, ratio)
	vx := d.X*math.Cos(b) - d.Y*math.Sin(b)
	vy := d.X*math.Sin(b) + d.Y*math.Cos(b)
	p2 := model2d.Coord{X: p1.X - vy, Y: p1.Y + vx}

	halves := p.Cut(p1, p2, gap)
	if len(halves) < 2 {
		return nil
	}
	return halves
}

// Radial fans block into triangular sectors around center, one per
// boundary edge. gap insets the two spoke sides of each sector so paths
// show between them.
func Radial(block geom.Polygon, center model2d.Coord, gap float64) []geom.Polygon {
	n := block.Len()
	hub := block.Arena.Put(center)

	sectors := make([]geom.Polygon, 0, n)
	for i := 0; i < n; i++ {
		sector := geom.NewPolygon(block.Arena, []geom.Vertex{
			hub, block.Verts[i], block.Verts[(i+1)%n],
		})
		if gap > 0 {
			sector = sector.Shrink([]float64{gap / 2, 0, gap / 2})
		}
		sectors = append(sectors, sector)
	}
	return sectors
}

// SemiRadial fans block from its corner nearest the centroid. Edges
// touching the hub are skipped, and a sector's spoke is only inset when
// it crosses the interior rather than running along the boundary.
func SemiRadial(block geom.Polygon, gap float64) []geom.Polygon {
	centroid := block.Centroid()
	hub := block.Verts[0]
	best := math.Inf(1)
	for _, v := range block.Verts {
		d := block.Arena.At(v).Dist(centroid)
		if d < best {
			best = d
			hub = v
		}
	}

	gap /= 2
	n := block.Len()
	sectors := []geom.Polygon{}
	for i := 0; i < n; i++ {
		v0 := block.Verts[i]
		v1 := block.Verts[(i+1)%n]
		if v0 == hub || v1 == hub {
			continue
		}
		sector := geom.NewPolygon(block.Arena, []geom.Vertex{hub, v0, v1})
		if gap > 0 {
			d := []float64{0, 0, 0}
			if block.FindEdge(hub, v0) == -1 {
				d[0] = gap
			}
			if block.FindEdge(v1, hub) == -1 {
				d[2] = gap
			}
			sector = sector.Shrink(d)
		}
		sectors = append(sectors, sector)
	}
	return sectors
}

// Ring peels a strip of the given thickness off every boundary edge,
// leaving the courtyard in the middle open. Short edges peel first so
// the long strips keep the corners.
func Ring(block geom.Polygon, thickness float64) []geom.Polygon {
	type slice struct {
		p1, p2 model2d.Coord
		len    float64
	}

	n := block.Len()
	slices := make([]slice, 0, n)
	for i := 0; i < n; i++ {
		v0 := block.Pt(i)
		v1 := block.Pt(i + 1)
		v := v1.Sub(v0)
		nm := scaleTo(rot90(v), thickness)
		slices = append(slices, slice{p1: v0.Add(nm), p2: v1.Add(nm), len: length(v)})
	}
	sort.Slice(slices, func(i, j int) bool { return slices[i].len < slices[j].len })

	strips := []geom.Polygon{}
	core := block
	for _, s := range slices {
		// Cut keeps the interior side first, so the strip between the
		// edge and the offset line is the second half when it exists.
		halves := core.Cut(s.p1, s.p2, 0)
		core = halves[0]
		if len(halves) == 2 {
			strips = append(strips, halves[1])
		}
	}
	return strips
}

func length(v model2d.Coord) float64 {
	return math.Hypot(v.X, v.Y)
}

func rot90(v model2d.Coord) model2d.Coord {
	return model2d.Coord{X: -v.Y, Y: v.X}
}

func scaleTo(v model2d.Coord, l float64) model2d.Coord {
	d := length(v)
	if d == 0 {
		return v
	}
	return v.Scale(l / d)
}

func lerp(a, b model2d.Coord, t float64) model2d.Coord {
	return model2d.Coord{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}
