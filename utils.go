package townplan

import (
	"math"

	"github.com/unixpickle/model3d/model2d"

	"github.com/voidshard/townplan/geom"
	"github.com/voidshard/townplan/internal/ward"
)

// rectCoords returns a w x h rectangle about the origin.
func rectCoords(w, h float64) []model2d.Coord {
	return []model2d.Coord{
		{X: -w / 2, Y: -h / 2},
		{X: w / 2, Y: -h / 2},
		{X: w / 2, Y: h / 2},
		{X: -w / 2, Y: h / 2},
	}
}

// circleCoords returns a 16 sided ring about the origin.
func circleCoords(r float64) []model2d.Coord {
	out := make([]model2d.Coord, 16)
	for i := range out {
		a := float64(i) * 2 * math.Pi / 16
		out[i] = model2d.Coord{X: r * math.Cos(a), Y: r * math.Sin(a)}
	}
	return out
}

// translateCoords shifts every point by the given offset.
func translateCoords(pts []model2d.Coord, by model2d.Coord) []model2d.Coord {
	out := make([]model2d.Coord, len(pts))
	for i, p := range pts {
		out[i] = p.Add(by)
	}
	return out
}

// lerpCoord walks t of the way from a to b.
func lerpCoord(a, b model2d.Coord, t float64) model2d.Coord {
	return a.Add(b.Sub(a).Scale(t))
}

// fitLots squares off raw subdivision output, dropping whatever FitLot
// rejects as a sliver.
func fitLots(raw []geom.Polygon, minSq float64) []geom.Polygon {
	out := make([]geom.Polygon, 0, len(raw))
	for _, lot := range raw {
		if fitted, ok := ward.FitLot(lot, minSq); ok {
			out = append(out, fitted)
		}
	}
	return out
}

// hasVertex returns if v appears in vs.
func hasVertex(vs []geom.Vertex, v geom.Vertex) bool {
	for _, x := range vs {
		if x == v {
			return true
		}
	}
	return false
}

// removeVertex drops the first occurrence of v, keeping order.
func removeVertex(vs []geom.Vertex, v geom.Vertex) []geom.Vertex {
	for i, x := range vs {
		if x == v {
			return append(vs[:i], vs[i+1:]...)
		}
	}
	return vs
}

// removeDistrict drops the first occurrence of d, keeping order.
// Order matters; callers walk these lists best-first.
func removeDistrict(list []*District, d *District) []*District {
	for i, x := range list {
		if x == d {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
