package geom

import (
	"math"

	"github.com/unixpickle/model3d/model2d"
)

// small coordinate helpers shared by the package. model2d covers most of
// what we need, these fill the gaps.

func rot90(v model2d.Coord) model2d.Coord {
	return model2d.Coord{X: -v.Y, Y: v.X}
}

func cross(x1, y1, x2, y2 float64) float64 {
	return x1*y2 - y1*x2
}

func lerp(a, b model2d.Coord, t float64) model2d.Coord {
	return a.Add(b.Sub(a).Scale(t))
}

func length(v model2d.Coord) float64 {
	return math.Hypot(v.X, v.Y)
}

// scaleTo rescales v to the given length. A zero vector stays zero.
func scaleTo(v model2d.Coord, l float64) model2d.Coord {
	ln := length(v)
	if ln < 1e-12 {
		return model2d.Coord{}
	}
	return v.Scale(l / ln)
}

// IntersectLines intersects two infinite lines, each given as an origin
// and a direction. It returns the parameters of the hit along each line
// packed into a coord (X is the parameter on the first line, Y on the
// second). ok is false when the lines are parallel.
func IntersectLines(x1, y1, dx1, dy1, x2, y2, dx2, dy2 float64) (model2d.Coord, bool) {
	d := dx1*dy2 - dy1*dx2
	if math.Abs(d) < 1e-12 {
		return model2d.Coord{}, false
	}
	t2 := (dy1*(x2-x1) - dx1*(y2-y1)) / d
	var t1 float64
	if dx1 != 0 {
		t1 = (x2 - x1 + dx2*t2) / dx1
	} else {
		t1 = (y2 - y1 + dy2*t2) / dy1
	}
	return model2d.Coord{X: t1, Y: t2}, true
}

// RotateCoords rotates every point around the origin by the given angle
// (radians, counter clockwise).
func RotateCoords(pts []model2d.Coord, angle float64) []model2d.Coord {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	out := make([]model2d.Coord, len(pts))
	for i, p := range pts {
		out[i] = model2d.Coord{
			X: p.X*cos - p.Y*sin,
			Y: p.X*sin + p.Y*cos,
		}
	}
	return out
}
