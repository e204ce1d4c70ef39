package geom

import (
	"math"

	"github.com/unixpickle/model3d/model2d"
)

// Circle is a center and radius, used to fit arcs between road ends.
type Circle struct {
	Center model2d.Coord
	R      float64
}

// CircleThrough fits the circle tangent to direction dir0 at p0 and to
// dir1 at p1, by intersecting the two perpendiculars. When those are
// parallel the midpoint of p0 and p1 serves as the center instead.
func CircleThrough(p0, dir0, p1, dir1 model2d.Coord) Circle {
	perp0 := rot90(dir0)
	perp1 := rot90(dir1)

	t, ok := IntersectLines(p0.X, p0.Y, perp0.X, perp0.Y, p1.X, p1.Y, perp1.X, perp1.Y)
	if !ok {
		c := p0.Mid(p1)
		return Circle{Center: c, R: c.Dist(p0)}
	}

	c := p0.Add(perp0.Scale(t.X))
	return Circle{Center: c, R: c.Dist(p0)}
}

// Arc walks the circle from angle a0 to a1 in numSegments steps and
// returns the points, endpoints included. The sweep takes the short way
// round. Tiny circles and near zero sweeps produce no points.
func (c Circle) Arc(a0, a1 float64, numSegments int) []model2d.Coord {
	if numSegments < 1 {
		numSegments = 1
	}
	if c.R < 0.001 {
		return nil
	}

	delta := a1 - a0
	for delta > math.Pi {
		delta -= 2 * math.Pi
	}
	for delta <= -math.Pi {
		delta += 2 * math.Pi
	}
	if math.Abs(delta) < 0.01 {
		return nil
	}

	pts := make([]model2d.Coord, 0, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		a := a0 + delta*float64(i)/float64(numSegments)
		pts = append(pts, model2d.Coord{
			X: c.Center.X + c.R*math.Cos(a),
			Y: c.Center.Y + c.R*math.Sin(a),
		})
	}
	return pts
}
