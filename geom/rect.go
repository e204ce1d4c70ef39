package geom

import (
	"math"

	"github.com/unixpickle/model3d/model2d"
)

// OBB returns the corners of a minimum area oriented bounding box, found
// by trying each edge direction as the box orientation. Corners come
// back as (min,min) (max,min) (max,max) (min,max) in the box's own frame,
// rotated into world space. Degenerate loops get their own coords back.
func (p Polygon) OBB() []model2d.Coord {
	n := len(p.Verts)
	if n < 3 {
		return p.Coords()
	}

	coords := p.Coords()
	var best []model2d.Coord
	bestArea := math.Inf(1)

	for i := 0; i < n; i++ {
		e := p.Pt(i + 1).Sub(p.Pt(i))
		if length(e) < 1e-9 {
			continue
		}
		angle := math.Atan2(e.Y, e.X)
		rot := RotateCoords(coords, -angle)

		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, c := range rot {
			minX = math.Min(minX, c.X)
			maxX = math.Max(maxX, c.X)
			minY = math.Min(minY, c.Y)
			maxY = math.Max(maxY, c.Y)
		}

		area := (maxX - minX) * (maxY - minY)
		if area < bestArea {
			bestArea = area
			best = RotateCoords([]model2d.Coord{
				{X: minX, Y: minY},
				{X: maxX, Y: minY},
				{X: maxX, Y: maxY},
				{X: minX, Y: maxY},
			}, angle)
		}
	}

	if best == nil {
		return coords
	}
	return best
}

// LIR finds a large rectangle inscribed in the loop, sitting on the edge
// that starts at corner edgeIdx. It rotates the loop so that edge lies
// flat, then samples ten candidate heights off the edge, bounding each
// candidate's width by where the outline crosses that height. Heuristic,
// not optimal, and deliberately biased toward the chosen edge, which is
// what makes building fronts line up along their street.
//
// Degenerate edges return the loop's own coords unchanged.
func (p Polygon) LIR(edgeIdx int) []model2d.Coord {
	pts := p.Coords()
	n := len(pts)
	if n < 3 || edgeIdx >= n {
		return pts
	}

	nextIdx := (edgeIdx + 1) % n
	edge := pts[nextIdx].Sub(pts[edgeIdx])
	if length(edge) < 0.0001 {
		return pts
	}

	angle := math.Atan2(edge.Y, edge.X)
	rot := RotateCoords(pts, -angle)

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range rot {
		minX = math.Min(minX, c.X)
		maxX = math.Max(maxX, c.X)
		minY = math.Min(minY, c.Y)
		maxY = math.Max(maxY, c.Y)
	}

	baseY := rot[edgeIdx].Y
	baseX1 := rot[edgeIdx].X
	baseX2 := rot[nextIdx].X
	if baseX1 > baseX2 {
		baseX1, baseX2 = baseX2, baseX1
	}
	edgeMidX := (baseX1 + baseX2) / 2

	bestArea := 0.0
	bestLeft, bestRight := baseX1, baseX2
	bestTop, bestBottom := baseY, baseY

	// which side of the base edge is inside the shape
	testOffset := (maxY - minY) * 0.01
	insideY := baseY + testOffset
	if insideY > maxY || insideY < minY {
		insideY = baseY - testOffset
	}

	const samples = 10
	for s := 1; s <= samples; s++ {
		t := float64(s) / samples
		var testY float64
		if insideY > baseY {
			testY = baseY + t*(maxY-baseY)
		} else {
			testY = baseY - t*(baseY-minY)
		}

		leftBound := minX
		rightBound := maxX
		for i := 0; i < n; i++ {
			p1 := rot[i]
			p2 := rot[(i+1)%n]
			if (p1.Y <= testY && p2.Y > testY) || (p2.Y <= testY && p1.Y > testY) {
				intersectX := p1.X + (testY-p1.Y)*(p2.X-p1.X)/(p2.Y-p1.Y)
				if intersectX < edgeMidX {
					leftBound = math.Max(leftBound, intersectX)
				} else {
					rightBound = math.Min(rightBound, intersectX)
				}
			}
		}

		leftBound = math.Max(leftBound, baseX1)
		rightBound = math.Min(rightBound, baseX2)

		width := rightBound - leftBound
		height := math.Abs(testY - baseY)
		area := width * height

		if area > bestArea && width > 0 && height > 0 {
			bestArea = area
			bestLeft = leftBound
			bestRight = rightBound
			if insideY > baseY {
				bestBottom = baseY
				bestTop = testY
			} else {
				bestTop = baseY
				bestBottom = testY
			}
		}
	}

	return RotateCoords([]model2d.Coord{
		{X: bestLeft, Y: bestBottom},
		{X: bestRight, Y: bestBottom},
		{X: bestRight, Y: bestTop},
		{X: bestLeft, Y: bestTop},
	}, angle)
}

// LIRA runs LIR against every edge and keeps the biggest rectangle.
func (p Polygon) LIRA() []model2d.Coord {
	if len(p.Verts) < 3 {
		return p.Coords()
	}

	bestArea := -1.0
	var best []model2d.Coord

	for i := range p.Verts {
		rect := p.LIR(i)
		area := coordsArea(rect)
		if area > bestArea {
			bestArea = area
			best = rect
		}
	}

	if len(best) == 0 {
		return p.Coords()
	}
	return best
}

// coordsArea is the absolute shoelace area of a raw coord loop.
func coordsArea(pts []model2d.Coord) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	s := 0.0
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		s += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(s) * 0.5
}
