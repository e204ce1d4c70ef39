package geom

// FindCircumference traces the outer outline of a group of loops that
// tile an area together.
//
// An edge is on the outside iff no loop in the group holds it wound the
// other way, which is exactly the sharing the arena gives us for free.
// The outer edges are then chained start to end into one loop. Input
// that does not actually tile (gaps, or shapes from different arenas)
// gives back whatever partial chain was walked before it broke, so the
// caller should only hand in a connected group.
func FindCircumference(shapes []Polygon) Polygon {
	if len(shapes) == 0 {
		return Polygon{}
	}
	if len(shapes) == 1 {
		return shapes[0].Copy()
	}

	starts := []Vertex{}
	ends := []Vertex{}

	for _, s := range shapes {
		n := len(s.Verts)
		for i := 0; i < n; i++ {
			a := s.Verts[i]
			b := s.Verts[(i+1)%n]

			outer := true
			for _, other := range shapes {
				if other.FindEdge(b, a) != -1 {
					outer = false
					break
				}
			}
			if outer {
				starts = append(starts, a)
				ends = append(ends, b)
			}
		}
	}

	result := Polygon{Arena: shapes[0].Arena}
	if len(starts) == 0 {
		return result
	}

	index := 0
	for range starts {
		result.Verts = append(result.Verts, starts[index])

		next := -1
		for j, a := range starts {
			if a == ends[index] {
				next = j
				break
			}
		}
		if next <= 0 {
			break
		}
		index = next
	}
	return result
}
