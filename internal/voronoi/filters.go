package voronoi

import (
	"github.com/unixpickle/model3d/model2d"
)

// CandidateFilter accepts or rejects a candidate point based purely on
// the point itself.
// These filters are run before SeedFilter(s) which naturally require
// us to iterate every accepted seed.
type CandidateFilter func(c model2d.Coord) bool

// SeedFilter is a filter for a candidate point that is run against every
// seed currently in the builder.
// Ie. we must 'accept' the candidate when compared with every existing
// seed that we've previously accepted.
type SeedFilter func(c, seed model2d.Coord) bool

// MinDistance ensures that a candidate point is at least `dist`
// away from every other seed.
func MinDistance(dist float64) SeedFilter {
	return func(c, seed model2d.Coord) bool {
		return c.Dist(seed) >= dist
	}
}

// InBox ensures a candidate point stays inside the given rectangle.
func InBox(min, max model2d.Coord) CandidateFilter {
	return func(c model2d.Coord) bool {
		return c.X >= min.X && c.X <= max.X && c.Y >= min.Y && c.Y <= max.Y
	}
}
