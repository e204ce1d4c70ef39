package voronoi

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/unixpickle/model3d/model2d"

	"github.com/voidshard/townplan/geom"
)

// ErrNoSeeds indicates a diagram was requested before any seed point
// passed the configured filters.
var ErrNoSeeds = fmt.Errorf("voronoi diagram requires at least one seed point")

// Builder struct makes managing the setup of a voronoi diagram easier.
// We're interested here in building a diagram with some structure to how
// seed points (centres of voronoi cells) are laid out.
type Builder struct {
	min, max model2d.Coord
	seeds    []model2d.Coord
	rng      *rand.Rand
	sfilt    []SeedFilter
	cfilt    []CandidateFilter
}

// NewBuilder returns a new voronoi diagram builder over the given bounds.
func NewBuilder(min, max model2d.Coord) *Builder {
	return &Builder{
		min:   min,
		max:   max,
		seeds: []model2d.Coord{},
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SeedCount returns how many seed points we've currently got configured.
func (b *Builder) SeedCount() int {
	return len(b.seeds)
}

// Seeds returns the accepted seed points so far, in order.
func (b *Builder) Seeds() []model2d.Coord {
	return append([]model2d.Coord{}, b.seeds...)
}

// SetSeed sets our internal RNG seed.
func (b *Builder) SetSeed(seed int64) {
	b.rng = rand.New(rand.NewSource(seed))
}

// SetRand hands the builder an external RNG.
// Useful when the caller owns a single stream that has to drive an
// entire generation run deterministically.
func (b *Builder) SetRand(rng *rand.Rand) {
	b.rng = rng
}

// SetCandidateFilters sets filters that accept / reject a proposed point
// without reference to other currently set point(s).
func (b *Builder) SetCandidateFilters(f ...CandidateFilter) {
	b.cfilt = f
}

// SetSeedFilters sets filters that compare proposed points to all current points.
func (b *Builder) SetSeedFilters(f ...SeedFilter) {
	b.sfilt = f
}

// AddRandomSeed places a point at random within bounds, assuming it obeys
// all currently set filters.
func (b *Builder) AddRandomSeed() (model2d.Coord, bool) {
	c := model2d.Coord{
		X: b.min.X + b.rng.Float64()*(b.max.X-b.min.X),
		Y: b.min.Y + b.rng.Float64()*(b.max.Y-b.min.Y),
	}
	if !b.accepted(c) {
		return model2d.Coord{}, false
	}
	b.seeds = append(b.seeds, c)
	return c, true
}

// AddSeed places a point at the given location, assuming it obeys
// currently set filters.
func (b *Builder) AddSeed(c model2d.Coord) bool {
	if !b.accepted(c) {
		return false
	}
	b.seeds = append(b.seeds, c)
	return true
}

// Scatter proposes n points on a loose outward spiral about the origin,
// the first dead centre. Settlements grow from a dense core so the rings
// thin out as they go; each point still runs the usual filters.
// Returns how many points were actually accepted.
func (b *Builder) Scatter(n int) int {
	added := 0
	sa := b.rng.Float64() * 2 * math.Pi
	for i := 0; i < n; i++ {
		a := sa + math.Sqrt(float64(i))*5
		r := 0.0
		if i > 0 {
			r = 10 + float64(i)*(2+b.rng.Float64())
		}
		c := model2d.Coord{X: math.Cos(a) * r, Y: math.Sin(a) * r}
		if b.AddSeed(c) {
			added++
		}
	}
	return added
}

// accepted returns if the proposed location is acceptable to our filters.
// We run CandidateFilter(s) first so we can hopefully reject candidates early.
func (b *Builder) accepted(c model2d.Coord) bool {
	for _, fn := range b.cfilt {
		if !fn(c) {
			return false
		}
	}

	for _, s := range b.seeds {
		for _, fn := range b.sfilt {
			if !fn(c, s) {
				return false
			}
		}
	}

	return true
}

// Voronoi builds the diagram from the accepted points into the given arena.
// Nb. there must be at least one seed set or this errors.
func (b *Builder) Voronoi(a *geom.Arena) (*Voronoi, error) {
	if len(b.seeds) == 0 {
		return nil, ErrNoSeeds
	}
	return Build(a, b.seeds), nil
}
