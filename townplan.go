// Package townplan grows small procedural medieval towns: a knot of
// districts about a market square, optionally ringed by a wall with
// towers and gates, laced with streets that all lead to the centre and
// roads that wander off toward the next town over.
//
// Every polygon corner is a handle into one shared vertex arena, so
// neighbouring districts, the wall and the streets literally share
// corners and the whole plan stays stitched together no matter how much
// any one piece is smoothed or split.
package townplan

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model2d"

	"github.com/voidshard/townplan/geom"
	"github.com/voidshard/townplan/internal/voronoi"
	"github.com/voidshard/townplan/internal/wall"
	"github.com/voidshard/townplan/internal/ward"
)

var (
	// ErrInvalidInput means the config can't describe a buildable town.
	ErrInvalidInput = fmt.Errorf("invalid input")

	// ErrGenerationFailed means every attempt painted itself into a
	// corner. Rare; another seed or more Attempts gets past it.
	ErrGenerationFailed = fmt.Errorf("failed to generate town")
)

// district corners closer than this get fused into one junction so the
// streets don't stutter through micro intersections
const junctionMergeDist = 8.0

// Town is a complete generated town plan.
type Town struct {
	// Seed the town was grown from
	Seed int64

	// Center of town, the junction everything leads to
	Center model2d.Coord

	// Districts in rough distance order from the centre: the town
	// proper first, then the citadel (if any), then countryside
	Districts []*District

	// Plaza is the market square district, if the town has one
	Plaza *District

	// Citadel is the castle district, if the town has one
	Citadel *District

	// Wall wraps the town proper, if the town has one
	Wall *Wall

	// Gates in the town wall and the citadel's ring. Unwalled towns
	// still have gates; they're where the main roads cross the town
	// limit.
	Gates []geom.Vertex

	// Streets run from the gates in to the centre, Roads carry on from
	// the gates out into the country, and Arteries are the same
	// network fused into long smoothed spans for anyone drawing the
	// town. All are open chains, not closed loops.
	Streets  []geom.Polygon
	Roads    []geom.Polygon
	Arteries []geom.Polygon

	// Radius of the town proper, centre to the farthest city corner
	Radius float64

	// Stats for a quick summary of what was built
	Stats *TownStats

	cfg *Config
	rng *rand.Rand
	log *log.Logger

	arena    *geom.Arena
	inner    []*District
	center   geom.Vertex
	border   *wall.Wall
	cityWall *wall.Wall

	plazaWanted   bool
	citadelWanted bool
	wallsWanted   bool
}

// New grows a town from the given config (nil is fine, defaults apply).
//
// Generation is randomized but deterministic: the same config and seed
// always grow the same town. A few layouts turn out unbuildable partway
// through; those get thrown away and rerolled, up to cfg.Attempts
// times, before giving up with ErrGenerationFailed.
func New(cfg *Config) (*Town, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	t := &Town{
		Seed: seed,
		cfg:  cfg,
		rng:  rand.New(rand.NewSource(seed)),
		log:  cfg.Logger,
	}

	// set pieces are decided up front and survive rerolls, so a retry
	// rebuilds the same kind of town the dice first asked for
	t.plazaWanted = cfg.Plaza.decide(t.rng)
	t.citadelWanted = cfg.Citadel.decide(t.rng)
	t.wallsWanted = cfg.Walls.decide(t.rng)

	var err error
	for attempt := 0; attempt < cfg.Attempts; attempt++ {
		t.reset()
		if err = t.build(); err == nil {
			t.log.Info("built town",
				"seed", t.Seed,
				"districts", len(t.Districts),
				"walled", t.Wall != nil,
				"gates", len(t.Gates),
				"lots", t.Stats.Lots,
				"attempts", attempt+1,
			)
			return t, nil
		}
		t.log.Debug("scrapped unbuildable layout", "attempt", attempt+1, "err", err)
	}
	return nil, errors.Wrapf(ErrGenerationFailed, "gave up after %d attempts: %v", cfg.Attempts, err)
}

// At returns the current position of a vertex handle.
func (t *Town) At(v geom.Vertex) model2d.Coord {
	return t.arena.At(v)
}

// Arena returns the vertex arena the whole plan is built over. Custom
// planners need it to mint polygons of their own.
func (t *Town) Arena() *geom.Arena {
	return t.arena
}

// reset clears everything a failed attempt half built.
func (t *Town) reset() {
	t.arena = geom.NewArena()
	t.Districts = nil
	t.inner = nil
	t.Plaza, t.Citadel = nil, nil
	t.Wall = nil
	t.Gates = nil
	t.Streets, t.Roads, t.Arteries = nil, nil, nil
	t.Radius = 0
	t.Stats = newTownStats()
	t.Center = model2d.Coord{}
	t.center = 0
	t.border, t.cityWall = nil, nil
}

// build runs the pipeline over a fresh arena.
// Order of the stages is important, each one leans on the last.
func (t *Town) build() error {
	if err := t.buildDistricts(); err != nil {
		return err
	}
	t.optimizeJunctions()
	if err := t.buildWalls(); err != nil {
		return err
	}
	if err := t.buildStreets(); err != nil {
		return err
	}
	t.createWards()
	t.buildGeometry()

	for i, d := range t.Districts {
		d.ID = i
	}
	t.Center = t.arena.At(t.center)
	return nil
}

// buildDistricts scatters seed points on a loose spiral about the
// origin and carves the area into voronoi cells: the innermost cells
// become the town proper, the rest countryside. A few lloyd relaxation
// passes over the core keep the central districts from coming out as
// slivers.
func (t *Town) buildDistricts() error {
	n := t.cfg.Districts

	b := voronoi.NewBuilder(
		model2d.Coord{X: -1e4, Y: -1e4},
		model2d.Coord{X: 1e4, Y: 1e4},
	)
	b.SetRand(t.rng)
	b.Scatter(n * 8)

	vor, err := b.Voronoi(t.arena)
	if err != nil {
		return err
	}

	for i := 0; i < 3; i++ {
		// relax the core cells (and the would-be citadel) only, the
		// countryside can stay ragged
		toRelax := []geom.Vertex{}
		pts := vor.Points()
		for j := 0; j < 3 && j < len(pts); j++ {
			toRelax = append(toRelax, pts[j])
		}
		if n < len(pts) {
			toRelax = append(toRelax, pts[n])
		}
		vor = vor.Relax(toRelax)
	}

	regions := vor.Partitioning()
	if len(regions) <= n {
		return errors.Errorf("voronoi came up short: %d regions for %d districts", len(regions), n)
	}

	sort.Slice(regions, func(i, j int) bool {
		return t.arena.At(regions[i].Seed).Norm() < t.arena.At(regions[j].Seed).Norm()
	})

	for i, r := range regions {
		d := &District{
			ID:    i,
			Shape: vor.Polygon(r),
			Site:  t.arena.At(r.Seed),
		}
		t.Districts = append(t.Districts, d)

		if i == 0 {
			// the town centre is the innermost district's corner
			// closest to the origin
			best, bestDist := d.Shape.Verts[0], math.Inf(1)
			for _, v := range d.Shape.Verts {
				if l := t.arena.At(v).Norm(); l < bestDist {
					bestDist = l
					best = v
				}
			}
			t.center = best
			if t.plazaWanted {
				t.Plaza = d
			}
		}

		switch {
		case i < n:
			d.WithinCity = true
			d.WithinWalls = t.wallsWanted
			t.inner = append(t.inner, d)
		case i == n && t.citadelWanted:
			d.WithinCity = true
			t.Citadel = d
		}
	}

	t.log.Debug("laid out districts", "regions", len(regions), "inner", len(t.inner))
	return nil
}

// optimizeJunctions fuses pairs of adjacent district corners that sit
// nearly on top of each other. The diagram happily emits micro edges;
// merging them keeps gates, streets and lots from squeezing through
// degenerate gaps.
func (t *Town) optimizeJunctions() {
	targets := append([]*District{}, t.inner...)
	if t.Citadel != nil {
		targets = append(targets, t.Citadel)
	}

	merged := 0
	touched := []*District{}
	for _, w := range targets {
		for i := 0; i < len(w.Shape.Verts); i++ {
			v0 := w.Shape.Verts[i]
			v1 := w.Shape.Verts[(i+1)%len(w.Shape.Verts)]
			if v0 == v1 || t.arena.At(v0).Dist(t.arena.At(v1)) >= junctionMergeDist {
				continue
			}

			// rewire everyone else onto v0, then drop v1 here
			for _, other := range t.DistrictsByVertex(v1) {
				if other == w {
					continue
				}
				if idx := other.Shape.IndexOf(v1); idx != -1 {
					other.Shape.Verts[idx] = v0
					touched = append(touched, other)
				}
			}

			t.arena.Set(v0, t.arena.At(v0).Mid(t.arena.At(v1)))
			w.Shape.Verts = removeVertex(w.Shape.Verts, v1)
			merged++
		}
	}

	// rewiring can leave a shape holding the same corner twice over
	for _, w := range touched {
		for i := 0; i < len(w.Shape.Verts); i++ {
			v := w.Shape.Verts[i]
			for j := i + 1; j < len(w.Shape.Verts); {
				if w.Shape.Verts[j] == v {
					w.Shape.Verts = append(w.Shape.Verts[:j], w.Shape.Verts[j+1:]...)
				} else {
					j++
				}
			}
		}
	}

	if merged > 0 {
		t.log.Debug("fused close junctions", "merged", merged)
	}
}

// buildWalls wraps the town proper in its limit ring, raises the wall
// if one was asked for, and rings the citadel. Also where countryside
// too far out to ever matter gets dropped on the floor.
func (t *Town) buildWalls() error {
	reserved := []geom.Vertex{}
	if t.Citadel != nil {
		reserved = append(reserved, t.Citadel.Shape.Verts...)
	}

	shapes := make([]geom.Polygon, len(t.inner))
	for i, d := range t.inner {
		shapes[i] = d.Shape
	}
	ring := geom.FindCircumference(shapes)

	outer := []*District{}
	outerShapes := []geom.Polygon{}
	for _, d := range t.Districts {
		if !d.WithinCity {
			outer = append(outer, d)
			outerShapes = append(outerShapes, d.Shape)
		}
	}

	border, splits, err := wall.Build(t.rng, ring, shapes, outerShapes, reserved, t.wallsWanted)
	if err != nil {
		return errors.Wrap(err, "town limit")
	}
	t.border = border

	// gate roads may have split countryside districts in two; mirror
	// those splits in our own records, keeping the list numbered the
	// way the wall numbered it
	for _, s := range splits {
		src := outer[s.Outer]
		src.Shape = s.Halves[0]
		twin := &District{Shape: s.Halves[1]}
		t.Districts = append(t.Districts, twin)

		rest := append([]*District{}, outer[s.Outer+1:]...)
		outer = append(append(outer[:s.Outer:s.Outer], src, twin), rest...)
	}

	if t.wallsWanted {
		t.cityWall = border
		t.cityWall.BuildTowers()
	}

	// forget countryside too remote to draw or route through
	radius := border.Radius()
	centerC := t.arena.At(t.center)
	keep := t.Districts[:0]
	for _, d := range t.Districts {
		if d.WithinCity || d.Shape.MinVertexDist(centerC) < radius*3 {
			keep = append(keep, d)
		}
	}
	t.Districts = keep

	t.Gates = append([]geom.Vertex{}, border.Gates...)

	if t.Citadel != nil {
		if err := t.buildCitadel(); err != nil {
			return err
		}
	}

	if t.cityWall != nil {
		t.Wall = &Wall{Shape: t.cityWall.Shape, Gates: t.cityWall.Gates, Towers: t.cityWall.Towers}
	}
	t.log.Debug("walled the town",
		"walled", t.cityWall != nil, "gates", len(t.Gates), "districts", len(t.Districts))
	return nil
}

// buildCitadel rings the castle district with its own wall. Corners the
// citadel shares with its neighbours are the only ones a street can
// ever reach, so those are the gate candidates; corners all its own get
// pinned so the ring keeps its shape.
func (t *Town) buildCitadel() error {
	cit := t.Citadel

	reserved := []geom.Vertex{}
	for _, v := range cit.Shape.Verts {
		if len(t.DistrictsByVertex(v)) < 2 {
			reserved = append(reserved, v)
		}
	}

	ring, _, err := wall.Build(t.rng, cit.Shape.Copy(), []geom.Polygon{cit.Shape}, nil, reserved, true)
	if err != nil {
		return errors.Wrap(err, "citadel")
	}
	ring.BuildTowers()

	// the keep needs solid ground; a spindly citadel rerolls the town
	if c := cit.Shape.Compactness(); c < 0.75 {
		return errors.Errorf("citadel too misshapen to hold a castle (compactness %.2f)", c)
	}

	cit.Kind = Castle
	cit.Wall = &Wall{Shape: ring.Shape, Gates: ring.Gates, Towers: ring.Towers}
	t.Gates = append(t.Gates, ring.Gates...)
	return nil
}

// buildStreets routes a street from every gate in to the market square
// (or the central junction) and, at the outer gates, a road on out
// toward the next town over. The combined network is then fused into
// arteries and gently smoothed.
func (t *Town) buildStreets() error {
	top := newTopology(t)

	for _, gate := range t.Gates {
		end := t.center
		if t.Plaza != nil {
			// aim for whichever market corner is closest to this gate
			gateC := t.arena.At(gate)
			best, bestDist := t.Plaza.Shape.Verts[0], math.Inf(1)
			for _, v := range t.Plaza.Shape.Verts {
				if dist := t.arena.At(v).Dist(gateC); dist < bestDist {
					bestDist = dist
					best = v
				}
			}
			end = best
		}

		street := top.buildPath(gate, end, top.outer)
		if street == nil {
			return errors.Errorf("gate cut off from the town centre")
		}
		t.Streets = append(t.Streets, geom.NewPolygon(t.arena, street))

		if hasVertex(t.border.Gates, gate) {
			// the road out: from whichever junction lies nearest a
			// point far beyond the gate, back in to the gate itself
			far := t.arena.At(gate).Normalize().Scale(1000)
			if start, ok := top.nearestJunction(far); ok {
				if road := top.buildPath(start, gate, top.inner); road != nil {
					t.Roads = append(t.Roads, geom.NewPolygon(t.arena, road))
				}
			}
		}
	}

	t.fuseArteries()
	for _, a := range t.Arteries {
		// endpoints stay put, interior junctions relax toward their
		// neighbours
		smoothed := a.SmoothVertexEq(3)
		for i := 1; i < a.Len()-1; i++ {
			t.arena.Set(a.Verts[i], smoothed[i])
		}
	}

	t.log.Debug("routed streets",
		"streets", len(t.Streets), "roads", len(t.Roads), "arteries", len(t.Arteries))
	return nil
}

// fuseArteries stitches the street and road segments into the longest
// spans it can, dropping duplicates where routes overlap. Segments
// crossing the market square don't count; the square is its own space.
func (t *Town) fuseArteries() {
	type seg struct{ a, b geom.Vertex }
	segs := []seg{}
	cut := func(p geom.Polygon) {
		for i := 1; i < p.Len(); i++ {
			a, b := p.Verts[i-1], p.Verts[i]
			if t.Plaza != nil && t.Plaza.Shape.HasVertex(a) && t.Plaza.Shape.HasVertex(b) {
				continue
			}
			dup := false
			for _, s := range segs {
				if s.a == a && s.b == b {
					dup = true
					break
				}
			}
			if !dup {
				segs = append(segs, seg{a, b})
			}
		}
	}
	for _, s := range t.Streets {
		cut(s)
	}
	for _, r := range t.Roads {
		cut(r)
	}

	arteries := []geom.Polygon{}
	for len(segs) > 0 {
		s := segs[len(segs)-1]
		segs = segs[:len(segs)-1]

		attached := false
		for i := range arteries {
			if arteries[i].Verts[0] == s.b {
				arteries[i].Verts = append([]geom.Vertex{s.a}, arteries[i].Verts...)
				attached = true
				break
			}
			if arteries[i].Verts[arteries[i].Len()-1] == s.a {
				arteries[i].Verts = append(arteries[i].Verts, s.b)
				attached = true
				break
			}
		}
		if !attached {
			arteries = append(arteries, geom.NewPolygon(t.arena, []geom.Vertex{s.a, s.b}))
		}
	}
	t.Arteries = arteries
}

// createWards hands every district a purpose. The market square and the
// wards around the gates claim theirs first, the classic mix is dealt
// out best district first, and whatever's left over outside the walls
// turns into farmland or stays open country.
func (t *Town) createWards() {
	unassigned := append([]*District{}, t.inner...)

	if t.Plaza != nil {
		t.Plaza.Kind = Market
		unassigned = removeDistrict(unassigned, t.Plaza)
	}

	for _, gate := range t.border.Gates {
		for _, d := range t.DistrictsByVertex(gate) {
			if !d.WithinCity || d.Kind != "" {
				continue
			}
			// gate wards are likelier when there's an actual wall
			// funnelling the traffic through
			chance := 0.2
			if t.cityWall != nil {
				chance = 0.5
			}
			if t.rng.Float64() < chance {
				d.Kind = GateWard
				unassigned = removeDistrict(unassigned, d)
			}
		}
	}

	table := wardTable()
	// a modest shuffle so the deal isn't identical town to town
	for i := 0; i < len(table)/10; i++ {
		idx := t.rng.Intn(len(table) - 1)
		table[idx], table[idx+1] = table[idx+1], table[idx]
	}

	next := 0
	for len(unassigned) > 0 {
		var kind WardKind = Slum
		if next < len(table) {
			kind = table[next]
			next++
		}

		var best *District
		bestRate := math.Inf(1)
		for _, d := range unassigned {
			if rate := t.rateLocation(kind, d); rate < bestRate {
				bestRate = rate
				best = d
			}
		}
		if best == nil {
			// every district refused; it goes somewhere at random
			best = unassigned[t.rng.Intn(len(unassigned))]
		}
		best.Kind = kind
		unassigned = removeDistrict(unassigned, best)
	}

	// wall gates spill the odd ward out past the wall
	if t.cityWall != nil {
		for _, gate := range t.cityWall.Gates {
			if t.rng.Float64() < 1.0/float64(t.cfg.Districts-5) {
				continue
			}
			for _, d := range t.DistrictsByVertex(gate) {
				if d.Kind == "" {
					d.WithinCity = true
					d.Kind = GateWard
				}
			}
		}
	}

	t.Radius = 0
	for _, d := range t.Districts {
		if d.WithinCity {
			for _, v := range d.Shape.Verts {
				if l := t.arena.At(v).Norm(); l > t.Radius {
					t.Radius = l
				}
			}
		} else if d.Kind == "" {
			if t.rng.Float64() < 0.2 && d.Shape.Compactness() >= 0.7 {
				d.Kind = Farm
			} else {
				d.Kind = Empty
			}
		}
	}

	t.log.Debug("assigned wards", "radius", t.Radius)
}

// buildGeometry lays out the building lots district by district.
func (t *Town) buildGeometry() {
	for _, d := range t.Districts {
		if p, ok := t.cfg.Planners[d.Kind]; ok && p != nil {
			d.Lots = p.Plan(t, d)
		} else {
			d.Lots = t.planWard(d)
		}
		t.Stats.increment(d.Kind)
		t.Stats.Lots += len(d.Lots)
	}
}

// DistrictsByVertex returns every district holding the given corner.
func (t *Town) DistrictsByVertex(v geom.Vertex) []*District {
	out := []*District{}
	for _, d := range t.Districts {
		if d.Shape.HasVertex(v) {
			out = append(out, d)
		}
	}
	return out
}

// Neighbours returns the districts sharing at least one edge with d.
func (t *Town) Neighbours(d *District) []*District {
	out := []*District{}
	for _, p := range t.Districts {
		if p != d && p.Shape.Borders(d.Shape) {
			out = append(out, p)
		}
	}
	return out
}

// IsEnclosed reports whether a district sits snug inside the town:
// behind the wall, or (in an unwalled town) with city on every side.
func (t *Town) IsEnclosed(d *District) bool {
	if !d.WithinCity {
		return false
	}
	if d.WithinWalls {
		return true
	}
	for _, n := range t.Neighbours(d) {
		if !n.WithinCity {
			return false
		}
	}
	return true
}

// CityBlock returns the buildable interior of a district: its shape
// inset by half of whatever runs along each edge (wall, street, lane).
func (t *Town) CityBlock(d *District) geom.Polygon {
	n := d.Shape.Len()
	kinds := make([]ward.EdgeKind, n)
	innerDistrict := t.cityWall == nil || d.WithinWalls

	for i := 0; i < n; i++ {
		v0 := d.Shape.Verts[i]
		v1 := d.Shape.Verts[(i+1)%n]

		if t.cityWall != nil && t.cityWall.BordersBy(d.WithinWalls, v0, v1) {
			kinds[i] = ward.EdgeWall
			continue
		}

		onStreet := innerDistrict && t.Plaza != nil && t.Plaza.Shape.FindEdge(v1, v0) != -1
		if !onStreet {
			for _, a := range t.Arteries {
				if a.HasVertex(v0) && a.HasVertex(v1) {
					onStreet = true
					break
				}
			}
		}

		switch {
		case onStreet:
			kinds[i] = ward.EdgeStreet
		case innerDistrict:
			kinds[i] = ward.EdgeInner
		default:
			kinds[i] = ward.EdgeOpen
		}
	}

	return ward.InsetBlock(d.Shape, kinds, ward.Widths{
		MainStreet:    t.cfg.MainStreet,
		RegularStreet: t.cfg.RegularStreet,
		Alley:         t.cfg.Alley,
	})
}

// edgeFactors weighs each district edge for the outskirts thinning:
// full strength along roads and against snug neighbours, fading to
// nothing on the open side.
func (t *Town) edgeFactors(d *District) []float64 {
	n := d.Shape.Len()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v0 := d.Shape.Verts[i]
		v1 := d.Shape.Verts[(i+1)%n]

		onRoad := false
		for _, a := range t.Arteries {
			if a.HasVertex(v0) && a.HasVertex(v1) {
				onRoad = true
				break
			}
		}
		if onRoad {
			out[i] = 1.0
			continue
		}
		if nb := t.neighbourAcross(d, v0); nb != nil && nb.WithinCity {
			if t.IsEnclosed(nb) {
				out[i] = 1.0
			} else {
				out[i] = 0.4
			}
		}
	}
	return out
}

// vertexKinds tags each district corner for the outskirts thinning:
// gates anchor full density, corners ringed by city keep some, corners
// facing open country get nothing.
func (t *Town) vertexKinds(d *District) []ward.VertexKind {
	out := make([]ward.VertexKind, d.Shape.Len())
	for i, v := range d.Shape.Verts {
		if hasVertex(t.Gates, v) {
			out[i] = ward.VertexGate
			continue
		}
		all := true
		for _, p := range t.DistrictsByVertex(v) {
			if !p.WithinCity {
				all = false
				break
			}
		}
		if all {
			out[i] = ward.VertexInner
		} else {
			out[i] = ward.VertexOpen
		}
	}
	return out
}

// neighbourAcross finds the district on the far side of the edge
// leaving v.
func (t *Town) neighbourAcross(d *District, v geom.Vertex) *District {
	next := d.Shape.Next(v)
	for _, p := range t.Districts {
		if p != d && p.Shape.FindEdge(next, v) != -1 {
			return p
		}
	}
	return nil
}
