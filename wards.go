package townplan

import (
	"math"
	"math/rand"

	"github.com/unixpickle/model3d/model2d"

	"github.com/voidshard/townplan/geom"
	"github.com/voidshard/townplan/internal/ward"
)

// WardKind indicates roughly what fills a given district.
// In practice the lines blur - a craftsmen ward still has homes and the
// odd shop - but it tells us what to lay out and roughly who you'd meet
// there.
type WardKind string

const (
	Craftsmen      = "craftsmen"      // workshops & modest homes, the bulk of any town
	Merchant       = "merchant"       // large townhouses & shops of the moneyed traders
	Slum           = "slum"           // cramped ramshackle housing pushed to the fringes
	Patriciate     = "patriciate"     // sprawling estates of old families, no slums in sight
	Administration = "administration" // courts, counting houses, town hall
	Military       = "military"       // barracks & drill yards hugging the fortifications
	GateWard       = "gate"           // inns, stables & traffic piled up around a gate
	Market         = "market"         // an open square with a fountain or statue
	Cathedral      = "temple"         // the big temple and its grounds
	Park           = "park"           // greenery cut through with paths
	Farm           = "farm"           // a farmhouse amid its fields
	Castle         = "castle"         // the citadel; the keep behind its own ring wall
	Empty          = "empty"          // open countryside
)

// AllWardKinds returns every kind the generator can assign, roughly
// grandest first.
func AllWardKinds() []WardKind {
	return []WardKind{
		Castle, Cathedral, Administration, Market, Merchant, Patriciate,
		Craftsmen, GateWard, Military, Park, Slum, Farm, Empty,
	}
}

// wardTable is the classic kind mix for a town, dealt best-district
// first: the first entry lands in the most favourable unassigned
// district and so on down the list. Towns bigger than the table pad
// out with slums.
func wardTable() []WardKind {
	table := make([]WardKind, 35)
	for i := range table {
		table[i] = Craftsmen
	}
	table[1], table[34] = Merchant, Merchant
	table[2], table[5] = Cathedral, Cathedral
	table[14] = Administration
	for _, i := range []int{16, 18, 24, 25, 30} {
		table[i] = Slum
	}
	table[19], table[32] = Patriciate, Patriciate
	table[20], table[33] = Market, Market
	table[29] = Military
	table[31] = Park
	return table
}

// wardParams rolls the lot subdivision tuning for a kind. Every kind
// has its own feel: patrician lots large and orderly, slum lots small
// and crooked. blockArea only matters to the military, whose yards
// scale with the ground they hold.
func wardParams(rng *rand.Rand, kind WardKind, blockArea float64) ward.Params {
	switch kind {
	case Merchant:
		return ward.Params{
			MinSq:     50 + 60*rng.Float64()*rng.Float64(),
			GridChaos: 0.5 + rng.Float64()*0.3,
			SizeChaos: 0.7,
			EmptyProb: 0.15,
		}
	case Slum:
		return ward.Params{
			MinSq:     10 + 30*rng.Float64()*rng.Float64(),
			GridChaos: 0.6 + rng.Float64()*0.4,
			SizeChaos: 0.8,
			EmptyProb: 0.03,
		}
	case Patriciate:
		return ward.Params{
			MinSq:     80 + 30*rng.Float64()*rng.Float64(),
			GridChaos: 0.5 + rng.Float64()*0.3,
			SizeChaos: 0.8,
			EmptyProb: 0.2,
		}
	case Administration:
		return ward.Params{
			MinSq:     80 + 30*rng.Float64()*rng.Float64(),
			GridChaos: 0.1 + rng.Float64()*0.3,
			SizeChaos: 0.3,
		}
	case GateWard:
		return ward.Params{
			MinSq:     10 + 50*rng.Float64()*rng.Float64(),
			GridChaos: 0.5 + rng.Float64()*0.3,
			SizeChaos: 0.7,
		}
	case Military:
		return ward.Params{
			MinSq:     math.Sqrt(blockArea) * (1 + rng.Float64()),
			GridChaos: 0.1 + rng.Float64()*0.3,
			SizeChaos: 0.3,
			EmptyProb: 0.25,
		}
	default:
		// craftsmen, and anything else without stronger opinions
		return ward.Params{
			MinSq:     10 + 80*rng.Float64()*rng.Float64(),
			GridChaos: 0.5 + rng.Float64()*0.2,
			SizeChaos: 0.6,
		}
	}
}

// rateLocation scores a district as a home for the given kind. Lower is
// better, +Inf means the kind refuses the spot outright. Kinds without
// a preference draw a random rate so they end up spread about.
func (t *Town) rateLocation(kind WardKind, d *District) float64 {
	switch kind {
	case Merchant:
		// merchants crowd the market
		return d.Shape.MinVertexDist(t.focus())
	case Slum:
		// slums get pushed as far from it as the town goes
		return -d.Shape.MinVertexDist(t.focus())
	case Cathedral:
		// beside the square if at all possible, favouring a grand
		// plot; otherwise near the centre, favouring a modest one
		if t.Plaza != nil && d.Shape.Borders(t.Plaza.Shape) {
			return -1.0 / d.Shape.Area()
		}
		return d.Shape.MinVertexDist(t.focus()) * d.Shape.Area()
	case Administration:
		if t.Plaza != nil {
			if d.Shape.Borders(t.Plaza.Shape) {
				return 0
			}
			return d.Shape.MinVertexDist(t.Plaza.Shape.Center())
		}
		return d.Shape.MinVertexDist(t.arena.At(t.center))
	case Patriciate:
		// likes parks, loathes slums
		rate := 0.0
		for _, p := range t.Districts {
			if p.Kind == "" || !p.Shape.Borders(d.Shape) {
				continue
			}
			switch p.Kind {
			case Park:
				rate--
			case Slum:
				rate++
			}
		}
		return rate
	case Market:
		// secondary markets keep well away from each other; one should
		// come out large and the other small
		for _, p := range t.inner {
			if p.Kind == Market && p.Shape.Borders(d.Shape) {
				return math.Inf(1)
			}
		}
		if t.Plaza != nil {
			return d.Shape.Area() / t.Plaza.Shape.Area()
		}
		return d.Shape.MinVertexDist(t.arena.At(t.center))
	case Military:
		if t.Citadel != nil && t.Citadel.Shape.Borders(d.Shape) {
			return 0
		}
		if t.cityWall != nil && t.cityWall.Borders(d.Shape, d.WithinWalls) {
			return 1
		}
		if t.Citadel == nil && t.cityWall == nil {
			return 0
		}
		return math.Inf(1)
	default:
		return t.rng.Float64()
	}
}

// focus is where commercial life gravitates: the market square if the
// town has one, the central junction otherwise.
func (t *Town) focus() model2d.Coord {
	if t.Plaza != nil {
		return t.Plaza.Shape.Center()
	}
	return t.arena.At(t.center)
}

// planWard lays out the building lots for one district according to
// its kind. This is the house style; custom Planners in the config
// replace it per kind.
func (t *Town) planWard(d *District) []geom.Polygon {
	switch d.Kind {
	case Market:
		return t.planMarket(d)
	case Park:
		return t.planPark(d)
	case Cathedral:
		return t.planCathedral(d)
	case Castle:
		return t.planCastle(d)
	case Farm:
		return t.planFarm(d)
	case Military:
		// drill yards & barracks blocks, no thinning: armies keep
		// their grounds in order right up to the fence
		block := t.CityBlock(d)
		prm := wardParams(t.rng, Military, block.Area())
		return fitLots(ward.Subdivide(t.rng, block, prm, t.cfg.Alley), prm.MinSq)
	case Empty, "":
		return nil
	default:
		return t.planCommon(d)
	}
}

// planCommon is the standard housing treatment: carve the block into
// lots, square them off, and thin the fringes of any district not snug
// inside the town.
func (t *Town) planCommon(d *District) []geom.Polygon {
	block := t.CityBlock(d)
	prm := wardParams(t.rng, d.Kind, block.Area())

	lots := fitLots(ward.Subdivide(t.rng, block, prm, t.cfg.Alley), prm.MinSq)
	lots = ward.FilterInner(block, lots)
	if !t.IsEnclosed(d) {
		lots = ward.FilterOutskirts(t.rng, d.Shape, lots, t.edgeFactors(d), t.vertexKinds(d))
	}
	return lots
}

// planMarket places the square's centrepiece: a statue or a fountain,
// dead centre or nudged toward the square's long side.
func (t *Town) planMarket(d *District) []geom.Polygon {
	statue := t.rng.Float64() < 0.6
	offset := statue || t.rng.Float64() < 0.3

	var v0, v1 model2d.Coord
	if statue || offset {
		// we need an edge both to rotate a statue against and to
		// offset towards
		longest := -1.0
		for i := 0; i < d.Shape.Len(); i++ {
			p0 := d.Shape.Pt(i)
			p1 := d.Shape.Pt(i + 1)
			if l := p0.Dist(p1); l > longest {
				longest = l
				v0, v1 = p0, p1
			}
		}
	}

	var object []model2d.Coord
	if statue {
		object = geom.RotateCoords(
			rectCoords(1+t.rng.Float64(), 1+t.rng.Float64()),
			math.Atan2(v1.Y-v0.Y, v1.X-v0.X),
		)
	} else {
		object = circleCoords(1 + t.rng.Float64())
	}

	pos := d.Shape.Centroid()
	if offset {
		pos = lerpCoord(pos, v0.Mid(v1), 0.2+t.rng.Float64()*0.4)
	}
	return []geom.Polygon{geom.PolygonOf(t.arena, translateCoords(object, pos)...)}
}

// planPark cuts the greenery: roundish parks get paths radiating from
// the middle, long thin ones a fan from the far corner.
func (t *Town) planPark(d *District) []geom.Polygon {
	block := t.CityBlock(d)
	if block.Compactness() >= 0.7 {
		return ward.Radial(block, block.Centroid(), t.cfg.Alley)
	}
	return ward.SemiRadial(block, t.cfg.Alley)
}

// planCathedral raises the temple: a cloister ring now and then,
// otherwise one sprawling orthogonal pile.
func (t *Town) planCathedral(d *District) []geom.Polygon {
	if t.rng.Float64() < 0.4 {
		return ward.Ring(t.CityBlock(d), 2+t.rng.Float64()*4)
	}
	return ward.OrthoBuilding(t.rng, t.CityBlock(d), 50, 0.8)
}

// planCastle fills the citadel with the keep, set well back from the
// ring wall.
func (t *Town) planCastle(d *District) []geom.Polygon {
	block := d.Shape.ShrinkEq(t.cfg.MainStreet * 2)
	return ward.OrthoBuilding(t.rng, block, math.Sqrt(block.Area())*4, 0.6)
}

// planFarm drops a farmhouse partway between a fence corner and the
// middle of the field, facing whichever way it pleases.
func (t *Town) planFarm(d *District) []geom.Polygon {
	housing := rectCoords(4, 4)
	corner := d.Shape.Pt(t.rng.Intn(d.Shape.Len()))
	pos := lerpCoord(corner, d.Shape.Centroid(), 0.3+t.rng.Float64()*0.4)
	housing = geom.RotateCoords(housing, t.rng.Float64()*math.Pi)

	return ward.OrthoBuilding(t.rng, geom.PolygonOf(t.arena, translateCoords(housing, pos)...), 8, 0.5)
}
