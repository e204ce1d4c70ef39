package townplan

import (
	"github.com/unixpickle/model3d/model2d"

	"github.com/voidshard/townplan/geom"
)

// TownStats holds generic stats about the town
type TownStats struct {
	// Count of the number of districts of a given ward kind
	DistrictsByKind map[WardKind]int

	// Total number of building lots across all districts
	Lots int
}

// newTownStats returns blank TownStats
func newTownStats() *TownStats {
	return &TownStats{DistrictsByKind: map[WardKind]int{}}
}

// increment DistrictsByKind by 1
func (t *TownStats) increment(k WardKind) {
	count, _ := t.DistrictsByKind[k]
	t.DistrictsByKind[k] = count + 1
}

// count returns number of districts by ward kind
func (t *TownStats) count(k WardKind) int {
	count, _ := t.DistrictsByKind[k]
	return count
}

// District represents one patch of the town plan.
type District struct {
	// ID for this district
	ID int

	// Kind see wards.go
	Kind WardKind

	// Shape of the district. Corner handles are shared with every
	// neighbouring district (and the wall, and the streets), so a
	// corner moved here moves everywhere.
	Shape geom.Polygon

	// Site this district grew from (its voronoi seed)
	Site model2d.Coord

	// whether the district counts as part of the town proper
	WithinCity bool

	// whether the district sits inside the town wall, if there is one
	WithinWalls bool

	// building lot footprints, laid out according to Kind
	Lots []geom.Polygon

	// the citadel's private ring; only ever set on the castle district
	Wall *Wall
}

// Wall is a fortification ring around part of the town.
type Wall struct {
	// Shape of the ring. Corners are shared with the districts the
	// wall wraps, so the wall stays stitched to the town around it.
	Shape geom.Polygon

	// Gates are the ring corners left open for traffic
	Gates []geom.Vertex

	// Towers stand on the ring corners that aren't gates
	Towers []geom.Vertex
}
