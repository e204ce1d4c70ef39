package townplan

import (
	"github.com/voidshard/townplan/geom"
)

// Planner lays out the building lots for one district.
// The built in planners cover the classic medieval mix (see wards.go);
// a custom Planner lets a caller restyle a ward kind - a grander
// temple, denser slums, whatever - without giving up the rest of the
// pipeline. Plan runs after the street network is final, so the town's
// districts, walls, gates and arteries are all safe to read.
type Planner interface {
	// Plan returns the lot footprints for the given district.
	// Returning nil leaves the district bare.
	Plan(t *Town, d *District) []geom.Polygon
}

// PlannerFunc adapts a bare function to the Planner interface.
type PlannerFunc func(t *Town, d *District) []geom.Polygon

// Plan calls f.
func (f PlannerFunc) Plan(t *Town, d *District) []geom.Polygon {
	return f(t, d)
}
