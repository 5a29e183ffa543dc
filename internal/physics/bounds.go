package physics

import (
	"math"

	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/units"
)

// MaxStep caps a single frame delta. Longer frames are integrated as if
// they took MaxStep, which keeps every engine stable on slow frames.
const MaxStep = 1.0 / 30

// Range is a documented closed interval for a configuration value.
type Range struct {
	Min, Max float64
}

// clampInto clamps *v into r and records an adjustment when the value moved.
func clampInto(adj *[]dynamo.Adjustment, name string, v *float64, r Range) {
	requested := *v
	applied := units.Clamp(requested, r.Min, r.Max)
	if applied != requested || math.IsNaN(requested) {
		*adj = append(*adj, dynamo.Adjustment{Param: name, Requested: requested, Applied: applied})
	}
	*v = applied
}

func boolParam(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
