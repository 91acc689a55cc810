package systems

import (
	"math"

	"github.com/pthm-cable/hunter/components"
)

// limitSpeed scales v down to maxSpeed if it is faster.
func limitSpeed(v components.Vec2, maxSpeed float64) components.Vec2 {
	speed := v.Len()
	if speed > maxSpeed && speed > 0 {
		return v.Scale(maxSpeed / speed)
	}
	return v
}

func abs(v float64) float64 {
	return math.Abs(v)
}

// sign returns -1 for negative values and +1 otherwise, so a body exactly on
// a box centre is still pushed somewhere.
func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
