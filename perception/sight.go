package perception

import (
	"math"

	"github.com/pthm-cable/hunter/components"
)

// InCone reports whether target lies inside the cone, ignoring occlusion.
func InCone(pos components.Vec2, heading float64, v Vision, target components.Vec2) bool {
	d := pos.Dist(target)
	if d > v.Range {
		return false
	}
	if d == 0 {
		return true
	}
	diff := components.NormalizeAngle(components.Bearing(pos, target) - heading)
	return math.Abs(diff) <= v.HalfAngle()
}

// CanSee reports whether target is inside the cone with a clear line of sight.
func CanSee(pos components.Vec2, heading float64, v Vision, target components.Vec2, obstacles []components.Obstacle) bool {
	if !InCone(pos, heading, v, target) {
		return false
	}
	return Raycast(pos, target, obstacles, -1) < 0
}
