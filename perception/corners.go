package perception

import (
	"math"

	"github.com/pthm-cable/hunter/components"
)

// samplesPerUnit is the raycast sampling density.
const samplesPerUnit = 10

// minRayLength below which a ray is treated as empty.
const minRayLength = 0.001

// Raycast steps from one point to another and returns the index of the first
// obstacle a sample lands in, or -1. The obstacle at index ignore is skipped.
func Raycast(from, to components.Vec2, obstacles []components.Obstacle, ignore int) int {
	d := from.Dist(to)
	if d < minRayLength || len(obstacles) == 0 {
		return -1
	}

	steps := int(math.Ceil(d * samplesPerUnit))
	delta := to.Sub(from)
	for i := 0; i <= steps; i++ {
		p := from.Add(delta.Scale(float64(i) / float64(steps)))
		for j := range obstacles {
			if j == ignore {
				continue
			}
			if obstacles[j].Contains(p) {
				return j
			}
		}
	}
	return -1
}

// LookTarget is where the hunter should look or head for.
type LookTarget struct {
	Point    components.Vec2
	IsCorner bool
	Blocking int // Index of the obstacle hiding the target, -1 when the line is clear
}

// ResolveLookTarget returns the target itself when it is in line of sight,
// otherwise the nearest corner of the blocking obstacle that is. When no
// corner is visible the target is returned with the blocker still set.
func ResolveLookTarget(from, target components.Vec2, obstacles []components.Obstacle) LookTarget {
	if from == target {
		return LookTarget{Point: target, Blocking: -1}
	}

	hit := Raycast(from, target, obstacles, -1)
	if hit < 0 {
		return LookTarget{Point: target, Blocking: -1}
	}

	blocker := obstacles[hit]
	best, bestDist := components.Vec2{}, math.Inf(1)
	for _, c := range blocker.Corners() {
		if Raycast(from, c, obstacles, hit) >= 0 {
			continue
		}
		if d := from.Dist(c); d < bestDist {
			best, bestDist = c, d
		}
	}

	if math.IsInf(bestDist, 1) {
		return LookTarget{Point: target, Blocking: hit}
	}
	return LookTarget{Point: best, IsCorner: true, Blocking: hit}
}
