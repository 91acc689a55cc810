package steering

import (
	"math"

	"github.com/pthm-cable/hunter/components"
	"github.com/pthm-cable/hunter/config"
)

// AvoidanceParams tunes the forward obstacle look-ahead.
type AvoidanceParams struct {
	LookAhead   float64
	Margin      float64 // Extra reach beyond LookAhead when gathering candidates
	ForwardDot  float64 // Minimum cosine between heading and obstacle direction
	AngularGain float64
	LateralGain float64
}

// AvoidanceParamsFrom reads avoidance tuning from the config.
func AvoidanceParamsFrom(cfg *config.Config) AvoidanceParams {
	a := cfg.Avoidance
	return AvoidanceParams{
		LookAhead:   a.LookAhead,
		Margin:      a.Margin,
		ForwardDot:  a.ForwardDot,
		AngularGain: a.AngularGain,
		LateralGain: a.LateralGain,
	}
}

// Reach is the radius inside which obstacles can affect Avoid.
func (p AvoidanceParams) Reach(lookAhead float64) float64 {
	return lookAhead + p.Margin
}

// Avoid steers away from the nearest obstacle in the forward arc. The push
// grows with the square of how close it is, so it overrides goal steering
// just before contact.
func Avoid(a *components.Agent, obstacles []components.Obstacle, lookAhead float64, p AvoidanceParams) Steering {
	if len(obstacles) == 0 || lookAhead <= 0 {
		return Steering{}
	}

	fwd := a.Forward()
	reach := p.Reach(lookAhead)
	nearest := -1
	nearestDist := math.Inf(1)
	var nearestRel components.Vec2

	for i := range obstacles {
		rel := obstacles[i].Position.Sub(a.Position)
		d := rel.Len()
		if d == 0 || d > reach {
			continue
		}
		if fwd.Dot(rel.Scale(1/d)) <= p.ForwardDot {
			continue
		}
		if d < nearestDist {
			nearest, nearestDist, nearestRel = i, d, rel
		}
	}

	if nearest < 0 || nearestDist >= lookAhead {
		return Steering{}
	}

	turn := 1.0
	if cross := fwd.X*nearestRel.Z - fwd.Z*nearestRel.X; cross < 0 {
		turn = -1
	}

	urgency := 1 - nearestDist/lookAhead
	pressure := urgency * urgency

	lateral := components.Forward(a.Heading + turn*math.Pi/2)
	return Steering{
		Linear:  lateral.Scale(a.MaxAccel * p.LateralGain * pressure),
		Angular: turn * a.MaxAngularAccel * p.AngularGain * pressure,
	}
}
