// Package steering holds the hunter's movement primitives. Each behaviour
// turns a goal into a linear acceleration (world space, along the current
// heading) and an angular correction rate; nothing here mutates kinematics.
package steering

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/hunter/components"
	"github.com/pthm-cable/hunter/config"
)

// Steering is one behaviour's output.
type Steering struct {
	Linear  components.Vec2
	Angular float64
}

// Weighted pairs a steering output with its blend weight.
type Weighted struct {
	Steering Steering
	Weight   float64
}

// Params tunes the goal behaviours.
type Params struct {
	WanderStrength     float64
	WanderMaxAngle     float64 // Radians
	WanderTurnSpeedMin float64
	WanderTurnSpeedMax float64
	WanderChangeMin    float64 // Seconds
	WanderChangeMax    float64
	SeekAngular        float64
	SeekLinear         float64
	FleeAngular        float64
	FleeLinear         float64
	ArriveSlowRadius   float64
}

// ParamsFrom reads steering tuning from the config.
func ParamsFrom(cfg *config.Config) Params {
	s := cfg.Steering
	return Params{
		WanderStrength:     s.WanderStrength,
		WanderMaxAngle:     cfg.Derived.WanderMaxAngle,
		WanderTurnSpeedMin: s.WanderTurnSpeedMin,
		WanderTurnSpeedMax: s.WanderTurnSpeedMax,
		WanderChangeMin:    s.WanderChangeMin,
		WanderChangeMax:    s.WanderChangeMax,
		SeekAngular:        s.SeekAngular,
		SeekLinear:         s.SeekLinear,
		FleeAngular:        s.FleeAngular,
		FleeLinear:         s.FleeLinear,
		ArriveSlowRadius:   s.ArriveSlowRadius,
	}
}

// TurnToward returns the angular correction from heading to target, capped
// in magnitude.
func TurnToward(heading, target, limit float64) float64 {
	d := components.NormalizeAngle(target - heading)
	return math.Copysign(math.Min(math.Abs(d), limit), d)
}

func forwardAccel(a *components.Agent, scale float64) components.Vec2 {
	return a.Forward().Scale(a.MaxAccel * scale)
}

// Wander drifts the heading by bounded random jitter. The turn speed is
// re-rolled on the agent's clock.
func Wander(a *components.Agent, dt float64, rng *rand.Rand, p Params) Steering {
	w := &a.Wander
	if a.Clock >= w.NextChange {
		w.TurnSpeed = p.WanderTurnSpeedMin + rng.Float64()*(p.WanderTurnSpeedMax-p.WanderTurnSpeedMin)
		w.NextChange = a.Clock + p.WanderChangeMin + rng.Float64()*(p.WanderChangeMax-p.WanderChangeMin)
	}

	w.Angle += (rng.Float64() - 0.5) * p.WanderStrength * dt
	w.Angle = math.Max(-p.WanderMaxAngle, math.Min(p.WanderMaxAngle, w.Angle))

	return Steering{
		Linear:  forwardAccel(a, 1),
		Angular: TurnToward(a.Heading, a.Heading+w.Angle, a.MaxAngularAccel*w.TurnSpeed),
	}
}

// Seek turns hard towards target and accelerates at full pursuit strength.
func Seek(a *components.Agent, target components.Vec2, p Params) Steering {
	return Steering{
		Linear:  forwardAccel(a, p.SeekLinear),
		Angular: TurnToward(a.Heading, components.Bearing(a.Position, target), a.MaxAngularAccel*p.SeekAngular),
	}
}

// Arrive heads for target and eases off inside slowRadius.
func Arrive(a *components.Agent, target components.Vec2, slowRadius float64) Steering {
	d := a.Position.Dist(target)
	factor := 1.0
	if slowRadius > 0 {
		factor = math.Min(d/slowRadius, 1)
	} else if d == 0 {
		factor = 0
	}
	return Steering{
		Linear:  forwardAccel(a, factor),
		Angular: TurnToward(a.Heading, components.Bearing(a.Position, target), a.MaxAngularAccel),
	}
}

// Flee turns away from threat and accelerates.
func Flee(a *components.Agent, threat components.Vec2, p Params) Steering {
	return Steering{
		Linear:  forwardAccel(a, p.FleeLinear),
		Angular: TurnToward(a.Heading, components.Bearing(threat, a.Position), a.MaxAngularAccel*p.FleeAngular),
	}
}

// Face turns towards a heading without moving.
func Face(a *components.Agent, heading, limit float64) Steering {
	return Steering{Angular: TurnToward(a.Heading, heading, limit)}
}

// Combine sums weighted outputs. The result is not clamped.
func Combine(items ...Weighted) Steering {
	var out Steering
	for _, it := range items {
		out.Linear.X += it.Steering.Linear.X * it.Weight
		out.Linear.Z += it.Steering.Linear.Z * it.Weight
		out.Angular += it.Steering.Angular * it.Weight
	}
	return out
}
