package steering

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/hunter/components"
	"github.com/pthm-cable/hunter/config"
)

// GuardParams tunes the guard-a-point patrol.
type GuardParams struct {
	OrbitRadius     float64
	MaxDistance     float64 // Beyond this the guard heads back
	MinDistance     float64 // Inside this the guard backs off
	SettleDistance  float64 // Tempo only changes once this close to the orbit slot
	ArriveDistance  float64
	OrbitSpeed      float64 // rad/s around the point
	RepositionSpeed float64
	ScanInterval    float64 // Seconds per scan target at turn multiplier 1
	TempoChangeMin  float64
	TempoChangeMax  float64
}

// GuardParamsFrom reads guard tuning from the config.
func GuardParamsFrom(cfg *config.Config) GuardParams {
	g := cfg.Guard
	return GuardParams{
		OrbitRadius:     g.OrbitRadius,
		MaxDistance:     g.MaxDistance,
		MinDistance:     g.MinDistance,
		SettleDistance:  g.SettleDistance,
		ArriveDistance:  g.ArriveDistance,
		OrbitSpeed:      g.OrbitSpeed,
		RepositionSpeed: g.RepositionSpeed,
		ScanInterval:    g.ScanInterval,
		TempoChangeMin:  g.TempoChangeMin,
		TempoChangeMax:  g.TempoChangeMax,
	}
}

// NewGuardState starts an orbit at a random angle and direction.
func NewGuardState(rng *rand.Rand, p GuardParams) *components.GuardState {
	dir := 1.0
	if rng.Float64() < 0.5 {
		dir = -1
	}
	return &components.GuardState{
		ScanObstacle:   -1,
		OrbitAngle:     components.NormalizeAngle(rng.Float64() * 2 * math.Pi),
		OrbitDirection: dir,
		MoveMult:       1,
		TurnMult:       1,
		NextTempo:      p.TempoChangeMin + 1,
	}
}

// Guard circles center and sweeps its gaze across the obstacles a player
// could hide behind. The tempo changes at random once the guard is settled
// on its orbit.
func Guard(a *components.Agent, center components.Vec2, obstacles []components.Obstacle, dt float64, rng *rand.Rand, p GuardParams) Steering {
	if a.Guard == nil {
		a.Guard = NewGuardState(rng, p)
	}
	g := a.Guard

	slot := center.Add(components.Forward(g.OrbitAngle).Scale(p.OrbitRadius))
	g.TempoTime += dt
	if g.TempoTime > g.NextTempo && a.Position.Dist(slot) < p.SettleDistance {
		rollTempo(g, rng, p)
	}

	fromCenter := a.Position.Dist(center)
	switch {
	case fromCenter > p.MaxDistance:
		return returnTo(a, center, p)
	case fromCenter < p.MinDistance:
		return backOff(a, center, rng)
	}

	if g.Repositioning {
		diff := components.NormalizeAngle(g.TargetOrbit - g.OrbitAngle)
		step := p.RepositionSpeed * dt
		if math.Abs(diff) < step {
			g.OrbitAngle = g.TargetOrbit
			g.Repositioning = false
		} else {
			g.OrbitAngle += math.Copysign(step, diff)
		}
	} else {
		g.OrbitAngle += g.OrbitDirection * p.OrbitSpeed * g.MoveMult * dt
	}
	g.OrbitAngle = components.NormalizeAngle(g.OrbitAngle)

	var out Steering
	slot = center.Add(components.Forward(g.OrbitAngle).Scale(p.OrbitRadius))
	if a.Position.Dist(slot) > p.ArriveDistance {
		dir := components.Forward(components.Bearing(a.Position, slot))
		out.Linear = dir.Scale(a.MaxAccel * g.MoveMult)
	}

	g.ScanTimer += dt
	if g.ScanTimer > p.ScanInterval/g.TurnMult {
		g.ScanTimer = 0
		if len(obstacles) > 0 {
			g.ScanObstacle = (g.ScanObstacle + 1) % len(obstacles)
			g.ScanTarget = components.Bearing(a.Position, obstacles[g.ScanObstacle].Position)
		} else {
			// Nothing to check: glance across to the far side of the point
			g.ScanObstacle = -1
			g.ScanTarget = components.Bearing(center, a.Position) + math.Pi + (rng.Float64()-0.5)*math.Pi/2
		}
	}
	out.Angular = TurnToward(a.Heading, g.ScanTarget, a.MaxAngularAccel*g.TurnMult)
	return out
}

func rollTempo(g *components.GuardState, rng *rand.Rand, p GuardParams) {
	g.TempoTime = 0
	g.NextTempo = p.TempoChangeMin + rng.Float64()*(p.TempoChangeMax-p.TempoChangeMin)

	switch roll := rng.Float64(); {
	case roll < 0.20:
		g.Mode = components.GuardPause
		g.MoveMult, g.TurnMult = 0, 3
		g.NextTempo = 1 + rng.Float64()*2
	case roll < 0.35:
		g.Mode = components.GuardReposition
		g.TargetOrbit = components.NormalizeAngle(g.OrbitAngle + math.Pi + (rng.Float64()-0.5)*math.Pi/3)
		g.Repositioning = true
		g.MoveMult, g.TurnMult = 2, 3
	case roll < 0.55:
		g.Mode = components.GuardOrbit
		g.MoveMult, g.TurnMult = 0.3, 2.5
	case roll < 0.70:
		g.Mode = components.GuardOrbit
		g.MoveMult, g.TurnMult = 1.6, 1.5
		g.OrbitDirection = -g.OrbitDirection
	default:
		g.Mode = components.GuardOrbit
		g.MoveMult, g.TurnMult = 1, 1
	}
}

func returnTo(a *components.Agent, center components.Vec2, p GuardParams) Steering {
	d := a.Position.Dist(center)
	urgency := math.Min(math.Max(0, d-p.OrbitRadius)/3, 1)
	bearing := components.Bearing(a.Position, center)
	return Steering{
		Linear:  components.Forward(bearing).Scale(a.MaxAccel * 1.5 * urgency),
		Angular: TurnToward(a.Heading, bearing, a.MaxAngularAccel*2),
	}
}

func backOff(a *components.Agent, center components.Vec2, rng *rand.Rand) Steering {
	var away float64
	if a.Position.Dist(center) < 0.1 {
		away = rng.Float64() * 2 * math.Pi
	} else {
		away = components.Bearing(center, a.Position)
	}
	return Steering{
		Linear:  components.Forward(away).Scale(a.MaxAccel),
		Angular: TurnToward(a.Heading, away, a.MaxAngularAccel),
	}
}
