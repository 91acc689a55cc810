package steering

import (
	"math/rand"

	"github.com/pthm-cable/hunter/components"
	"github.com/pthm-cable/hunter/config"
)

// timerEpsilon absorbs drift from summing dt, so a timer that lands on
// Time after a whole number of ticks does not count as past it.
const timerEpsilon = 1e-9

// StuckParams tunes stuck detection and the escape manoeuvre.
type StuckParams struct {
	MinSpeed      float64 // Target speed below which the agent is not trying to move
	MoveThreshold float64 // Per-tick displacement that counts as moving
	Time          float64 // Seconds without displacement before stuck
	TurnMin       float64 // Escape turn, radians
	TurnMax       float64
	Impulse       float64 // Escape speed as a fraction of the speed cap
}

// StuckParamsFrom reads stuck tuning from the config.
func StuckParamsFrom(cfg *config.Config) StuckParams {
	a := cfg.Avoidance
	return StuckParams{
		MinSpeed:      a.StuckMinSpeed,
		MoveThreshold: a.StuckMoveThreshold,
		Time:          a.StuckTime,
		TurnMin:       cfg.Derived.EscapeTurnMin,
		TurnMax:       cfg.Derived.EscapeTurnMax,
		Impulse:       a.EscapeImpulse,
	}
}

// IsStuck tracks real displacement between calls. Velocity is not used since
// contact resolution can leave it non-zero while the body goes nowhere. The
// first call after a reset only records the position.
func IsStuck(a *components.Agent, targetSpeed, dt float64, p StuckParams) bool {
	s := &a.Stuck
	if !s.Tracking {
		s.LastPosition = a.Position
		s.Tracking = true
		s.Timer = 0
		return false
	}

	moved := a.Position.Dist(s.LastPosition)
	s.LastPosition = a.Position

	if targetSpeed > p.MinSpeed && moved < p.MoveThreshold {
		s.Timer += dt
	} else {
		s.Timer = 0
	}
	return s.Timer > p.Time+timerEpsilon
}

// Unstuck spins the agent by a large random turn and kicks it forward.
// It returns the signed turn applied.
func Unstuck(a *components.Agent, rng *rand.Rand, p StuckParams) float64 {
	turn := p.TurnMin + rng.Float64()*(p.TurnMax-p.TurnMin)
	if rng.Float64() < 0.5 {
		turn = -turn
	}

	a.Heading = components.NormalizeAngle(a.Heading + turn)
	a.Stuck = components.StuckState{}
	a.Velocity = a.Forward().Scale(a.SpeedCap() * p.Impulse)
	return turn
}
