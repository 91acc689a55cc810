// Package systems runs the hunter pipeline each tick: perception, the
// decision state machine, steering and integration.
package systems

import (
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/hunter/components"
	"github.com/pthm-cable/hunter/config"
	"github.com/pthm-cable/hunter/perception"
	"github.com/pthm-cable/hunter/steering"
	"github.com/pthm-cable/hunter/telemetry"
)

// Stimulus is what the hunter noticed about the player this tick.
type Stimulus struct {
	Sighting *components.Vec2 // Player position if seen
	Noise    *components.Vec2 // Player position if heard
}

// Frame identifies the tick and hunter for events and logs.
type Frame struct {
	Tick   int32
	Hunter uint32
}

// BrainParams holds everything the state machine reads from config.
type BrainParams struct {
	Vision    perception.VisionParams
	Steering  steering.Params
	Avoidance steering.AvoidanceParams
	Stuck     steering.StuckParams
	Guard     steering.GuardParams

	AvoidWeight           float64
	ArriveRadius          float64
	WaypointRadius        float64
	InvestigateSlowRadius float64
	InvestigateLookAhead  float64
	MaxStuckEpisodes      int
	LookAroundRate        float64
	ReactionTime          float64

	Friction       float64
	BodyRadius     float64
	ArenaHalfWidth float64 // 0 leaves the arena unbounded
	ArenaHalfDepth float64
}

// BrainParamsFrom reads state machine tuning from the config.
func BrainParamsFrom(cfg *config.Config) BrainParams {
	st := cfg.States
	return BrainParams{
		Vision:                perception.VisionParamsFrom(cfg),
		Steering:              steering.ParamsFrom(cfg),
		Avoidance:             steering.AvoidanceParamsFrom(cfg),
		Stuck:                 steering.StuckParamsFrom(cfg),
		Guard:                 steering.GuardParamsFrom(cfg),
		AvoidWeight:           cfg.Avoidance.Weight,
		ArriveRadius:          st.ArriveRadius,
		WaypointRadius:        st.WaypointRadius,
		InvestigateSlowRadius: st.InvestigateSlowRadius,
		InvestigateLookAhead:  st.InvestigateLookAhead,
		MaxStuckEpisodes:      st.MaxStuckEpisodes,
		LookAroundRate:        st.LookAroundRate,
		ReactionTime:          st.ReactionTime,
		Friction:              cfg.Physics.Friction,
		BodyRadius:            cfg.Hunter.Radius,
		ArenaHalfWidth:        cfg.Arena.Width / 2,
		ArenaHalfDepth:        cfg.Arena.Depth / 2,
	}
}

// Brain is the PATROL / INVESTIGATE / HUNT / SEARCH state machine. It holds
// no per-agent state; everything lives on the Agent component.
type Brain struct {
	params BrainParams
	rng    *rand.Rand
	sink   func(telemetry.Event)
}

// NewBrain creates a brain. sink may be nil.
func NewBrain(p BrainParams, rng *rand.Rand, sink func(telemetry.Event)) *Brain {
	return &Brain{params: p, rng: rng, sink: sink}
}

// Params returns the brain's tuning.
func (b *Brain) Params() BrainParams {
	return b.params
}

func (b *Brain) emit(ev telemetry.Event) {
	if b.sink != nil {
		b.sink(ev)
	}
}

// Perceive computes this tick's vision cone from what the agent is attending to.
func (b *Brain) Perceive(a *components.Agent, world WorldView) perception.Vision {
	var scan perception.ScanTarget
	switch a.State {
	case components.StatePatrol:
		scan = perception.ScanTargetFor(a, world.Obstacles(), b.params.Vision)
	case components.StateInvestigate:
		if a.LastHeard != nil {
			scan = perception.ScanPoint(*a.LastHeard)
		}
	case components.StateHunt, components.StateSearch:
		if a.LastKnown != nil {
			scan = perception.ScanPoint(*a.LastKnown)
		}
	}
	return perception.ComputeVision(a, scan, b.params.Vision)
}

// Tick advances the agent by dt: react to the stimulus, run the active
// state, then integrate. It returns the steering that was applied.
func (b *Brain) Tick(f Frame, a *components.Agent, world WorldView, stim Stimulus, dt float64) steering.Steering {
	a.Clock += dt
	a.StateTime += dt

	b.react(f, a, stim)

	var s steering.Steering
	switch a.State {
	case components.StatePatrol:
		s = b.patrol(f, a, world, dt)
	case components.StateInvestigate:
		s = b.investigate(f, a, world, dt)
	case components.StateHunt:
		s = b.hunt(f, a, world, dt, stim.Sighting != nil)
	case components.StateSearch:
		s = b.search(f, a, world, dt)
	}

	Integrate(a, s, dt, b.params.Friction)
	if b.params.BodyRadius > 0 {
		ResolveContacts(a, world.Near(a.Position, b.params.BodyRadius), b.params.BodyRadius)
	}
	if b.params.ArenaHalfWidth > 0 && b.params.ArenaHalfDepth > 0 {
		KeepInArena(a, b.params.ArenaHalfWidth-b.params.BodyRadius, b.params.ArenaHalfDepth-b.params.BodyRadius)
	}
	return s
}

func (b *Brain) react(f Frame, a *components.Agent, stim Stimulus) {
	if stim.Sighting != nil {
		p := *stim.Sighting
		a.LastKnown = &p
		if a.State != components.StateHunt {
			b.emit(telemetry.NewSightingEvent(f.Tick, f.Hunter, p))
			b.transition(f, a, components.StateHunt, "sighted")
		}
		return
	}

	if stim.Noise != nil {
		p := *stim.Noise
		switch a.State {
		case components.StatePatrol, components.StateSearch:
			a.LastHeard = &p
			b.emit(telemetry.NewNoiseEvent(f.Tick, f.Hunter, p))
			b.transition(f, a, components.StateInvestigate, "heard")
		case components.StateInvestigate:
			a.LastHeard = &p
		}
	}
}

// transition switches state and resets all per-state bookkeeping.
func (b *Brain) transition(f Frame, a *components.Agent, to components.AIState, reason string) {
	from := a.State
	a.State = to
	a.InvestigateStuckCount = 0
	a.LookAroundTime = 0
	a.StateTime = 0
	a.ReactionTime = 0
	a.Stuck = components.StuckState{}

	b.emit(telemetry.NewStateChangeEvent(f.Tick, f.Hunter, from, to, reason))
	slog.Debug("state change",
		"hunter", f.Hunter,
		"tick", f.Tick,
		"from", from.String(),
		"to", to.String(),
		"reason", reason,
	)
}

// withAvoidance blends a goal behaviour with obstacle avoidance.
func (b *Brain) withAvoidance(a *components.Agent, world WorldView, goal steering.Steering, lookAhead float64) steering.Steering {
	near := world.Near(a.Position, b.params.Avoidance.Reach(lookAhead))
	avoid := steering.Avoid(a, near, lookAhead, b.params.Avoidance)
	return steering.Combine(
		steering.Weighted{Steering: goal, Weight: 1},
		steering.Weighted{Steering: avoid, Weight: b.params.AvoidWeight},
	)
}

// escape runs the unstuck manoeuvre and records it.
func (b *Brain) escape(f Frame, a *components.Agent) {
	at := a.Position
	turn := steering.Unstuck(a, b.rng, b.params.Stuck)
	b.emit(telemetry.NewEscapeEvent(f.Tick, f.Hunter, at, turn))
}

// goalPoint routes towards the nearest visible corner of whatever hides the
// target, switching to the target itself once the corner is reached.
func (b *Brain) goalPoint(a *components.Agent, target components.Vec2, world WorldView) components.Vec2 {
	lt := perception.ResolveLookTarget(a.Position, target, world.Sightline(a.Position, target))
	if lt.IsCorner && a.Position.Dist(lt.Point) > b.params.ArriveRadius {
		return lt.Point
	}
	return target
}

func (b *Brain) patrol(f Frame, a *components.Agent, world WorldView, dt float64) steering.Steering {
	var goal steering.Steering
	switch {
	case a.PatrolMode == components.PatrolGuard:
		// The guard pauses on purpose, so no stuck check
		goal = steering.Guard(a, a.GuardPoint, world.Obstacles(), dt, b.rng, b.params.Guard)
		return b.withAvoidance(a, world, goal, b.params.Avoidance.LookAhead)
	case a.PatrolMode == components.PatrolWaypoints && len(a.PatrolPoints) > 0:
		a.PatrolIndex %= len(a.PatrolPoints)
		if a.Position.Dist(a.PatrolPoints[a.PatrolIndex]) < b.params.WaypointRadius {
			a.PatrolIndex = (a.PatrolIndex + 1) % len(a.PatrolPoints)
		}
		goal = steering.Arrive(a, a.PatrolPoints[a.PatrolIndex], b.params.Steering.ArriveSlowRadius)
	default:
		goal = steering.Wander(a, dt, b.rng, b.params.Steering)
	}

	if steering.IsStuck(a, a.SpeedCap(), dt, b.params.Stuck) {
		b.emit(telemetry.NewStuckEvent(f.Tick, f.Hunter, a.Position, 1))
		b.escape(f, a)
		return steering.Steering{}
	}
	return b.withAvoidance(a, world, goal, b.params.Avoidance.LookAhead)
}

func (b *Brain) investigate(f Frame, a *components.Agent, world WorldView, dt float64) steering.Steering {
	if a.LastHeard == nil {
		b.transition(f, a, components.StatePatrol, "no target")
		return steering.Steering{}
	}
	if a.StateTime > a.InvestigateDuration {
		b.emit(telemetry.NewTimeoutEvent(f.Tick, f.Hunter, a.State))
		a.LastHeard = nil
		b.transition(f, a, components.StatePatrol, "timeout")
		return steering.Steering{}
	}

	target := *a.LastHeard
	if a.Position.Dist(target) > b.params.ArriveRadius {
		if b.checkStuck(f, a, target, dt) {
			if a.InvestigateStuckCount > b.params.MaxStuckEpisodes {
				slog.Info("investigation abandoned",
					"hunter", f.Hunter,
					"tick", f.Tick,
					"target_x", target.X,
					"target_z", target.Z,
					"episodes", a.InvestigateStuckCount,
				)
				b.emit(telemetry.NewGiveUpEvent(f.Tick, f.Hunter, a.State, target))
				a.LastHeard = nil
				b.transition(f, a, components.StatePatrol, "unreachable")
				return steering.Steering{}
			}
			b.escape(f, a)
			return steering.Steering{}
		}

		goal := steering.Arrive(a, b.goalPoint(a, target, world), b.params.InvestigateSlowRadius)
		return b.withAvoidance(a, world, goal, b.params.InvestigateLookAhead)
	}

	// Arrived: stand still and look around
	a.InvestigateStuckCount = 0
	a.Velocity = components.Vec2{}
	a.LookAroundTime += dt
	return steering.Steering{Angular: b.params.LookAroundRate}
}

// checkStuck runs stuck detection towards a goal and counts episodes.
func (b *Brain) checkStuck(f Frame, a *components.Agent, target components.Vec2, dt float64) bool {
	if !steering.IsStuck(a, a.SpeedCap(), dt, b.params.Stuck) {
		return false
	}
	a.InvestigateStuckCount++
	b.emit(telemetry.NewStuckEvent(f.Tick, f.Hunter, a.Position, a.InvestigateStuckCount))
	return true
}

func (b *Brain) hunt(f Frame, a *components.Agent, world WorldView, dt float64, sighted bool) steering.Steering {
	if a.LastKnown == nil {
		b.transition(f, a, components.StatePatrol, "no target")
		return steering.Steering{}
	}
	target := *a.LastKnown
	p := b.params

	if a.ReactionTime < p.ReactionTime {
		a.ReactionTime += dt
		return steering.Face(a, components.Bearing(a.Position, target), a.MaxAngularAccel*p.Steering.SeekAngular)
	}

	if a.Position.Dist(target) <= p.ArriveRadius {
		if !sighted {
			b.transition(f, a, components.StateSearch, "lost")
			return steering.Steering{}
		}
	} else if b.checkStuck(f, a, target, dt) {
		if a.InvestigateStuckCount > p.MaxStuckEpisodes {
			slog.Info("pursuit abandoned",
				"hunter", f.Hunter,
				"tick", f.Tick,
				"target_x", target.X,
				"target_z", target.Z,
				"episodes", a.InvestigateStuckCount,
			)
			b.emit(telemetry.NewGiveUpEvent(f.Tick, f.Hunter, a.State, target))
			b.transition(f, a, components.StateSearch, "unreachable")
			return steering.Steering{}
		}
		b.escape(f, a)
		return steering.Steering{}
	}

	goal := steering.Seek(a, b.goalPoint(a, target, world), p.Steering)
	return b.withAvoidance(a, world, goal, p.Avoidance.LookAhead)
}

func (b *Brain) search(f Frame, a *components.Agent, world WorldView, dt float64) steering.Steering {
	if a.StateTime > a.SearchDuration {
		b.emit(telemetry.NewTimeoutEvent(f.Tick, f.Hunter, a.State))
		a.LastKnown = nil
		b.transition(f, a, components.StatePatrol, "timeout")
		return steering.Steering{}
	}

	goal := steering.Wander(a, dt, b.rng, b.params.Steering)
	if steering.IsStuck(a, a.SpeedCap(), dt, b.params.Stuck) {
		b.emit(telemetry.NewStuckEvent(f.Tick, f.Hunter, a.Position, 1))
		b.escape(f, a)
		return steering.Steering{}
	}
	return b.withAvoidance(a, world, goal, b.params.Avoidance.LookAhead)
}
