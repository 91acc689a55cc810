// Package components defines ECS components for the hunter simulation.
package components

import (
	"github.com/google/uuid"

	"github.com/pthm-cable/hunter/config"
)

// AIState is the hunter's active behaviour. Exactly one is active at a time.
type AIState uint8

const (
	StatePatrol AIState = iota
	StateInvestigate
	StateHunt
	StateSearch
)

func (s AIState) String() string {
	switch s {
	case StatePatrol:
		return "PATROL"
	case StateInvestigate:
		return "INVESTIGATE"
	case StateHunt:
		return "HUNT"
	case StateSearch:
		return "SEARCH"
	default:
		return "UNKNOWN"
	}
}

// PatrolMode selects the steering used while patrolling.
type PatrolMode uint8

const (
	PatrolWander PatrolMode = iota
	PatrolWaypoints
	PatrolGuard
)

// ParsePatrolMode maps a config string to a PatrolMode, defaulting to wander.
func ParsePatrolMode(s string) PatrolMode {
	switch s {
	case "waypoints":
		return PatrolWaypoints
	case "guard":
		return PatrolGuard
	default:
		return PatrolWander
	}
}

// Identity labels a hunter entity.
type Identity struct {
	ID    uuid.UUID `inspect:"label"`
	Index uint32    `inspect:"label"`
}

// NewIdentity creates an identity with a fresh random UUID.
func NewIdentity(index uint32) Identity {
	return Identity{ID: uuid.New(), Index: index}
}

// Obstacle is a static axis-aligned box collider on the ground plane.
type Obstacle struct {
	Position  Vec2
	HalfWidth float64 // Extent along X
	HalfDepth float64 // Extent along Z
}

// Contains reports whether p lies inside or on the box.
func (o Obstacle) Contains(p Vec2) bool {
	return p.X >= o.Position.X-o.HalfWidth && p.X <= o.Position.X+o.HalfWidth &&
		p.Z >= o.Position.Z-o.HalfDepth && p.Z <= o.Position.Z+o.HalfDepth
}

// Corners returns the four box corners.
func (o Obstacle) Corners() [4]Vec2 {
	p := o.Position
	return [4]Vec2{
		{p.X - o.HalfWidth, p.Z - o.HalfDepth},
		{p.X + o.HalfWidth, p.Z - o.HalfDepth},
		{p.X - o.HalfWidth, p.Z + o.HalfDepth},
		{p.X + o.HalfWidth, p.Z + o.HalfDepth},
	}
}

// VisionBase is the unmodulated vision cone.
type VisionBase struct {
	Range float64
	Angle float64 // Full cone, degrees
}

// VisionState persists the smoothed look distance and the last computed cone.
type VisionState struct {
	SmoothedTargetDistance float64 `inspect:"label,fmt:%.2f"`
	Range                  float64 `inspect:"label,fmt:%.2f"`
	Angle                  float64 `inspect:"label,fmt:%.1f"`
	Focusing               bool    `inspect:"bool"`
}

// StuckState tracks displacement for stuck detection.
type StuckState struct {
	Timer        float64 // Seconds without meaningful displacement
	LastPosition Vec2
	Tracking     bool // LastPosition holds a sample
}

// WanderState holds the wander jitter between ticks.
type WanderState struct {
	Angle      float64
	TurnSpeed  float64
	NextChange float64 // Agent clock time of the next turn-speed re-roll
}

// GuardMode is the guard patrol's current tempo.
type GuardMode uint8

const (
	GuardOrbit GuardMode = iota
	GuardReposition
	GuardPause
)

// GuardState is the optional sub-state of the guard patrol.
type GuardState struct {
	ScanTarget   float64 // Heading the guard wants to look along
	ScanObstacle int     // Index of the scanned obstacle, -1 for none
	ScanTimer    float64

	OrbitAngle     float64
	OrbitDirection float64 // +1 or -1
	TargetOrbit    float64
	Repositioning  bool

	Mode      GuardMode
	MoveMult  float64
	TurnMult  float64
	TempoTime float64
	NextTempo float64
}

// Agent is the hunter's full decision and kinematic record.
type Agent struct {
	State AIState `inspect:"label"`

	Position Vec2
	Heading  float64 `inspect:"angle"`
	Velocity Vec2

	MaxSpeed        float64 `inspect:"skip"`
	MaxSpeedHunting float64 `inspect:"skip"`
	MaxAccel        float64 `inspect:"skip"`
	MaxAngularAccel float64 `inspect:"skip"`

	Vision       VisionBase `inspect:"skip"`
	HearingRange float64    `inspect:"skip"`
	VisionState  VisionState

	LastHeard *Vec2
	LastKnown *Vec2

	Guard      *GuardState `inspect:"skip"`
	GuardPoint Vec2        `inspect:"skip"`
	PatrolMode PatrolMode  `inspect:"skip"`

	Stuck  StuckState  `inspect:"skip"`
	Wander WanderState `inspect:"skip"`

	PatrolPoints []Vec2 `inspect:"skip"`
	PatrolIndex  int    `inspect:"label"`

	InvestigateStuckCount int     `inspect:"label"`
	LookAroundTime        float64 `inspect:"label,fmt:%.1fs"`
	StateTime             float64 `inspect:"label,fmt:%.1fs"`
	ReactionTime          float64 `inspect:"skip"`

	InvestigateDuration float64 `inspect:"skip"`
	SearchDuration      float64 `inspect:"skip"`

	Clock float64 `inspect:"label,fmt:%.1fs"` // Simulation seconds since spawn
}

// NewAgent builds a patrolling agent at rest from the configuration.
func NewAgent(cfg *config.Config, pos Vec2, heading float64) Agent {
	h := cfg.Hunter
	points := make([]Vec2, len(h.PatrolPoints))
	for i, p := range h.PatrolPoints {
		points[i] = Vec2{p[0], p[1]}
	}

	a := Agent{
		State:           StatePatrol,
		Position:        pos,
		Heading:         NormalizeAngle(heading),
		MaxSpeed:        h.MaxSpeed,
		MaxSpeedHunting: h.MaxSpeedHunting,
		MaxAccel:        h.MaxAccel,
		MaxAngularAccel: h.MaxAngularAccel,
		Vision:          VisionBase{Range: cfg.Vision.Range, Angle: cfg.Vision.Angle},
		HearingRange:    cfg.Hearing.Range,
		VisionState: VisionState{
			SmoothedTargetDistance: cfg.Vision.Range * 0.5,
			Range:                  cfg.Vision.Range,
			Angle:                  cfg.Vision.Angle,
		},
		GuardPoint:          Vec2{h.GuardPoint[0], h.GuardPoint[1]},
		PatrolMode:          ParsePatrolMode(h.PatrolMode),
		PatrolPoints:        points,
		InvestigateDuration: cfg.States.InvestigateDuration,
		SearchDuration:      cfg.States.SearchDuration,
		Wander:              WanderState{TurnSpeed: 1},
	}
	return a
}

// SpeedCap returns the speed limit for the active state.
func (a *Agent) SpeedCap() float64 {
	if a.State == StateHunt && a.MaxSpeedHunting > 0 {
		return a.MaxSpeedHunting
	}
	return a.MaxSpeed
}

// Forward returns the unit vector along the agent's heading.
func (a *Agent) Forward() Vec2 {
	return Forward(a.Heading)
}
