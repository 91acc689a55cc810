package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/hunter/components"
	"github.com/pthm-cable/hunter/perception"
)

// TargetLocator reports what a hunter notices about the player given its
// current vision cone.
type TargetLocator interface {
	Locate(id components.Identity, a *components.Agent, v perception.Vision, world WorldView) Stimulus
}

// HunterSystem runs every hunter's perception, decision and movement.
type HunterSystem struct {
	filter  ecs.Filter2[components.Identity, components.Agent]
	brain   *Brain
	locator TargetLocator
	dt      float64
}

// NewHunterSystem creates a hunter system. locator may be nil, in which case
// hunters never notice anything.
func NewHunterSystem(w *ecs.World, brain *Brain, locator TargetLocator, dt float64) *HunterSystem {
	return &HunterSystem{
		filter:  *ecs.NewFilter2[components.Identity, components.Agent](w),
		brain:   brain,
		locator: locator,
		dt:      dt,
	}
}

// Update ticks every hunter once. Perception runs before the locator so the
// cone it is handed is this tick's.
func (s *HunterSystem) Update(tick int32, world WorldView) {
	query := s.filter.Query()
	for query.Next() {
		id, a := query.Get()

		v := s.brain.Perceive(a, world)
		var stim Stimulus
		if s.locator != nil {
			stim = s.locator.Locate(*id, a, v, world)
		}
		s.brain.Tick(Frame{Tick: tick, Hunter: id.Index}, a, world, stim, s.dt)
	}
}
