package game

import (
	"github.com/pthm-cable/hunter/components"
	"github.com/pthm-cable/hunter/perception"
	"github.com/pthm-cable/hunter/systems"
)

// playerLocator reports the scripted player to hunters that can see or hear it.
type playerLocator struct {
	player  *Player
	hearing perception.HearingParams
}

func (l *playerLocator) Locate(_ components.Identity, a *components.Agent, v perception.Vision, world systems.WorldView) systems.Stimulus {
	p := l.player
	if p.Caught {
		return systems.Stimulus{}
	}

	at := p.Position
	if perception.CanSee(a.Position, a.Heading, v, at, world.Sightline(a.Position, at)) {
		return systems.Stimulus{Sighting: &at}
	}
	if perception.Hear(a.Position, a.HearingRange, p.Sound(), l.hearing) {
		return systems.Stimulus{Noise: &at}
	}
	return systems.Stimulus{}
}
