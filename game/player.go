package game

import (
	"math/rand"

	"github.com/pthm-cable/hunter/components"
	"github.com/pthm-cable/hunter/config"
	"github.com/pthm-cable/hunter/perception"
)

// Player is the scripted hider used in headless rounds. It walks a fixed
// waypoint loop and sneaks on some legs.
type Player struct {
	Position components.Vec2
	Velocity components.Vec2 // Units per tick
	Sneaking bool
	Caught   bool

	waypoints   []components.Vec2
	next        int
	spawn       components.Vec2
	speed       float64
	sneakSpeed  float64
	sneakChance float64
}

// NewPlayer creates a player at its spawn point.
func NewPlayer(cfg *config.Config) *Player {
	pc := cfg.Player
	p := &Player{
		spawn:       components.Vec2{X: pc.Spawn[0], Z: pc.Spawn[1]},
		speed:       pc.Speed,
		sneakSpeed:  pc.SneakSpeed,
		sneakChance: pc.SneakChance,
	}
	for _, w := range pc.Waypoints {
		p.waypoints = append(p.waypoints, components.Vec2{X: w[0], Z: w[1]})
	}
	p.Reset()
	return p
}

// Reset returns the player to spawn, walking, heading for the first waypoint.
func (p *Player) Reset() {
	p.Position = p.spawn
	p.Velocity = components.Vec2{}
	p.Sneaking = false
	p.Caught = false
	p.next = 0
}

// Update advances the player one tick along its route.
func (p *Player) Update(rng *rand.Rand) {
	if p.Caught || len(p.waypoints) == 0 {
		p.Velocity = components.Vec2{}
		return
	}

	speed := p.speed
	if p.Sneaking {
		speed = p.sneakSpeed
	}

	target := p.waypoints[p.next]
	d := p.Position.Dist(target)
	if d <= speed {
		p.Velocity = target.Sub(p.Position)
		p.Position = target
		p.next = (p.next + 1) % len(p.waypoints)
		p.Sneaking = rng.Float64() < p.sneakChance
		return
	}

	p.Velocity = target.Sub(p.Position).Scale(speed / d)
	p.Position = p.Position.Add(p.Velocity)
}

// Sound describes the player's footsteps this tick.
func (p *Player) Sound() perception.Sound {
	return perception.Sound{
		Position: p.Position,
		Speed:    p.Velocity.Len(),
		MaxSpeed: p.speed,
		Sneaking: p.Sneaking,
	}
}
