package systems

import (
	"math"

	"github.com/pthm-cable/hunter/components"
	"github.com/pthm-cable/hunter/steering"
)

// Integrate applies one tick of steering to the agent. Velocity is in units
// per tick, linear acceleration in units per tick per second.
func Integrate(a *components.Agent, s steering.Steering, dt, friction float64) {
	a.Velocity = a.Velocity.Add(s.Linear.Scale(dt))
	a.Velocity = limitSpeed(a.Velocity, a.SpeedCap())
	a.Velocity = a.Velocity.Scale(friction)
	a.Position = a.Position.Add(a.Velocity)
	a.Heading = components.NormalizeAngle(a.Heading + s.Angular*dt)
}

// ResolveContacts pushes a round body of the given radius out of any box it
// overlaps, along the axis of least penetration. Velocity into the face is
// cancelled.
func ResolveContacts(a *components.Agent, obstacles []components.Obstacle, radius float64) {
	for _, o := range obstacles {
		dx := a.Position.X - o.Position.X
		dz := a.Position.Z - o.Position.Z
		penX := o.HalfWidth + radius - abs(dx)
		penZ := o.HalfDepth + radius - abs(dz)
		if penX <= 0 || penZ <= 0 {
			continue
		}

		if penX < penZ {
			s := sign(dx)
			a.Position.X += s * penX
			if a.Velocity.X*s < 0 {
				a.Velocity.X = 0
			}
		} else {
			s := sign(dz)
			a.Position.Z += s * penZ
			if a.Velocity.Z*s < 0 {
				a.Velocity.Z = 0
			}
		}
	}
}

// KeepInArena clamps the agent inside a centred rectangle and cancels
// velocity into the wall.
func KeepInArena(a *components.Agent, halfWidth, halfDepth float64) {
	if a.Position.X > halfWidth {
		a.Position.X = halfWidth
		a.Velocity.X = math.Min(a.Velocity.X, 0)
	} else if a.Position.X < -halfWidth {
		a.Position.X = -halfWidth
		a.Velocity.X = math.Max(a.Velocity.X, 0)
	}
	if a.Position.Z > halfDepth {
		a.Position.Z = halfDepth
		a.Velocity.Z = math.Min(a.Velocity.Z, 0)
	} else if a.Position.Z < -halfDepth {
		a.Position.Z = -halfDepth
		a.Velocity.Z = math.Max(a.Velocity.Z, 0)
	}
}
