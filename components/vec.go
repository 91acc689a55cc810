package components

import (
	"fmt"
	"math"
)

// Vec2 is a point or direction on the ground plane. Heading 0 faces +Z and
// increasing heading turns towards +X.
type Vec2 struct {
	X, Z float64
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Z)
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Z + o.Z} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Z - o.Z} }

// Scale returns v*s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Z * s} }

// Dot returns the dot product.
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Z*o.Z }

// Len returns the vector magnitude.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Z) }

// Dist returns the distance between two points.
func (v Vec2) Dist(o Vec2) float64 { return math.Hypot(o.X-v.X, o.Z-v.Z) }

// Normalize returns the unit vector, or zero for a zero vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Z / l}
}

// Forward returns the unit direction for a heading.
func Forward(heading float64) Vec2 {
	return Vec2{math.Sin(heading), math.Cos(heading)}
}

// Bearing returns the heading that faces from one point towards another.
func Bearing(from, to Vec2) float64 {
	return math.Atan2(to.X-from.X, to.Z-from.Z)
}

// NormalizeAngle wraps an angle into (-π, π].
func NormalizeAngle(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0
	}
	if a > math.Pi || a <= -math.Pi {
		a = math.Mod(a, 2*math.Pi)
	}
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
