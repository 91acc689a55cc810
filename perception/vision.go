// Package perception computes what a hunter can see and hear: the dynamic
// vision cone, the hearing radius and corner-aware look targets.
package perception

import (
	"math"

	"github.com/pthm-cable/hunter/components"
	"github.com/pthm-cable/hunter/config"
)

// VisionParams shapes the range/angle trade-off curve.
type VisionParams struct {
	Smoothing           float64
	NearThreshold       float64
	FarThreshold        float64
	NearRangeFactor     float64
	FarRangeFactor      float64
	NearAngleFactor     float64
	FarAngleFactor      float64
	DefaultScanDistance float64
	GuardScanDistance   float64
}

// VisionParamsFrom reads vision tuning from the config.
func VisionParamsFrom(cfg *config.Config) VisionParams {
	v := cfg.Vision
	return VisionParams{
		Smoothing:           v.Smoothing,
		NearThreshold:       v.NearThreshold,
		FarThreshold:        v.FarThreshold,
		NearRangeFactor:     v.NearRangeFactor,
		FarRangeFactor:      v.FarRangeFactor,
		NearAngleFactor:     v.NearAngleFactor,
		FarAngleFactor:      v.FarAngleFactor,
		DefaultScanDistance: v.DefaultScanDistance,
		GuardScanDistance:   v.GuardScanDistance,
	}
}

// Vision is the cone for the current tick.
type Vision struct {
	Range    float64
	Angle    float64 // Full cone, degrees
	Focusing bool
}

// HalfAngle returns half the cone width in radians.
func (v Vision) HalfAngle() float64 {
	return v.Angle * math.Pi / 360
}

type scanKind uint8

const (
	scanNone scanKind = iota
	scanDistance
	scanPoint
)

// ScanTarget is what the hunter is attending to. The zero value means nothing.
type ScanTarget struct {
	kind     scanKind
	distance float64
	point    components.Vec2
}

// ScanDistance attends to something at a known distance.
func ScanDistance(d float64) ScanTarget {
	return ScanTarget{kind: scanDistance, distance: d}
}

// ScanPoint attends to a world point.
func ScanPoint(p components.Vec2) ScanTarget {
	return ScanTarget{kind: scanPoint, point: p}
}

// Point returns the attended world point, if there is one.
func (s ScanTarget) Point() (components.Vec2, bool) {
	return s.point, s.kind == scanPoint
}

// RangeFactor maps a normalised look distance to a range multiplier.
// Near targets shorten the cone slightly, far ones stretch it.
func RangeFactor(n float64, p VisionParams) float64 {
	n = clamp01(n)
	switch {
	case n < p.NearThreshold:
		return p.NearRangeFactor + (n/p.NearThreshold)*(1-p.NearRangeFactor)
	case n <= p.FarThreshold:
		return 1
	default:
		return 1 + (n-p.FarThreshold)/(1-p.FarThreshold)*(p.FarRangeFactor-1)
	}
}

// AngleFactor maps a normalised look distance to a cone width multiplier.
func AngleFactor(n float64, p VisionParams) float64 {
	n = clamp01(n)
	switch {
	case n < p.NearThreshold:
		return p.NearAngleFactor - (n/p.NearThreshold)*(p.NearAngleFactor-1)
	case n <= p.FarThreshold:
		return 1
	default:
		return 1 - (n-p.FarThreshold)/(1-p.FarThreshold)*(1-p.FarAngleFactor)
	}
}

// ComputeVision smooths the look distance and derives this tick's cone.
// The result is cached on the agent's VisionState.
func ComputeVision(a *components.Agent, scan ScanTarget, p VisionParams) Vision {
	base := a.Vision
	if base.Range <= 0 {
		a.VisionState.Range, a.VisionState.Angle, a.VisionState.Focusing = 0, base.Angle, false
		return Vision{Angle: base.Angle}
	}

	var raw float64
	switch scan.kind {
	case scanDistance:
		raw = scan.distance
	case scanPoint:
		raw = a.Position.Dist(scan.point)
	default:
		raw = base.Range * 0.5
	}

	vs := &a.VisionState
	vs.SmoothedTargetDistance = vs.SmoothedTargetDistance*(1-p.Smoothing) + raw*p.Smoothing

	n := math.Min(vs.SmoothedTargetDistance/base.Range, 1)
	v := Vision{
		Range:    base.Range * RangeFactor(n, p),
		Angle:    base.Angle * AngleFactor(n, p),
		Focusing: n > p.FarThreshold,
	}
	vs.Range, vs.Angle, vs.Focusing = v.Range, v.Angle, v.Focusing
	return v
}

// ScanTargetFor picks where an idle hunter looks: straight ahead, or along
// the guard's scan heading out to the obstacle it is checking.
func ScanTargetFor(a *components.Agent, obstacles []components.Obstacle, p VisionParams) ScanTarget {
	if a.Guard == nil {
		return ScanPoint(a.Position.Add(a.Forward().Scale(p.DefaultScanDistance)))
	}

	dist := p.GuardScanDistance
	if i := a.Guard.ScanObstacle; i >= 0 && i < len(obstacles) {
		dist = a.Position.Dist(obstacles[i].Position)
	}
	dir := components.Forward(a.Guard.ScanTarget)
	return ScanPoint(a.Position.Add(dir.Scale(dist)))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
