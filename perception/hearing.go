package perception

import (
	"math"

	"github.com/pthm-cable/hunter/components"
	"github.com/pthm-cable/hunter/config"
)

// HearingParams scales how far footsteps carry.
type HearingParams struct {
	BaseVolume      float64
	MinLevel        float64
	SneakMultiplier float64
}

// HearingParamsFrom reads hearing tuning from the config.
func HearingParamsFrom(cfg *config.Config) HearingParams {
	h := cfg.Hearing
	return HearingParams{
		BaseVolume:      h.BaseVolume,
		MinLevel:        h.MinLevel,
		SneakMultiplier: h.SneakMultiplier,
	}
}

// Sound describes a moving noise source.
type Sound struct {
	Position components.Vec2
	Speed    float64
	MaxSpeed float64
	Sneaking bool
}

// SoundLevel returns the loudness of a source in [0, 1].
func SoundLevel(s Sound, p HearingParams) float64 {
	var n float64
	if s.MaxSpeed > 0 {
		n = math.Min(s.Speed/s.MaxSpeed, 1)
	}
	level := p.BaseVolume + n*(1-p.BaseVolume)
	if s.Sneaking {
		level *= p.SneakMultiplier
	}
	return level
}

// EffectiveRange is the distance at which a sound of the given level is heard.
func EffectiveRange(hearingRange, level float64, p HearingParams) float64 {
	return hearingRange * math.Max(level, p.MinLevel)
}

// Hear reports whether a listener picks up a moving source. Stationary
// sources make no sound.
func Hear(listener components.Vec2, hearingRange float64, s Sound, p HearingParams) bool {
	if s.Speed <= 0 {
		return false
	}
	return listener.Dist(s.Position) <= EffectiveRange(hearingRange, SoundLevel(s, p), p)
}
