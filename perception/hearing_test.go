package perception

import (
	"math"
	"testing"

	"github.com/pthm-cable/hunter/components"
	"github.com/pthm-cable/hunter/config"
)

func TestSoundLevel(t *testing.T) {
	p := HearingParamsFrom(config.Cfg())

	tests := []struct {
		name  string
		sound Sound
		want  float64
	}{
		{"standing", Sound{Speed: 0, MaxSpeed: 0.1}, 0.3},
		{"half speed", Sound{Speed: 0.05, MaxSpeed: 0.1}, 0.65},
		{"full speed", Sound{Speed: 0.1, MaxSpeed: 0.1}, 1.0},
		{"over speed clamps", Sound{Speed: 0.5, MaxSpeed: 0.1}, 1.0},
		{"sneaking full speed", Sound{Speed: 0.1, MaxSpeed: 0.1, Sneaking: true}, 0.3},
		{"no max speed", Sound{Speed: 0.1}, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SoundLevel(tt.sound, p); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SoundLevel = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEffectiveRangeFloor(t *testing.T) {
	p := HearingParamsFrom(config.Cfg())
	if got := EffectiveRange(8, 0.01, p); math.Abs(got-0.8) > 1e-9 {
		t.Errorf("EffectiveRange below floor = %v, want 0.8", got)
	}
	if got := EffectiveRange(8, 1, p); got != 8 {
		t.Errorf("EffectiveRange at full = %v, want 8", got)
	}
}

func TestHear(t *testing.T) {
	p := HearingParamsFrom(config.Cfg())
	listener := components.Vec2{}

	running := Sound{Position: components.Vec2{X: 7}, Speed: 0.1, MaxSpeed: 0.1}
	if !Hear(listener, 8, running, p) {
		t.Error("running player at 7 should be heard with range 8")
	}

	sneaking := running
	sneaking.Sneaking = true
	if Hear(listener, 8, sneaking, p) {
		t.Error("sneaking player at 7 should not be heard")
	}

	still := running
	still.Speed = 0
	still.Position = components.Vec2{X: 1}
	if Hear(listener, 8, still, p) {
		t.Error("stationary source should make no sound")
	}
}

func TestCanSee(t *testing.T) {
	v := Vision{Range: 12, Angle: 60}
	pos := components.Vec2{}

	if !CanSee(pos, 0, v, components.Vec2{Z: 10}, nil) {
		t.Error("target straight ahead should be visible")
	}
	if CanSee(pos, 0, v, components.Vec2{Z: 13}, nil) {
		t.Error("target beyond range should not be visible")
	}
	if CanSee(pos, 0, v, components.Vec2{X: 5, Z: 5}, nil) {
		t.Error("target at 45 degrees is outside a 60 degree cone")
	}
	if CanSee(pos, math.Pi, v, components.Vec2{Z: 5}, nil) {
		t.Error("target behind should not be visible")
	}
	wall := []components.Obstacle{box(0, 5, 2, 0.5)}
	if CanSee(pos, 0, v, components.Vec2{Z: 10}, wall) {
		t.Error("target behind a wall should not be visible")
	}
}
