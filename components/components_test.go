package components

import (
	"math"
	"testing"

	"github.com/pthm-cable/hunter/config"
)

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{5 * math.Pi / 2, math.Pi / 2},
		{0.5 + 4*math.Pi, 0.5},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}

	for _, tt := range tests {
		got := NormalizeAngle(tt.in)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBearingMatchesForward(t *testing.T) {
	for _, h := range []float64{0, 0.7, -2.1, math.Pi} {
		to := Forward(h).Scale(5)
		if got := Bearing(Vec2{}, to); math.Abs(NormalizeAngle(got-h)) > 1e-9 {
			t.Errorf("Bearing towards heading %v = %v", h, got)
		}
	}
}

func TestObstacleGeometry(t *testing.T) {
	o := Obstacle{Position: Vec2{X: 2, Z: -1}, HalfWidth: 1, HalfDepth: 0.5}

	tests := []struct {
		p    Vec2
		want bool
	}{
		{Vec2{2, -1}, true},
		{Vec2{3, -0.5}, true}, // on the corner
		{Vec2{3.01, -1}, false},
		{Vec2{2, -1.6}, false},
	}
	for _, tt := range tests {
		if got := o.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}

	for _, c := range o.Corners() {
		if !o.Contains(c) {
			t.Errorf("corner %v not on the box", c)
		}
		if math.Abs(math.Abs(c.X-2)-1) > 1e-12 || math.Abs(math.Abs(c.Z+1)-0.5) > 1e-12 {
			t.Errorf("corner %v off the box extents", c)
		}
	}
}

func TestParsePatrolMode(t *testing.T) {
	tests := map[string]PatrolMode{
		"wander":    PatrolWander,
		"waypoints": PatrolWaypoints,
		"guard":     PatrolGuard,
		"":          PatrolWander,
	}
	for in, want := range tests {
		if got := ParsePatrolMode(in); got != want {
			t.Errorf("ParsePatrolMode(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewAgentAndSpeedCap(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}

	a := NewAgent(cfg, Vec2{X: 1}, 5*math.Pi/2)
	if a.State != StatePatrol || a.Velocity != (Vec2{}) {
		t.Errorf("new agent state=%v velocity=%v", a.State, a.Velocity)
	}
	if math.Abs(a.Heading-math.Pi/2) > 1e-9 {
		t.Errorf("heading = %v, want normalized to π/2", a.Heading)
	}
	if len(a.PatrolPoints) != len(cfg.Hunter.PatrolPoints) {
		t.Errorf("patrol points = %d", len(a.PatrolPoints))
	}

	if a.SpeedCap() != cfg.Hunter.MaxSpeed {
		t.Errorf("patrol cap = %v", a.SpeedCap())
	}
	a.State = StateHunt
	if a.SpeedCap() != cfg.Hunter.MaxSpeedHunting {
		t.Errorf("hunt cap = %v", a.SpeedCap())
	}
	if StateSearch.String() != "SEARCH" || AIState(9).String() != "UNKNOWN" {
		t.Error("state names")
	}
}
