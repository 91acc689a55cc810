package steering

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/hunter/components"
	"github.com/pthm-cable/hunter/config"
)

func obstacleAt(x, z float64) components.Obstacle {
	return components.Obstacle{Position: components.Vec2{X: x, Z: z}, HalfWidth: 0.5, HalfDepth: 0.5}
}

func TestAvoidNoOp(t *testing.T) {
	p := AvoidanceParamsFrom(config.Cfg())
	a := newAgent(components.Vec2{}, 0)

	tests := []struct {
		name      string
		obstacles []components.Obstacle
	}{
		{"empty", nil},
		{"behind", []components.Obstacle{obstacleAt(0, -1)}},
		{"beside", []components.Obstacle{obstacleAt(1.5, 0)}},
		{"out of reach", []components.Obstacle{obstacleAt(0, 10)}},
		// Within the candidate margin but not inside look-ahead
		{"in margin", []components.Obstacle{obstacleAt(0, 3)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Avoid(&a, tt.obstacles, p.LookAhead, p); got != (Steering{}) {
				t.Errorf("Avoid = %+v, want zero", got)
			}
		})
	}
}

func TestAvoidTurnsAwayFromOccupiedSide(t *testing.T) {
	p := AvoidanceParamsFrom(config.Cfg())
	a := newAgent(components.Vec2{}, 0)

	right := Avoid(&a, []components.Obstacle{obstacleAt(0.5, 1.5)}, p.LookAhead, p)
	if right.Angular >= 0 || right.Linear.X >= 0 {
		t.Errorf("obstacle ahead-right: got %+v, want turn and push towards -X", right)
	}

	left := Avoid(&a, []components.Obstacle{obstacleAt(-0.5, 1.5)}, p.LookAhead, p)
	if left.Angular <= 0 || left.Linear.X <= 0 {
		t.Errorf("obstacle ahead-left: got %+v, want turn and push towards +X", left)
	}

	// Dead ahead still commits to a side
	ahead := Avoid(&a, []components.Obstacle{obstacleAt(0, 1.5)}, p.LookAhead, p)
	if ahead.Angular == 0 {
		t.Error("obstacle dead ahead produced no turn")
	}
}

func TestAvoidUrgencyScaling(t *testing.T) {
	p := AvoidanceParamsFrom(config.Cfg())
	a := newAgent(components.Vec2{}, 0)

	d := 1.0
	s := Avoid(&a, []components.Obstacle{obstacleAt(0.1, d)}, p.LookAhead, p)
	dist := math.Hypot(0.1, d)
	u := 1 - dist/p.LookAhead
	wantAngular := a.MaxAngularAccel * p.AngularGain * u * u
	if math.Abs(math.Abs(s.Angular)-wantAngular) > 1e-9 {
		t.Errorf("|angular| = %v, want %v", math.Abs(s.Angular), wantAngular)
	}
	wantLinear := a.MaxAccel * p.LateralGain * u * u
	if math.Abs(s.Linear.Len()-wantLinear) > 1e-9 {
		t.Errorf("|linear| = %v, want %v", s.Linear.Len(), wantLinear)
	}

	// Nearest candidate wins
	near := Avoid(&a, []components.Obstacle{obstacleAt(-0.2, 2.0), obstacleAt(0.1, d)}, p.LookAhead, p)
	if near != s {
		t.Errorf("nearest obstacle not chosen: %+v vs %+v", near, s)
	}
}

func TestIsStuckTiming(t *testing.T) {
	p := StuckParamsFrom(config.Cfg())

	tests := []struct {
		name      string
		dt        float64
		firstCall int // First call reporting stuck; call 1 only seeds
	}{
		// 8 steps accumulate 0.16s
		{"50Hz", 0.02, 9},
		// 9 steps land exactly on 0.15s, which is not past it
		{"60Hz", 1.0 / 60, 11},
		{"60Hz defaults", config.Cfg().Physics.DT, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAgent(components.Vec2{}, 0)
			a.MaxSpeed = 0.1
			for call := 1; call <= tt.firstCall+2; call++ {
				got := IsStuck(&a, a.MaxSpeed, tt.dt, p)
				if want := call >= tt.firstCall; got != want {
					t.Fatalf("call %d (timer %.6fs): stuck = %v, want %v", call, a.Stuck.Timer, got, want)
				}
				a.Position.X += 0.001
			}
		})
	}
}

func TestIsStuckResetsOnMovement(t *testing.T) {
	p := StuckParamsFrom(config.Cfg())
	a := newAgent(components.Vec2{}, 0)
	const dt = 0.02

	for i := 0; i < 6; i++ {
		IsStuck(&a, 0.1, dt, p)
	}
	a.Position.X += 0.1
	IsStuck(&a, 0.1, dt, p)
	if a.Stuck.Timer != 0 {
		t.Errorf("timer = %v after real movement, want 0", a.Stuck.Timer)
	}

	// Not trying to move is never stuck
	for i := 0; i < 30; i++ {
		if IsStuck(&a, 0.01, dt, p) {
			t.Fatal("stuck reported below minimum target speed")
		}
	}
}

func TestUnstuck(t *testing.T) {
	p := StuckParamsFrom(config.Cfg())
	rng := rand.New(rand.NewSource(5))

	for i := 0; i < 500; i++ {
		heading := rng.Float64()*2*math.Pi - math.Pi
		a := newAgent(components.Vec2{}, heading)
		a.Stuck = components.StuckState{Timer: 0.3, Tracking: true}

		before := a.Heading
		Unstuck(&a, rng, p)

		change := math.Abs(components.NormalizeAngle(a.Heading - before))
		if change < 2*math.Pi/3-1e-9 || change > math.Pi+1e-9 {
			t.Fatalf("heading change %v outside [2π/3, π]", change)
		}
		if a.Stuck.Timer != 0 || a.Stuck.Tracking {
			t.Fatalf("stuck state not reset: %+v", a.Stuck)
		}
		if math.Abs(a.Velocity.Len()-a.MaxSpeed*p.Impulse) > 1e-12 {
			t.Fatalf("escape speed = %v, want %v", a.Velocity.Len(), a.MaxSpeed*p.Impulse)
		}
	}
}

func TestGuardCyclesScanTargets(t *testing.T) {
	cfg := config.Cfg()
	p := GuardParamsFrom(cfg)
	rng := rand.New(rand.NewSource(9))
	center := components.Vec2{}
	a := newAgent(components.Vec2{Z: p.OrbitRadius}, 0)
	obstacles := []components.Obstacle{obstacleAt(6, 0), obstacleAt(-6, 0), obstacleAt(0, -6)}
	dt := cfg.Physics.DT

	seen := map[int]bool{}
	for i := 0; i < 1200; i++ {
		Guard(&a, center, obstacles, dt, rng, p)
		if a.Guard.ScanObstacle >= 0 {
			seen[a.Guard.ScanObstacle] = true
		}
	}
	if a.Guard == nil {
		t.Fatal("guard state not created")
	}
	if len(seen) != len(obstacles) {
		t.Errorf("scanned obstacles %v, want all %d", seen, len(obstacles))
	}
}

func TestGuardReturnsWhenFar(t *testing.T) {
	p := GuardParamsFrom(config.Cfg())
	rng := rand.New(rand.NewSource(1))
	a := newAgent(components.Vec2{Z: 10}, 0)

	s := Guard(&a, components.Vec2{}, nil, 0.016, rng, p)
	if s.Linear.Z >= 0 {
		t.Errorf("far guard linear = %+v, want heading back towards center", s.Linear)
	}
}
