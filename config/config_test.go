package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Physics.Friction != 0.92 {
		t.Errorf("friction = %v, want 0.92", cfg.Physics.Friction)
	}
	if cfg.Hunter.MaxSpeed != 0.12 {
		t.Errorf("max_speed = %v, want 0.12", cfg.Hunter.MaxSpeed)
	}
	if len(cfg.Hunter.PatrolPoints) != 4 {
		t.Errorf("patrol points = %d, want 4", len(cfg.Hunter.PatrolPoints))
	}
	if math.Abs(cfg.Derived.EscapeTurnMin-2*math.Pi/3) > 1e-9 {
		t.Errorf("escape turn min = %v, want 2π/3", cfg.Derived.EscapeTurnMin)
	}
	if math.Abs(cfg.Derived.TickRate-60) > 0.01 {
		t.Errorf("tick rate = %v, want 60", cfg.Derived.TickRate)
	}
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := []byte("hunter:\n  max_speed: 0.3\nvision:\n  near_threshold: 0.9\n  far_threshold: 0.5\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Hunter.MaxSpeed != 0.3 {
		t.Errorf("max_speed = %v, want 0.3", cfg.Hunter.MaxSpeed)
	}
	// Keys absent from the override keep their defaults
	if cfg.Hunter.MaxAccel != 0.15 {
		t.Errorf("max_accel = %v, want default 0.15", cfg.Hunter.MaxAccel)
	}
	if cfg.Vision.FarThreshold <= cfg.Vision.NearThreshold {
		t.Errorf("thresholds not ordered: near=%v far=%v", cfg.Vision.NearThreshold, cfg.Vision.FarThreshold)
	}
}

func TestLoadRejectsBadPatrolMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("hunter:\n  patrol_mode: sprint\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown patrol mode")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.States.InvestigateDuration = 42

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if loaded.States.InvestigateDuration != 42 {
		t.Errorf("investigate_duration = %v, want 42", loaded.States.InvestigateDuration)
	}
}

func TestCloneAndRefresh(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	c := cfg.Clone()
	c.Arena.Obstacles[0].X += 100
	c.Avoidance.EscapeTurnMin = 90
	if cfg.Arena.Obstacles[0].X == c.Arena.Obstacles[0].X {
		t.Error("clone shares obstacle slice")
	}

	if err := c.Refresh(); err != nil {
		t.Fatal(err)
	}
	if math.Abs(c.Derived.EscapeTurnMin-math.Pi/2) > 1e-9 {
		t.Errorf("escape turn min = %v, want π/2", c.Derived.EscapeTurnMin)
	}
	if math.Abs(cfg.Derived.EscapeTurnMin-2*math.Pi/3) > 1e-9 {
		t.Error("refresh changed the original")
	}

	c.Hunter.PatrolMode = "sprint"
	if err := c.Refresh(); err == nil {
		t.Error("bad patrol mode accepted")
	}
}
