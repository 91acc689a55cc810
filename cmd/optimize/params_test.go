package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/hunter/config"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}

	defaults := pv.DefaultVector()
	fromCfg := pv.ExtractFromConfig(cfg)
	for i, spec := range pv.Specs {
		if defaults[i] != fromCfg[i] {
			t.Errorf("%s: default %v does not match config %v", spec.Path, defaults[i], fromCfg[i])
		}
		if defaults[i] < spec.Min || defaults[i] > spec.Max {
			t.Errorf("%s: default %v outside [%v, %v]", spec.Path, defaults[i], spec.Min, spec.Max)
		}
	}

	back := pv.Denormalize(pv.Normalize(defaults))
	for i := range back {
		if math.Abs(back[i]-defaults[i]) > 1e-9 {
			t.Errorf("%s: normalize round trip %v -> %v", pv.Specs[i].Name, defaults[i], back[i])
		}
	}
}

func TestApplyToConfigClampsAndRefreshes(t *testing.T) {
	pv := NewParamVector()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}

	values := pv.DefaultVector()
	for i, spec := range pv.Specs {
		if spec.Name == "escape_turn_min" {
			values[i] = 1000
		}
	}
	if err := pv.ApplyToConfig(cfg, values); err != nil {
		t.Fatal(err)
	}

	if cfg.Avoidance.EscapeTurnMin != 150 {
		t.Errorf("escape_turn_min = %v, want clamped to 150", cfg.Avoidance.EscapeTurnMin)
	}
	if math.Abs(cfg.Derived.EscapeTurnMin-150*math.Pi/180) > 1e-9 {
		t.Errorf("derived escape turn = %v, not recomputed", cfg.Derived.EscapeTurnMin)
	}
}
