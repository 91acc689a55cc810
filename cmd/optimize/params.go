// Package main provides CMA-ES tuning of the hunter's avoidance and stuck
// recovery parameters.
package main

import (
	"github.com/pthm-cable/hunter/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	field   func(*config.Config) *float64
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Obstacle look-ahead
			{Name: "look_ahead", Path: "avoidance.look_ahead", Min: 1.0, Max: 5.0, Default: 2.5,
				field: func(c *config.Config) *float64 { return &c.Avoidance.LookAhead }},
			{Name: "margin", Path: "avoidance.margin", Min: 0.2, Max: 2.0, Default: 1.0,
				field: func(c *config.Config) *float64 { return &c.Avoidance.Margin }},
			{Name: "angular_gain", Path: "avoidance.angular_gain", Min: 1.0, Max: 15.0, Default: 8.0,
				field: func(c *config.Config) *float64 { return &c.Avoidance.AngularGain }},
			{Name: "lateral_gain", Path: "avoidance.lateral_gain", Min: 0.5, Max: 10.0, Default: 5.0,
				field: func(c *config.Config) *float64 { return &c.Avoidance.LateralGain }},
			{Name: "avoid_weight", Path: "avoidance.weight", Min: 0.5, Max: 6.0, Default: 3.0,
				field: func(c *config.Config) *float64 { return &c.Avoidance.Weight }},
			// Stuck detection and escape
			{Name: "stuck_time", Path: "avoidance.stuck_time", Min: 0.05, Max: 0.6, Default: 0.15,
				field: func(c *config.Config) *float64 { return &c.Avoidance.StuckTime }},
			{Name: "stuck_move_threshold", Path: "avoidance.stuck_move_threshold", Min: 0.001, Max: 0.02, Default: 0.005,
				field: func(c *config.Config) *float64 { return &c.Avoidance.StuckMoveThreshold }},
			{Name: "escape_turn_min", Path: "avoidance.escape_turn_min", Min: 45, Max: 150, Default: 120,
				field: func(c *config.Config) *float64 { return &c.Avoidance.EscapeTurnMin }},
			{Name: "escape_turn_max", Path: "avoidance.escape_turn_max", Min: 150, Max: 180, Default: 180,
				field: func(c *config.Config) *float64 { return &c.Avoidance.EscapeTurnMax }},
			{Name: "escape_impulse", Path: "avoidance.escape_impulse", Min: 0.2, Max: 1.0, Default: 0.8,
				field: func(c *config.Config) *float64 { return &c.Avoidance.EscapeImpulse }},
			// Pursuit
			{Name: "seek_linear", Path: "steering.seek_linear", Min: 1.0, Max: 6.0, Default: 3.0,
				field: func(c *config.Config) *float64 { return &c.Steering.SeekLinear }},
			{Name: "seek_angular", Path: "steering.seek_angular", Min: 1.0, Max: 8.0, Default: 3.5,
				field: func(c *config.Config) *float64 { return &c.Steering.SeekAngular }},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg and recomputes its
// derived values.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	for i, v := range pv.Clamp(values) {
		*pv.Specs[i].field(cfg) = v
	}
	return cfg.Refresh()
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = *spec.field(cfg)
	}
	return v
}
