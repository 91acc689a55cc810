// Package config provides configuration loading and access for the hunter simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Physics   PhysicsConfig   `yaml:"physics"`
	Hunter    HunterConfig    `yaml:"hunter"`
	Vision    VisionConfig    `yaml:"vision"`
	Hearing   HearingConfig   `yaml:"hearing"`
	Steering  SteeringConfig  `yaml:"steering"`
	Avoidance AvoidanceConfig `yaml:"avoidance"`
	States    StatesConfig    `yaml:"states"`
	Guard     GuardConfig     `yaml:"guard"`
	Arena     ArenaConfig     `yaml:"arena"`
	Player    PlayerConfig    `yaml:"player"`
	Round     RoundConfig     `yaml:"round"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// PhysicsConfig holds the fixed-step integration parameters.
type PhysicsConfig struct {
	DT       float64 `yaml:"dt"`
	Friction float64 `yaml:"friction"` // Per-tick velocity multiplier
}

// HunterConfig holds per-hunter caps and patrol setup copied into each agent at spawn.
type HunterConfig struct {
	Count           int          `yaml:"count"`
	MaxSpeed        float64      `yaml:"max_speed"`
	MaxSpeedHunting float64      `yaml:"max_speed_hunting"`
	MaxAccel        float64      `yaml:"max_accel"`
	MaxAngularAccel float64      `yaml:"max_angular_accel"`
	Radius          float64      `yaml:"radius"` // Body radius for obstacle contact
	PatrolMode      string       `yaml:"patrol_mode"` // wander | waypoints | guard
	PatrolPoints    [][2]float64 `yaml:"patrol_points"`
	GuardPoint      [2]float64   `yaml:"guard_point"`
	Spawn           [2]float64   `yaml:"spawn"`
}

// VisionConfig holds the base cone and the range/angle trade-off curve.
type VisionConfig struct {
	Range               float64 `yaml:"range"`
	Angle               float64 `yaml:"angle"` // Full cone, degrees
	Smoothing           float64 `yaml:"smoothing"`
	NearThreshold       float64 `yaml:"near_threshold"`
	FarThreshold        float64 `yaml:"far_threshold"`
	NearRangeFactor     float64 `yaml:"near_range_factor"`
	FarRangeFactor      float64 `yaml:"far_range_factor"`
	NearAngleFactor     float64 `yaml:"near_angle_factor"`
	FarAngleFactor      float64 `yaml:"far_angle_factor"`
	DefaultScanDistance float64 `yaml:"default_scan_distance"`
	GuardScanDistance   float64 `yaml:"guard_scan_distance"`
}

// HearingConfig holds the sound radius scaling.
type HearingConfig struct {
	Range           float64 `yaml:"range"`
	BaseVolume      float64 `yaml:"base_volume"`
	MinLevel        float64 `yaml:"min_level"`
	SneakMultiplier float64 `yaml:"sneak_multiplier"`
}

// SteeringConfig holds goal behaviour tuning.
type SteeringConfig struct {
	WanderStrength     float64 `yaml:"wander_strength"`
	WanderMaxAngle     float64 `yaml:"wander_max_angle"` // Degrees
	WanderTurnSpeedMin float64 `yaml:"wander_turn_speed_min"`
	WanderTurnSpeedMax float64 `yaml:"wander_turn_speed_max"`
	WanderChangeMin    float64 `yaml:"wander_change_min"` // Seconds
	WanderChangeMax    float64 `yaml:"wander_change_max"`
	SeekAngular        float64 `yaml:"seek_angular"`
	SeekLinear         float64 `yaml:"seek_linear"`
	FleeAngular        float64 `yaml:"flee_angular"`
	FleeLinear         float64 `yaml:"flee_linear"`
	ArriveSlowRadius   float64 `yaml:"arrive_slow_radius"`
}

// AvoidanceConfig holds look-ahead avoidance and stuck recovery tuning.
type AvoidanceConfig struct {
	LookAhead          float64 `yaml:"look_ahead"`
	Margin             float64 `yaml:"margin"`
	ForwardDot         float64 `yaml:"forward_dot"`
	AngularGain        float64 `yaml:"angular_gain"`
	LateralGain        float64 `yaml:"lateral_gain"`
	Weight             float64 `yaml:"weight"`
	StuckMinSpeed      float64 `yaml:"stuck_min_speed"`
	StuckMoveThreshold float64 `yaml:"stuck_move_threshold"`
	StuckTime          float64 `yaml:"stuck_time"`      // Seconds
	EscapeTurnMin      float64 `yaml:"escape_turn_min"` // Degrees
	EscapeTurnMax      float64 `yaml:"escape_turn_max"`
	EscapeImpulse      float64 `yaml:"escape_impulse"` // Fraction of max speed
}

// StatesConfig holds state machine distances and timeouts.
type StatesConfig struct {
	ArriveRadius          float64 `yaml:"arrive_radius"`
	WaypointRadius        float64 `yaml:"waypoint_radius"`
	InvestigateDuration   float64 `yaml:"investigate_duration"` // Seconds
	InvestigateSlowRadius float64 `yaml:"investigate_slow_radius"`
	InvestigateLookAhead  float64 `yaml:"investigate_look_ahead"`
	MaxStuckEpisodes      int     `yaml:"max_stuck_episodes"`
	LookAroundRate        float64 `yaml:"look_around_rate"` // rad/s
	SearchDuration        float64 `yaml:"search_duration"`
	ReactionTime          float64 `yaml:"reaction_time"`
	TagDistance           float64 `yaml:"tag_distance"`
}

// GuardConfig holds the guard-a-point patrol parameters.
type GuardConfig struct {
	OrbitRadius     float64 `yaml:"orbit_radius"`
	MaxDistance     float64 `yaml:"max_distance"`
	MinDistance     float64 `yaml:"min_distance"`
	SettleDistance  float64 `yaml:"settle_distance"`
	ArriveDistance  float64 `yaml:"arrive_distance"`
	OrbitSpeed      float64 `yaml:"orbit_speed"`
	RepositionSpeed float64 `yaml:"reposition_speed"`
	ScanInterval    float64 `yaml:"scan_interval"`
	TempoChangeMin  float64 `yaml:"tempo_change_min"`
	TempoChangeMax  float64 `yaml:"tempo_change_max"`
}

// ObstacleConfig describes one static box collider.
type ObstacleConfig struct {
	X         float64 `yaml:"x"`
	Z         float64 `yaml:"z"`
	HalfWidth float64 `yaml:"half_width"`
	HalfDepth float64 `yaml:"half_depth"`
}

// ArenaConfig holds the play area and its static obstacles.
type ArenaConfig struct {
	Width     float64          `yaml:"width"`
	Depth     float64          `yaml:"depth"`
	Obstacles []ObstacleConfig `yaml:"obstacles"`
}

// PlayerConfig drives the scripted player used in headless rounds.
type PlayerConfig struct {
	Speed       float64      `yaml:"speed"`
	SneakSpeed  float64      `yaml:"sneak_speed"`
	SneakChance float64      `yaml:"sneak_chance"`
	Waypoints   [][2]float64 `yaml:"waypoints"`
	Spawn       [2]float64   `yaml:"spawn"`
}

// RoundConfig holds round limits.
type RoundConfig struct {
	MaxSeconds float64 `yaml:"max_seconds"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"`
	PerfWindow  int     `yaml:"perf_window"`
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	TickRate       float64 // Ticks per second
	WanderMaxAngle float64 // Radians
	EscapeTurnMin  float64 // Radians
	EscapeTurnMax  float64 // Radians
	RoundTicks     int32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path (or defaults if empty)
// and sets it as the global config.
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load reads the embedded defaults and merges the optional user file over them.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	switch c.Hunter.PatrolMode {
	case "wander", "waypoints", "guard":
	default:
		return fmt.Errorf("hunter.patrol_mode %q is not one of wander, waypoints, guard", c.Hunter.PatrolMode)
	}
	if c.Hunter.Radius < 0 {
		return fmt.Errorf("hunter.radius must not be negative, got %v", c.Hunter.Radius)
	}
	for i, o := range c.Arena.Obstacles {
		if o.HalfWidth <= 0 || o.HalfDepth <= 0 {
			return fmt.Errorf("arena.obstacles[%d]: half extents must be positive", i)
		}
	}
	return nil
}

func (c *Config) computeDerived() {
	c.Derived.TickRate = 1 / c.Physics.DT
	c.Derived.WanderMaxAngle = c.Steering.WanderMaxAngle * math.Pi / 180
	c.Derived.EscapeTurnMin = c.Avoidance.EscapeTurnMin * math.Pi / 180
	c.Derived.EscapeTurnMax = c.Avoidance.EscapeTurnMax * math.Pi / 180
	if c.Derived.EscapeTurnMax < c.Derived.EscapeTurnMin {
		c.Derived.EscapeTurnMax = c.Derived.EscapeTurnMin
	}
	c.Derived.RoundTicks = int32(math.Round(c.Round.MaxSeconds / c.Physics.DT))

	// Thresholds must satisfy 0 < near < far < 1 for the trade-off curve to be well formed
	c.Vision.NearThreshold = clamp(c.Vision.NearThreshold, 0.01, 0.98)
	c.Vision.FarThreshold = clamp(c.Vision.FarThreshold, c.Vision.NearThreshold+0.01, 0.99)
	c.Vision.Smoothing = clamp(c.Vision.Smoothing, 0, 1)
}

// Refresh re-validates the config and recomputes derived values after
// fields have been changed in place.
func (c *Config) Refresh() error {
	if err := c.validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// Clone returns a deep copy that can be modified without touching c.
func (c *Config) Clone() *Config {
	out := *c
	out.Hunter.PatrolPoints = append([][2]float64(nil), c.Hunter.PatrolPoints...)
	out.Arena.Obstacles = append([]ObstacleConfig(nil), c.Arena.Obstacles...)
	out.Player.Waypoints = append([][2]float64(nil), c.Player.Waypoints...)
	return &out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
