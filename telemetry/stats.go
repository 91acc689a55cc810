package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Hunters by state at window end
	Hunters     int `csv:"hunters"`
	Patrolling  int `csv:"patrol"`
	Investigate int `csv:"investigate"`
	Hunting     int `csv:"hunt"`
	Searching   int `csv:"search"`

	// Events during window
	Transitions int `csv:"transitions"`
	Sightings   int `csv:"sightings"`
	Noises      int `csv:"noises"`
	StuckEvents int `csv:"stuck"`
	Escapes     int `csv:"escapes"`
	GiveUps     int `csv:"give_ups"`
	Timeouts    int `csv:"timeouts"`
	Tags        int `csv:"tags"`

	// Occupancy over the window, fraction of hunter-ticks
	PatrolFrac      float64 `csv:"patrol_frac"`
	InvestigateFrac float64 `csv:"investigate_frac"`
	HuntFrac        float64 `csv:"hunt_frac"`
	SearchFrac      float64 `csv:"search_frac"`

	// Speed distribution over the window (units per tick)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
}

// ComputeSpeedStats returns mean, standard deviation and the 10th, 50th and
// 90th percentiles. The input is sorted in place.
func ComputeSpeedStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}
	sort.Float64s(values)

	mean, std = stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		std = 0
	}
	p10 = stat.Quantile(0.1, stat.Empirical, values, nil)
	p50 = stat.Quantile(0.5, stat.Empirical, values, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, values, nil)
	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("tick", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("hunters", s.Hunters),
		slog.Int("patrol", s.Patrolling),
		slog.Int("investigate", s.Investigate),
		slog.Int("hunt", s.Hunting),
		slog.Int("search", s.Searching),
		slog.Int("transitions", s.Transitions),
		slog.Int("sightings", s.Sightings),
		slog.Int("noises", s.Noises),
		slog.Int("stuck", s.StuckEvents),
		slog.Int("give_ups", s.GiveUps),
		slog.Int("timeouts", s.Timeouts),
		slog.Int("tags", s.Tags),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p90", s.SpeedP90),
	)
}

// LogStats logs the window via slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
