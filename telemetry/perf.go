package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase is one timed section of a simulation step.
type Phase uint8

const (
	PhasePlayer Phase = iota
	PhaseHunters
	PhaseTagging
	PhaseTelemetry
	numPhases
)

func (p Phase) String() string {
	switch p {
	case PhasePlayer:
		return "player"
	case PhaseHunters:
		return "hunters"
	case PhaseTagging:
		return "tagging"
	case PhaseTelemetry:
		return "telemetry"
	default:
		return "unknown"
	}
}

// tickSample is one step's wall time split by phase.
type tickSample struct {
	total  time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector keeps a ring of the last N step timings.
type PerfCollector struct {
	ring  []tickSample
	next  int
	count int
	now   func() time.Time

	cur        tickSample
	tickStart  time.Time
	phaseStart time.Time
	active     Phase
	inPhase    bool
}

// NewPerfCollector creates a collector averaging over windowSize steps
// (60 is one second at 60 Hz).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{ring: make([]tickSample, windowSize), now: time.Now}
}

// StartTick begins timing a step.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.cur = tickSample{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts timing ph.
func (p *PerfCollector) StartPhase(ph Phase) {
	now := p.now()
	p.closePhase(now)
	p.phaseStart = now
	p.active = ph
	p.inPhase = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase && p.active < numPhases {
		p.cur.phases[p.active] += now.Sub(p.phaseStart)
	}
	p.inPhase = false
}

// EndTick closes the step and stores it in the ring.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

// PerfStats summarises the step timings in the current window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	PhaseAvg map[Phase]time.Duration
	PhasePct map[Phase]float64 // Share of the average step, 0..100

	TicksPerSecond float64
}

// Stats aggregates the ring. An empty collector gives zero durations and
// empty, non-nil maps.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg: make(map[Phase]time.Duration),
		PhasePct: make(map[Phase]float64),
	}
	if p.count == 0 {
		return out
	}

	totals := make([]float64, p.count)
	var phaseSum [numPhases]time.Duration
	seen := [numPhases]bool{}
	for i := 0; i < p.count; i++ {
		s := p.ring[i]
		totals[i] = float64(s.total)
		for ph, d := range s.phases {
			if d > 0 {
				phaseSum[ph] += d
				seen[ph] = true
			}
		}
	}

	slices.Sort(totals)
	avg := stat.Mean(totals, nil)
	out.AvgTickDuration = time.Duration(avg)
	out.MinTickDuration = time.Duration(totals[0])
	out.MaxTickDuration = time.Duration(totals[len(totals)-1])
	out.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, totals, nil))
	if avg > 0 {
		out.TicksPerSecond = float64(time.Second) / avg
	}

	for ph := Phase(0); ph < numPhases; ph++ {
		if !seen[ph] {
			continue
		}
		mean := phaseSum[ph] / time.Duration(p.count)
		out.PhaseAvg[ph] = mean
		if avg > 0 {
			out.PhasePct[ph] = float64(mean) / avg * 100
		}
	}
	return out
}

// LogStats logs the window summary at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	for ph := Phase(0); ph < numPhases; ph++ {
		if pct, ok := s.PhasePct[ph]; ok {
			attrs = append(attrs, slog.Float64(ph.String()+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	P95TickUS    int64   `csv:"p95_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	PlayerPct    float64 `csv:"player_pct"`
	HuntersPct   float64 `csv:"hunters_pct"`
	TaggingPct   float64 `csv:"tagging_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the summary for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		P95TickUS:    s.P95TickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		PlayerPct:    s.PhasePct[PhasePlayer],
		HuntersPct:   s.PhasePct[PhaseHunters],
		TaggingPct:   s.PhasePct[PhaseTagging],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
