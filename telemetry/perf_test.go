package telemetry

import (
	"math"
	"testing"
	"time"
)

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time           { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestPerfCollectorPhases(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	pc := NewPerfCollector(10)
	pc.now = clock.now

	// Five 400µs steps, then one where the hunters phase takes 1.5ms.
	hunterCosts := []time.Duration{300, 300, 300, 300, 300, 1500}
	for _, cost := range hunterCosts {
		pc.StartTick()
		pc.StartPhase(PhasePlayer)
		clock.advance(100 * time.Microsecond)
		pc.StartPhase(PhaseHunters)
		clock.advance(cost * time.Microsecond)
		pc.StartPhase(PhaseTelemetry)
		pc.EndTick()
		clock.advance(time.Millisecond) // idle between steps is not counted
	}

	stats := pc.Stats()
	if stats.MinTickDuration != 400*time.Microsecond {
		t.Errorf("min tick = %v, want 400µs", stats.MinTickDuration)
	}
	if stats.MaxTickDuration != 1600*time.Microsecond || stats.P95TickDuration != 1600*time.Microsecond {
		t.Errorf("max %v p95 %v, want 1.6ms", stats.MaxTickDuration, stats.P95TickDuration)
	}
	if stats.AvgTickDuration != 600*time.Microsecond {
		t.Errorf("avg tick = %v, want 600µs", stats.AvgTickDuration)
	}
	if want := float64(time.Second) / float64(600*time.Microsecond); math.Abs(stats.TicksPerSecond-want) > 1e-6 {
		t.Errorf("ticks/s = %v, want %v", stats.TicksPerSecond, want)
	}

	if stats.PhaseAvg[PhasePlayer] != 100*time.Microsecond {
		t.Errorf("player avg = %v, want 100µs", stats.PhaseAvg[PhasePlayer])
	}
	if stats.PhaseAvg[PhaseHunters] != 500*time.Microsecond {
		t.Errorf("hunters avg = %v, want 500µs", stats.PhaseAvg[PhaseHunters])
	}
	for _, ph := range []Phase{PhaseTagging, PhaseTelemetry} {
		if _, ok := stats.PhaseAvg[ph]; ok {
			t.Errorf("phase %v took no time but was reported", ph)
		}
	}

	tests := []struct {
		phase Phase
		want  float64
	}{
		{PhasePlayer, 100.0 / 6},
		{PhaseHunters, 500.0 / 6},
	}
	for _, tt := range tests {
		if got := stats.PhasePct[tt.phase]; math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%v share = %.4f%%, want %.4f%%", tt.phase, got, tt.want)
		}
	}
}

func TestPerfCollectorRingWraps(t *testing.T) {
	pc := NewPerfCollector(3)

	for i := 0; i < 7; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseTelemetry)
		pc.EndTick()
	}
	if pc.count != 3 || pc.next != 1 {
		t.Errorf("count=%d next=%d, want 3 and 1", pc.count, pc.next)
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	stats := NewPerfCollector(0).Stats()
	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Errorf("empty collector reported %+v", stats)
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	stats := PerfStats{
		AvgTickDuration: 250 * time.Microsecond,
		P95TickDuration: 400 * time.Microsecond,
		PhasePct:        map[Phase]float64{PhaseHunters: 80, PhaseTagging: 5},
	}

	rec := stats.ToCSV(600)
	if rec.WindowEnd != 600 || rec.AvgTickUS != 250 || rec.P95TickUS != 400 {
		t.Errorf("unexpected record header fields: %+v", rec)
	}
	if rec.HuntersPct != 80 || rec.TaggingPct != 5 || rec.PlayerPct != 0 {
		t.Errorf("unexpected phase split: %+v", rec)
	}
	if PhaseHunters.String() != "hunters" || Phase(99).String() != "unknown" {
		t.Error("phase names")
	}
}
