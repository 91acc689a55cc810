package game

import (
	"log/slog"

	"github.com/pthm-cable/hunter/components"
	"github.com/pthm-cable/hunter/inspector"
	"github.com/pthm-cable/hunter/telemetry"
)

// recordEvent counts an event in the stats window and appends it to events.csv.
func (g *Game) recordEvent(ev telemetry.Event) {
	g.collector.Record(ev)
	if err := g.outputManager.WriteEvent(ev); err != nil {
		slog.Error("failed to write event", "error", err)
	}
}

// sampleHunters records each hunter's state and speed for occupancy stats.
func (g *Game) sampleHunters() {
	query := g.hunterFilter.Query()
	for query.Next() {
		_, a := query.Get()
		g.collector.Sample(a.State, a.Velocity.Len())
	}
}

// flushTelemetry closes the stats window when it is due.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}
	g.emitWindow()
}

// emitWindow closes the current stats window, however short, and reports it.
func (g *Game) emitWindow() {
	var states []components.AIState
	query := g.hunterFilter.Query()
	for query.Next() {
		_, a := query.Get()
		states = append(states, a.State)
	}

	stats := g.collector.Flush(g.tick, states)
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// inspectHunters dumps every hunter's components when the inspector is due.
func (g *Game) inspectHunters() {
	if !g.inspector.Due(g.tick) {
		return
	}
	query := g.hunterFilter.Query()
	for query.Next() {
		id, a := query.Get()
		g.inspector.Log(g.tick, "hunter",
			inspector.Named{Name: "identity", Component: id},
			inspector.Named{Name: "agent", Component: a},
		)
	}
}
