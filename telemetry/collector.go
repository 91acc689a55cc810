package telemetry

import "github.com/pthm-cable/hunter/components"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	transitions int
	sightings   int
	noises      int
	stuck       int
	escapes     int
	giveUps     int
	timeouts    int
	tags        int

	// Occupancy and speed samples for current window
	stateTicks [4]int
	speeds     []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Record counts an event in the current window.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventStateChange:
		c.transitions++
	case EventSighting:
		c.sightings++
	case EventNoise:
		c.noises++
	case EventStuck:
		c.stuck++
	case EventEscape:
		c.escapes++
	case EventGiveUp:
		c.giveUps++
	case EventTimeout:
		c.timeouts++
	case EventTagged:
		c.tags++
	}
}

// Sample records one hunter's state and speed for this tick.
func (c *Collector) Sample(state components.AIState, speed float64) {
	if int(state) < len(c.stateTicks) {
		c.stateTicks[state]++
	}
	c.speeds = append(c.speeds, speed)
}

// Pending reports whether anything was recorded since the last flush.
func (c *Collector) Pending() bool {
	return len(c.speeds) > 0 || c.transitions+c.sightings+c.noises+c.stuck+
		c.escapes+c.giveUps+c.timeouts+c.tags > 0
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// states holds each live hunter's state at window end.
func (c *Collector) Flush(currentTick int32, states []components.AIState) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,
		Hunters:         len(states),

		Transitions: c.transitions,
		Sightings:   c.sightings,
		Noises:      c.noises,
		StuckEvents: c.stuck,
		Escapes:     c.escapes,
		GiveUps:     c.giveUps,
		Timeouts:    c.timeouts,
		Tags:        c.tags,
	}

	for _, s := range states {
		switch s {
		case components.StatePatrol:
			stats.Patrolling++
		case components.StateInvestigate:
			stats.Investigate++
		case components.StateHunt:
			stats.Hunting++
		case components.StateSearch:
			stats.Searching++
		}
	}

	total := 0
	for _, n := range c.stateTicks {
		total += n
	}
	if total > 0 {
		stats.PatrolFrac = float64(c.stateTicks[components.StatePatrol]) / float64(total)
		stats.InvestigateFrac = float64(c.stateTicks[components.StateInvestigate]) / float64(total)
		stats.HuntFrac = float64(c.stateTicks[components.StateHunt]) / float64(total)
		stats.SearchFrac = float64(c.stateTicks[components.StateSearch]) / float64(total)
	}

	stats.SpeedMean, stats.SpeedStd, stats.SpeedP10, stats.SpeedP50, stats.SpeedP90 = ComputeSpeedStats(c.speeds)

	// Reset for next window
	c.windowStartTick = currentTick
	c.transitions = 0
	c.sightings = 0
	c.noises = 0
	c.stuck = 0
	c.escapes = 0
	c.giveUps = 0
	c.timeouts = 0
	c.tags = 0
	c.stateTicks = [4]int{}
	c.speeds = c.speeds[:0]

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
