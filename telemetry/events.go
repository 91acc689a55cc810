// Package telemetry provides hunter behaviour events, windowed statistics,
// performance timing and CSV output.
package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/hunter/components"
)

// EventType identifies telemetry events.
type EventType uint8

const (
	EventStateChange EventType = iota
	EventSighting
	EventNoise
	EventStuck
	EventEscape
	EventGiveUp
	EventTimeout
	EventTagged
)

func (t EventType) String() string {
	switch t {
	case EventStateChange:
		return "state_change"
	case EventSighting:
		return "sighting"
	case EventNoise:
		return "noise"
	case EventStuck:
		return "stuck"
	case EventEscape:
		return "escape"
	case EventGiveUp:
		return "give_up"
	case EventTimeout:
		return "timeout"
	case EventTagged:
		return "tagged"
	default:
		return "unknown"
	}
}

// Event represents a single telemetry event.
type Event struct {
	Type     EventType
	Tick     int32
	HunterID uint32

	// Optional fields depending on event type
	From   components.AIState
	To     components.AIState
	Reason string
	At     components.Vec2 // where the event happened or what it refers to
	Amount float64         // escape turn (rad) or stuck episode count
}

// LogValue implements slog.LogValuer for structured logging.
func (e Event) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("type", e.Type.String()),
		slog.Int("tick", int(e.Tick)),
		slog.Int("hunter", int(e.HunterID)),
	}
	if e.Type == EventStateChange {
		attrs = append(attrs, slog.String("from", e.From.String()), slog.String("to", e.To.String()))
	}
	if e.Reason != "" {
		attrs = append(attrs, slog.String("reason", e.Reason))
	}
	return slog.GroupValue(attrs...)
}

// NewStateChangeEvent records a state machine transition.
func NewStateChangeEvent(tick int32, hunterID uint32, from, to components.AIState, reason string) Event {
	return Event{
		Type:     EventStateChange,
		Tick:     tick,
		HunterID: hunterID,
		From:     from,
		To:       to,
		Reason:   reason,
	}
}

// NewSightingEvent records the player being seen.
func NewSightingEvent(tick int32, hunterID uint32, at components.Vec2) Event {
	return Event{Type: EventSighting, Tick: tick, HunterID: hunterID, At: at}
}

// NewNoiseEvent records the player being heard.
func NewNoiseEvent(tick int32, hunterID uint32, at components.Vec2) Event {
	return Event{Type: EventNoise, Tick: tick, HunterID: hunterID, At: at}
}

// NewStuckEvent records a stuck episode and how many have happened in this state.
func NewStuckEvent(tick int32, hunterID uint32, at components.Vec2, episode int) Event {
	return Event{Type: EventStuck, Tick: tick, HunterID: hunterID, At: at, Amount: float64(episode)}
}

// NewEscapeEvent records an escape turn.
func NewEscapeEvent(tick int32, hunterID uint32, at components.Vec2, turn float64) Event {
	return Event{Type: EventEscape, Tick: tick, HunterID: hunterID, At: at, Amount: turn}
}

// NewGiveUpEvent records a goal abandoned as unreachable.
func NewGiveUpEvent(tick int32, hunterID uint32, state components.AIState, target components.Vec2) Event {
	return Event{Type: EventGiveUp, Tick: tick, HunterID: hunterID, From: state, At: target, Reason: "unreachable"}
}

// NewTimeoutEvent records a state that ran out of time.
func NewTimeoutEvent(tick int32, hunterID uint32, state components.AIState) Event {
	return Event{Type: EventTimeout, Tick: tick, HunterID: hunterID, From: state, Reason: "timeout"}
}

// NewTaggedEvent records the player being caught.
func NewTaggedEvent(tick int32, hunterID uint32, at components.Vec2) Event {
	return Event{Type: EventTagged, Tick: tick, HunterID: hunterID, At: at}
}

// EventRecord is the flat CSV form of an Event.
type EventRecord struct {
	Tick     int32   `csv:"tick"`
	Type     string  `csv:"type"`
	HunterID uint32  `csv:"hunter"`
	From     string  `csv:"from"`
	To       string  `csv:"to"`
	Reason   string  `csv:"reason"`
	X        float64 `csv:"x"`
	Z        float64 `csv:"z"`
	Amount   float64 `csv:"amount"`
}

// ToRecord flattens the event for CSV export.
func (e Event) ToRecord() EventRecord {
	r := EventRecord{
		Tick:     e.Tick,
		Type:     e.Type.String(),
		HunterID: e.HunterID,
		Reason:   e.Reason,
		X:        e.At.X,
		Z:        e.At.Z,
		Amount:   e.Amount,
	}
	switch e.Type {
	case EventStateChange:
		r.From, r.To = e.From.String(), e.To.String()
	case EventGiveUp, EventTimeout:
		r.From = e.From.String()
	}
	return r
}
