package game

import (
	"log/slog"

	"github.com/pthm-cable/hunter/telemetry"
)

// logRoundResult reports how a round ended.
func logRoundResult(r RoundResult) {
	if r.Tagged {
		slog.Info("player tagged",
			"round", r.Round,
			"hunter", r.HunterID,
			"ticks", r.Ticks,
			"seconds", r.Seconds,
		)
		return
	}
	slog.Info("round timed out",
		"round", r.Round,
		"ticks", r.Ticks,
		"seconds", r.Seconds,
	)
}

// LogValue implements slog.LogValuer for structured logging.
func (r RoundResult) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("round", r.Round),
		slog.Bool("tagged", r.Tagged),
		slog.Int("ticks", int(r.Ticks)),
		slog.Float64("seconds", r.Seconds),
	)
}

// Record converts the result to a rounds.csv row.
func (r RoundResult) Record() telemetry.RoundRecord {
	hunter := int64(-1)
	if r.Tagged {
		hunter = int64(r.HunterID)
	}
	return telemetry.RoundRecord{
		Round:   r.Round,
		Tagged:  r.Tagged,
		Ticks:   r.Ticks,
		Seconds: r.Seconds,
		Hunter:  hunter,
	}
}
