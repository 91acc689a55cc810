// Package inspector dumps tagged component fields to the structured log so a
// headless run can be followed hunter by hunter.
package inspector

import (
	"context"
	"log/slog"
)

// Inspector periodically logs the components of watched entities.
type Inspector struct {
	logger *slog.Logger
	every  int32
}

// NewInspector creates an inspector that fires every n ticks. n <= 0 disables it.
func NewInspector(logger *slog.Logger, every int32) *Inspector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Inspector{logger: logger, every: every}
}

// Due reports whether the given tick should be inspected.
func (ins *Inspector) Due(tick int32) bool {
	return ins != nil && ins.every > 0 && tick%ins.every == 0
}

// Named pairs a component with its group key.
type Named struct {
	Name      string
	Component interface{}
}

// Log writes one debug record with a group per component.
func (ins *Inspector) Log(tick int32, msg string, components ...Named) {
	if ins == nil {
		return
	}
	attrs := []slog.Attr{slog.Int("tick", int(tick))}
	for _, c := range components {
		attrs = append(attrs, slog.Attr{Key: c.Name, Value: slog.GroupValue(Attrs(c.Component)...)})
	}
	ins.logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}
