package deptstate

import (
	"context"
	"log/slog"
	"sort"
)

// Telemetry records state tracker events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

// NopTelemetry discards every event.
type NopTelemetry struct{}

func (NopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return NopTelemetry{}
	}
	return t
}

// SlogTelemetry writes telemetry events as structured log records.
type SlogTelemetry struct {
	Logger *slog.Logger
	Level  slog.Level
}

// NewSlogTelemetry builds a telemetry sink on top of logger (slog.Default when nil).
func NewSlogTelemetry(logger *slog.Logger) *SlogTelemetry {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogTelemetry{Logger: logger, Level: slog.LevelInfo}
}

// Record emits one log record per event with the payload flattened into attributes.
func (t *SlogTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	if t == nil || t.Logger == nil {
		return
	}
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attrs := make([]slog.Attr, 0, len(keys)+1)
	attrs = append(attrs, slog.String("event", event))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, payload[k]))
	}
	t.Logger.LogAttrs(ctx, t.Level, event, attrs...)
}
