package dashboard

import (
	"context"

	"go.uber.org/zap"
)

// Telemetry records dashboard events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// LoggerTelemetry writes telemetry events as structured log lines.
type LoggerTelemetry struct {
	logger *zap.Logger
}

// NewLoggerTelemetry wraps a zap logger. A nil logger discards events.
func NewLoggerTelemetry(logger *zap.Logger) *LoggerTelemetry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggerTelemetry{logger: logger.Named("telemetry")}
}

// Record logs the event at debug level with the payload as fields.
func (t *LoggerTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	fields := make([]zap.Field, 0, len(payload)+1)
	fields = append(fields, zap.String("event", event))
	for key, val := range payload {
		fields = append(fields, zap.Any(key, val))
	}
	t.logger.Debug("dashboard event", fields...)
}
