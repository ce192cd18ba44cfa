package assistant

import (
	"context"

	"go.uber.org/zap"
)

// ZapTelemetry records widget events through a zap logger.
type ZapTelemetry struct {
	logger *zap.Logger
}

// NewZapTelemetry wraps a zap logger as a Telemetry sink. A nil logger yields
// a no-op sink.
func NewZapTelemetry(logger *zap.Logger) Telemetry {
	if logger == nil {
		return noopTelemetry{}
	}
	return &ZapTelemetry{logger: logger}
}

// Record logs the event at info level with the payload as structured fields.
func (t *ZapTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	fields := make([]zap.Field, 0, len(payload))
	for key, value := range payload {
		fields = append(fields, zap.Any(key, value))
	}
	t.logger.Info(event, fields...)
}
