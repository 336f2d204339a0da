package port

import (
	"context"
	"time"
)

// Span is a minimal span abstraction so the domain can emit telemetry
// without importing the OpenTelemetry SDK.
type Span interface {
	End()
	SetAttributes(attrs map[string]interface{})
	SetStatus(code string, message string)
	RecordError(err error)
}

// Telemetry is the probe the repositories and services report through.
// Implementations: telemetry.NewOTELProbe, telemetry.NewNoOpProbe.
type Telemetry interface {
	StartRepositorySpan(ctx context.Context, operation string, entity string, attrs map[string]interface{}) (context.Context, Span)
	StartServiceSpan(ctx context.Context, service string, operation string, attrs map[string]interface{}) (context.Context, Span)

	RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error)
	RecordRepositoryQuery(ctx context.Context, operation string, entity string, query string, args []interface{})

	RecordBusinessEvent(ctx context.Context, event string, entity string, entityID string, metadata map[string]interface{})

	RecordError(ctx context.Context, operation string, err error, metadata map[string]interface{})
}
