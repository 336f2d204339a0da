package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"taskflow/internal/core/port"
)

const tracerName = "taskflow"

// OTELProbe implements port.Telemetry on OpenTelemetry.
type OTELProbe struct {
	logger *slog.Logger
}

func NewOTELProbe(logger *slog.Logger) port.Telemetry {
	if logger == nil {
		logger = slog.Default()
	}

	return &OTELProbe{logger: logger}
}

// OTelSpan wraps an OpenTelemetry span behind the generic port.Span.
type OTelSpan struct {
	span trace.Span
}

func (s *OTelSpan) End() {
	s.span.End()
}

func (s *OTelSpan) SetAttributes(attrs map[string]interface{}) {
	s.span.SetAttributes(toOtelAttributes(attrs)...)
}

func (s *OTelSpan) SetStatus(code string, message string) {
	switch code {
	case "ok":
		s.span.SetStatus(codes.Ok, message)
	case "error":
		s.span.SetStatus(codes.Error, message)
	default:
		s.span.SetStatus(codes.Unset, message)
	}
}

func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
}

func toOtelAttributes(attrs map[string]interface{}) []attribute.KeyValue {
	var otelAttrs []attribute.KeyValue

	for key, value := range attrs {
		switch v := value.(type) {
		case string:
			otelAttrs = append(otelAttrs, attribute.String(key, v))
		case int:
			otelAttrs = append(otelAttrs, attribute.Int(key, v))
		case int64:
			otelAttrs = append(otelAttrs, attribute.Int64(key, v))
		case float64:
			otelAttrs = append(otelAttrs, attribute.Float64(key, v))
		case bool:
			otelAttrs = append(otelAttrs, attribute.Bool(key, v))
		default:
			otelAttrs = append(otelAttrs, attribute.String(key, fmt.Sprintf("%v", v)))
		}
	}

	return otelAttrs
}

func (p *OTELProbe) StartRepositorySpan(ctx context.Context, operation string, entity string, attrs map[string]interface{}) (context.Context, port.Span) {
	spanName := fmt.Sprintf("repository.%s.%s", entity, operation)

	standardAttrs := []attribute.KeyValue{
		attribute.String("repository.entity", entity),
		attribute.String("repository.operation", operation),
		attribute.String("component", "repository"),
	}
	standardAttrs = append(standardAttrs, toOtelAttributes(attrs)...)

	ctx, span := otel.Tracer(tracerName).Start(ctx, spanName, trace.WithAttributes(standardAttrs...))
	return ctx, &OTelSpan{span: span}
}

func (p *OTELProbe) StartServiceSpan(ctx context.Context, service string, operation string, attrs map[string]interface{}) (context.Context, port.Span) {
	spanName := fmt.Sprintf("service.%s.%s", service, operation)

	standardAttrs := []attribute.KeyValue{
		attribute.String("service.name", service),
		attribute.String("service.operation", operation),
		attribute.String("component", "service"),
	}
	standardAttrs = append(standardAttrs, toOtelAttributes(attrs)...)

	ctx, span := otel.Tracer(tracerName).Start(ctx, spanName, trace.WithAttributes(standardAttrs...))
	return ctx, &OTelSpan{span: span}
}

func (p *OTELProbe) RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent("repository.operation", trace.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("entity", entity),
		attribute.Int64("duration_ns", duration.Nanoseconds()),
		attribute.Bool("error", err != nil),
	))

	if err != nil {
		p.logger.Error("repository operation failed",
			"operation", operation,
			"entity", entity,
			"duration", duration,
			"error", err)
	}
}

func (p *OTELProbe) RecordRepositoryQuery(ctx context.Context, operation string, entity string, query string, args []interface{}) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent("repository.query", trace.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("entity", entity),
		attribute.String("db.statement", query),
		attribute.Int("db.args_count", len(args)),
	))
}

func (p *OTELProbe) RecordBusinessEvent(ctx context.Context, event string, entity string, entityID string, metadata map[string]interface{}) {
	attrs := []attribute.KeyValue{
		attribute.String("event", event),
		attribute.String("entity", entity),
		attribute.String("entity.id", entityID),
	}
	attrs = append(attrs, toOtelAttributes(metadata)...)

	span := trace.SpanFromContext(ctx)
	span.AddEvent(fmt.Sprintf("business.%s.%s", entity, event), trace.WithAttributes(attrs...))
}

func (p *OTELProbe) RecordError(ctx context.Context, operation string, err error, metadata map[string]interface{}) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)

	p.logger.Error("operation failed", "operation", operation, "error", err)
}
