package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LokiLogger logs through zap with otelzap trace correlation and ships
// each entry to a Loki push endpoint when one is configured.
type LokiLogger struct {
	Logger      *otelzap.Logger
	serviceName string
	lokiURL     string
	httpClient  *http.Client
}

type lokiPush struct {
	Streams []lokiStream `json:"streams"`
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

func NewLokiLogger(serviceName, lokiURL string) (*LokiLogger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"

	zapLogger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	otelLogger := otelzap.New(zapLogger)

	logger := &LokiLogger{
		Logger:      otelLogger,
		serviceName: serviceName,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}

	if lokiURL != "" {
		logger.lokiURL = lokiURL + "/loki/api/v1/push"
	}

	return logger, nil
}

func (l *LokiLogger) Sync() error {
	return l.Logger.Sync()
}

func (l *LokiLogger) InfoWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithTrace(ctx, zapcore.InfoLevel, msg, fields...)
}

func (l *LokiLogger) WarnWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithTrace(ctx, zapcore.WarnLevel, msg, fields...)
}

func (l *LokiLogger) ErrorWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithTrace(ctx, zapcore.ErrorLevel, msg, fields...)
}

func (l *LokiLogger) logWithTrace(ctx context.Context, level zapcore.Level, msg string, fields ...zap.Field) {
	logFields := append(fields,
		zap.String("service", l.serviceName),
	)

	switch level {
	case zapcore.WarnLevel:
		l.Logger.Ctx(ctx).Warn(msg, logFields...)
	case zapcore.ErrorLevel:
		l.Logger.Ctx(ctx).Error(msg, logFields...)
	default:
		l.Logger.Ctx(ctx).Info(msg, logFields...)
	}

	if l.lokiURL != "" {
		go l.sendToLoki(ctx, level, msg, logFields)
	}
}

func (l *LokiLogger) sendToLoki(ctx context.Context, level zapcore.Level, msg string, fields []zap.Field) {
	logData := map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339Nano),
		"level":     level.String(),
		"message":   msg,
		"service":   l.serviceName,
	}

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		logData["trace_id"] = span.SpanContext().TraceID().String()
		logData["span_id"] = span.SpanContext().SpanID().String()
	}

	for _, field := range fields {
		switch field.Type {
		case zapcore.StringType:
			logData[field.Key] = field.String
		case zapcore.Int64Type:
			logData[field.Key] = field.Integer
		case zapcore.BoolType:
			logData[field.Key] = field.Integer == 1
		case zapcore.ErrorType:
			logData[field.Key] = fmt.Sprintf("%v", field.Interface)
		default:
			logData[field.Key] = fmt.Sprintf("%v", field.Interface)
		}
	}

	line, err := json.Marshal(logData)
	if err != nil {
		return
	}

	push := lokiPush{
		Streams: []lokiStream{
			{
				Stream: map[string]string{
					"service": l.serviceName,
					"level":   level.String(),
				},
				Values: [][]string{
					{strconv.FormatInt(time.Now().UnixNano(), 10), string(line)},
				},
			},
		},
	}

	body, err := json.Marshal(push)
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, l.lokiURL, bytes.NewReader(body))
	if err != nil {
		return
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return
	}

	resp.Body.Close()
}
