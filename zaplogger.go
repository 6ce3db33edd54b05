package postrpc

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ZapExchangeLogger is an implementation of ExchangeLogger using zap.Logger.
type ZapExchangeLogger struct {
	// Target is the destination for log messages.
	Target *zap.Logger
}

var _ ExchangeLogger = (*ZapExchangeLogger)(nil)

// LogSuccess logs information about an exchange that produced a successful
// response.
func (l ZapExchangeLogger) LogSuccess(ctx context.Context, x Exchange) {
	fields := []zap.Field{
		zap.Int("payload_size", x.PayloadSize),
		zap.Int("response_size", x.ResponseSize),
		zap.Duration("duration", x.Elapsed),
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		fields = append(fields, zap.String("trace_id", span.SpanContext().TraceID().String()))
	}

	l.Target.Info(
		"post "+x.URL,
		fields...,
	)
}

// LogError logs information about an exchange that failed.
func (l ZapExchangeLogger) LogError(ctx context.Context, x Exchange, err *Error) {
	fields := []zap.Field{
		zap.Int("payload_size", x.PayloadSize),
		zap.Duration("duration", x.Elapsed),
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		fields = append(fields, zap.String("trace_id", span.SpanContext().TraceID().String()))
	}

	if err.IsHTTPError() {
		fields = append(fields, zap.Int("status_code", err.Code()))
	} else if err.Code() != 0 {
		fields = append(fields, zap.Int("error_code", err.Code()))
	}

	fields = append(fields, zap.String("status", err.Message()))

	if body, ok := err.Body(); ok {
		fields = append(fields, zap.Int("body_size", len(body)))
	}

	if cause := err.Unwrap(); cause != nil && cause.Error() != err.Message() {
		fields = append(fields, zap.String("caused_by", cause.Error()))
	}

	l.Target.Error(
		"post "+x.URL,
		fields...,
	)
}
