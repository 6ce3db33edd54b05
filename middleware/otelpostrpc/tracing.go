package otelpostrpc

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dogmatiq/postrpc"
	"github.com/dogmatiq/postrpc/internal/version"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing is an implementation of postrpc.Transport that provides
// OpenTelemetry tracing for each payload exchange.
type Tracing struct {
	// Next is the transport that performs the exchange.
	Next postrpc.Transport

	// TracerProvider is the OpenTelemetry TracerProvider to use for creating
	// spans.
	TracerProvider trace.TracerProvider

	// ServiceName is an application specific service name to use in the span
	// name and attributes.
	//
	// It may be empty, in which case it is omitted from the span.
	ServiceName string

	once       sync.Once
	tracer     trace.Tracer
	spanName   string
	attributes []attribute.KeyValue
}

var _ postrpc.Transport = (*Tracing)(nil)

// SetAuthentication configures the credentials used by the next transport.
func (t *Tracing) SetAuthentication(uri, login, password string) {
	t.Next.SetAuthentication(uri, login, password)
}

// Post sends payload to url within a new client span.
func (t *Tracing) Post(
	ctx context.Context,
	url, payload string,
	header http.Header,
	timeout time.Duration,
) (string, error) {
	t.init()

	ctx, span := t.tracer.Start(
		ctx,
		t.spanName,
		trace.WithSpanKind(trace.SpanKindClient),
	)
	defer span.End()

	span.SetAttributes(t.attributes...)
	span.SetAttributes(serverAttributes(url)...)
	span.SetAttributes(
		urlFullKey.String(redactURL(url)),
		requestBodySizeKey.Int(len(payload)),
	)

	body, err := t.Next.Post(ctx, url, payload, header, timeout)
	if err != nil {
		span.SetAttributes(errorAttributes(err)...)
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return "", err
	}

	span.SetAttributes(responseBodySizeKey.Int(len(body)))
	span.SetStatus(codes.Ok, "")

	return body, nil
}

// init initializes the tracer if it has not already been initialized.
func (t *Tracing) init() {
	t.once.Do(func() {
		t.tracer = t.TracerProvider.Tracer(
			"github.com/dogmatiq/postrpc/middleware/otelpostrpc",
			trace.WithInstrumentationVersion(version.Version),
		)

		t.attributes = commonAttributes(t.ServiceName)
		t.spanName = "post"

		if t.ServiceName != "" {
			t.spanName = t.ServiceName + "/post"
		}
	})
}
