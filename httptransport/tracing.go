package httptransport

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

// WithTracerProvider is an Option that records an OpenTelemetry client span
// for each HTTP round-trip, including any round-trip made to answer an
// authentication challenge.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(t *Transport) {
		t.tracerProvider = tp
	}
}

// instrumentClient returns a copy of c that traces its round-trips.
func instrumentClient(c *http.Client, tp trace.TracerProvider) *http.Client {
	next := c.Transport
	if next == nil {
		next = http.DefaultTransport
	}

	instrumented := *c
	instrumented.Transport = otelhttp.NewTransport(
		next,
		otelhttp.WithTracerProvider(tp),
	)

	return &instrumented
}
