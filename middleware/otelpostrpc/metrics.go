package otelpostrpc

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dogmatiq/postrpc"
	"github.com/dogmatiq/postrpc/internal/version"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics is an implementation of postrpc.Transport that provides
// OpenTelemetry metrics for each payload exchange.
type Metrics struct {
	// Next is the transport that performs the exchange.
	Next postrpc.Transport

	// MeterProvider is the OpenTelemetry MeterProvider used to create meters.
	MeterProvider metric.MeterProvider

	// ServiceName is an application specific service name to use in the
	// metric attributes.
	//
	// It may be empty, in which case it is omitted.
	ServiceName string

	once       sync.Once
	requests   metric.Int64Counter
	errors     metric.Int64Counter
	duration   metric.Int64Histogram
	attributes []attribute.KeyValue
}

var _ postrpc.Transport = (*Metrics)(nil)

// SetAuthentication configures the credentials used by the next transport.
func (m *Metrics) SetAuthentication(uri, login, password string) {
	m.Next.SetAuthentication(uri, login, password)
}

// Post sends payload to url and records metrics about the exchange.
func (m *Metrics) Post(
	ctx context.Context,
	url, payload string,
	header http.Header,
	timeout time.Duration,
) (string, error) {
	m.init()

	attrs := serverAttributes(url)
	attrs = append(attrs, m.attributes...)
	attrOption := metric.WithAttributes(attrs...)

	m.requests.Add(ctx, 1, attrOption)

	start := time.Now()
	body, err := m.Next.Post(ctx, url, payload, header, timeout)
	elapsed := time.Since(start)

	m.duration.Record(ctx, durationToMillis(elapsed), attrOption)

	if err != nil {
		attrs = append(attrs, errorAttributes(err)...)
		m.errors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}

	return body, err
}

// init initializes the meters if they have not already been initialized.
func (m *Metrics) init() {
	m.once.Do(func() {
		meter := m.MeterProvider.Meter(
			"github.com/dogmatiq/postrpc/middleware/otelpostrpc",
			metric.WithInstrumentationVersion(version.Version),
		)

		var err error

		m.requests, err = meter.Int64Counter(
			"rpc.client.requests",
			metric.WithDescription("The number of RPC payloads posted to a server."),
			metric.WithUnit("1"),
		)
		if err != nil {
			panic(err)
		}

		m.errors, err = meter.Int64Counter(
			"rpc.client.errors",
			metric.WithDescription("The number of RPC payload exchanges that failed."),
			metric.WithUnit("1"),
		)
		if err != nil {
			panic(err)
		}

		m.duration, err = meter.Int64Histogram(
			"rpc.client.duration",
			metric.WithDescription("The amount of time it takes to post an RPC payload and read the response."),
			metric.WithUnit("ms"),
		)
		if err != nil {
			panic(err)
		}

		m.attributes = commonAttributes(m.ServiceName)
	})
}

// durationToMillis converts a duration to milliseconds.
func durationToMillis(d time.Duration) int64 {
	return int64(d / time.Millisecond)
}
