// Package otelpostrpc provides OpenTelemetry tracing and metrics for
// postrpc transports.
package otelpostrpc
