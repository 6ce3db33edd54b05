package otelpostrpc

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/dogmatiq/postrpc"
	"go.opentelemetry.io/otel/attribute"
)

const (
	rpcSystemKey          = attribute.Key("rpc.system")
	rpcServiceKey         = attribute.Key("rpc.service")
	urlFullKey            = attribute.Key("url.full")
	serverAddressKey      = attribute.Key("server.address")
	httpMethodKey         = attribute.Key("http.request.method")
	httpStatusCodeKey     = attribute.Key("http.response.status_code")
	requestBodySizeKey    = attribute.Key("http.request.body.size")
	responseBodySizeKey   = attribute.Key("http.response.body.size")
	transportErrorCodeKey = attribute.Key("postrpc.error.code")
)

// commonAttributes returns the OpenTelemetry attributes that are recorded on
// every span and meter.
func commonAttributes(serviceName string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		rpcSystemKey.String("dogmatiq/postrpc"),
		httpMethodKey.String(http.MethodPost),
	}

	if serviceName != "" {
		attrs = append(
			attrs,
			rpcServiceKey.String(serviceName),
		)
	}

	return attrs
}

// serverAttributes returns the low-cardinality attributes that identify the
// server that u refers to.
func serverAttributes(u string) []attribute.KeyValue {
	if parsed, err := url.Parse(u); err == nil && parsed.Host != "" {
		return []attribute.KeyValue{
			serverAddressKey.String(parsed.Hostname()),
		}
	}

	return nil
}

// redactURL returns u without its userinfo component, if any.
func redactURL(u string) string {
	parsed, err := url.Parse(u)
	if err != nil || parsed.User == nil {
		return u
	}

	parsed.User = nil
	return parsed.String()
}

// errorAttributes returns the attributes that describe err.
func errorAttributes(err error) []attribute.KeyValue {
	var transportErr *postrpc.Error
	if !errors.As(err, &transportErr) {
		return nil
	}

	if transportErr.IsHTTPError() {
		return []attribute.KeyValue{
			httpStatusCodeKey.Int(transportErr.Code()),
		}
	}

	if transportErr.Code() != 0 {
		return []attribute.KeyValue{
			transportErrorCodeKey.Int(transportErr.Code()),
		}
	}

	return nil
}
