package httptransport

import (
	"net/http"

	"github.com/dogmatiq/postrpc"
)

// Option is a function that changes the behavior of a transport.
type Option func(*Transport)

// WithHTTPClient is an Option that sets the HTTP client used to make requests.
//
// By default http.DefaultClient is used.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Transport) {
		t.client = c
	}
}

// WithExchangeLogger is an Option that sets the logger used to log each
// exchange.
//
// By default exchanges are not logged.
func WithExchangeLogger(l postrpc.ExchangeLogger) Option {
	return func(t *Transport) {
		t.logger = l
	}
}
