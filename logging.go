package postrpc

import (
	"context"
	"time"
)

// Exchange describes a single POST request and, if one was obtained, its
// response.
type Exchange struct {
	// URL is the URL the payload was posted to.
	URL string

	// PayloadSize is the size of the request payload, in bytes.
	PayloadSize int

	// ResponseSize is the size of the response body, in bytes.
	ResponseSize int

	// Elapsed is the time taken to perform the exchange, including reading
	// the response body.
	Elapsed time.Duration
}

// ExchangeLogger is an interface for logging RPC payload exchanges.
type ExchangeLogger interface {
	// LogSuccess logs about an exchange that produced a successful response.
	LogSuccess(ctx context.Context, x Exchange)

	// LogError logs about an exchange that failed.
	LogError(ctx context.Context, x Exchange, err *Error)
}
