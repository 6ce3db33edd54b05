// Package postrpc defines a pluggable HTTP transport for RPC clients that
// exchange JSON payloads with a server using HTTP POST requests.
//
// The transport is deliberately unaware of the RPC protocol itself. It sends
// a payload, returns the response body as text and normalizes every failure to
// an *Error.
package postrpc

import (
	"context"
	"net/http"
	"time"
)

// Transport is an interface for sending RPC payloads to a server.
type Transport interface {
	// SetAuthentication configures the credentials used to authenticate
	// requests to URLs under uri.
	//
	// The credentials are used to answer HTTP Basic and HTTP Digest
	// challenges issued by the server. Any previously configured credentials
	// are replaced.
	SetAuthentication(uri, login, password string)

	// Post sends payload, a JSON document, to url using an HTTP POST request
	// and returns the body of the response.
	//
	// header contains additional request headers, it may be nil. If timeout
	// is positive the request is abandoned once it has elapsed.
	//
	// Any error returned is an *Error.
	Post(
		ctx context.Context,
		url, payload string,
		header http.Header,
		timeout time.Duration,
	) (string, error)
}
