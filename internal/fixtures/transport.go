package fixtures

import (
	"context"
	"net/http"
	"time"
)

// TransportStub is a test implementation of the postrpc.Transport interface.
type TransportStub struct {
	SetAuthenticationFunc func(uri, login, password string)
	PostFunc              func(context.Context, string, string, http.Header, time.Duration) (string, error)
}

// SetAuthentication configures the credentials used to authenticate requests.
func (s *TransportStub) SetAuthentication(uri, login, password string) {
	if s.SetAuthenticationFunc != nil {
		s.SetAuthenticationFunc(uri, login, password)
	}
}

// Post sends payload to url and returns the body of the response.
func (s *TransportStub) Post(
	ctx context.Context,
	url, payload string,
	header http.Header,
	timeout time.Duration,
) (string, error) {
	if s.PostFunc != nil {
		return s.PostFunc(ctx, url, payload, header, timeout)
	}

	return "", nil
}
