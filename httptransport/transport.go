package httptransport

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dogmatiq/postrpc"
	"go.opentelemetry.io/otel/trace"
)

// mediaType is the MIME media-type used for RPC payloads when the caller does
// not specify one.
const mediaType = "application/json"

// Transport is the default implementation of postrpc.Transport.
//
// It is safe for concurrent use.
type Transport struct {
	client         *http.Client
	logger         postrpc.ExchangeLogger
	tracerProvider trace.TracerProvider

	m     sync.RWMutex
	creds *credentials
}

var _ postrpc.Transport = (*Transport)(nil)

// NewTransport returns a new HTTP transport.
//
// The options are applied in order.
func NewTransport(options ...Option) *Transport {
	t := &Transport{
		client: http.DefaultClient,
	}

	for _, opt := range options {
		opt(t)
	}

	if t.tracerProvider != nil {
		t.client = instrumentClient(t.client, t.tracerProvider)
	}

	return t
}

// SetAuthentication configures the credentials used to authenticate requests
// to URLs under uri.
//
// uri may be a full URL, or an authority in "host:port" form. If it is empty
// the credentials are used for every URL.
func (t *Transport) SetAuthentication(uri, login, password string) {
	c := newCredentials(uri, login, password)

	t.m.Lock()
	defer t.m.Unlock()

	t.creds = c
}

// Post sends payload to url and returns the body of the response.
func (t *Transport) Post(
	ctx context.Context,
	url, payload string,
	header http.Header,
	timeout time.Duration,
) (string, error) {
	x := postrpc.Exchange{
		URL:         url,
		PayloadSize: len(payload),
	}

	start := time.Now()
	body, err := t.post(ctx, url, payload, header, timeout)
	x.Elapsed = time.Since(start)

	if err != nil {
		if t.logger != nil {
			t.logger.LogError(ctx, x, err)
		}

		return "", err
	}

	x.ResponseSize = len(body)

	if t.logger != nil {
		t.logger.LogSuccess(ctx, x)
	}

	return body, nil
}

// post performs the HTTP exchange.
func (t *Transport) post(
	ctx context.Context,
	url, payload string,
	header http.Header,
	timeout time.Duration,
) (string, *postrpc.Error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := newRequest(ctx, url, payload, header)
	if err != nil {
		return "", postrpc.NewError(
			postrpc.WithURL(url),
			postrpc.WithMessage("invalid request: %s", err),
			postrpc.WithCause(err),
		)
	}

	res, err := t.do(req)
	if err != nil {
		return "", connectionError(url, timeout, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return "", connectionError(url, timeout, err)
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return "", httpError(url, res, data)
	}

	if !utf8.Valid(data) {
		return "", postrpc.NewError(
			postrpc.WithURL(url),
			postrpc.WithMessage("response body is not valid UTF-8"),
		)
	}

	return string(data), nil
}

// do sends req, answering an authentication challenge if the configured
// credentials cover the request URL.
func (t *Transport) do(req *http.Request) (*http.Response, error) {
	res, err := t.client.Do(req)
	if err != nil || res.StatusCode != http.StatusUnauthorized {
		return res, err
	}

	t.m.RLock()
	c := t.creds
	t.m.RUnlock()

	if c == nil || !c.covers(req.URL) {
		return res, nil
	}

	for _, authorize := range c.authorizers(res.Header) {
		retry, err := cloneRequest(req)
		if err != nil {
			return res, nil
		}

		if err := authorize(retry); err != nil {
			continue
		}

		io.Copy(io.Discard, res.Body) // nolint:errcheck
		res.Body.Close()

		return t.client.Do(retry)
	}

	return res, nil
}

// newRequest returns the HTTP request used to send payload to url.
func newRequest(
	ctx context.Context,
	url, payload string,
	header http.Header,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		url,
		strings.NewReader(payload),
	)
	if err != nil {
		return nil, err
	}

	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", mediaType)
	}

	return req, nil
}

// cloneRequest returns a copy of req with a fresh body so that it can be sent
// again.
func cloneRequest(req *http.Request) (*http.Request, error) {
	r := req.Clone(req.Context())

	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}

		r.Body = body
	}

	return r, nil
}
