package httptransport

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dogmatiq/postrpc"
)

// httpError returns the error that describes an HTTP error response.
//
// An empty body is treated as no body at all.
func httpError(u string, res *http.Response, body []byte) *postrpc.Error {
	return postrpc.NewError(
		postrpc.WithURL(u),
		postrpc.WithStatus(res.StatusCode, statusMessage(res)),
		postrpc.WithHeader(res.Header),
		postrpc.WithBody(body),
	)
}

// statusMessage returns the reason phrase of the response status line.
func statusMessage(res *http.Response) string {
	prefix := strconv.Itoa(res.StatusCode) + " "

	if m := strings.TrimPrefix(res.Status, prefix); m != res.Status && m != "" {
		return m
	}

	return http.StatusText(res.StatusCode)
}

// connectionError returns the error that describes a failure to obtain a
// complete response from the server.
//
// It extracts a numeric code and message from err where the shape of the
// error allows it.
func connectionError(u string, timeout time.Duration, err error) *postrpc.Error {
	options := []postrpc.ErrorOption{
		postrpc.WithURL(u),
	}

	var (
		errno  syscall.Errno
		netErr net.Error
	)

	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		if timeout > 0 {
			options = append(options, postrpc.WithMessage("request timed out after %s", timeout))
		} else {
			options = append(options, postrpc.WithMessage("request timed out"))
		}

	case errors.Is(err, context.Canceled):
		options = append(options, postrpc.WithMessage("request canceled"))

	case errors.As(err, &errno) && errno != 0:
		options = append(
			options,
			postrpc.WithCode(int(errno)),
			postrpc.WithMessage("%s", errno.Error()),
		)

	case strings.Contains(err.Error(), "malformed HTTP"):
		options = append(options, postrpc.WithMessage("malformed HTTP response"))

	default:
		options = append(options, postrpc.WithMessage("connection error: %s", underlying(err)))
	}

	options = append(options, postrpc.WithCause(err))

	return postrpc.NewError(options...)
}

// underlying returns the error wrapped by a *url.Error, which otherwise
// repeats the method and URL.
func underlying(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}

	return err
}
