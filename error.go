package postrpc

import (
	"fmt"
	"net/http"
	"strings"
)

// Error is a Go error that describes a failure to deliver an RPC payload or to
// obtain a successful response to it.
//
// It is the only error type returned by Transport implementations. It covers
// both HTTP error responses, in which case Code() is the HTTP status code, and
// lower-level connection failures, in which case Code() is a best-effort
// numeric code (typically an OS error number) or zero if none is available.
type Error struct {
	url     string
	code    int
	message string
	header  http.Header
	body    []byte
	isHTTP  bool
	cause   error
}

// NewError returns a new transport error.
//
// The options are applied in order.
func NewError(options ...ErrorOption) *Error {
	e := &Error{}

	for _, opt := range options {
		opt(e)
	}

	return e
}

// URL returns the URL of the failed request, if known.
func (e *Error) URL() string {
	return e.url
}

// Code returns the HTTP status code of the error response, or a best-effort
// numeric code describing a connection failure.
//
// It returns zero if no code is available.
func (e *Error) Code() int {
	return e.code
}

// Message returns the status message of the error response, or a description
// of the connection failure.
func (e *Error) Message() string {
	if e.message != "" {
		return e.message
	}

	if e.isHTTP {
		if t := http.StatusText(e.code); t != "" {
			return t
		}
	}

	return "unknown transport error"
}

// Header returns the headers of the HTTP error response.
//
// It returns nil if the error does not describe an HTTP response.
func (e *Error) Header() http.Header {
	return e.header
}

// Body returns the body of the HTTP error response.
//
// ok is false if the response had no body, or if the error does not describe
// an HTTP response.
func (e *Error) Body() (_ []byte, ok bool) {
	return e.body, len(e.body) != 0
}

// IsHTTPError returns true if e describes an HTTP error response, as opposed
// to a failure to obtain a response at all.
func (e *Error) IsHTTPError() bool {
	return e.isHTTP
}

// Error returns the error message.
func (e *Error) Error() string {
	var w strings.Builder

	if e.url != "" {
		w.WriteString(e.url)
		w.WriteString(": ")
	}

	if e.code != 0 {
		fmt.Fprintf(&w, "[%d] ", e.code)
	}

	w.WriteString(e.Message())

	return w.String()
}

// Unwrap returns the cause of e, if known.
func (e *Error) Unwrap() error {
	return e.cause
}

// ErrorOption is an option that provides further information about a
// transport error.
type ErrorOption func(*Error)

// WithURL is an ErrorOption that records the URL of the failed request.
func WithURL(url string) ErrorOption {
	return func(e *Error) {
		e.url = url
	}
}

// WithStatus is an ErrorOption that marks the error as an HTTP error response
// with the given status code and message.
//
// If message is empty the standard status text for code is used.
func WithStatus(code int, message string) ErrorOption {
	return func(e *Error) {
		e.isHTTP = true
		e.code = code
		e.message = message
	}
}

// WithCode is an ErrorOption that associates a numeric code with a connection
// failure.
func WithCode(code int) ErrorOption {
	return func(e *Error) {
		e.code = code
	}
}

// WithMessage is an ErrorOption that provides a description of the error.
func WithMessage(format string, values ...interface{}) ErrorOption {
	return func(e *Error) {
		e.message = fmt.Sprintf(format, values...)
	}
}

// WithHeader is an ErrorOption that associates the headers of an HTTP error
// response with the error.
func WithHeader(h http.Header) ErrorOption {
	return func(e *Error) {
		e.header = h
	}
}

// WithBody is an ErrorOption that associates the body of an HTTP error
// response with the error.
func WithBody(body []byte) ErrorOption {
	return func(e *Error) {
		e.body = body
	}
}

// WithCause is an ErrorOption that associates a causal error with a transport
// error.
//
// c is wrapped by the resulting error, such that it can be used with
// errors.Is() and errors.As().
//
// If the error does not already have a message, c.Error() is used as the
// message.
func WithCause(c error) ErrorOption {
	return func(e *Error) {
		e.cause = c

		if e.message == "" {
			e.message = c.Error()
		}
	}
}
