package postrpc_test

import (
	"errors"
	"net/http"

	. "github.com/dogmatiq/postrpc"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("type Error", func() {
	Describe("func Code()", func() {
		It("returns the HTTP status code", func() {
			err := NewError(WithStatus(http.StatusConflict, "Conflict"))
			Expect(err.Code()).To(Equal(http.StatusConflict))
		})

		It("returns the connection failure code", func() {
			err := NewError(WithCode(111))
			Expect(err.Code()).To(Equal(111))
		})

		It("returns zero if there is no code", func() {
			err := NewError(WithMessage("<message>"))
			Expect(err.Code()).To(Equal(0))
		})
	})

	Describe("func Message()", func() {
		It("returns the provided message", func() {
			err := NewError(WithStatus(http.StatusNotFound, "<message>"))
			Expect(err.Message()).To(Equal("<message>"))
		})

		It("returns the standard status text of an HTTP error without a message", func() {
			err := NewError(WithStatus(http.StatusNotFound, ""))
			Expect(err.Message()).To(Equal("Not Found"))
		})

		It("returns the cause's message if there is no other message", func() {
			err := NewError(WithCause(errors.New("<cause>")))
			Expect(err.Message()).To(Equal("<cause>"))
		})

		It("does not replace an existing message with the cause's message", func() {
			err := NewError(
				WithMessage("<message>"),
				WithCause(errors.New("<cause>")),
			)
			Expect(err.Message()).To(Equal("<message>"))
		})

		It("returns a generic message if nothing else is known", func() {
			err := NewError()
			Expect(err.Message()).To(Equal("unknown transport error"))
		})
	})

	Describe("func Body()", func() {
		It("returns the body of the HTTP response", func() {
			err := NewError(
				WithStatus(http.StatusInternalServerError, ""),
				WithBody([]byte("<body>")),
			)

			body, ok := err.Body()
			Expect(ok).To(BeTrue())
			Expect(body).To(Equal([]byte("<body>")))
		})

		It("returns false if the body is empty", func() {
			err := NewError(
				WithStatus(http.StatusInternalServerError, ""),
				WithBody([]byte{}),
			)

			_, ok := err.Body()
			Expect(ok).To(BeFalse())
		})

		It("returns false if there is no body", func() {
			err := NewError(WithStatus(http.StatusInternalServerError, ""))

			_, ok := err.Body()
			Expect(ok).To(BeFalse())
		})
	})

	Describe("func IsHTTPError()", func() {
		It("returns true if the error describes an HTTP response", func() {
			err := NewError(WithStatus(http.StatusBadGateway, ""))
			Expect(err.IsHTTPError()).To(BeTrue())
		})

		It("returns false if the error describes a connection failure", func() {
			err := NewError(WithCode(111), WithMessage("connection refused"))
			Expect(err.IsHTTPError()).To(BeFalse())
		})
	})

	Describe("func Error()", func() {
		It("includes the URL, code and message", func() {
			err := NewError(
				WithURL("http://host/rpc"),
				WithStatus(http.StatusUnauthorized, "Unauthorized"),
			)
			Expect(err).To(MatchError("http://host/rpc: [401] Unauthorized"))
		})

		It("omits the URL when it is unknown", func() {
			err := NewError(WithStatus(http.StatusUnauthorized, "Unauthorized"))
			Expect(err).To(MatchError("[401] Unauthorized"))
		})

		It("omits the code when it is zero", func() {
			err := NewError(
				WithURL("http://host/rpc"),
				WithMessage("connection error: %s", "<cause>"),
			)
			Expect(err).To(MatchError("http://host/rpc: connection error: <cause>"))
		})
	})

	Describe("func Unwrap()", func() {
		It("returns the cause", func() {
			cause := errors.New("<cause>")
			err := NewError(WithCause(cause))
			Expect(errors.Is(err, cause)).To(BeTrue())
		})
	})
})
