package postrpc_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	. "github.com/dogmatiq/postrpc"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ = Context("type ZapExchangeLogger", func() {
	var (
		ctx      context.Context
		exchange Exchange
		buffer   bytes.Buffer
		logger   ZapExchangeLogger
	)

	BeforeEach(func() {
		ctx = context.Background()

		exchange = Exchange{
			URL:          "http://host/rpc",
			PayloadSize:  9,
			ResponseSize: 12,
			Elapsed:      1500 * time.Millisecond,
		}

		buffer.Reset()

		logger = ZapExchangeLogger{
			Target: zap.New(
				zapcore.NewCore(
					zapcore.NewConsoleEncoder(
						zap.NewDevelopmentEncoderConfig(),
					),
					zapcore.AddSync(&buffer),
					zapcore.DebugLevel,
				),
			),
		}
	})

	Describe("func LogSuccess()", func() {
		It("logs the exchange information", func() {
			logger.LogSuccess(ctx, exchange)
			logger.Target.Sync()

			Expect(buffer.String()).To(
				ContainSubstring(
					`INFO	post http://host/rpc	{"payload_size": 9, "response_size": 12, "duration": "1.5s"}`,
				),
			)
		})
	})

	Describe("func LogError()", func() {
		It("logs details of an HTTP error response", func() {
			logger.LogError(
				ctx,
				exchange,
				NewError(
					WithURL(exchange.URL),
					WithStatus(http.StatusConflict, "Conflict"),
					WithBody([]byte("<body>")),
				),
			)
			logger.Target.Sync()

			Expect(buffer.String()).To(
				ContainSubstring(
					`ERROR	post http://host/rpc	{"payload_size": 9, "duration": "1.5s", "status_code": 409, "status": "Conflict", "body_size": 6}`,
				),
			)
		})

		It("logs details of a connection failure", func() {
			logger.LogError(
				ctx,
				exchange,
				NewError(
					WithURL(exchange.URL),
					WithMessage("connection error"),
					WithCause(errors.New("<cause>")),
				),
			)
			logger.Target.Sync()

			Expect(buffer.String()).To(
				ContainSubstring(
					`ERROR	post http://host/rpc	{"payload_size": 9, "duration": "1.5s", "status": "connection error", "caused_by": "<cause>"}`,
				),
			)
		})

		It("does not repeat the cause when it is also the message", func() {
			logger.LogError(
				ctx,
				exchange,
				NewError(
					WithCode(111),
					WithCause(errors.New("connection refused")),
				),
			)
			logger.Target.Sync()

			Expect(buffer.String()).To(
				ContainSubstring(
					`ERROR	post http://host/rpc	{"payload_size": 9, "duration": "1.5s", "error_code": 111, "status": "connection refused"}`,
				),
			)
		})
	})
})
