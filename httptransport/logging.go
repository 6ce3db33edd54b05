package httptransport

import (
	"github.com/dogmatiq/postrpc"
	"go.uber.org/zap"
)

// WithZapLogger is an Option that configures the transport to use a
// postrpc.ZapExchangeLogger for logging requests and responses.
func WithZapLogger(logger *zap.Logger) Option {
	return WithExchangeLogger(
		postrpc.ZapExchangeLogger{
			Target: logger.With(
				zap.String("transport", "http"),
			),
		},
	)
}
