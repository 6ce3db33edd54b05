package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dogmatiq/postrpc"
	"github.com/dogmatiq/postrpc/httptransport"
	"github.com/dogmatiq/postrpc/internal/config"
	"github.com/dogmatiq/postrpc/middleware/otelpostrpc"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newRootCommand returns the rpcpost command.
func newRootCommand() *cobra.Command {
	var (
		configPath string
		headers    []string
		field      string
		pretty     bool
	)

	cmd := &cobra.Command{
		Use:   "rpcpost [flags] <payload | ->",
		Short: "Post a JSON payload to an RPC server",
		Long: `Post a JSON payload to an RPC server and print the response body.

The payload is given as the only argument, or read from stdin when the
argument is "-". Settings are read from the config file given by --config,
then from RPCPOST_* environment variables, then from flags.

Examples:
  rpcpost --url http://localhost:9091/transmission/rpc '{"method":"session-get"}'
  echo '{"method":"torrent-get"}' | rpcpost --user admin --password secret -
  rpcpost --field arguments.version --url http://nas:9091/transmission/rpc '{"method":"session-get"}'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath, flagOverrides(cmd.Flags(), headers))
			if err != nil {
				return err
			}

			payload, err := readPayload(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			var options []httptransport.Option

			if cfg.Log.Level != config.LogLevelOff {
				logger := newLogger(cfg.Log, cmd.ErrOrStderr())
				defer logger.Sync() // nolint:errcheck

				options = append(options, httptransport.WithZapLogger(logger))
			}

			var tp *sdktrace.TracerProvider
			if cfg.Trace.Enabled {
				tp, err = newTracerProvider(cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				defer tp.Shutdown(context.Background()) // nolint:errcheck

				options = append(options, httptransport.WithTracerProvider(tp))
			}

			var transport postrpc.Transport = httptransport.NewTransport(options...)

			if tp != nil {
				transport = &otelpostrpc.Tracing{
					Next:           transport,
					TracerProvider: tp,
					ServiceName:    "rpcpost",
				}
			}

			if cfg.Username != "" {
				transport.SetAuthentication(cfg.URL, cfg.Username, cfg.Password)
			}

			body, err := transport.Post(
				cmd.Context(),
				cfg.URL,
				payload,
				toHeader(cfg.Headers),
				cfg.Timeout,
			)
			if err != nil {
				return err
			}

			out, err := render(body, field, pretty)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	flags.String("url", "", "URL of the RPC endpoint")
	flags.StringP("user", "u", "", "login used to answer authentication challenges")
	flags.StringP("password", "p", "", "password used to answer authentication challenges")
	flags.Duration("timeout", config.DefaultTimeout, "request timeout, zero means no timeout")
	flags.StringArrayVarP(&headers, "header", "H", nil, "additional request header in name=value form (repeatable)")
	flags.String("log-level", config.LogLevelOff, "exchange log level written to stderr (off, debug, info, warn, error)")
	flags.Bool("trace", false, "write OpenTelemetry spans to stderr")
	flags.StringVar(&field, "field", "", "print only the value at this gjson path of the response")
	flags.BoolVar(&pretty, "pretty", false, "pretty-print the JSON response")

	return cmd
}

// flagOverrides returns the configuration values set explicitly by flags.
func flagOverrides(flags *pflag.FlagSet, headers []string) map[string]any {
	overrides := map[string]any{}

	keys := map[string]string{
		"url":       "url",
		"user":      "username",
		"password":  "password",
		"timeout":   "timeout",
		"log-level": "log.level",
		"trace":     "trace.enabled",
	}

	flags.Visit(func(f *pflag.Flag) {
		if key, ok := keys[f.Name]; ok {
			overrides[key] = f.Value.String()
		}
	})

	for _, h := range headers {
		name, value, _ := strings.Cut(h, "=")
		overrides["headers."+strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	return overrides
}

// readPayload returns the payload given by arg, reading it from r if arg is
// "-".
func readPayload(r io.Reader, arg string) (string, error) {
	payload := arg

	if arg == "-" {
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("unable to read payload: %w", err)
		}

		payload = string(data)
	}

	if !gjson.Valid(payload) {
		return "", errors.New("payload is not valid JSON")
	}

	return payload, nil
}

// render formats the response body for display.
func render(body, field string, pretty bool) (string, error) {
	out := body

	if field != "" {
		r := gjson.Get(body, field)
		if !r.Exists() {
			return "", fmt.Errorf("response does not contain %q", field)
		}

		out = r.Raw
		if r.Type == gjson.String && !pretty {
			out = r.Str
		}
	}

	if pretty && gjson.Valid(out) {
		out = strings.TrimRight(gjson.Get(out, "@pretty").Raw, "\n")
	}

	return out, nil
}

// toHeader converts configured headers to an http.Header.
func toHeader(m map[string]string) http.Header {
	if len(m) == 0 {
		return nil
	}

	h := http.Header{}
	for k, v := range m {
		h.Set(k, v)
	}

	return h
}

// newLogger returns the logger used to log exchanges.
func newLogger(cfg config.LogConfig, w io.Writer) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.WarnLevel
	}

	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	if cfg.Development {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}

	return zap.New(
		zapcore.NewCore(
			encoder,
			zapcore.AddSync(w),
			level,
		),
	)
}

// newTracerProvider returns a tracer provider that writes spans to w as they
// end.
func newTracerProvider(w io.Writer) (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create trace exporter: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	), nil
}
