// Package config loads the configuration of the rpcpost command using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override
// configuration values.
const EnvPrefix = "RPCPOST_"

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 30 * time.Second

// LogLevelOff is the default log level. It disables exchange logging.
const LogLevelOff = "off"

// Config is the root configuration structure.
type Config struct {
	URL      string            `koanf:"url"      validate:"required,url"`
	Username string            `koanf:"username"`
	Password string            `koanf:"password"`
	Timeout  time.Duration     `koanf:"timeout"  validate:"min=0"`
	Headers  map[string]string `koanf:"headers"`
	Log      LogConfig         `koanf:"log"`
	Trace    TraceConfig       `koanf:"trace"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level       string `koanf:"level"       validate:"oneof=off debug info warn error"`
	Development bool   `koanf:"development"`
}

// TraceConfig holds tracing settings.
type TraceConfig struct {
	Enabled bool `koanf:"enabled"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"timeout":   DefaultTimeout.String(),
		"log.level": LogLevelOff,
	}
}

// Load reads the configuration.
//
// Values are taken from the following sources, later sources taking
// precedence:
//  1. Default values
//  2. The YAML file at path, if path is not empty
//  3. Environment variables with the RPCPOST_ prefix
//  4. overrides, keyed by koanf path (for example "log.level")
func Load(path string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file %q does not exist", path)
		}

		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %q: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, EnvPrefix)),
			"_",
			".",
		)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	if len(overrides) != 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("loading overrides: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
