package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/roach88/metaclass/internal/engine"
)

const (
	configFileName = "metaclass"
	configFileType = "yaml"
	envPrefix      = "METACLASS"

	cfgKeySubtypeCache          = "subtype_cache"
	cfgKeyExposeInternalSources = "expose_internal_sources"
	cfgKeyLogLevel              = "log_level"

	defaultLogLevel = "info"
)

// Config is the resolved runtime configuration shared by all commands.
type Config struct {
	SubtypeCache          bool   `json:"subtype_cache"`
	ExposeInternalSources bool   `json:"expose_internal_sources"`
	LogLevel              string `json:"log_level"`
}

// DefaultConfig returns the configuration used when no file or
// environment overrides are present.
func DefaultConfig() *Config {
	return &Config{
		SubtypeCache: true,
		LogLevel:     defaultLogLevel,
	}
}

// LoadConfig reads configuration with viper. When path is empty it looks
// for metaclass.yaml in the working directory; a missing file there is not
// an error. An explicit path must exist. METACLASS_* environment variables
// override file values.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault(cfgKeySubtypeCache, true)
	v.SetDefault(cfgKeyExposeInternalSources, false)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		SubtypeCache:          v.GetBool(cfgKeySubtypeCache),
		ExposeInternalSources: v.GetBool(cfgKeyExposeInternalSources),
		LogLevel:              strings.ToLower(v.GetString(cfgKeyLogLevel)),
	}
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}

// EngineOptions converts the configuration into engine options.
func (c *Config) EngineOptions(logger *slog.Logger) []engine.Option {
	opts := []engine.Option{
		engine.WithSubtypeCache(c.SubtypeCache),
		engine.WithExposeInternalSources(c.ExposeInternalSources),
	}
	if logger != nil {
		opts = append(opts, engine.WithLogger(logger))
	}
	return opts
}

// NewLogger builds the stderr text logger. verbose forces debug level.
func (c *Config) NewLogger(w io.Writer, verbose bool) (*slog.Logger, error) {
	level, err := parseLogLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", s)
	}
}
