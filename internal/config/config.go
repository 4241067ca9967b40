// Package config loads and validates rfdict configuration from file,
// environment variables, and defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
)

// Config is the top-level configuration struct for rfdict.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Dict      DictConfig      `mapstructure:"dict"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// DictConfig holds dictionary behavior settings.
type DictConfig struct {
	Sensitive            bool  `mapstructure:"sensitive"`
	Translate            bool  `mapstructure:"translate"`
	HibernationThreshold int   `mapstructure:"hibernation_threshold"`
	DefaultValue         int64 `mapstructure:"default_value"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint       string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure       bool    `mapstructure:"otlp_insecure"`
	OTLPHeaders        string  `mapstructure:"otlp_headers"`
	SampleRatio        float64 `mapstructure:"sample_ratio"`
	Environment        string  `mapstructure:"environment"`
	ShutdownTimeoutSec int     `mapstructure:"shutdown_timeout_sec"`
}

// Default configuration values.
const (
	DefaultDictSensitive            = false
	DefaultDictTranslate            = false
	DefaultDictHibernationThreshold = 0
	DefaultDictValue                = int64(-1)

	DefaultLogLevel = "info"
	DefaultLogJSON  = false

	DefaultTelemetrySampleRatio        = 0.0
	DefaultTelemetryShutdownTimeoutSec = 5
)

// sampleRatioMax is the upper bound for the trace sampling ratio.
const sampleRatioMax = 1.0

// Sentinel errors for configuration validation.
var (
	// ErrInvalidHibernationThreshold indicates the hibernation threshold is negative.
	ErrInvalidHibernationThreshold = errors.New("dict.hibernation_threshold must be non-negative")
	// ErrInvalidLogLevel indicates the log level is not one of debug, info, warn, error.
	ErrInvalidLogLevel = errors.New("log.level must be one of: debug, info, warn, error")
	// ErrInvalidSampleRatio indicates the sample ratio is out of range.
	ErrInvalidSampleRatio = errors.New("telemetry.sample_ratio must be between 0 and 1")
	// ErrInvalidShutdownTimeout indicates the shutdown timeout is negative.
	ErrInvalidShutdownTimeout = errors.New("telemetry.shutdown_timeout_sec must be non-negative")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if c.Dict.HibernationThreshold < 0 {
		return ErrInvalidHibernationThreshold
	}

	_, levelErr := c.SlogLevel()
	if levelErr != nil {
		return levelErr
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > sampleRatioMax {
		return ErrInvalidSampleRatio
	}

	if c.Telemetry.ShutdownTimeoutSec < 0 {
		return ErrInvalidShutdownTimeout
	}

	return nil
}

// SlogLevel maps the configured log level name to an slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: got %q", ErrInvalidLogLevel, c.Log.Level)
	}
}
