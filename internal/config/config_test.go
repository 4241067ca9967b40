package config_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/rfdict/internal/config"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
	}{
		{"zero_value_is_valid", func(*config.Config) {}, nil},
		{
			"negative_hibernation_threshold",
			func(c *config.Config) { c.Dict.HibernationThreshold = -1 },
			config.ErrInvalidHibernationThreshold,
		},
		{
			"bad_log_level",
			func(c *config.Config) { c.Log.Level = "verbose" },
			config.ErrInvalidLogLevel,
		},
		{
			"sample_ratio_above_one",
			func(c *config.Config) { c.Telemetry.SampleRatio = 1.5 },
			config.ErrInvalidSampleRatio,
		},
		{
			"negative_sample_ratio",
			func(c *config.Config) { c.Telemetry.SampleRatio = -0.1 },
			config.ErrInvalidSampleRatio,
		},
		{
			"negative_shutdown_timeout",
			func(c *config.Config) { c.Telemetry.ShutdownTimeoutSec = -1 },
			config.ErrInvalidShutdownTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var cfg config.Config

			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		cfg := config.Config{Log: config.LogConfig{Level: tt.level}}

		got, err := cfg.SlogLevel()
		require.NoError(t, err, "level %q", tt.level)
		assert.Equal(t, tt.want, got, "level %q", tt.level)
	}

	cfg := config.Config{Log: config.LogConfig{Level: "trace"}}
	_, err := cfg.SlogLevel()
	assert.ErrorIs(t, err, config.ErrInvalidLogLevel)
}
