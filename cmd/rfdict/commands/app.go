// Package commands implements CLI command handlers for rfdict.
package commands

import (
	"context"
	"fmt"

	"github.com/Sumatoshi-tech/rfdict/internal/config"
	"github.com/Sumatoshi-tech/rfdict/pkg/dict"
	"github.com/Sumatoshi-tech/rfdict/pkg/observability"
	"github.com/Sumatoshi-tech/rfdict/pkg/version"
)

// app bundles the loaded configuration with initialized telemetry for the
// lifetime of one command invocation.
type app struct {
	cfg       *config.Config
	providers observability.Providers
	metrics   *observability.DictMetrics
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logLevel, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.LogLevel = logLevel
	obsCfg.LogJSON = cfg.Log.JSON
	obsCfg.ShutdownTimeoutSec = cfg.Telemetry.ShutdownTimeoutSec

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	metrics, err := observability.NewDictMetrics(providers.Meter)
	if err != nil {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("telemetry shutdown failed", "error", shutdownErr)
		}

		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return &app{
		cfg:       cfg,
		providers: providers,
		metrics:   metrics,
	}, nil
}

// close flushes pending telemetry. Failures are logged, not returned, since
// the command result matters more than a lost flush.
func (a *app) close(ctx context.Context) {
	err := a.providers.Shutdown(ctx)
	if err != nil {
		a.providers.Logger.WarnContext(ctx, "telemetry shutdown failed", "error", err)
	}
}

// newDict builds a dictionary configured from the loaded settings, with the
// given sensitivity override applied.
func (a *app) newDict(sensitive bool) *dict.Dict {
	d := dict.New(sensitive)
	d.Allocator().HibernationThreshold = a.cfg.Dict.HibernationThreshold

	return d
}
