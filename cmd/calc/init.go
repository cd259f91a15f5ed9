package main

import (
	"context"
	"errors"

	"decimal-calculator/internal/calculator"
	"decimal-calculator/internal/config"
	"decimal-calculator/internal/observability"
)

// initTelemetry installs the OTLP trace, metric and log pipelines when they
// are enabled and registers the calculator instruments. The returned
// function flushes and stops every pipeline that was started.
func initTelemetry(ctx context.Context, cfg config.Config) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	if cfg.OTel.Enabled {
		inits := []func(context.Context, string) (func(context.Context) error, error){
			observability.InitTracing,
			observability.InitMetrics,
			observability.InitLogging,
		}
		for _, start := range inits {
			stop, err := start(ctx, cfg.OTel.ServiceName)
			if err != nil {
				return nil, errors.Join(err, shutdown(ctx))
			}
			shutdowns = append(shutdowns, stop)
		}
	}

	if err := calculator.InitMetrics(); err != nil {
		return nil, errors.Join(err, shutdown(ctx))
	}

	return shutdown, nil
}
