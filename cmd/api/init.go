package main

import (
	"context"

	"calcify/internal/calculator"
	"calcify/internal/observability"
)

// initTelemetry starts OTLP export and the calculator's metric instruments.
// With telemetry off the instruments stay no-ops and only Prometheus is served.
func initTelemetry(ctx context.Context, enabled bool) (func(context.Context) error, error) {
	if !enabled {
		return func(context.Context) error { return nil }, nil
	}

	shutdown, err := observability.InitTelemetry(ctx)
	if err != nil {
		return shutdown, err
	}

	if err := calculator.InitMetrics(); err != nil {
		return shutdown, err
	}

	return shutdown, nil
}
