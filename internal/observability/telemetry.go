package observability

import (
	"context"
	"errors"
)

// InitTelemetry starts tracing, metrics and OTLP log export. The returned
// function shuts all of them down; it is safe to call when InitTelemetry
// failed part way.
func InitTelemetry(ctx context.Context) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error

	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	for _, start := range []func(context.Context) (func(context.Context) error, error){
		InitTracing,
		InitMetrics,
		InitLogging,
	} {
		fn, err := start(ctx)
		if err != nil {
			return shutdown, err
		}
		shutdowns = append(shutdowns, fn)
	}

	return shutdown, nil
}
