package calculator

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metric instruments, initialized once via InitMetrics(). Until then they
// discard everything, so the state machine can run without telemetry.
var (
	eventsCounter     metric.Int64Counter     = noop.Int64Counter{}
	evalCounter       metric.Int64Counter     = noop.Int64Counter{}
	evalHistogram     metric.Float64Histogram = noop.Float64Histogram{}
	errorCounter      metric.Int64Counter     = noop.Int64Counter{}
	resultGauge       metric.Float64Gauge     = noop.Float64Gauge{}
	persistErrCounter metric.Int64Counter     = noop.Int64Counter{}
)

// Session registry metrics, scraped from /metrics.
var (
	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "calcify",
		Name:      "sessions_active",
		Help:      "Number of live calculator sessions.",
	})
	sessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "calcify",
		Name:      "sessions_created_total",
		Help:      "Total number of calculator sessions created.",
	})
	sessionsEvicted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "calcify",
		Name:      "sessions_evicted_total",
		Help:      "Total number of calculator sessions evicted, by reason.",
	}, []string{"reason"})
)

// InitMetrics registers custom OTel metric instruments for the calculator domain.
// Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	eventsCounter, err = meter.Int64Counter("calculator.events.total",
		metric.WithDescription("Total number of input events handled"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return fmt.Errorf("creating events counter: %w", err)
	}

	evalCounter, err = meter.Int64Counter("calculator.evaluations.total",
		metric.WithDescription("Total number of successful evaluations"),
		metric.WithUnit("{evaluation}"),
	)
	if err != nil {
		return fmt.Errorf("creating evaluations counter: %w", err)
	}

	evalHistogram, err = meter.Float64Histogram("calculator.evaluation.duration",
		metric.WithDescription("Duration of expression evaluation in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10),
	)
	if err != nil {
		return fmt.Errorf("creating evaluation histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of failed evaluations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	resultGauge, err = meter.Float64Gauge("calculator.last_result",
		metric.WithDescription("The result of the last evaluation"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating result gauge: %w", err)
	}

	persistErrCounter, err = meter.Int64Counter("calculator.history.persist_errors.total",
		metric.WithDescription("Total number of history load or save failures"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating persist error counter: %w", err)
	}

	return nil
}
