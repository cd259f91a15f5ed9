package calculator

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metric instruments. They are no-ops until InitMetrics runs.
var (
	opsCounter      metric.Int64Counter     = noop.Int64Counter{}
	opsHistogram    metric.Float64Histogram = noop.Float64Histogram{}
	errorCounter    metric.Int64Counter     = noop.Int64Counter{}
	resultGauge     metric.Float64Gauge     = noop.Float64Gauge{}
	mismatchCounter metric.Int64Counter     = noop.Int64Counter{}
)

// InitMetrics registers the calculator instruments on the global meter
// provider. Call it once at startup, after observability.InitMetrics.
func InitMetrics() error {
	return initMetrics(otel.Meter("calculator"))
}

func initMetrics(meter metric.Meter) error {
	var err error

	opsCounter, err = meter.Int64Counter("calculator.operations.total",
		metric.WithDescription("Total number of calculator operations performed"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return fmt.Errorf("creating ops counter: %w", err)
	}

	opsHistogram, err = meter.Float64Histogram("calculator.operation.duration",
		metric.WithDescription("Duration of calculator operations in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10),
	)
	if err != nil {
		return fmt.Errorf("creating ops histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of failed calculator operations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	resultGauge, err = meter.Float64Gauge("calculator.last_result",
		metric.WithDescription("Approximate result of the last calculator operation"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating result gauge: %w", err)
	}

	mismatchCounter, err = meter.Int64Counter("calculator.records.mismatch.total",
		metric.WithDescription("Loaded records whose stored result differs from the recomputed one"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return fmt.Errorf("creating mismatch counter: %w", err)
	}

	return nil
}
