package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/kbukum/kafkaready/errors"
	"github.com/kbukum/kafkaready/resilience"
)

// InitMeter installs a periodic OTLP meter provider as the global provider.
func InitMeter(ctx context.Context, cfg Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.MetricInterval))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Outcome values recorded by RecordOutcome.
const (
	OutcomeReady     = "ready"
	OutcomeExhausted = "exhausted"
	OutcomeCancelled = "cancelled"
)

// ReadinessMetrics counts attempts and waits of the retry policy and the
// final outcome of each readiness step.
type ReadinessMetrics struct {
	attempts metric.Int64Counter
	waits    metric.Float64Histogram
	outcomes metric.Int64Counter
	duration metric.Float64Histogram
}

var _ resilience.Observer = (*ReadinessMetrics)(nil)

// NewReadinessMetrics creates the instruments on meter.
func NewReadinessMetrics(meter metric.Meter) (*ReadinessMetrics, error) {
	attempts, err := meter.Int64Counter("readiness.attempts",
		metric.WithDescription("Attempts and observations made while waiting for a dependency"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating readiness.attempts counter: %w", err)
	}

	waits, err := meter.Float64Histogram("readiness.wait",
		metric.WithDescription("Backoff waits between attempts"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating readiness.wait histogram: %w", err)
	}

	outcomes, err := meter.Int64Counter("readiness.outcome",
		metric.WithDescription("Final result of a readiness step"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating readiness.outcome counter: %w", err)
	}

	duration, err := meter.Float64Histogram("readiness.duration",
		metric.WithDescription("Time spent in a readiness step"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating readiness.duration histogram: %w", err)
	}

	return &ReadinessMetrics{
		attempts: attempts,
		waits:    waits,
		outcomes: outcomes,
		duration: duration,
	}, nil
}

// ObserveAttempt counts one attempt, tagged by operation and result.
func (m *ReadinessMetrics) ObserveAttempt(ctx context.Context, op string, _ int, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.attempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("result", result),
	))
}

// ObserveWait records one backoff wait.
func (m *ReadinessMetrics) ObserveWait(ctx context.Context, op string, wait time.Duration) {
	m.waits.Record(ctx, wait.Seconds(), metric.WithAttributes(attribute.String("operation", op)))
}

// RecordOutcome records how a readiness step ended and how long it took.
func (m *ReadinessMetrics) RecordOutcome(ctx context.Context, step, outcome string, took time.Duration) {
	m.outcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("step", step),
		attribute.String("outcome", outcome),
	))
	m.duration.Record(ctx, took.Seconds(), metric.WithAttributes(attribute.String("step", step)))
}

// OutcomeOf maps the result of a readiness step to an outcome value.
func OutcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeReady
	case errors.HasCode(err, errors.ErrCodeCancelled):
		return OutcomeCancelled
	default:
		return OutcomeExhausted
	}
}
