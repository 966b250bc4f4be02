package observability

import (
	"context"
	"errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/kafkaready/logger"
)

// ServiceInfo identifies the service in exported telemetry.
type ServiceInfo struct {
	Name        string
	Version     string
	Environment string
}

// Telemetry owns the providers installed by Init.
type Telemetry struct {
	tracer *sdktrace.TracerProvider
	meter  *sdkmetric.MeterProvider
}

// Init installs tracer and meter providers when cfg.Enabled. A disabled
// config yields a Telemetry whose Shutdown is a no-op.
func Init(ctx context.Context, cfg Config, svc ServiceInfo) (*Telemetry, error) {
	t := &Telemetry{}
	if !cfg.Enabled {
		return t, nil
	}

	res, err := newResource(svc.Name, svc.Version, svc.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	if t.tracer, err = InitTracer(ctx, cfg, res); err != nil {
		return nil, err
	}
	if t.meter, err = InitMeter(ctx, cfg, res); err != nil {
		_ = t.tracer.Shutdown(ctx)
		return nil, err
	}

	logger.Info("Telemetry initialized", logger.Fields(
		logger.FieldService, svc.Name,
		"endpoint", cfg.Endpoint,
		"sample_rate", cfg.SampleRate,
	))
	return t, nil
}

// Shutdown flushes and stops the providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.tracer != nil {
		errs = append(errs, t.tracer.Shutdown(ctx))
	}
	if t.meter != nil {
		errs = append(errs, t.meter.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
