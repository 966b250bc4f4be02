package schemaregistry

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/kafkaready/errors"
	"github.com/kbukum/kafkaready/httpclient"
	"github.com/kbukum/kafkaready/logger"
	"github.com/kbukum/kafkaready/observability"
	"github.com/kbukum/kafkaready/resilience"
)

const (
	opAwaitHealthy = "await healthy"
	stepName       = "schema_registry"
)

// Getter issues one GET. *httpclient.Client implements it.
type Getter interface {
	Get(ctx context.Context, url string) (*httpclient.Response, error)
}

// HealthPoller waits for a dependency's health URL to return 2xx.
type HealthPoller struct {
	getter  Getter
	policy  *resilience.Policy
	metrics *observability.ReadinessMetrics
	log     *logger.Logger
}

// Option customises a HealthPoller.
type Option func(*HealthPoller)

// WithReadinessMetrics records the outcome of each AwaitDependencyHealthy call.
func WithReadinessMetrics(m *observability.ReadinessMetrics) Option {
	return func(p *HealthPoller) { p.metrics = m }
}

// NewHealthPoller creates a HealthPoller.
func NewHealthPoller(getter Getter, policy *resilience.Policy, log *logger.Logger, opts ...Option) *HealthPoller {
	p := &HealthPoller{
		getter: getter,
		policy: policy,
		log:    log.WithComponent("schemaregistry"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AwaitHealthy checks url until it answers 2xx. Every other answer, and
// every transport failure, is one failed observation.
func (p *HealthPoller) AwaitHealthy(ctx context.Context, url string) (err error) {
	if strings.TrimSpace(url) == "" {
		return errors.Validation("health url is required")
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanAwaitHealthy,
		attribute.String(observability.AttrURL, url))
	state := p.policy.NewPollState(opAwaitHealthy)
	defer func() {
		span.SetAttributes(
			attribute.Int(observability.AttrAttempts, state.Attempt),
			attribute.String(observability.AttrOutcome, state.Phase.String()),
		)
		observability.EndSpan(span, err)
	}()

	for {
		status := p.check(ctx, url)
		if status >= 200 && status < 300 {
			state.Converge()
			p.log.Info("Dependency healthy", logger.Fields(
				logger.FieldURL, url,
				logger.FieldStatus, status,
				logger.FieldAttempt, state.Attempt+1,
			))
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			state.Phase = resilience.Cancelled
			return errors.Cancelled(opAwaitHealthy, ctxErr)
		}

		p.log.Info("Dependency not healthy yet", logger.Fields(
			logger.FieldURL, url,
			logger.FieldStatus, status,
			logger.FieldAttempt, state.Attempt+1,
			logger.FieldMaxAttempts, p.policy.Config().MaxAttempts,
		))
		if err := state.Wait(ctx); err != nil {
			if stderrors.Is(err, resilience.ErrPollExhausted) {
				p.log.Error("Dependency never became healthy", logger.Fields(
					logger.FieldURL, url,
					logger.FieldStatus, status,
					logger.FieldAttempt, state.Attempt,
				))
				return errors.DependencyUnhealthy(url, state.Attempt, status)
			}
			return err
		}
	}
}

// check returns the answer's status code, or 503 when there was no answer.
func (p *HealthPoller) check(ctx context.Context, url string) int {
	resp, err := p.getter.Get(ctx, url)
	if resp != nil {
		return resp.StatusCode
	}
	if err != nil {
		p.log.Debug("Health check failed", logger.ErrorFields("check", err))
		return httpclient.StatusOf(err)
	}
	return http.StatusServiceUnavailable
}

// AwaitDependencyHealthy is the startup entry point: AwaitHealthy plus an
// outcome record and a summary log line.
func (p *HealthPoller) AwaitDependencyHealthy(ctx context.Context, url string) error {
	start := time.Now()
	err := p.AwaitHealthy(ctx, url)
	took := time.Since(start)

	if p.metrics != nil {
		p.metrics.RecordOutcome(ctx, stepName, observability.OutcomeOf(err), took)
	}
	if err != nil {
		p.log.Error("Schema registry not ready", logger.ErrorFields("await dependency healthy", err))
		return err
	}
	p.log.Info("Schema registry ready", logger.Fields(
		logger.FieldURL, url,
		logger.FieldDuration, took.Milliseconds(),
	))
	return nil
}
