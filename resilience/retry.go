package resilience

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/kbukum/kafkaready/errors"
	"github.com/kbukum/kafkaready/logger"
)

// Observer receives attempt and wait events, e.g. for metrics.
type Observer interface {
	ObserveAttempt(ctx context.Context, op string, attempt int, err error)
	ObserveWait(ctx context.Context, op string, wait time.Duration)
}

// Policy executes operations under a Config. It holds no per-call state, so
// one Policy is shared by every component.
type Policy struct {
	cfg      Config
	log      *logger.Logger
	sleep    SleepFunc
	retryIf  func(error) bool
	observer Observer
}

// Option customises a Policy.
type Option func(*Policy)

// WithSleep replaces the wait used between attempts.
func WithSleep(fn SleepFunc) Option {
	return func(p *Policy) { p.sleep = fn }
}

// WithRetryIf stops retrying as soon as fn returns false for an error.
func WithRetryIf(fn func(error) bool) Option {
	return func(p *Policy) { p.retryIf = fn }
}

// WithObserver reports attempts and waits to o.
func WithObserver(o Observer) Option {
	return func(p *Policy) { p.observer = o }
}

// NewPolicy creates a Policy. cfg is expected to be validated already.
func NewPolicy(cfg Config, log *logger.Logger, opts ...Option) *Policy {
	p := &Policy{
		cfg:     cfg,
		log:     log.WithComponent("retry"),
		sleep:   Sleep,
		retryIf: DefaultRetryIf,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// With returns a copy of p with opts applied, leaving p unchanged.
func (p *Policy) With(opts ...Option) *Policy {
	cp := *p
	for _, opt := range opts {
		opt(&cp)
	}
	return &cp
}

// Config returns the policy's configuration.
func (p *Policy) Config() Config {
	return p.cfg
}

// DefaultRetryIf retries all errors except context cancellation.
func DefaultRetryIf(err error) bool {
	return !stderrors.Is(err, context.Canceled) && !stderrors.Is(err, context.DeadlineExceeded)
}

// Execute runs fn up to MaxAttempts times, sleeping a growing, capped
// interval between failures. It returns the first successful result,
// errors.ErrCodeRetriesExhausted carrying the last error when every attempt
// failed, or errors.ErrCodeCancelled when ctx ends first.
func Execute[T any](ctx context.Context, p *Policy, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	backoff := NewBackoff(p.cfg.InitialInterval, p.cfg.MaxInterval, p.cfg.Multiplier)

	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, errors.Cancelled(op, err)
		}

		p.log.Info("Executing "+op, logger.Fields(
			logger.FieldOperation, op,
			logger.FieldAttempt, attempt,
			logger.FieldMaxAttempts, p.cfg.MaxAttempts,
		))

		result, err := fn(ctx)
		p.observeAttempt(ctx, op, attempt, err)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, errors.Cancelled(op, ctx.Err())
		}
		if !p.retryIf(err) {
			p.log.Error(op+" failed with a non-retryable error", logger.Fields(
				logger.FieldOperation, op,
				logger.FieldAttempt, attempt,
				logger.FieldError, err.Error(),
			))
			return zero, errors.RetriesExhausted(op, attempt, err)
		}
		if attempt == p.cfg.MaxAttempts {
			break
		}

		wait := backoff.Next()
		p.log.Warn(op+" failed, retrying", logger.Fields(
			logger.FieldOperation, op,
			logger.FieldAttempt, attempt,
			logger.FieldInterval, wait.Milliseconds(),
			logger.FieldError, err.Error(),
		))
		if p.observer != nil {
			p.observer.ObserveWait(ctx, op, wait)
		}
		if err := p.sleep(ctx, wait); err != nil {
			return zero, errors.Cancelled(op, err)
		}
	}

	p.log.Error(op+" retries exhausted", logger.Fields(
		logger.FieldOperation, op,
		logger.FieldMaxAttempts, p.cfg.MaxAttempts,
		logger.FieldError, lastErr.Error(),
	))
	return zero, errors.RetriesExhausted(op, p.cfg.MaxAttempts, lastErr)
}

// Do is Execute for operations without a result.
func (p *Policy) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	_, err := Execute(ctx, p, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

func (p *Policy) observeAttempt(ctx context.Context, op string, attempt int, err error) {
	if p.observer != nil {
		p.observer.ObserveAttempt(ctx, op, attempt, err)
	}
}
