package kafka

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/kafkaready/errors"
	"github.com/kbukum/kafkaready/logger"
	"github.com/kbukum/kafkaready/observability"
	"github.com/kbukum/kafkaready/resilience"
	"github.com/kbukum/kafkaready/validation"
)

const (
	opListTopics  = "list topics"
	opAwaitTopics = "await topics"
)

// ConvergencePoller waits until the cluster listing shows every expected topic.
type ConvergencePoller struct {
	admin  AdminAPI
	policy *resilience.Policy
	log    *logger.Logger
}

// NewConvergencePoller creates a ConvergencePoller.
func NewConvergencePoller(admin AdminAPI, policy *resilience.Policy, log *logger.Logger) *ConvergencePoller {
	return &ConvergencePoller{
		admin:  admin,
		policy: policy.With(resilience.WithRetryIf(IsRetryableError)),
		log:    log.WithComponent("kafka.convergence"),
	}
}

// AwaitTopics blocks until every name appears in the topic listing. Names
// are checked in order against one attempt budget shared by all of them;
// between observations it sleeps an interval seeded from SleepTime that
// grows by Multiplier up to MaxInterval. Each listing fetch is itself
// retried. Running out of observations or of listing retries returns
// CONVERGENCE_TIMEOUT; a cancelled context returns CANCELLED.
func (c *ConvergencePoller) AwaitTopics(ctx context.Context, names []string) (err error) {
	if len(names) == 0 {
		return nil
	}
	v := validation.New()
	for i, name := range names {
		v.Required(fmt.Sprintf("names[%d]", i), name)
	}
	if err := v.Error(); err != nil {
		return err
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanAwaitTopics,
		attribute.StringSlice(observability.AttrTopics, names))
	state := c.policy.NewPollState(opAwaitTopics)
	defer func() {
		span.SetAttributes(
			attribute.Int(observability.AttrAttempts, state.Attempt),
			attribute.String(observability.AttrOutcome, state.Phase.String()),
		)
		observability.EndSpan(span, err)
	}()

	listing, err := c.listTopics(ctx, state, names[0])
	if err != nil {
		return err
	}

	for _, name := range names {
		for !ContainsTopic(listing, name) {
			c.log.Info("Topic not visible yet", logger.Fields(
				logger.FieldTopic, name,
				logger.FieldAttempt, state.Attempt+1,
				logger.FieldMaxAttempts, c.policy.Config().MaxAttempts,
			))
			if err := state.Wait(ctx); err != nil {
				if stderrors.Is(err, resilience.ErrPollExhausted) {
					c.log.Error("Topic did not converge", logger.Fields(
						logger.FieldTopic, name,
						logger.FieldAttempt, state.Attempt,
					))
					return errors.ConvergenceTimeout(name, state.Attempt, nil)
				}
				return err
			}
			if listing, err = c.listTopics(ctx, state, name); err != nil {
				return err
			}
		}
	}

	state.Converge()
	c.log.Info("All topics visible", logger.Fields(
		logger.FieldTopics, names,
		logger.FieldAttempt, state.Attempt,
	))
	return nil
}

// listTopics fetches the listing under the retry policy. waitingFor is the
// topic reported if the fetch itself is exhausted.
func (c *ConvergencePoller) listTopics(ctx context.Context, state *resilience.PollState, waitingFor string) ([]TopicListing, error) {
	listing, err := resilience.Execute(ctx, c.policy, opListTopics, func(ctx context.Context) ([]TopicListing, error) {
		l, err := c.admin.ListTopics(ctx)
		if err != nil {
			return nil, ClassifyError(opListTopics, err)
		}
		for _, t := range l {
			c.log.Debug("Topic listed", logger.Fields(logger.FieldTopic, t.Name))
		}
		return l, nil
	})
	if err == nil {
		return listing, nil
	}
	if errors.HasCode(err, errors.ErrCodeCancelled) {
		state.Phase = resilience.Cancelled
		return nil, err
	}
	state.Phase = resilience.Exhausted
	return nil, errors.ConvergenceTimeout(waitingFor, state.Attempt, err)
}
