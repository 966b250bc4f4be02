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
)

const opCreateTopics = "create topics"

// Provisioner creates topics through the admin API under the retry policy.
type Provisioner struct {
	admin  AdminAPI
	policy *resilience.Policy
	log    *logger.Logger
}

// NewProvisioner creates a Provisioner. Non-retryable broker errors
// (invalid replication factor, authorization) stop the retry loop early.
func NewProvisioner(admin AdminAPI, policy *resilience.Policy, log *logger.Logger) *Provisioner {
	return &Provisioner{
		admin:  admin,
		policy: policy.With(resilience.WithRetryIf(IsRetryableError)),
		log:    log.WithComponent("kafka.provisioner"),
	}
}

// CreateTopics submits one create request for all specs, retrying transient
// failures. Topics that already exist count as created. Exhaustion returns
// PROVISIONING_FAILED; a cancelled context returns CANCELLED.
func (p *Provisioner) CreateTopics(ctx context.Context, specs []TopicSpec) (err error) {
	if len(specs) == 0 {
		return nil
	}
	names := SpecNames(specs)

	ctx, span := observability.StartSpan(ctx, observability.SpanProvisionTopics,
		attribute.StringSlice(observability.AttrTopics, names))
	defer func() { observability.EndSpan(span, err) }()

	err = p.policy.Do(ctx, opCreateTopics, func(ctx context.Context) error {
		p.log.Info("Start creating topic(s)", logger.Fields(
			logger.FieldTopics, names,
			"count", len(specs),
		))
		results, err := p.admin.CreateTopics(ctx, specs)
		if err != nil {
			return ClassifyError(opCreateTopics, err)
		}
		return p.checkResults(specs, results)
	})
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeCancelled) {
			return err
		}
		return errors.ProvisioningFailed(names, err)
	}

	p.log.Info("Topic(s) created", logger.Fields(logger.FieldTopics, names))
	return nil
}

// checkResults folds per-topic results into one error; "already exists" is success.
func (p *Provisioner) checkResults(specs []TopicSpec, results map[string]error) error {
	var failed []error
	for _, s := range specs {
		err := results[s.Name]
		switch {
		case err == nil:
		case IsTopicAlreadyExists(err):
			p.log.Debug("Topic already exists", logger.Fields(logger.FieldTopic, s.Name))
		default:
			failed = append(failed, fmt.Errorf("topic %s: %w", s.Name, err))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return ClassifyError(opCreateTopics, stderrors.Join(failed...))
}
