package kafka

import (
	"context"
	"time"

	"github.com/kbukum/kafkaready/logger"
	"github.com/kbukum/kafkaready/observability"
	"github.com/kbukum/kafkaready/resilience"
)

// Admin is the startup entry point for topic readiness: create, then wait
// until the cluster lists every created topic.
type Admin struct {
	provisioner *Provisioner
	poller      *ConvergencePoller
	metrics     *observability.ReadinessMetrics
	log         *logger.Logger
}

// AdminOption customises an Admin.
type AdminOption func(*Admin)

// WithReadinessMetrics records the outcome of each ProvisionAndAwaitTopics call.
func WithReadinessMetrics(m *observability.ReadinessMetrics) AdminOption {
	return func(a *Admin) { a.metrics = m }
}

// NewAdmin builds the provisioner and the convergence poller on one admin
// connection and one retry policy.
func NewAdmin(api AdminAPI, policy *resilience.Policy, log *logger.Logger, opts ...AdminOption) *Admin {
	a := &Admin{
		provisioner: NewProvisioner(api, policy, log),
		poller:      NewConvergencePoller(api, policy, log),
		log:         log.WithComponent("kafka.admin"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Provisioner returns the underlying provisioner.
func (a *Admin) Provisioner() *Provisioner { return a.provisioner }

// Poller returns the underlying convergence poller.
func (a *Admin) Poller() *ConvergencePoller { return a.poller }

// ProvisionAndAwaitTopics creates specs and blocks until all of them are
// listed. Calling it again with the same specs succeeds: existing topics
// count as created and are already visible.
func (a *Admin) ProvisionAndAwaitTopics(ctx context.Context, specs []TopicSpec) error {
	start := time.Now()

	err := a.provisioner.CreateTopics(ctx, specs)
	if err == nil {
		err = a.poller.AwaitTopics(ctx, SpecNames(specs))
	}

	took := time.Since(start)
	if a.metrics != nil {
		a.metrics.RecordOutcome(ctx, "kafka.topics", observability.OutcomeOf(err), took)
	}
	if err != nil {
		a.log.Error("Topic provisioning failed", logger.ErrorFields("provision and await topics", err))
		return err
	}
	a.log.Info("Topics ready", logger.Fields(
		logger.FieldTopics, SpecNames(specs),
		logger.FieldDuration, took.Milliseconds(),
	))
	return nil
}
