package kafka

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/kafkaready/component"
	"github.com/kbukum/kafkaready/logger"
)

// ProducerCloser is satisfied by any producer that can be closed.
type ProducerCloser interface {
	Close() error
}

// Component provisions the configured topics on Start and reports healthy
// only once every topic is visible in the cluster.
type Component struct {
	cfg      Config
	admin    *Admin
	log      *logger.Logger
	producer ProducerCloser

	mu      sync.RWMutex
	status  component.HealthStatus
	lastErr error
	readyAt time.Time
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates the Kafka readiness component.
func NewComponent(cfg Config, admin *Admin, log *logger.Logger) *Component {
	return &Component{
		cfg:    cfg,
		admin:  admin,
		log:    log.WithComponent("kafka"),
		status: component.StatusPending,
	}
}

// SetProducer hands the producer to the component so Stop closes it.
func (c *Component) SetProducer(p ProducerCloser) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.producer = p
}

// Name returns the component name.
func (c *Component) Name() string { return "kafka" }

// Start builds the topic specs from config and blocks in
// ProvisionAndAwaitTopics. A disabled component starts immediately.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		c.setResult(nil)
		c.log.Info("Kafka disabled, skipping topic provisioning")
		return nil
	}

	specs, err := BuildTopicSpecs(c.cfg.TopicNamesToCreate, c.cfg.NumOfPartitions, c.cfg.ReplicationFactor)
	if err != nil {
		c.setResult(err)
		return err
	}

	err = c.admin.ProvisionAndAwaitTopics(ctx, specs)
	c.setResult(err)
	return err
}

func (c *Component) setResult(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
	if err != nil {
		c.status = component.StatusUnhealthy
		return
	}
	c.status = component.StatusHealthy
	c.readyAt = time.Now()
}

// Stop closes the producer, if one was set, which also releases its
// transport. The admin client keeps no connection between calls.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.producer == nil {
		return nil
	}
	err := c.producer.Close()
	c.producer = nil
	return err
}

// Health reports the result of the last Start. It does not touch the network.
func (c *Component) Health(_ context.Context) component.Health {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var note string
	switch {
	case c.status == component.StatusPending:
		note = "waiting for topics"
	case !c.cfg.Enabled:
		note = "disabled"
	}
	return component.Snapshot(c.Name(), c.status, c.lastErr, note)
}

// Describe returns the startup summary line.
func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("brokers=%v topics=%v partitions=%d rf=%d",
		c.cfg.Brokers, c.cfg.TopicNamesToCreate, c.cfg.NumOfPartitions, c.cfg.ReplicationFactor)
	return component.Description{
		Name:    "Kafka",
		Type:    "kafka",
		Details: details,
	}
}
