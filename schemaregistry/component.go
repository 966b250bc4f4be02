package schemaregistry

import (
	"context"
	"sync"

	"github.com/kbukum/kafkaready/component"
)

// Component waits for the schema registry on Start.
type Component struct {
	cfg    Config
	poller *HealthPoller

	mu      sync.RWMutex
	status  component.HealthStatus
	lastErr error
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates the schema registry readiness component.
func NewComponent(cfg Config, poller *HealthPoller) *Component {
	return &Component{cfg: cfg, poller: poller, status: component.StatusPending}
}

// Name returns the component name.
func (c *Component) Name() string { return "schema-registry" }

// Start blocks until the registry is healthy. A disabled component starts immediately.
func (c *Component) Start(ctx context.Context) error {
	var err error
	if c.cfg.Enabled {
		err = c.poller.AwaitDependencyHealthy(ctx, c.cfg.URL)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
	if err != nil {
		c.status = component.StatusUnhealthy
	} else {
		c.status = component.StatusHealthy
	}
	return err
}

// Stop is a no-op; the health client holds no resources.
func (c *Component) Stop(context.Context) error { return nil }

// Health reports the result of Start.
func (c *Component) Health(context.Context) component.Health {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var note string
	switch {
	case c.status == component.StatusPending:
		note = "waiting for " + c.cfg.URL
	case !c.cfg.Enabled:
		note = "disabled"
	}
	return component.Snapshot(c.Name(), c.status, c.lastErr, note)
}

// Describe returns the startup summary line.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Schema Registry",
		Type:    "schema-registry",
		Details: c.cfg.URL,
	}
}
