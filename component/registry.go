package component

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/kafkaready/logger"
)

type entry struct {
	component Component
	started   bool
	startTook time.Duration
}

// Registry starts components in registration order and stops them in reverse.
type Registry struct {
	entries []*entry
	lookup  map[string]*entry
	stopTTL time.Duration
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		lookup:  make(map[string]*entry),
		stopTTL: 10 * time.Second,
	}
}

// Register adds c. Register dependencies first: a component may assume every
// component registered before it has started successfully.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, exists := r.lookup[name]; exists {
		return fmt.Errorf("component %s already registered", name)
	}

	e := &entry{component: c}
	r.entries = append(r.entries, e)
	r.lookup[name] = e

	logger.Debug("Component registered", logger.Fields(logger.FieldComponent, name))
	return nil
}

// StartAll starts every component in order and stops at the first failure.
// Components that did start stay marked so StopAll can release them.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	logger.Info("Starting components", logger.Fields("count", len(r.entries)))

	for _, e := range r.entries {
		name := e.component.Name()
		start := time.Now()

		if err := e.component.Start(ctx); err != nil {
			logger.Error("Component start failed", logger.Fields(
				logger.FieldComponent, name,
				logger.FieldError, err.Error(),
				logger.FieldDuration, time.Since(start).Milliseconds(),
			))
			return fmt.Errorf("failed to start %s: %w", name, err)
		}

		e.started = true
		e.startTook = time.Since(start)
		logger.Info("Component started", logger.Fields(
			logger.FieldComponent, name,
			logger.FieldDuration, e.startTook.Milliseconds(),
		))
	}
	return nil
}

// StopAll stops started components in reverse order, collecting every error.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if !e.started {
			continue
		}
		name := e.component.Name()

		stopCtx, cancel := context.WithTimeout(ctx, r.stopTTL)
		if err := e.component.Stop(stopCtx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop %s: %w", name, err))
			logger.Error("Component stop failed", logger.Fields(
				logger.FieldComponent, name,
				logger.FieldError, err.Error(),
			))
		} else {
			logger.Info("Component stopped", logger.Fields(logger.FieldComponent, name))
		}
		e.started = false
		cancel()
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}

// HealthAll returns the health of every component in registration order.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]Health, 0, len(r.entries))
	for _, e := range r.entries {
		results = append(results, e.component.Health(ctx))
	}
	return results
}

// Ready returns an error naming every component that is not healthy.
func (r *Registry) Ready(ctx context.Context) error {
	var notReady []string
	for _, h := range r.HealthAll(ctx) {
		if h.Healthy() {
			continue
		}
		detail := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			detail += "(" + h.Message + ")"
		}
		notReady = append(notReady, detail)
	}
	if len(notReady) > 0 {
		return fmt.Errorf("components not ready: %v", notReady)
	}
	return nil
}

// Get returns a registered component by name, or nil.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.lookup[name]; ok {
		return e.component
	}
	return nil
}

// All returns every component in registration order.
func (r *Registry) All() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Component, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.component)
	}
	return out
}

// StartDurations reports how long each started component took to start.
func (r *Registry) StartDurations() map[string]time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]time.Duration, len(r.entries))
	for _, e := range r.entries {
		if e.started {
			out[e.component.Name()] = e.startTook
		}
	}
	return out
}
