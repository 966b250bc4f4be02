package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/kafkaready/component"
	"github.com/kbukum/kafkaready/logger"
)

const defaultGracefulTimeout = 15 * time.Second

// App drives a service through its lifecycle. C is the service config type;
// any struct embedding config.ServiceConfig satisfies Config.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.OnReady(func(ctx context.Context) error { ... })
//	if err := app.Run(ctx); err != nil {
//	    os.Exit(1)
//	}
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger
	Summary    *Summary

	gracefulTimeout time.Duration
	onConfigure     []func(ctx context.Context, app *App[C]) error

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp defaults and validates cfg, then sets up logging. Without
// WithLogger the config's logging block initializes the global logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	o := resolveOptions(opts)
	svc := cfg.GetServiceConfig()

	log := o.logger
	if log == nil {
		logger.Init(&svc.Logging)
		log = logger.GetGlobalLogger()
	}
	timeout := defaultGracefulTimeout
	if o.gracefulTimeout != nil {
		timeout = *o.gracefulTimeout
	}
	summary := NewSummary(svc.Name, svc.Version)
	if o.output != nil {
		summary.out = o.output
	}

	return &App[C]{
		Name:            svc.Name,
		Version:         svc.Version,
		Cfg:             cfg,
		Components:      component.NewRegistry(),
		Logger:          log,
		Summary:         summary,
		gracefulTimeout: timeout,
	}, nil
}

// RegisterComponent adds c to the registry. Start order is registration
// order: kafka before the schema registry before the HTTP server.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnConfigure registers a callback that runs once every component started.
// It receives the App so it can reach the typed config and the registry.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// ReadyCheck returns an error naming every component that is not healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	return a.Components.Ready(ctx)
}

// DisplaySummary prints the startup banner collected from the registry.
func (a *App[C]) DisplaySummary() {
	a.Summary.CollectFromRegistry(a.Components)
	a.Summary.DisplaySummary(a.Components)
}

// Shutdown runs the stop sequence for callers driving the lifecycle by hand.
func (a *App[C]) Shutdown(context.Context) error {
	return a.stop()
}
