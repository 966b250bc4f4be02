package bootstrap

import (
	"context"
	"fmt"
)

// Hook is a lifecycle callback. A non-nil error from an OnStart or OnReady
// hook aborts startup.
type Hook func(ctx context.Context) error

// OnStart hooks run once components are up, before OnConfigure callbacks.
func (a *App[C]) OnStart(hooks ...Hook) { a.onStart = append(a.onStart, hooks...) }

// OnReady hooks run after the ready check, just before the summary prints.
func (a *App[C]) OnReady(hooks ...Hook) { a.onReady = append(a.onReady, hooks...) }

// OnStop hooks run before components stop. Telemetry flushing goes here.
func (a *App[C]) OnStop(hooks ...Hook) { a.onStop = append(a.onStop, hooks...) }

func runHooks(ctx context.Context, hooks []Hook) error {
	for i := range hooks {
		if err := hooks[i](ctx); err != nil {
			return fmt.Errorf("hook %d failed: %w", i, err)
		}
	}
	return nil
}
