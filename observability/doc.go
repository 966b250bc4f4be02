// Package observability wires OpenTelemetry tracing and metrics for the
// startup path.
//
//	tel, err := observability.Init(ctx, cfg.Observability, svc)
//	defer tel.Shutdown(ctx)
//
//	metrics, _ := observability.NewReadinessMetrics(observability.Meter(svc.Name))
//	policy := resilience.NewPolicy(cfg.Retry, log, resilience.WithObserver(metrics))
//
// When telemetry is disabled the global no-op providers stay in place, so
// StartSpan and the instruments are always safe to call.
package observability
