package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/kafkaready/errors"
)

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected endpoint localhost:4318, got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected sample rate 1.0, got %f", cfg.SampleRate)
	}
	if cfg.MetricInterval != 15*time.Second {
		t.Errorf("expected interval 15s, got %v", cfg.MetricInterval)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"disabled", Config{SampleRate: 0.5}, false},
		{"enabled", Config{Enabled: true, Endpoint: "otel:4318", SampleRate: 1}, false},
		{"enabled without endpoint", Config{Enabled: true}, true},
		{"sample rate above one", Config{SampleRate: 1.5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInitDisabledIsNoop(t *testing.T) {
	tel, err := Init(context.Background(), Config{}, ServiceInfo{Name: "svc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tel.Shutdown(context.Background()); err != nil {
		t.Errorf("expected no-op shutdown, got %v", err)
	}
}

func TestReadinessMetricsNoop(t *testing.T) {
	metrics, err := NewReadinessMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()
	metrics.ObserveAttempt(ctx, "create topics", 1, nil)
	metrics.ObserveWait(ctx, "create topics", time.Second)
	metrics.RecordOutcome(ctx, "kafka", OutcomeReady, time.Second)
}

func TestReadinessMetricsRecorded(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := NewReadinessMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	metrics.ObserveAttempt(ctx, "list topics", 1, fmt.Errorf("leader not available"))
	metrics.ObserveAttempt(ctx, "list topics", 2, nil)
	metrics.ObserveWait(ctx, "list topics", 50*time.Millisecond)
	metrics.RecordOutcome(ctx, "kafka", OutcomeExhausted, time.Second)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	sums := map[string]int64{}
	found := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			found[m.Name] = true
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}

	for _, name := range []string{"readiness.attempts", "readiness.wait", "readiness.outcome", "readiness.duration"} {
		if !found[name] {
			t.Errorf("expected metric %s to be recorded", name)
		}
	}
	if sums["readiness.attempts"] != 2 {
		t.Errorf("expected 2 attempts, got %d", sums["readiness.attempts"])
	}
	if sums["readiness.outcome"] != 1 {
		t.Errorf("expected 1 outcome, got %d", sums["readiness.outcome"])
	}
}

func TestStartSpanAndEndSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	_, ok := StartSpan(context.Background(), SpanAwaitTopics, attribute.StringSlice(AttrTopics, []string{"orders"}))
	EndSpan(ok, nil)
	_, failed := StartSpan(context.Background(), SpanAwaitHealthy)
	EndSpan(failed, fmt.Errorf("unhealthy"))

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Name != SpanAwaitTopics || spans[0].Status.Code != codes.Ok {
		t.Errorf("unexpected first span %s %v", spans[0].Name, spans[0].Status)
	}
	if spans[1].Status.Code != codes.Error || len(spans[1].Events) == 0 {
		t.Errorf("expected error status and recorded error event, got %v", spans[1].Status)
	}
	for _, kv := range spans[1].Attributes {
		if string(kv.Key) == AttrOutcome && kv.Value.AsString() != OutcomeExhausted {
			t.Errorf("outcome = %s", kv.Value.AsString())
		}
	}
}

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, OutcomeReady},
		{errors.Cancelled("await topics", context.Canceled), OutcomeCancelled},
		{errors.ConvergenceTimeout("orders", 3, nil), OutcomeExhausted},
	}
	for _, tt := range tests {
		if got := OutcomeOf(tt.err); got != tt.want {
			t.Errorf("OutcomeOf(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}
