package producer

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/kafkaready/kafka"
	"github.com/kbukum/kafkaready/logger"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafkago.Message
	err    error
	stats  kafkago.WriterStats
	closed int
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Stats() kafkago.WriterStats { return w.stats }

func (w *fakeWriter) Close() error {
	w.closed++
	return nil
}

type fakeTransport struct{ idleClosed int }

func (t *fakeTransport) CloseIdleConnections() { t.idleClosed++ }

func newTestProducer(w *fakeWriter) *Producer {
	return &Producer{writer: w, log: logger.NewNop()}
}

func testConfig() kafka.Config {
	cfg := kafka.Config{Enabled: true, Brokers: []string{"localhost:9092"}}
	cfg.ApplyDefaults()
	return cfg
}

func TestNewWriter(t *testing.T) {
	cfg := testConfig()
	cfg.Producer = kafka.ProducerConfig{
		BatchSize:            16384,
		BatchSizeBoostFactor: 100,
		Linger:               "5ms",
		Compression:          "lz4",
		Acks:                 "1",
		RequestTimeout:       "60s",
		Retries:              5,
	}

	w := NewWriter(&cfg, nil)

	if w.BatchBytes != 1638400 {
		t.Errorf("BatchBytes = %d, want 1638400", w.BatchBytes)
	}
	if w.BatchTimeout != 5*time.Millisecond {
		t.Errorf("BatchTimeout = %v, want 5ms", w.BatchTimeout)
	}
	if w.Compression != kafkago.Lz4 {
		t.Errorf("Compression = %v, want lz4", w.Compression)
	}
	if w.RequiredAcks != kafkago.RequireOne {
		t.Errorf("RequiredAcks = %v, want one", w.RequiredAcks)
	}
	if w.WriteTimeout != 60*time.Second {
		t.Errorf("WriteTimeout = %v, want 60s", w.WriteTimeout)
	}
	if w.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5", w.MaxAttempts)
	}
	if w.Addr.String() != "localhost:9092" {
		t.Errorf("Addr = %q", w.Addr.String())
	}
}

func TestResolveAcks(t *testing.T) {
	tests := []struct {
		acks string
		want kafkago.RequiredAcks
	}{
		{"all", kafkago.RequireAll},
		{"-1", kafkago.RequireAll},
		{"1", kafkago.RequireOne},
		{"0", kafkago.RequireNone},
		{"", kafkago.RequireAll},
	}
	for _, tt := range tests {
		if got := ResolveAcks(tt.acks); got != tt.want {
			t.Errorf("ResolveAcks(%q) = %v, want %v", tt.acks, got, tt.want)
		}
	}
}

func TestNewLazyProducer(t *testing.T) {
	p, err := NewLazyProducer(testConfig(), logger.NewNop())
	if err != nil {
		t.Fatalf("NewLazyProducer() error: %v", err)
	}
	if p.writer != nil {
		t.Error("lazy producer should not build its writer before first use")
	}
	if m := p.Metrics(); m != (kafka.WriterMetrics{}) {
		t.Errorf("expected empty metrics, got %+v", m)
	}
}

func TestNewLazyProducer_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	if _, err := NewLazyProducer(cfg, logger.NewNop()); err == nil {
		t.Fatal("expected error for disabled kafka")
	}
}

func TestNewLazyProducer_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Producer.Linger = "soon"
	if _, err := NewLazyProducer(cfg, logger.NewNop()); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestNewProducer_BuildsWriter(t *testing.T) {
	p, err := NewProducer(testConfig(), logger.NewNop())
	if err != nil {
		t.Fatalf("NewProducer() error: %v", err)
	}
	defer p.Close()
	if p.writer == nil {
		t.Fatal("expected writer to be built")
	}
}

func TestProducer_SendJSON(t *testing.T) {
	w := &fakeWriter{}
	p := newTestProducer(w)

	payload := map[string]string{"text": "hello"}
	if err := p.SendJSON(context.Background(), "twitter-topic", "k1", payload); err != nil {
		t.Fatalf("SendJSON() error: %v", err)
	}

	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}
	msg := w.msgs[0]
	if msg.Topic != "twitter-topic" || string(msg.Key) != "k1" {
		t.Errorf("unexpected message routing: topic=%q key=%q", msg.Topic, msg.Key)
	}
	var got map[string]string
	if err := json.Unmarshal(msg.Value, &got); err != nil || got["text"] != "hello" {
		t.Errorf("unexpected payload %s (err %v)", msg.Value, err)
	}
	if len(msg.Headers) != 1 || msg.Headers[0].Key != "content-type" {
		t.Errorf("expected content-type header, got %v", msg.Headers)
	}
}

func TestProducer_SendJSON_MarshalError(t *testing.T) {
	p := newTestProducer(&fakeWriter{})
	if err := p.SendJSON(context.Background(), "t", "k", make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
}

func TestProducer_WriteError(t *testing.T) {
	cause := stderrors.New("leader not available")
	p := newTestProducer(&fakeWriter{err: cause})

	err := p.WriteMessages(context.Background(), kafkago.Message{Topic: "t"})
	if !stderrors.Is(err, cause) {
		t.Errorf("expected writer error in chain, got %v", err)
	}
}

func TestProducer_Close(t *testing.T) {
	w := &fakeWriter{}
	p := newTestProducer(w)

	if err := p.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}
	if w.closed != 1 {
		t.Errorf("writer closed %d times, want 1", w.closed)
	}
	if err := p.SendJSON(context.Background(), "t", "k", "v"); err == nil {
		t.Error("expected error sending on closed producer")
	}
}

func TestProducer_CloseReleasesTransport(t *testing.T) {
	tr := &fakeTransport{}
	p := newTestProducer(&fakeWriter{})
	p.transport = tr

	_ = p.Close()
	_ = p.Close()
	if tr.idleClosed != 1 {
		t.Errorf("transport released %d times, want 1", tr.idleClosed)
	}
}

func TestNewProducer_KeepsTransport(t *testing.T) {
	p, err := NewProducer(testConfig(), logger.NewNop())
	if err != nil {
		t.Fatalf("NewProducer() error: %v", err)
	}
	if _, ok := p.transport.(*kafkago.Transport); !ok {
		t.Fatalf("expected the writer transport to be retained, got %T", p.transport)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
}

func TestProducer_Metrics(t *testing.T) {
	w := &fakeWriter{stats: kafkago.WriterStats{Writes: 3, Messages: 7, Errors: 1, Topic: "t"}}
	m := newTestProducer(w).Metrics()
	if m.Writes != 3 || m.Messages != 7 || m.Errors != 1 || m.Topic != "t" {
		t.Errorf("unexpected metrics %+v", m)
	}
}
