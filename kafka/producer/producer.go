package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/kafkaready/kafka"
	"github.com/kbukum/kafkaready/logger"
)

// messageWriter is the part of *kafkago.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Stats() kafkago.WriterStats
	Close() error
}

// Producer wraps a kafka-go Writer configured from kafka.ProducerConfig.
type Producer struct {
	writer    messageWriter
	transport idleCloser
	cfg       kafka.Config
	log       *logger.Logger
	mu        sync.RWMutex
	closed    bool
}

var _ Publisher = (*Producer)(nil)

// idleCloser is the part of *kafkago.Transport released on Close. A Writer
// built with an explicit Transport leaves that transport's pool open.
type idleCloser interface {
	CloseIdleConnections()
}

// NewProducer creates a producer with its writer built eagerly.
func NewProducer(cfg kafka.Config, log *logger.Logger) (*Producer, error) {
	p, err := NewLazyProducer(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := p.initWriter(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewLazyProducer creates a producer whose writer is built on first send.
// Startup can then finish provisioning before any broker connection is made.
func NewLazyProducer(cfg kafka.Config, log *logger.Logger) (*Producer, error) {
	cfg.ApplyDefaults()

	if !cfg.Enabled {
		return nil, fmt.Errorf("kafka is disabled")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("kafka producer config: %w", err)
	}

	return &Producer{cfg: cfg, log: log.WithComponent("kafka.producer")}, nil
}

// NewWriter maps the producer settings onto a kafka-go Writer.
func NewWriter(cfg *kafka.Config, transport kafkago.RoundTripper) *kafkago.Writer {
	pc := cfg.Producer
	return &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Transport:    transport,
		Balancer:     &kafkago.Hash{},
		BatchBytes:   pc.BatchBytes(),
		BatchTimeout: kafka.ParseDuration(pc.Linger),
		Compression:  kafka.ResolveCompression(pc.Compression),
		RequiredAcks: ResolveAcks(pc.Acks),
		WriteTimeout: kafka.ParseDuration(pc.RequestTimeout),
		MaxAttempts:  pc.Retries,
	}
}

// ResolveAcks maps an acks setting ("all", "-1", "1", "0") to kafka-go.
// Unknown values wait for the full ISR.
func ResolveAcks(acks string) kafkago.RequiredAcks {
	switch acks {
	case "0":
		return kafkago.RequireNone
	case "1":
		return kafkago.RequireOne
	default:
		return kafkago.RequireAll
	}
}

func (p *Producer) initWriter() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer != nil {
		return nil
	}

	transport, err := kafka.CreateTransport(&p.cfg)
	if err != nil {
		return fmt.Errorf("kafka producer transport: %w", err)
	}

	w := NewWriter(&p.cfg, transport)
	w.ErrorLogger = kafkago.LoggerFunc(func(msg string, args ...interface{}) {
		p.log.Error("writer: " + fmt.Sprintf(msg, args...))
	})
	p.writer = w
	p.transport = transport

	p.log.Info("Kafka producer initialized", logger.Fields(
		"brokers", p.cfg.Brokers,
		"compression", p.cfg.Producer.Compression,
		"batch_bytes", w.BatchBytes,
		"linger", p.cfg.Producer.Linger,
		"acks", p.cfg.Producer.Acks,
	))
	return nil
}

func (p *Producer) ensureWriter() error {
	p.mu.RLock()
	ready := p.writer != nil
	p.mu.RUnlock()
	if ready {
		return nil
	}
	return p.initWriter()
}

// WriteMessages sends msgs. Retries happen inside the writer, up to the
// configured retry_count.
func (p *Producer) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	if err := p.ensureWriter(); err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return fmt.Errorf("producer is closed")
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d message(s): %w", len(msgs), err)
	}
	return nil
}

// SendJSON marshals value and sends it to topic under key.
func (p *Producer) SendJSON(ctx context.Context, topic, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	return p.WriteMessages(ctx, kafkago.Message{
		Topic:   topic,
		Key:     []byte(key),
		Value:   data,
		Headers: []kafkago.Header{contentTypeJSON},
	})
}

// Metrics returns a snapshot of the writer statistics.
func (p *Producer) Metrics() kafka.WriterMetrics {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.writer == nil {
		return kafka.WriterMetrics{}
	}
	return kafka.CollectWriterMetrics(p.writer.Stats())
}

// Close flushes pending batches and closes the writer. It is safe to call twice.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	if p.writer == nil {
		p.log.Info("Kafka producer closed before first write")
		return nil
	}
	err := p.writer.Close()
	if p.transport != nil {
		p.transport.CloseIdleConnections()
	}
	p.log.Info("Kafka producer closed", kafka.CollectWriterMetrics(p.writer.Stats()).Fields())
	return err
}
