package kafka

import (
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// WriterMetrics summarizes producer activity since the previous snapshot.
// kafka-go resets its counters on every Stats call.
type WriterMetrics struct {
	Topic    string        `json:"topic,omitempty"`
	Writes   int64         `json:"writes"`
	Messages int64         `json:"messages"`
	Bytes    int64         `json:"bytes"`
	Errors   int64         `json:"errors"`
	Retries  int64         `json:"retries"`
	AvgWrite time.Duration `json:"avg_write_ns"`
	MaxWrite time.Duration `json:"max_write_ns"`
}

// CollectWriterMetrics converts kafka-go writer stats.
func CollectWriterMetrics(stats kafkago.WriterStats) WriterMetrics {
	return WriterMetrics{
		Topic:    stats.Topic,
		Writes:   stats.Writes,
		Messages: stats.Messages,
		Bytes:    stats.Bytes,
		Errors:   stats.Errors,
		Retries:  stats.Retries,
		AvgWrite: stats.WriteTime.Avg,
		MaxWrite: stats.WriteTime.Max,
	}
}

// Fields renders the snapshot as log fields.
func (m WriterMetrics) Fields() map[string]interface{} {
	return map[string]interface{}{
		"messages":     m.Messages,
		"bytes":        m.Bytes,
		"errors":       m.Errors,
		"retries":      m.Retries,
		"avg_write_ms": m.AvgWrite.Milliseconds(),
		"max_write_ms": m.MaxWrite.Milliseconds(),
	}
}
