package producer

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
)

var contentTypeJSON = kafkago.Header{Key: "content-type", Value: []byte("application/json")}

// Publisher sends JSON payloads to a topic. *Producer implements it; tests
// substitute an in-memory recorder.
type Publisher interface {
	SendJSON(ctx context.Context, topic, key string, value any) error
	Close() error
}
