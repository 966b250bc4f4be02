package stream

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/kafkaready/kafka/producer"
	"github.com/kbukum/kafkaready/logger"
)

// KafkaStatusListener publishes every status as an Event keyed by user ID.
type KafkaStatusListener struct {
	publisher producer.Publisher
	topic     string
	source    string
	log       *logger.Logger
	now       func() time.Time
}

var _ StatusListener = (*KafkaStatusListener)(nil)

// NewKafkaStatusListener creates a listener that sends to topic.
func NewKafkaStatusListener(publisher producer.Publisher, topic, source string, log *logger.Logger) *KafkaStatusListener {
	return &KafkaStatusListener{
		publisher: publisher,
		topic:     topic,
		source:    source,
		log:       log.WithComponent("stream.listener"),
		now:       time.Now,
	}
}

// OnStatus logs the status text and publishes it.
func (l *KafkaStatusListener) OnStatus(ctx context.Context, status Status) error {
	l.log.Info("Twitter status received", logger.Fields("text", status.Text))

	event := Event{
		ID:        uuid.NewString(),
		Type:      EventTypeStatus,
		Source:    l.source,
		Timestamp: l.now().UTC(),
		Data:      status,
	}
	if err := l.publisher.SendJSON(ctx, l.topic, strconv.FormatInt(status.UserID, 10), event); err != nil {
		l.log.Error("Publishing status failed", logger.Fields(
			logger.FieldTopic, l.topic,
			"status_id", status.ID,
			logger.FieldError, err.Error(),
		))
		return err
	}
	l.log.Debug("Status published", logger.Fields(
		logger.FieldTopic, l.topic,
		"event_id", event.ID,
	))
	return nil
}
