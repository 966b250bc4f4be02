package kafka

import (
	"context"
	stderrors "errors"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/kafkaready/errors"
)

// nonRetryableCodes are broker error codes a retry cannot clear.
var nonRetryableCodes = map[kafkago.Error]bool{
	kafkago.InvalidTopic:               true,
	kafkago.InvalidPartitionNumber:     true,
	kafkago.InvalidReplicationFactor:   true,
	kafkago.InvalidReplicaAssignment:   true,
	kafkago.InvalidConfiguration:       true,
	kafkago.PolicyViolation:            true,
	kafkago.TopicAuthorizationFailed:   true,
	kafkago.ClusterAuthorizationFailed: true,
}

// IsTopicAlreadyExists reports whether err is the broker's "topic already exists" result.
func IsTopicAlreadyExists(err error) bool {
	return stderrors.Is(err, kafkago.TopicAlreadyExists)
}

// IsNonRetryableError reports whether err cannot be cleared by retrying the
// same admin request.
func IsNonRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var kerr kafkago.Error
	if stderrors.As(err, &kerr) {
		return nonRetryableCodes[kerr]
	}
	return false
}

// IsRetryableError reports whether a retry may succeed. Unknown errors are
// treated as transient: during startup the broker is commonly still booting.
func IsRetryableError(err error) bool {
	return err != nil && !IsNonRetryableError(err)
}

// ClassifyError wraps a retryable broker error as TRANSIENT_BROKER_ERROR and
// returns any other error unchanged.
func ClassifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsRetryableError(err) {
		return errors.TransientBroker(op, err)
	}
	return err
}
