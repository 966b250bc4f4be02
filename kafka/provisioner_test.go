package kafka

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/kafkaready/errors"
	"github.com/kbukum/kafkaready/logger"
)

var errTopicExists error = kafkago.TopicAlreadyExists

func assertWaits(t *testing.T, got []time.Duration, want ...time.Duration) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected waits %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected waits %v, got %v", want, got)
		}
	}
}

func TestProvisioner_CreatesOnFirstAttempt(t *testing.T) {
	admin := &fakeAdmin{}
	sleeper := &recordingSleeper{}
	p := NewProvisioner(admin, testPolicy(testRetryConfig(), sleeper), logger.NewNop())

	if err := p.CreateTopics(context.Background(), specs("orders", "users")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if admin.createCalls != 1 {
		t.Errorf("expected 1 create call, got %d", admin.createCalls)
	}
	if got := SpecNames(admin.createdSpecs[0]); len(got) != 2 || got[0] != "orders" || got[1] != "users" {
		t.Errorf("expected one request covering both topics, got %v", got)
	}
	assertWaits(t, sleeper.Waits())
}

func TestProvisioner_RetriesTransientErrors(t *testing.T) {
	admin := &fakeAdmin{createErrs: []error{stderrors.New("dial tcp: connection refused"), nil}}
	sleeper := &recordingSleeper{}
	p := NewProvisioner(admin, testPolicy(testRetryConfig(), sleeper), logger.NewNop())

	if err := p.CreateTopics(context.Background(), specs("orders")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if admin.createCalls != 2 {
		t.Errorf("expected 2 create calls, got %d", admin.createCalls)
	}
	assertWaits(t, sleeper.Waits(), 10*time.Millisecond)
}

func TestProvisioner_ExhaustionIsProvisioningFailed(t *testing.T) {
	for _, maxAttempts := range []int{1, 3, 5} {
		cfg := testRetryConfig()
		cfg.MaxAttempts = maxAttempts
		cause := stderrors.New("broker not available")
		admin := &fakeAdmin{createErrs: []error{cause}}
		p := NewProvisioner(admin, testPolicy(cfg, &recordingSleeper{}), logger.NewNop())

		err := p.CreateTopics(context.Background(), specs("orders"))

		if admin.createCalls != maxAttempts {
			t.Errorf("max_attempts=%d: expected %d calls, got %d", maxAttempts, maxAttempts, admin.createCalls)
		}
		if !errors.HasCode(err, errors.ErrCodeProvisioningFailed) {
			t.Fatalf("expected PROVISIONING_FAILED, got %v", err)
		}
		if !errors.HasCode(err, errors.ErrCodeRetriesExhausted) {
			t.Errorf("expected RETRIES_EXHAUSTED in chain, got %v", err)
		}
		if !stderrors.Is(err, cause) {
			t.Errorf("expected last cause in chain, got %v", err)
		}
	}
}

func TestProvisioner_AlreadyExistsIsSuccess(t *testing.T) {
	admin := &fakeAdmin{createResults: []map[string]error{
		{"orders": errTopicExists, "users": nil},
	}}
	sleeper := &recordingSleeper{}
	p := NewProvisioner(admin, testPolicy(testRetryConfig(), sleeper), logger.NewNop())

	if err := p.CreateTopics(context.Background(), specs("orders", "users")); err != nil {
		t.Fatalf("expected already-exists to count as success, got %v", err)
	}
	if admin.createCalls != 1 {
		t.Errorf("expected 1 create call, got %d", admin.createCalls)
	}
}

func TestProvisioner_RetriesPerTopicTransientError(t *testing.T) {
	admin := &fakeAdmin{createResults: []map[string]error{
		{"orders": nil, "users": kafkago.LeaderNotAvailable},
		{"orders": errTopicExists, "users": nil},
	}}
	p := NewProvisioner(admin, testPolicy(testRetryConfig(), &recordingSleeper{}), logger.NewNop())

	if err := p.CreateTopics(context.Background(), specs("orders", "users")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if admin.createCalls != 2 {
		t.Errorf("expected 2 create calls, got %d", admin.createCalls)
	}
}

func TestProvisioner_NonRetryableStopsEarly(t *testing.T) {
	admin := &fakeAdmin{createResults: []map[string]error{
		{"orders": kafkago.InvalidReplicationFactor},
	}}
	sleeper := &recordingSleeper{}
	p := NewProvisioner(admin, testPolicy(testRetryConfig(), sleeper), logger.NewNop())

	err := p.CreateTopics(context.Background(), specs("orders"))

	if !errors.HasCode(err, errors.ErrCodeProvisioningFailed) {
		t.Fatalf("expected PROVISIONING_FAILED, got %v", err)
	}
	if !stderrors.Is(err, kafkago.InvalidReplicationFactor) {
		t.Errorf("expected broker error in chain, got %v", err)
	}
	if admin.createCalls != 1 {
		t.Errorf("expected 1 create call, got %d", admin.createCalls)
	}
	assertWaits(t, sleeper.Waits())
}

func TestProvisioner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sleeper := &recordingSleeper{onNth: map[int]func(){1: cancel}}
	admin := &fakeAdmin{createErrs: []error{stderrors.New("request timed out")}}
	p := NewProvisioner(admin, testPolicy(testRetryConfig(), sleeper), logger.NewNop())

	err := p.CreateTopics(ctx, specs("orders"))

	if !errors.HasCode(err, errors.ErrCodeCancelled) {
		t.Fatalf("expected CANCELLED, got %v", err)
	}
	if errors.HasCode(err, errors.ErrCodeProvisioningFailed) {
		t.Error("cancellation must not be reported as provisioning failure")
	}
}

func TestProvisioner_NoSpecs(t *testing.T) {
	admin := &fakeAdmin{}
	p := NewProvisioner(admin, testPolicy(testRetryConfig(), &recordingSleeper{}), logger.NewNop())

	if err := p.CreateTopics(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if admin.createCalls != 0 {
		t.Errorf("expected no create calls, got %d", admin.createCalls)
	}
}
