package resilience

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/kbukum/kafkaready/errors"
	"github.com/kbukum/kafkaready/logger"
)

func TestPollState_IntervalSequence(t *testing.T) {
	cfg := testConfig()
	cfg.SleepTime = 100 * time.Millisecond
	cfg.MaxInterval = 10 * time.Second
	cfg.MaxAttempts = 5
	sleeper := &recordingSleeper{}
	p := NewPolicy(cfg, logger.NewNop(), WithSleep(sleeper.Sleep))

	state := p.NewPollState("await")
	if state.Interval != 100*time.Millisecond {
		t.Fatalf("expected initial interval 100ms, got %v", state.Interval)
	}
	for i := 0; i < 4; i++ {
		if err := state.Wait(context.Background()); err != nil {
			t.Fatalf("wait %d: unexpected error %v", i+1, err)
		}
	}

	assertWaits(t, sleeper.Waits(), []time.Duration{
		100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond, 800 * time.Millisecond,
	})
	if state.Interval != 1600*time.Millisecond {
		t.Errorf("expected next interval 1.6s, got %v", state.Interval)
	}
}

func TestPollState_ClampsToMaxInterval(t *testing.T) {
	cfg := testConfig()
	cfg.SleepTime = 300 * time.Millisecond
	cfg.MaxInterval = 500 * time.Millisecond
	cfg.MaxAttempts = 4
	sleeper := &recordingSleeper{}
	p := NewPolicy(cfg, logger.NewNop(), WithSleep(sleeper.Sleep))

	state := p.NewPollState("await")
	for i := 0; i < 3; i++ {
		_ = state.Wait(context.Background())
	}

	assertWaits(t, sleeper.Waits(), []time.Duration{
		300 * time.Millisecond, 500 * time.Millisecond, 500 * time.Millisecond,
	})
}

func TestPollState_ExhaustsAfterMaxAttempts(t *testing.T) {
	sleeper := &recordingSleeper{}
	p := NewPolicy(testConfig(), logger.NewNop(), WithSleep(sleeper.Sleep))
	state := p.NewPollState("await")

	var err error
	failures := 0
	for err == nil {
		err = state.Wait(context.Background())
		failures++
	}

	if !stderrors.Is(err, ErrPollExhausted) {
		t.Fatalf("expected ErrPollExhausted, got %v", err)
	}
	if failures != 3 || state.Attempt != 3 {
		t.Errorf("expected 3 failed observations, got %d (attempt=%d)", failures, state.Attempt)
	}
	if len(sleeper.Waits()) != 2 {
		t.Errorf("expected 2 sleeps, got %v", sleeper.Waits())
	}
	if state.Phase != Exhausted {
		t.Errorf("expected phase exhausted, got %s", state.Phase)
	}
	if err := state.Wait(context.Background()); !stderrors.Is(err, ErrPollExhausted) {
		t.Errorf("terminal state must stay exhausted, got %v", err)
	}
}

func TestPollState_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sleeper := &recordingSleeper{cancel: cancel, cancelAt: 1}
	p := NewPolicy(testConfig(), logger.NewNop(), WithSleep(sleeper.Sleep))
	state := p.NewPollState("await")

	err := state.Wait(ctx)

	if !errors.HasCode(err, errors.ErrCodeCancelled) {
		t.Fatalf("expected CANCELLED, got %v", err)
	}
	if state.Phase != Cancelled {
		t.Errorf("expected phase cancelled, got %s", state.Phase)
	}
}

func TestPollState_Converge(t *testing.T) {
	p := NewPolicy(testConfig(), logger.NewNop())
	state := p.NewPollState("await")
	state.Converge()
	if state.Phase != Converged {
		t.Errorf("expected converged, got %s", state.Phase)
	}
	if state.Attempt != 0 {
		t.Errorf("expected no attempts, got %d", state.Attempt)
	}
}

func TestPollPhase_String(t *testing.T) {
	tests := map[PollPhase]string{
		Polling:       "polling",
		Converged:     "converged",
		Exhausted:     "exhausted",
		Cancelled:     "cancelled",
		PollPhase(42): "unknown",
	}
	for phase, want := range tests {
		if got := phase.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}
