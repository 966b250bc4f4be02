package resilience

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/kbukum/kafkaready/errors"
	"github.com/kbukum/kafkaready/logger"
)

// ErrPollExhausted is returned by PollState.Wait once the observation budget is spent.
var ErrPollExhausted = stderrors.New("poll attempts exhausted")

// PollPhase is the state of an observation-driven wait.
type PollPhase int

const (
	Polling PollPhase = iota
	Converged
	Exhausted
	Cancelled
)

// String returns the phase name.
func (p PollPhase) String() string {
	switch p {
	case Polling:
		return "polling"
	case Converged:
		return "converged"
	case Exhausted:
		return "exhausted"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// PollState is the loop-local state of one await call. It is created per
// call and must not be shared between goroutines. Converged, Exhausted and
// Cancelled are terminal.
type PollState struct {
	// Attempt counts failed observations so far.
	Attempt int
	// Interval is the wait before the next observation.
	Interval time.Duration
	// Phase is the current state.
	Phase PollPhase

	op      string
	policy  *Policy
	backoff *Backoff
}

// NewPollState starts a poll for op, seeded from SleepTime.
func (p *Policy) NewPollState(op string) *PollState {
	b := NewBackoff(p.cfg.SleepTime, p.cfg.MaxInterval, p.cfg.Multiplier)
	return &PollState{
		Interval: b.Peek(),
		Phase:    Polling,
		op:       op,
		policy:   p,
		backoff:  b,
	}
}

// Converge marks the poll as successful.
func (s *PollState) Converge() {
	if s.Phase == Polling {
		s.Phase = Converged
	}
}

// Wait records a failed observation. When it was the MaxAttempts-th failure
// the poll is exhausted and ErrPollExhausted is returned without sleeping.
// Otherwise it sleeps the current interval and grows it for the next round.
// A context that ends during the sleep yields errors.ErrCodeCancelled.
func (s *PollState) Wait(ctx context.Context) error {
	if s.Phase != Polling {
		return ErrPollExhausted
	}
	p := s.policy
	s.Attempt++
	p.observeAttempt(ctx, s.op, s.Attempt, ErrPollExhausted)

	// The MaxAttempts-th failed observation is the last one: n attempts
	// give n observations and n-1 sleeps, never an (n+1)-th fetch.
	if s.Attempt >= p.cfg.MaxAttempts {
		s.Phase = Exhausted
		return ErrPollExhausted
	}

	wait := s.backoff.Next()
	p.log.Info("Waiting before next observation", logger.Fields(
		logger.FieldOperation, s.op,
		logger.FieldAttempt, s.Attempt,
		logger.FieldInterval, wait.Milliseconds(),
	))
	if p.observer != nil {
		p.observer.ObserveWait(ctx, s.op, wait)
	}
	if err := p.sleep(ctx, wait); err != nil {
		s.Phase = Cancelled
		return errors.Cancelled(s.op, err)
	}
	s.Interval = s.backoff.Peek()
	return nil
}
