package resilience

import (
	"context"
	"time"
)

// SleepFunc blocks for d or until ctx is done, returning ctx.Err() in the latter case.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc, a timer raced against ctx.
func Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Backoff yields a geometric interval sequence clamped to a ceiling.
// It is not safe for concurrent use; each retry loop owns its own.
type Backoff struct {
	next       time.Duration
	max        time.Duration
	multiplier float64
}

// NewBackoff starts a sequence at initial.
func NewBackoff(initial, max time.Duration, multiplier float64) *Backoff {
	return &Backoff{next: min(initial, max), max: max, multiplier: multiplier}
}

// Next returns the current interval and advances the sequence.
func (b *Backoff) Next() time.Duration {
	cur := b.next
	grown := time.Duration(float64(b.next) * b.multiplier)
	if grown > b.max || grown < 0 {
		grown = b.max
	}
	b.next = grown
	return cur
}

// Peek returns the interval Next would return without advancing.
func (b *Backoff) Peek() time.Duration {
	return b.next
}
