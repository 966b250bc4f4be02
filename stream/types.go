package stream

import (
	"context"
	"time"
)

// Status is one upstream post.
type Status struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// StatusListener receives statuses from a runner.
type StatusListener interface {
	OnStatus(ctx context.Context, status Status) error
}

// StatusListenerFunc adapts a function to StatusListener.
type StatusListenerFunc func(ctx context.Context, status Status) error

// OnStatus calls f.
func (f StatusListenerFunc) OnStatus(ctx context.Context, status Status) error {
	return f(ctx, status)
}

// Event is the envelope published for each status.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Data      Status    `json:"data"`
}

// EventTypeStatus is the Event.Type of published statuses.
const EventTypeStatus = "twitter.status"
