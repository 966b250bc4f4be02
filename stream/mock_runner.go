package stream

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/kafkaready/component"
	"github.com/kbukum/kafkaready/logger"
)

var mockWords = []string{
	"Lorem", "ipsum", "dolor", "sit", "amet", "consectetuer", "adipiscing", "elit",
	"Maecenas", "porttitor", "congue", "massa", "Fusce", "posuere", "magna", "sed",
	"pulvinar", "ultricies", "purus", "lectus", "malesuada", "libero",
}

const stopTimeout = 10 * time.Second

// MockRunner emits synthetic statuses to a listener at a fixed interval.
type MockRunner struct {
	cfg      Config
	listener StatusListener
	log      *logger.Logger

	mu       sync.Mutex
	rng      *rand.Rand
	nextID   int64
	cancelFn context.CancelFunc
	done     chan struct{}
}

var (
	_ component.Component   = (*MockRunner)(nil)
	_ component.Describable = (*MockRunner)(nil)
)

// NewMockRunner creates a runner. seed makes the generated text reproducible.
func NewMockRunner(cfg Config, listener StatusListener, seed uint64, log *logger.Logger) *MockRunner {
	return &MockRunner{
		cfg:      cfg,
		listener: listener,
		log:      log.WithComponent("stream.mock_runner"),
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Name returns the component name.
func (r *MockRunner) Name() string { return "mock-stream" }

// Start begins emitting in a background goroutine. The goroutine outlives
// ctx's Start call and ends on Stop.
func (r *MockRunner) Start(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	r.cancelFn = cancel
	r.done = make(chan struct{})

	r.log.Info("Started filtering mock stream", logger.Fields(
		"keywords", r.cfg.Keywords,
		logger.FieldInterval, r.cfg.MockInterval.Milliseconds(),
	))
	go r.run(runCtx, r.done)
	return nil
}

func (r *MockRunner) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.cfg.MockInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Emit(ctx); err != nil && ctx.Err() == nil {
				r.log.Warn("Status listener failed", logger.ErrorFields("emit", err))
			}
		}
	}
}

// Emit generates one status and hands it to the listener.
func (r *MockRunner) Emit(ctx context.Context) error {
	return r.listener.OnStatus(ctx, r.next())
}

func (r *MockRunner) next() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	n := r.cfg.MockMinWords
	if span := r.cfg.MockMaxWords - r.cfg.MockMinWords; span > 0 {
		n += r.rng.IntN(span + 1)
	}

	words := make([]string, 0, n)
	for i := 0; i < n; i++ {
		words = append(words, mockWords[r.rng.IntN(len(mockWords))])
		if i == n/2 && len(r.cfg.Keywords) > 0 {
			words = append(words, r.cfg.Keywords[r.rng.IntN(len(r.cfg.Keywords))])
		}
	}

	return Status{
		ID:        r.nextID,
		UserID:    r.rng.Int64N(1 << 40),
		Text:      strings.Join(words, " "),
		CreatedAt: time.Now().UTC(),
	}
}

// Stop cancels the emitter and waits for it to exit.
func (r *MockRunner) Stop(context.Context) error {
	r.mu.Lock()
	cancel, done := r.cancelFn, r.done
	r.cancelFn, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return nil
	}
	r.log.Info("Closing mock stream")
	cancel()

	select {
	case <-done:
		return nil
	case <-time.After(stopTimeout):
		return fmt.Errorf("mock stream did not stop within %s", stopTimeout)
	}
}

// Health reports whether the emitter is running.
func (r *MockRunner) Health(context.Context) component.Health {
	r.mu.Lock()
	running := r.done != nil
	r.mu.Unlock()

	if running {
		return component.Health{Name: r.Name(), Status: component.StatusHealthy}
	}
	return component.Health{Name: r.Name(), Status: component.StatusPending, Message: "not running"}
}

// Describe returns the startup summary line.
func (r *MockRunner) Describe() component.Description {
	return component.Description{
		Name:    "Mock stream",
		Type:    "stream",
		Details: fmt.Sprintf("keywords=%v every %s", r.cfg.Keywords, r.cfg.MockInterval),
	}
}
