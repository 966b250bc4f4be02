package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/kbukum/kafkaready/logger"
	"github.com/kbukum/kafkaready/resilience"
)

// fakeAdmin is a scripted AdminAPI. Each call pops the next scripted
// response; the last one repeats once the script is exhausted.
type fakeAdmin struct {
	mu sync.Mutex

	createResults []map[string]error
	createErrs    []error
	createCalls   int
	createdSpecs  [][]TopicSpec

	listings  [][]TopicListing
	listErrs  []error
	listCalls int

	// existing makes CreateTopics behave like a real cluster: topics in the
	// set report TopicAlreadyExists and new ones are added to it.
	existing map[string]bool
}

func (f *fakeAdmin) CreateTopics(_ context.Context, specs []TopicSpec) (map[string]error, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.createCalls
	f.createCalls++
	f.createdSpecs = append(f.createdSpecs, specs)

	if err := pick(f.createErrs, i); err != nil {
		return nil, err
	}
	if f.existing != nil {
		results := map[string]error{}
		for _, s := range specs {
			if f.existing[s.Name] {
				results[s.Name] = errTopicExists
				continue
			}
			f.existing[s.Name] = true
		}
		return results, nil
	}
	return pick(f.createResults, i), nil
}

func (f *fakeAdmin) ListTopics(_ context.Context) ([]TopicListing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.listCalls
	f.listCalls++

	if err := pick(f.listErrs, i); err != nil {
		return nil, err
	}
	if f.existing != nil {
		var out []TopicListing
		for name := range f.existing {
			out = append(out, TopicListing{Name: name})
		}
		return out, nil
	}
	return pick(f.listings, i), nil
}

func pick[T any](script []T, i int) T {
	var zero T
	if len(script) == 0 {
		return zero
	}
	if i >= len(script) {
		return script[len(script)-1]
	}
	return script[i]
}

// recordingSleeper captures poll and backoff waits without sleeping.
type recordingSleeper struct {
	mu    sync.Mutex
	waits []time.Duration
	onNth map[int]func()
}

func (r *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.waits = append(r.waits, d)
	fn := r.onNth[len(r.waits)]
	r.mu.Unlock()
	if fn != nil {
		fn()
	}
	return ctx.Err()
}

func (r *recordingSleeper) Waits() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.waits...)
}

func testRetryConfig() resilience.Config {
	return resilience.Config{
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      2,
		MaxAttempts:     3,
		SleepTime:       50 * time.Millisecond,
	}
}

func testPolicy(cfg resilience.Config, sleeper *recordingSleeper) *resilience.Policy {
	return resilience.NewPolicy(cfg, logger.NewNop(), resilience.WithSleep(sleeper.Sleep))
}

func listing(names ...string) []TopicListing {
	out := make([]TopicListing, len(names))
	for i, n := range names {
		out[i] = TopicListing{Name: n}
	}
	return out
}

func specs(names ...string) []TopicSpec {
	out, _ := BuildTopicSpecs(names, 3, 1)
	return out
}
