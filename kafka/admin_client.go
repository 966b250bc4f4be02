package kafka

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// AdminAPI is the subset of the broker admin protocol used at startup.
type AdminAPI interface {
	// CreateTopics submits one request for all specs. The map holds the
	// per-topic result; a nil or missing entry means the topic was created.
	CreateTopics(ctx context.Context, specs []TopicSpec) (map[string]error, error)
	// ListTopics returns the topics currently visible to the queried broker.
	ListTopics(ctx context.Context) ([]TopicListing, error)
}

// brokerConn is the part of *kafkago.Conn the admin client uses.
type brokerConn interface {
	Controller() (kafkago.Broker, error)
	CreateTopics(topics ...kafkago.TopicConfig) error
	ReadPartitions(topics ...string) ([]kafkago.Partition, error)
	SetDeadline(t time.Time) error
	Close() error
}

type dialFunc func(ctx context.Context, addr string) (brokerConn, error)

// ClientAdmin implements AdminAPI over short-lived broker connections.
// Every call dials, sends one request and closes, so listings always reflect
// what a broker reports at that moment and nothing outlives the call.
type ClientAdmin struct {
	brokers []string
	timeout time.Duration
	dial    dialFunc
}

var _ AdminAPI = (*ClientAdmin)(nil)

// NewClientAdmin creates an admin client for cfg.Brokers.
func NewClientAdmin(cfg *Config) (*ClientAdmin, error) {
	dialer, err := NewDialer(cfg)
	if err != nil {
		return nil, err
	}
	return &ClientAdmin{
		brokers: cfg.Brokers,
		timeout: ParseDuration(cfg.AdminTimeout),
		dial: func(ctx context.Context, addr string) (brokerConn, error) {
			conn, err := dialer.DialContext(ctx, "tcp", addr)
			if err != nil {
				return nil, err
			}
			return conn, nil
		},
	}, nil
}

// CreateTopics sends a single CreateTopics request to the controller.
// Already-existing topics are accepted by the broker connection, so a
// non-nil error is a request-level failure covering every spec.
func (a *ClientAdmin) CreateTopics(ctx context.Context, specs []TopicSpec) (map[string]error, error) {
	conn, err := a.connectAny(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return nil, fmt.Errorf("find controller: %w", err)
	}
	ctrl, err := a.connect(ctx, net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return nil, fmt.Errorf("connect to controller: %w", err)
	}
	defer ctrl.Close()

	topics := make([]kafkago.TopicConfig, len(specs))
	for i, s := range specs {
		topics[i] = s.toKafka()
	}
	if err := ctrl.CreateTopics(topics...); err != nil {
		return nil, err
	}
	return nil, nil
}

// ListTopics asks a broker for the metadata of every topic. Topics whose
// metadata carries an error have no partitions and are left out.
func (a *ClientAdmin) ListTopics(ctx context.Context) ([]TopicListing, error) {
	conn, err := a.connectAny(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	return listingOf(partitions), nil
}

// connectAny dials the bootstrap brokers in order and returns the first
// connection that succeeds.
func (a *ClientAdmin) connectAny(ctx context.Context) (brokerConn, error) {
	if len(a.brokers) == 0 {
		return nil, fmt.Errorf("no brokers configured")
	}
	var errs []error
	for _, addr := range a.brokers {
		conn, err := a.connect(ctx, addr)
		if err == nil {
			return conn, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		errs = append(errs, fmt.Errorf("%s: %w", addr, err))
	}
	return nil, stderrors.Join(errs...)
}

// connect dials addr and bounds the connection by the admin timeout and
// the context deadline, whichever comes first.
func (a *ClientAdmin) connect(ctx context.Context, addr string) (brokerConn, error) {
	conn, err := a.dial(ctx, addr)
	if err != nil {
		return nil, err
	}
	if deadline, ok := a.deadline(ctx); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return nil, err
		}
	}
	// Cancelling ctx expires the deadline so a blocked read returns at once.
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	return boundConn{brokerConn: conn, stop: stop}, nil
}

type boundConn struct {
	brokerConn
	stop func() bool
}

func (c boundConn) Close() error {
	c.stop()
	return c.brokerConn.Close()
}

func (a *ClientAdmin) deadline(ctx context.Context) (time.Time, bool) {
	deadline, ok := ctx.Deadline()
	if a.timeout <= 0 {
		return deadline, ok
	}
	if byTimeout := time.Now().Add(a.timeout); !ok || byTimeout.Before(deadline) {
		return byTimeout, true
	}
	return deadline, true
}

// listingOf collapses partition metadata into one entry per topic, in the
// order the broker returned them. Double-underscore topics are Kafka's own.
func listingOf(partitions []kafkago.Partition) []TopicListing {
	seen := make(map[string]bool)
	listing := make([]TopicListing, 0, len(partitions))
	for _, p := range partitions {
		if seen[p.Topic] {
			continue
		}
		seen[p.Topic] = true
		listing = append(listing, TopicListing{Name: p.Topic, Internal: strings.HasPrefix(p.Topic, "__")})
	}
	return listing
}
