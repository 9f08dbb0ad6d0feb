package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/errgroup"
)

// Dispatcher forwards events to a delivery channel. Implementations must be
// safe for concurrent use.
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event) error
}

// Noop discards all events.
type Noop struct{}

func (Noop) Dispatch(context.Context, Event) error { return nil }

// LogDispatcher writes every event as a structured log line.
type LogDispatcher struct {
	logger *slog.Logger
}

// NewLogDispatcher creates a LogDispatcher. A nil logger uses slog.Default.
func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(ctx context.Context, event Event) error {
	d.logger.InfoContext(ctx, "notification",
		"kind", string(event.Kind()),
		"recipients", event.RecipientIDs(),
	)
	return nil
}

// Publisher is the slice of the redis client RedisPublisher needs.
// *redis.Client satisfies it.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Envelope is the JSON document published for each event.
type Envelope struct {
	Kind       Kind      `json:"kind"`
	Recipients []string  `json:"recipients"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    Event     `json:"payload"`
}

// RedisPublisher publishes events as JSON envelopes on a pub/sub channel.
type RedisPublisher struct {
	client  Publisher
	channel string
	now     func() time.Time
}

// DefaultChannel is used when no channel is configured.
const DefaultChannel = "quorum.events"

// NewRedisPublisher creates a RedisPublisher on channel.
func NewRedisPublisher(client Publisher, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{client: client, channel: channel, now: time.Now}
}

// NewRedisClient opens a go-redis client for the publisher.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func (p *RedisPublisher) Dispatch(ctx context.Context, event Event) error {
	msg, err := json.Marshal(Envelope{
		Kind:       event.Kind(),
		Recipients: event.RecipientIDs(),
		OccurredAt: p.now().UTC(),
		Payload:    event,
	})
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", event.Kind(), err)
	}
	if err := p.client.Publish(ctx, p.channel, msg).Err(); err != nil {
		return fmt.Errorf("publishing %s event to %s: %w", event.Kind(), p.channel, err)
	}
	return nil
}

// Fanout dispatches each event to every sink concurrently. One failing sink
// does not stop the others; all failures are joined.
type Fanout struct {
	sinks []Dispatcher
	limit int
}

// NewFanout creates a Fanout over sinks, skipping nils.
func NewFanout(sinks ...Dispatcher) *Fanout {
	f := &Fanout{limit: 4}
	for _, s := range sinks {
		if s != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

func (f *Fanout) Dispatch(ctx context.Context, event Event) error {
	var (
		mu   sync.Mutex
		errs []error
	)
	g := new(errgroup.Group)
	g.SetLimit(f.limit)
	for _, sink := range f.sinks {
		g.Go(func() error {
			if err := sink.Dispatch(ctx, event); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
