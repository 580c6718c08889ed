// Package eventbus implements service.EventBus in process, optionally relayed to peer instances.
package eventbus

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"emart/internal/domain/service"
)

// DefaultBufferSize is the per-subscriber queue length.
const DefaultBufferSize = 16

// LocalBus fans events out to the subscribers of this process.
type LocalBus struct {
	mu         sync.RWMutex
	subs       map[*subscription]struct{}
	bufferSize int
	closed     bool
	logger     *slog.Logger
}

var _ service.EventBus = (*LocalBus)(nil)

// NewLocalBus creates an empty bus. A bufferSize below 1 uses DefaultBufferSize.
func NewLocalBus(logger *slog.Logger, bufferSize int) *LocalBus {
	if bufferSize < 1 {
		bufferSize = DefaultBufferSize
	}

	return &LocalBus{
		subs:       make(map[*subscription]struct{}),
		bufferSize: bufferSize,
		logger:     logger,
	}
}

// Publish never blocks: a subscriber whose queue is full misses the event.
func (b *LocalBus) Publish(ctx context.Context, event service.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs {
		if !sub.wants(event.Topic) {
			continue
		}

		select {
		case sub.ch <- event:
		default:
			b.logger.DebugContext(ctx, "Subscriber queue full, dropping event",
				slog.String("topic", string(event.Topic)),
			)
		}
	}
}

// Subscribe registers for topics, or for all topics when none are given.
// Subscribing to a closed bus returns an already closed subscription.
func (b *LocalBus) Subscribe(topics ...service.Topic) service.Subscription {
	sub := &subscription{
		bus:    b,
		topics: slices.Clone(topics),
		ch:     make(chan service.Event, b.bufferSize),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(sub.ch)
		sub.done = true

		return sub
	}
	b.subs[sub] = struct{}{}

	return sub
}

// SubscriberCount returns the number of open subscriptions.
func (b *LocalBus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs)
}

// Close ends every subscription. Later publishes are dropped.
func (b *LocalBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for sub := range b.subs {
		sub.done = true
		close(sub.ch)
		delete(b.subs, sub)
	}
}

func (b *LocalBus) unsubscribe(sub *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub.done {
		return
	}
	sub.done = true
	close(sub.ch)
	delete(b.subs, sub)
}

type subscription struct {
	bus    *LocalBus
	topics []service.Topic
	ch     chan service.Event
	done   bool // guarded by bus.mu
}

func (s *subscription) Events() <-chan service.Event {
	return s.ch
}

func (s *subscription) Close() {
	s.bus.unsubscribe(s)
}

func (s *subscription) wants(topic service.Topic) bool {
	return len(s.topics) == 0 || slices.Contains(s.topics, topic)
}
