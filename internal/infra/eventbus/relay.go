package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"emart/internal/domain/service"
	"emart/internal/errors"

	"github.com/google/uuid"
)

// Envelope is the wire form of an event exchanged between instances.
type Envelope struct {
	Origin string        `json:"origin"`
	Event  service.Event `json:"event"`
}

func encodeEnvelope(env Envelope) ([]byte, error) {
	data, err := json.Marshal(env)

	return data, errors.WithStack(err)
}

func decodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, errors.Wrap(err, "malformed event envelope")
	}
	if _, ok := service.ParseTopic(string(env.Event.Topic)); !ok {
		return Envelope{}, errors.Errorf("unknown topic %q", env.Event.Topic)
	}

	return env, nil
}

// Relay carries envelopes between instances.
type Relay interface {
	// Publish sends env to every instance, including this one.
	Publish(ctx context.Context, env Envelope) error

	// Receive calls handle for each incoming envelope until ctx is done.
	Receive(ctx context.Context, handle func(Envelope)) error

	Close() error
}

// RelayedBus publishes locally and through a relay. Events received from the relay are
// re-published locally unless this instance sent them.
type RelayedBus struct {
	*LocalBus

	relay      Relay
	instanceID string
	logger     *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRelayedBus wraps local with relay. Call Start to begin receiving.
func NewRelayedBus(local *LocalBus, relay Relay, logger *slog.Logger) *RelayedBus {
	return &RelayedBus{
		LocalBus:   local,
		relay:      relay,
		instanceID: uuid.NewString(),
		logger:     logger,
	}
}

// InstanceID identifies this process in envelopes.
func (b *RelayedBus) InstanceID() string {
	return b.instanceID
}

// Publish delivers locally first; a relay failure is logged and does not affect local subscribers.
func (b *RelayedBus) Publish(ctx context.Context, event service.Event) {
	b.LocalBus.Publish(ctx, event)

	if err := b.relay.Publish(ctx, Envelope{Origin: b.instanceID, Event: event}); err != nil {
		b.logger.WarnContext(ctx, "Failed to relay event",
			slog.String("topic", string(event.Topic)),
			slog.Any("error", err),
		)
	}
}

// Start runs the receive loop in the background until Stop.
func (b *RelayedBus) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		if err := b.relay.Receive(ctx, b.deliver); err != nil && ctx.Err() == nil {
			b.logger.Error("Event relay stopped", slog.Any("error", err))
		}
	}()
}

// Stop ends the receive loop, closes the relay and then every local subscription.
func (b *RelayedBus) Stop() error {
	if b.cancel != nil {
		b.cancel()
	}
	b.wg.Wait()

	err := b.relay.Close()
	b.LocalBus.Close()

	return err
}

func (b *RelayedBus) deliver(env Envelope) {
	if env.Origin == b.instanceID {
		return
	}

	b.LocalBus.Publish(context.Background(), env.Event)
}
