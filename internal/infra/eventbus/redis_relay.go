package eventbus

import (
	"context"
	"log/slog"

	"emart/internal/errors"

	goredis "github.com/redis/go-redis/v9"
)

// redisRelay carries envelopes over a redis pub/sub channel.
type redisRelay struct {
	client  goredis.UniversalClient
	channel string
	logger  *slog.Logger
}

// NewRedisRelay creates a relay on channel. The client is owned by the caller.
func NewRedisRelay(client goredis.UniversalClient, channel string, logger *slog.Logger) Relay {
	return &redisRelay{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

func (r *redisRelay) Publish(ctx context.Context, env Envelope) error {
	data, err := encodeEnvelope(env)
	if err != nil {
		return err
	}

	return errors.Wrapf(r.client.Publish(ctx, r.channel, data).Err(), "publish to %s", r.channel)
}

func (r *redisRelay) Receive(ctx context.Context, handle func(Envelope)) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return errors.Wrapf(err, "subscribe to %s", r.channel)
	}
	r.logger.Info("[RedisRelay] Subscribed", slog.String("channel", r.channel))

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return errors.New("redis subscription closed")
			}

			env, err := decodeEnvelope([]byte(msg.Payload))
			if err != nil {
				r.logger.Warn("[RedisRelay] Dropping message", slog.Any("error", err))

				continue
			}
			handle(env)
		}
	}
}

func (r *redisRelay) Close() error {
	return nil
}
