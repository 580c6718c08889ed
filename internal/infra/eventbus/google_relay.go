package eventbus

import (
	"context"
	"fmt"
	"log/slog"

	"emart/internal/domain/lifecycle"
	"emart/internal/errors"

	"cloud.google.com/go/pubsub/v2"
	pubsubpb "cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
)

const originAttribute = "origin"

// googleRelay carries envelopes over a Pub/Sub topic. Each instance needs its own subscription.
type googleRelay struct {
	client         *pubsub.Client
	publisher      *pubsub.Publisher
	subscriptionID string
	logger         *slog.Logger
}

// NewGooglePubSubRelay connects to projectID and verifies that topicID exists.
// ctx must outlive the relay; the topic check itself is bounded by lifecycle.DefaultTimeout.
func NewGooglePubSubRelay(ctx context.Context, projectID, topicID, subscriptionID string, logger *slog.Logger) (Relay, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	checkCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	topicPath := fmt.Sprintf("projects/%s/topics/%s", projectID, topicID)
	if _, err := client.TopicAdminClient.GetTopic(checkCtx, &pubsubpb.GetTopicRequest{
		Topic: topicPath,
	}); err != nil {
		client.Close()

		return nil, errors.Wrapf(err, "failed to get topic %s", topicID)
	}

	logger.Info("[GooglePubSub] Relay initialized",
		slog.String("project_id", projectID),
		slog.String("topic_id", topicID),
		slog.String("subscription_id", subscriptionID),
	)

	return &googleRelay{
		client:         client,
		publisher:      client.Publisher(topicID),
		subscriptionID: subscriptionID,
		logger:         logger,
	}, nil
}

func (r *googleRelay) Publish(ctx context.Context, env Envelope) error {
	data, err := encodeEnvelope(env)
	if err != nil {
		return err
	}

	result := r.publisher.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			originAttribute: env.Origin,
			"topic":         string(env.Event.Topic),
		},
	})
	if _, err := result.Get(ctx); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (r *googleRelay) Receive(ctx context.Context, handle func(Envelope)) error {
	subscriber := r.client.Subscriber(r.subscriptionID)

	err := subscriber.Receive(ctx, func(_ context.Context, msg *pubsub.Message) {
		// Invalidation is idempotent; a bad message is acked so it is not redelivered forever.
		defer msg.Ack()

		env, err := decodeEnvelope(msg.Data)
		if err != nil {
			r.logger.Warn("[GooglePubSub] Dropping message",
				slog.String("message_id", msg.ID),
				slog.Any("error", err),
			)

			return
		}
		handle(env)
	})

	return errors.WithStack(err)
}

func (r *googleRelay) Close() error {
	if r.publisher != nil {
		r.publisher.Stop()
	}
	if r.client != nil {
		return errors.WithStack(r.client.Close())
	}

	return nil
}
