package eventbus

import (
	"context"
	"log/slog"

	"emart/config"
	"emart/internal/domain/constants"
	"emart/internal/domain/service"
	"emart/internal/errors"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// BusParams holds dependencies for the EventBus, injected by Fx
type BusParams struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
	Redis  goredis.UniversalClient `optional:"true"`
}

// NewEventBus creates the local bus and, when relay.provider is set, relays it to peer instances
func NewEventBus(params BusParams) (service.EventBus, error) {
	cfg := params.Config.Relay
	logger := params.Logger
	local := NewLocalBus(logger, DefaultBufferSize)

	if cfg == nil || cfg.Provider == constants.RelayProviderNone {
		logger.Info("Event relay not configured, events stay in process")
		params.Lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				local.Close()

				return nil
			},
		})

		return local, nil
	}

	relay, err := newRelay(params)
	if err != nil {
		return nil, err
	}

	bus := NewRelayedBus(local, relay, logger)
	params.Lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			bus.Start()
			logger.Info("Event relay started",
				slog.String("provider", cfg.Provider),
				slog.String("instance_id", bus.InstanceID()),
			)

			return nil
		},
		OnStop: func(_ context.Context) error {
			logger.Info("Closing event relay")

			return bus.Stop()
		},
	})

	return bus, nil
}

func newRelay(params BusParams) (Relay, error) {
	cfg := params.Config.Relay

	switch cfg.Provider {
	case constants.RelayProviderRedis:
		if params.Redis == nil {
			return nil, errors.New("redis configuration is required for redis relay")
		}
		if cfg.Channel == "" {
			return nil, errors.New("channel is required for redis relay")
		}

		return NewRedisRelay(params.Redis, cfg.Channel, params.Logger), nil

	case constants.RelayProviderGoogle:
		if cfg.ProjectID == "" {
			return nil, errors.New("project ID is required for google relay")
		}
		if cfg.TopicID == "" {
			return nil, errors.New("topic ID is required for google relay")
		}
		if cfg.SubscriptionID == "" {
			return nil, errors.New("subscription ID is required for google relay")
		}

		return NewGooglePubSubRelay(context.Background(), cfg.ProjectID, cfg.TopicID, cfg.SubscriptionID, params.Logger)

	default:
		return nil, errors.Errorf("unknown relay provider: %s", cfg.Provider)
	}
}

// Module provides the EventBus FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewEventBus),
)
