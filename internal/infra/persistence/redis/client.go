package redis

import (
	"context"
	"log/slog"

	"emart/config"
	"emart/internal/domain/constants"
	"emart/internal/domain/lifecycle"
	"emart/internal/errors"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// ClientParams defines the dependencies of the redis client
type ClientParams struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// NewClient creates a redis client that is pinged on start and closed on stop.
// It returns nil unless the redis store or the redis relay is selected; callers that need it must check.
func NewClient(params ClientParams) goredis.UniversalClient {
	cfg := params.Config.Redis
	if cfg == nil || cfg.Addr == "" || !Required(params.Config) {
		return nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx).Err(); err != nil {
				return errors.Wrap(err, "failed to ping redis")
			}
			params.Logger.Info("Redis connected", slog.String("addr", cfg.Addr))

			return nil
		},
		OnStop: func(_ context.Context) error {
			return errors.WithStack(client.Close())
		},
	})

	return client
}

// Required reports whether any configured component uses redis.
func Required(cfg *config.Config) bool {
	if cfg.Storage.Provider == constants.StorageProviderRedis {
		return true
	}

	return cfg.Relay != nil && cfg.Relay.Provider == constants.RelayProviderRedis
}
