// Package persistence selects the key-value backend and provides the document repositories.
package persistence

import (
	"context"
	"log/slog"

	"emart/config"
	"emart/internal/domain/constants"
	"emart/internal/domain/lifecycle"
	"emart/internal/domain/repository"
	"emart/internal/errors"
	"emart/internal/infra/persistence/blob"
	"emart/internal/infra/persistence/document"
	"emart/internal/infra/persistence/memory"
	"emart/internal/infra/persistence/postgres"
	"emart/internal/infra/persistence/redis"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// StoreParams holds dependencies for the KeyValueStore, injected by Fx
type StoreParams struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
	Redis  goredis.UniversalClient `optional:"true"`
}

// NewKeyValueStore creates the backend named by storage.provider
func NewKeyValueStore(params StoreParams) (repository.KeyValueStore, error) {
	cfg := params.Config
	logger := params.Logger.With(slog.String("provider", cfg.Storage.Provider))

	switch cfg.Storage.Provider {
	case constants.StorageProviderMemory:
		logger.Warn("Using in-memory document store, data is lost on restart")

		return memory.NewStore(), nil

	case constants.StorageProviderPostgres:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lc,
			Config:    cfg,
			Logger:    params.Logger,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("Using PostgreSQL document store")

		return postgres.NewKeyValueStore(db), nil

	case constants.StorageProviderRedis:
		if params.Redis == nil {
			return nil, errors.New("redis configuration is required for redis storage")
		}
		logger.Info("Using redis document store", slog.String("key_prefix", cfg.Redis.KeyPrefix))

		return redis.NewStore(params.Redis, cfg.Redis.KeyPrefix), nil

	case constants.StorageProviderBlob:
		if cfg.Blob == nil || cfg.Blob.URL == "" {
			return nil, errors.New("blob url is required for blob storage")
		}

		ctx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
		defer cancel()

		store, err := blob.Open(ctx, cfg.Blob.URL, cfg.Blob.Prefix)
		if err != nil {
			return nil, err
		}
		params.Lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				return store.Close()
			},
		})
		logger.Info("Using blob document store", slog.String("url", cfg.Blob.URL))

		return store, nil

	default:
		return nil, errors.Errorf("unknown storage provider: %s", cfg.Storage.Provider)
	}
}

// Module provides the document store and every repository
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(
		redis.NewClient,
		NewKeyValueStore,
		document.NewStore,
		document.NewProductRepository,
		document.NewCartRepository,
		document.NewOrderRepository,
		document.NewCategoryRepository,
		document.NewUserRepository,
		document.NewConversationRepository,
		document.NewContactMessageRepository,
		document.NewSettingsRepository,
		document.NewPasswordResetRepository,
		document.NewDeviceRepository,
	),
)
