package impl

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"emart/config"
	"emart/internal/domain/entity"
	domainerrors "emart/internal/domain/errors"
	"emart/internal/domain/repository"
	"emart/internal/domain/service"
	"emart/internal/errors"
	"emart/internal/infra/eventbus"
	"emart/internal/infra/persistence/document"
	"emart/internal/infra/persistence/memory"

	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:   4,
			ResetCodeTTL: 15 * time.Minute,
		},
		Owner: &config.OwnerConfig{
			Email:        "owner@example.com",
			Name:         "Store Owner",
			PasswordHash: "owner-password-hash",
			PINHash:      "owner-pin-hash",
		},
		QRCode: &config.QRCodeConfig{MerchantID: "9800000000"},
		Seed:   config.SeedConfig{Enabled: true},
	}
}

// flakyKV fails every write while failWrites is set, and writes to failKey while that is non-empty.
type flakyKV struct {
	repository.KeyValueStore
	failWrites atomic.Bool
	failKey    atomic.Value
}

var errQuotaExceeded = errors.New("quota exceeded")

func (s *flakyKV) failing(key string) bool {
	if s.failWrites.Load() {
		return true
	}
	failKey, _ := s.failKey.Load().(string)

	return failKey != "" && failKey == key
}

func (s *flakyKV) Set(ctx context.Context, key string, value []byte) error {
	if s.failing(key) {
		return errQuotaExceeded
	}

	return s.KeyValueStore.Set(ctx, key, value)
}

func (s *flakyKV) Remove(ctx context.Context, key string) error {
	if s.failing(key) {
		return errQuotaExceeded
	}

	return s.KeyValueStore.Remove(ctx, key)
}

// testRepos is a full set of document repositories over one in-memory store.
type testRepos struct {
	kv            *flakyKV
	products      repository.ProductRepository
	carts         repository.CartRepository
	orders        repository.OrderRepository
	categories    repository.CategoryRepository
	users         repository.UserRepository
	conversations repository.ConversationRepository
	contacts      repository.ContactMessageRepository
	settings      repository.SettingsRepository
	resets        repository.PasswordResetRepository
	devices       repository.DeviceRepository
}

func newTestRepos(t *testing.T) *testRepos {
	t.Helper()

	kv := &flakyKV{KeyValueStore: memory.NewStore()}
	store := document.NewStore(kv, newDiscardLogger())

	return &testRepos{
		kv:            kv,
		products:      document.NewProductRepository(store),
		carts:         document.NewCartRepository(store),
		orders:        document.NewOrderRepository(store),
		categories:    document.NewCategoryRepository(store),
		users:         document.NewUserRepository(store),
		conversations: document.NewConversationRepository(store),
		contacts:      document.NewContactMessageRepository(store),
		settings:      document.NewSettingsRepository(store),
		resets:        document.NewPasswordResetRepository(store),
		devices:       document.NewDeviceRepository(store),
	}
}

// eventRecorder collects every topic published on a local bus.
type eventRecorder struct {
	bus *eventbus.LocalBus
	sub service.Subscription

	mu     sync.Mutex
	events []service.Event
	done   chan struct{}
}

func newEventRecorder(t *testing.T) *eventRecorder {
	t.Helper()

	bus := eventbus.NewLocalBus(newDiscardLogger(), 256)
	rec := &eventRecorder{bus: bus, sub: bus.Subscribe(), done: make(chan struct{})}
	go func() {
		defer close(rec.done)
		for event := range rec.sub.Events() {
			rec.mu.Lock()
			rec.events = append(rec.events, event)
			rec.mu.Unlock()
		}
	}()
	t.Cleanup(bus.Close)

	return rec
}

// all closes the bus, waits for delivery and returns every event seen, in order.
func (r *eventRecorder) all() []service.Event {
	r.bus.Close()
	<-r.done

	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.events)
}

func (r *eventRecorder) topics() []service.Topic {
	events := r.all()
	topics := make([]service.Topic, 0, len(events))
	for _, e := range events {
		topics = append(topics, e.Topic)
	}

	return topics
}

func requireAppError(t *testing.T, err error, code string) {
	t.Helper()

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr), "expected an application error, got %v", err)
	require.Equal(t, code, appErr.ErrorCode())
}

func sampleProduct(id, category string, price float64, stock, limit int) *entity.Product {
	return entity.NewProduct(entity.Product{
		ID:            id,
		Name:          "Product " + id,
		Price:         price,
		Stock:         stock,
		Category:      category,
		PurchaseLimit: limit,
		Images: [entity.ProductImageCount]entity.ProductImage{
			{URL: "https://img/" + id + "/1"}, {URL: "https://img/" + id + "/2"}, {URL: "https://img/" + id + "/3"},
		},
	}, nil)
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
