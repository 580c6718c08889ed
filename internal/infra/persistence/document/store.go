// Package document implements the domain repositories as JSON documents in a KeyValueStore.
// Reads treat a missing or malformed document as the empty default. Read-modify-write cycles
// on one key are serialized within the process.
package document

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	domainerrors "emart/internal/domain/errors"
	"emart/internal/domain/repository"
	"emart/internal/errors"
)

// Store adds JSON encoding and per-key locking to a KeyValueStore.
type Store struct {
	kv     repository.KeyValueStore
	locks  *keyLocks
	logger *slog.Logger
}

// NewStore wraps kv.
func NewStore(kv repository.KeyValueStore, logger *slog.Logger) *Store {
	return &Store{
		kv:     kv,
		locks:  newKeyLocks(),
		logger: logger,
	}
}

// read decodes the document under key. The bool reports whether a well-formed document existed.
func read[T any](ctx context.Context, s *Store, key string, empty func() T) (T, bool, error) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return empty(), false, nil
		}
		var zero T

		return zero, false, errors.Wrapf(err, "failed to read %s", key)
	}

	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return empty(), true, nil
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		s.logger.WarnContext(ctx, "Malformed document, using empty default",
			slog.String("key", key),
			slog.Any("error", err),
		)

		return empty(), false, nil
	}

	return value, true, nil
}

// write encodes value and stores it. Store failures are reported as DATABASE_EXECUTE_FAILED wrapping ErrStoreWrite.
func write[T any](ctx context.Context, s *Store, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", key)
	}

	if err := s.kv.Set(ctx, key, raw); err != nil {
		return domainerrors.NewDatabaseExecuteError(errors.Join(repository.ErrStoreWrite, err), "failed to save "+key)
	}

	return nil
}

// update runs one locked read-modify-write cycle. If fn fails nothing is written. If only the
// write fails the modified value is still returned with the error.
func update[T any](ctx context.Context, s *Store, key string, empty func() T, fn func(T) (T, error)) (T, error) {
	unlock := s.locks.lock(key)
	defer unlock()

	var zero T

	current, _, err := read(ctx, s, key, empty)
	if err != nil {
		return zero, err
	}

	next, err := fn(current)
	if err != nil {
		return zero, err
	}

	if err := write(ctx, s, key, next); err != nil {
		return next, err
	}

	return next, nil
}

// remove deletes key under its lock.
func remove(ctx context.Context, s *Store, key string) error {
	unlock := s.locks.lock(key)
	defer unlock()

	if err := s.kv.Remove(ctx, key); err != nil {
		return domainerrors.NewDatabaseExecuteError(errors.Join(repository.ErrStoreWrite, err), "failed to remove "+key)
	}

	return nil
}

// keyLocks hands out one mutex per key and drops it when no goroutine holds or waits for it.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: make(map[string]*keyLock)}
}

func (l *keyLocks) lock(key string) func() {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	kl.mu.Lock()

	return func() {
		kl.mu.Unlock()

		l.mu.Lock()
		kl.refs--
		if kl.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}
