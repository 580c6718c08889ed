// Package redis stores documents as redis strings under a configurable key prefix.
package redis

import (
	"context"
	"slices"
	"strings"

	"emart/internal/domain/repository"
	"emart/internal/errors"

	goredis "github.com/redis/go-redis/v9"
)

const scanBatch = 100

// Store is a KeyValueStore backed by redis.
type Store struct {
	client goredis.UniversalClient
	prefix string
}

// NewStore uses client for all commands. Every key is stored as prefix+key.
func NewStore(client goredis.UniversalClient, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, repository.ErrKeyNotFound
		}

		return nil, errors.Wrapf(err, "redis get %s", key)
	}

	return data, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return errors.Wrapf(s.client.Set(ctx, s.prefix+key, value, 0).Err(), "redis set %s", key)
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return errors.Wrapf(s.client.Del(ctx, s.prefix+key).Err(), "redis del %s", key)
}

func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	iter := s.client.Scan(ctx, 0, escapeGlob(s.prefix+prefix)+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrapf(err, "redis scan %s", prefix)
	}

	slices.Sort(keys)

	return slices.Compact(keys), nil
}

// escapeGlob quotes the characters SCAN MATCH treats as patterns.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}

	return b.String()
}
