// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"emart/internal/errors"
)

// Store-level errors.
var (
	// ErrKeyNotFound is returned by a KeyValueStore when the key holds no document.
	ErrKeyNotFound = errors.New("key not found")
	// ErrStoreWrite marks a failure to persist a document. Callers use errors.Is to tell it apart from validation errors.
	ErrStoreWrite = errors.New("store write failed")
)

// KeyValueStore is a flat namespace of JSON documents. Values are opaque bytes; encoding happens in the
// document repositories.
type KeyValueStore interface {
	// Get returns the raw document under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the document under key.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// Keys lists the keys starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
