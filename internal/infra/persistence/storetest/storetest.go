// Package storetest holds the behavior every KeyValueStore backend must share.
package storetest

import (
	"context"
	"testing"

	"emart/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises store against the KeyValueStore contract.
func Run(t *testing.T, store repository.KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrKeyNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "products", []byte(`[{"id":"1"}]`)))

		got, err := store.Get(ctx, "products")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"1"}]`, string(got))
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "themeCss", []byte(`"a"`)))
		require.NoError(t, store.Set(ctx, "themeCss", []byte(`"b"`)))

		got, err := store.Get(ctx, "themeCss")
		require.NoError(t, err)
		assert.Equal(t, `"b"`, string(got))
	})

	t.Run("keys by prefix", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "cart/b", []byte(`[]`)))
		require.NoError(t, store.Set(ctx, "cart/a", []byte(`[]`)))

		keys, err := store.Keys(ctx, "cart/")
		require.NoError(t, err)
		assert.Equal(t, []string{"cart/a", "cart/b"}, keys)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "orders", []byte(`[]`)))
		require.NoError(t, store.Remove(ctx, "orders"))
		require.NoError(t, store.Remove(ctx, "orders"))

		_, err := store.Get(ctx, "orders")
		assert.ErrorIs(t, err, repository.ErrKeyNotFound)
	})
}
