package repository

import (
	"context"

	"emart/internal/domain/entity"
)

// CartRepository stores one item list per cart id.
type CartRepository interface {
	// GetCart loads a cart. Missing or malformed documents yield an empty cart.
	GetCart(ctx context.Context, cartID string) (*entity.Cart, error)

	// UpdateCart loads a cart, applies fn and persists the full item list.
	// When only the write fails the mutated cart is returned together with an error wrapping ErrStoreWrite.
	UpdateCart(ctx context.Context, cartID string, fn func(cart *entity.Cart) error) (*entity.Cart, error)

	// DeleteCart removes a cart document.
	DeleteCart(ctx context.Context, cartID string) error
}
