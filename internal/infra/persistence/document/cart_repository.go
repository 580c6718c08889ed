package document

import (
	"context"

	"emart/internal/domain/constants"
	"emart/internal/domain/entity"
	"emart/internal/domain/repository"
)

type cartRepository struct {
	store *Store
}

// NewCartRepository stores each cart's item list under "cart/<id>".
func NewCartRepository(store *Store) repository.CartRepository {
	return &cartRepository{store: store}
}

func emptyCartItems() []entity.CartItem {
	return []entity.CartItem{}
}

func cartKey(cartID string) string {
	return constants.KeyCartPrefix + cartID
}

func (r *cartRepository) GetCart(ctx context.Context, cartID string) (*entity.Cart, error) {
	items, _, err := read(ctx, r.store, cartKey(cartID), emptyCartItems)
	if err != nil {
		return nil, err
	}

	return entity.NewCart(items), nil
}

func (r *cartRepository) UpdateCart(ctx context.Context, cartID string, fn func(cart *entity.Cart) error) (*entity.Cart, error) {
	var cart *entity.Cart

	_, err := update(ctx, r.store, cartKey(cartID), emptyCartItems, func(items []entity.CartItem) ([]entity.CartItem, error) {
		next := entity.NewCart(items)
		if err := fn(next); err != nil {
			return nil, err
		}
		cart = next

		return next.Items, nil
	})
	if err != nil && cart == nil {
		return nil, err
	}

	return cart, err
}

func (r *cartRepository) DeleteCart(ctx context.Context, cartID string) error {
	return remove(ctx, r.store, cartKey(cartID))
}
