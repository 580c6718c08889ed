package usecase

import (
	"context"

	"emart/internal/domain/entity"
)

// CartView is a cart with its totals computed from the live item list.
type CartView struct {
	Items      []entity.CartItem `json:"items"`
	TotalItems int               `json:"totalItems"`
	TotalPrice float64           `json:"totalPrice"`
}

// NewCartView computes the totals of cart.
func NewCartView(cart *entity.Cart) *CartView {
	return &CartView{
		Items:      cart.Items,
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
	}
}

// CartUsecase manages shopping carts addressed by cart id.
type CartUsecase interface {
	GetCart(ctx context.Context, cartID string) (*CartView, error)
	// AddItem adds one unit, refusing it when stock or the purchase limit is exhausted.
	AddItem(ctx context.Context, cartID, productID, size, color string) (*CartView, error)
	// UpdateQuantity sets a line's quantity verbatim; below 1 removes the line.
	UpdateQuantity(ctx context.Context, cartID string, key entity.CartKey, quantity int) (*CartView, error)
	RemoveItem(ctx context.Context, cartID string, key entity.CartKey) (*CartView, error)
	ClearCart(ctx context.Context, cartID string) (*CartView, error)
}
