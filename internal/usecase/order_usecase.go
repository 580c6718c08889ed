package usecase

import (
	"context"

	"emart/internal/domain/entity"
)

// CheckoutInput turns a cart into an order.
type CheckoutInput struct {
	CartID        string
	Customer      entity.Customer
	TransactionID string
	Message       string
}

// OrderUsecase handles checkout and the order lifecycle.
type OrderUsecase interface {
	Checkout(ctx context.Context, input CheckoutInput) (*entity.Order, error)
	ListOrders(ctx context.Context) ([]*entity.Order, error)
	ListCustomerOrders(ctx context.Context, customerID string) ([]*entity.Order, error)
	GetOrder(ctx context.Context, id string) (*entity.Order, error)
	// UpdateStatus moves an order along the status machine on behalf of actor.
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus, actor entity.Role) (*entity.Order, error)
	// CancelOrder cancels a pending order placed by customerID.
	CancelOrder(ctx context.Context, id, customerID string) (*entity.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}
