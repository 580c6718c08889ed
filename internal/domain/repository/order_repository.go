package repository

import (
	"context"

	"emart/internal/domain/entity"
	"emart/internal/errors"
)

// ErrOrderNotFound is returned when no order has the requested ID.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository stores all orders as one document.
type OrderRepository interface {
	ListOrders(ctx context.Context) ([]*entity.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID string) ([]*entity.Order, error)
	FindOrderByID(ctx context.Context, id string) (*entity.Order, error)
	CreateOrder(ctx context.Context, order *entity.Order) error
	UpdateOrder(ctx context.Context, id string, fn func(order *entity.Order) error) (*entity.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}
