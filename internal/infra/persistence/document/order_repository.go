package document

import (
	"context"
	"slices"

	"emart/internal/domain/constants"
	"emart/internal/domain/entity"
	"emart/internal/domain/repository"
)

type orderRepository struct {
	store *Store
}

// NewOrderRepository stores all orders under the "orders" key.
func NewOrderRepository(store *Store) repository.OrderRepository {
	return &orderRepository{store: store}
}

func emptyOrders() []*entity.Order {
	return []*entity.Order{}
}

func (r *orderRepository) ListOrders(ctx context.Context) ([]*entity.Order, error) {
	orders, _, err := read(ctx, r.store, constants.KeyOrders, emptyOrders)

	return orders, err
}

func (r *orderRepository) ListOrdersByCustomer(ctx context.Context, customerID string) ([]*entity.Order, error) {
	orders, err := r.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	return slices.DeleteFunc(orders, func(o *entity.Order) bool {
		return !o.BelongsTo(customerID)
	}), nil
}

func (r *orderRepository) FindOrderByID(ctx context.Context, id string) (*entity.Order, error) {
	orders, err := r.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	idx := orderIndex(orders, id)
	if idx < 0 {
		return nil, repository.ErrOrderNotFound
	}

	return orders[idx], nil
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *entity.Order) error {
	_, err := update(ctx, r.store, constants.KeyOrders, emptyOrders, func(orders []*entity.Order) ([]*entity.Order, error) {
		return append(orders, order), nil
	})

	return err
}

func (r *orderRepository) UpdateOrder(ctx context.Context, id string, fn func(order *entity.Order) error) (*entity.Order, error) {
	var updated *entity.Order

	_, err := update(ctx, r.store, constants.KeyOrders, emptyOrders, func(orders []*entity.Order) ([]*entity.Order, error) {
		idx := orderIndex(orders, id)
		if idx < 0 {
			return nil, repository.ErrOrderNotFound
		}
		if err := fn(orders[idx]); err != nil {
			return nil, err
		}
		updated = orders[idx]

		return orders, nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *orderRepository) DeleteOrder(ctx context.Context, id string) error {
	_, err := update(ctx, r.store, constants.KeyOrders, emptyOrders, func(orders []*entity.Order) ([]*entity.Order, error) {
		idx := orderIndex(orders, id)
		if idx < 0 {
			return nil, repository.ErrOrderNotFound
		}

		return slices.Delete(orders, idx, idx+1), nil
	})

	return err
}

func orderIndex(orders []*entity.Order, id string) int {
	return slices.IndexFunc(orders, func(o *entity.Order) bool {
		return o.ID == id
	})
}
