package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "emart/internal/delivery/context"
	"emart/internal/domain/entity"
	domainerrors "emart/internal/domain/errors"
	"emart/internal/domain/repository"
	"emart/internal/domain/service"
	"emart/internal/errors"
	"emart/internal/usecase"

	"go.uber.org/fx"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	eventBus    service.EventBus
	ids         *timestampIDs
	now         func() time.Time
	logger      *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	OrderRepo   repository.OrderRepository
	CartRepo    repository.CartRepository
	ProductRepo repository.ProductRepository
	EventBus    service.EventBus
	Logger      *slog.Logger
}

// NewOrderService creates the order service.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		orderRepo:   params.OrderRepo,
		cartRepo:    params.CartRepo,
		productRepo: params.ProductRepo,
		eventBus:    params.EventBus,
		ids:         &timestampIDs{},
		now:         time.Now,
		logger:      params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Checkout turns the cart into a pending order. The cart stays locked from the first read until it
// is cleared, so lines added concurrently wait for the checkout instead of being dropped. Stock is
// reserved before the order is stored and released again if the order cannot be saved.
func (srv *orderService) Checkout(ctx context.Context, input usecase.CheckoutInput) (*entity.Order, error) {
	if err := requireCartID(input.CartID); err != nil {
		return nil, err
	}

	var order *entity.Order
	_, err := srv.cartRepo.UpdateCart(ctx, input.CartID, func(cart *entity.Cart) error {
		if cart.IsEmpty() {
			return errors.Wrap(domainerrors.ErrCartEmpty, "cannot check out")
		}

		now := srv.now()
		placed, err := entity.NewOrder(srv.ids.next(now), now, input.Customer, cart.Items, input.TransactionID, input.Message)
		if err != nil {
			return errors.Wrap(domainerrors.ErrValidationFailed.WithDetails(err.Error()), "invalid order")
		}

		if err := srv.reserveStock(ctx, placed.Items); err != nil {
			return err
		}
		if err := srv.orderRepo.CreateOrder(ctx, placed); err != nil {
			srv.log(ctx).Error("Failed to create order", slog.String("orderID", placed.ID), slog.Any("error", err))
			if releaseErr := srv.releaseStock(ctx, placed.Items); releaseErr != nil {
				srv.log(ctx).Error("Failed to release reserved stock", slog.String("orderID", placed.ID), slog.Any("error", releaseErr))
			}

			return errors.Wrap(err, "failed to create order")
		}

		order = placed
		cart.Clear()

		return nil
	})
	if order == nil {
		return nil, err
	}
	if err != nil {
		srv.log(ctx).Error("Failed to clear cart after checkout", slog.String("cartID", input.CartID), slog.Any("error", err))
	}

	srv.log(ctx).Info("Order placed",
		slog.String("orderID", order.ID),
		slog.Int("items", order.ItemCount()),
		slog.Float64("total", order.Total),
	)
	publish(ctx, srv.eventBus, service.TopicOrdersUpdated, service.TopicProductUpdated, service.TopicCartUpdated)

	return order, nil
}

// reserveStock subtracts the ordered quantities in one write. Nothing changes if any product is
// missing or short.
func (srv *orderService) reserveStock(ctx context.Context, items []entity.CartItem) error {
	ordered := orderedQuantities(items)

	return srv.productRepo.UpdateProducts(ctx, func(products []*entity.Product) ([]*entity.Product, error) {
		found := 0
		for _, p := range products {
			qty, ok := ordered[p.ID]
			if !ok {
				continue
			}
			if p.Stock < qty {
				return nil, errors.Wrap(domainerrors.ErrOutOfStock.WithDetails(p.Name), "cannot reserve stock")
			}
			p.Stock -= qty
			found++
		}
		if found != len(ordered) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, "cannot reserve stock")
		}

		return products, nil
	})
}

func (srv *orderService) releaseStock(ctx context.Context, items []entity.CartItem) error {
	ordered := orderedQuantities(items)

	return srv.productRepo.UpdateProducts(ctx, func(products []*entity.Product) ([]*entity.Product, error) {
		for _, p := range products {
			p.Stock += ordered[p.ID]
		}

		return products, nil
	})
}

func orderedQuantities(items []entity.CartItem) map[string]int {
	ordered := make(map[string]int, len(items))
	for _, item := range items {
		ordered[item.Product.ID] += item.Quantity
	}

	return ordered
}

func (srv *orderService) ListOrders(ctx context.Context) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.ListOrders(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

func (srv *orderService) ListCustomerOrders(ctx context.Context, customerID string) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.ListOrdersByCustomer(ctx, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list customer orders")
	}

	return orders, nil
}

func (srv *orderService) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	order, err := srv.orderRepo.FindOrderByID(ctx, id)
	if err != nil {
		return nil, mapOrderError(err, "failed to find order")
	}

	return order, nil
}

func (srv *orderService) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus, actor entity.Role) (*entity.Order, error) {
	if !status.Valid() {
		return nil, errors.Wrap(domainerrors.ErrInvalidOrderStatus.WithDetails(string(status)), "invalid order status")
	}

	return srv.transition(ctx, id, status, actor, nil)
}

func (srv *orderService) CancelOrder(ctx context.Context, id, customerID string) (*entity.Order, error) {
	return srv.transition(ctx, id, entity.OrderStatusCancelled, entity.RoleCustomer, func(o *entity.Order) error {
		if !o.BelongsTo(customerID) {
			return errors.Wrap(domainerrors.ErrOrderOwnershipViolation, "cannot cancel order")
		}

		return nil
	})
}

func (srv *orderService) transition(
	ctx context.Context,
	id string,
	status entity.OrderStatus,
	actor entity.Role,
	guard func(*entity.Order) error,
) (*entity.Order, error) {
	var (
		changed bool
		from    entity.OrderStatus
	)

	order, err := srv.orderRepo.UpdateOrder(ctx, id, func(o *entity.Order) error {
		if guard != nil {
			if err := guard(o); err != nil {
				return err
			}
		}
		from = o.Status

		var err error
		changed, err = o.Transition(status, actor)

		return err
	})
	if err != nil {
		return nil, mapOrderError(err, "failed to update order status")
	}

	if changed {
		srv.log(ctx).Info("Order status changed",
			slog.String("orderID", id),
			slog.String("from", string(from)),
			slog.String("to", string(status)),
			slog.String("actor", string(actor)),
		)
		publish(ctx, srv.eventBus, service.TopicOrdersUpdated)
	}

	return order, nil
}

func (srv *orderService) DeleteOrder(ctx context.Context, id string) error {
	if err := srv.orderRepo.DeleteOrder(ctx, id); err != nil {
		return mapOrderError(err, "failed to delete order")
	}

	srv.log(ctx).Info("Order deleted", slog.String("orderID", id))
	publish(ctx, srv.eventBus, service.TopicOrdersUpdated)

	return nil
}

func mapOrderError(err error, message string) error {
	switch {
	case errors.Is(err, repository.ErrOrderNotFound):
		return errors.Wrap(domainerrors.ErrOrderNotFound, message)
	case errors.Is(err, entity.ErrStatusTransitionDenied):
		return errors.Wrap(domainerrors.ErrInvalidStatusTransition, message)
	case errors.Is(err, entity.ErrStatusTransitionByActor):
		return errors.Wrap(domainerrors.ErrForbidden.WithDetails(err.Error()), message)
	case errors.Is(err, entity.ErrInvalidOrderStatus):
		return errors.Wrap(domainerrors.ErrInvalidOrderStatus, message)
	default:
		return errors.Wrap(err, message)
	}
}
