package impl

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	deliverycontext "emart/internal/delivery/context"
	"emart/internal/domain/entity"
	domainerrors "emart/internal/domain/errors"
	"emart/internal/domain/repository"
	"emart/internal/domain/service"
	"emart/internal/errors"
	"emart/internal/usecase"

	"go.uber.org/fx"
)

// cartService implements the CartUsecase interface.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	eventBus    service.EventBus
	logger      *slog.Logger
}

// CartServiceParams holds dependencies for CartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	CartRepo    repository.CartRepository
	ProductRepo repository.ProductRepository
	EventBus    service.EventBus
	Logger      *slog.Logger
}

// NewCartService creates the cart service.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	return &cartService{
		cartRepo:    params.CartRepo,
		productRepo: params.ProductRepo,
		eventBus:    params.EventBus,
		logger:      params.Logger,
	}
}

func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *cartService) GetCart(ctx context.Context, cartID string) (*usecase.CartView, error) {
	if err := requireCartID(cartID); err != nil {
		return nil, err
	}

	cart, err := srv.cartRepo.GetCart(ctx, cartID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cart")
	}

	return usecase.NewCartView(cart), nil
}

func (srv *cartService) AddItem(ctx context.Context, cartID, productID, size, color string) (*usecase.CartView, error) {
	if err := requireCartID(cartID); err != nil {
		return nil, err
	}

	product, err := srv.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, mapProductError(err, "failed to find product")
	}
	if !product.InStock() {
		return nil, errors.Wrap(domainerrors.ErrOutOfStock, "cannot add item")
	}
	if err := checkOption(product.Sizes, size, "size"); err != nil {
		return nil, err
	}
	if err := checkOption(product.Colors, color, "color"); err != nil {
		return nil, err
	}

	limit := product.MaxCartQuantity()
	cart, err := srv.cartRepo.UpdateCart(ctx, cartID, func(cart *entity.Cart) error {
		if cart.QuantityOf(product.ID) >= limit {
			return errors.Wrap(domainerrors.ErrCartLimitReached, "cannot add item")
		}
		cart.AddItem(entity.SnapshotOf(product), size, color)

		return nil
	})

	return srv.result(ctx, cartID, cart, err)
}

func (srv *cartService) UpdateQuantity(ctx context.Context, cartID string, key entity.CartKey, quantity int) (*usecase.CartView, error) {
	if err := requireCartID(cartID); err != nil {
		return nil, err
	}

	if quantity < 1 {
		cart, err := srv.cartRepo.UpdateCart(ctx, cartID, func(cart *entity.Cart) error {
			return cart.UpdateQuantity(key, quantity)
		})

		return srv.result(ctx, cartID, cart, err)
	}

	product, err := srv.productRepo.FindProductByID(ctx, key.ProductID)
	if err != nil {
		return nil, mapProductError(err, "failed to find product")
	}

	limit := product.MaxCartQuantity()
	cart, err := srv.cartRepo.UpdateCart(ctx, cartID, func(cart *entity.Cart) error {
		line, ok := cart.Find(key)
		if !ok {
			return entity.ErrCartItemMissing
		}

		// Other sizes and colors of the same product share the limit.
		allowed := limit - (cart.QuantityOf(key.ProductID) - line.Quantity)
		if allowed < 1 {
			return errors.Wrap(domainerrors.ErrCartLimitReached, "cannot update quantity")
		}

		return cart.UpdateQuantity(key, min(quantity, allowed))
	})

	return srv.result(ctx, cartID, cart, err)
}

func (srv *cartService) RemoveItem(ctx context.Context, cartID string, key entity.CartKey) (*usecase.CartView, error) {
	if err := requireCartID(cartID); err != nil {
		return nil, err
	}

	cart, err := srv.cartRepo.UpdateCart(ctx, cartID, func(cart *entity.Cart) error {
		return cart.RemoveItem(key)
	})

	return srv.result(ctx, cartID, cart, err)
}

func (srv *cartService) ClearCart(ctx context.Context, cartID string) (*usecase.CartView, error) {
	if err := requireCartID(cartID); err != nil {
		return nil, err
	}

	if err := srv.cartRepo.DeleteCart(ctx, cartID); err != nil {
		srv.log(ctx).Error("Failed to clear cart, continuing", slog.String("cartID", cartID), slog.Any("error", err))
	} else {
		publish(ctx, srv.eventBus, service.TopicCartUpdated)
	}

	return usecase.NewCartView(entity.NewCart(nil)), nil
}

// result reports a cart mutation. A cart that changed but could not be saved is still returned.
func (srv *cartService) result(ctx context.Context, cartID string, cart *entity.Cart, err error) (*usecase.CartView, error) {
	if err != nil && cart != nil && errors.Is(err, repository.ErrStoreWrite) {
		srv.log(ctx).Error("Failed to save cart, continuing with unsaved cart", slog.String("cartID", cartID), slog.Any("error", err))

		return usecase.NewCartView(cart), nil
	}
	if err != nil {
		if errors.Is(err, entity.ErrCartItemMissing) {
			return nil, errors.Wrap(domainerrors.ErrCartItemNotFound, "failed to update cart")
		}

		return nil, errors.Wrap(err, "failed to update cart")
	}

	publish(ctx, srv.eventBus, service.TopicCartUpdated)

	return usecase.NewCartView(cart), nil
}

func requireCartID(cartID string) error {
	if strings.TrimSpace(cartID) == "" {
		return errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("cart id is required"), "missing cart id")
	}

	return nil
}

// checkOption accepts an empty choice or one of the offered options.
func checkOption(options []string, choice, name string) error {
	if choice == "" || len(options) == 0 || slices.Contains(options, choice) {
		return nil
	}

	return errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("unknown "+name+" "+choice), "invalid cart item")
}
