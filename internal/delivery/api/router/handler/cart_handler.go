package handler

import (
	"log/slog"

	"emart/internal/delivery/api/response"
	"emart/internal/domain/entity"
	"emart/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CartHandlerParams holds dependencies for CartHandler, injected by Fx.
type CartHandlerParams struct {
	fx.In

	CartUC usecase.CartUsecase
	Logger *slog.Logger
}

// CartHandler serves the caller's cart, addressed by cartID.
type CartHandler struct {
	cartUC usecase.CartUsecase
	logger *slog.Logger
}

// NewCartHandler is the constructor for CartHandler
func NewCartHandler(params CartHandlerParams) *CartHandler {
	return &CartHandler{
		cartUC: params.CartUC,
		logger: params.Logger,
	}
}

// CartLineRequest identifies a cart line. Size and color may be empty.
type CartLineRequest struct {
	ProductID string `json:"productId" query:"productId" validate:"required"`
	Size      string `json:"size" query:"size"`
	Color     string `json:"color" query:"color"`
}

func (r CartLineRequest) key() entity.CartKey {
	return entity.CartKey{ProductID: r.ProductID, Size: r.Size, Color: r.Color}
}

// UpdateQuantityRequest sets a line's quantity. Zero or less removes the line.
type UpdateQuantityRequest struct {
	CartLineRequest
	Quantity int `json:"quantity"`
}

// GetCart returns the cart with its totals.
func (h *CartHandler) GetCart(c echo.Context) error {
	id, err := cartID(c)
	if err != nil {
		return err
	}

	cart, err := h.cartUC.GetCart(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, cart)
}

// AddItem adds one unit of a product variant.
func (h *CartHandler) AddItem(c echo.Context) error {
	id, err := cartID(c)
	if err != nil {
		return err
	}

	var req CartLineRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cart, err := h.cartUC.AddItem(c.Request().Context(), id, req.ProductID, req.Size, req.Color)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, cart)
}

// UpdateQuantity sets the quantity of a line.
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	id, err := cartID(c)
	if err != nil {
		return err
	}

	var req UpdateQuantityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cart, err := h.cartUC.UpdateQuantity(c.Request().Context(), id, req.key(), req.Quantity)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, cart)
}

// RemoveItem drops the line named by the productId, size and color query parameters.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	id, err := cartID(c)
	if err != nil {
		return err
	}

	var req CartLineRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cart, err := h.cartUC.RemoveItem(c.Request().Context(), id, req.key())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, cart)
}

// ClearCart empties the cart.
func (h *CartHandler) ClearCart(c echo.Context) error {
	id, err := cartID(c)
	if err != nil {
		return err
	}

	cart, err := h.cartUC.ClearCart(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, cart)
}
