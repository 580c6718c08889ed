package handler

import (
	"log/slog"
	"net/http"

	"emart/internal/delivery/api/response"
	deliverycontext "emart/internal/delivery/context"
	"emart/internal/domain/entity"
	domainerrors "emart/internal/domain/errors"
	"emart/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// OrderHandlerParams holds dependencies for OrderHandler, injected by Fx.
type OrderHandlerParams struct {
	fx.In

	OrderUC usecase.OrderUsecase
	Logger  *slog.Logger
}

// OrderHandler serves checkout and order tracking.
type OrderHandler struct {
	orderUC usecase.OrderUsecase
	logger  *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler
func NewOrderHandler(params OrderHandlerParams) *OrderHandler {
	return &OrderHandler{
		orderUC: params.OrderUC,
		logger:  params.Logger,
	}
}

// CheckoutRequest carries the shipping details and the eSewa transaction id.
type CheckoutRequest struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required"`
	Address       string `json:"address" validate:"required"`
	City          string `json:"city" validate:"required"`
	TransactionID string `json:"transactionId" validate:"required"`
	Message       string `json:"message"`
}

// StatusRequest moves an order to a new status.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Checkout turns the caller's cart into a pending order.
func (h *OrderHandler) Checkout(c echo.Context) error {
	id, err := cartID(c)
	if err != nil {
		return err
	}

	var req CheckoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	customer := entity.Customer{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
	}
	if p := deliverycontext.GetPrincipal(c); p.Has(entity.RoleCustomer) {
		customer.CustomerID = p.Subject
	}

	order, err := h.orderUC.Checkout(c.Request().Context(), usecase.CheckoutInput{
		CartID:        id,
		Customer:      customer,
		TransactionID: req.TransactionID,
		Message:       req.Message,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, order)
}

// GetOrder tracks one order. Guest orders are visible by id; a customer's order only to that customer and the owner.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	order, err := h.orderUC.GetOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if owner := order.Customer.CustomerID; owner != "" {
		p := deliverycontext.GetPrincipal(c)
		if !p.Has(entity.RoleOwner) && (p == nil || p.Subject != owner) {
			return domainerrors.ErrOrderOwnershipViolation
		}
	}

	return response.OK(c, order)
}

// CancelOrder lets a customer cancel their own pending order.
func (h *OrderHandler) CancelOrder(c echo.Context) error {
	userID, err := subject(c)
	if err != nil {
		return err
	}

	order, err := h.orderUC.CancelOrder(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, order)
}

// ListOrders returns every order for the owner dashboard.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	orders, err := h.orderUC.ListOrders(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, orders)
}

// UpdateStatus applies an owner status change.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req StatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orderUC.UpdateStatus(c.Request().Context(), c.Param("id"), entity.OrderStatus(req.Status), entity.RoleOwner)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, order)
}

// DeleteOrder removes an order in any state. The route is PIN-guarded.
func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	if err := h.orderUC.DeleteOrder(c.Request().Context(), c.Param("id")); err != nil {
		return response.HandleAppError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
