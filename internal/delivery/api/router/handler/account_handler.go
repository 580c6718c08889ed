package handler

import (
	"log/slog"

	"emart/internal/delivery/api/response"
	"emart/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AccountHandlerParams holds dependencies for AccountHandler, injected by Fx.
type AccountHandlerParams struct {
	fx.In

	UserUC  usecase.UserUsecase
	OrderUC usecase.OrderUsecase
	Logger  *slog.Logger
}

// AccountHandler serves the logged-in customer's own resources.
type AccountHandler struct {
	userUC  usecase.UserUsecase
	orderUC usecase.OrderUsecase
	logger  *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler
func NewAccountHandler(params AccountHandlerParams) *AccountHandler {
	return &AccountHandler{
		userUC:  params.UserUC,
		orderUC: params.OrderUC,
		logger:  params.Logger,
	}
}

// UpdateProfileRequest changes only the fields that are present.
type UpdateProfileRequest struct {
	Name   *string `json:"name" validate:"omitnil,min=1"`
	Avatar *string `json:"avatar"`
}

// ChangePasswordRequest requires the current password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

// GetProfile returns the caller's account.
func (h *AccountHandler) GetProfile(c echo.Context) error {
	userID, err := subject(c)
	if err != nil {
		return err
	}

	user, err := h.userUC.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, newUserResponse(user))
}

// UpdateProfile edits name and avatar.
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	userID, err := subject(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userUC.UpdateProfile(c.Request().Context(), userID, usecase.UpdateProfileInput{
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, newUserResponse(user))
}

// ChangePassword replaces the caller's password.
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	userID, err := subject(c)
	if err != nil {
		return err
	}

	var req ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err = h.userUC.ChangePassword(c.Request().Context(), userID, usecase.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, messageResponse{Message: "Password updated"})
}

// ListOrders returns the caller's order history.
func (h *AccountHandler) ListOrders(c echo.Context) error {
	userID, err := subject(c)
	if err != nil {
		return err
	}

	orders, err := h.orderUC.ListCustomerOrders(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, orders)
}
