package handler

import (
	"log/slog"
	"net/http"

	"emart/internal/delivery/api/response"
	"emart/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ContactHandlerParams holds dependencies for ContactHandler, injected by Fx.
type ContactHandlerParams struct {
	fx.In

	ContactUC usecase.ContactUsecase
	Logger    *slog.Logger
}

// ContactHandler serves the contact form and the owner's message inbox.
type ContactHandler struct {
	contactUC usecase.ContactUsecase
	logger    *slog.Logger
}

// NewContactHandler is the constructor for ContactHandler
func NewContactHandler(params ContactHandlerParams) *ContactHandler {
	return &ContactHandler{
		contactUC: params.ContactUC,
		logger:    params.Logger,
	}
}

// ContactRequest is a contact form submission.
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// Submit stores a contact form message.
func (h *ContactHandler) Submit(c echo.Context) error {
	var req ContactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	msg, err := h.contactUC.Submit(c.Request().Context(), usecase.ContactInput(req))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, msg)
}

// ListMessages returns the inbox, newest first.
func (h *ContactHandler) ListMessages(c echo.Context) error {
	messages, err := h.contactUC.ListMessages(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, messages)
}

// MarkRead flags a message as read.
func (h *ContactHandler) MarkRead(c echo.Context) error {
	msg, err := h.contactUC.MarkRead(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, msg)
}

// DeleteMessage removes a message.
func (h *ContactHandler) DeleteMessage(c echo.Context) error {
	if err := h.contactUC.DeleteMessage(c.Request().Context(), c.Param("id")); err != nil {
		return response.HandleAppError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
