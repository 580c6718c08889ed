package handler

import (
	"log/slog"
	"net/http"

	"emart/internal/delivery/api/response"
	"emart/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ChatHandlerParams holds dependencies for ChatHandler, injected by Fx.
type ChatHandlerParams struct {
	fx.In

	ChatUC usecase.ChatUsecase
	UserUC usecase.UserUsecase
	Logger *slog.Logger
}

// ChatHandler serves both sides of the customer/owner chat.
type ChatHandler struct {
	chatUC usecase.ChatUsecase
	userUC usecase.UserUsecase
	logger *slog.Logger
}

// NewChatHandler is the constructor for ChatHandler
func NewChatHandler(params ChatHandlerParams) *ChatHandler {
	return &ChatHandler{
		chatUC: params.ChatUC,
		userUC: params.UserUC,
		logger: params.Logger,
	}
}

// ChatMessageRequest is one message.
type ChatMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

// PrefillRequest is the draft pushed into the customer's chat input.
type PrefillRequest struct {
	Message string `json:"message" validate:"required"`
}

// GetConversation returns the caller's thread and marks the owner's replies read.
func (h *ChatHandler) GetConversation(c echo.Context) error {
	userID, err := subject(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.userUC.GetProfile(ctx, userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	conv, err := h.chatUC.GetConversation(ctx, userID, user.Name)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, conv)
}

// SendMessage posts a customer message to the owner.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	userID, err := subject(c)
	if err != nil {
		return err
	}

	var req ChatMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.userUC.GetProfile(ctx, userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	conv, err := h.chatUC.SendCustomerMessage(ctx, userID, user.Name, req.Text)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, conv)
}

// PrefillChat asks the caller's open storefronts to prefill their chat input.
func (h *ChatHandler) PrefillChat(c echo.Context) error {
	customerID, err := subject(c)
	if err != nil {
		return err
	}

	var req PrefillRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.chatUC.PrefillChat(c.Request().Context(), customerID, req.Message); err != nil {
		return response.HandleAppError(c, err)
	}

	return c.NoContent(http.StatusAccepted)
}

// ListConversations returns the owner's inbox, newest first.
func (h *ChatHandler) ListConversations(c echo.Context) error {
	summaries, err := h.chatUC.ListConversations(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, summaries)
}

// OpenConversation returns a thread and marks the customer's messages read.
func (h *ChatHandler) OpenConversation(c echo.Context) error {
	conv, err := h.chatUC.OpenConversation(c.Request().Context(), c.Param("customerId"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, conv)
}

// Reply posts an owner message to a thread.
func (h *ChatHandler) Reply(c echo.Context) error {
	var req ChatMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	conv, err := h.chatUC.Reply(c.Request().Context(), c.Param("customerId"), req.Text)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, conv)
}
