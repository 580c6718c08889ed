package handler

import (
	"log/slog"
	"time"

	"emart/internal/delivery/api/response"
	"emart/internal/domain/entity"
	"emart/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	UserUC          usecase.UserUsecase
	OwnerUC         usecase.OwnerUsecase
	PasswordResetUC usecase.PasswordResetUsecase
	Logger          *slog.Logger
}

// AuthHandler serves registration, login and password reset.
type AuthHandler struct {
	userUC          usecase.UserUsecase
	ownerUC         usecase.OwnerUsecase
	passwordResetUC usecase.PasswordResetUsecase
	logger          *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		userUC:          params.UserUC,
		ownerUC:         params.OwnerUC,
		passwordResetUC: params.PasswordResetUC,
		logger:          params.Logger,
	}
}

// RegisterRequest is the customer sign-up body.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest is shared by customer and owner login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// PasswordResetRequest starts a reset.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ConfirmPasswordResetRequest completes a reset with the emailed code.
type ConfirmPasswordResetRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
}

// UserResponse is the public view of an account. The password hash never leaves the server.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserResponse(u *entity.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}

// AuthResponse carries an access token and the account it belongs to.
type AuthResponse struct {
	AccessToken string        `json:"accessToken"`
	User        *UserResponse `json:"user"`
}

// OwnerAuthResponse is returned by owner login.
type OwnerAuthResponse struct {
	AccessToken string `json:"accessToken"`
	Name        string `json:"name"`
	Email       string `json:"email"`
}

// Register creates a customer account and logs it in.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.userUC.RegisterUser(c.Request().Context(), usecase.RegisterUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, AuthResponse{AccessToken: out.AccessToken, User: newUserResponse(out.User)})
}

// Login authenticates a customer.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.userUC.Login(c.Request().Context(), usecase.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, AuthResponse{AccessToken: out.AccessToken, User: newUserResponse(out.User)})
}

// OwnerLogin authenticates the store owner.
func (h *AuthHandler) OwnerLogin(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.ownerUC.Login(c.Request().Context(), usecase.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, OwnerAuthResponse{AccessToken: out.AccessToken, Name: out.Name, Email: out.Email})
}

// RequestPasswordReset always answers the same way so that registered emails cannot be discovered.
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req PasswordResetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.passwordResetUC.RequestReset(c.Request().Context(), req.Email); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, messageResponse{Message: "If the email is registered, a reset code has been sent"})
}

// ConfirmPasswordReset sets a new password using the emailed code.
func (h *AuthHandler) ConfirmPasswordReset(c echo.Context) error {
	var req ConfirmPasswordResetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err := h.passwordResetUC.ConfirmReset(c.Request().Context(), usecase.ConfirmPasswordResetInput{
		Email:       req.Email,
		Code:        req.Code,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, messageResponse{Message: "Password updated"})
}
