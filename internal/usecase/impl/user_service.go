// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "emart/internal/delivery/context"
	"emart/internal/domain/entity"
	domainerrors "emart/internal/domain/errors"
	"emart/internal/domain/repository"
	"emart/internal/domain/service"
	"emart/internal/errors"
	"emart/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	now          func() time.Time
	logger       *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		now:          time.Now,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RegisterUser creates a customer account and logs it in.
func (srv *userService) RegisterUser(ctx context.Context, input usecase.RegisterUserInput) (*usecase.LoginOutput, error) {
	email := entity.NormalizeEmail(input.Email)
	srv.log(ctx).Info("Starting registration", slog.String("email", email))

	now := srv.now()
	newUser := &entity.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(input.Name),
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := newUser.Validate(); err != nil {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails(err.Error()), "invalid registration")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash password during registration")
	}
	newUser.PasswordHash = hashedPassword

	if err := srv.userRepo.CreateUser(ctx, newUser); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			srv.log(ctx).Warn("Registration with existing email", slog.String("email", email))

			return nil, errors.Wrap(domainerrors.ErrUserAlreadyExists, "registration failed")
		}

		return nil, errors.Wrap(err, "failed to create user during registration")
	}

	srv.log(ctx).Debug("Registration completed", slog.String("userID", newUser.ID))

	return srv.issueToken(newUser)
}

// Login checks the email and password of a customer.
func (srv *userService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting user login", slog.String("email", input.Email))

	user, err := srv.userRepo.FindUserByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", err))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to load user for login")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	srv.log(ctx).Debug("User logged in successfully", slog.String("userID", user.ID))

	return srv.issueToken(user)
}

func (srv *userService) issueToken(user *entity.User) (*usecase.LoginOutput, error) {
	accessToken, err := srv.tokenService.GenerateAccessToken(user.ID, []string{string(entity.RoleCustomer)})
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	return &usecase.LoginOutput{AccessToken: accessToken, User: user}, nil
}

func (srv *userService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	user, err := srv.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, mapUserError(err, "failed to load profile")
	}

	return user, nil
}

func (srv *userService) UpdateProfile(ctx context.Context, userID string, input usecase.UpdateProfileInput) (*entity.User, error) {
	user, err := srv.userRepo.UpdateUser(ctx, userID, func(user *entity.User) error {
		if input.Name != nil {
			user.Name = strings.TrimSpace(*input.Name)
		}
		if input.Avatar != nil {
			user.Avatar = strings.TrimSpace(*input.Avatar)
		}
		user.UpdatedAt = srv.now()

		if err := user.Validate(); err != nil {
			return errors.Wrap(domainerrors.ErrValidationFailed.WithDetails(err.Error()), "invalid profile")
		}

		return nil
	})
	if err != nil {
		return nil, mapUserError(err, "failed to update profile")
	}

	return user, nil
}

func (srv *userService) ChangePassword(ctx context.Context, userID string, input usecase.ChangePasswordInput) error {
	user, err := srv.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return mapUserError(err, "failed to load user")
	}
	if !srv.hasher.Check(input.CurrentPassword, user.PasswordHash) {
		srv.log(ctx).Warn("Password change with wrong current password", slog.String("userID", userID))

		return errors.Wrap(domainerrors.ErrInvalidCredentials, "password change failed")
	}

	hashedPassword, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash new password")
	}

	if _, err := srv.userRepo.UpdateUser(ctx, userID, func(user *entity.User) error {
		user.PasswordHash = hashedPassword
		user.UpdatedAt = srv.now()

		return nil
	}); err != nil {
		return mapUserError(err, "failed to save new password")
	}

	srv.log(ctx).Info("Password changed", slog.String("userID", userID))

	return nil
}

func mapUserError(err error, message string) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return errors.Wrap(domainerrors.ErrUserNotFound, message)
	}

	return errors.Wrap(err, message)
}
