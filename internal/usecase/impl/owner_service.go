package impl

import (
	"context"
	"log/slog"

	"emart/config"
	deliverycontext "emart/internal/delivery/context"
	"emart/internal/domain/entity"
	domainerrors "emart/internal/domain/errors"
	"emart/internal/domain/service"
	"emart/internal/errors"
	"emart/internal/usecase"

	"go.uber.org/fx"
)

// ownerSubject is the token subject of the store owner.
const ownerSubject = "owner"

// ownerService implements the OwnerUsecase interface against the configured owner account.
type ownerService struct {
	owner        config.OwnerConfig
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// OwnerServiceParams holds dependencies for OwnerService, injected by Fx.
type OwnerServiceParams struct {
	fx.In

	Config       *config.Config
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewOwnerService creates the owner service.
func NewOwnerService(params OwnerServiceParams) usecase.OwnerUsecase {
	var owner config.OwnerConfig
	if params.Config != nil && params.Config.Owner != nil {
		owner = *params.Config.Owner
	}

	return &ownerService{
		owner:        owner,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

func (srv *ownerService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *ownerService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.OwnerLoginOutput, error) {
	if srv.owner.PasswordHash == "" {
		srv.log(ctx).Warn("Owner login attempted but no owner password is configured")

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "owner login failed")
	}
	if entity.NormalizeEmail(input.Email) != entity.NormalizeEmail(srv.owner.Email) ||
		!srv.hasher.Check(input.Password, srv.owner.PasswordHash) {
		srv.log(ctx).Warn("Owner login failed", slog.String("email", input.Email))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "owner login failed")
	}

	accessToken, err := srv.tokenService.GenerateAccessToken(ownerSubject, []string{string(entity.RoleOwner)})
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate owner token")
	}

	srv.log(ctx).Info("Owner logged in")

	return &usecase.OwnerLoginOutput{
		AccessToken: accessToken,
		Name:        srv.owner.Name,
		Email:       srv.owner.Email,
	}, nil
}

func (srv *ownerService) VerifyPIN(ctx context.Context, pin string) error {
	if srv.owner.PINHash == "" || pin == "" || !srv.hasher.Check(pin, srv.owner.PINHash) {
		srv.log(ctx).Warn("Owner PIN rejected")

		return errors.Wrap(domainerrors.ErrInvalidPIN, "pin verification failed")
	}

	return nil
}
