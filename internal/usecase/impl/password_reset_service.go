package impl

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"emart/config"
	deliverycontext "emart/internal/delivery/context"
	"emart/internal/domain/entity"
	domainerrors "emart/internal/domain/errors"
	"emart/internal/domain/repository"
	"emart/internal/domain/service"
	"emart/internal/errors"
	"emart/internal/usecase"

	"go.uber.org/fx"
)

const (
	resetCodeDigits     = 6
	defaultResetCodeTTL = 15 * time.Minute
	resetEmailSubject   = "Your Nepal E-Mart password reset code"
)

// passwordResetService implements the PasswordResetUsecase interface.
type passwordResetService struct {
	userRepo  repository.UserRepository
	resetRepo repository.PasswordResetRepository
	hasher    service.PasswordHasher
	generator service.TextGenerator
	mailer    service.Mailer
	codeTTL   time.Duration
	newCode   func() (string, error)
	now       func() time.Time
	logger    *slog.Logger
}

// PasswordResetServiceParams holds dependencies for PasswordResetService, injected by Fx.
type PasswordResetServiceParams struct {
	fx.In

	UserRepo  repository.UserRepository
	ResetRepo repository.PasswordResetRepository
	Hasher    service.PasswordHasher
	Generator service.TextGenerator
	Mailer    service.Mailer
	Config    *config.Config
	Logger    *slog.Logger
}

// NewPasswordResetService creates the password reset service.
func NewPasswordResetService(params PasswordResetServiceParams) usecase.PasswordResetUsecase {
	ttl := defaultResetCodeTTL
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.ResetCodeTTL > 0 {
		ttl = params.Config.Auth.ResetCodeTTL
	}

	return &passwordResetService{
		userRepo:  params.UserRepo,
		resetRepo: params.ResetRepo,
		hasher:    params.Hasher,
		generator: params.Generator,
		mailer:    params.Mailer,
		codeTTL:   ttl,
		newCode:   randomResetCode,
		now:       time.Now,
		logger:    params.Logger,
	}
}

func (srv *passwordResetService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *passwordResetService) RequestReset(ctx context.Context, email string) error {
	user, err := srv.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Info("Password reset requested for unknown email", slog.String("email", email))

			return nil
		}

		return errors.Wrap(err, "failed to load user for password reset")
	}

	code, err := srv.newCode()
	if err != nil {
		return errors.Wrap(err, "failed to generate reset code")
	}

	codeHash, err := srv.hasher.Hash(code)
	if err != nil {
		return errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash reset code")
	}

	reset := &entity.PasswordReset{
		Email:     entity.NormalizeEmail(user.Email),
		CodeHash:  codeHash,
		ExpiresAt: srv.now().Add(srv.codeTTL),
	}
	if err := srv.resetRepo.SavePasswordReset(ctx, reset); err != nil {
		return errors.Wrap(err, "failed to save password reset")
	}

	message := srv.composeEmail(ctx, user, code)
	if err := srv.mailer.Send(ctx, user.Email, message.EmailSubject, message.EmailBody); err != nil {
		srv.log(ctx).Error("Failed to send password reset email", slog.String("email", user.Email), slog.Any("error", err))

		return errors.Wrap(err, "failed to send password reset email")
	}

	srv.log(ctx).Info("Password reset code sent", slog.String("userID", user.ID))

	return nil
}

// composeEmail asks the model for the email copy and falls back to a fixed template
// when the call fails or the reply does not carry the code.
func (srv *passwordResetService) composeEmail(ctx context.Context, user *entity.User, code string) entity.PasswordResetEmail {
	var generated entity.PasswordResetEmail
	err := srv.generator.GenerateJSON(ctx, resetEmailPrompt(user, code), &generated)
	if err == nil && strings.TrimSpace(generated.EmailSubject) != "" && strings.Contains(generated.EmailBody, code) {
		generated.ResetCode = code

		return generated
	}

	srv.log(ctx).Warn("Using template password reset email", slog.Any("error", err))

	return fallbackResetEmail(user, code)
}

func resetEmailPrompt(user *entity.User, code string) string {
	return fmt.Sprintf(`Write a short, friendly password reset email for a customer of Nepal E-Mart, an online store.
Customer name: %s
Customer email: %s
Reset code: %s
The email body must contain the reset code exactly as given and say it expires in 15 minutes.
Reply with JSON only: {"resetCode": "%s", "emailSubject": string, "emailBody": string}`,
		user.Name, user.Email, code, code)
}

func fallbackResetEmail(user *entity.User, code string) entity.PasswordResetEmail {
	return entity.PasswordResetEmail{
		ResetCode:    code,
		EmailSubject: resetEmailSubject,
		EmailBody: fmt.Sprintf("Hello %s,\n\nUse the code %s to reset your Nepal E-Mart password. "+
			"The code expires in 15 minutes.\n\nIf you did not ask for a reset, you can ignore this email.\n",
			user.Name, code),
	}
}

func (srv *passwordResetService) ConfirmReset(ctx context.Context, input usecase.ConfirmPasswordResetInput) error {
	email := entity.NormalizeEmail(input.Email)

	reset, err := srv.resetRepo.FindPasswordReset(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrPasswordResetNotFound) {
			return errors.Wrap(domainerrors.ErrInvalidResetCode, "no reset pending")
		}

		return errors.Wrap(err, "failed to load password reset")
	}

	if reset.Expired(srv.now()) {
		srv.dropReset(ctx, email)

		return errors.Wrap(domainerrors.ErrInvalidResetCode, "reset code expired")
	}
	if !srv.hasher.Check(strings.TrimSpace(input.Code), reset.CodeHash) {
		srv.log(ctx).Warn("Wrong password reset code", slog.String("email", email))

		return errors.Wrap(domainerrors.ErrInvalidResetCode, "reset code mismatch")
	}

	user, err := srv.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		return mapUserError(err, "failed to load user for password reset")
	}

	hashedPassword, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash new password")
	}

	if _, err := srv.userRepo.UpdateUser(ctx, user.ID, func(user *entity.User) error {
		user.PasswordHash = hashedPassword
		user.UpdatedAt = srv.now()

		return nil
	}); err != nil {
		return mapUserError(err, "failed to save new password")
	}

	srv.dropReset(ctx, email)
	srv.log(ctx).Info("Password reset completed", slog.String("userID", user.ID))

	return nil
}

func (srv *passwordResetService) dropReset(ctx context.Context, email string) {
	if err := srv.resetRepo.DeletePasswordReset(ctx, email); err != nil {
		srv.log(ctx).Warn("Failed to delete password reset", slog.String("email", email), slog.Any("error", err))
	}
}

// randomResetCode returns a uniformly distributed zero-padded six digit code.
func randomResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", errors.WithStack(err)
	}

	return fmt.Sprintf("%0*d", resetCodeDigits, n.Int64()), nil
}
