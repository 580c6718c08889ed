package repository

import (
	"context"

	"emart/internal/domain/entity"
	"emart/internal/errors"
)

// ErrPasswordResetNotFound is returned when no reset is pending for an email.
var ErrPasswordResetNotFound = errors.New("password reset not found")

// PasswordResetRepository stores pending reset requests keyed by normalized email.
type PasswordResetRepository interface {
	SavePasswordReset(ctx context.Context, reset *entity.PasswordReset) error
	FindPasswordReset(ctx context.Context, email string) (*entity.PasswordReset, error)
	DeletePasswordReset(ctx context.Context, email string) error
}
