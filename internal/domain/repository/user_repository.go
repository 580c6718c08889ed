package repository

import (
	"context"

	"emart/internal/domain/entity"
	"emart/internal/errors"
)

// Domain-specific errors for user persistence.
var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateUser is returned when the email is already registered.
	ErrDuplicateUser = errors.New("user already exists")
)

// UserRepository stores customer accounts.
type UserRepository interface {
	FindUserByID(ctx context.Context, id string) (*entity.User, error)

	// FindUserByEmail matches the email ignoring case.
	FindUserByEmail(ctx context.Context, email string) (*entity.User, error)

	// CreateUser persists a new account, rejecting an email already in use.
	CreateUser(ctx context.Context, user *entity.User) error

	UpdateUser(ctx context.Context, id string, fn func(user *entity.User) error) (*entity.User, error)
}
