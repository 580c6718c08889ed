package repository

import (
	"context"

	"emart/internal/domain/entity"
	"emart/internal/errors"
)

// ErrContactMessageNotFound is returned when no contact message has the requested ID.
var ErrContactMessageNotFound = errors.New("contact message not found")

// ContactMessageRepository stores contact form submissions.
type ContactMessageRepository interface {
	ListContactMessages(ctx context.Context) ([]*entity.ContactMessage, error)
	CreateContactMessage(ctx context.Context, msg *entity.ContactMessage) error
	UpdateContactMessage(ctx context.Context, id string, fn func(msg *entity.ContactMessage) error) (*entity.ContactMessage, error)
	DeleteContactMessage(ctx context.Context, id string) error
}
