package usecase

import (
	"context"

	"emart/internal/domain/entity"
)

// ContactInput is a contact form submission.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ContactUsecase stores contact form messages for the owner.
type ContactUsecase interface {
	Submit(ctx context.Context, input ContactInput) (*entity.ContactMessage, error)
	// ListMessages returns messages newest first.
	ListMessages(ctx context.Context) ([]*entity.ContactMessage, error)
	MarkRead(ctx context.Context, id string) (*entity.ContactMessage, error)
	DeleteMessage(ctx context.Context, id string) error
}
