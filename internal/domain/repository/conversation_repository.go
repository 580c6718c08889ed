package repository

import (
	"context"

	"emart/internal/domain/entity"
	"emart/internal/errors"
)

// ErrConversationNotFound is returned when a customer has no conversation yet.
var ErrConversationNotFound = errors.New("conversation not found")

// ConversationRepository stores chat threads, one per customer.
type ConversationRepository interface {
	ListConversations(ctx context.Context) ([]*entity.Conversation, error)
	FindConversation(ctx context.Context, customerID string) (*entity.Conversation, error)

	// UpdateConversation applies fn to an existing conversation.
	UpdateConversation(ctx context.Context, customerID string, fn func(conv *entity.Conversation) error) (*entity.Conversation, error)

	// UpsertConversation applies fn to the conversation, creating it first when missing.
	UpsertConversation(ctx context.Context, customerID, customerName string, fn func(conv *entity.Conversation) error) (*entity.Conversation, error)
}
