package usecase

import (
	"context"
	"time"

	"emart/internal/domain/entity"
)

// ConversationSummary is one row of the owner's inbox.
type ConversationSummary struct {
	CustomerID   string    `json:"customerId"`
	CustomerName string    `json:"customerName"`
	LastMessage  string    `json:"lastMessage"`
	LastActivity time.Time `json:"lastActivity"`
	UnreadCount  int       `json:"unreadCount"`
}

// ChatUsecase is the customer/owner messaging channel.
type ChatUsecase interface {
	// GetConversation opens the customer's thread, marking owner messages read. A customer
	// without messages gets an empty thread.
	GetConversation(ctx context.Context, customerID, customerName string) (*entity.Conversation, error)
	SendCustomerMessage(ctx context.Context, customerID, customerName, text string) (*entity.Conversation, error)
	// ListConversations returns the owner's inbox, most recent activity first.
	ListConversations(ctx context.Context) ([]ConversationSummary, error)
	// OpenConversation opens a thread for the owner, marking customer messages read.
	OpenConversation(ctx context.Context, customerID string) (*entity.Conversation, error)
	Reply(ctx context.Context, customerID, text string) (*entity.Conversation, error)
	// PrefillChat asks the customer's own open storefronts to place message in the chat input.
	PrefillChat(ctx context.Context, customerID, message string) error
}
