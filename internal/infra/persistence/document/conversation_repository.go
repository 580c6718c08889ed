package document

import (
	"context"
	"slices"

	"emart/internal/domain/constants"
	"emart/internal/domain/entity"
	"emart/internal/domain/repository"
)

type conversationRepository struct {
	store *Store
}

// NewConversationRepository stores chat threads under the "conversations" key.
func NewConversationRepository(store *Store) repository.ConversationRepository {
	return &conversationRepository{store: store}
}

func emptyConversations() []*entity.Conversation {
	return []*entity.Conversation{}
}

func (r *conversationRepository) ListConversations(ctx context.Context) ([]*entity.Conversation, error) {
	conversations, _, err := read(ctx, r.store, constants.KeyConversations, emptyConversations)

	return conversations, err
}

func (r *conversationRepository) FindConversation(ctx context.Context, customerID string) (*entity.Conversation, error) {
	conversations, err := r.ListConversations(ctx)
	if err != nil {
		return nil, err
	}

	idx := conversationIndex(conversations, customerID)
	if idx < 0 {
		return nil, repository.ErrConversationNotFound
	}

	return conversations[idx], nil
}

func (r *conversationRepository) UpdateConversation(ctx context.Context, customerID string, fn func(conv *entity.Conversation) error) (*entity.Conversation, error) {
	return r.modify(ctx, customerID, "", false, fn)
}

func (r *conversationRepository) UpsertConversation(ctx context.Context, customerID, customerName string, fn func(conv *entity.Conversation) error) (*entity.Conversation, error) {
	return r.modify(ctx, customerID, customerName, true, fn)
}

func (r *conversationRepository) modify(ctx context.Context, customerID, customerName string, create bool, fn func(conv *entity.Conversation) error) (*entity.Conversation, error) {
	var updated *entity.Conversation

	_, err := update(ctx, r.store, constants.KeyConversations, emptyConversations, func(conversations []*entity.Conversation) ([]*entity.Conversation, error) {
		idx := conversationIndex(conversations, customerID)
		if idx < 0 {
			if !create {
				return nil, repository.ErrConversationNotFound
			}
			conversations = append(conversations, &entity.Conversation{
				CustomerID:   customerID,
				CustomerName: customerName,
				Messages:     []entity.ChatMessage{},
			})
			idx = len(conversations) - 1
		}
		if customerName != "" {
			conversations[idx].CustomerName = customerName
		}
		if err := fn(conversations[idx]); err != nil {
			return nil, err
		}
		updated = conversations[idx]

		return conversations, nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func conversationIndex(conversations []*entity.Conversation, customerID string) int {
	return slices.IndexFunc(conversations, func(c *entity.Conversation) bool {
		return c.CustomerID == customerID
	})
}
