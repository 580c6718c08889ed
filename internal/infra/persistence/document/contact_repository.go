package document

import (
	"context"
	"slices"

	"emart/internal/domain/constants"
	"emart/internal/domain/entity"
	"emart/internal/domain/repository"
)

type contactMessageRepository struct {
	store *Store
}

// NewContactMessageRepository stores contact form submissions under the "customerMessages" key.
func NewContactMessageRepository(store *Store) repository.ContactMessageRepository {
	return &contactMessageRepository{store: store}
}

func emptyContactMessages() []*entity.ContactMessage {
	return []*entity.ContactMessage{}
}

func (r *contactMessageRepository) ListContactMessages(ctx context.Context) ([]*entity.ContactMessage, error) {
	messages, _, err := read(ctx, r.store, constants.KeyCustomerMessages, emptyContactMessages)

	return messages, err
}

func (r *contactMessageRepository) CreateContactMessage(ctx context.Context, msg *entity.ContactMessage) error {
	_, err := update(ctx, r.store, constants.KeyCustomerMessages, emptyContactMessages, func(messages []*entity.ContactMessage) ([]*entity.ContactMessage, error) {
		return append(messages, msg), nil
	})

	return err
}

func (r *contactMessageRepository) UpdateContactMessage(ctx context.Context, id string, fn func(msg *entity.ContactMessage) error) (*entity.ContactMessage, error) {
	var updated *entity.ContactMessage

	_, err := update(ctx, r.store, constants.KeyCustomerMessages, emptyContactMessages, func(messages []*entity.ContactMessage) ([]*entity.ContactMessage, error) {
		idx := contactIndex(messages, id)
		if idx < 0 {
			return nil, repository.ErrContactMessageNotFound
		}
		if err := fn(messages[idx]); err != nil {
			return nil, err
		}
		updated = messages[idx]

		return messages, nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *contactMessageRepository) DeleteContactMessage(ctx context.Context, id string) error {
	_, err := update(ctx, r.store, constants.KeyCustomerMessages, emptyContactMessages, func(messages []*entity.ContactMessage) ([]*entity.ContactMessage, error) {
		idx := contactIndex(messages, id)
		if idx < 0 {
			return nil, repository.ErrContactMessageNotFound
		}

		return slices.Delete(messages, idx, idx+1), nil
	})

	return err
}

func contactIndex(messages []*entity.ContactMessage, id string) int {
	return slices.IndexFunc(messages, func(m *entity.ContactMessage) bool {
		return m.ID == id
	})
}
