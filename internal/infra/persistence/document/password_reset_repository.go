package document

import (
	"context"

	"emart/internal/domain/constants"
	"emart/internal/domain/entity"
	"emart/internal/domain/repository"
)

type passwordResetRepository struct {
	store *Store
}

// NewPasswordResetRepository stores pending resets under "passwordResets", keyed by normalized email.
func NewPasswordResetRepository(store *Store) repository.PasswordResetRepository {
	return &passwordResetRepository{store: store}
}

func emptyResets() map[string]*entity.PasswordReset {
	return map[string]*entity.PasswordReset{}
}

func (r *passwordResetRepository) SavePasswordReset(ctx context.Context, reset *entity.PasswordReset) error {
	_, err := update(ctx, r.store, constants.KeyPasswordResets, emptyResets, func(resets map[string]*entity.PasswordReset) (map[string]*entity.PasswordReset, error) {
		resets[entity.NormalizeEmail(reset.Email)] = reset

		return resets, nil
	})

	return err
}

func (r *passwordResetRepository) FindPasswordReset(ctx context.Context, email string) (*entity.PasswordReset, error) {
	resets, _, err := read(ctx, r.store, constants.KeyPasswordResets, emptyResets)
	if err != nil {
		return nil, err
	}

	reset, ok := resets[entity.NormalizeEmail(email)]
	if !ok {
		return nil, repository.ErrPasswordResetNotFound
	}

	return reset, nil
}

func (r *passwordResetRepository) DeletePasswordReset(ctx context.Context, email string) error {
	_, err := update(ctx, r.store, constants.KeyPasswordResets, emptyResets, func(resets map[string]*entity.PasswordReset) (map[string]*entity.PasswordReset, error) {
		delete(resets, entity.NormalizeEmail(email))

		return resets, nil
	})

	return err
}
