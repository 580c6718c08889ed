package document

import (
	"context"
	"slices"

	"emart/internal/domain/constants"
	"emart/internal/domain/entity"
	"emart/internal/domain/repository"
)

type userRepository struct {
	store *Store
}

// NewUserRepository stores customer accounts under the "users" key.
func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

func emptyUsers() []*entity.User {
	return []*entity.User{}
}

func (r *userRepository) find(ctx context.Context, match func(u *entity.User) bool) (*entity.User, error) {
	users, _, err := read(ctx, r.store, constants.KeyUsers, emptyUsers)
	if err != nil {
		return nil, err
	}

	idx := slices.IndexFunc(users, match)
	if idx < 0 {
		return nil, repository.ErrUserNotFound
	}

	return users[idx], nil
}

func (r *userRepository) FindUserByID(ctx context.Context, id string) (*entity.User, error) {
	return r.find(ctx, func(u *entity.User) bool { return u.ID == id })
}

func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.find(ctx, func(u *entity.User) bool { return u.HasEmail(email) })
}

func (r *userRepository) CreateUser(ctx context.Context, user *entity.User) error {
	_, err := update(ctx, r.store, constants.KeyUsers, emptyUsers, func(users []*entity.User) ([]*entity.User, error) {
		if slices.ContainsFunc(users, func(u *entity.User) bool { return u.HasEmail(user.Email) }) {
			return nil, repository.ErrDuplicateUser
		}

		return append(users, user), nil
	})

	return err
}

func (r *userRepository) UpdateUser(ctx context.Context, id string, fn func(user *entity.User) error) (*entity.User, error) {
	var updated *entity.User

	_, err := update(ctx, r.store, constants.KeyUsers, emptyUsers, func(users []*entity.User) ([]*entity.User, error) {
		idx := slices.IndexFunc(users, func(u *entity.User) bool { return u.ID == id })
		if idx < 0 {
			return nil, repository.ErrUserNotFound
		}
		if err := fn(users[idx]); err != nil {
			return nil, err
		}
		updated = users[idx]

		return users, nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}
