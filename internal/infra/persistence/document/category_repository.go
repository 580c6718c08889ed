package document

import (
	"context"

	"emart/internal/domain/constants"
	"emart/internal/domain/entity"
	"emart/internal/domain/repository"
)

type categoryRepository struct {
	store *Store
}

// NewCategoryRepository stores the category names under the "categories" key.
func NewCategoryRepository(store *Store) repository.CategoryRepository {
	return &categoryRepository{store: store}
}

func emptyCategories() entity.Categories {
	return entity.Categories{}
}

func (r *categoryRepository) ListCategories(ctx context.Context) (entity.Categories, error) {
	categories, _, err := read(ctx, r.store, constants.KeyCategories, emptyCategories)

	return categories, err
}

func (r *categoryRepository) UpdateCategories(ctx context.Context, fn func(categories entity.Categories) (entity.Categories, error)) (entity.Categories, error) {
	return update(ctx, r.store, constants.KeyCategories, emptyCategories, fn)
}
