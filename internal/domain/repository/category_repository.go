package repository

import (
	"context"

	"emart/internal/domain/entity"
)

// CategoryRepository stores the category list.
type CategoryRepository interface {
	// ListCategories returns the categories in stored order.
	ListCategories(ctx context.Context) (entity.Categories, error)

	// UpdateCategories applies fn and persists the result if fn succeeds.
	UpdateCategories(ctx context.Context, fn func(categories entity.Categories) (entity.Categories, error)) (entity.Categories, error)
}
