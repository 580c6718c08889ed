package usecase

import (
	"context"

	"emart/internal/domain/entity"
)

// CategoryUsecase manages the category list.
type CategoryUsecase interface {
	ListCategories(ctx context.Context) (entity.Categories, error)
	AddCategory(ctx context.Context, name string) (entity.Categories, error)
	// RenameCategory renames a category and moves its products along.
	RenameCategory(ctx context.Context, oldName, newName string) (entity.Categories, error)
	// DeleteCategory is refused while any product references the category.
	DeleteCategory(ctx context.Context, name string) (entity.Categories, error)
}
