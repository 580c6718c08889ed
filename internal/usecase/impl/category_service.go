package impl

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	deliverycontext "emart/internal/delivery/context"
	"emart/internal/domain/entity"
	domainerrors "emart/internal/domain/errors"
	"emart/internal/domain/repository"
	"emart/internal/domain/service"
	"emart/internal/errors"
	"emart/internal/usecase"

	"go.uber.org/fx"
)

// categoryService implements the CategoryUsecase interface.
type categoryService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	eventBus     service.EventBus
	logger       *slog.Logger
}

// CategoryServiceParams holds dependencies for CategoryService, injected by Fx.
type CategoryServiceParams struct {
	fx.In

	CategoryRepo repository.CategoryRepository
	ProductRepo  repository.ProductRepository
	EventBus     service.EventBus
	Logger       *slog.Logger
}

// NewCategoryService creates the category service.
func NewCategoryService(params CategoryServiceParams) usecase.CategoryUsecase {
	return &categoryService{
		categoryRepo: params.CategoryRepo,
		productRepo:  params.ProductRepo,
		eventBus:     params.EventBus,
		logger:       params.Logger,
	}
}

func (srv *categoryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *categoryService) ListCategories(ctx context.Context) (entity.Categories, error) {
	categories, err := srv.categoryRepo.ListCategories(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	return categories, nil
}

func (srv *categoryService) AddCategory(ctx context.Context, name string) (entity.Categories, error) {
	name, err := entity.NormalizeCategory(name)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails(err.Error()), "invalid category")
	}

	categories, err := srv.categoryRepo.UpdateCategories(ctx, func(categories entity.Categories) (entity.Categories, error) {
		if categories.Contains(name) {
			return nil, errors.Wrap(domainerrors.ErrCategoryExists, "cannot add category")
		}

		return append(categories, name), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to add category")
	}

	srv.log(ctx).Info("Category added", slog.String("category", name))
	publish(ctx, srv.eventBus, service.TopicCategoriesUpdated)

	return categories, nil
}

func (srv *categoryService) RenameCategory(ctx context.Context, oldName, newName string) (entity.Categories, error) {
	newName, err := entity.NormalizeCategory(newName)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails(err.Error()), "invalid category")
	}

	var previous string
	categories, err := srv.categoryRepo.UpdateCategories(ctx, func(categories entity.Categories) (entity.Categories, error) {
		idx := categories.Index(oldName)
		if idx < 0 {
			return nil, errors.Wrap(domainerrors.ErrCategoryNotFound, "cannot rename category")
		}
		if other := categories.Index(newName); other >= 0 && other != idx {
			return nil, errors.Wrap(domainerrors.ErrCategoryExists, "cannot rename category")
		}
		previous = categories[idx]
		categories[idx] = newName

		return categories, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to rename category")
	}

	moved := 0
	err = srv.productRepo.UpdateProducts(ctx, func(products []*entity.Product) ([]*entity.Product, error) {
		for _, p := range products {
			if strings.EqualFold(p.Category, previous) {
				p.Category = newName
				moved++
			}
		}

		return products, nil
	})
	if err != nil {
		srv.log(ctx).Error("Category renamed but products were not moved",
			slog.String("from", previous),
			slog.String("to", newName),
			slog.Any("error", err),
		)

		return nil, errors.Wrap(err, "failed to move products to renamed category")
	}

	srv.log(ctx).Info("Category renamed", slog.String("from", previous), slog.String("to", newName), slog.Int("products", moved))
	publish(ctx, srv.eventBus, service.TopicCategoriesUpdated, service.TopicProductUpdated)

	return categories, nil
}

// DeleteCategory checks product references before removing. A product created between the
// check and the write can still end up in a deleted category.
func (srv *categoryService) DeleteCategory(ctx context.Context, name string) (entity.Categories, error) {
	products, err := srv.productRepo.ListProducts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}
	inUse := slices.ContainsFunc(products, func(p *entity.Product) bool {
		return strings.EqualFold(p.Category, strings.TrimSpace(name))
	})
	if inUse {
		return nil, errors.Wrap(domainerrors.ErrCategoryInUse, "cannot delete category")
	}

	categories, err := srv.categoryRepo.UpdateCategories(ctx, func(categories entity.Categories) (entity.Categories, error) {
		idx := categories.Index(name)
		if idx < 0 {
			return nil, errors.Wrap(domainerrors.ErrCategoryNotFound, "cannot delete category")
		}

		return slices.Delete(categories, idx, idx+1), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete category")
	}

	srv.log(ctx).Info("Category deleted", slog.String("category", name))
	publish(ctx, srv.eventBus, service.TopicCategoriesUpdated)

	return categories, nil
}
