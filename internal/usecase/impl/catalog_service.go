package impl

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"emart/config"
	deliverycontext "emart/internal/delivery/context"
	"emart/internal/domain/entity"
	domainerrors "emart/internal/domain/errors"
	"emart/internal/domain/repository"
	"emart/internal/domain/service"
	"emart/internal/errors"
	"emart/internal/usecase"

	"go.uber.org/fx"
)

const productImageFolder = "products"

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	uploader     service.ImageUploader
	eventBus     service.EventBus
	seedEnabled  bool
	ids          *timestampIDs
	now          func() time.Time
	logger       *slog.Logger
}

// CatalogServiceParams holds dependencies for CatalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	ProductRepo  repository.ProductRepository
	CategoryRepo repository.CategoryRepository
	Uploader     service.ImageUploader
	EventBus     service.EventBus
	Config       *config.Config
	Logger       *slog.Logger
}

// NewCatalogService creates the catalog service.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		productRepo:  params.ProductRepo,
		categoryRepo: params.CategoryRepo,
		uploader:     params.Uploader,
		eventBus:     params.EventBus,
		seedEnabled:  params.Config != nil && params.Config.Seed.Enabled,
		ids:          &timestampIDs{},
		now:          time.Now,
		logger:       params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *catalogService) ListProducts(ctx context.Context, filter usecase.ProductFilter) ([]*entity.Product, error) {
	products, err := srv.productRepo.ListProducts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	matched := make([]*entity.Product, 0, len(products))
	for _, p := range products {
		if matchesFilter(p, filter) {
			matched = append(matched, p)
		}
	}
	sortProducts(matched, filter.Sort)

	return matched, nil
}

func matchesFilter(p *entity.Product, filter usecase.ProductFilter) bool {
	if filter.Category != "" && !strings.EqualFold(p.Category, strings.TrimSpace(filter.Category)) {
		return false
	}
	if filter.InStockOnly && !p.InStock() {
		return false
	}
	if filter.MinPrice != nil && p.Price < *filter.MinPrice {
		return false
	}
	if filter.MaxPrice != nil && p.Price > *filter.MaxPrice {
		return false
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		return strings.Contains(strings.ToLower(p.Name), search) ||
			strings.Contains(strings.ToLower(p.Description), search)
	}

	return true
}

// sortProducts orders in place. An unknown or empty sort keeps the stored order.
func sortProducts(products []*entity.Product, sort usecase.ProductSort) {
	var less func(a, b *entity.Product) int
	switch sort {
	case usecase.SortNewest:
		less = func(a, b *entity.Product) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case usecase.SortPriceAsc:
		less = func(a, b *entity.Product) int { return cmp.Compare(a.Price, b.Price) }
	case usecase.SortPriceDesc:
		less = func(a, b *entity.Product) int { return cmp.Compare(b.Price, a.Price) }
	case usecase.SortRating:
		less = func(a, b *entity.Product) int {
			if c := cmp.Compare(b.Rating(), a.Rating()); c != 0 {
				return c
			}

			return cmp.Compare(b.ReviewCount(), a.ReviewCount())
		}
	case usecase.SortName:
		less = func(a, b *entity.Product) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	default:
		return
	}
	slices.SortStableFunc(products, less)
}

func (srv *catalogService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	product, err := srv.productRepo.FindProductByID(ctx, id)
	if err != nil {
		return nil, mapProductError(err, "failed to find product")
	}

	return product, nil
}

func (srv *catalogService) CreateProduct(ctx context.Context, input usecase.ProductInput) (*entity.Product, error) {
	fields, err := srv.productFields(ctx, input)
	if err != nil {
		return nil, err
	}

	now := srv.now()
	fields.ID = srv.ids.next(now)
	fields.CreatedAt = now
	product := entity.NewProduct(fields, nil)
	if err := product.Validate(); err != nil {
		return nil, errors.Wrap(domainerrors.ErrInvalidProduct.WithDetails(err.Error()), "invalid product")
	}

	categoryAdded, err := srv.ensureCategory(ctx, product)
	if err != nil {
		return nil, err
	}

	if err := srv.productRepo.CreateProduct(ctx, product); err != nil {
		srv.log(ctx).Error("Failed to create product", slog.String("productID", product.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create product")
	}

	srv.log(ctx).Info("Product created", slog.String("productID", product.ID), slog.String("category", product.Category))
	if categoryAdded {
		publish(ctx, srv.eventBus, service.TopicCategoriesUpdated)
	}
	publish(ctx, srv.eventBus, service.TopicProductUpdated)

	return product, nil
}

func (srv *catalogService) UpdateProduct(ctx context.Context, id string, input usecase.ProductInput) (*entity.Product, error) {
	// Unknown ids must not upload images or add categories.
	if _, err := srv.productRepo.FindProductByID(ctx, id); err != nil {
		return nil, mapProductError(err, "failed to find product")
	}

	fields, err := srv.productFields(ctx, input)
	if err != nil {
		return nil, err
	}

	candidate := entity.NewProduct(fields, nil)
	if err := candidate.Validate(); err != nil {
		return nil, errors.Wrap(domainerrors.ErrInvalidProduct.WithDetails(err.Error()), "invalid product")
	}

	categoryAdded, err := srv.ensureCategory(ctx, candidate)
	if err != nil {
		return nil, err
	}

	updated, err := srv.productRepo.UpdateProduct(ctx, id, func(p *entity.Product) error {
		p.ReplaceDetails(*candidate)

		return nil
	})
	if err != nil {
		return nil, mapProductError(err, "failed to update product")
	}

	if categoryAdded {
		publish(ctx, srv.eventBus, service.TopicCategoriesUpdated)
	}
	publish(ctx, srv.eventBus, service.TopicProductUpdated)

	return updated, nil
}

func (srv *catalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := srv.productRepo.DeleteProduct(ctx, id); err != nil {
		return mapProductError(err, "failed to delete product")
	}

	srv.log(ctx).Info("Product deleted", slog.String("productID", id))
	publish(ctx, srv.eventBus, service.TopicProductUpdated)

	return nil
}

func (srv *catalogService) SetStock(ctx context.Context, id string, stock int) (*entity.Product, error) {
	if stock < 0 {
		return nil, errors.Wrap(domainerrors.ErrInvalidProduct.WithDetails(entity.ErrProductStockNegative.Error()), "invalid stock")
	}

	updated, err := srv.productRepo.UpdateProduct(ctx, id, func(p *entity.Product) error {
		p.Stock = stock

		return nil
	})
	if err != nil {
		return nil, mapProductError(err, "failed to update stock")
	}

	publish(ctx, srv.eventBus, service.TopicProductUpdated)

	return updated, nil
}

// productFields builds the editable fields from input, uploading data URL images.
func (srv *catalogService) productFields(ctx context.Context, input usecase.ProductInput) (entity.Product, error) {
	images := input.Images
	for i := range images {
		if strings.TrimSpace(images[i].URL) == "" {
			continue
		}
		url, err := srv.uploader.Upload(ctx, images[i].URL, productImageFolder)
		if err != nil {
			srv.log(ctx).Error("Failed to upload product image", slog.Int("index", i), slog.Any("error", err))

			return entity.Product{}, errors.Wrap(domainerrors.ErrUploadFailed.WithDetails(err.Error()), "failed to upload product image")
		}
		images[i].URL = url
	}

	return entity.Product{
		Name:          strings.TrimSpace(input.Name),
		Description:   strings.TrimSpace(input.Description),
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		Stock:         input.Stock,
		Category:      input.Category,
		Colors:        input.Colors,
		Sizes:         input.Sizes,
		Images:        images,
		PurchaseLimit: input.PurchaseLimit,
	}, nil
}

// ensureCategory adds the product's category when it is new and rewrites it to the stored spelling.
func (srv *catalogService) ensureCategory(ctx context.Context, product *entity.Product) (bool, error) {
	name, err := entity.NormalizeCategory(product.Category)
	if err != nil {
		return false, errors.Wrap(domainerrors.ErrInvalidProduct.WithDetails(err.Error()), "invalid category")
	}

	added := false
	categories, err := srv.categoryRepo.UpdateCategories(ctx, func(categories entity.Categories) (entity.Categories, error) {
		if categories.Contains(name) {
			return categories, nil
		}
		added = true

		return append(categories, name), nil
	})
	if err != nil {
		return false, errors.Wrap(err, "failed to update categories")
	}

	if canonical, ok := categories.Canonical(name); ok {
		product.Category = canonical
	}

	return added, nil
}

func (srv *catalogService) SeedCatalog(ctx context.Context) error {
	if !srv.seedEnabled {
		return nil
	}

	initialized, err := srv.productRepo.CatalogInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check catalog")
	}
	if initialized {
		return nil
	}

	if _, err := srv.categoryRepo.UpdateCategories(ctx, func(categories entity.Categories) (entity.Categories, error) {
		for _, name := range seedCategories {
			if !categories.Contains(name) {
				categories = append(categories, name)
			}
		}

		return categories, nil
	}); err != nil {
		return errors.Wrap(err, "failed to seed categories")
	}

	seeded := 0
	err = srv.productRepo.UpdateProducts(ctx, func(products []*entity.Product) ([]*entity.Product, error) {
		if len(products) > 0 {
			return products, nil
		}
		products = seedProducts(srv.now())
		seeded = len(products)

		return products, nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to seed products")
	}

	srv.log(ctx).Info("Seeded default catalog", slog.Int("products", seeded), slog.Int("categories", len(seedCategories)))
	publish(ctx, srv.eventBus, service.TopicCategoriesUpdated, service.TopicProductUpdated)

	return nil
}

// mapProductError turns repository and entity errors into application errors.
func mapProductError(err error, message string) error {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		return errors.Wrap(domainerrors.ErrProductNotFound, message)
	case errors.Is(err, entity.ErrReviewMissing):
		return errors.Wrap(domainerrors.ErrReviewNotFound, message)
	case errors.Is(err, entity.ErrReviewRatingRange), errors.Is(err, entity.ErrReviewAuthorRequired):
		return errors.Wrap(domainerrors.ErrInvalidReview.WithDetails(err.Error()), message)
	default:
		return errors.Wrap(err, message)
	}
}
