package usecase

import (
	"context"

	"emart/internal/domain/entity"
)

// ProductSort orders a product listing.
type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "price-asc"
	SortPriceDesc ProductSort = "price-desc"
	SortRating    ProductSort = "rating"
	SortName      ProductSort = "name"
)

// ProductFilter narrows a product listing. Zero values do not filter.
type ProductFilter struct {
	Category    string
	Search      string
	MinPrice    *float64
	MaxPrice    *float64
	InStockOnly bool
	Sort        ProductSort
}

// ProductInput holds the owner-editable product fields. Images may be URLs or base64 data URLs.
type ProductInput struct {
	Name          string
	Description   string
	Price         float64
	OriginalPrice *float64
	Stock         int
	Category      string
	Colors        []string
	Sizes         []string
	Images        [entity.ProductImageCount]entity.ProductImage
	PurchaseLimit int
}

// CatalogUsecase manages the product catalog.
type CatalogUsecase interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*entity.Product, error)
	UpdateProduct(ctx context.Context, id string, input ProductInput) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	// SetStock replaces the stock count of a product.
	SetStock(ctx context.Context, id string, stock int) (*entity.Product, error)
	// SeedCatalog writes the default categories and products when the catalog was never initialized.
	SeedCatalog(ctx context.Context) error
}

// ReviewInput is a customer review submission.
type ReviewInput struct {
	Author  string
	Rating  int
	Comment string
}

// ReviewUsecase changes product reviews. Every change recomputes the product rating.
type ReviewUsecase interface {
	AddReview(ctx context.Context, productID string, input ReviewInput) (*entity.Product, error)
	UpdateReview(ctx context.Context, productID, reviewID string, rating int, comment string) (*entity.Product, error)
	DeleteReview(ctx context.Context, productID, reviewID string) (*entity.Product, error)
}
