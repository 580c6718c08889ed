package repository

import (
	"context"

	"emart/internal/domain/entity"
	"emart/internal/errors"
)

var (
	// ErrProductNotFound is returned when no product has the requested ID.
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicateProduct is returned when creating a product whose ID is taken.
	ErrDuplicateProduct = errors.New("product already exists")
)

// ProductRepository stores the catalog as one document.
type ProductRepository interface {
	// ListProducts returns every product in stored order. A missing or malformed document yields an empty list.
	ListProducts(ctx context.Context) ([]*entity.Product, error)

	// FindProductByID retrieves a product by its ID.
	FindProductByID(ctx context.Context, id string) (*entity.Product, error)

	// CreateProduct appends a new product.
	CreateProduct(ctx context.Context, product *entity.Product) error

	// UpdateProduct applies fn to one product and persists the catalog if fn succeeds.
	UpdateProduct(ctx context.Context, id string, fn func(product *entity.Product) error) (*entity.Product, error)

	// UpdateProducts applies fn to the whole catalog and persists the returned list if fn succeeds.
	UpdateProducts(ctx context.Context, fn func(products []*entity.Product) ([]*entity.Product, error)) error

	// DeleteProduct removes a product.
	DeleteProduct(ctx context.Context, id string) error

	// CatalogInitialized reports whether the catalog document exists at all.
	CatalogInitialized(ctx context.Context) (bool, error)
}
