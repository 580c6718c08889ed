package document

import (
	"context"
	"slices"

	"emart/internal/domain/constants"
	"emart/internal/domain/entity"
	"emart/internal/domain/repository"
)

type productRepository struct {
	store *Store
}

// NewProductRepository stores the catalog under the "products" key.
func NewProductRepository(store *Store) repository.ProductRepository {
	return &productRepository{store: store}
}

func emptyProducts() []*entity.Product {
	return []*entity.Product{}
}

func (r *productRepository) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	products, _, err := read(ctx, r.store, constants.KeyProducts, emptyProducts)

	return products, err
}

func (r *productRepository) FindProductByID(ctx context.Context, id string) (*entity.Product, error) {
	products, err := r.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	idx := productIndex(products, id)
	if idx < 0 {
		return nil, repository.ErrProductNotFound
	}

	return products[idx], nil
}

func (r *productRepository) CreateProduct(ctx context.Context, product *entity.Product) error {
	_, err := update(ctx, r.store, constants.KeyProducts, emptyProducts, func(products []*entity.Product) ([]*entity.Product, error) {
		if productIndex(products, product.ID) >= 0 {
			return nil, repository.ErrDuplicateProduct
		}

		return append(products, product), nil
	})

	return err
}

func (r *productRepository) UpdateProduct(ctx context.Context, id string, fn func(product *entity.Product) error) (*entity.Product, error) {
	var updated *entity.Product

	_, err := update(ctx, r.store, constants.KeyProducts, emptyProducts, func(products []*entity.Product) ([]*entity.Product, error) {
		idx := productIndex(products, id)
		if idx < 0 {
			return nil, repository.ErrProductNotFound
		}
		if err := fn(products[idx]); err != nil {
			return nil, err
		}
		updated = products[idx]

		return products, nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *productRepository) UpdateProducts(ctx context.Context, fn func(products []*entity.Product) ([]*entity.Product, error)) error {
	_, err := update(ctx, r.store, constants.KeyProducts, emptyProducts, fn)

	return err
}

func (r *productRepository) DeleteProduct(ctx context.Context, id string) error {
	_, err := update(ctx, r.store, constants.KeyProducts, emptyProducts, func(products []*entity.Product) ([]*entity.Product, error) {
		idx := productIndex(products, id)
		if idx < 0 {
			return nil, repository.ErrProductNotFound
		}

		return slices.Delete(products, idx, idx+1), nil
	})

	return err
}

func (r *productRepository) CatalogInitialized(ctx context.Context) (bool, error) {
	_, exists, err := read(ctx, r.store, constants.KeyProducts, emptyProducts)

	return exists, err
}

func productIndex(products []*entity.Product, id string) int {
	return slices.IndexFunc(products, func(p *entity.Product) bool {
		return p.ID == id
	})
}
