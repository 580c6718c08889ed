package impl

import (
	"context"
	"testing"

	"emart/internal/domain/repository"
	"emart/internal/errors"
	mockrepo "emart/internal/mocks/repository"
	mocksvc "emart/internal/mocks/service"
	"emart/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type catalogErrorFixtures struct {
	service     usecase.CatalogUsecase
	productRepo *mockrepo.MockProductRepository
	repos       *testRepos
	events      *eventRecorder
}

func createCatalogServiceWithMockProducts(t *testing.T) catalogErrorFixtures {
	t.Helper()

	productRepo := mockrepo.NewMockProductRepository(t)
	repos := newTestRepos(t)
	events := newEventRecorder(t)

	return catalogErrorFixtures{
		service: NewCatalogService(CatalogServiceParams{
			ProductRepo:  productRepo,
			CategoryRepo: repos.categories,
			Uploader:     mocksvc.NewMockImageUploader(t),
			EventBus:     events.bus,
			Config:       newTestConfig(),
			Logger:       newDiscardLogger(),
		}),
		productRepo: productRepo,
		repos:       repos,
		events:      events,
	}
}

func TestCatalogService_ListProducts_ReadError(t *testing.T) {
	fx := createCatalogServiceWithMockProducts(t)
	ctx := context.Background()
	readErr := errors.New("connection reset")

	fx.productRepo.EXPECT().ListProducts(mock.Anything).Return(nil, readErr)

	products, err := fx.service.ListProducts(ctx, usecase.ProductFilter{})
	require.Error(t, err)
	assert.Nil(t, products)
	assert.True(t, errors.Is(err, readErr))
}

func TestCatalogService_GetProduct_NotFound(t *testing.T) {
	fx := createCatalogServiceWithMockProducts(t)
	ctx := context.Background()

	fx.productRepo.EXPECT().FindProductByID(mock.Anything, "missing").Return(nil, repository.ErrProductNotFound)

	_, err := fx.service.GetProduct(ctx, "missing")
	requireAppError(t, err, "PRODUCT_NOT_FOUND")
}

func TestCatalogService_UpdateProduct_UnknownIDLeavesCategories(t *testing.T) {
	fx := createCatalogServiceWithMockProducts(t)
	ctx := context.Background()

	fx.productRepo.EXPECT().FindProductByID(mock.Anything, "missing").Return(nil, repository.ErrProductNotFound)

	_, err := fx.service.UpdateProduct(ctx, "missing", productInput("Singing Bowl", "Handicrafts", 30))
	requireAppError(t, err, "PRODUCT_NOT_FOUND")

	categories, err := fx.repos.categories.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)
	assert.Empty(t, fx.events.topics())
}

func TestCatalogService_SetStock_WriteError(t *testing.T) {
	fx := createCatalogServiceWithMockProducts(t)
	ctx := context.Background()
	writeErr := errors.New("disk full")

	fx.productRepo.EXPECT().
		UpdateProduct(mock.Anything, "p", mock.Anything).
		Return(nil, writeErr)

	_, err := fx.service.SetStock(ctx, "p", 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, writeErr))
	assert.Empty(t, fx.events.topics())
}

func TestCatalogService_DeleteProduct_NotFound(t *testing.T) {
	fx := createCatalogServiceWithMockProducts(t)
	ctx := context.Background()

	fx.productRepo.EXPECT().DeleteProduct(mock.Anything, "missing").Return(repository.ErrProductNotFound)

	err := fx.service.DeleteProduct(ctx, "missing")
	requireAppError(t, err, "PRODUCT_NOT_FOUND")
}
