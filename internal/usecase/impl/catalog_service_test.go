package impl

import (
	"context"
	"testing"
	"time"

	"emart/internal/domain/entity"
	"emart/internal/domain/service"
	"emart/internal/errors"
	mocksvc "emart/internal/mocks/service"
	"emart/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createTestCatalogService(t *testing.T) (usecase.CatalogUsecase, *testRepos, *mocksvc.MockImageUploader, *eventRecorder) {
	t.Helper()

	repos := newTestRepos(t)
	uploader := mocksvc.NewMockImageUploader(t)
	events := newEventRecorder(t)

	svc := NewCatalogService(CatalogServiceParams{
		ProductRepo:  repos.products,
		CategoryRepo: repos.categories,
		Uploader:     uploader,
		EventBus:     events.bus,
		Config:       newTestConfig(),
		Logger:       newDiscardLogger(),
	})
	svc.(*catalogService).now = fixedClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

	return svc, repos, uploader, events
}

func productInput(name, category string, price float64) usecase.ProductInput {
	return usecase.ProductInput{
		Name:     name,
		Price:    price,
		Stock:    5,
		Category: category,
		Images: [entity.ProductImageCount]entity.ProductImage{
			{URL: "data:image/png;base64,AAA"}, {URL: "https://cdn/2.png"}, {URL: "https://cdn/3.png"},
		},
	}
}

func TestCatalogService_CreateProduct(t *testing.T) {
	svc, repos, uploader, events := createTestCatalogService(t)
	ctx := context.Background()

	_, err := repos.categories.UpdateCategories(ctx, func(entity.Categories) (entity.Categories, error) {
		return entity.Categories{"Clothing"}, nil
	})
	require.NoError(t, err)

	uploader.EXPECT().Upload(mock.Anything, "data:image/png;base64,AAA", "products").Return("https://cdn/1.png", nil).Once()
	uploader.EXPECT().Upload(mock.Anything, mock.Anything, "products").
		RunAndReturn(func(_ context.Context, image, _ string) (string, error) { return image, nil }).Twice()

	product, err := svc.CreateProduct(ctx, productInput("  Pashmina Shawl ", "clothing", 45))
	require.NoError(t, err)

	assert.Equal(t, "Pashmina Shawl", product.Name)
	assert.Equal(t, "Clothing", product.Category)
	assert.Equal(t, entity.DefaultPurchaseLimit, product.PurchaseLimit)
	assert.Equal(t, "https://cdn/1.png", product.Images[0].URL)
	assert.Equal(t, "1772359200000", product.ID)

	categories, err := repos.categories.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.Categories{"Clothing"}, categories)

	assert.Equal(t, []service.Topic{service.TopicProductUpdated}, events.topics())
}

func TestCatalogService_CreateProduct_AddsCategory(t *testing.T) {
	svc, repos, uploader, events := createTestCatalogService(t)
	ctx := context.Background()

	uploader.EXPECT().Upload(mock.Anything, mock.Anything, "products").
		RunAndReturn(func(_ context.Context, image, _ string) (string, error) { return image, nil })

	_, err := svc.CreateProduct(ctx, productInput("Singing Bowl", " Home Decor ", 30))
	require.NoError(t, err)

	categories, err := repos.categories.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.Categories{"Home Decor"}, categories)

	assert.Equal(t, []service.Topic{service.TopicCategoriesUpdated, service.TopicProductUpdated}, events.topics())
}

func TestCatalogService_CreateProduct_Errors(t *testing.T) {
	svc, repos, uploader, _ := createTestCatalogService(t)
	ctx := context.Background()

	uploader.EXPECT().Upload(mock.Anything, "data:image/png;base64,AAA", "products").
		Return("", errors.New("cloud unavailable")).Once()
	_, err := svc.CreateProduct(ctx, productInput("Bowl", "Home Decor", 30))
	requireAppError(t, err, "UPLOAD_FAILED")

	uploader.EXPECT().Upload(mock.Anything, mock.Anything, "products").
		RunAndReturn(func(_ context.Context, image, _ string) (string, error) { return image, nil })

	_, err = svc.CreateProduct(ctx, productInput("  ", "Home Decor", 30))
	requireAppError(t, err, "INVALID_PRODUCT")

	_, err = svc.CreateProduct(ctx, productInput("Bowl", "Home Decor", -1))
	requireAppError(t, err, "INVALID_PRODUCT")

	noImage := productInput("Bowl", "Home Decor", 30)
	noImage.Images[2].URL = ""
	_, err = svc.CreateProduct(ctx, noImage)
	requireAppError(t, err, "INVALID_PRODUCT")

	_, err = svc.CreateProduct(ctx, productInput("Bowl", "", 30))
	requireAppError(t, err, "INVALID_PRODUCT")

	products, err := repos.products.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestCatalogService_UpdateProduct_KeepsReviews(t *testing.T) {
	svc, repos, uploader, _ := createTestCatalogService(t)
	ctx := context.Background()

	original := entity.NewProduct(*sampleProduct("p1", "Clothing", 10, 3, 5), []entity.Review{
		{ID: "r1", Author: "Ram", Rating: 4},
	})
	require.NoError(t, repos.products.CreateProduct(ctx, original))

	uploader.EXPECT().Upload(mock.Anything, mock.Anything, "products").
		RunAndReturn(func(_ context.Context, image, _ string) (string, error) { return image, nil })

	input := productInput("Renamed", "Clothing", 12)
	input.PurchaseLimit = 2
	updated, err := svc.UpdateProduct(ctx, "p1", input)
	require.NoError(t, err)

	assert.Equal(t, "p1", updated.ID)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 2, updated.PurchaseLimit)
	assert.Equal(t, 1, updated.ReviewCount())
	assert.InDelta(t, 4.0, updated.Rating(), 1e-9)

	_, err = svc.UpdateProduct(ctx, "missing", input)
	requireAppError(t, err, "PRODUCT_NOT_FOUND")
}

func TestCatalogService_SetStockAndDelete(t *testing.T) {
	svc, repos, _, events := createTestCatalogService(t)
	ctx := context.Background()
	require.NoError(t, repos.products.CreateProduct(ctx, sampleProduct("p1", "Clothing", 10, 3, 5)))

	_, err := svc.SetStock(ctx, "p1", -1)
	requireAppError(t, err, "INVALID_PRODUCT")

	updated, err := svc.SetStock(ctx, "p1", 0)
	require.NoError(t, err)
	assert.False(t, updated.InStock())

	require.NoError(t, svc.DeleteProduct(ctx, "p1"))
	requireAppError(t, svc.DeleteProduct(ctx, "p1"), "PRODUCT_NOT_FOUND")

	_, err = svc.GetProduct(ctx, "p1")
	requireAppError(t, err, "PRODUCT_NOT_FOUND")

	assert.Equal(t, []service.Topic{service.TopicProductUpdated, service.TopicProductUpdated}, events.topics())
}

func TestCatalogService_ListProducts(t *testing.T) {
	svc, repos, _, _ := createTestCatalogService(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	add := func(id, name, category string, price float64, stock int, age time.Duration, ratings ...int) {
		reviews := make([]entity.Review, 0, len(ratings))
		for i, r := range ratings {
			reviews = append(reviews, entity.Review{ID: id + string(rune('a'+i)), Author: "A", Rating: r})
		}
		p := *sampleProduct(id, category, price, stock, 5)
		p.Name = name
		p.CreatedAt = base.Add(age)
		require.NoError(t, repos.products.CreateProduct(ctx, entity.NewProduct(p, reviews)))
	}
	add("1", "Yak Wool Hat", "Clothing", 25, 4, time.Hour, 5)
	add("2", "Brass Bell", "Home Decor", 60, 0, 3*time.Hour, 3, 4)
	add("3", "Lokta Notebook", "Stationery", 12, 9, 2*time.Hour)
	add("4", "Wool Scarf", "Clothing", 40, 2, 0, 4)

	ids := func(products []*entity.Product) []string {
		out := make([]string, 0, len(products))
		for _, p := range products {
			out = append(out, p.ID)
		}

		return out
	}
	price := func(v float64) *float64 { return &v }

	tests := []struct {
		name   string
		filter usecase.ProductFilter
		want   []string
	}{
		{name: "stored order", filter: usecase.ProductFilter{}, want: []string{"1", "2", "3", "4"}},
		{name: "category ignores case", filter: usecase.ProductFilter{Category: "clothing"}, want: []string{"1", "4"}},
		{name: "search name", filter: usecase.ProductFilter{Search: "WOOL"}, want: []string{"1", "4"}},
		{name: "in stock only", filter: usecase.ProductFilter{InStockOnly: true}, want: []string{"1", "3", "4"}},
		{name: "price range", filter: usecase.ProductFilter{MinPrice: price(20), MaxPrice: price(50)}, want: []string{"1", "4"}},
		{name: "newest", filter: usecase.ProductFilter{Sort: usecase.SortNewest}, want: []string{"2", "3", "1", "4"}},
		{name: "price ascending", filter: usecase.ProductFilter{Sort: usecase.SortPriceAsc}, want: []string{"3", "1", "4", "2"}},
		{name: "price descending", filter: usecase.ProductFilter{Sort: usecase.SortPriceDesc}, want: []string{"2", "4", "1", "3"}},
		{name: "rating", filter: usecase.ProductFilter{Sort: usecase.SortRating}, want: []string{"1", "4", "2", "3"}},
		{name: "name", filter: usecase.ProductFilter{Sort: usecase.SortName}, want: []string{"2", "3", "4", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := svc.ListProducts(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(products))
		})
	}
}

func TestCatalogService_SeedCatalog(t *testing.T) {
	svc, repos, _, events := createTestCatalogService(t)
	ctx := context.Background()

	require.NoError(t, svc.SeedCatalog(ctx))

	products, err := repos.products.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, len(seedProducts(time.Now())))
	for _, p := range products {
		require.NoError(t, p.Validate())
	}

	categories, err := repos.categories.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.Categories(seedCategories), categories)

	// A catalog emptied by the owner stays empty.
	for _, p := range products {
		require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	}
	require.NoError(t, svc.SeedCatalog(ctx))

	products, err = repos.products.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)

	topics := events.topics()
	require.NotEmpty(t, topics)
	assert.Equal(t, service.TopicCategoriesUpdated, topics[0])
}

func TestCatalogService_SeedCatalog_Disabled(t *testing.T) {
	repos := newTestRepos(t)
	cfg := newTestConfig()
	cfg.Seed.Enabled = false

	svc := NewCatalogService(CatalogServiceParams{
		ProductRepo:  repos.products,
		CategoryRepo: repos.categories,
		Config:       cfg,
		Logger:       newDiscardLogger(),
	})
	require.NoError(t, svc.SeedCatalog(context.Background()))

	initialized, err := repos.products.CatalogInitialized(context.Background())
	require.NoError(t, err)
	assert.False(t, initialized)
}
