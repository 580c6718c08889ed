package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(reviews ...Review) *Product {
	return NewProduct(Product{
		ID:       "1700000000000",
		Name:     "Pashmina Shawl",
		Price:    100,
		Stock:    5,
		Category: " Clothing ",
		Images: [ProductImageCount]ProductImage{
			{URL: "https://img/1.jpg"}, {URL: "https://img/2.jpg"}, {URL: "https://img/3.jpg"},
		},
	}, reviews)
}

func review(id string, rating int) Review {
	return Review{ID: id, Author: "Sita", Rating: rating, Comment: "ok", Date: time.Unix(0, 0).UTC()}
}

func TestNewProduct_Defaults(t *testing.T) {
	p := newTestProduct()

	assert.Equal(t, DefaultPurchaseLimit, p.PurchaseLimit)
	assert.Equal(t, "Clothing", p.Category)
	assert.Zero(t, p.Rating())
	assert.Zero(t, p.ReviewCount())
	assert.NoError(t, p.Validate())
}

func TestProduct_ReviewAggregate(t *testing.T) {
	p := newTestProduct(review("a", 5), review("b", 3), review("c", 4))

	assert.InDelta(t, 4.0, p.Rating(), 1e-9)
	assert.Equal(t, 3, p.ReviewCount())

	require.NoError(t, p.DeleteReview("b"))
	assert.InDelta(t, 4.5, p.Rating(), 1e-9)
	assert.Equal(t, 2, p.ReviewCount())

	updated, err := p.UpdateReview("a", 1, "changed")
	require.NoError(t, err)
	assert.Equal(t, "changed", updated.Comment)
	assert.InDelta(t, 2.5, p.Rating(), 1e-9)

	require.NoError(t, p.AddReview(review("d", 5)))
	assert.InDelta(t, 10.0/3.0, p.Rating(), 1e-9)
	assert.Equal(t, 3, p.ReviewCount())

	for _, id := range []string{"a", "c", "d"} {
		require.NoError(t, p.DeleteReview(id))
	}
	assert.Zero(t, p.Rating())
	assert.Zero(t, p.ReviewCount())
}

func TestProduct_ReviewErrors(t *testing.T) {
	p := newTestProduct(review("a", 4))

	assert.ErrorIs(t, p.AddReview(review("b", 6)), ErrReviewRatingRange)
	assert.ErrorIs(t, p.AddReview(Review{ID: "c", Rating: 3}), ErrReviewAuthorRequired)
	assert.ErrorIs(t, p.DeleteReview("missing"), ErrReviewMissing)

	_, err := p.UpdateReview("a", 0, "")
	assert.ErrorIs(t, err, ErrReviewRatingRange)
	assert.InDelta(t, 4.0, p.Rating(), 1e-9)
}

func TestProduct_DetailedReviewsIsCopy(t *testing.T) {
	p := newTestProduct(review("a", 4))

	reviews := p.DetailedReviews()
	reviews[0].Rating = 1

	got, ok := p.FindReview("a")
	require.True(t, ok)
	assert.Equal(t, 4, got.Rating)
}

func TestProduct_ReplaceDetailsKeepsReviews(t *testing.T) {
	p := newTestProduct(review("a", 2))
	created := p.CreatedAt

	p.ReplaceDetails(Product{ID: "other", Name: "Renamed", Price: 50, Stock: 1, PurchaseLimit: 3})

	assert.Equal(t, "1700000000000", p.ID)
	assert.Equal(t, created, p.CreatedAt)
	assert.Equal(t, "Renamed", p.Name)
	assert.Equal(t, 3, p.PurchaseLimit)
	assert.Equal(t, 1, p.ReviewCount())
	assert.InDelta(t, 2.0, p.Rating(), 1e-9)
}

func TestProduct_MaxCartQuantity(t *testing.T) {
	p := newTestProduct()
	p.PurchaseLimit = 2
	assert.Equal(t, 2, p.MaxCartQuantity())

	p.Stock = 1
	assert.Equal(t, 1, p.MaxCartQuantity())

	p.Stock = 0
	assert.False(t, p.InStock())
	assert.Zero(t, p.MaxCartQuantity())
}

func TestProduct_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Product)
		want   error
	}{
		{name: "missing name", mutate: func(p *Product) { p.Name = " " }, want: ErrProductNameRequired},
		{name: "negative price", mutate: func(p *Product) { p.Price = -1 }, want: ErrProductPriceNegative},
		{name: "negative stock", mutate: func(p *Product) { p.Stock = -1 }, want: ErrProductStockNegative},
		{name: "zero purchase limit", mutate: func(p *Product) { p.PurchaseLimit = 0 }, want: ErrProductPurchaseLimit},
		{name: "missing image", mutate: func(p *Product) { p.Images[2].URL = "" }, want: ErrProductImagesRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProduct()
			tt.mutate(p)
			assert.ErrorIs(t, p.Validate(), tt.want)
		})
	}
}

func TestProduct_JSONIgnoresStoredAggregate(t *testing.T) {
	raw := `{"id":"1","name":"Tea","price":5,"stock":2,"rating":1.5,"reviews":99,
		"detailedReviews":[{"id":"r1","author":"Ram","rating":5},{"id":"r2","author":"Hari","rating":4}]}`

	var p Product
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.InDelta(t, 4.5, p.Rating(), 1e-9)
	assert.Equal(t, 2, p.ReviewCount())
	assert.Equal(t, DefaultPurchaseLimit, p.PurchaseLimit)

	out, err := json.Marshal(p)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.InDelta(t, 4.5, doc["rating"], 1e-9)
	assert.EqualValues(t, 2, doc["reviews"])
	assert.Equal(t, []any{}, doc["colors"])
	assert.NotContains(t, doc, "originalPrice")
}
