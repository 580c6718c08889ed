// Package entity contains the core business objects of the storefront.
package entity

import (
	"encoding/json"
	"slices"
	"strings"
	"time"
)

// DefaultPurchaseLimit applies when a product is saved without an explicit limit.
const DefaultPurchaseLimit = 10

// ProductImageCount is the fixed number of gallery images every product carries.
const ProductImageCount = 3

// ProductImage is one gallery picture of a product.
type ProductImage struct {
	URL  string `json:"url"`
	Alt  string `json:"alt"`
	Hint string `json:"hint"`
}

// Product is a catalog entry. Rating and review count are derived from the
// detailed review list and can only change through the review methods.
type Product struct {
	ID            string                          // Creation timestamp in milliseconds, as a decimal string.
	Name          string                          // Display name.
	Description   string                          // Long description.
	Price         float64                         // Current selling price.
	OriginalPrice *float64                        // Price before discount, if any.
	Stock         int                             // Units on hand, never negative.
	Category      string                          // Category name.
	Colors        []string                        // Hex codes or color names, in display order.
	Sizes         []string                        // Size labels, in display order.
	Images        [ProductImageCount]ProductImage // Gallery images.
	PurchaseLimit int                             // Max units of this product per cart.
	CreatedAt     time.Time                       // Creation time.

	rating          float64
	reviewCount     int
	detailedReviews []Review
}

// NewProduct builds a product with an initial review list and derived fields already computed.
func NewProduct(p Product, reviews []Review) *Product {
	product := p
	product.detailedReviews = slices.Clone(reviews)
	product.normalize()
	product.recalculate()

	return &product
}

// Rating returns the mean of all review ratings, or 0 when there are none.
func (p *Product) Rating() float64 {
	return p.rating
}

// ReviewCount returns the number of detailed reviews.
func (p *Product) ReviewCount() int {
	return p.reviewCount
}

// DetailedReviews returns a copy of the review list.
func (p *Product) DetailedReviews() []Review {
	return slices.Clone(p.detailedReviews)
}

// FindReview returns the review with the given ID.
func (p *Product) FindReview(reviewID string) (Review, bool) {
	idx := p.reviewIndex(reviewID)
	if idx < 0 {
		return Review{}, false
	}

	return p.detailedReviews[idx], true
}

// AddReview appends a review and recalculates the aggregate.
func (p *Product) AddReview(review Review) error {
	if err := review.Validate(); err != nil {
		return err
	}

	p.detailedReviews = append(p.detailedReviews, review)
	p.recalculate()

	return nil
}

// UpdateReview replaces the rating and comment of an existing review and recalculates the aggregate.
func (p *Product) UpdateReview(reviewID string, rating int, comment string) (Review, error) {
	idx := p.reviewIndex(reviewID)
	if idx < 0 {
		return Review{}, ErrReviewMissing
	}

	updated := p.detailedReviews[idx]
	updated.Rating = rating
	updated.Comment = comment
	if err := updated.Validate(); err != nil {
		return Review{}, err
	}

	p.detailedReviews[idx] = updated
	p.recalculate()

	return updated, nil
}

// DeleteReview removes a review and recalculates the aggregate.
func (p *Product) DeleteReview(reviewID string) error {
	idx := p.reviewIndex(reviewID)
	if idx < 0 {
		return ErrReviewMissing
	}

	p.detailedReviews = slices.Delete(p.detailedReviews, idx, idx+1)
	p.recalculate()

	return nil
}

// ReplaceDetails copies the editable catalog fields from other, keeping ID, creation time and reviews.
func (p *Product) ReplaceDetails(other Product) {
	id, createdAt := p.ID, p.CreatedAt
	reviews := p.detailedReviews

	*p = other
	p.ID = id
	p.CreatedAt = createdAt
	p.detailedReviews = reviews
	p.normalize()
	p.recalculate()
}

// InStock reports whether at least one unit is available.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// MaxCartQuantity is the most units of this product a single cart may hold.
func (p *Product) MaxCartQuantity() int {
	return min(p.Stock, p.PurchaseLimit)
}

// Validate checks the invariants a product must satisfy before it is stored.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrProductNameRequired
	}
	if p.Price < 0 {
		return ErrProductPriceNegative
	}
	if p.Stock < 0 {
		return ErrProductStockNegative
	}
	if p.PurchaseLimit < 1 {
		return ErrProductPurchaseLimit
	}
	for _, img := range p.Images {
		if strings.TrimSpace(img.URL) == "" {
			return ErrProductImagesRequired
		}
	}

	return nil
}

func (p *Product) normalize() {
	if p.PurchaseLimit <= 0 {
		p.PurchaseLimit = DefaultPurchaseLimit
	}
	p.Category = strings.TrimSpace(p.Category)
}

// recalculate is the single place where rating and review count are written.
func (p *Product) recalculate() {
	p.reviewCount = len(p.detailedReviews)
	if p.reviewCount == 0 {
		p.rating = 0

		return
	}

	total := 0
	for _, r := range p.detailedReviews {
		total += r.Rating
	}
	p.rating = float64(total) / float64(p.reviewCount)
}

func (p *Product) reviewIndex(reviewID string) int {
	return slices.IndexFunc(p.detailedReviews, func(r Review) bool {
		return r.ID == reviewID
	})
}

// productDocument is the stored JSON shape of a product.
type productDocument struct {
	ID              string                          `json:"id"`
	Name            string                          `json:"name"`
	Description     string                          `json:"description"`
	Price           float64                         `json:"price"`
	OriginalPrice   *float64                        `json:"originalPrice,omitempty"`
	Stock           int                             `json:"stock"`
	Category        string                          `json:"category"`
	Colors          []string                        `json:"colors"`
	Sizes           []string                        `json:"sizes"`
	Images          [ProductImageCount]ProductImage `json:"images"`
	Rating          float64                         `json:"rating"`
	Reviews         int                             `json:"reviews"`
	DetailedReviews []Review                        `json:"detailedReviews"`
	PurchaseLimit   int                             `json:"purchaseLimit"`
	CreatedAt       time.Time                       `json:"createdAt"`
}

// MarshalJSON writes the product including its derived fields.
func (p Product) MarshalJSON() ([]byte, error) {
	reviews := p.detailedReviews
	if reviews == nil {
		reviews = []Review{}
	}

	return json.Marshal(productDocument{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		OriginalPrice:   p.OriginalPrice,
		Stock:           p.Stock,
		Category:        p.Category,
		Colors:          nonNil(p.Colors),
		Sizes:           nonNil(p.Sizes),
		Images:          p.Images,
		Rating:          p.rating,
		Reviews:         p.reviewCount,
		DetailedReviews: reviews,
		PurchaseLimit:   p.PurchaseLimit,
		CreatedAt:       p.CreatedAt,
	})
}

// UnmarshalJSON reads a product and recomputes the derived fields; stored rating/reviews are ignored.
func (p *Product) UnmarshalJSON(data []byte) error {
	var doc productDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	*p = Product{
		ID:              doc.ID,
		Name:            doc.Name,
		Description:     doc.Description,
		Price:           doc.Price,
		OriginalPrice:   doc.OriginalPrice,
		Stock:           doc.Stock,
		Category:        doc.Category,
		Colors:          doc.Colors,
		Sizes:           doc.Sizes,
		Images:          doc.Images,
		PurchaseLimit:   doc.PurchaseLimit,
		CreatedAt:       doc.CreatedAt,
		detailedReviews: doc.DetailedReviews,
	}
	p.normalize()
	p.recalculate()

	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}
