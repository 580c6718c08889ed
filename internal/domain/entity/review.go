package entity

import (
	"strings"
	"time"
)

// Review rating bounds.
const (
	MinReviewRating = 1
	MaxReviewRating = 5
)

// Review is a single customer-authored rating and comment attached to one product.
type Review struct {
	ID      string    `json:"id"`
	Author  string    `json:"author"`
	Rating  int       `json:"rating"`
	Comment string    `json:"comment"`
	Date    time.Time `json:"date"`
}

// Validate checks the rating range and that an author is present.
func (r Review) Validate() error {
	if r.Rating < MinReviewRating || r.Rating > MaxReviewRating {
		return ErrReviewRatingRange
	}
	if strings.TrimSpace(r.Author) == "" {
		return ErrReviewAuthorRequired
	}

	return nil
}
