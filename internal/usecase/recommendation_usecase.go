package usecase

import (
	"context"

	"emart/internal/domain/entity"
)

// RecommendationInput describes what the shopper looked at, most recent last.
type RecommendationInput struct {
	ViewingHistory  []string
	BoostPopularity bool
	BoostRecency    bool
}

// RecommendationUsecase suggests products. It never fails because the model is unavailable.
type RecommendationUsecase interface {
	Recommend(ctx context.Context, input RecommendationInput) ([]*entity.Product, error)
}
