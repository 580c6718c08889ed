package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "emart/internal/delivery/context"
	"emart/internal/domain/entity"
	"emart/internal/domain/repository"
	"emart/internal/domain/service"
	"emart/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// reviewService implements the ReviewUsecase interface.
type reviewService struct {
	productRepo repository.ProductRepository
	eventBus    service.EventBus
	now         func() time.Time
	logger      *slog.Logger
}

// ReviewServiceParams holds dependencies for ReviewService, injected by Fx.
type ReviewServiceParams struct {
	fx.In

	ProductRepo repository.ProductRepository
	EventBus    service.EventBus
	Logger      *slog.Logger
}

// NewReviewService creates the review service.
func NewReviewService(params ReviewServiceParams) usecase.ReviewUsecase {
	return &reviewService{
		productRepo: params.ProductRepo,
		eventBus:    params.EventBus,
		now:         time.Now,
		logger:      params.Logger,
	}
}

func (srv *reviewService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *reviewService) AddReview(ctx context.Context, productID string, input usecase.ReviewInput) (*entity.Product, error) {
	review := entity.Review{
		ID:      uuid.NewString(),
		Author:  strings.TrimSpace(input.Author),
		Rating:  input.Rating,
		Comment: strings.TrimSpace(input.Comment),
		Date:    srv.now(),
	}

	product, err := srv.productRepo.UpdateProduct(ctx, productID, func(p *entity.Product) error {
		return p.AddReview(review)
	})
	if err != nil {
		return nil, mapProductError(err, "failed to add review")
	}

	srv.log(ctx).Info("Review added",
		slog.String("productID", productID),
		slog.Int("rating", review.Rating),
		slog.Float64("productRating", product.Rating()),
	)
	publish(ctx, srv.eventBus, service.TopicProductUpdated)

	return product, nil
}

func (srv *reviewService) UpdateReview(ctx context.Context, productID, reviewID string, rating int, comment string) (*entity.Product, error) {
	product, err := srv.productRepo.UpdateProduct(ctx, productID, func(p *entity.Product) error {
		_, err := p.UpdateReview(reviewID, rating, strings.TrimSpace(comment))

		return err
	})
	if err != nil {
		return nil, mapProductError(err, "failed to update review")
	}

	publish(ctx, srv.eventBus, service.TopicProductUpdated)

	return product, nil
}

func (srv *reviewService) DeleteReview(ctx context.Context, productID, reviewID string) (*entity.Product, error) {
	product, err := srv.productRepo.UpdateProduct(ctx, productID, func(p *entity.Product) error {
		return p.DeleteReview(reviewID)
	})
	if err != nil {
		return nil, mapProductError(err, "failed to delete review")
	}

	srv.log(ctx).Info("Review deleted", slog.String("productID", productID), slog.String("reviewID", reviewID))
	publish(ctx, srv.eventBus, service.TopicProductUpdated)

	return product, nil
}
