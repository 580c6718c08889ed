package impl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	deliverycontext "emart/internal/delivery/context"
	"emart/internal/domain/entity"
	"emart/internal/domain/repository"
	"emart/internal/domain/service"
	"emart/internal/errors"
	"emart/internal/usecase"

	"go.uber.org/fx"
)

// fallbackRecommendations is how many same-category products are suggested without the model.
const fallbackRecommendations = 2

// recommendationReply is the JSON shape requested from the model.
type recommendationReply struct {
	RecommendedProducts []string `json:"recommendedProducts"`
}

// catalogEntry is the product summary sent to the model.
type catalogEntry struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Rating    float64 `json:"rating"`
	Reviews   int     `json:"reviews"`
	CreatedAt string  `json:"createdAt"`
}

// recommendationService implements the RecommendationUsecase interface.
type recommendationService struct {
	productRepo repository.ProductRepository
	generator   service.TextGenerator
	logger      *slog.Logger
}

// RecommendationServiceParams holds dependencies for RecommendationService, injected by Fx.
type RecommendationServiceParams struct {
	fx.In

	ProductRepo repository.ProductRepository
	Generator   service.TextGenerator
	Logger      *slog.Logger
}

// NewRecommendationService creates the recommendation service.
func NewRecommendationService(params RecommendationServiceParams) usecase.RecommendationUsecase {
	return &recommendationService{
		productRepo: params.ProductRepo,
		generator:   params.Generator,
		logger:      params.Logger,
	}
}

func (srv *recommendationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Recommend keeps the model's suggestions that exist and were not already viewed. When the model
// fails or suggests nothing usable, it falls back to products sharing the last viewed product's category.
func (srv *recommendationService) Recommend(ctx context.Context, input usecase.RecommendationInput) ([]*entity.Product, error) {
	products, err := srv.productRepo.ListProducts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}
	if len(input.ViewingHistory) == 0 || len(products) == 0 {
		return []*entity.Product{}, nil
	}

	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	recommended, err := srv.ask(ctx, products, input)
	if err != nil {
		srv.log(ctx).Warn("Recommendation model failed, using category fallback", slog.Any("error", err))
	}

	picked := make([]*entity.Product, 0, len(recommended))
	seen := make(map[string]bool, len(recommended))
	for _, id := range recommended {
		p, ok := byID[id]
		if !ok || seen[id] || slices.Contains(input.ViewingHistory, id) {
			continue
		}
		seen[id] = true
		picked = append(picked, p)
	}
	if len(picked) > 0 {
		return picked, nil
	}

	return sameCategoryFallback(products, byID, input.ViewingHistory), nil
}

func (srv *recommendationService) ask(ctx context.Context, products []*entity.Product, input usecase.RecommendationInput) ([]string, error) {
	prompt, err := recommendationPrompt(products, input)
	if err != nil {
		return nil, err
	}

	var reply recommendationReply
	if err := srv.generator.GenerateJSON(ctx, prompt, &reply); err != nil {
		return nil, errors.Wrap(err, "failed to generate recommendations")
	}

	return reply.RecommendedProducts, nil
}

func recommendationPrompt(products []*entity.Product, input usecase.RecommendationInput) (string, error) {
	catalog := make([]catalogEntry, 0, len(products))
	for _, p := range products {
		catalog = append(catalog, catalogEntry{
			ID:        p.ID,
			Name:      p.Name,
			Category:  p.Category,
			Price:     p.Price,
			Rating:    p.Rating(),
			Reviews:   p.ReviewCount(),
			CreatedAt: p.CreatedAt.Format("2006-01-02"),
		})
	}
	catalogJSON, err := json.Marshal(catalog)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode catalog")
	}
	historyJSON, err := json.Marshal(input.ViewingHistory)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode viewing history")
	}

	var boosts []string
	if input.BoostPopularity {
		boosts = append(boosts, "prefer products with high ratings and many reviews")
	}
	if input.BoostRecency {
		boosts = append(boosts, "prefer recently added products")
	}
	guidance := "none"
	if len(boosts) > 0 {
		guidance = strings.Join(boosts, "; ")
	}

	return fmt.Sprintf(`You recommend products for an online store.
Catalog: %s
Product ids the shopper viewed, oldest first: %s
Extra guidance: %s
Suggest up to 4 catalog products the shopper has not viewed.
Reply with JSON only: {"recommendedProducts": [product id strings]}`,
		catalogJSON, historyJSON, guidance), nil
}

// sameCategoryFallback suggests products from the category of the most recently viewed product
// that still exists, excluding that product.
func sameCategoryFallback(products []*entity.Product, byID map[string]*entity.Product, history []string) []*entity.Product {
	var viewed *entity.Product
	for i := len(history) - 1; i >= 0 && viewed == nil; i-- {
		viewed = byID[history[i]]
	}
	if viewed == nil {
		return []*entity.Product{}
	}

	picked := make([]*entity.Product, 0, fallbackRecommendations)
	for _, p := range products {
		if len(picked) == fallbackRecommendations {
			break
		}
		if p.ID != viewed.ID && strings.EqualFold(p.Category, viewed.Category) {
			picked = append(picked, p)
		}
	}

	return picked
}
