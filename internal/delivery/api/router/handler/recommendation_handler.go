package handler

import (
	"log/slog"

	"emart/internal/delivery/api/response"
	"emart/internal/domain/entity"
	"emart/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RecommendationHandlerParams holds dependencies for RecommendationHandler, injected by Fx.
type RecommendationHandlerParams struct {
	fx.In

	RecommendationUC usecase.RecommendationUsecase
	Logger           *slog.Logger
}

// RecommendationHandler serves product recommendations.
type RecommendationHandler struct {
	recommendationUC usecase.RecommendationUsecase
	logger           *slog.Logger
}

// NewRecommendationHandler is the constructor for RecommendationHandler
func NewRecommendationHandler(params RecommendationHandlerParams) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationUC: params.RecommendationUC,
		logger:           params.Logger,
	}
}

// RecommendationRequest lists viewed product ids, most recent last.
type RecommendationRequest struct {
	ViewingHistory  []string `json:"viewingHistory"`
	BoostPopularity bool     `json:"boostPopularity"`
	BoostRecency    bool     `json:"boostRecency"`
}

// RecommendationResponse holds the recommended products.
type RecommendationResponse struct {
	RecommendedProducts []*entity.Product `json:"recommendedProducts"`
}

// Recommend suggests products based on the viewing history.
func (h *RecommendationHandler) Recommend(c echo.Context) error {
	var req RecommendationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	products, err := h.recommendationUC.Recommend(c.Request().Context(), usecase.RecommendationInput(req))
	if err != nil {
		return response.HandleAppError(c, err)
	}
	if products == nil {
		products = []*entity.Product{}
	}

	return response.OK(c, RecommendationResponse{RecommendedProducts: products})
}
