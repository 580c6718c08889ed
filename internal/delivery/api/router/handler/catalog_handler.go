package handler

import (
	"log/slog"
	"net/http"

	"emart/internal/delivery/api/response"
	"emart/internal/domain/entity"
	domainerrors "emart/internal/domain/errors"
	"emart/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CatalogHandlerParams holds dependencies for CatalogHandler, injected by Fx.
type CatalogHandlerParams struct {
	fx.In

	CatalogUC usecase.CatalogUsecase
	ReviewUC  usecase.ReviewUsecase
	UserUC    usecase.UserUsecase
	Logger    *slog.Logger
}

// CatalogHandler serves products and their reviews.
type CatalogHandler struct {
	catalogUC usecase.CatalogUsecase
	reviewUC  usecase.ReviewUsecase
	userUC    usecase.UserUsecase
	logger    *slog.Logger
}

// NewCatalogHandler is the constructor for CatalogHandler
func NewCatalogHandler(params CatalogHandlerParams) *CatalogHandler {
	return &CatalogHandler{
		catalogUC: params.CatalogUC,
		reviewUC:  params.ReviewUC,
		userUC:    params.UserUC,
		logger:    params.Logger,
	}
}

// ProductImageRequest is one gallery image. URL may be a data URL to upload.
type ProductImageRequest struct {
	URL  string `json:"url" validate:"required"`
	Alt  string `json:"alt"`
	Hint string `json:"hint"`
}

// ProductRequest is the body of product create and update.
type ProductRequest struct {
	Name          string                `json:"name" validate:"required"`
	Description   string                `json:"description"`
	Price         float64               `json:"price" validate:"gte=0"`
	OriginalPrice *float64              `json:"originalPrice" validate:"omitnil,gte=0"`
	Stock         int                   `json:"stock" validate:"gte=0"`
	Category      string                `json:"category" validate:"required"`
	Colors        []string              `json:"colors"`
	Sizes         []string              `json:"sizes"`
	Images        []ProductImageRequest `json:"images" validate:"len=3,dive"`
	PurchaseLimit int                   `json:"purchaseLimit" validate:"gte=0"`
}

func (r ProductRequest) input() usecase.ProductInput {
	in := usecase.ProductInput{
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Stock:         r.Stock,
		Category:      r.Category,
		Colors:        r.Colors,
		Sizes:         r.Sizes,
		PurchaseLimit: r.PurchaseLimit,
	}
	for i, img := range r.Images[:entity.ProductImageCount] {
		in.Images[i] = entity.ProductImage(img)
	}

	return in
}

// StockRequest sets the units on hand.
type StockRequest struct {
	Stock *int `json:"stock" validate:"required,gte=0"`
}

// ReviewRequest is a customer review.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// ListProducts filters and sorts the catalog from query parameters:
// category, q, minPrice, maxPrice, inStock and sort.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	var (
		filter             usecase.ProductFilter
		minPrice, maxPrice float64
		sort               string
	)
	err := echo.QueryParamsBinder(c).
		String("category", &filter.Category).
		String("q", &filter.Search).
		Float64("minPrice", &minPrice).
		Float64("maxPrice", &maxPrice).
		Bool("inStock", &filter.InStockOnly).
		String("sort", &sort).
		BindError()
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid product query")
	}
	if c.QueryParam("minPrice") != "" {
		filter.MinPrice = &minPrice
	}
	if c.QueryParam("maxPrice") != "" {
		filter.MaxPrice = &maxPrice
	}
	filter.Sort = usecase.ProductSort(sort)

	products, err := h.catalogUC.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, products)
}

// GetProduct returns one product.
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	product, err := h.catalogUC.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, product)
}

// CreateProduct adds a product to the catalog.
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var req ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.catalogUC.CreateProduct(c.Request().Context(), req.input())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, product)
}

// UpdateProduct replaces the editable fields of a product.
func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	var req ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.catalogUC.UpdateProduct(c.Request().Context(), c.Param("id"), req.input())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, product)
}

// DeleteProduct removes a product. The route is PIN-guarded.
func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	if err := h.catalogUC.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return response.HandleAppError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// SetStock adjusts the units on hand.
func (h *CatalogHandler) SetStock(c echo.Context) error {
	var req StockRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.catalogUC.SetStock(c.Request().Context(), c.Param("id"), *req.Stock)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, product)
}

// AddReview posts a review authored by the logged-in customer.
func (h *CatalogHandler) AddReview(c echo.Context) error {
	userID, err := subject(c)
	if err != nil {
		return err
	}

	var req ReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.userUC.GetProfile(ctx, userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	product, err := h.reviewUC.AddReview(ctx, c.Param("id"), usecase.ReviewInput{
		Author:  user.Name,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, product)
}

// UpdateReview lets the owner edit a review.
func (h *CatalogHandler) UpdateReview(c echo.Context) error {
	var req ReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.reviewUC.UpdateReview(c.Request().Context(), c.Param("id"), c.Param("reviewId"), req.Rating, req.Comment)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, product)
}

// DeleteReview lets the owner remove a review.
func (h *CatalogHandler) DeleteReview(c echo.Context) error {
	product, err := h.reviewUC.DeleteReview(c.Request().Context(), c.Param("id"), c.Param("reviewId"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, product)
}
