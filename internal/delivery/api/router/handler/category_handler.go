package handler

import (
	"log/slog"

	"emart/internal/delivery/api/response"
	"emart/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CategoryHandlerParams holds dependencies for CategoryHandler, injected by Fx.
type CategoryHandlerParams struct {
	fx.In

	CategoryUC usecase.CategoryUsecase
	Logger     *slog.Logger
}

// CategoryHandler serves the category list.
type CategoryHandler struct {
	categoryUC usecase.CategoryUsecase
	logger     *slog.Logger
}

// NewCategoryHandler is the constructor for CategoryHandler
func NewCategoryHandler(params CategoryHandlerParams) *CategoryHandler {
	return &CategoryHandler{
		categoryUC: params.CategoryUC,
		logger:     params.Logger,
	}
}

// CategoryRequest names a category.
type CategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// ListCategories returns every category in stored order.
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.categoryUC.ListCategories(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, categories)
}

// AddCategory appends a category.
func (h *CategoryHandler) AddCategory(c echo.Context) error {
	var req CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	categories, err := h.categoryUC.AddCategory(c.Request().Context(), req.Name)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, categories)
}

// RenameCategory renames :name and moves its products.
func (h *CategoryHandler) RenameCategory(c echo.Context) error {
	var req CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	categories, err := h.categoryUC.RenameCategory(c.Request().Context(), c.Param("name"), req.Name)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, categories)
}

// DeleteCategory removes an unused category.
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	categories, err := h.categoryUC.DeleteCategory(c.Request().Context(), c.Param("name"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, categories)
}
