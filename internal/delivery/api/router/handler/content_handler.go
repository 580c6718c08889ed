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

const mimeTextCSS = "text/css; charset=utf-8"

// ContentHandlerParams holds dependencies for ContentHandler, injected by Fx.
type ContentHandlerParams struct {
	fx.In

	ContentUC usecase.ContentUsecase
	Logger    *slog.Logger
}

// ContentHandler serves pages, the theme stylesheet and the payment QR code.
type ContentHandler struct {
	contentUC usecase.ContentUsecase
	logger    *slog.Logger
}

// NewContentHandler is the constructor for ContentHandler
func NewContentHandler(params ContentHandlerParams) *ContentHandler {
	return &ContentHandler{
		contentUC: params.ContentUC,
		logger:    params.Logger,
	}
}

// PageRequest is the body of a page upsert.
type PageRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
}

// ThemeRequest holds the three theme colors as hex codes or HSL triples.
type ThemeRequest struct {
	Primary    string `json:"primary" validate:"required"`
	Background string `json:"background" validate:"required"`
	Accent     string `json:"accent" validate:"required"`
}

// PaymentQRRequest carries the QR image as a data URL or a hosted URL.
type PaymentQRRequest struct {
	Image string `json:"image" validate:"required"`
}

// PaymentQRResponse is the stored QR image reference.
type PaymentQRResponse struct {
	Image string `json:"image"`
}

// ThemeResponse is the rendered stylesheet.
type ThemeResponse struct {
	CSS string `json:"css"`
}

// GetPages returns every page keyed by slug.
func (h *ContentHandler) GetPages(c echo.Context) error {
	pages, err := h.contentUC.GetPages(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, pages)
}

// GetPage returns one page.
func (h *ContentHandler) GetPage(c echo.Context) error {
	page, err := h.contentUC.GetPage(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, page)
}

// SavePage creates or replaces a page.
func (h *ContentHandler) SavePage(c echo.Context) error {
	var req PageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	page, err := h.contentUC.SavePage(c.Request().Context(), c.Param("slug"), usecase.PageInput(req))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, page)
}

// GetThemeCSS serves the stored stylesheet as text/css. It is empty until the owner sets a theme.
func (h *ContentHandler) GetThemeCSS(c echo.Context) error {
	css, err := h.contentUC.GetThemeCSS(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return c.Blob(http.StatusOK, mimeTextCSS, []byte(css))
}

// SetTheme renders and stores a new theme.
func (h *ContentHandler) SetTheme(c echo.Context) error {
	var req ThemeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	css, err := h.contentUC.SetTheme(c.Request().Context(), entity.Theme(req))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, ThemeResponse{CSS: css})
}

// GetPaymentQR returns the uploaded eSewa QR image.
func (h *ContentHandler) GetPaymentQR(c echo.Context) error {
	image, err := h.contentUC.GetPaymentQR(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, PaymentQRResponse{Image: image})
}

// UploadPaymentQR replaces the eSewa QR image.
func (h *ContentHandler) UploadPaymentQR(c echo.Context) error {
	var req PaymentQRRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	image, err := h.contentUC.UploadPaymentQR(c.Request().Context(), req.Image)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, PaymentQRResponse{Image: image})
}

// PaymentQRPNG renders a QR code for the configured merchant, with an optional ?amount=.
func (h *ContentHandler) PaymentQRPNG(c echo.Context) error {
	var amount float64
	if err := echo.QueryParamsBinder(c).Float64("amount", &amount).BindError(); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("amount must be a number")
	}

	png, err := h.contentUC.GeneratePaymentQR(c.Request().Context(), amount)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}
