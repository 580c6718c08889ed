package usecase

import (
	"context"

	"emart/internal/domain/entity"
)

// PageInput is an owner edit of a static page.
type PageInput struct {
	Title   string
	Content string
}

// ContentUsecase manages static pages, the theme and the payment QR code.
type ContentUsecase interface {
	GetPages(ctx context.Context) (entity.PageContents, error)
	GetPage(ctx context.Context, slug string) (*entity.PageContent, error)
	SavePage(ctx context.Context, slug string, input PageInput) (*entity.PageContent, error)

	// GetThemeCSS returns the stored stylesheet, or "" when the default theme is in use.
	GetThemeCSS(ctx context.Context) (string, error)
	// SetTheme renders theme to CSS and stores it.
	SetTheme(ctx context.Context, theme entity.Theme) (string, error)

	// GetPaymentQR returns the uploaded QR image URL.
	GetPaymentQR(ctx context.Context) (string, error)
	UploadPaymentQR(ctx context.Context, image string) (string, error)
	// GeneratePaymentQR renders a PNG for the configured merchant. An amount of 0 leaves it open.
	GeneratePaymentQR(ctx context.Context, amount float64) ([]byte, error)
}
