package repository

import (
	"context"

	"emart/internal/domain/entity"
)

// SettingsRepository stores the single-document storefront settings: static pages, theme CSS and payment QR image.
type SettingsRepository interface {
	GetPageContents(ctx context.Context) (entity.PageContents, error)
	UpdatePageContents(ctx context.Context, fn func(pages entity.PageContents) error) (entity.PageContents, error)

	// GetThemeCSS returns the stored stylesheet, or "" when none was saved.
	GetThemeCSS(ctx context.Context) (string, error)
	SetThemeCSS(ctx context.Context, css string) error

	// GetPaymentQR returns the stored QR image URL, or "" when none was uploaded.
	GetPaymentQR(ctx context.Context) (string, error)
	SetPaymentQR(ctx context.Context, imageURL string) error
}
