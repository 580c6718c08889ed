package document

import (
	"context"

	"emart/internal/domain/constants"
	"emart/internal/domain/entity"
	"emart/internal/domain/repository"
)

type settingsRepository struct {
	store *Store
}

// NewSettingsRepository stores pages, theme CSS and the payment QR under their own keys.
func NewSettingsRepository(store *Store) repository.SettingsRepository {
	return &settingsRepository{store: store}
}

func emptyPages() entity.PageContents {
	return entity.PageContents{}
}

func emptyString() string {
	return ""
}

func (r *settingsRepository) GetPageContents(ctx context.Context) (entity.PageContents, error) {
	pages, _, err := read(ctx, r.store, constants.KeyPageContents, emptyPages)

	return pages, err
}

func (r *settingsRepository) UpdatePageContents(ctx context.Context, fn func(pages entity.PageContents) error) (entity.PageContents, error) {
	return update(ctx, r.store, constants.KeyPageContents, emptyPages, func(pages entity.PageContents) (entity.PageContents, error) {
		if err := fn(pages); err != nil {
			return nil, err
		}

		return pages, nil
	})
}

func (r *settingsRepository) GetThemeCSS(ctx context.Context) (string, error) {
	css, _, err := read(ctx, r.store, constants.KeyThemeCSS, emptyString)

	return css, err
}

func (r *settingsRepository) SetThemeCSS(ctx context.Context, css string) error {
	_, err := update(ctx, r.store, constants.KeyThemeCSS, emptyString, func(string) (string, error) {
		return css, nil
	})

	return err
}

func (r *settingsRepository) GetPaymentQR(ctx context.Context) (string, error) {
	url, _, err := read(ctx, r.store, constants.KeyEsewaQRCode, emptyString)

	return url, err
}

func (r *settingsRepository) SetPaymentQR(ctx context.Context, imageURL string) error {
	_, err := update(ctx, r.store, constants.KeyEsewaQRCode, emptyString, func(string) (string, error) {
		return imageURL, nil
	})

	return err
}
