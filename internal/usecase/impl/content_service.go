package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"emart/config"
	deliverycontext "emart/internal/delivery/context"
	"emart/internal/domain/entity"
	domainerrors "emart/internal/domain/errors"
	"emart/internal/domain/repository"
	"emart/internal/domain/service"
	"emart/internal/errors"
	"emart/internal/usecase"

	"go.uber.org/fx"
)

const paymentImageFolder = "payment"

// contentService implements the ContentUsecase interface.
type contentService struct {
	settingsRepo repository.SettingsRepository
	uploader     service.ImageUploader
	qrService    service.QRCodeService
	eventBus     service.EventBus
	merchantID   string
	now          func() time.Time
	logger       *slog.Logger
}

// ContentServiceParams holds dependencies for ContentService, injected by Fx.
type ContentServiceParams struct {
	fx.In

	SettingsRepo repository.SettingsRepository
	Uploader     service.ImageUploader
	QRService    service.QRCodeService
	EventBus     service.EventBus
	Config       *config.Config
	Logger       *slog.Logger
}

// NewContentService creates the content service.
func NewContentService(params ContentServiceParams) usecase.ContentUsecase {
	var merchantID string
	if params.Config != nil && params.Config.QRCode != nil {
		merchantID = strings.TrimSpace(params.Config.QRCode.MerchantID)
	}

	return &contentService{
		settingsRepo: params.SettingsRepo,
		uploader:     params.Uploader,
		qrService:    params.QRService,
		eventBus:     params.EventBus,
		merchantID:   merchantID,
		now:          time.Now,
		logger:       params.Logger,
	}
}

func (srv *contentService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *contentService) GetPages(ctx context.Context) (entity.PageContents, error) {
	pages, err := srv.settingsRepo.GetPageContents(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load pages")
	}

	return pages, nil
}

func (srv *contentService) GetPage(ctx context.Context, slug string) (*entity.PageContent, error) {
	pages, err := srv.GetPages(ctx)
	if err != nil {
		return nil, err
	}

	page, ok := pages[normalizeSlug(slug)]
	if !ok {
		return nil, errors.Wrap(domainerrors.ErrPageNotFound.WithDetails(slug), "failed to load page")
	}

	return &page, nil
}

func (srv *contentService) SavePage(ctx context.Context, slug string, input usecase.PageInput) (*entity.PageContent, error) {
	slug = normalizeSlug(slug)
	if slug == "" || strings.TrimSpace(input.Title) == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("page slug and title are required"), "invalid page")
	}

	page := entity.PageContent{
		Title:     strings.TrimSpace(input.Title),
		Content:   input.Content,
		UpdatedAt: srv.now(),
	}
	if _, err := srv.settingsRepo.UpdatePageContents(ctx, func(pages entity.PageContents) error {
		pages[slug] = page

		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "failed to save page")
	}

	srv.log(ctx).Info("Page saved", slog.String("slug", slug))
	publish(ctx, srv.eventBus, service.TopicPageContentUpdated)

	return &page, nil
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

func (srv *contentService) GetThemeCSS(ctx context.Context) (string, error) {
	css, err := srv.settingsRepo.GetThemeCSS(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to load theme")
	}

	return css, nil
}

func (srv *contentService) SetTheme(ctx context.Context, theme entity.Theme) (string, error) {
	css, err := theme.CSS()
	if err != nil {
		return "", errors.Wrap(domainerrors.ErrValidationFailed.WithDetails(err.Error()), "invalid theme")
	}

	if err := srv.settingsRepo.SetThemeCSS(ctx, css); err != nil {
		return "", errors.Wrap(err, "failed to save theme")
	}

	srv.log(ctx).Info("Theme updated")
	publish(ctx, srv.eventBus, service.TopicThemeUpdated)

	return css, nil
}

func (srv *contentService) GetPaymentQR(ctx context.Context) (string, error) {
	image, err := srv.settingsRepo.GetPaymentQR(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to load payment QR")
	}
	if image == "" {
		return "", errors.Wrap(domainerrors.ErrPaymentQRNotConfigured, "no payment QR uploaded")
	}

	return image, nil
}

func (srv *contentService) UploadPaymentQR(ctx context.Context, image string) (string, error) {
	if strings.TrimSpace(image) == "" {
		return "", errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("image is required"), "invalid payment QR")
	}

	url, err := srv.uploader.Upload(ctx, image, paymentImageFolder)
	if err != nil {
		srv.log(ctx).Error("Failed to upload payment QR", slog.Any("error", err))

		return "", errors.Wrap(domainerrors.ErrUploadFailed.WithDetails(err.Error()), "failed to upload payment QR")
	}

	if err := srv.settingsRepo.SetPaymentQR(ctx, url); err != nil {
		return "", errors.Wrap(err, "failed to save payment QR")
	}

	srv.log(ctx).Info("Payment QR updated")

	return url, nil
}

func (srv *contentService) GeneratePaymentQR(ctx context.Context, amount float64) ([]byte, error) {
	if srv.merchantID == "" {
		return nil, errors.Wrap(domainerrors.ErrPaymentQRNotConfigured, "no merchant id configured")
	}
	if amount < 0 {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("amount must not be negative"), "invalid amount")
	}

	png, err := srv.qrService.GeneratePaymentQR(srv.merchantID, amount)
	if err != nil {
		srv.log(ctx).Error("Failed to generate payment QR", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate payment QR")
	}

	return png, nil
}
