// Package upload stores product and payment QR images.
package upload

import (
	"context"
	"log/slog"
	"strings"

	"emart/config"
	"emart/internal/domain/service"
	"emart/internal/errors"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ErrUnsupportedImage is returned for values that are neither data URLs nor http(s) URLs.
var ErrUnsupportedImage = errors.New("image must be a data URL or an http(s) URL")

func isDataURL(image string) bool {
	return strings.HasPrefix(image, "data:image/")
}

func isRemoteURL(image string) bool {
	return strings.HasPrefix(image, "https://") || strings.HasPrefix(image, "http://")
}

// cloudinaryAPI is the upload call of *cloudinary.Cloudinary.
type cloudinaryAPI interface {
	Upload(ctx context.Context, file any, params uploader.UploadParams) (*uploader.UploadResult, error)
}

type cloudinaryUploader struct {
	api        cloudinaryAPI
	baseFolder string
}

// passthroughUploader keeps images as given. Data URLs are stored inline in the document.
type passthroughUploader struct{}

// NewImageUploader uses Cloudinary when cloudinary.url is set and stores images inline otherwise.
func NewImageUploader(cfg *config.Config, logger *slog.Logger) (service.ImageUploader, error) {
	if cfg.Cloudinary == nil || cfg.Cloudinary.URL == "" {
		logger.Info("Cloudinary not configured, images are stored as given")

		return passthroughUploader{}, nil
	}

	cld, err := cloudinary.NewFromURL(cfg.Cloudinary.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Cloudinary client")
	}

	return &cloudinaryUploader{api: &cld.Upload, baseFolder: cfg.Cloudinary.Folder}, nil
}

// Upload sends data URLs to Cloudinary and returns the secure URL. Remote URLs are already hosted.
func (u *cloudinaryUploader) Upload(ctx context.Context, image, folder string) (string, error) {
	switch {
	case isRemoteURL(image):
		return image, nil
	case !isDataURL(image):
		return "", ErrUnsupportedImage
	}

	result, err := u.api.Upload(ctx, image, uploader.UploadParams{Folder: u.folder(folder)})
	if err != nil {
		return "", errors.Wrap(err, "cloudinary upload")
	}
	if result.Error.Message != "" {
		return "", errors.Errorf("cloudinary upload: %s", result.Error.Message)
	}

	return result.SecureURL, nil
}

func (u *cloudinaryUploader) folder(sub string) string {
	switch {
	case u.baseFolder == "":
		return sub
	case sub == "":
		return u.baseFolder
	default:
		return u.baseFolder + "/" + sub
	}
}

func (passthroughUploader) Upload(_ context.Context, image, _ string) (string, error) {
	if !isDataURL(image) && !isRemoteURL(image) {
		return "", ErrUnsupportedImage
	}

	return image, nil
}
