package service

import "context"

// ImageUploader stores an image and returns its public URL.
type ImageUploader interface {
	// Upload accepts a base64 data URL or an http(s) URL. Plain URLs may be returned unchanged.
	Upload(ctx context.Context, image, folder string) (string, error)
}
