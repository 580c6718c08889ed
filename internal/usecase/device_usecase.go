package usecase

import (
	"context"

	"emart/internal/domain/entity"

	"github.com/google/uuid"
)

// DeviceInfo represents device information for registration
type DeviceInfo struct {
	FCMToken string `json:"fcm_token"`
	DeviceID string `json:"device_id"`
	Platform string `json:"platform"`
}

// DeviceUsecase defines the interface for owner device management use cases
type DeviceUsecase interface {
	// RegisterDevice registers a new device or updates an existing one
	RegisterDevice(ctx context.Context, deviceInfo *DeviceInfo) (*entity.OwnerDevice, error)

	// UpdateFCMToken updates the FCM token for a specific device
	UpdateFCMToken(ctx context.Context, deviceID uuid.UUID, fcmToken string) error

	// GetDevices retrieves all active owner devices
	GetDevices(ctx context.Context) ([]*entity.OwnerDevice, error)

	// DeactivateDevice deactivates a device (soft delete)
	DeactivateDevice(ctx context.Context, deviceID uuid.UUID) error
}
