package repository

import (
	"context"

	"emart/internal/domain/entity"
	"emart/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for device persistence.
var (
	// ErrDeviceNotFound is returned when a device is not found.
	ErrDeviceNotFound = errors.New("device not found")
	// ErrDuplicateDevice is returned when trying to create a device that already exists.
	ErrDuplicateDevice = errors.New("device already exists")
)

// DeviceRepository defines the persistence operations for owner push devices.
type DeviceRepository interface {
	// CreateDevice persists a new device.
	CreateDevice(ctx context.Context, device *entity.OwnerDevice) error

	// FindDeviceByID retrieves a device by its unique ID.
	FindDeviceByID(ctx context.Context, id uuid.UUID) (*entity.OwnerDevice, error)

	// FindDevices retrieves all registered devices (including inactive).
	FindDevices(ctx context.Context) ([]*entity.OwnerDevice, error)

	// FindActiveDevices retrieves all active devices.
	FindActiveDevices(ctx context.Context) ([]*entity.OwnerDevice, error)

	// UpdateFCMToken updates the FCM token for a specific device and reactivates it.
	UpdateFCMToken(ctx context.Context, deviceID uuid.UUID, fcmToken string) error

	// DeleteDevice deactivates a device by its ID (soft delete).
	DeleteDevice(ctx context.Context, id uuid.UUID) error

	// DeactivateTokens deactivates every device holding one of the given tokens.
	DeactivateTokens(ctx context.Context, tokens []string) error
}
