package document

import (
	"context"
	"slices"
	"time"

	"emart/internal/domain/constants"
	"emart/internal/domain/entity"
	"emart/internal/domain/repository"

	"github.com/google/uuid"
)

// deviceRepository implements the repository.DeviceRepository interface.
type deviceRepository struct {
	store *Store
}

// NewDeviceRepository stores owner devices under the "ownerDevices" key.
func NewDeviceRepository(store *Store) repository.DeviceRepository {
	return &deviceRepository{store: store}
}

func emptyDevices() []*entity.OwnerDevice {
	return []*entity.OwnerDevice{}
}

// CreateDevice persists a new device.
func (repo *deviceRepository) CreateDevice(ctx context.Context, device *entity.OwnerDevice) error {
	_, err := update(ctx, repo.store, constants.KeyOwnerDevices, emptyDevices, func(devices []*entity.OwnerDevice) ([]*entity.OwnerDevice, error) {
		if slices.ContainsFunc(devices, func(d *entity.OwnerDevice) bool {
			return d.ID == device.ID || d.DeviceID == device.DeviceID
		}) {
			return nil, repository.ErrDuplicateDevice
		}

		return append(devices, device), nil
	})

	return err
}

// FindDeviceByID retrieves a device by its unique ID.
func (repo *deviceRepository) FindDeviceByID(ctx context.Context, id uuid.UUID) (*entity.OwnerDevice, error) {
	devices, err := repo.FindDevices(ctx)
	if err != nil {
		return nil, err
	}

	idx := deviceIndex(devices, id)
	if idx < 0 {
		return nil, repository.ErrDeviceNotFound
	}

	return devices[idx], nil
}

// FindDevices retrieves all devices, newest first.
func (repo *deviceRepository) FindDevices(ctx context.Context) ([]*entity.OwnerDevice, error) {
	devices, _, err := read(ctx, repo.store, constants.KeyOwnerDevices, emptyDevices)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(devices, func(a, b *entity.OwnerDevice) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return devices, nil
}

// FindActiveDevices retrieves all active devices.
func (repo *deviceRepository) FindActiveDevices(ctx context.Context) ([]*entity.OwnerDevice, error) {
	devices, err := repo.FindDevices(ctx)
	if err != nil {
		return nil, err
	}

	return slices.DeleteFunc(devices, func(d *entity.OwnerDevice) bool {
		return !d.IsActive
	}), nil
}

// UpdateFCMToken updates the FCM token for a specific device.
func (repo *deviceRepository) UpdateFCMToken(ctx context.Context, deviceID uuid.UUID, fcmToken string) error {
	return repo.modify(ctx, func(devices []*entity.OwnerDevice) error {
		idx := deviceIndex(devices, deviceID)
		if idx < 0 {
			return repository.ErrDeviceNotFound
		}
		devices[idx].FCMToken = fcmToken
		devices[idx].IsActive = true
		devices[idx].UpdatedAt = time.Now()

		return nil
	})
}

// DeleteDevice deactivates a device (soft delete).
func (repo *deviceRepository) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	return repo.modify(ctx, func(devices []*entity.OwnerDevice) error {
		idx := deviceIndex(devices, id)
		if idx < 0 {
			return repository.ErrDeviceNotFound
		}
		devices[idx].IsActive = false
		devices[idx].UpdatedAt = time.Now()

		return nil
	})
}

// DeactivateTokens deactivates every device holding one of tokens.
func (repo *deviceRepository) DeactivateTokens(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}

	return repo.modify(ctx, func(devices []*entity.OwnerDevice) error {
		now := time.Now()
		for _, d := range devices {
			if d.IsActive && slices.Contains(tokens, d.FCMToken) {
				d.IsActive = false
				d.UpdatedAt = now
			}
		}

		return nil
	})
}

func (repo *deviceRepository) modify(ctx context.Context, fn func(devices []*entity.OwnerDevice) error) error {
	_, err := update(ctx, repo.store, constants.KeyOwnerDevices, emptyDevices, func(devices []*entity.OwnerDevice) ([]*entity.OwnerDevice, error) {
		if err := fn(devices); err != nil {
			return nil, err
		}

		return devices, nil
	})

	return err
}

func deviceIndex(devices []*entity.OwnerDevice, id uuid.UUID) int {
	return slices.IndexFunc(devices, func(d *entity.OwnerDevice) bool {
		return d.ID == id
	})
}
