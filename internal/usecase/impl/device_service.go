package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "emart/internal/delivery/context"
	"emart/internal/domain/entity"
	domainerrors "emart/internal/domain/errors"
	"emart/internal/domain/repository"
	"emart/internal/errors"
	"emart/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type deviceService struct {
	deviceRepo repository.DeviceRepository
	now        func() time.Time
	logger     *slog.Logger
}

// DeviceServiceParams holds dependencies for DeviceService, injected by Fx.
type DeviceServiceParams struct {
	fx.In

	DeviceRepo repository.DeviceRepository
	Logger     *slog.Logger
}

// NewDeviceService creates a new device service instance
func NewDeviceService(params DeviceServiceParams) usecase.DeviceUsecase {
	return &deviceService{
		deviceRepo: params.DeviceRepo,
		now:        time.Now,
		logger:     params.Logger,
	}
}

func (s *deviceService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// RegisterDevice registers a new device or updates an existing one
func (s *deviceService) RegisterDevice(ctx context.Context, deviceInfo *usecase.DeviceInfo) (*entity.OwnerDevice, error) {
	if strings.TrimSpace(deviceInfo.FCMToken) == "" || strings.TrimSpace(deviceInfo.DeviceID) == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("fcm_token and device_id are required"), "invalid device")
	}

	devices, err := s.deviceRepo.FindDevices(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find devices")
	}

	// Look for existing device with same device_id
	for _, device := range devices {
		if device.DeviceID == deviceInfo.DeviceID {
			if err := s.deviceRepo.UpdateFCMToken(ctx, device.ID, deviceInfo.FCMToken); err != nil {
				return nil, errors.Wrap(err, "failed to update FCM token")
			}

			updatedDevice, err := s.deviceRepo.FindDeviceByID(ctx, device.ID)
			if err != nil {
				return nil, errors.Wrap(err, "failed to find device by ID")
			}
			s.log(ctx).Info("Owner device refreshed", slog.String("deviceID", device.ID.String()))

			return updatedDevice, nil
		}
	}

	now := s.now()
	device := &entity.OwnerDevice{
		ID:        uuid.New(),
		FCMToken:  deviceInfo.FCMToken,
		DeviceID:  deviceInfo.DeviceID,
		Platform:  deviceInfo.Platform,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.deviceRepo.CreateDevice(ctx, device); err != nil {
		return nil, errors.Wrap(err, "failed to create device")
	}
	s.log(ctx).Info("Owner device registered", slog.String("deviceID", device.ID.String()), slog.String("platform", device.Platform))

	return device, nil
}

// UpdateFCMToken updates the FCM token for a specific device
func (s *deviceService) UpdateFCMToken(ctx context.Context, deviceID uuid.UUID, fcmToken string) error {
	if err := s.deviceRepo.UpdateFCMToken(ctx, deviceID, fcmToken); err != nil {
		return mapDeviceError(err, "failed to update FCM token")
	}

	return nil
}

// GetDevices retrieves all active owner devices
func (s *deviceService) GetDevices(ctx context.Context) ([]*entity.OwnerDevice, error) {
	devices, err := s.deviceRepo.FindActiveDevices(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find active devices")
	}

	return devices, nil
}

// DeactivateDevice unregisters a device so it stops receiving alerts
func (s *deviceService) DeactivateDevice(ctx context.Context, deviceID uuid.UUID) error {
	if err := s.deviceRepo.DeleteDevice(ctx, deviceID); err != nil {
		return mapDeviceError(err, "failed to delete device")
	}

	return nil
}

func mapDeviceError(err error, message string) error {
	if errors.Is(err, repository.ErrDeviceNotFound) {
		return errors.Wrap(domainerrors.ErrDeviceNotFound, message)
	}

	return errors.Wrap(err, message)
}
