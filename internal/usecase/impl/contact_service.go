package impl

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	deliverycontext "emart/internal/delivery/context"
	"emart/internal/domain/entity"
	domainerrors "emart/internal/domain/errors"
	"emart/internal/domain/repository"
	"emart/internal/domain/service"
	"emart/internal/errors"
	"emart/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// contactService implements the ContactUsecase interface.
type contactService struct {
	contactRepo repository.ContactMessageRepository
	eventBus    service.EventBus
	now         func() time.Time
	logger      *slog.Logger
}

// ContactServiceParams holds dependencies for ContactService, injected by Fx.
type ContactServiceParams struct {
	fx.In

	ContactRepo repository.ContactMessageRepository
	EventBus    service.EventBus
	Logger      *slog.Logger
}

// NewContactService creates the contact service.
func NewContactService(params ContactServiceParams) usecase.ContactUsecase {
	return &contactService{
		contactRepo: params.ContactRepo,
		eventBus:    params.EventBus,
		now:         time.Now,
		logger:      params.Logger,
	}
}

func (srv *contactService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *contactService) Submit(ctx context.Context, input usecase.ContactInput) (*entity.ContactMessage, error) {
	msg := &entity.ContactMessage{
		ID:      uuid.NewString(),
		Name:    strings.TrimSpace(input.Name),
		Email:   entity.NormalizeEmail(input.Email),
		Subject: strings.TrimSpace(input.Subject),
		Message: strings.TrimSpace(input.Message),
		Date:    srv.now(),
	}
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("name, email and message are required"), "invalid contact message")
	}

	if err := srv.contactRepo.CreateContactMessage(ctx, msg); err != nil {
		return nil, errors.Wrap(err, "failed to save contact message")
	}

	srv.log(ctx).Info("Contact message received", slog.String("messageID", msg.ID))
	publish(ctx, srv.eventBus, service.TopicContactMessagesUpdated)

	return msg, nil
}

func (srv *contactService) ListMessages(ctx context.Context) ([]*entity.ContactMessage, error) {
	messages, err := srv.contactRepo.ListContactMessages(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list contact messages")
	}

	slices.SortStableFunc(messages, func(a, b *entity.ContactMessage) int {
		return b.Date.Compare(a.Date)
	})

	return messages, nil
}

func (srv *contactService) MarkRead(ctx context.Context, id string) (*entity.ContactMessage, error) {
	msg, err := srv.contactRepo.UpdateContactMessage(ctx, id, func(msg *entity.ContactMessage) error {
		msg.IsRead = true

		return nil
	})
	if err != nil {
		return nil, mapContactError(err, "failed to mark message read")
	}

	publish(ctx, srv.eventBus, service.TopicContactMessagesUpdated)

	return msg, nil
}

func (srv *contactService) DeleteMessage(ctx context.Context, id string) error {
	if err := srv.contactRepo.DeleteContactMessage(ctx, id); err != nil {
		return mapContactError(err, "failed to delete contact message")
	}

	publish(ctx, srv.eventBus, service.TopicContactMessagesUpdated)

	return nil
}

func mapContactError(err error, message string) error {
	if errors.Is(err, repository.ErrContactMessageNotFound) {
		return errors.Wrap(domainerrors.ErrContactMessageNotFound, message)
	}

	return errors.Wrap(err, message)
}
