package impl

import (
	"cmp"
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

// maxPushBodyLength caps the message preview shown in a push notification.
const maxPushBodyLength = 120

// chatService implements the ChatUsecase interface.
type chatService struct {
	conversationRepo repository.ConversationRepository
	deviceRepo       repository.DeviceRepository
	notifier         service.NotificationService
	eventBus         service.EventBus
	now              func() time.Time
	logger           *slog.Logger
}

// ChatServiceParams holds dependencies for ChatService, injected by Fx.
type ChatServiceParams struct {
	fx.In

	ConversationRepo repository.ConversationRepository
	DeviceRepo       repository.DeviceRepository
	Notifier         service.NotificationService `optional:"true"`
	EventBus         service.EventBus
	Logger           *slog.Logger
}

// NewChatService creates the chat service. Without a notifier no push alerts are sent.
func NewChatService(params ChatServiceParams) usecase.ChatUsecase {
	return &chatService{
		conversationRepo: params.ConversationRepo,
		deviceRepo:       params.DeviceRepo,
		notifier:         params.Notifier,
		eventBus:         params.EventBus,
		now:              time.Now,
		logger:           params.Logger,
	}
}

func (srv *chatService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *chatService) GetConversation(ctx context.Context, customerID, customerName string) (*entity.Conversation, error) {
	conv, err := srv.conversationRepo.FindConversation(ctx, customerID)
	if errors.Is(err, repository.ErrConversationNotFound) {
		return &entity.Conversation{
			CustomerID:   customerID,
			CustomerName: customerName,
			Messages:     []entity.ChatMessage{},
		}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load conversation")
	}
	if conv.UnreadFor(entity.SenderCustomer) == 0 {
		return conv, nil
	}

	return srv.markRead(ctx, customerID, entity.SenderCustomer)
}

func (srv *chatService) OpenConversation(ctx context.Context, customerID string) (*entity.Conversation, error) {
	return srv.markRead(ctx, customerID, entity.SenderOwner)
}

// markRead marks the other party's messages as read by reader.
func (srv *chatService) markRead(ctx context.Context, customerID string, reader entity.Sender) (*entity.Conversation, error) {
	changed := 0
	conv, err := srv.conversationRepo.UpdateConversation(ctx, customerID, func(conv *entity.Conversation) error {
		changed = conv.MarkReadBy(reader)

		return nil
	})
	if err != nil {
		return nil, mapConversationError(err, "failed to open conversation")
	}

	if changed > 0 {
		publish(ctx, srv.eventBus, service.TopicConversationsUpdated)
	}

	return conv, nil
}

func (srv *chatService) SendCustomerMessage(ctx context.Context, customerID, customerName, text string) (*entity.Conversation, error) {
	msg := srv.newMessage(entity.SenderCustomer, text)

	conv, err := srv.conversationRepo.UpsertConversation(ctx, customerID, strings.TrimSpace(customerName), func(conv *entity.Conversation) error {
		return conv.Append(msg)
	})
	if err != nil {
		return nil, mapConversationError(err, "failed to send message")
	}

	srv.log(ctx).Info("Customer message received", slog.String("customerID", customerID), slog.String("messageID", msg.ID))
	publish(ctx, srv.eventBus, service.TopicConversationsUpdated, service.TopicNewMessageAlert)
	srv.alertOwner(ctx, conv, msg)

	return conv, nil
}

func (srv *chatService) Reply(ctx context.Context, customerID, text string) (*entity.Conversation, error) {
	msg := srv.newMessage(entity.SenderOwner, text)

	conv, err := srv.conversationRepo.UpdateConversation(ctx, customerID, func(conv *entity.Conversation) error {
		return conv.Append(msg)
	})
	if err != nil {
		return nil, mapConversationError(err, "failed to send reply")
	}

	publish(ctx, srv.eventBus, service.TopicConversationsUpdated)

	return conv, nil
}

func (srv *chatService) newMessage(sender entity.Sender, text string) entity.ChatMessage {
	return entity.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      strings.TrimSpace(text),
		Timestamp: srv.now(),
	}
}

func (srv *chatService) ListConversations(ctx context.Context) ([]usecase.ConversationSummary, error) {
	conversations, err := srv.conversationRepo.ListConversations(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list conversations")
	}

	summaries := make([]usecase.ConversationSummary, 0, len(conversations))
	for _, conv := range conversations {
		summary := usecase.ConversationSummary{
			CustomerID:   conv.CustomerID,
			CustomerName: conv.CustomerName,
			LastActivity: conv.LastActivity(),
			UnreadCount:  conv.UnreadFor(entity.SenderOwner),
		}
		if n := len(conv.Messages); n > 0 {
			summary.LastMessage = conv.Messages[n-1].Text
		}
		summaries = append(summaries, summary)
	}
	slices.SortStableFunc(summaries, func(a, b usecase.ConversationSummary) int {
		return cmp.Compare(b.LastActivity.UnixNano(), a.LastActivity.UnixNano())
	})

	return summaries, nil
}

func (srv *chatService) PrefillChat(ctx context.Context, customerID, message string) error {
	if strings.TrimSpace(customerID) == "" {
		return errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("customer id is required"), "invalid prefill")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return errors.Wrap(domainerrors.ErrValidationFailed.WithDetails(entity.ErrMessageTextRequired.Error()), "invalid prefill")
	}

	if srv.eventBus != nil {
		srv.eventBus.Publish(ctx, service.Event{
			Topic:    service.TopicPrefillChatMessage,
			Prefill:  &service.PrefillPayload{Message: message},
			Audience: customerID,
		})
	}

	return nil
}

// alertOwner pushes the new message to every active owner device. Failures are logged only.
func (srv *chatService) alertOwner(ctx context.Context, conv *entity.Conversation, msg entity.ChatMessage) {
	if srv.notifier == nil {
		return
	}

	devices, err := srv.deviceRepo.FindActiveDevices(ctx)
	if err != nil {
		srv.log(ctx).Warn("Failed to load owner devices", slog.Any("error", err))

		return
	}
	tokens := make([]string, 0, len(devices))
	for _, device := range devices {
		tokens = append(tokens, device.FCMToken)
	}
	if len(tokens) == 0 {
		return
	}

	title := "New message"
	if conv.CustomerName != "" {
		title = "New message from " + conv.CustomerName
	}
	data := map[string]string{
		"type":       string(service.TopicNewMessageAlert),
		"customerId": conv.CustomerID,
		"messageId":  msg.ID,
	}

	success, failure, invalid, err := srv.notifier.SendBatchNotification(ctx, tokens, title, preview(msg.Text), data)
	if err != nil {
		srv.log(ctx).Warn("Failed to push chat alert", slog.Any("error", err))

		return
	}
	srv.log(ctx).Debug("Chat alert pushed", slog.Int("success", success), slog.Int("failure", failure))

	if len(invalid) > 0 {
		if err := srv.deviceRepo.DeactivateTokens(ctx, invalid); err != nil {
			srv.log(ctx).Warn("Failed to deactivate invalid device tokens", slog.Any("error", err))
		}
	}
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= maxPushBodyLength {
		return text
	}

	return string(runes[:maxPushBodyLength-1]) + "…"
}

func mapConversationError(err error, message string) error {
	switch {
	case errors.Is(err, repository.ErrConversationNotFound):
		return errors.Wrap(domainerrors.ErrConversationNotFound, message)
	case errors.Is(err, entity.ErrMessageTextRequired), errors.Is(err, entity.ErrInvalidSender):
		return errors.Wrap(domainerrors.ErrValidationFailed.WithDetails(err.Error()), message)
	default:
		return errors.Wrap(err, message)
	}
}
