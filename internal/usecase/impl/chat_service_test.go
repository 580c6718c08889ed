package impl

import (
	"context"
	"slices"
	"strings"
	"testing"
	"time"

	"emart/internal/domain/entity"
	"emart/internal/domain/service"
	"emart/internal/errors"
	mockSvc "emart/internal/mocks/service"
	"emart/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type chatServiceFixtures struct {
	service  usecase.ChatUsecase
	repos    *testRepos
	notifier *mockSvc.MockNotificationService
	events   *eventRecorder
	clock    *time.Time
}

func createTestChatService(t *testing.T, withNotifier bool) chatServiceFixtures {
	t.Helper()

	repos := newTestRepos(t)
	events := newEventRecorder(t)

	params := ChatServiceParams{
		ConversationRepo: repos.conversations,
		DeviceRepo:       repos.devices,
		EventBus:         events.bus,
		Logger:           newDiscardLogger(),
	}
	var notifier *mockSvc.MockNotificationService
	if withNotifier {
		notifier = mockSvc.NewMockNotificationService(t)
		params.Notifier = notifier
	}

	svc := NewChatService(params)
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.(*chatService).now = func() time.Time {
		clock = clock.Add(time.Second)

		return clock
	}

	return chatServiceFixtures{service: svc, repos: repos, notifier: notifier, events: events, clock: &clock}
}

func registerDevice(t *testing.T, repos *testRepos, token string, active bool) {
	t.Helper()

	require.NoError(t, repos.devices.CreateDevice(context.Background(), &entity.OwnerDevice{
		ID:       uuid.New(),
		FCMToken: token,
		DeviceID: "device-" + token,
		Platform: "android",
		IsActive: active,
	}))
}

func TestChatService_ConversationFlow(t *testing.T) {
	fx := createTestChatService(t, false)
	ctx := context.Background()

	empty, err := fx.service.GetConversation(ctx, "u1", "Maya")
	require.NoError(t, err)
	assert.Empty(t, empty.Messages)

	conv, err := fx.service.SendCustomerMessage(ctx, "u1", " Maya ", " Is the shawl available in red? ")
	require.NoError(t, err)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, "Maya", conv.CustomerName)
	assert.Equal(t, "Is the shawl available in red?", conv.Messages[0].Text)

	summaries, err := fx.service.ListConversations(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].UnreadCount)

	opened, err := fx.service.OpenConversation(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, opened.UnreadFor(entity.SenderOwner))

	_, err = fx.service.Reply(ctx, "u1", "Yes, we have it.")
	require.NoError(t, err)

	seen, err := fx.service.GetConversation(ctx, "u1", "Maya")
	require.NoError(t, err)
	require.Len(t, seen.Messages, 2)
	assert.Zero(t, seen.UnreadFor(entity.SenderCustomer))

	// Nothing left to mark, so no further event.
	_, err = fx.service.GetConversation(ctx, "u1", "Maya")
	require.NoError(t, err)

	assert.Equal(t, []service.Topic{
		service.TopicConversationsUpdated, service.TopicNewMessageAlert, // customer message
		service.TopicConversationsUpdated, // owner opened
		service.TopicConversationsUpdated, // reply
		service.TopicConversationsUpdated, // customer read the reply
	}, fx.events.topics())
}

func TestChatService_Errors(t *testing.T) {
	fx := createTestChatService(t, false)
	ctx := context.Background()

	_, err := fx.service.SendCustomerMessage(ctx, "u1", "Maya", "   ")
	requireAppError(t, err, "VALIDATION_FAILED")

	_, err = fx.service.Reply(ctx, "nobody", "hello")
	requireAppError(t, err, "CONVERSATION_NOT_FOUND")

	_, err = fx.service.OpenConversation(ctx, "nobody")
	requireAppError(t, err, "CONVERSATION_NOT_FOUND")

	requireAppError(t, fx.service.PrefillChat(ctx, "u1", " "), "VALIDATION_FAILED")
	requireAppError(t, fx.service.PrefillChat(ctx, "", "hello"), "VALIDATION_FAILED")
}

func TestChatService_ListConversations_NewestFirst(t *testing.T) {
	fx := createTestChatService(t, false)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := fx.service.SendCustomerMessage(ctx, id, strings.ToUpper(id), "hi from "+id)
		require.NoError(t, err)
	}
	_, err := fx.service.SendCustomerMessage(ctx, "a", "A", "again")
	require.NoError(t, err)

	summaries, err := fx.service.ListConversations(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.Equal(t, "a", summaries[0].CustomerID)
	assert.Equal(t, "again", summaries[0].LastMessage)
	assert.Equal(t, 2, summaries[0].UnreadCount)
	assert.Equal(t, "c", summaries[1].CustomerID)
	assert.Equal(t, "b", summaries[2].CustomerID)
}

func TestChatService_PushAlert(t *testing.T) {
	fx := createTestChatService(t, true)
	ctx := context.Background()
	registerDevice(t, fx.repos, "token-ok", true)
	registerDevice(t, fx.repos, "token-stale", true)
	registerDevice(t, fx.repos, "token-off", false)

	long := strings.Repeat("ñ", 200)
	fx.notifier.EXPECT().
		SendBatchNotification(mock.Anything, mock.MatchedBy(func(tokens []string) bool {
			return len(tokens) == 2 && slices.Contains(tokens, "token-ok") && slices.Contains(tokens, "token-stale")
		}), "New message from Maya",
			mock.MatchedBy(func(body string) bool { return len([]rune(body)) == maxPushBodyLength }),
			mock.MatchedBy(func(data map[string]string) bool {
				return data["type"] == "new-message-alert" && data["customerId"] == "u1" && data["messageId"] != ""
			})).
		Return(1, 1, []string{"token-stale"}, nil).Once()

	_, err := fx.service.SendCustomerMessage(ctx, "u1", "Maya", long)
	require.NoError(t, err)

	active, err := fx.repos.devices.FindActiveDevices(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "token-ok", active[0].FCMToken)
}

func TestChatService_PushFailureDoesNotFailSend(t *testing.T) {
	fx := createTestChatService(t, true)
	registerDevice(t, fx.repos, "token-ok", true)

	fx.notifier.EXPECT().
		SendBatchNotification(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(0, 0, nil, errors.New("fcm unavailable")).Once()

	_, err := fx.service.SendCustomerMessage(context.Background(), "u1", "Maya", "hello")
	require.NoError(t, err)
}

func TestChatService_NoDevicesNoPush(t *testing.T) {
	fx := createTestChatService(t, true)

	_, err := fx.service.SendCustomerMessage(context.Background(), "u1", "", "hello")
	require.NoError(t, err)
}

func TestChatService_PrefillChat(t *testing.T) {
	fx := createTestChatService(t, false)

	require.NoError(t, fx.service.PrefillChat(context.Background(), "u1", " I have a question about order 17 "))

	events := fx.events.all()
	require.Len(t, events, 1)
	assert.Equal(t, service.TopicPrefillChatMessage, events[0].Topic)
	require.NotNil(t, events[0].Prefill)
	assert.Equal(t, "I have a question about order 17", events[0].Prefill.Message)
	assert.Equal(t, "u1", events[0].Audience)
	assert.True(t, events[0].VisibleTo("u1"))
	assert.False(t, events[0].VisibleTo("u2"))
	assert.False(t, events[0].VisibleTo(""))
}
