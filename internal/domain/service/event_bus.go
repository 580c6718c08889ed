package service

import "context"

// Topic names an invalidation signal. Subscribers re-read the store when they receive one.
type Topic string

// Topics published after successful writes.
const (
	TopicOrdersUpdated          Topic = "orders-updated"
	TopicConversationsUpdated   Topic = "conversations-updated"
	TopicProductUpdated         Topic = "product-updated"
	TopicPageContentUpdated     Topic = "page-content-updated"
	TopicNewMessageAlert        Topic = "new-message-alert"
	TopicPrefillChatMessage     Topic = "prefill-chat-message"
	TopicCartUpdated            Topic = "cart-updated"
	TopicCategoriesUpdated      Topic = "categories-updated"
	TopicThemeUpdated           Topic = "theme-updated"
	TopicContactMessagesUpdated Topic = "contact-messages-updated"
)

// AllTopics lists every topic in a stable order.
var AllTopics = []Topic{
	TopicOrdersUpdated,
	TopicConversationsUpdated,
	TopicProductUpdated,
	TopicPageContentUpdated,
	TopicNewMessageAlert,
	TopicPrefillChatMessage,
	TopicCartUpdated,
	TopicCategoriesUpdated,
	TopicThemeUpdated,
	TopicContactMessagesUpdated,
}

// ParseTopic returns the topic named s.
func ParseTopic(s string) (Topic, bool) {
	for _, t := range AllTopics {
		if string(t) == s {
			return t, true
		}
	}

	return "", false
}

// PrefillPayload is the only event payload: text to place in the customer's chat input.
type PrefillPayload struct {
	Message string `json:"message"`
}

// Event is one published signal. Prefill is set only for TopicPrefillChatMessage.
type Event struct {
	Topic    Topic           `json:"topic"`
	Prefill  *PrefillPayload `json:"prefill,omitempty"`
	// Audience is the only subject the event is meant for. Empty reaches every subscriber.
	Audience string          `json:"audience,omitempty"`
}

// VisibleTo reports whether a subscriber authenticated as subject (empty when anonymous) may see the event.
func (e Event) VisibleTo(subject string) bool {
	return e.Audience == "" || e.Audience == subject
}

// Subscription delivers events until Close is called.
type Subscription interface {
	// Events returns the delivery channel. It is closed after Close.
	Events() <-chan Event

	// Close unsubscribes. It is safe to call more than once.
	Close()
}

// EventBus is the typed publish/subscribe registry for invalidation signals.
type EventBus interface {
	// Publish delivers event to local subscribers and forwards it to peer instances when a relay is configured.
	// Slow subscribers miss events rather than block the publisher.
	Publish(ctx context.Context, event Event)

	// Subscribe registers for the given topics, or for every topic when none are given.
	Subscribe(topics ...Topic) Subscription
}
