package entity

import (
	"strings"
	"time"
)

// Sender identifies which side of a conversation wrote a message.
type Sender string

const (
	SenderCustomer Sender = "customer"
	SenderOwner    Sender = "owner"
)

// Valid reports whether s is a known sender.
func (s Sender) Valid() bool {
	return s == SenderCustomer || s == SenderOwner
}

// Other returns the opposite party.
func (s Sender) Other() Sender {
	if s == SenderCustomer {
		return SenderOwner
	}

	return SenderCustomer
}

// ChatMessage is one message in a conversation.
type ChatMessage struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	IsRead    bool      `json:"isRead"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is the message thread between one customer and the owner, keyed by customer id.
type Conversation struct {
	CustomerID   string        `json:"customerId"`
	CustomerName string        `json:"customerName"`
	Messages     []ChatMessage `json:"messages"`
}

// Append adds a message to the end of the thread.
func (c *Conversation) Append(msg ChatMessage) error {
	if !msg.Sender.Valid() {
		return ErrInvalidSender
	}
	if strings.TrimSpace(msg.Text) == "" {
		return ErrMessageTextRequired
	}
	c.Messages = append(c.Messages, msg)

	return nil
}

// MarkReadBy marks every message written by the other party as read, as happens when reader opens the thread.
// It returns the number of messages that changed.
func (c *Conversation) MarkReadBy(reader Sender) int {
	changed := 0
	for i := range c.Messages {
		if c.Messages[i].Sender != reader && !c.Messages[i].IsRead {
			c.Messages[i].IsRead = true
			changed++
		}
	}

	return changed
}

// UnreadFor counts messages reader has not seen yet.
func (c *Conversation) UnreadFor(reader Sender) int {
	unread := 0
	for _, msg := range c.Messages {
		if msg.Sender != reader && !msg.IsRead {
			unread++
		}
	}

	return unread
}

// LastActivity is the timestamp of the newest message, or the zero time.
func (c *Conversation) LastActivity() time.Time {
	if len(c.Messages) == 0 {
		return time.Time{}
	}

	return c.Messages[len(c.Messages)-1].Timestamp
}
