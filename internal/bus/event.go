package bus

import (
	"time"

	"chatflow/internal/common"
	"chatflow/internal/dbmysql"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// Event kinds published by the delivery pipeline.
const (
	KindMessageNew         = "message.new"
	KindMessageStatus      = "message.status"
	KindConversationUpdate = "conversation.update"
	KindUnreadUpdate       = "unread.update"
	KindTyping             = "typing"
)

// NewMessage announces a freshly persisted message to its live-delivery
// targets (recipient, or all group members except the sender).
type NewMessage struct {
	Targets []string
	Message *dbmysql.Message
}

// StatusChange announces a delivery-status transition. Targets is who should
// see the update, normally the sender of the affected message.
type StatusChange struct {
	Targets   []string
	MessageID string
	Status    common.MessageStatus
}

// ConversationUpdate tells a user their conversation list changed.
type ConversationUpdate struct {
	UserID string
}

// UnreadUpdate tells a user their unread counts changed.
type UnreadUpdate struct {
	UserID string
}

// Typing is the ephemeral typing indicator relayed between peers.
type Typing struct {
	FromUserID string
	ToUserID   string
	IsTyping   bool
}
