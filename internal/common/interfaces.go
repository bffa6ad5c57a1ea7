package common

import (
	"context"
)

// GroupMember is one entry in a group roster.
type GroupMember struct {
	UserID string
	Role   GroupRole
}

// GroupRoster exposes the current membership of a group. Membership
// administration lives in another service; this subsystem only reads it.
type GroupRoster interface {
	Members(ctx context.Context, groupID string) ([]GroupMember, error)
	GroupsOf(ctx context.Context, userID string) ([]string, error)
}

// UserDirectory resolves display information used to enrich notification
// payloads and conversation summaries.
type UserDirectory interface {
	DisplayName(ctx context.Context, userID string) (string, error)
	AvatarURL(ctx context.Context, userID string) (string, error)
}

// NotificationGateway pushes to a user's devices. Fire-and-forget: a failed
// push is logged by the caller and never retried synchronously.
type NotificationGateway interface {
	Push(ctx context.Context, userID, title, body string, data map[string]string) error
}

// DurableLogPublisher appends delivery events to the durable log consumed by
// external services. At-least-once; duplicate events are acceptable.
type DurableLogPublisher interface {
	Publish(ctx context.Context, topic string, event interface{}) error
}
