package dbmysql

import (
	"time"

	"chatflow/internal/common"
)

// Message is the authoritative record for a chat message. Exactly one of
// RecipientID/GroupID is set; the service layer enforces the invariant
// before a row is ever written.
type Message struct {
	ID          string               `gorm:"primaryKey;size:36"`
	SenderID    string               `gorm:"size:36;not null;index:idx_pair,priority:1"`
	RecipientID *string              `gorm:"size:36;index:idx_pair,priority:2"`
	GroupID     *string              `gorm:"size:36;index:idx_group,priority:1"`
	Content     string               `gorm:"type:text"`
	Type        common.MessageType   `gorm:"size:16;not null"`
	Status      common.MessageStatus `gorm:"size:16;not null;index"`
	MediaRef    *string              `gorm:"size:255"`
	ReplyToID   *string              `gorm:"size:36"`
	Mentions    StringList           `gorm:"type:json"`
	IsPinned    bool                 `gorm:"default:false"`

	// HiddenFor holds user ids that soft-deleted this message for themselves.
	HiddenFor StringList `gorm:"type:json"`

	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_pair,priority:3;index:idx_group,priority:2"`
	DeliveredAt *time.Time
	ReadAt      *time.Time
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// Partner returns the conversation counterpart from the given user's point
// of view: the other participant for 1:1 messages, the group id otherwise.
func (m *Message) Partner(userID string) string {
	if m.GroupID != nil {
		return *m.GroupID
	}
	if m.SenderID == userID && m.RecipientID != nil {
		return *m.RecipientID
	}
	return m.SenderID
}

// HiddenForUser reports whether userID soft-deleted this message.
func (m *Message) HiddenForUser(userID string) bool {
	for _, id := range m.HiddenFor {
		if id == userID {
			return true
		}
	}
	return false
}
