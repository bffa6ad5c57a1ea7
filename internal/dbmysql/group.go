package dbmysql

import (
	"time"

	"chatflow/internal/common"
)

// GroupMember is one roster row. Membership administration happens in
// another service; this subsystem only reads the current roster for
// fan-out targets and role checks.
type GroupMember struct {
	GroupID   string           `gorm:"primaryKey;size:36"`
	UserID    string           `gorm:"primaryKey;size:36;index"`
	Role      common.GroupRole `gorm:"size:16;default:'member'"`
	CreatedAt time.Time        `gorm:"autoCreateTime"`
}
