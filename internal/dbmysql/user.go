package dbmysql

import (
	"time"
)

// User carries the directory fields this subsystem reads. Profile CRUD is
// owned by the user service; rows here are only consulted for display
// enrichment and existence checks.
type User struct {
	UserID      string    `gorm:"primaryKey;column:user_id;size:36"`
	Handle      string    `gorm:"column:handle;uniqueIndex;size:50;not null"`
	DisplayName string    `gorm:"column:display_name;size:100"`
	AvatarURL   string    `gorm:"column:avatar_url;size:255"`
	Status      string    `gorm:"column:status;type:enum('active','banned','deleted');default:'active'"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
