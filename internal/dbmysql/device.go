package dbmysql

import (
	"time"
)

// Device is a push-notification address for one of a user's devices.
type Device struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	UserID       string    `gorm:"size:36;not null;index"`
	DeviceToken  string    `gorm:"size:255;not null;uniqueIndex"`
	Platform     string    `gorm:"size:16"` // android, ios, web
	Active       bool      `gorm:"default:true"`
	LastActiveAt time.Time `gorm:"autoUpdateTime"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}
