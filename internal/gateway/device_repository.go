// Package gateway delivers push notifications through an external push
// provider, addressed by the device tokens users register.
package gateway

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"chatflow/internal/dbmysql"
)

type DeviceRepository interface {
	RegisterDevice(ctx context.Context, userID, deviceToken, platform string) error
	ActiveTokens(ctx context.Context, userID string) ([]string, error)
	DeactivateToken(ctx context.Context, deviceToken string) error
	RemoveDevice(ctx context.Context, deviceToken string) error
}

type deviceRepo struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) DeviceRepository {
	return &deviceRepo{db: db}
}

// RegisterDevice upserts on the token so a reinstalled app re-binds its
// token to the current user.
func (r *deviceRepo) RegisterDevice(ctx context.Context, userID, deviceToken, platform string) error {
	device := &dbmysql.Device{
		UserID:       userID,
		DeviceToken:  deviceToken,
		Platform:     platform,
		Active:       true,
		LastActiveAt: time.Now(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "device_token"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform", "active", "last_active_at"}),
		}).
		Create(device).Error
	if err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}
	return nil
}

func (r *deviceRepo) ActiveTokens(ctx context.Context, userID string) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Device{}).
		Where("user_id = ? AND active = ?", userID, true).
		Order("last_active_at DESC").
		Pluck("device_token", &tokens).Error
	return tokens, err
}

func (r *deviceRepo) DeactivateToken(ctx context.Context, deviceToken string) error {
	return r.db.WithContext(ctx).
		Model(&dbmysql.Device{}).
		Where("device_token = ?", deviceToken).
		Update("active", false).Error
}

func (r *deviceRepo) RemoveDevice(ctx context.Context, deviceToken string) error {
	return r.db.WithContext(ctx).
		Delete(&dbmysql.Device{}, "device_token = ?", deviceToken).Error
}
