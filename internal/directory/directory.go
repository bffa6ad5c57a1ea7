// Package directory reads user and group roster data owned by other
// services. Everything here is read-only lookups backing fan-out targets,
// authorization checks and display enrichment.
package directory

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"chatflow/internal/common"
	"chatflow/internal/dbmysql"
)

type userStore struct {
	db *gorm.DB
}

// NewUserDirectory returns a directory backed by the shared users table.
func NewUserDirectory(db *gorm.DB) common.UserDirectory {
	return &userStore{db: db}
}

func (s *userStore) DisplayName(ctx context.Context, userID string) (string, error) {
	user, err := s.activeUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.DisplayName != "" {
		return user.DisplayName, nil
	}
	return user.Handle, nil
}

func (s *userStore) AvatarURL(ctx context.Context, userID string) (string, error) {
	user, err := s.activeUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.AvatarURL, nil
}

func (s *userStore) activeUser(ctx context.Context, userID string) (*dbmysql.User, error) {
	var user dbmysql.User
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, "active").
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &common.NotFoundError{Kind: "user", ID: userID}
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

type rosterStore struct {
	db *gorm.DB
}

// NewGroupRoster returns a roster backed by the shared group_members table.
func NewGroupRoster(db *gorm.DB) common.GroupRoster {
	return &rosterStore{db: db}
}

func (s *rosterStore) Members(ctx context.Context, groupID string) ([]common.GroupMember, error) {
	var rows []dbmysql.GroupMember
	if err := s.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	members := make([]common.GroupMember, 0, len(rows))
	for _, row := range rows {
		members = append(members, common.GroupMember{UserID: row.UserID, Role: row.Role})
	}
	return members, nil
}

func (s *rosterStore) GroupsOf(ctx context.Context, userID string) ([]string, error) {
	var groupIDs []string
	if err := s.db.WithContext(ctx).
		Model(&dbmysql.GroupMember{}).
		Where("user_id = ?", userID).
		Pluck("group_id", &groupIDs).Error; err != nil {
		return nil, err
	}
	return groupIDs, nil
}
