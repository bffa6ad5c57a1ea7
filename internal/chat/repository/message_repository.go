package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"chatflow/internal/common"
	"chatflow/internal/dbmysql"
)

// UnreadCount is one row of the unread-by-sender grouping.
type UnreadCount struct {
	SenderID string
	Count    int64
}

type MessageRepository interface {
	Save(ctx context.Context, msg *dbmysql.Message) error
	ByID(ctx context.Context, id string) (*dbmysql.Message, error)

	// MarkDelivered and MarkRead apply guarded updates: the WHERE clause
	// carries the legal source states, so replays and out-of-order
	// notifications become no-ops at the database. They report whether a
	// row actually changed.
	MarkDelivered(ctx context.Context, id string, at time.Time) (bool, error)
	MarkRead(ctx context.Context, id string, at time.Time) (bool, error)
	MarkFailed(ctx context.Context, id string) (bool, error)
	BulkMarkRead(ctx context.Context, recipientID, senderID string, at time.Time) (int64, error)

	SetPinned(ctx context.Context, msg *dbmysql.Message, pinned bool) error
	HideFor(ctx context.Context, id, userID string) error
	DeleteForEveryone(ctx context.Context, id string) error

	History(ctx context.Context, userID, peerID string, limit, offset int) ([]*dbmysql.Message, error)
	GroupHistory(ctx context.Context, groupID string, limit, offset int) ([]*dbmysql.Message, error)
	RecentInvolving(ctx context.Context, userID string, groupIDs []string, limit int) ([]*dbmysql.Message, error)
	UnreadBySender(ctx context.Context, userID string) ([]UnreadCount, error)
	PendingForUser(ctx context.Context, userID string) ([]*dbmysql.Message, error)
	StaleSent(ctx context.Context, cutoff time.Time) ([]*dbmysql.Message, error)
}

type messageRepo struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepo{db: db}
}

func (r *messageRepo) Save(ctx context.Context, msg *dbmysql.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *messageRepo) ByID(ctx context.Context, id string) (*dbmysql.Message, error) {
	var msg dbmysql.Message
	err := r.db.WithContext(ctx).First(&msg, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &common.NotFoundError{Kind: "message", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepo) MarkDelivered(ctx context.Context, id string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&dbmysql.Message{}).
		Where("id = ? AND status = ?", id, common.StatusSent).
		Updates(map[string]interface{}{
			"status":       common.StatusDelivered,
			"delivered_at": at,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *messageRepo) MarkRead(ctx context.Context, id string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&dbmysql.Message{}).
		Where("id = ? AND status IN ?", id, []common.MessageStatus{common.StatusSent, common.StatusDelivered}).
		Updates(map[string]interface{}{
			"status": common.StatusRead,
			"read_at": at,
			// READ implies delivered; back-fill if delivery was never observed.
			"delivered_at": gorm.Expr("COALESCE(delivered_at, ?)", at),
		})
	return res.RowsAffected > 0, res.Error
}

func (r *messageRepo) MarkFailed(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&dbmysql.Message{}).
		Where("id = ? AND status IN ?", id, []common.MessageStatus{common.StatusSent, common.StatusDelivered}).
		Update("status", common.StatusFailed)
	return res.RowsAffected > 0, res.Error
}

func (r *messageRepo) BulkMarkRead(ctx context.Context, recipientID, senderID string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&dbmysql.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND status IN ?",
			senderID, recipientID, []common.MessageStatus{common.StatusSent, common.StatusDelivered}).
		Updates(map[string]interface{}{
			"status":       common.StatusRead,
			"read_at":      at,
			"delivered_at": gorm.Expr("COALESCE(delivered_at, ?)", at),
		})
	return res.RowsAffected, res.Error
}

// SetPinned clears any other pin in the message's conversation scope before
// setting the target, inside one transaction. Callers serialize pin
// operations per conversation key so two pins cannot interleave.
func (r *messageRepo) SetPinned(ctx context.Context, msg *dbmysql.Message, pinned bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if pinned {
			scope := tx.Model(&dbmysql.Message{}).Where("is_pinned = ?", true)
			if msg.GroupID != nil {
				scope = scope.Where("group_id = ?", *msg.GroupID)
			} else {
				a, b := msg.SenderID, *msg.RecipientID
				scope = scope.Where(
					"group_id IS NULL AND ((sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?))",
					a, b, b, a)
			}
			if err := scope.Update("is_pinned", false).Error; err != nil {
				return err
			}
		}
		return tx.Model(&dbmysql.Message{}).
			Where("id = ?", msg.ID).
			Update("is_pinned", pinned).Error
	})
}

func (r *messageRepo) HideFor(ctx context.Context, id, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var msg dbmysql.Message
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&msg, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &common.NotFoundError{Kind: "message", ID: id}
		}
		if err != nil {
			return err
		}

		if msg.HiddenForUser(userID) {
			return &common.ConflictError{Reason: "message already deleted for user"}
		}

		hidden := append(msg.HiddenFor, userID)
		return tx.Model(&dbmysql.Message{}).
			Where("id = ?", id).
			Update("hidden_for", hidden).Error
	})
}

func (r *messageRepo) DeleteForEveryone(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&dbmysql.Message{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &common.NotFoundError{Kind: "message", ID: id}
	}
	return nil
}

func (r *messageRepo) History(ctx context.Context, userID, peerID string, limit, offset int) ([]*dbmysql.Message, error) {
	var messages []*dbmysql.Message
	err := r.db.WithContext(ctx).
		Where("group_id IS NULL AND ((sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?))",
			userID, peerID, peerID, userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&messages).Error
	return messages, err
}

func (r *messageRepo) GroupHistory(ctx context.Context, groupID string, limit, offset int) ([]*dbmysql.Message, error) {
	var messages []*dbmysql.Message
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&messages).Error
	return messages, err
}

// RecentInvolving returns the newest messages the user participates in,
// across 1:1 conversations and the given groups. The read-model cache folds
// these into one head message per conversation partner.
func (r *messageRepo) RecentInvolving(ctx context.Context, userID string, groupIDs []string, limit int) ([]*dbmysql.Message, error) {
	q := r.db.WithContext(ctx)
	if len(groupIDs) > 0 {
		q = q.Where("sender_id = ? OR recipient_id = ? OR group_id IN ?", userID, userID, groupIDs)
	} else {
		q = q.Where("sender_id = ? OR recipient_id = ?", userID, userID)
	}

	var messages []*dbmysql.Message
	err := q.Order("created_at DESC").Limit(limit).Find(&messages).Error
	return messages, err
}

func (r *messageRepo) UnreadBySender(ctx context.Context, userID string) ([]UnreadCount, error) {
	var counts []UnreadCount
	err := r.db.WithContext(ctx).Model(&dbmysql.Message{}).
		Select("sender_id, COUNT(*) AS count").
		Where("recipient_id = ? AND status IN ?",
			userID, []common.MessageStatus{common.StatusSent, common.StatusDelivered}).
		Group("sender_id").
		Scan(&counts).Error
	return counts, err
}

func (r *messageRepo) PendingForUser(ctx context.Context, userID string) ([]*dbmysql.Message, error) {
	var messages []*dbmysql.Message
	err := r.db.WithContext(ctx).
		Where("recipient_id = ? AND status = ?", userID, common.StatusSent).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

func (r *messageRepo) StaleSent(ctx context.Context, cutoff time.Time) ([]*dbmysql.Message, error) {
	var messages []*dbmysql.Message
	err := r.db.WithContext(ctx).
		Where("recipient_id IS NOT NULL AND status = ? AND created_at < ?", common.StatusSent, cutoff).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}
