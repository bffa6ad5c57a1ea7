package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"chatflow/internal/common"
	"chatflow/internal/dbmysql"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
	}

	return gormDB, mock, cleanup
}

func strPtr(s string) *string { return &s }

func TestMessageRepository_Save(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewMessageRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `messages`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	msg := &dbmysql.Message{
		ID:          "msg-1",
		SenderID:    "user-a",
		RecipientID: strPtr("user-b"),
		Content:     "hello",
		Type:        common.TypeText,
		Status:      common.StatusSent,
	}

	err := repo.Save(context.Background(), msg)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_MarkDelivered(t *testing.T) {
	tests := []struct {
		name         string
		rowsAffected int64
		wantChanged  bool
	}{
		{"transition applied", 1, true},
		{"already delivered or read, no-op", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gormDB, mock, cleanup := setupTestDB(t)
			defer cleanup()

			repo := NewMessageRepository(gormDB)

			mock.ExpectBegin()
			mock.ExpectExec("UPDATE `messages` SET").
				WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))
			mock.ExpectCommit()

			changed, err := repo.MarkDelivered(context.Background(), "msg-1", time.Now())
			assert.NoError(t, err)
			assert.Equal(t, tt.wantChanged, changed)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMessageRepository_MarkRead_BackfillsDeliveredAt(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewMessageRepository(gormDB)

	mock.ExpectBegin()
	// read_at is set and delivered_at is back-filled via COALESCE.
	mock.ExpectExec("UPDATE `messages` SET .*COALESCE\\(delivered_at").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	changed, err := repo.MarkRead(context.Background(), "msg-1", time.Now())
	assert.NoError(t, err)
	assert.True(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_BulkMarkRead(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewMessageRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `messages` SET").
		WillReturnResult(sqlmock.NewResult(0, 7))
	mock.ExpectCommit()

	count, err := repo.BulkMarkRead(context.Background(), "user-a", "user-b", time.Now())
	assert.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_ByID_NotFound(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewMessageRepository(gormDB)

	mock.ExpectQuery("SELECT \\* FROM `messages`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.ByID(context.Background(), "missing")
	assert.True(t, common.IsNotFound(err))
}

func TestMessageRepository_UnreadBySender(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewMessageRepository(gormDB)

	rows := sqlmock.NewRows([]string{"sender_id", "count"}).
		AddRow("user-b", 3).
		AddRow("user-c", 1)
	mock.ExpectQuery("SELECT sender_id, COUNT\\(\\*\\) AS count FROM `messages`").
		WillReturnRows(rows)

	counts, err := repo.UnreadBySender(context.Background(), "user-a")
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "user-b", counts[0].SenderID)
	assert.Equal(t, int64(3), counts[0].Count)
}

func TestMessageRepository_SetPinned_ClearsScopeFirst(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewMessageRepository(gormDB)

	mock.ExpectBegin()
	// First the scope-wide clear, then the target pin, same transaction.
	mock.ExpectExec("UPDATE `messages` SET `is_pinned`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `messages` SET `is_pinned`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	msg := &dbmysql.Message{
		ID:          "msg-2",
		SenderID:    "user-a",
		RecipientID: strPtr("user-b"),
	}

	err := repo.SetPinned(context.Background(), msg, true)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_PendingForUser(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewMessageRepository(gormDB)

	rows := sqlmock.NewRows([]string{"id", "sender_id", "recipient_id", "status"}).
		AddRow("msg-1", "user-b", "user-a", "SENT")
	mock.ExpectQuery("SELECT \\* FROM `messages`").
		WillReturnRows(rows)

	pending, err := repo.PendingForUser(context.Background(), "user-a")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "msg-1", pending[0].ID)
	assert.Equal(t, common.StatusSent, pending[0].Status)
}
