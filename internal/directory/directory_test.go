package directory

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"chatflow/internal/common"
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

func userColumns() []string {
	return []string{"user_id", "handle", "display_name", "avatar_url", "status"}
}

func TestUserDirectory_DisplayName(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	dir := NewUserDirectory(gormDB)

	mock.ExpectQuery("SELECT .+ FROM `users`").
		WithArgs("user-a", "active", 1).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow("user-a", "alice", "Alice Smith", "", "active"))

	name, err := dir.DisplayName(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDirectory_DisplayNameFallsBackToHandle(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	dir := NewUserDirectory(gormDB)

	mock.ExpectQuery("SELECT .+ FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow("user-a", "alice", "", "", "active"))

	name, err := dir.DisplayName(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Equal(t, "alice", name)
}

func TestUserDirectory_UnknownUser(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	dir := NewUserDirectory(gormDB)

	mock.ExpectQuery("SELECT .+ FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns()))

	_, err := dir.DisplayName(context.Background(), "ghost")
	assert.True(t, common.IsNotFound(err))
}

func TestGroupRoster_Members(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	roster := NewGroupRoster(gormDB)

	mock.ExpectQuery("SELECT .+ FROM `group_members`").
		WithArgs("group-1").
		WillReturnRows(sqlmock.NewRows([]string{"group_id", "user_id", "role"}).
			AddRow("group-1", "user-a", "admin").
			AddRow("group-1", "user-b", "member"))

	members, err := roster.Members(context.Background(), "group-1")
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, common.RoleAdmin, members[0].Role)
	assert.Equal(t, "user-b", members[1].UserID)
}

func TestGroupRoster_GroupsOf(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	roster := NewGroupRoster(gormDB)

	mock.ExpectQuery("SELECT .+ FROM `group_members`").
		WithArgs("user-a").
		WillReturnRows(sqlmock.NewRows([]string{"group_id"}).
			AddRow("group-1").
			AddRow("group-2"))

	groups, err := roster.GroupsOf(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Equal(t, []string{"group-1", "group-2"}, groups)
}
