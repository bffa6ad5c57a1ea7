package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 4, cfg.Notification.Workers)
	assert.Equal(t, 1000, cfg.Notification.ChannelBufferSize)
	assert.True(t, cfg.Notification.PushWhenConnected)
	assert.Equal(t, 5*time.Second, cfg.Notification.GroupPushTimeout)
	assert.Equal(t, time.Hour, cfg.Notification.DeleteForAllUntil)
	assert.Equal(t, 90*time.Second, cfg.Registry.HeartbeatWindow)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("MYSQL_HOST", "db.internal")
	t.Setenv("MYSQL_USER", "chat")
	t.Setenv("MYSQL_PASSWORD", "secret")
	t.Setenv("MYSQL_DATABASE", "messages")
	t.Setenv("FANOUT_WORKERS", "8")
	t.Setenv("PUSH_WHEN_CONNECTED", "false")
	t.Setenv("GROUP_PUSH_TIMEOUT", "10s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "messages", cfg.Database.DatabaseName)
	assert.Equal(t, 8, cfg.Notification.Workers)
	assert.False(t, cfg.Notification.PushWhenConnected)
	assert.Equal(t, 10*time.Second, cfg.Notification.GroupPushTimeout)
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Username:     "chat",
			Password:     "secret",
			Host:         "db.internal",
			Port:         "3307",
			DatabaseName: "messages",
		},
	}

	dsn := cfg.DSN()
	assert.Equal(t, "chat:secret@tcp(db.internal:3307)/messages?charset=utf8mb4&parseTime=True&loc=Local", dsn)
}

func TestConfig_DSN_DefaultsHostAndPort(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Username:     "chat",
			DatabaseName: "messages",
		},
	}

	assert.Contains(t, cfg.DSN(), "@tcp(localhost:3306)/messages")
}
