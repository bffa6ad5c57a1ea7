package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// Database Configuration
	Database DatabaseConfig `json:"database"`

	// Mongo (durable event log) Configuration
	MongoDB MongoConfig `json:"mongodb"`

	// Fan-out / notification Configuration
	Notification NotificationConfig `json:"notification"`

	// Connection registry Configuration
	Registry RegistryConfig `json:"registry"`

	// Notification gateway Configuration
	Gateway GatewayConfig `json:"gateway"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port         string `json:"port"`
	Host         string `json:"host"`
	ReadTimeout  int    `json:"read_timeout"`
	WriteTimeout int    `json:"write_timeout"`
	Environment  string `json:"environment"` // development, staging, production
}

// DatabaseConfig contains MySQL connection configuration
type DatabaseConfig struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DatabaseName string `json:"database_name"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
}

// MongoConfig contains the durable event log configuration
type MongoConfig struct {
	URI              string `json:"uri"`
	Database         string `json:"database"`
	EventsCollection string `json:"events_collection"`
}

// NotificationConfig tunes the fan-out dispatcher
type NotificationConfig struct {
	Workers           int  `json:"workers"`             // workers per fan-out path
	ChannelBufferSize int  `json:"channel_buffer_size"` // per-path queue depth
	PushWhenConnected bool `json:"push_when_connected"` // push even when a live channel exists

	GroupPushTimeout  time.Duration `json:"group_push_timeout"`  // overall cap for a group push batch
	SweepInterval     time.Duration `json:"sweep_interval"`      // undelivered-message sweep cadence
	StaleAfter        time.Duration `json:"stale_after"`         // SENT older than this is re-attempted
	DeleteForAllUntil time.Duration `json:"delete_for_all_until"` // delete-for-everyone window from send
}

// RegistryConfig tunes the connection registry liveness sweep
type RegistryConfig struct {
	SweepInterval   time.Duration `json:"sweep_interval"`
	HeartbeatWindow time.Duration `json:"heartbeat_window"`
}

// GatewayConfig contains the push gateway endpoint
type GatewayConfig struct {
	Endpoint string `json:"endpoint"`
	APIKey   string `json:"api_key"`
	Enabled  bool   `json:"enabled"`
}

// Load reads configuration from the environment, with .env as a convenience
// for development. Missing values fall back to sane defaults.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", ""),
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			Environment:  getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("MYSQL_HOST", "localhost"),
			Port:         getEnv("MYSQL_PORT", "3306"),
			Username:     getEnv("MYSQL_USER", "root"),
			Password:     getEnv("MYSQL_PASSWORD", ""),
			DatabaseName: getEnv("MYSQL_DATABASE", "chatflow"),
			MaxOpenConns: getEnvInt("MYSQL_MAX_OPEN_CONNS", 50),
			MaxIdleConns: getEnvInt("MYSQL_MAX_IDLE_CONNS", 10),
		},
		MongoDB: MongoConfig{
			URI:              getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:         getEnv("MONGO_DATABASE", "chatflow"),
			EventsCollection: getEnv("MONGO_EVENTS_COLLECTION", "delivery_events"),
		},
		Notification: NotificationConfig{
			Workers:           getEnvInt("FANOUT_WORKERS", 4),
			ChannelBufferSize: getEnvInt("FANOUT_BUFFER_SIZE", 1000),
			PushWhenConnected: getEnvBool("PUSH_WHEN_CONNECTED", true),
			GroupPushTimeout:  getEnvDuration("GROUP_PUSH_TIMEOUT", 5*time.Second),
			SweepInterval:     getEnvDuration("DELIVERY_SWEEP_INTERVAL", time.Minute),
			StaleAfter:        getEnvDuration("DELIVERY_STALE_AFTER", 5*time.Minute),
			DeleteForAllUntil: getEnvDuration("DELETE_FOR_ALL_WINDOW", time.Hour),
		},
		Registry: RegistryConfig{
			SweepInterval:   getEnvDuration("REGISTRY_SWEEP_INTERVAL", 30*time.Second),
			HeartbeatWindow: getEnvDuration("REGISTRY_HEARTBEAT_WINDOW", 90*time.Second),
		},
		Gateway: GatewayConfig{
			Endpoint: getEnv("GATEWAY_ENDPOINT", ""),
			APIKey:   getEnv("GATEWAY_API_KEY", ""),
			Enabled:  getEnvBool("GATEWAY_ENABLED", false),
		},
	}

	return cfg, nil
}

// DSN builds the MySQL connection string.
func (cfg *Config) DSN() string {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "3306"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
