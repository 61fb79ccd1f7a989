package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Cache backends understood by CacheConfig.Backend.
const (
	CacheBackendSQLite = "sqlite"
	CacheBackendRedis  = "redis"
)

// Media backends understood by MediaConfig.Backend.
const (
	MediaBackendLocal = "local"
	MediaBackendGCS   = "gcs"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Log      LogConfig
	Cache    CacheConfig
	Media    MediaConfig
	Balance  BalanceConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// CacheConfig selects and configures the persistent key/value store
// that backs the balance cache.
type CacheConfig struct {
	Backend       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	EncryptionKey string // fernet key; empty disables sealing
}

// MediaConfig selects where note attachments live.
type MediaConfig struct {
	Backend string
	Bucket  string
	Dir     string
}

// BalanceConfig holds the background refresh schedule.
type BalanceConfig struct {
	RefreshSchedule string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/personal_hub.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Cache: CacheConfig{
			Backend:       strings.ToLower(getEnv("CACHE_BACKEND", CacheBackendSQLite)),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       redisDB,
			EncryptionKey: os.Getenv("CACHE_ENCRYPTION_KEY"),
		},
		Media: MediaConfig{
			Backend: strings.ToLower(getEnv("MEDIA_BACKEND", MediaBackendLocal)),
			Bucket:  os.Getenv("MEDIA_BUCKET"),
			Dir:     getEnv("MEDIA_DIR", "./data/media"),
		},
		Balance: BalanceConfig{
			RefreshSchedule: getEnv("BALANCE_REFRESH_SCHEDULE", "@every 15m"),
		},
	}

	switch config.Cache.Backend {
	case CacheBackendSQLite, CacheBackendRedis:
	default:
		return nil, fmt.Errorf("unknown CACHE_BACKEND %q", config.Cache.Backend)
	}

	switch config.Media.Backend {
	case MediaBackendLocal:
	case MediaBackendGCS:
		if config.Media.Bucket == "" {
			return nil, fmt.Errorf("MEDIA_BUCKET is required when MEDIA_BACKEND=gcs")
		}
	default:
		return nil, fmt.Errorf("unknown MEDIA_BACKEND %q", config.Media.Backend)
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
