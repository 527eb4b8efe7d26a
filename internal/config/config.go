package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	ServiceName string
	Version     string
	Environment string
	DBUser      string
	DBPassword  string
	DBHost      string
	DBPort      string
	DBName      string
	APIKey      string // API key for authentication

	DuelExpireAfter  time.Duration // how long a pending challenge stays open
	DuelExpireCheck  time.Duration // expiry worker poll interval
	DeckCacheSize    int
	DeckCacheTTL     time.Duration
	DeadLetterPath   string
	StreamBufferSize int

	EventMaxRetries      int
	EventRetryDelay      time.Duration
	EventLogRetention    int // days of audit events to keep
	EventLogCleanupCheck time.Duration
	TrustedProxies       []string
	DBMaxConns           int
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		ServiceName:    getEnv("SERVICE_NAME", "arena-api"),
		Version:        getEnv("SERVICE_VERSION", "dev"),
		Environment:    getEnv("ENVIRONMENT", "dev"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBName:         getEnv("DB_NAME", "arena"),
		APIKey:         getEnv("API_KEY", ""),
		DeadLetterPath: getEnv("DEAD_LETTER_PATH", "deadletter.jsonl"),
	}

	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	cfg.DuelExpireAfter, err = getEnvDuration("DUEL_EXPIRE_AFTER", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.DuelExpireCheck, err = getEnvDuration("DUEL_EXPIRE_CHECK", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.DeckCacheSize, err = getEnvInt("DECK_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}
	cfg.DeckCacheTTL, err = getEnvDuration("DECK_CACHE_TTL", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.StreamBufferSize, err = getEnvInt("STREAM_BUFFER_SIZE", 64)
	if err != nil {
		return nil, err
	}
	cfg.EventMaxRetries, err = getEnvInt("EVENT_MAX_RETRIES", 5)
	if err != nil {
		return nil, err
	}
	cfg.EventRetryDelay, err = getEnvDuration("EVENT_RETRY_DELAY", 2*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.EventLogRetention, err = getEnvInt("EVENT_LOG_RETENTION_DAYS", 90)
	if err != nil {
		return nil, err
	}
	cfg.EventLogCleanupCheck, err = getEnvDuration("EVENT_LOG_CLEANUP_CHECK", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.DBMaxConns, err = getEnvInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	if proxies := getEnv("TRUSTED_PROXIES", ""); proxies != "" {
		cfg.TrustedProxies = strings.Split(proxies, ",")
	}

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
