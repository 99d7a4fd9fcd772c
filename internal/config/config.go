// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for cdlsync
type Config struct {
	DatabaseURL    string
	SkipMigrations bool
	TeamMapPath    string

	SeasonID    int
	SeasonYear  int
	SeasonTitle string

	StatsURL      string
	ScrapeTimeout time.Duration

	RedisURL    string
	SnapshotTTL time.Duration

	SyncHour       int
	SyncMaxRetries int
	SyncRetryDelay time.Duration

	PushgatewayURL string
	LogLevel       string
}

// Load reads .env (if present) and then the process environment
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		SkipMigrations: getEnvBool("SKIP_MIGRATIONS", false),
		TeamMapPath:    getEnv("TEAM_MAP_PATH", "config/teams.json"),
		SeasonID:       getEnvInt("SEASON_ID", 1),
		SeasonYear:     getEnvInt("SEASON_YEAR", 2025),
		SeasonTitle:    getEnv("SEASON_TITLE", "Call of Duty League 2025"),
		StatsURL:       getEnv("BP_STATS_URL", "https://www.breakingpoint.gg/stats/advanced"),
		ScrapeTimeout:  getEnvDuration("SCRAPE_TIMEOUT", 15*time.Second),
		RedisURL:       getEnv("REDIS_URL", ""),
		SnapshotTTL:    getEnvDuration("SNAPSHOT_TTL", 6*time.Hour),
		SyncHour:       getEnvInt("SYNC_HOUR", 3),
		SyncMaxRetries: getEnvInt("SYNC_MAX_RETRIES", 3),
		SyncRetryDelay: getEnvDuration("SYNC_RETRY_DELAY", 5*time.Minute),
		PushgatewayURL: getEnv("PUSHGATEWAY_URL", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = composeDSN()
	}

	if cfg.SyncHour < 0 || cfg.SyncHour > 23 {
		return nil, fmt.Errorf("SYNC_HOUR must be between 0 and 23, got %d", cfg.SyncHour)
	}

	if cfg.SeasonID <= 0 {
		return nil, fmt.Errorf("SEASON_ID must be positive, got %d", cfg.SeasonID)
	}

	return cfg, nil
}

// composeDSN builds a lib/pq URL from the discrete DB_* variables
func composeDSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(getEnv("DB_USER", "postgres"), getEnv("DB_PASSWORD", "")),
		Host:   fmt.Sprintf("%s:%s", getEnv("DB_HOST", "localhost"), getEnv("DB_PORT", "5432")),
		Path:   getEnv("DB_NAME", "cdl"),
	}
	q := u.Query()
	q.Set("sslmode", getEnv("DB_SSLMODE", "disable"))
	u.RawQuery = q.Encode()
	return u.String()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
