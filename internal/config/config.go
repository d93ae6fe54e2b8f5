// Package config collects process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr string

	PostgresDB       string
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     string

	// JWTSecret signs every access token; without it the process must not
	// start.
	JWTSecret string
	TokenTTL  time.Duration

	DailyEventLimit int64

	AuthRateMax    int64
	AuthRateWindow time.Duration

	// CacheDriver is "memory" or "redis".
	CacheDriver   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PurgeInterval time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Addr:             getenv("ADDR", "0.0.0.0:8080"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getenv("POSTGRES_PORT", "5432"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		TokenTTL:         getduration("TOKEN_TTL", 24*time.Hour),
		DailyEventLimit:  getint("DAILY_EVENT_LIMIT", 5),
		AuthRateMax:      getint("AUTH_RATE_MAX", 10),
		AuthRateWindow:   getduration("AUTH_RATE_WINDOW", time.Minute),
		CacheDriver:      getenv("CACHE_DRIVER", "memory"),
		RedisAddr:        getenv("REDIS_ADDR", "localhost:6379"),
		RedisDB:          int(getint("REDIS_DB", 0)),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		PurgeInterval:    getduration("REVOKED_PURGE_INTERVAL", time.Hour),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

// DatabaseURL builds the lib/pq connection string from the POSTGRES_* vars.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
