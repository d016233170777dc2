package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all process configuration. It is built once in main and
// passed into constructors; request-handling code never reads the
// environment.
type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret string
	TokenTTL  time.Duration

	DBMaxOpen     int
	DBMaxIdle     int
	DBMaxLifetime time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:          getenv("PORT", "4000"),
		DatabaseURL:   getenv("DATABASE_URL", ""),
		JWTSecret:     getenv("JWT_SECRET", ""),
		DBMaxOpen:     getenvInt("DB_MAX_OPEN", 25),
		DBMaxIdle:     getenvInt("DB_MAX_IDLE", 25),
		DBMaxLifetime: time.Duration(getenvInt("DB_MAX_LIFETIME", 300)) * time.Second,
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	ttl, err := parseTTL(getenv("TOKEN_TTL", "30m"))
	if err != nil {
		return nil, err
	}
	cfg.TokenTTL = ttl

	return cfg, nil
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// parseTTL accepts durations such as "30m", "1h", "90s", or a bare number
// of minutes.
func parseTTL(s string) (time.Duration, error) {
	if strings.HasSuffix(s, "m") ||
		strings.HasSuffix(s, "h") ||
		strings.HasSuffix(s, "s") {
		return time.ParseDuration(s)
	}

	min, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return time.Duration(min) * time.Minute, nil
}
