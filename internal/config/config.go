// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mmynk/waitlist/internal/service"
)

// Storage backends selectable through KV_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	HTTPAddr        string
	RoutePrefix     string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration

	Backend       string
	DBPath        string
	RedisAddr     string
	RedisPoolSize int
	RedisPrefix   string

	JWTSecret string
	StatsMode string

	SpreadsheetID            string
	GoogleServiceAccountJSON string
	SheetName                string
	WebhookURL               string
	NotifyQueueSize          int
}

// SheetsEnabled reports whether Google Sheets credentials are configured.
func (c Config) SheetsEnabled() bool {
	return c.SpreadsheetID != "" && c.GoogleServiceAccountJSON != ""
}

func FromEnv() (Config, error) {
	var c Config
	var err error

	c.HTTPAddr = env("HTTP_ADDR", ":8080")
	c.RoutePrefix = strings.TrimRight(env("WAITLIST_ROUTE_PREFIX", ""), "/")
	if c.RoutePrefix != "" && !strings.HasPrefix(c.RoutePrefix, "/") {
		c.RoutePrefix = "/" + c.RoutePrefix
	}
	c.AllowedOrigins = splitList(env("CORS_ALLOWED_ORIGINS", "*"))
	if c.ShutdownTimeout, err = time.ParseDuration(env("SHUTDOWN_TIMEOUT", "10s")); err != nil {
		return c, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
	}

	c.Backend = strings.ToLower(env("KV_BACKEND", BackendSQLite))
	switch c.Backend {
	case BackendSQLite, BackendMemory, BackendRedis:
	default:
		return c, fmt.Errorf("KV_BACKEND must be one of sqlite, memory, redis (got %q)", c.Backend)
	}
	c.DBPath = env("DB_PATH", "./data/waitlist.db")
	c.RedisAddr = env("REDIS_ADDR", "localhost:6379")
	if c.RedisPoolSize, err = envInt("REDIS_POOL_SIZE", 10); err != nil {
		return c, err
	}
	c.RedisPrefix = env("REDIS_KEY_PREFIX", "")

	c.JWTSecret = env("WAITLIST_JWT_SECRET", "")
	if c.JWTSecret == "" {
		return c, fmt.Errorf("WAITLIST_JWT_SECRET is empty")
	}

	c.StatsMode = strings.ToLower(env("WAITLIST_STATS_MODE", service.StatsPlaceholder))
	if c.StatsMode != service.StatsPlaceholder && c.StatsMode != service.StatsComputed {
		return c, fmt.Errorf("WAITLIST_STATS_MODE must be placeholder or computed (got %q)", c.StatsMode)
	}

	c.SpreadsheetID = env("GOOGLE_SHEETS_SPREADSHEET_ID", "")
	c.GoogleServiceAccountJSON = env("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	if (c.SpreadsheetID == "") != (c.GoogleServiceAccountJSON == "") {
		return c, fmt.Errorf("GOOGLE_SHEETS_SPREADSHEET_ID and GOOGLE_SERVICE_ACCOUNT_JSON must be set together")
	}
	c.SheetName = env("GOOGLE_SHEETS_TAB", "Waitlist")
	c.WebhookURL = env("SHEETS_WEBHOOK_URL", "")
	if c.NotifyQueueSize, err = envInt("NOTIFY_QUEUE_SIZE", 256); err != nil {
		return c, err
	}

	return c, nil
}

func env(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := env(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer (got %q)", key, raw)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
