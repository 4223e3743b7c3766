package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerPort string
	GinMode    string
	LogLevel   string
	LogFormat  string
	// AllowedOrigins controls HTTP CORS and WebSocket origin validation.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string

	TickInterval time.Duration
	CatalogPath  string

	// AlertCommand is executed with a sound file path as its only argument
	// whenever a countdown event fires. Empty disables audio alerts.
	AlertCommand      string
	AlertWarningSound string
	AlertEndedSound   string
	AlertTimeout      time.Duration

	// SessionRateLimit caps session start/stop requests per IP per minute.
	SessionRateLimit int
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // Ignore error — .env is optional

	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		GinMode:           getEnv("GIN_MODE", "debug"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "pretty"),
		AllowedOrigins:    parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
		TickInterval:      time.Duration(getEnvInt("TICK_INTERVAL_MS", 1000)) * time.Millisecond,
		CatalogPath:       getEnv("CATALOG_PATH", ""),
		AlertCommand:      getEnv("ALERT_COMMAND", ""),
		AlertWarningSound: getEnv("ALERT_WARNING_SOUND", "./sounds/warning.wav"),
		AlertEndedSound:   getEnv("ALERT_ENDED_SOUND", "./sounds/ended.wav"),
		AlertTimeout:      time.Duration(getEnvInt("ALERT_TIMEOUT_SECONDS", 15)) * time.Second,
		SessionRateLimit:  getEnvInt("SESSION_RATE_LIMIT", 30),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
