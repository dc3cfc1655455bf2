package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the client's environment-driven configuration.
type Config struct {
	APIBaseURL   string
	ShareBaseURL string
	HTTPTimeout  time.Duration
	LogFile      string
	Environment  string
	LogLevel     slog.Level
}

// Load reads configuration from the environment, after loading an
// optional .env file. Missing values fall back to defaults.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	cfg := &Config{
		APIBaseURL:   getEnv("API_BASE_URL", "http://localhost:5000"),
		ShareBaseURL: os.Getenv("SHARE_BASE_URL"),
		HTTPTimeout:  parseDuration(getEnv("HTTP_TIMEOUT", "15s"), 15*time.Second),
		LogFile:      os.Getenv("LOG_FILE"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		LogLevel:     parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}
	if cfg.ShareBaseURL == "" {
		cfg.ShareBaseURL = cfg.APIBaseURL
	}
	return cfg
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
