package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "http://localhost:5000", cfg.APIBaseURL)
	assert.Equal(t, cfg.APIBaseURL, cfg.ShareBaseURL)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://game.example:8080")
	t.Setenv("SHARE_BASE_URL", "https://share.example")
	t.Setenv("HTTP_TIMEOUT", "10s")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	assert.Equal(t, "http://game.example:8080", cfg.APIBaseURL)
	assert.Equal(t, "https://share.example", cfg.ShareBaseURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 10*time.Second, parseDuration("10s", 15*time.Second))
	assert.Equal(t, 15*time.Second, parseDuration("bogus", 15*time.Second))
	assert.Equal(t, 15*time.Second, parseDuration("-3s", 15*time.Second))
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, parseLogLevel(tc.input), tc.input)
	}
}
