// Package config reads typed values from environment variables. The
// server configuration uses it to let deployments override YAML values
// (SERVER_ADDR, DATABASE_URL, REQUEST_TIMEOUT and friends) without
// editing files. Unparseable values warn and keep the default rather
// than failing startup.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// GetEnvString returns the environment variable or the default when
// unset. No validation, no logging.
//
//	dsn := GetEnvString("DATABASE_URL", cfg.DatabaseURL)
func GetEnvString(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvInt returns the environment variable parsed as an int. An
// unparseable value logs a warning and returns the default.
func GetEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var value int
	if _, err := fmt.Sscanf(valueStr, "%d", &value); err != nil {
		slog.Warn("invalid integer value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", valueStr),
			slog.Int("default", defaultValue))
		return defaultValue
	}
	return value
}

// GetEnvDuration returns the environment variable parsed with
// time.ParseDuration ("30s", "1m30s"). An unparseable value logs a
// warning and returns the default.
//
//	timeout := GetEnvDuration("REQUEST_TIMEOUT", 30*time.Second)
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		slog.Warn("invalid duration value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", valueStr),
			slog.String("default", defaultValue.String()))
		return defaultValue
	}
	return value
}

// GetEnvStringList splits the environment variable on commas, trimming
// whitespace and dropping empty items. Used for ALLOWED_ORIGINS:
//
//	ALLOWED_ORIGINS="https://portal.example.jp, http://localhost:5173"
func GetEnvStringList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
