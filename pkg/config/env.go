// Package config reads typed values from environment variables.
// Unparseable values fall back to the default and log a warning.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnvString returns the value of key, or defaultValue when it is unset or empty.
//
// Example:
//
//	addr := GetEnvString("HTTP_ADDR", ":8080")
func GetEnvString(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func warnInvalid(key, value, kind string, def any, err error) {
	attrs := []any{
		slog.String("key", key),
		slog.String("value", value),
		slog.Any("default", def),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	slog.Warn("invalid "+kind+" value for environment variable, using default", attrs...)
}

// GetEnvInt returns key parsed as a base-10 integer.
//
// Example:
//
//	limit := GetEnvInt("PAGINATION_MAX_LIMIT", 100)
func GetEnvInt(key string, defaultValue int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		warnInvalid(key, s, "integer", defaultValue, err)
		return defaultValue
	}
	return v
}

// GetEnvFloat returns key parsed as a float64.
//
// Example:
//
//	ratio := GetEnvFloat("TRACE_SAMPLE_RATIO", 1.0)
func GetEnvFloat(key string, defaultValue float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		warnInvalid(key, s, "float", defaultValue, err)
		return defaultValue
	}
	return v
}

// GetEnvBool returns key parsed by strconv.ParseBool.
//
// Example:
//
//	enabled := GetEnvBool("RATELIMIT_ENABLED", true)
func GetEnvBool(key string, defaultValue bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		warnInvalid(key, s, "boolean", defaultValue, nil)
		return defaultValue
	}
	return v
}

// GetEnvDuration returns key parsed by time.ParseDuration, e.g. "30s" or "1h30m".
//
// Example:
//
//	timeout := GetEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second)
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		warnInvalid(key, s, "duration", defaultValue.String(), err)
		return defaultValue
	}
	return v
}

// GetEnvStringList splits key on commas, trimming blanks and dropping empty items.
//
// Example:
//
//	// CORS_ORIGINS="https://a.example, https://b.example"
//	origins := GetEnvStringList("CORS_ORIGINS", nil)
func GetEnvStringList(key string, defaultValue []string) []string {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
