package env

import (
	"os"
	"strconv"
	"time"
)

const (
	DefaultListenAddr = ":3000"
	DefaultBackendURL = "http://localhost:8000"
)

func String(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func Int(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func Bool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func Duration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

// BackendURL resolves the task service base URL. The server-side API_URL
// takes precedence over the build-time PUBLIC_API_URL when both are set.
func BackendURL() string {
	if v := os.Getenv("API_URL"); v != "" {
		return v
	}
	return String("PUBLIC_API_URL", DefaultBackendURL)
}
