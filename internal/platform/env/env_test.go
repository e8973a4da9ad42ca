package env

import (
	"testing"
	"time"
)

func TestStringFallback(t *testing.T) {
	if got := String("ENV_TEST_UNSET", "fallback"); got != "fallback" {
		t.Fatalf("got %q", got)
	}
	t.Setenv("ENV_TEST_SET", "value")
	if got := String("ENV_TEST_SET", "fallback"); got != "value" {
		t.Fatalf("got %q", got)
	}
}

func TestIntRejectsGarbage(t *testing.T) {
	t.Setenv("ENV_TEST_INT", "not-a-number")
	if got := Int("ENV_TEST_INT", 7); got != 7 {
		t.Fatalf("got %d", got)
	}
	t.Setenv("ENV_TEST_INT", "42")
	if got := Int("ENV_TEST_INT", 7); got != 42 {
		t.Fatalf("got %d", got)
	}
}

func TestDurationRejectsNonPositive(t *testing.T) {
	t.Setenv("ENV_TEST_DUR", "-5s")
	if got := Duration("ENV_TEST_DUR", time.Second); got != time.Second {
		t.Fatalf("got %v", got)
	}
	t.Setenv("ENV_TEST_DUR", "30s")
	if got := Duration("ENV_TEST_DUR", time.Second); got != 30*time.Second {
		t.Fatalf("got %v", got)
	}
}

func TestBackendURLPrecedence(t *testing.T) {
	t.Setenv("API_URL", "")
	t.Setenv("PUBLIC_API_URL", "")
	if got := BackendURL(); got != DefaultBackendURL {
		t.Fatalf("got %q", got)
	}

	t.Setenv("PUBLIC_API_URL", "http://public:8000")
	if got := BackendURL(); got != "http://public:8000" {
		t.Fatalf("got %q", got)
	}

	t.Setenv("API_URL", "http://internal:8000")
	if got := BackendURL(); got != "http://internal:8000" {
		t.Fatalf("got %q", got)
	}
}
