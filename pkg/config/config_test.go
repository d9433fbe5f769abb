package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "AUTH_PROVIDER", "RATE_LIMIT_WINDOW", "RATE_LIMIT_MAX", "REQUEST_TIMEOUT"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "jwt", cfg.AuthProvider)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("RATE_LIMIT_MAX", "7")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("AUTH_PROVIDER", "firebase")
	cfg := Load()
	assert.Equal(t, 7, cfg.RateLimitMax)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, "firebase", cfg.AuthProvider)
}

func TestLoadIgnoresUnparsableNumbers(t *testing.T) {
	t.Setenv("RATE_LIMIT_MAX", "lots")
	t.Setenv("REQUEST_TIMEOUT", "soon")
	cfg := Load()
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}
