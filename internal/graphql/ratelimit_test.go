package graphql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterDeniesOverLimit(t *testing.T) {
	l := NewRateLimiter(time.Minute, 3, nil)
	for i := 0; i < 3; i++ {
		ok, _ := l.Allow("user:1")
		require.True(t, ok)
	}
	ok, retryAfter := l.Allow("user:1")
	assert.False(t, ok)
	assert.Greater(t, retryAfter, time.Duration(0))
	assert.LessOrEqual(t, retryAfter, time.Minute)
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	l := NewRateLimiter(time.Minute, 1, nil)
	ok, _ := l.Allow("user:1")
	require.True(t, ok)
	ok, _ = l.Allow("user:1")
	require.False(t, ok)

	ok, _ = l.Allow("anon:10.0.0.1")
	assert.True(t, ok)
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	now := time.Now()
	l := NewRateLimiter(time.Minute, 1, nil)
	l.now = func() time.Time { return now }

	ok, _ := l.Allow("user:1")
	require.True(t, ok)
	ok, _ = l.Allow("user:1")
	require.False(t, ok)

	now = now.Add(61 * time.Second)
	ok, _ = l.Allow("user:1")
	assert.True(t, ok)
}

func TestRateLimiterFailsOpenOnPanic(t *testing.T) {
	l := NewRateLimiter(time.Minute, 1, nil)
	l.now = func() time.Time { panic("clock broke") }

	ok, retryAfter := l.Allow("user:1")
	assert.True(t, ok)
	assert.Zero(t, retryAfter)
}
