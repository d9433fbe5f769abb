package graphql

import (
	"log/slog"
	"sync"
	"time"
)

// RateLimiter counts requests per principal key over a fixed window. The
// map is the only in-process shared mutable state in the pipeline, so all
// access is serialized behind the mutex. A limiter-internal failure
// admits the request (fail-open) and logs; the limiter must never be the
// reason traffic stops.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*rateWindow

	window time.Duration
	max    int
	now    func() time.Time
	logger *slog.Logger
}

type rateWindow struct {
	start time.Time
	count int
}

func NewRateLimiter(window time.Duration, max int, logger *slog.Logger) *RateLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &RateLimiter{
		windows: make(map[string]*rateWindow),
		window:  window,
		max:     max,
		now:     time.Now,
		logger:  logger,
	}
}

// Allow reports whether the principal may proceed. When denied,
// retryAfter is the time remaining in the current window.
func (l *RateLimiter) Allow(key string) (ok bool, retryAfter time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("rate limiter failure, admitting request", "panic", r, "principal", key)
			ok = true
			retryAfter = 0
		}
	}()

	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.windows[key]
	if w == nil || now.Sub(w.start) > l.window {
		w = &rateWindow{start: now}
		l.windows[key] = w
	}
	if w.count >= l.max {
		return false, l.window - now.Sub(w.start)
	}
	w.count++
	return true, 0
}
