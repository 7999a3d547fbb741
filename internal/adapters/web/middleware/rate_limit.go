package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// RateLimiter is a per-client sliding window limiter, used on the login
// endpoint to slow down credential guessing.
type RateLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int
	window time.Duration
	swept  time.Time
	now    func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow records a request from key and reports whether it stays under the
// limit. Stale entries are swept opportunistically.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.swept) > rl.window {
		rl.sweepLocked(now)
	}

	recent := trimOld(rl.hits[key], now, rl.window)
	if len(recent) >= rl.limit {
		rl.hits[key] = recent
		return false
	}
	rl.hits[key] = append(recent, now)
	return true
}

func (rl *RateLimiter) sweepLocked(now time.Time) {
	for key, times := range rl.hits {
		recent := trimOld(times, now, rl.window)
		if len(recent) == 0 {
			delete(rl.hits, key)
		} else {
			rl.hits[key] = recent
		}
	}
	rl.swept = now
}

func trimOld(times []time.Time, now time.Time, window time.Duration) []time.Time {
	keep := times[:0]
	for _, t := range times {
		if now.Sub(t) < window {
			keep = append(keep, t)
		}
	}
	return keep
}

// Middleware answers 429 once a client exceeds the limit. The client key
// is the remote IP without the port.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.RemoteAddr
		if host, _, err := net.SplitHostPort(key); err == nil {
			key = host
		}
		if !rl.Allow(key) {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
