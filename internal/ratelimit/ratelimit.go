// Package ratelimit holds a per-user sliding-window request limiter.
// State lives in process memory and resets on restart.
package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"balance-backend/internal/auth"
	"balance-backend/internal/httpx"
)

type Limiter struct {
	mu     sync.Mutex
	quota  int
	window time.Duration
	hits   map[int64][]time.Time

	now func() time.Time // overridable in tests
}

func New(quota int, window time.Duration) *Limiter {
	return &Limiter{
		quota:  quota,
		window: window,
		hits:   map[int64][]time.Time{},
		now:    time.Now,
	}
}

// Allow records one request for userID and reports whether it fits the quota.
func (l *Limiter) Allow(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.hits[userID][:0]
	for _, t := range l.hits[userID] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.quota {
		l.hits[userID] = kept
		return false
	}

	l.hits[userID] = append(kept, now)
	return true
}

// Wrap enforces the quota on authenticated routes. A 429 here is
// distinguishable from auth (401/403) and validation (400) failures.
func (l *Limiter) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !l.Allow(uid) {
			httpx.WriteError(w, http.StatusTooManyRequests, "rate limit exceeded, slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}
