package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter maintains per-user per-action limiters and performs periodic
// cleanup of idle entries.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*entry
	stopCh  chan struct{}
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*entry),
		stopCh:  make(chan struct{}),
	}
}

// Allow reports whether the action is permitted for the user and consumes a
// token if so.
func (rl *RateLimiter) Allow(safeEmail, action string) bool {
	key := safeEmail + ":" + action

	rl.mu.Lock()
	e, ok := rl.buckets[key]
	if !ok {
		e = &entry{limiter: limiterFor(action)}
		rl.buckets[key] = e
	}
	e.lastSeen = time.Now()
	rl.mu.Unlock()

	return e.limiter.Allow()
}

func limiterFor(action string) *rate.Limiter {
	switch action {
	case "send_message":
		// 10 messages per minute
		return rate.NewLimiter(rate.Every(6*time.Second), 10)
	case "create_chat":
		// 5 chat creations per hour
		return rate.NewLimiter(rate.Every(12*time.Minute), 5)
	default:
		// 20 actions per minute
		return rate.NewLimiter(rate.Every(3*time.Second), 20)
	}
}

// Cleanup removes buckets that have not been used for an hour.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-time.Hour)
	for key, e := range rl.buckets {
		if e.lastSeen.Before(cutoff) {
			delete(rl.buckets, key)
		}
	}
}

func (rl *RateLimiter) StartCleanupRoutine() {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup()
			case <-rl.stopCh:
				return
			}
		}
	}()
}

// Stop stops the cleanup routine (useful for tests).
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}
