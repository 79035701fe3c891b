package handlers

import (
	"sync"
	"time"
)

// RateLimiter counts attempts per client IP within a fixed window.
type RateLimiter struct {
	attempts map[string]int
	limit    int
	mutex    sync.Mutex
	window   time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rateLimiter := &RateLimiter{
		attempts: make(map[string]int),
		limit:    limit,
		window:   window,
	}
	go rateLimiter.cleanup()
	return rateLimiter
}

// reset the attempts map every window duration
func (rateLimiter *RateLimiter) cleanup() {
	for range time.Tick(rateLimiter.window) {
		rateLimiter.mutex.Lock()
		rateLimiter.attempts = make(map[string]int)
		rateLimiter.mutex.Unlock()
	}
}

func (rateLimiter *RateLimiter) Allow(ip string) bool {
	rateLimiter.mutex.Lock()
	defer rateLimiter.mutex.Unlock()

	count, exists := rateLimiter.attempts[ip]
	if !exists {
		rateLimiter.attempts[ip] = 1
		return true
	}
	if count >= rateLimiter.limit {
		return false
	}
	rateLimiter.attempts[ip]++
	return true
}
