package handlers

import (
	"sync"
	"testing"
	"time"
)

func TestRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		attempts []string // IPs to attempt
		expected []bool
	}{
		{
			name:     "within limit",
			limit:    2,
			attempts: []string{"192.168.1.1", "192.168.1.1"},
			expected: []bool{true, true},
		},
		{
			name:     "over limit",
			limit:    2,
			attempts: []string{"192.168.1.1", "192.168.1.1", "192.168.1.1"},
			expected: []bool{true, true, false},
		},
		{
			name:     "separate ips counted separately",
			limit:    1,
			attempts: []string{"192.168.1.1", "192.168.1.2", "192.168.1.1"},
			expected: []bool{true, true, false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewRateLimiter(tt.limit, time.Minute)
			for i, ip := range tt.attempts {
				if got := rl.Allow(ip); got != tt.expected[i] {
					t.Errorf("attempt %d from %s: expected %v, got %v", i, ip, tt.expected[i], got)
				}
			}
		})
	}
}

func TestRateLimiter_ConcurrentAllow(t *testing.T) {
	rl := NewRateLimiter(50, time.Minute)

	var wg sync.WaitGroup
	allowed := make(chan bool, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed <- rl.Allow("10.0.0.1")
		}()
	}
	wg.Wait()
	close(allowed)

	count := 0
	for ok := range allowed {
		if ok {
			count++
		}
	}
	if count != 50 {
		t.Errorf("expected exactly 50 allowed attempts, got %d", count)
	}
}
