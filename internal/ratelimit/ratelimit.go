package ratelimit

import (
	"sync"
	"time"
)

// Limits bound how many mutating requests are accepted per window
type Limits struct {
	PerMinute int
	PerHour   int
	PerDay    int
	Enabled   bool
}

// RateLimiter tracks and enforces request rate limits over sliding windows
type RateLimiter struct {
	limits Limits

	// Request tracking
	minuteWindow []time.Time
	hourWindow   []time.Time
	dayWindow    []time.Time
	mu           sync.Mutex
}

// NewRateLimiter creates a new rate limiter with the given limits
func NewRateLimiter(limits Limits) *RateLimiter {
	return &RateLimiter{
		limits:       limits,
		minuteWindow: make([]time.Time, 0),
		hourWindow:   make([]time.Time, 0),
		dayWindow:    make([]time.Time, 0),
	}
}

// AllowRequest checks if a request is allowed based on rate limits.
// Returns true if allowed, false if a limit is exceeded.
func (rl *RateLimiter) AllowRequest() bool {
	if !rl.limits.Enabled {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	// Clean up old entries
	rl.cleanup(now)

	// Check limits
	if rl.limits.PerMinute > 0 && len(rl.minuteWindow) >= rl.limits.PerMinute {
		return false
	}
	if rl.limits.PerHour > 0 && len(rl.hourWindow) >= rl.limits.PerHour {
		return false
	}
	if rl.limits.PerDay > 0 && len(rl.dayWindow) >= rl.limits.PerDay {
		return false
	}

	// Record the request
	rl.minuteWindow = append(rl.minuteWindow, now)
	rl.hourWindow = append(rl.hourWindow, now)
	rl.dayWindow = append(rl.dayWindow, now)

	return true
}

// cleanup removes expired entries from the time windows
func (rl *RateLimiter) cleanup(now time.Time) {
	rl.minuteWindow = filterTimes(rl.minuteWindow, now.Add(-1*time.Minute))
	rl.hourWindow = filterTimes(rl.hourWindow, now.Add(-1*time.Hour))
	rl.dayWindow = filterTimes(rl.dayWindow, now.Add(-24*time.Hour))
}

// filterTimes keeps only times after the cutoff
func filterTimes(times []time.Time, cutoff time.Time) []time.Time {
	result := make([]time.Time, 0, len(times))
	for _, t := range times {
		if t.After(cutoff) {
			result = append(result, t)
		}
	}
	return result
}

// GetStats returns current rate limiter statistics
func (rl *RateLimiter) GetStats() Stats {
	if !rl.limits.Enabled {
		return Stats{Enabled: false}
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.cleanup(now)

	return Stats{
		Enabled:             true,
		RequestsLastMinute:  len(rl.minuteWindow),
		RequestsLastHour:    len(rl.hourWindow),
		RequestsLastDay:     len(rl.dayWindow),
		LimitPerMinute:      rl.limits.PerMinute,
		LimitPerHour:        rl.limits.PerHour,
		LimitPerDay:         rl.limits.PerDay,
		RemainingThisMinute: remaining(rl.limits.PerMinute, len(rl.minuteWindow)),
		RemainingThisHour:   remaining(rl.limits.PerHour, len(rl.hourWindow)),
		RemainingThisDay:    remaining(rl.limits.PerDay, len(rl.dayWindow)),
	}
}

// Stats contains rate limiter statistics
type Stats struct {
	Enabled             bool `json:"enabled"`
	RequestsLastMinute  int  `json:"requests_last_minute"`
	RequestsLastHour    int  `json:"requests_last_hour"`
	RequestsLastDay     int  `json:"requests_last_day"`
	LimitPerMinute      int  `json:"limit_per_minute"`
	LimitPerHour        int  `json:"limit_per_hour"`
	LimitPerDay         int  `json:"limit_per_day"`
	RemainingThisMinute int  `json:"remaining_this_minute"`
	RemainingThisHour   int  `json:"remaining_this_hour"`
	RemainingThisDay    int  `json:"remaining_this_day"`
}

// Reset clears all tracked requests (useful for testing)
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.minuteWindow = make([]time.Time, 0)
	rl.hourWindow = make([]time.Time, 0)
	rl.dayWindow = make([]time.Time, 0)
}

func remaining(limit, used int) int {
	if limit <= 0 {
		return 0
	}
	if used > limit {
		return 0
	}
	return limit - used
}
