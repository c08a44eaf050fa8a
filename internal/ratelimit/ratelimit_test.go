package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowRequestUnderLimit(t *testing.T) {
	rl := NewRateLimiter(Limits{PerMinute: 5, PerHour: 100, PerDay: 1000, Enabled: true})

	for i := 0; i < 5; i++ {
		assert.True(t, rl.AllowRequest(), "request %d should be allowed", i+1)
	}
}

func TestAllowRequestBlocksAtMinuteCap(t *testing.T) {
	rl := NewRateLimiter(Limits{PerMinute: 3, PerHour: 100, PerDay: 1000, Enabled: true})

	for i := 0; i < 3; i++ {
		assert.True(t, rl.AllowRequest())
	}
	assert.False(t, rl.AllowRequest(), "4th request within a minute should be blocked")
}

func TestDisabledLimiterAlwaysAllows(t *testing.T) {
	rl := NewRateLimiter(Limits{PerMinute: 1, PerHour: 1, PerDay: 1, Enabled: false})

	for i := 0; i < 10; i++ {
		assert.True(t, rl.AllowRequest())
	}
}

func TestResetClearsWindows(t *testing.T) {
	rl := NewRateLimiter(Limits{PerMinute: 2, PerHour: 100, PerDay: 1000, Enabled: true})

	assert.True(t, rl.AllowRequest())
	assert.True(t, rl.AllowRequest())
	assert.False(t, rl.AllowRequest())

	rl.Reset()
	assert.True(t, rl.AllowRequest())
}

func TestGetStats(t *testing.T) {
	rl := NewRateLimiter(Limits{PerMinute: 10, PerHour: 100, PerDay: 1000, Enabled: true})

	rl.AllowRequest()
	rl.AllowRequest()

	stats := rl.GetStats()
	assert.True(t, stats.Enabled)
	assert.Equal(t, 2, stats.RequestsLastMinute)
	assert.Equal(t, 2, stats.RequestsLastHour)
	assert.Equal(t, 2, stats.RequestsLastDay)
	assert.Equal(t, 8, stats.RemainingThisMinute)
	assert.Equal(t, 10, stats.LimitPerMinute)
}

func TestGetStatsDisabled(t *testing.T) {
	rl := NewRateLimiter(Limits{Enabled: false})

	stats := rl.GetStats()
	assert.False(t, stats.Enabled)
	assert.Equal(t, 0, stats.RequestsLastMinute)
}
