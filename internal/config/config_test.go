package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8084, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:5176"}, cfg.Server.AllowOrigins)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, "02:00", cfg.Scheduler.DailyRunTime)
	assert.Equal(t, 60, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 365, cfg.Cleanup.RetentionDays)
	assert.Equal(t, "Europe/Istanbul", cfg.Timezone)
}

func TestLoadConfigMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	yaml := `
server:
  port: 9000
scheduler:
  daily_run_time: "03:30"
rate_limit:
  requests_per_minute: 10
timezone: "Asia/Tokyo"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "03:30", cfg.Scheduler.DailyRunTime)
	assert.Equal(t, 10, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "Asia/Tokyo", cfg.Timezone)

	// Untouched sections keep their defaults
	assert.Equal(t, 365, cfg.Cleanup.RetentionDays)
}

func TestLoadConfigRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLocation(t *testing.T) {
	cfg := &Config{Timezone: "Asia/Tokyo"}
	assert.Equal(t, "Asia/Tokyo", cfg.Location().String())

	cfg = &Config{Timezone: "Not/AZone"}
	assert.Equal(t, time.Local, cfg.Location())

	cfg = &Config{}
	assert.Equal(t, time.Local, cfg.Location())
}

func TestTokenTTL(t *testing.T) {
	auth := AuthConfig{TokenTTLHours: 12}
	assert.Equal(t, 12*time.Hour, auth.TokenTTL())

	auth = AuthConfig{}
	assert.Equal(t, 24*time.Hour, auth.TokenTTL())
}
