package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeTempConfig(t, `
api:
  base_url: "http://localhost:9000"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "UTC", cfg.Timezone.FallbackZone)
	assert.Equal(t, 500, cfg.Audit.Capacity)
	assert.Equal(t, 60*time.Minute, cfg.BookingMinAdvance())
	assert.Equal(t, 30*24*time.Hour, cfg.BookingMaxAdvance())
}

func TestLoadExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("SLOTBOOK_API_KEY", "secret-key")

	path := writeTempConfig(t, `
api:
  base_url: "http://localhost:9000"
  api_key: "${SLOTBOOK_API_KEY}"
  cache_ttl_seconds: 120
booking:
  min_advance_minutes: 90
  max_advance_days: 14
timezone:
  fallback_zone: "Asia/Kolkata"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "secret-key", cfg.API.APIKey)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL())
	assert.Equal(t, 90*time.Minute, cfg.BookingMinAdvance())
	assert.Equal(t, 14*24*time.Hour, cfg.BookingMaxAdvance())
	assert.Equal(t, "Asia/Kolkata", cfg.Timezone.FallbackZone)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
