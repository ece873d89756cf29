package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, 4173, c.Server.Port)
	assert.Equal(t, 60*time.Second, c.Polling.Interval)
	assert.Equal(t, "http://localhost:8000", c.Backend.BaseURL)
	assert.Equal(t, 15*time.Second, c.Backend.CacheTTL)
	assert.Equal(t, "memory", c.Cache.Backend)
	assert.False(t, c.DashboardIsRemote())
	assert.False(t, c.Server.DisableCORS)
	assert.Equal(t, 1024, c.Cache.MaxEntries)
	assert.Equal(t, time.Minute, c.Cache.Cleanup)
	assert.Equal(t, "snappy", c.Events.Compression)
	assert.Equal(t, 1, c.Events.RequiredAcks)
	assert.Equal(t, 50*time.Millisecond, c.Events.BatchTimeout)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
environment: production
server:
  port: 9000
polling:
  interval: 30s
dashboard:
  source: https://example.com/data/dashboard.json
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", c.Environment)
	assert.Equal(t, 9000, c.Server.Port)
	assert.Equal(t, 30*time.Second, c.Polling.Interval)
	assert.True(t, c.DashboardIsRemote())
	assert.Equal(t, "info", c.Log.Level)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	_, err := Load(writeConfig(t, "cache:\n  backend: memcached\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "polling:\n  interval: 10ms\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "polling:\n  interval: 1500ms\n"))
	assert.ErrorContains(t, err, "whole number of seconds")

	_, err = Load(writeConfig(t, "events:\n  enabled: true\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "events:\n  compression: brotli\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "cache:\n  cleanup: -1s\n"))
	assert.Error(t, err)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "5000")
	t.Setenv("HIKARI_BACKEND_URL", "http://backend:8000")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	c, err := LoadWithEnv("")
	require.NoError(t, err)

	assert.Equal(t, 5000, c.Server.Port)
	assert.Equal(t, "http://backend:8000", c.Backend.BaseURL)
	assert.True(t, c.Events.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Events.Brokers)
}
