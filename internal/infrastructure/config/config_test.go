package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "config.yaml"), []byte(body), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_DefaultsAndFile(t *testing.T) {
	writeConfig(t, `
merchant:
  id: "12345"
gateway:
  timeout_seconds: 5
`)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "12345", cfg.Merchant.ID)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "gorm", cfg.Journal.Backend)
	assert.Equal(t, 5, cfg.Gateway.TimeoutSeconds)
	assert.Same(t, cfg, Get())
}

func TestLoad_EnvOverrides(t *testing.T) {
	writeConfig(t, "server:\n  port: 9000\n")
	t.Setenv("PAYGATE_MERCHANT_SECRET", "from-env")
	t.Setenv("PAYGATE_SERVER_PORT", "9100")

	cfg, err := Load("release")
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Merchant.Secret)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
}

func TestLoad_RejectsUnknownBackends(t *testing.T) {
	writeConfig(t, "journal:\n  backend: cassandra\n")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_MongoRequiresURI(t *testing.T) {
	writeConfig(t, "journal:\n  backend: mongo\n")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_RejectsRelativeReturnURL(t *testing.T) {
	writeConfig(t, "gateway:\n  success_url: /payments/return\n")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway.success_url")
}

func TestLoad_CacheAndRateLimitDefaults(t *testing.T) {
	writeConfig(t, "redis:\n  enabled: true\n")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 30, cfg.RateLimit.CheckoutPerMinute)
	assert.Equal(t, 30, cfg.Catalog.RefreshIntervalMinutes)
	assert.Equal(t, time.Hour, cfg.Catalog.CacheTTL())
}
