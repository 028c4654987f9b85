package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.toml")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "care-bridge-gateway", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8090", cfg.HTTPAddr())
	assert.Equal(t, 3, cfg.Redis.DialTimeoutSec)
	assert.Equal(t, 2, cfg.Redis.ReadTimeoutSec)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.toml")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("REDIS_READ_TIMEOUT_SEC", "5")
	t.Setenv("COLLABORATOR_BASE_URL", "http://reports.internal:8000/api")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.App.Port)
	assert.Equal(t, 5, cfg.Redis.ReadTimeoutSec)
	assert.Equal(t, "http://reports.internal:8000/api", cfg.Collaborator.BaseURL)
}
