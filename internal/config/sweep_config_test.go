package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAppConfig(t *testing.T) {
	cfg := DefaultAppConfig()
	assert.Equal(t, 5, cfg.Sweep.IntervalMinutes)
	assert.Equal(t, 3, cfg.Sweep.MaxRetryAttempts)
	assert.Equal(t, 30, cfg.Sweep.RetryDelaySeconds)
	assert.Equal(t, 5, cfg.Sweep.UniquenessWindowMinutes)
	assert.Equal(t, "maintenance", cfg.Sweep.Queue)
	assert.Equal(t, "localhost:6379", cfg.Queuing.RedisAddr)
	assert.Equal(t, 1, cfg.Queuing.QueuePriorities["maintenance"])
}

func TestLoadAppConfig_OverridesAndDefaults(t *testing.T) {
	content := `
[sweep]
interval_minutes = 10
max_retry_attempts = 5
queue = "reconciliation"

[queuing]
redis_addr = "redis:6379"
concurrency = 20
`
	path := filepath.Join(t.TempDir(), "config.toml")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadAppConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, 10, cfg.Sweep.IntervalMinutes)
	assert.Equal(t, 5, cfg.Sweep.MaxRetryAttempts)
	assert.Equal(t, "reconciliation", cfg.Sweep.Queue)
	assert.Equal(t, "redis:6379", cfg.Queuing.RedisAddr)
	assert.Equal(t, 20, cfg.Queuing.Concurrency)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, 30, cfg.Sweep.RetryDelaySeconds)
	assert.Equal(t, 300, cfg.Sweep.TimeoutSeconds)
}

func TestLoadAppConfig_MissingFile(t *testing.T) {
	cfg, err := LoadAppConfig("/nonexistent/config.toml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}
