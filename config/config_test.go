package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"APP_ENV", "PORT", "WEB_ORIGIN", "STORE_DRIVER", "DATABASE_URL", "SEED_FILE",
	"DB_HOST", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_PORT",
	"REDIS_ADDR", "REDIS_PASSWORD", "LOCK_DRIVER", "LOCK_TTL_SECONDS",
	"RETRY_MAX_ATTEMPTS", "RETRY_BASE_DELAY_MS",
}

// clearEnv unsets every key for the test; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Server.Port)
	assert.Equal(t, StorePostgres, cfg.DB.Driver)
	assert.Equal(t, LockRedis, cfg.Lock.Driver)
	assert.Equal(t, 10*time.Second, cfg.Lock.TTL)
	assert.Equal(t, 6, cfg.Retry.MaxAttempts)
	assert.Equal(t, 10*time.Millisecond, cfg.Retry.BaseDelay)
	assert.False(t, cfg.Development())
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("APP_ENV=development\nSTORE_DRIVER=memory\nLOCK_DRIVER=local\nRETRY_MAX_ATTEMPTS=3\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Development())
	assert.Equal(t, StoreMemory, cfg.DB.Driver)
	assert.Equal(t, LockLocal, cfg.Lock.Driver)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown store", "STORE_DRIVER", "sqlite"},
		{"unknown lock", "LOCK_DRIVER", "zookeeper"},
		{"non-numeric ttl", "LOCK_TTL_SECONDS", "ten"},
		{"zero attempts", "RETRY_MAX_ATTEMPTS", "0"},
		{"negative delay", "RETRY_BASE_DELAY_MS", "-5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
			assert.Error(t, err)
		})
	}
}
