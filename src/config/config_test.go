package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDev, cfg.Environment)
	assert.Equal(t, 64, cfg.PoolSize)
	assert.Equal(t, 4, cfg.BucketCapacity)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "pagecache.db", cfg.DataFile)
}

func TestLoadOverridesFromEnv(t *testing.T) {
	clearEnv(t)

	t.Setenv("PAGECACHE_POOL_SIZE", "128")
	t.Setenv("PAGECACHE_ENVIRONMENT", "prod")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 128, cfg.PoolSize)
	assert.Equal(t, EnvProd, cfg.Environment)
}

func TestLoadRejectsUnknownEnvironment(t *testing.T) {
	clearEnv(t)

	t.Setenv("PAGECACHE_ENVIRONMENT", "staging")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDev, cfg.Environment)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"PAGECACHE_ENVIRONMENT",
		"PAGECACHE_POOL_SIZE",
		"PAGECACHE_BUCKET_CAPACITY",
		"PAGECACHE_DATA_DIR",
		"PAGECACHE_DATA_FILE",
	} {
		os.Unsetenv(name)
	}
}
