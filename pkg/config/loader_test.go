package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/config"
)

type batchConfig struct {
	BatchSize int    `env:"TEST_TENANT_BATCH_SIZE" envDefault:"100"`
	Name      string `env:"TEST_APP_NAME" envDefault:"tenantkit"`
}

type requiredConfig struct {
	Secret string `env:"TEST_REQUIRED_SECRET,required"`
}

// These tests mutate process env and the package cache, so they run serially.

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		config.Reset()
		var cfg batchConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, 100, cfg.BatchSize)
		assert.Equal(t, "tenantkit", cfg.Name)
	})

	t.Run("reads environment and caches per type", func(t *testing.T) {
		config.Reset()
		t.Setenv("TEST_TENANT_BATCH_SIZE", "25")

		var first batchConfig
		require.NoError(t, config.Load(&first))
		assert.Equal(t, 25, first.BatchSize)

		t.Setenv("TEST_TENANT_BATCH_SIZE", "50")
		var second batchConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, 25, second.BatchSize, "cached value is returned")

		config.Reset()
		var third batchConfig
		require.NoError(t, config.Load(&third))
		assert.Equal(t, 50, third.BatchSize)
	})

	t.Run("missing required variable", func(t *testing.T) {
		config.Reset()
		var cfg requiredConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
		assert.Panics(t, func() { config.MustLoad(&cfg) })
	})

	t.Run("nil pointer", func(t *testing.T) {
		assert.ErrorIs(t, config.Load[batchConfig](nil), config.ErrNilPointer)
	})
}

func TestLoadEnvFiles(t *testing.T) {
	config.Reset()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TEST_REQUIRED_SECRET=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("TEST_REQUIRED_SECRET") })

	require.NoError(t, config.LoadEnvFiles(path))

	var cfg requiredConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "from-file", cfg.Secret)

	assert.ErrorIs(t, config.LoadEnvFiles(filepath.Join(t.TempDir(), "missing.env")), config.ErrLoadingEnv)
}
