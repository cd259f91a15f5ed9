package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int32(10), cfg.Precision)
	assert.False(t, cfg.OTel.Enabled)
	assert.Equal(t, "decimal-calculator", cfg.OTel.ServiceName)
	assert.Empty(t, cfg.RunID)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CALCULATOR_LOG_LEVEL", "debug")
	t.Setenv("CALCULATOR_PRECISION", "4")
	t.Setenv("CALCULATOR_OTEL_ENABLED", "true")
	t.Setenv("CALCULATOR_OTEL_SERVICE_NAME", "calc-test")
	t.Setenv("CALCULATOR_RUN_ID", "nightly-batch-7")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, int32(4), cfg.Precision)
	assert.True(t, cfg.OTel.Enabled)
	assert.Equal(t, "calc-test", cfg.OTel.ServiceName)
	assert.Equal(t, "nightly-batch-7", cfg.RunID)
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CALCULATOR_PRECISION=3\nCALCULATOR_LOG_LEVEL=error\n"), 0o600))

	t.Setenv("CALCULATOR_LOG_LEVEL", "warn")
	// godotenv sets variables directly; register them so they are restored.
	t.Setenv("CALCULATOR_PRECISION", "")
	require.NoError(t, os.Unsetenv("CALCULATOR_PRECISION"))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int32(3), cfg.Precision)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("not a number", func(t *testing.T) {
		t.Setenv("CALCULATOR_PRECISION", "many")
		_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
		assert.Error(t, err)
	})

	t.Run("negative", func(t *testing.T) {
		t.Setenv("CALCULATOR_PRECISION", "-1")
		_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
		assert.ErrorContains(t, err, "must not be negative")
	})
}
