package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "data/app.db", cfg.DBPath)
	assert.Equal(t, "https://api.openrouteservice.org", cfg.ORSBaseURL)
	assert.Equal(t, "driving-hgv", cfg.ORSProfile)
	assert.Equal(t, 720*time.Hour, cfg.GeocodeTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 256, cfg.PersistQueue)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/cargo")
	t.Setenv("ORS_BASE_URL", "http://ors.local/")
	t.Setenv("GEOCODE_TTL", "5m")
	t.Setenv("LOG_PRETTY", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "postgres://u:p@localhost/cargo", cfg.DatabaseURL)
	assert.Equal(t, "http://ors.local", cfg.ORSBaseURL)
	assert.Equal(t, 5*time.Minute, cfg.GeocodeTTL)
	assert.True(t, cfg.LogPretty)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("CARGO_TEST_ONLY_KEY=from-file\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("CARGO_TEST_ONLY_KEY") })

	_, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "from-file", Get("CARGO_TEST_ONLY_KEY", "fallback"))
	assert.Equal(t, "fallback", Get("CARGO_TEST_MISSING_KEY", "fallback"))
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "mysql")
		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported DB_DRIVER")
	})

	t.Run("postgres without url", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "postgres")
		t.Setenv("DATABASE_URL", "")
		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_URL")
	})

	t.Run("empty persist queue", func(t *testing.T) {
		t.Setenv("PERSIST_QUEUE", "0")
		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		require.Error(t, err)
	})
}
