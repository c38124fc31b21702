package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// clearEnv deja el entorno limpio para que variables del host no contaminen los tests.
func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"PORT", "DATABASE_URL", "CONFIG_FILE",
		"APP_NAME", "APP_VERSION", "APP_DESCRIPTION", "APP_AUTHOR",
		"APP_ENV", "LOG_LEVEL", "REQUEST_TIMEOUT", "RUN_MIGRATIONS",
		"DB_MAX_CONNS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()

	require.Error(t, err)
	require.Equal(t, Config{}, cfg)
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://example")

	cfg, err := Load()

	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "postgres://example", cfg.DatabaseURL)
	require.Equal(t, "Product Catalog API", cfg.AppName)
	require.Equal(t, "1.0.0", cfg.AppVersion)
	require.Equal(t, "local", cfg.Env)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, 10*time.Second, cfg.RequestTimeout)
	require.True(t, cfg.RunMigrations)
	require.Zero(t, cfg.DBMaxConns)
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("PORT", ":9090")
	t.Setenv("APP_VERSION", "2.3.4")
	t.Setenv("APP_ENV", "PROD")
	t.Setenv("LOG_LEVEL", "Debug")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("DB_MAX_CONNS", "25")

	cfg, err := Load()

	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "2.3.4", cfg.AppVersion)
	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 3*time.Second, cfg.RequestTimeout)
	require.False(t, cfg.RunMigrations)
	require.Equal(t, int32(25), cfg.DBMaxConns)
}

func TestLoad_InvalidDBMaxConns(t *testing.T) {
	for _, value := range []string{"-1", "3000000000"} {
		t.Run(value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DATABASE_URL", "postgres://example")
			t.Setenv("DB_MAX_CONNS", value)

			cfg, err := Load()

			require.ErrorContains(t, err, "invalid DB_MAX_CONNS")
			require.Equal(t, Config{}, cfg)
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "database_url: postgres://from-file\napp_name: Catalog From File\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()

	require.NoError(t, err)
	require.Equal(t, "postgres://from-file", cfg.DatabaseURL)
	require.Equal(t, "Catalog From File", cfg.AppName)
}

func TestLoad_ConfigFileMissing(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()

	require.Error(t, err)
}
