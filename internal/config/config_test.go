package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.BasicConfig.ServerAddress)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.True(t, filepath.IsAbs(cfg.Database.DSN))
	assert.Equal(t, "sivi-key", cfg.Auth.APIKey)
	assert.Equal(t, "x-api-key", cfg.Auth.HeaderName)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadFileResolvesRelativeDSN(t *testing.T) {
	path := writeConfig(t, `{
		"basic_config": {"server_address": ":9000"},
		"database": {"driver": "SQLite", "dsn": "data/sivi.db"},
		"auth": {"api_key": "k1"}
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.BasicConfig.ServerAddress)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "data/sivi.db"), cfg.Database.DSN)
	assert.Equal(t, "k1", cfg.Auth.APIKey)
	// untouched sections keep their defaults
	assert.Equal(t, 60, cfg.Redis.PromptCacheTTLSeconds)
}

func TestLoadMemoryDSNUntouched(t *testing.T) {
	path := writeConfig(t, `{"database": {"driver": "sqlite3", "dsn": ":memory:"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.Database.DSN)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `{"database": {"driver": "sqlite3", "dsn": "/tmp/a.db"}}`)
	t.Setenv("SIVI_API_KEY", "from-env")
	t.Setenv("SIVI_SERVER_ADDRESS", ":7000")
	t.Setenv("SIVI_REDIS_ENABLED", "true")
	t.Setenv("SIVI_REDIS_PORT", "6380")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.APIKey)
	assert.Equal(t, ":7000", cfg.BasicConfig.ServerAddress)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 6380, cfg.Redis.Port)
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]string{
		"unknown driver": `{"database": {"driver": "oracle", "dsn": "x"}}`,
		"empty api key":  `{"auth": {"api_key": "  "}}`,
		"mysql no host":  `{"database": {"driver": "mysql"}}`,
		"postgres dsn":   `{"database": {"driver": "postgres", "dsn": ""}}`,
		"bad json":       `{"database":`,
	}
	for name, body := range cases {
		_, err := Load(writeConfig(t, body))
		assert.Error(t, err, name)
	}
}

func TestLoadPostgresAlias(t *testing.T) {
	path := writeConfig(t, `{"database": {"driver": "pgx", "dsn": "postgres://localhost/sivi"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/sivi", cfg.Database.DSN)
}
