package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
telegram_token = "123:abc"
database_url = "postgres://localhost/homestock"
redis_addr = "localhost:6379"
port = 9090
digest_hours = 24
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.Equal(t, "postgres://localhost/homestock", cfg.DatabaseURL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 24, cfg.DigestHours)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
telegram_token = "file-token"
database_url = "postgres://file"
port = 9090
`)

	t.Setenv("TELEGRAM_TOKEN", "env-token")
	t.Setenv("PORT", "7070")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.TelegramToken)
	assert.Equal(t, "postgres://file", cfg.DatabaseURL)
	assert.Equal(t, 7070, cfg.Port)
}

func TestLoadFromEnvOnly(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("DATABASE_URL", "postgres://localhost/homestock")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.Equal(t, 8080, cfg.Port) // default
	assert.Equal(t, 0, cfg.DigestHours)
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/homestock")

	_, err := Load("")
	assert.ErrorContains(t, err, "Telegram token")
}

func TestLoadMissingDatabase(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("DATABASE_URL", "")

	_, err := Load("")
	assert.ErrorContains(t, err, "database")
}

func TestLoadBadFile(t *testing.T) {
	path := writeConfigFile(t, `this is not toml = = =`)
	_, err := Load(path)
	assert.Error(t, err)
}
