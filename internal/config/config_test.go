package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"TELEGRAM_BOT_TOKEN", "STORAGE_BACKEND", "TRACKER_DB", "POSTGRES_DSN", "LOG_LEVEL", "LOG_DIR", "TRACKER_TIMEZONE"} {
		t.Setenv(k, "")
	}
	// Load reads .env from the working directory; run from an empty one.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	keyring.MockInit()
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "tracker.db", filepath.Base(cfg.DBPath))
	assert.Empty(t, cfg.TelegramToken)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	keyring.MockInit()
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/tracker")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.TelegramToken)
	assert.Equal(t, "postgres://localhost/tracker", cfg.StoreTarget())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_DotEnv(t *testing.T) {
	keyring.MockInit()
	clearEnv(t)
	os.Unsetenv("LOG_LEVEL")
	require.NoError(t, os.WriteFile(".env", []byte("LOG_LEVEL=warn\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_TokenFromKeyring(t *testing.T) {
	keyring.MockInit()
	clearEnv(t)
	require.NoError(t, SaveTokenToKeyring("keyring-token"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "keyring-token", cfg.TelegramToken)
}

func TestTokenFromKeyring_NotFound(t *testing.T) {
	keyring.MockInit()
	_, err := TokenFromKeyring()
	assert.True(t, errors.Is(err, ErrTokenNotFound))
}

func TestSaveTokenToKeyring_Empty(t *testing.T) {
	keyring.MockInit()
	assert.Error(t, SaveTokenToKeyring(""))
}

func TestValidate(t *testing.T) {
	base := Config{Backend: "sqlite", DBPath: "x.db", LogLevel: "info"}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"postgres without dsn", func(c *Config) { c.Backend = "postgres" }},
		{"unknown backend", func(c *Config) { c.Backend = "mongo" }},
		{"sqlite without path", func(c *Config) { c.DBPath = "" }},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
	assert.NoError(t, base.Validate())
}
