// Package config loads runtime settings from the environment, an optional
// .env file and the OS keyring.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the OS keyring service name holding the bot token.
	KeyringService = "tracker-agent"
	// KeyringUser is the keyring account under which the token is stored.
	KeyringUser = "telegram-token"
)

// ErrTokenNotFound is returned when no bot token is stored in the keyring.
var ErrTokenNotFound = errors.New("bot token not found in keyring")

// Config holds the runtime settings.
type Config struct {
	TelegramToken string
	Backend       string // sqlite or postgres
	DBPath        string
	PostgresDSN   string
	LogLevel      string
	LogDir        string
	Timezone      string // IANA name; empty uses the local zone
}

// Load reads .env (if present) and the environment. When TELEGRAM_BOT_TOKEN
// is unset the token is looked up in the OS keyring.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		Backend:       getEnv("STORAGE_BACKEND", "sqlite"),
		DBPath:        getEnv("TRACKER_DB", defaultDBPath()),
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogDir:        os.Getenv("LOG_DIR"),
		Timezone:      os.Getenv("TRACKER_TIMEZONE"),
	}
	if cfg.TelegramToken == "" {
		if token, err := TokenFromKeyring(); err == nil {
			cfg.TelegramToken = token
		}
	}
	return cfg, nil
}

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	switch c.Backend {
	case "sqlite":
		if c.DBPath == "" {
			return errors.New("TRACKER_DB is required when STORAGE_BACKEND=sqlite")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be sqlite or postgres, got %q", c.Backend)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.LogLevel)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// StoreTarget returns the path or DSN handed to the storage backend.
func (c *Config) StoreTarget() string {
	if c.Backend == "postgres" {
		return c.PostgresDSN
	}
	return c.DBPath
}

// Location resolves Timezone, which decides what "today" means for the
// date picker.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TRACKER_TIMEZONE: %w", err)
	}
	return loc, nil
}

// TokenFromKeyring returns the bot token stored in the OS keyring.
func TokenFromKeyring() (string, error) {
	token, err := keyring.Get(KeyringService, KeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("read keyring: %w", err)
	}
	return token, nil
}

// SaveTokenToKeyring stores the bot token in the OS keyring.
func SaveTokenToKeyring(token string) error {
	if token == "" {
		return errors.New("token cannot be empty")
	}
	if err := keyring.Set(KeyringService, KeyringUser, token); err != nil {
		return fmt.Errorf("write keyring: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tracker-agent", "tracker.db")
}
