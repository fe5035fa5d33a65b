// Package cli implements the tracker-agent CLI commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/tracker-agent/internal/config"
	"github.com/rcliao/tracker-agent/internal/logger"
	"github.com/rcliao/tracker-agent/internal/store"
)

var (
	dbPath      string
	backendFlag string
	logLevel    string
	formatFlag  string

	cfg *config.Config
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "tracker-agent",
	Short: "Chat bot for recording study sessions and sleep",
	Long: "A chat bot that walks users through recording study sessions and sleep periods.\n" +
		"Runs on Telegram or in the terminal. SQLite or PostgreSQL backed.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = c
		return logger.Init(logger.Config{Level: cfg.LogLevel, Dir: cfg.LogDir})
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "SQLite database path (default: $TRACKER_DB or ~/.tracker-agent/tracker.db)")
	RootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Storage backend: sqlite or postgres (default: $STORAGE_BACKEND or sqlite)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $LOG_LEVEL or info)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig() (*config.Config, error) {
	c, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		c.DBPath = dbPath
	}
	if backendFlag != "" {
		c.Backend = backendFlag
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

func openStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, cfg.Backend, cfg.StoreTarget())
}

// clock returns "now" in the configured time zone.
func clock() func() time.Time {
	loc, err := cfg.Location()
	if err != nil {
		loc = time.Local
	}
	return func() time.Time { return time.Now().In(loc) }
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
