package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rcliao/tracker-agent/internal/config"
	"github.com/rcliao/tracker-agent/internal/dialog"
	"github.com/rcliao/tracker-agent/internal/logger"
	"github.com/rcliao/tracker-agent/internal/messenger"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot",
		Long:  "Run the Telegram bot with long polling until interrupted. The token comes from $TELEGRAM_BOT_TOKEN or the OS keyring.",
		Run:   runServe,
	}

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	if cfg.TelegramToken == "" {
		exitErr("telegram token", config.ErrTokenNotFound)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openStore(ctx)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	tg, err := messenger.NewTelegram(cfg.TelegramToken)
	if err != nil {
		exitErr("telegram", err)
	}
	if err := tg.RegisterCommands(dialog.Commands); err != nil {
		logger.Warn("register commands", "error", err)
	}

	agent := dialog.NewAgent(s, tg, dialog.Options{Now: clock()})
	logger.Info("serving", "backend", cfg.Backend)
	if err := tg.Run(ctx, agent); err != nil && !errors.Is(err, ctx.Err()) {
		exitErr("serve", err)
	}
	logger.Info("stopped")
}
