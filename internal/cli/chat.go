package cli

import (
	"errors"
	"os"
	"os/signal"
	"os/user"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rcliao/tracker-agent/internal/dialog"
	"github.com/rcliao/tracker-agent/internal/messenger"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the bot in the terminal",
		Long:  "Run the bot on stdin/stdout. Type commands such as /add_study, pick buttons by number, /quit to leave.",
		Run:   runChat,
	}

	cmd.Flags().StringP("user", "u", "", "User id to record as (default: current OS user)")

	RootCmd.AddCommand(cmd)
}

func runChat(cmd *cobra.Command, args []string) {
	name, _ := cmd.Flags().GetString("user")
	if name == "" {
		if u, err := user.Current(); err == nil {
			name = u.Username
		} else {
			name = "console"
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openStore(ctx)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	console := messenger.NewConsole(os.Stdin, os.Stdout, dialog.User{ID: name, Name: name})
	agent := dialog.NewAgent(s, console, dialog.Options{Now: clock()})
	if err := console.Run(ctx, agent); err != nil && !errors.Is(err, ctx.Err()) {
		exitErr("chat", err)
	}
}
