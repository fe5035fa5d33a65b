package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/tracker-agent/internal/config"
)

func init() {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the Telegram bot token in the OS keyring",
	}

	set := &cobra.Command{
		Use:   "set [token]",
		Short: "Store the bot token (reads stdin when no argument is given)",
		Args:  cobra.MaximumNArgs(1),
		Run:   runTokenSet,
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Report whether a bot token is stored",
		Run:   runTokenStatus,
	}

	cmd.AddCommand(set, status)
	RootCmd.AddCommand(cmd)
}

func runTokenSet(cmd *cobra.Command, args []string) {
	var token string
	if len(args) == 1 {
		token = args[0]
	} else {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			exitErr("read token", err)
		}
		token = line
	}

	if err := config.SaveTokenToKeyring(strings.TrimSpace(token)); err != nil {
		exitErr("save token", err)
	}
	fmt.Println(`{"ok":true}`)
}

func runTokenStatus(cmd *cobra.Command, args []string) {
	_, err := config.TokenFromKeyring()
	switch {
	case err == nil:
		fmt.Println(`{"stored":true}`)
	case errors.Is(err, config.ErrTokenNotFound):
		fmt.Println(`{"stored":false}`)
	default:
		exitErr("keyring", err)
	}
}
