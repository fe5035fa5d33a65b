package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/tracker-agent/internal/store"
	"github.com/rcliao/tracker-agent/internal/timecalc"
)

func init() {
	cmd := &cobra.Command{
		Use:       "list <study|sleep>",
		Short:     "List recorded study sessions or sleep periods",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"study", "sleep"},
		Run:       runList,
	}

	cmd.Flags().StringP("user", "u", "", "User id (required)")
	cmd.Flags().IntP("limit", "l", 0, "Max results (0 for all)")
	_ = cmd.MarkFlagRequired("user")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	userID, _ := cmd.Flags().GetString("user")
	limit, _ := cmd.Flags().GetInt("limit")
	params := store.ListParams{UserID: userID, Limit: limit}

	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	var out any
	switch args[0] {
	case "study":
		records, err := s.ListStudy(cmd.Context(), params)
		if err != nil {
			exitErr("list", err)
		}
		if formatFlag == "text" {
			for _, r := range records {
				fmt.Printf("%s  %s-%s  %-8s  %3d%%  %s\n", r.Date, r.StartTime, r.EndTime,
					timecalc.FormatDuration(r.DurationHours, r.DurationMinutes), r.Performance, r.Discipline)
			}
			return
		}
		out = records
	case "sleep":
		records, err := s.ListSleep(cmd.Context(), params)
		if err != nil {
			exitErr("list", err)
		}
		if formatFlag == "text" {
			for _, r := range records {
				fmt.Printf("%s  %s-%s  %-8s  %s\n", r.Date, r.StartTime, r.EndTime,
					timecalc.FormatDuration(r.DurationHours, r.DurationMinutes), r.Quality.Label())
			}
			return
		}
		out = records
	default:
		exitErr("list", fmt.Errorf("unknown record kind %q, want study or sleep", args[0]))
	}

	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}
