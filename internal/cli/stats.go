package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/tracker-agent/internal/model"
	"github.com/rcliao/tracker-agent/internal/store"
	"github.com/rcliao/tracker-agent/internal/timecalc"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show study and sleep totals",
		Run:   runStats,
	}

	cmd.Flags().StringP("user", "u", "", "Filter by user id")

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	userID, _ := cmd.Flags().GetString("user")

	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := store.Summarize(cmd.Context(), s, userID)
	if err != nil {
		exitErr("stats", err)
	}

	if formatFlag == "text" {
		fmt.Printf("study: %d sessions, %s\n", stats.StudySessions, minutes(stats.StudyMinutes))
		for _, d := range stats.Disciplines {
			fmt.Printf("  %-20s %3d sessions  %-9s avg %d%%\n", d.Discipline, d.Sessions, minutes(d.Minutes), d.AvgPerformance)
		}
		fmt.Printf("sleep: %d periods, avg %s\n", stats.SleepPeriods, minutes(stats.AvgSleepMinutes))
		for _, q := range model.Qualities {
			fmt.Printf("  %-20s %3d\n", q.Label(), stats.Quality[string(q)])
		}
		return
	}

	b, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Println(string(b))
}

func minutes(m int) string {
	return timecalc.FormatDuration(m/60, m%60)
}
