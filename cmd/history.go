package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Nda25/anees/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent generations and their outcomes",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		action, _ := cmd.Flags().GetString("action")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryGenerations(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query generations: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No generations recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-19s  %-8s  %-10s  %-4s  %-6s  %-9s  %-7s  %s\n",
			"Timestamp", "Action", "Outcome", "Try", "Repair", "Stage", "Ms", "Concept")
		fmt.Fprintln(out, strings.Repeat("─", 96))
		for _, e := range events {
			if action != "" && e.Action != action {
				continue
			}
			fmt.Fprintf(out, "%-19s  %-8s  %-10s  %-4d  %-6d  %-9s  %-7d  %s\n",
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Action,
				e.Outcome,
				e.Attempts,
				e.RepairCalls,
				e.Stage,
				e.LatencyMs,
				truncate(e.Concept, 30),
			)
		}
		return nil
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show acceptance rate and average attempts per action",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		stats, err := s.EventRepo().GenerationStatsByAction(cmd.Context())
		if err != nil {
			return fmt.Errorf("query generation stats: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(stats) == 0 {
			fmt.Fprintln(out, "No generations recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-10s  %6s  %8s  %8s  %12s  %8s\n",
			"Action", "Total", "Accepted", "Rate", "Avg Attempts", "Avg Ms")
		fmt.Fprintln(out, strings.Repeat("─", 62))
		for _, st := range stats {
			fmt.Fprintf(out, "%-10s  %6d  %8d  %7.0f%%  %12.2f  %8d\n",
				st.Action, st.Total, st.Accepted, acceptRate(st), st.AvgAttempts, st.AvgLatencyMs)
		}
		return nil
	},
}

func acceptRate(st store.GenerationStats) float64 {
	if st.Total == 0 {
		return 0
	}
	return 100 * float64(st.Accepted) / float64(st.Total)
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of generations to show")
	historyCmd.Flags().StringP("action", "a", "", "Filter by action")

	historyCmd.AddCommand(historyStatsCmd)
}
