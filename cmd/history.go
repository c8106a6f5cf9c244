package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rlpro/rlpro/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded learning sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		sums, err := s.EventRepo().QuerySessionSummaries(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		if len(sums) == 0 {
			fmt.Println("No sessions recorded yet.")
			return nil
		}

		fmt.Printf("%-36s  %-16s  %-10s  %6s  %5s\n", "Session", "Last seen", "Phase", "Events", "Prog")
		fmt.Println(strings.Repeat("─", 84))
		for _, sum := range sums {
			fmt.Printf("%-36s  %-16s  %-10s  %6d  %4d%%\n",
				sum.SessionID,
				sum.LastSeen.Local().Format("2006-01-02 15:04"),
				sum.LastPhase,
				sum.Events,
				sum.Progress,
			)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show the transitions of one session, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QuerySessionEvents(cmd.Context(), store.QueryOpts{SessionID: args[0]})
		if err != nil {
			return fmt.Errorf("query session events: %w", err)
		}
		if len(events) == 0 {
			return fmt.Errorf("session %s not found", args[0])
		}
		sort.Slice(events, func(i, j int) bool { return events[i].Sequence < events[j].Sequence })

		for _, e := range events {
			fmt.Printf("%s  %-8s  %-10s  %3d%%%s\n",
				e.Timestamp.Local().Format("15:04:05"),
				e.Action,
				e.Phase,
				e.Progress,
				formatDetail(e.Detail),
			)
		}
		return nil
	},
}

// formatDetail renders detail keys in a stable order.
func formatDetail(d map[string]any) string {
	if len(d) == 0 {
		return ""
	}
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s=%v", k, d[k])
	}
	return b.String()
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
	historyCmd.AddCommand(historyShowCmd)
}
