package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rlpro/rlpro/internal/session"
	"github.com/rlpro/rlpro/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		sums, err := s.EventRepo().QuerySessionSummaries(cmd.Context(), store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		if len(sums) == 0 {
			fmt.Println("No sessions recorded yet.")
			return nil
		}

		st := summarize(sums)
		fmt.Printf("Sessions:       %d\n", st.Sessions)
		fmt.Printf("Completed:      %d\n", st.Completed)
		fmt.Printf("In reinforce:   %d\n", st.Reinforcing)
		fmt.Printf("Avg progress:   %.0f%%\n", st.AvgProgress)
		fmt.Printf("Events:         %d\n", st.Events)
		fmt.Printf("Last activity:  %s\n", st.Last.LastSeen.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

type learningStats struct {
	Sessions    int
	Completed   int
	Reinforcing int
	Events      int
	AvgProgress float64
	Last        store.SessionSummary
}

func summarize(sums []store.SessionSummary) learningStats {
	var st learningStats
	var total int
	for _, s := range sums {
		st.Sessions++
		st.Events += s.Events
		total += s.Progress
		switch s.LastPhase {
		case session.PhaseDone.String():
			st.Completed++
		case session.PhaseReinforce.String():
			st.Reinforcing++
		}
		if s.LastSeen.After(st.Last.LastSeen) {
			st.Last = s
		}
	}
	if st.Sessions > 0 {
		st.AvgProgress = float64(total) / float64(st.Sessions)
	}
	return st
}
