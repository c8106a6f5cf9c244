package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete local history, LLM logs and saved preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		dbPath, err := resolveDBPath()
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		if !yes {
			fmt.Printf("This deletes %s. Re-run with --yes to confirm.\n", dbPath)
			return nil
		}

		removed := 0
		// SQLite keeps WAL and shared-memory files next to the database.
		for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
			err := os.Remove(p)
			switch {
			case err == nil:
				removed++
			case errors.Is(err, fs.ErrNotExist):
			default:
				return fmt.Errorf("remove %s: %w", p, err)
			}
		}
		if removed == 0 {
			fmt.Println("Nothing to reset.")
			return nil
		}
		logger.Info("local data reset", "db", dbPath)
		fmt.Printf("Removed %s.\n", dbPath)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
