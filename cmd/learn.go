package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rlpro/rlpro/internal/app"
)

var learnCmd = &cobra.Command{
	Use:         "learn",
	Short:       "Run the learning loop (built-in demo unless --module or --practice)",
	Annotations: map[string]string{tuiAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		moduleID, _ := cmd.Flags().GetString("module")
		practice, _ := cmd.Flags().GetBool("practice")
		sections, _ := cmd.Flags().GetStringSlice("section")

		if moduleID != "" && practice {
			return fmt.Errorf("use --module or --practice, not both")
		}
		opts := app.Options{Start: app.StartLearn, ModuleID: moduleID, Sections: sections}
		if practice {
			opts.Start = app.StartPractice
		}
		return runApp(cmd, opts)
	},
}

var flippedCmd = &cobra.Command{
	Use:         "flipped",
	Short:       "Teach the demo topic to a simulated student",
	Annotations: map[string]string{tuiAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, app.Options{Start: app.StartFlipped})
	},
}

func init() {
	learnCmd.Flags().StringP("module", "m", "", "Learn a stored module by id")
	learnCmd.Flags().Bool("practice", false, "Learn the next card chosen by the backend scheduler")
	learnCmd.Flags().StringSlice("section", nil, "Restrict practice to these sections")
}
