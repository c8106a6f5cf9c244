package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rlpro/rlpro/internal/content"
)

var exportCmd = &cobra.Command{
	Use:       "export <csv|md|anki>",
	Short:     "Download the card deck",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(content.FormatCSV), string(content.FormatMarkdown), string(content.FormatAnki)},
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := content.ParseFormat(args[0])
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = format.Filename()
		}

		b, err := newContentClient().Export(cmd.Context(), format)
		if err != nil {
			return err
		}
		if out == "-" {
			_, err = os.Stdout.Write(b)
			return err
		}
		if err := os.WriteFile(out, b, 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Printf("Wrote %d bytes to %s\n", len(b), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "Output file, or - for stdout (default: cards.<ext>)")
}
