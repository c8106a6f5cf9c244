package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rlpro/rlpro/internal/app"
	"github.com/rlpro/rlpro/internal/content"
	"github.com/rlpro/rlpro/internal/lang"
)

var modulesCmd = &cobra.Command{
	Use:         "modules",
	Short:       "Browse stored learning modules",
	Annotations: map[string]string{tuiAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, app.Options{Start: app.StartModules})
	},
}

var modulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored modules",
	RunE: func(cmd *cobra.Command, args []string) error {
		mods, err := newContentClient().ListModules(cmd.Context())
		if err != nil {
			return err
		}
		if len(mods) == 0 {
			fmt.Println("No modules stored yet.")
			return nil
		}

		fmt.Printf("%-24s  %-10s  %4s  %s\n", "ID", "Language", "Qs", "Title")
		fmt.Println(strings.Repeat("─", 72))
		for _, m := range mods {
			fmt.Printf("%-24s  %-10s  %4d  %s\n",
				truncate(m.ID, 24), truncate(m.Language, 10), len(m.Questions), m.Title)
		}
		return nil
	},
}

var modulesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a module's note, prompts and questions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newContentClient().GetModule(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printModule(cmd.OutOrStdout(), m)
		return nil
	},
}

var modulesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored module",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newContentClient().DeleteModule(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted module %s.\n", args[0])
		return nil
	},
}

var modulesGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Build a module from source text (--file, or stdin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		language, _ := cmd.Flags().GetString("module-language")

		var r io.Reader = cmd.InOrStdin()
		if path != "" {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}
		text, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("read source text: %w", err)
		}
		if language == "" {
			language = cfg.Language
		}

		fmt.Fprintln(os.Stderr, "Generating module...")
		m, err := newContentClient().GenerateModule(cmd.Context(), string(text), lang.Normalize(language), cfg.LLM.Model)
		if err != nil {
			return err
		}
		printModule(cmd.OutOrStdout(), m)
		return nil
	},
}

func printModule(w io.Writer, m *content.Module) {
	sep := strings.Repeat("─", 60)

	fmt.Fprintf(w, "ID:        %s\n", m.ID)
	fmt.Fprintf(w, "Title:     %s\n", m.Title)
	fmt.Fprintf(w, "Language:  %s\n", m.Language)
	fmt.Fprintln(w)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, "NOTE")
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, m.LearningNote)
	if m.Example != "" {
		fmt.Fprintf(w, "\nExample: %s\n", m.Example)
	}

	if len(m.Prompts) > 0 {
		fmt.Fprintln(w, sep)
		fmt.Fprintln(w, "PROMPTS")
		fmt.Fprintln(w, sep)
		for _, p := range m.Prompts {
			fmt.Fprintf(w, "  - %s\n", p)
		}
	}

	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, "QUESTIONS")
	fmt.Fprintln(w, sep)
	for i, q := range m.Questions {
		fmt.Fprintf(w, "%d. [%s] %s\n", i+1, q.CardType, q.Question)
		for j, o := range q.Options {
			fmt.Fprintf(w, "     %c) %s\n", 'A'+j, o)
		}
		fmt.Fprintf(w, "   Answer: %s\n", q.Answer)
		if q.Hint != "" {
			fmt.Fprintf(w, "   Hint:   %s\n", q.Hint)
		}
	}

	if len(m.Checklist) > 0 {
		fmt.Fprintln(w, sep)
		fmt.Fprintln(w, "CHECKLIST")
		fmt.Fprintln(w, sep)
		for _, c := range m.Checklist {
			fmt.Fprintf(w, "  [ ] %s\n", c)
		}
	}
}

func init() {
	modulesGenerateCmd.Flags().StringP("file", "f", "", "Read source text from this file instead of stdin")
	modulesGenerateCmd.Flags().String("module-language", "", "Language to write the module in (default: display language)")

	modulesCmd.AddCommand(modulesListCmd)
	modulesCmd.AddCommand(modulesShowCmd)
	modulesCmd.AddCommand(modulesDeleteCmd)
	modulesCmd.AddCommand(modulesGenerateCmd)
}
