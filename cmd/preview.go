package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rlpro/rlpro/internal/chat"
	"github.com/rlpro/rlpro/internal/content"
	"github.com/rlpro/rlpro/internal/demo"
	"github.com/rlpro/rlpro/internal/session"
	"github.com/rlpro/rlpro/internal/translate"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Run one learning loop in plain text (no database, no TUI)",
	Long: "Developer tool: walks the loop on stdin/stdout without recording anything.\n" +
		"Useful for checking prompts and fallbacks against a provider.",
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringP("module", "m", "", "Preview a stored module instead of the demo unit")
}

func runPreview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	moduleID, _ := cmd.Flags().GetString("module")

	// No EventRepo: requests are not recorded.
	provider, err := newProvider(ctx, nil)
	if err != nil {
		return err
	}

	var src session.Source = demo.Source{}
	overlayOpts := []translate.Option{translate.WithLogger(logger)}
	if moduleID != "" {
		src = content.ModuleSource{Client: newContentClient(), ID: moduleID}
	} else {
		overlayOpts = append(overlayOpts, translate.WithLabels(demo.Labels()))
	}
	cache := translate.NewCache(translate.New(provider, overlayOpts...))

	conf := session.DefaultConfig()
	conf.Preferences = loadPreferences(ctx, cmd, nil)
	ctrl := session.New(conf, provider, src, cache, session.WithLogger(logger))

	if err := ctrl.Start(ctx); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())
	first := ctrl.State()
	fmt.Fprintf(out, "── %s ──\n%s\n", first.Unit.Title, first.Unit.Body)
	if first.Unit.Example != "" {
		fmt.Fprintf(out, "Example: %s\n", first.Unit.Example)
	}
	shown := printTurns(out, first, 0)

	for {
		snap := ctrl.State()
		if snap.Phase == session.PhaseDone {
			break
		}

		prompt := "\nReflection: "
		if q, ok := snap.Current(); ok {
			fmt.Fprintf(out, "\n── %s %d%% ──\n%s\n", snap.Phase, snap.Progress, q.Prompt)
			for j, o := range q.Options {
				fmt.Fprintf(out, "  %c) %s\n", 'A'+j, o)
			}
			prompt = "Your answer: "
		}

		fmt.Fprint(out, prompt)
		if !in.Scan() {
			fmt.Fprintln(out, "\n(input closed)")
			return nil
		}
		text := strings.TrimSpace(in.Text())

		if snap.Phase == session.PhaseLearn {
			err = ctrl.Reflect(ctx, text)
		} else {
			var verdict session.Verdict
			verdict, err = ctrl.Submit(ctx, choiceAnswer(snap, text))
			if err == nil && verdict.Result != "" {
				fmt.Fprintln(out, verdict.Result)
			}
		}
		if errors.Is(err, session.ErrEmptyInput) {
			fmt.Fprintln(out, "(enter an answer first)")
			continue
		}
		if err != nil {
			return err
		}
		shown = printTurns(out, ctrl.State(), shown)
	}

	sum := ctrl.Summary()
	fmt.Fprintf(out, "\n── Summary: %d/%d correct ──\n", sum.TestCorrect, sum.TestTotal)
	return nil
}

// choiceAnswer lets a choice question be answered by its letter.
func choiceAnswer(snap session.Snapshot, text string) string {
	q, ok := snap.Current()
	if !ok {
		return text
	}
	return optionAnswer(q.Options, text)
}

// optionAnswer maps a single letter to the matching option and returns any
// other text unchanged.
func optionAnswer(options []string, text string) string {
	if len(options) == 0 || len(text) != 1 {
		return text
	}
	i := int(strings.ToUpper(text)[0] - 'A')
	if i >= 0 && i < len(options) {
		return options[i]
	}
	return text
}

// printTurns writes transcript turns from index from on and returns the
// new count.
func printTurns(w io.Writer, snap session.Snapshot, from int) int {
	for _, t := range snap.Turns[from:] {
		if t.Role == chat.Learner {
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", strings.ToUpper(string(t.Role)), t.Text)
	}
	return len(snap.Turns)
}
