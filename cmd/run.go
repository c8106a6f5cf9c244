package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rlpro/rlpro/internal/app"
	"github.com/rlpro/rlpro/internal/llm"
)

// runApp opens the store, builds dependencies, and launches the TUI. The
// caller fills in which screen to start on.
func runApp(cmd *cobra.Command, opts app.Options) error {
	ctx := cmd.Context()
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	eventRepo := st.EventRepo()
	opts.EventRepo = eventRepo
	opts.Prefs = st.PreferenceRepo()
	opts.Content = newContentClient()
	opts.Logger = logger
	opts.Preferences = loadPreferences(ctx, cmd, opts.Prefs)

	provider, err := newProvider(ctx, eventRepo)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "Tutor replies will use built-in fallbacks.")
		provider = llm.NewMockProvider()
	}
	opts.Provider = provider

	logger.Info("starting tui", "start", opts.Start, "content", cfg.Content.URL, "model", opts.Preferences.Model)
	return app.Run(opts)
}
