package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rlpro/rlpro/internal/app"
	"github.com/rlpro/rlpro/internal/config"
	"github.com/rlpro/rlpro/internal/content"
	"github.com/rlpro/rlpro/internal/lang"
	"github.com/rlpro/rlpro/internal/llm"
	"github.com/rlpro/rlpro/internal/logging"
	"github.com/rlpro/rlpro/internal/session"
	"github.com/rlpro/rlpro/internal/store"
)

// tuiAnnotation marks commands that hand the terminal to the TUI. Their
// logs go to a file in the data directory instead of stderr.
const tuiAnnotation = "tui"

var (
	v       = config.New()
	cfg     config.Config
	logger  = slog.Default()
	logFile io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "rlpro",
	Short: "Terminal tutor: learn, test, reinforce",
	Long: "rlpro walks a learner through a short note, two reflections, a quick test and\n" +
		"a reinforcement pass built from what they missed.",
	SilenceUsage:      true,
	Annotations:       map[string]string{tuiAnnotation: "true"},
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			logFile.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, app.Options{Start: app.StartHome})
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides RLPRO_DB env var)")
	pf.String("log-level", "info", "Log level: debug, info, warn or error")
	pf.String("language", "", "Display language, e.g. English or 中文")
	pf.String("model", "", "Model id sent with every request")
	pf.String("provider", "", "LLM backend: http, openai, anthropic, gemini, openrouter or mock")
	pf.String("content-url", "", "Base URL of the content backend")

	v.BindPFlag("db", pf.Lookup("db"))
	v.BindPFlag("log_level", pf.Lookup("log-level"))
	v.BindPFlag("language", pf.Lookup("language"))
	v.BindPFlag("llm.model", pf.Lookup("model"))
	v.BindPFlag("llm.provider", pf.Lookup("provider"))
	v.BindPFlag("content.url", pf.Lookup("content-url"))

	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(flippedCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(cardsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration and installs the logger.
func setup(cmd *cobra.Command, args []string) error {
	dataDir, err := store.DataDir()
	if err != nil {
		return err
	}
	cfg, err = config.Load(v, dataDir, ".")
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stderr
	if cmd.Annotations[tuiAnnotation] != "" {
		f, err := logging.OpenFile(dataDir)
		if err != nil {
			return err
		}
		logFile = f
		w = f
	}
	logger = logging.New(w, level)
	slog.SetDefault(logger)
	logger.Debug("configuration loaded", "source", config.Source(v), "command", cmd.Name())
	return nil
}

// resolveDBPath returns the database path using --db / RLPRO_DB / config
// first, then the default XDG path.
func resolveDBPath() (string, error) {
	if p := cfg.DB; p != "" {
		return p, os.MkdirAll(filepath.Dir(p), 0o755)
	}
	return store.DefaultDBPath()
}

func openStore() (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// newProvider builds the configured LLM backend. Requests are recorded
// through repo when it is non-nil.
func newProvider(ctx context.Context, repo store.EventRepo) (llm.Provider, error) {
	p, err := llm.NewProvider(ctx, cfg.LLMConfig(), repo, logger)
	if err != nil {
		return nil, fmt.Errorf("LLM provider: %w", err)
	}
	return p, nil
}

func newContentClient() *content.Client {
	return content.New(cfg.Content.URL,
		content.WithTimeout(cfg.LLM.Timeout),
		content.WithLogger(logger),
	)
}

// loadPreferences resolves the display language and model. Explicit flags
// win over saved choices, which win over the config defaults.
func loadPreferences(ctx context.Context, cmd *cobra.Command, prefs store.PreferenceRepo) session.Preferences {
	p := session.Preferences{Language: cfg.Language, Model: llm.NormalizeModel(cfg.LLM.Model)}
	if prefs == nil {
		return p
	}
	flags := cmd.Flags()
	if !flags.Changed("language") && !envSet("language") {
		if val, ok, err := prefs.Get(ctx, store.PrefLanguage); err != nil {
			logger.Warn("load preference failed", "key", store.PrefLanguage, "error", err)
		} else if ok {
			p.Language = lang.Normalize(val)
		}
	}
	if !flags.Changed("model") && !envSet("llm.model") {
		if val, ok, err := prefs.Get(ctx, store.PrefModel); err != nil {
			logger.Warn("load preference failed", "key", store.PrefModel, "error", err)
		} else if ok {
			p.Model = llm.NormalizeModel(val)
		}
	}
	return p
}

// envSet reports whether key was given through the environment.
func envSet(key string) bool {
	_, ok := os.LookupEnv(envName(key))
	return ok
}

func envName(key string) string {
	return config.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
