package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rlpro/rlpro/internal/content"
	"github.com/rlpro/rlpro/internal/demo"
	"github.com/rlpro/rlpro/internal/flipped"
	"github.com/rlpro/rlpro/internal/llm"
	"github.com/rlpro/rlpro/internal/quiz"
	"github.com/rlpro/rlpro/internal/screen"
	flippedscreen "github.com/rlpro/rlpro/internal/screens/flipped"
	"github.com/rlpro/rlpro/internal/screens/history"
	"github.com/rlpro/rlpro/internal/screens/home"
	"github.com/rlpro/rlpro/internal/screens/learn"
	"github.com/rlpro/rlpro/internal/screens/modules"
	"github.com/rlpro/rlpro/internal/session"
	"github.com/rlpro/rlpro/internal/store"
	"github.com/rlpro/rlpro/internal/translate"
)

// Start selects the screen shown on top of home at launch.
type Start int

const (
	StartHome Start = iota
	StartLearn
	StartFlipped
	StartModules
	StartPractice
)

// Options holds everything the TUI needs.
type Options struct {
	Provider llm.Provider

	// EventRepo and Prefs are optional; without them nothing is recorded.
	EventRepo store.EventRepo
	Prefs     store.PreferenceRepo

	// Content is optional; without it only the built-in demo unit is
	// available.
	Content *content.Client

	Preferences session.Preferences
	Logger      *slog.Logger

	Start    Start
	ModuleID string
	Sections []string
}

// deps builds screens and owns the current preferences.
type deps struct {
	opts Options

	mu    sync.Mutex
	prefs session.Preferences
}

func newDeps(opts Options) *deps {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Preferences.Model == "" {
		opts.Preferences.Model = llm.DefaultModel
	}
	return &deps{opts: opts, prefs: opts.Preferences}
}

func (d *deps) preferences() session.Preferences {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.prefs
}

// setPreferences keeps the choice for screens opened later and persists it.
func (d *deps) setPreferences(ctx context.Context, p session.Preferences) {
	d.mu.Lock()
	d.prefs = p
	d.mu.Unlock()

	if d.opts.Prefs == nil {
		return
	}
	if err := d.opts.Prefs.Set(ctx, store.PrefLanguage, p.Language); err != nil {
		d.opts.Logger.Warn("save preference failed", "key", store.PrefLanguage, "error", err)
	}
	if err := d.opts.Prefs.Set(ctx, store.PrefModel, p.Model); err != nil {
		d.opts.Logger.Warn("save preference failed", "key", store.PrefModel, "error", err)
	}
}

func (d *deps) home() screen.Screen {
	actions := home.Actions{
		Learn:       d.demoLoop,
		Flipped:     func() screen.Screen { return d.classroom(demo.Unit(), d.preferences()) },
		Preferences: d.preferences,
	}
	if d.opts.Content != nil {
		actions.Modules = d.modules
	}
	if d.opts.EventRepo != nil {
		actions.History = func() screen.Screen { return history.New(d.opts.EventRepo) }
	}
	backend := ""
	if d.opts.Content != nil {
		backend = d.opts.Content.BaseURL()
	}
	return home.New(actions, backend)
}

func (d *deps) start() screen.Screen {
	switch d.opts.Start {
	case StartLearn:
		if d.opts.ModuleID != "" && d.opts.Content != nil {
			return d.loop(content.ModuleSource{Client: d.opts.Content, ID: d.opts.ModuleID}, nil)
		}
		return d.demoLoop()
	case StartFlipped:
		return d.classroom(demo.Unit(), d.preferences())
	case StartModules:
		if d.opts.Content != nil {
			return d.modules()
		}
	case StartPractice:
		if d.opts.Content != nil {
			return d.practice()
		}
	}
	return nil
}

func (d *deps) demoLoop() screen.Screen {
	return d.loop(demo.Source{}, demo.Labels())
}

func (d *deps) practice() screen.Screen {
	return d.loop(content.PracticeSource{
		Client:   d.opts.Content,
		Sections: d.opts.Sections,
		Logger:   d.opts.Logger,
	}, nil)
}

func (d *deps) modules() screen.Screen {
	return modules.New(modules.Options{
		Store: d.opts.Content,
		Learn: func(m content.Module) screen.Screen {
			return d.loop(content.ModuleSource{Client: d.opts.Content, ID: m.ID}, nil)
		},
		Practice: d.practice,
	})
}

// loop builds a learning loop screen over src. Each loop gets its own
// translation cache.
func (d *deps) loop(src session.Source, labels translate.Labels) screen.Screen {
	overlayOpts := []translate.Option{translate.WithLogger(d.opts.Logger)}
	if labels != nil {
		overlayOpts = append(overlayOpts, translate.WithLabels(labels))
	}
	cache := translate.NewCache(translate.New(d.opts.Provider, overlayOpts...))

	sessOpts := []session.Option{session.WithLogger(d.opts.Logger)}
	if d.opts.EventRepo != nil {
		sessOpts = append(sessOpts, session.WithRecorder(d.opts.EventRepo))
	}
	if d.opts.Prefs != nil {
		sessOpts = append(sessOpts, session.WithPreferenceStore(d.opts.Prefs))
	}
	cfg := session.DefaultConfig()
	cfg.Preferences = d.preferences()
	ctrl := session.New(cfg, d.opts.Provider, src, cache, sessOpts...)

	return learn.New(learn.Options{
		Controller: ctrl,
		Labels:     cache,
		Flipped:    d.classroom,
		Logger:     d.opts.Logger,
	})
}

func (d *deps) classroom(u quiz.Unit, p session.Preferences) screen.Screen {
	room := flipped.New(d.opts.Provider, topicFor(u),
		flipped.WithPreferences(p.Language, p.Model),
		flipped.WithLogger(d.opts.Logger),
	)
	return flippedscreen.New(room, p.Language)
}

// topicFor describes what the learner teaches after a unit. The demo has
// a hand-written topic; other units use their own checklist, or their
// reflection prompts when no checklist was authored.
func topicFor(u quiz.Unit) flipped.Topic {
	if u.ID == demo.ID {
		return demo.Topic()
	}
	checklist := u.Checklist
	if len(checklist) == 0 {
		checklist = u.Prompts
	}
	if len(checklist) > 3 {
		checklist = checklist[:3]
	}
	return flipped.Topic{
		Subject:       u.Title,
		Misconception: "the main idea and a common misreading of it",
		CoachFocus:    u.Title,
		Checklist:     append([]string(nil), checklist...),
	}
}
