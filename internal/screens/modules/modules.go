// Package modules lists the learning modules stored on the content backend.
package modules

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rlpro/rlpro/internal/content"
	"github.com/rlpro/rlpro/internal/router"
	"github.com/rlpro/rlpro/internal/screen"
	"github.com/rlpro/rlpro/internal/ui/layout"
	"github.com/rlpro/rlpro/internal/ui/theme"
)

// Store is the part of the content client the screen needs.
type Store interface {
	ListModules(ctx context.Context) ([]content.Module, error)
	DeleteModule(ctx context.Context, id string) error
}

// Options configures a ModulesScreen.
type Options struct {
	Store Store

	// Learn opens the learning loop for a module.
	Learn func(m content.Module) screen.Screen

	// Practice opens a loop over the next scheduled practice card. When
	// nil the option is hidden.
	Practice func() screen.Screen
}

type modulesLoadedMsg struct {
	Modules []content.Module
	Err     error
}

type moduleDeletedMsg struct {
	ID  string
	Err error
}

// ModulesScreen shows stored modules.
type ModulesScreen struct {
	opts     Options
	modules  []content.Module
	selected int
	loaded   bool
	confirm  bool
	errMsg   string
}

var _ screen.Screen = (*ModulesScreen)(nil)
var _ screen.KeyHintProvider = (*ModulesScreen)(nil)

// New creates a ModulesScreen.
func New(opts Options) *ModulesScreen {
	return &ModulesScreen{opts: opts}
}

func (s *ModulesScreen) Init() tea.Cmd {
	return s.load()
}

func (s *ModulesScreen) load() tea.Cmd {
	st := s.opts.Store
	return func() tea.Msg {
		mods, err := st.ListModules(context.Background())
		return modulesLoadedMsg{Modules: mods, Err: err}
	}
}

func (s *ModulesScreen) Title() string {
	return "Modules"
}

func (s *ModulesScreen) KeyHints() []layout.KeyHint {
	if s.confirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete"},
			{Key: "N", Description: "Keep"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Learn"},
		{Key: "D", Description: "Delete"},
	}
	if s.opts.Practice != nil {
		hints = append(hints, layout.KeyHint{Key: "P", Description: "Practice next card"})
	}
	return append(hints,
		layout.KeyHint{Key: "R", Description: "Reload"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}

func (s *ModulesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case modulesLoadedMsg:
		s.loaded = true
		s.errMsg = ""
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.modules = msg.Modules
		if s.selected >= len(s.modules) {
			s.selected = max(0, len(s.modules)-1)
		}
		return s, nil

	case moduleDeletedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		return s, s.load()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *ModulesScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirm {
		s.confirm = false
		if key != "y" || s.selected >= len(s.modules) {
			return s, nil
		}
		id := s.modules[s.selected].ID
		st := s.opts.Store
		return s, func() tea.Msg {
			return moduleDeletedMsg{ID: id, Err: st.DeleteModule(context.Background(), id)}
		}
	}

	switch key {
	case "esc":
		return s, router.Pop
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.modules)-1 {
			s.selected++
		}
	case "enter":
		if s.selected < len(s.modules) && s.opts.Learn != nil {
			return s, router.Push(s.opts.Learn(s.modules[s.selected]))
		}
	case "d":
		if s.selected < len(s.modules) {
			s.confirm = true
		}
	case "p":
		if s.opts.Practice != nil {
			return s, router.Push(s.opts.Practice())
		}
	case "r":
		s.loaded = false
		return s, s.load()
	}
	return s, nil
}

func (s *ModulesScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	if s.errMsg != "" {
		return center.Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s\n\nIs the content backend running?", s.errMsg))
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\n  Loading modules...")
	}
	if len(s.modules) == 0 {
		return center.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No modules yet. Import one with `rlpro modules generate`.")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, m := range s.modules {
		title := m.Title
		if title == "" {
			title = m.ID
		}
		line := fmt.Sprintf("%-40s  %-8s  %d questions", title, m.Language, len(m.Questions))
		if i == s.selected {
			b.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if s.confirm && s.selected < len(s.modules) {
		b.WriteString("\n")
		b.WriteString(theme.Incorrect.Render(fmt.Sprintf("Delete %q? (y/n)", s.modules[s.selected].Title)))
	}
	return b.String()
}
