// Package settings is the display language and model picker.
package settings

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rlpro/rlpro/internal/lang"
	"github.com/rlpro/rlpro/internal/llm"
	"github.com/rlpro/rlpro/internal/router"
	"github.com/rlpro/rlpro/internal/screen"
	"github.com/rlpro/rlpro/internal/session"
	"github.com/rlpro/rlpro/internal/ui/layout"
	"github.com/rlpro/rlpro/internal/ui/theme"
)

// ChangedMsg is delivered to the screen below once the picker closes with
// new preferences.
type ChangedMsg struct {
	Preferences session.Preferences
}

const (
	columnLanguage = iota
	columnModel
)

// SettingsScreen picks a display language and a model preset.
type SettingsScreen struct {
	initial  session.Preferences
	langIdx  int
	modelIdx int
	column   int
}

var _ screen.Screen = (*SettingsScreen)(nil)
var _ screen.KeyHintProvider = (*SettingsScreen)(nil)

// New creates a picker with the current preferences selected.
func New(current session.Preferences) *SettingsScreen {
	s := &SettingsScreen{initial: current}
	for i, l := range lang.All {
		if lang.Same(l.Name, current.Language) {
			s.langIdx = i
		}
	}
	for i, p := range llm.Presets {
		if p.ID == current.Model {
			s.modelIdx = i
		}
	}
	return s
}

func (s *SettingsScreen) Init() tea.Cmd {
	return nil
}

func (s *SettingsScreen) Title() string {
	return "Settings"
}

func (s *SettingsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Tab", Description: "Language/Model"},
		{Key: "Enter", Description: "Apply"},
		{Key: "Esc", Description: "Cancel"},
	}
}

// Selected returns the preferences currently highlighted.
func (s *SettingsScreen) Selected() session.Preferences {
	return session.Preferences{
		Language: lang.All[s.langIdx].Name,
		Model:    llm.Presets[s.modelIdx].ID,
	}
}

func (s *SettingsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "tab", "left", "right", "h", "l":
		s.column = 1 - s.column
	case "up", "k":
		s.move(-1)
	case "down", "j":
		s.move(1)
	case "enter":
		p := s.Selected()
		if p == s.initial {
			return s, router.Pop
		}
		return s, tea.Sequence(router.Pop, func() tea.Msg { return ChangedMsg{Preferences: p} })
	}
	return s, nil
}

func (s *SettingsScreen) move(delta int) {
	if s.column == columnLanguage {
		s.langIdx = clamp(s.langIdx+delta, len(lang.All))
		return
	}
	s.modelIdx = clamp(s.modelIdx+delta, len(llm.Presets))
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func (s *SettingsScreen) View(width, height int) string {
	langs := make([]string, len(lang.All))
	for i, l := range lang.All {
		langs[i] = fmt.Sprintf("%-8s %s", l.Name, l.Native)
	}
	models := make([]string, len(llm.Presets))
	for i, p := range llm.Presets {
		models[i] = p.Label
	}

	left := renderColumn("Display language", langs, s.langIdx, s.column == columnLanguage)
	right := renderColumn("Model", models, s.modelIdx, s.column == columnModel)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func renderColumn(title string, items []string, selected int, focused bool) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(title))
	b.WriteString("\n\n")
	for i, item := range items {
		if i == selected {
			marker := "  "
			if focused {
				marker = "▸ "
			}
			b.WriteString(theme.Selected.Render(marker+item) + "\n")
		} else {
			b.WriteString(theme.Unselected.Render("  "+item) + "\n")
		}
	}

	style := theme.Card
	if focused {
		style = theme.FocusedCard
	}
	return style.Render(b.String())
}
