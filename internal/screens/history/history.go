package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/rlpro/rlpro/internal/router"
	"github.com/rlpro/rlpro/internal/screen"
	"github.com/rlpro/rlpro/internal/store"
	"github.com/rlpro/rlpro/internal/ui/layout"
	"github.com/rlpro/rlpro/internal/ui/theme"
)

const (
	sessionLimit = 50
	eventLimit   = 12
)

type historyLoadedMsg struct {
	Sessions []store.SessionSummary
	Err      error
}

type eventsLoadedMsg struct {
	SessionID string
	Events    []store.SessionEventRecord
	Err       error
}

// HistoryScreen displays past learning sessions and their transitions.
type HistoryScreen struct {
	eventRepo store.EventRepo
	sessions  []store.SessionSummary
	events    map[string][]store.SessionEventRecord
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		events:    make(map[string][]store.SessionEventRecord),
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		sessions, err := repo.QuerySessionSummaries(context.Background(), store.QueryOpts{Limit: sessionLimit})
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case eventsLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.events[msg.SessionID] = msg.Events
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, router.Pop
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if s.selected >= len(s.sessions) {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			id := s.sessions[s.selected].SessionID
			if _, ok := s.events[id]; ok || !s.expanded[s.selected] {
				return s, nil
			}
			return s, s.loadEvents(id)
		}
	}
	return s, nil
}

func (s *HistoryScreen) loadEvents(id string) tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		events, err := repo.QuerySessionEvents(context.Background(), store.QueryOpts{SessionID: id, Limit: eventLimit})
		return eventsLoadedMsg{SessionID: id, Events: events, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Start a learning loop!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		dur := sess.LastSeen.Sub(sess.Started).Round(time.Second)
		id := sess.SessionID
		if len(id) > 8 {
			id = id[:8]
		}
		line := fmt.Sprintf("%s  %s  %-9s %3d%%  %2d events  %s",
			sess.Started.Local().Format("Jan 02 15:04"), id, sess.LastPhase, sess.Progress, sess.Events, dur)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		prefix := "  "
		if i == s.selected {
			style = theme.Selected
			prefix = "▸ "
		}
		if sess.LastPhase == "done" {
			line += "  " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		}
		b.WriteString(style.Render(prefix + line))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderEvents(sess.SessionID))
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderEvents(id string) string {
	events, ok := s.events[id]
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	if !ok {
		return dim.Render("      loading...") + "\n"
	}
	if len(events) == 0 {
		return dim.Render("      no events") + "\n"
	}

	var b strings.Builder
	for _, e := range events {
		b.WriteString(dim.Render(fmt.Sprintf("      %s  %-14s → %-9s %3d%%",
			e.Timestamp.Local().Format("15:04:05"), e.Action, e.Phase, e.Progress)))
		b.WriteString("\n")
	}
	return b.String()
}
