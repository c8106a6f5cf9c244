package home

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/rlpro/rlpro/internal/router"
	"github.com/rlpro/rlpro/internal/screen"
	"github.com/rlpro/rlpro/internal/screens/settings"
	"github.com/rlpro/rlpro/internal/screens/summary"
	"github.com/rlpro/rlpro/internal/session"
)

func stub() screen.Screen { return summary.New("", session.Summary{}, nil) }

func TestMenuHidesMissingActions(t *testing.T) {
	h := New(Actions{Learn: stub}, "")
	view := h.View(100, 30)
	if !strings.Contains(view, "Learning loop") || !strings.Contains(view, "Quit") {
		t.Errorf("unexpected menu:\n%s", view)
	}
	for _, hidden := range []string{"Modules", "History", "Settings"} {
		if strings.Contains(view, hidden) {
			t.Errorf("%s should be hidden", hidden)
		}
	}
}

func TestEnterPushesSelected(t *testing.T) {
	var built string
	h := New(Actions{
		Learn:   func() screen.Screen { built = "learn"; return stub() },
		Modules: func() screen.Screen { built = "modules"; return stub() },
	}, "http://127.0.0.1:8000")

	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if built != "modules" {
		t.Errorf("built = %q", built)
	}
}

func TestSettingsAndStatus(t *testing.T) {
	prefs := session.Preferences{Language: "Korean", Model: "qwen3-4b-cpu"}
	h := New(Actions{Preferences: func() session.Preferences { return prefs }}, "")

	if got := h.Status(); got != "한국어  qwen3-4b-cpu" {
		t.Errorf("Status = %q", got)
	}

	// Settings is the first entry when no screen builders are set.
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	s, ok := push.Screen.(*settings.SettingsScreen)
	if !ok {
		t.Fatalf("expected settings screen, got %T", push.Screen)
	}
	if s.Selected() != prefs {
		t.Errorf("settings opened with %+v", s.Selected())
	}
}
