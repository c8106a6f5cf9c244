package modules

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/rlpro/rlpro/internal/content"
	"github.com/rlpro/rlpro/internal/router"
	"github.com/rlpro/rlpro/internal/screen"
	"github.com/rlpro/rlpro/internal/screens/summary"
	"github.com/rlpro/rlpro/internal/session"
)

type fakeStore struct {
	modules []content.Module
	deleted []string
	err     error
}

func (f *fakeStore) ListModules(context.Context) ([]content.Module, error) {
	return f.modules, f.err
}

func (f *fakeStore) DeleteModule(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	var kept []content.Module
	for _, m := range f.modules {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	f.modules = kept
	return nil
}

func run(t *testing.T, s *ModulesScreen, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	s.Update(cmd())
}

func TestModulesScreen_ListAndLearn(t *testing.T) {
	st := &fakeStore{modules: []content.Module{
		{ID: "m1", Title: "Innateness", Language: "English"},
		{ID: "m2", Title: "Critical periods", Language: "English"},
	}}
	var opened string
	s := New(Options{Store: st, Learn: func(m content.Module) screen.Screen {
		opened = m.ID
		return summary.New(m.Title, session.Summary{}, nil)
	}})
	run(t, s, s.Init())

	view := s.View(100, 30)
	if !strings.Contains(view, "Innateness") || !strings.Contains(view, "Critical periods") {
		t.Errorf("unexpected view:\n%s", view)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if opened != "m2" {
		t.Errorf("opened = %q", opened)
	}
}

func TestModulesScreen_DeleteNeedsConfirm(t *testing.T) {
	st := &fakeStore{modules: []content.Module{{ID: "m1", Title: "Innateness"}}}
	s := New(Options{Store: st})
	run(t, s, s.Init())

	s.Update(tea.KeyPressMsg{Code: 'd', Text: "d"})
	if _, cmd := s.Update(tea.KeyPressMsg{Code: 'n', Text: "n"}); cmd != nil || len(st.deleted) != 0 {
		t.Fatal("n should cancel the delete")
	}

	s.Update(tea.KeyPressMsg{Code: 'd', Text: "d"})
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'y', Text: "y"})
	run(t, s, cmd)
	if len(st.deleted) != 1 || st.deleted[0] != "m1" {
		t.Fatalf("deleted = %v", st.deleted)
	}
}

func TestModulesScreen_BackendError(t *testing.T) {
	s := New(Options{Store: &fakeStore{err: errors.New("connection refused")}})
	run(t, s, s.Init())
	if !strings.Contains(s.View(100, 30), "connection refused") {
		t.Error("expected backend error in view")
	}
}

func TestModulesScreen_PracticeHiddenWithoutBuilder(t *testing.T) {
	s := New(Options{Store: &fakeStore{}})
	for _, h := range s.KeyHints() {
		if h.Key == "P" {
			t.Error("practice hint should be hidden")
		}
	}
	if _, cmd := s.Update(tea.KeyPressMsg{Code: 'p', Text: "p"}); cmd != nil {
		t.Error("p should do nothing without a practice builder")
	}
}
