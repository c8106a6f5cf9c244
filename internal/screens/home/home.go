package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rlpro/rlpro/internal/lang"
	"github.com/rlpro/rlpro/internal/router"
	"github.com/rlpro/rlpro/internal/screen"
	"github.com/rlpro/rlpro/internal/screens/settings"
	"github.com/rlpro/rlpro/internal/session"
	"github.com/rlpro/rlpro/internal/ui/components"
	"github.com/rlpro/rlpro/internal/ui/layout"
	"github.com/rlpro/rlpro/internal/ui/theme"
)

// Actions builds the screens reachable from home. A nil builder hides its
// menu entry.
type Actions struct {
	Learn   func() screen.Screen
	Flipped func() screen.Screen
	Modules func() screen.Screen
	History func() screen.Screen

	// Preferences returns the current display preferences.
	Preferences func() session.Preferences
}

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	actions Actions
	menu    components.Menu
	backend string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.StatusProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen. backend is shown as the content source.
func New(actions Actions, backend string) *HomeScreen {
	h := &HomeScreen{actions: actions, backend: backend}

	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd { return router.Push(build()) }
	}

	var items []components.MenuItem
	if actions.Learn != nil {
		items = append(items, components.MenuItem{Label: "Learning loop", Action: push(actions.Learn)})
	}
	if actions.Flipped != nil {
		items = append(items, components.MenuItem{Label: "Flipped classroom", Action: push(actions.Flipped)})
	}
	if actions.Modules != nil {
		items = append(items, components.MenuItem{Label: "Modules", Action: push(actions.Modules)})
	}
	if actions.History != nil {
		items = append(items, components.MenuItem{Label: "History", Action: push(actions.History)})
	}
	if actions.Preferences != nil {
		items = append(items, components.MenuItem{Label: "Settings", Action: func() tea.Cmd {
			return router.Push(settings.New(actions.Preferences()))
		}})
	}
	items = append(items, components.MenuItem{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }})

	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// Status shows the display language and model.
func (h *HomeScreen) Status() string {
	if h.actions.Preferences == nil {
		return ""
	}
	p := h.actions.Preferences()
	name := p.Language
	if l, ok := lang.Lookup(name); ok {
		name = l.Native
	}
	return name + "  " + p.Model
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height+8) || layout.IsCompactWidth(width)

	var sections []string
	sections = append(sections, renderBanner(width, compact))
	sections = append(sections, theme.Subtitle.Render("Learn · Test · Reinforce"))

	menu := theme.Card.Width(36).Render(strings.TrimRight(h.menu.View(), "\n"))
	sections = append(sections, menu)

	if h.backend != "" {
		sections = append(sections, theme.Hint.Render("content: "+h.backend))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
