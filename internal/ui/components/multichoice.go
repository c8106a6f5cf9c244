package components

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rlpro/rlpro/internal/ui/theme"
)

// MultiChoice is an option selector. It does not know the correct answer;
// grading happens after the chosen option is submitted. In multi-select
// mode space ticks options and enter submits every ticked one.
type MultiChoice struct {
	Options     []string
	Selected    int
	Submitted   bool
	ChosenIndex int
	Correct     bool

	Multi   bool
	Checked []bool
}

// NewMultiChoice creates a new option selector.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{
		Options:     options,
		ChosenIndex: -1,
	}
}

// NewMultiSelect creates a selector that accepts several options.
func NewMultiSelect(options []string) MultiChoice {
	m := NewMultiChoice(options)
	m.Multi = true
	m.Checked = make([]bool, len(options))
	return m
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection. Letter keys jump
// to an option.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "space":
		if m.Multi && len(m.Options) > 0 {
			m.Checked[m.Selected] = !m.Checked[m.Selected]
		}
	case "enter":
		if len(m.Options) == 0 {
			break
		}
		// Enter with nothing ticked submits the highlighted option alone.
		if m.Multi && !slices.Contains(m.Checked, true) {
			m.Checked[m.Selected] = true
		}
		m.Submitted = true
		m.ChosenIndex = m.Selected
	default:
		if len(key) == 1 {
			if i := int(strings.ToLower(key)[0] - 'a'); i >= 0 && i < len(m.Options) {
				m.Selected = i
			}
		}
	}

	return m, nil
}

// Chosen returns the submitted option.
func (m MultiChoice) Chosen() (string, bool) {
	if !m.Submitted || m.ChosenIndex < 0 || m.ChosenIndex >= len(m.Options) {
		return "", false
	}
	return m.Options[m.ChosenIndex], true
}

// ChosenAll returns every submitted option in option order.
func (m MultiChoice) ChosenAll() ([]string, bool) {
	if !m.Multi {
		c, ok := m.Chosen()
		if !ok {
			return nil, false
		}
		return []string{c}, true
	}
	if !m.Submitted {
		return nil, false
	}
	var out []string
	for i, on := range m.Checked {
		if on {
			out = append(out, m.Options[i])
		}
	}
	return out, len(out) > 0
}

func (m MultiChoice) picked(i int) bool {
	if m.Multi {
		return m.Checked[i]
	}
	return i == m.ChosenIndex
}

// Mark records whether the submitted option was graded correct.
func (m *MultiChoice) Mark(correct bool) {
	m.Correct = correct
}

// View renders the options.
func (m MultiChoice) View() string {
	var b strings.Builder

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}

		box := ""
		if m.Multi {
			box = "[ ] "
			if m.Checked[i] {
				box = "[x] "
			}
		}
		line := fmt.Sprintf("%s%s%c)  %s", prefix, box, 'A'+rune(i), opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.Submitted && m.picked(i) && m.Correct:
			style = theme.Correct
		case m.Submitted && m.picked(i):
			style = theme.Incorrect
		case m.Submitted:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = theme.Selected
		}
		b.WriteString(style.Render(line) + "\n")
	}

	return b.String()
}
