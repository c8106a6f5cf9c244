package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/rlpro/rlpro/internal/chat"
	"github.com/rlpro/rlpro/internal/ui/theme"
)

// Transcript renders the tail of a conversation that fits in Height lines.
type Transcript struct {
	Turns  []chat.Turn
	Width  int
	Height int

	// Names overrides the speaker label per role.
	Names map[chat.Role]string

	// RightAlign is set for right-to-left display languages.
	RightAlign bool
}

// View renders the newest turns, dropping older lines that do not fit.
func (t Transcript) View() string {
	if len(t.Turns) == 0 {
		return ""
	}

	width := t.Width
	if width < 20 {
		width = 20
	}

	align := lipgloss.Left
	if t.RightAlign {
		align = lipgloss.Right
	}
	body := lipgloss.NewStyle().Width(width).Align(align).Foreground(theme.Text)

	var lines []string
	for _, turn := range t.Turns {
		name := roleStyle(turn.Role).Render(t.name(turn.Role) + ":")
		block := body.Render(name + " " + turn.Text)
		lines = append(lines, strings.Split(block, "\n")...)
	}

	if t.Height > 0 && len(lines) > t.Height {
		lines = lines[len(lines)-t.Height:]
	}
	return strings.Join(lines, "\n")
}

func (t Transcript) name(r chat.Role) string {
	if n, ok := t.Names[r]; ok {
		return n
	}
	s := string(r)
	if s == "" {
		return "?"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func roleStyle(r chat.Role) lipgloss.Style {
	switch r {
	case chat.Tutor, chat.Student:
		return theme.Tutor
	case chat.Learner, chat.Teacher:
		return theme.Learner
	default:
		return theme.Coach
	}
}
