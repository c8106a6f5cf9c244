package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rlpro/rlpro/internal/quiz"
	"github.com/rlpro/rlpro/internal/router"
	"github.com/rlpro/rlpro/internal/screen"
	"github.com/rlpro/rlpro/internal/session"
	"github.com/rlpro/rlpro/internal/ui/layout"
	"github.com/rlpro/rlpro/internal/ui/theme"
)

// SummaryScreen displays the results of a completed loop.
type SummaryScreen struct {
	title   string
	summary session.Summary
	missed  []quiz.Miss
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen for the unit titled title.
func New(title string, summary session.Summary, missed []quiz.Miss) *SummaryScreen {
	return &SummaryScreen{title: title, summary: summary, missed: missed}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Loop Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Back"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, router.Pop
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder

	heading := "Loop complete!"
	if !sum.Complete {
		heading = "Loop in progress"
	}
	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render(heading))
	b.WriteString("\n")
	if s.title != "" {
		b.WriteString(center.Foreground(theme.TextDim).Render(s.title))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	statsLine := fmt.Sprintf("Test: %d/%d correct        Accuracy: %.0f%%",
		sum.TestCorrect, sum.TestTotal, sum.TestAccuracy()*100)
	b.WriteString(center.Foreground(theme.Text).Render(statsLine))
	b.WriteString("\n")

	if sum.RemediationTotal > 0 {
		line := fmt.Sprintf("Follow-up: %d/%d correct", sum.RemediationCorrect, sum.RemediationTotal)
		b.WriteString(center.Foreground(theme.Text).Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(s.missed) == 0 {
		b.WriteString(center.Foreground(theme.Success).Render("No misses this pass."))
		return b.String()
	}

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Missed")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	wrap := lipgloss.NewStyle().Width(min(width-8, 60))
	for _, m := range s.missed {
		line := fmt.Sprintf("%s\n  you answered: %s", m.Question.Prompt, m.Submitted)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			wrap.Foreground(theme.Error).Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}
