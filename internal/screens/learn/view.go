package learn

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/rlpro/rlpro/internal/chat"
	"github.com/rlpro/rlpro/internal/lang"
	"github.com/rlpro/rlpro/internal/session"
	"github.com/rlpro/rlpro/internal/translate"
	"github.com/rlpro/rlpro/internal/ui/components"
	"github.com/rlpro/rlpro/internal/ui/layout"
	"github.com/rlpro/rlpro/internal/ui/theme"
)

func (s *LearnScreen) View(width, height int) string {
	if !s.started {
		if s.errMsg != "" {
			return renderError(width, height, s.errMsg)
		}
		return renderLoading(width, height)
	}

	rtl := lang.IsRTL(s.snap.Preferences.Language)

	if layout.IsCompactWidth(width) {
		main := s.renderMain(width, rtl)
		chatH := height - lipgloss.Height(main) - 2
		return main + "\n" + s.renderChat(width, chatH, rtl)
	}

	leftW := width * 3 / 5
	rightW := width - leftW - 2
	left := s.renderMain(leftW, rtl)
	right := s.renderChat(rightW, height-2, rtl)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

func (s *LearnScreen) renderMain(width int, rtl bool) string {
	tw := layout.TextWidth(width)
	align := lipgloss.Left
	if rtl {
		align = lipgloss.Right
	}
	text := lipgloss.NewStyle().Width(tw).Align(align).Foreground(theme.Text)

	var b strings.Builder

	b.WriteString(theme.Title.Render(s.labels.Get(translate.LabelHeading)))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(s.labels.Get(translate.LabelLoop)))
	b.WriteString("\n\n")
	bar := components.NewProgressBar(s.snap.Phase.String(), float64(s.snap.Progress)/100, true, tw)
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	switch s.snap.Phase {
	case session.PhaseLearn:
		b.WriteString(s.renderNote(tw, text))
		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Render(s.labels.Get(translate.LabelYourReflection)))
		b.WriteString("\n")
		b.WriteString(s.input.View())
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(s.labels.Get(translate.LabelReflectionTip)))
	case session.PhaseTest, session.PhaseReinforce:
		b.WriteString(s.renderQuestion(tw, text))
	case session.PhaseDone:
		b.WriteString(s.renderDone(text))
	}

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Incorrect.Render(s.errMsg))
	}
	if s.busy {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render(s.labels.Get(translate.LabelChatSending)))
	}

	return b.String()
}

func (s *LearnScreen) renderNote(width int, text lipgloss.Style) string {
	u := s.snap.Unit
	var b strings.Builder

	b.WriteString(theme.Subtitle.Render(s.labels.Get(translate.LabelLearningNote)))
	b.WriteString("\n")

	var parts []string
	for i, sent := range s.sentences {
		if s.focus == focusChat && i == s.selected {
			parts = append(parts, theme.Selected.Underline(true).Render(sent))
		} else {
			parts = append(parts, sent)
		}
	}
	note := strings.Join(parts, " ")
	if s.focus == focusChat && s.selected < 0 {
		note = theme.Selected.Render(note)
	}
	b.WriteString(text.Render(note))
	b.WriteString("\n")

	if u.Example != "" {
		b.WriteString(text.Foreground(theme.TextDim).Italic(true).Render(u.Example))
		b.WriteString("\n")
	}
	for _, p := range u.Prompts {
		b.WriteString(text.Foreground(theme.Secondary).Render("• " + p))
		b.WriteString("\n")
	}
	return theme.Card.Width(width + 4).Render(strings.TrimRight(b.String(), "\n"))
}

func (s *LearnScreen) renderQuestion(width int, text lipgloss.Style) string {
	var b strings.Builder

	label := s.labels.Get(translate.LabelTest)
	index, total := s.snap.TestIndex, len(s.snap.Unit.Questions)
	if s.snap.Phase == session.PhaseReinforce {
		label = s.labels.Get(translate.LabelReinforce)
		index, total = s.snap.RemediationIndex, len(s.snap.Remediation)
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("%s  %d/%d", label, index+1, total)))
	b.WriteString("\n\n")

	q, ok := s.snap.Current()
	if !ok {
		return b.String()
	}
	b.WriteString(text.Bold(true).Render(q.Prompt))
	b.WriteString("\n\n")

	if s.choice != nil {
		b.WriteString(s.choice.View())
	} else {
		b.WriteString(s.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.Hint.Width(width).Render(s.labels.Get(translate.LabelAnswerHidden)))

	if s.snap.Phase == session.PhaseTest && s.snap.Result != "" {
		b.WriteString("\n\n")
		style := theme.Correct
		if !s.lastCorrect {
			style = theme.Incorrect
		}
		b.WriteString(style.Render(s.snap.Result))
	}
	return b.String()
}

func (s *LearnScreen) renderDone(text lipgloss.Style) string {
	sum := s.ctrl.Summary()

	var b strings.Builder
	b.WriteString(theme.Correct.Render(s.labels.Get(translate.LabelLoopComplete)))
	b.WriteString("\n\n")
	b.WriteString(text.Render(fmt.Sprintf("Test: %d/%d correct", sum.TestCorrect, sum.TestTotal)))
	b.WriteString("\n")
	if sum.RemediationTotal > 0 {
		b.WriteString(text.Render(fmt.Sprintf("Follow-up: %d/%d correct", sum.RemediationCorrect, sum.RemediationTotal)))
		b.WriteString("\n")
	}
	if s.snap.Result != "" {
		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Render(s.snap.Result))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.Selected.Render("R  " + s.labels.Get(translate.LabelRestart)))
	b.WriteString("\n")
	if s.flipped != nil {
		b.WriteString(theme.Selected.Render("F  " + s.labels.Get(translate.LabelContinueFlipped)))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *LearnScreen) renderChat(width, height int, rtl bool) string {
	var b strings.Builder

	style := theme.Subtitle
	if s.focus == focusChat {
		style = theme.Selected
	}
	b.WriteString(style.Render(s.labels.Get(translate.LabelChatTitle)))
	b.WriteString("\n")

	footer := ""
	if s.focus == focusChat {
		footer = s.chatInput.View() + "\n" +
			theme.Hint.Width(width).Render(s.labels.Get(translate.LabelChatTip))
	}

	avail := height - 2 - lipgloss.Height(footer)
	if avail < 3 {
		avail = 3
	}
	tr := components.Transcript{
		Turns:      s.snap.Turns,
		Width:      width,
		Height:     avail,
		Names:      map[chat.Role]string{chat.Learner: "You"},
		RightAlign: rtl,
	}
	b.WriteString(tr.View())
	if footer != "" {
		b.WriteString("\n\n")
		b.WriteString(footer)
	}
	return b.String()
}

func renderLoading(width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.Hint.Render("Preparing your learning note..."))
}

func renderError(width, height int, errMsg string) string {
	body := theme.Incorrect.Render("Could not start the loop") + "\n\n" +
		lipgloss.NewStyle().Foreground(theme.TextDim).Width(min(width-8, 70)).Render(errMsg) + "\n\n" +
		theme.Hint.Render("Press Esc to go back.")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
