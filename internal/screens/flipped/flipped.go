// Package flipped is the screen where the learner teaches a simulated
// student, with a coach thread on the side.
package flipped

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rlpro/rlpro/internal/chat"
	class "github.com/rlpro/rlpro/internal/flipped"
	"github.com/rlpro/rlpro/internal/lang"
	"github.com/rlpro/rlpro/internal/screen"
	"github.com/rlpro/rlpro/internal/ui/components"
	"github.com/rlpro/rlpro/internal/ui/layout"
	"github.com/rlpro/rlpro/internal/ui/theme"
)

type thread int

const (
	threadStudent thread = iota
	threadCoach
)

// doneMsg is sent when a classroom call returns.
type doneMsg struct {
	Err error
}

// FlippedScreen renders one flipped.Classroom.
type FlippedScreen struct {
	room     *class.Classroom
	language string

	snap   class.Snapshot
	target thread
	busy   bool
	errMsg string
	input  components.TextInput
}

var _ screen.Screen = (*FlippedScreen)(nil)
var _ screen.KeyHintProvider = (*FlippedScreen)(nil)
var _ screen.StatusProvider = (*FlippedScreen)(nil)

// New creates the screen. language only affects text alignment; prompts
// use the classroom's own preferences.
func New(room *class.Classroom, language string) *FlippedScreen {
	s := &FlippedScreen{
		room:     room,
		language: language,
		input:    components.NewTextInput("Explain the idea to your student, then press Enter", 0),
	}
	s.snap = room.State()
	return s
}

func (s *FlippedScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *FlippedScreen) Title() string {
	return "Flipped Classroom"
}

func (s *FlippedScreen) Status() string {
	return fmt.Sprintf("%d%%", s.snap.Progress)
}

func (s *FlippedScreen) KeyHints() []layout.KeyHint {
	if s.busy {
		return []layout.KeyHint{{Key: "…", Description: "Waiting"}}
	}
	if s.snap.Ended {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	to := "Ask coach"
	if s.target == threadCoach {
		to = "Teach student"
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Tab", Description: to},
		{Key: "Ctrl+E", Description: "End class"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *FlippedScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		s.busy = false
		s.errMsg = ""
		if msg.Err != nil {
			if errors.Is(msg.Err, class.ErrClassEnded) {
				s.errMsg = "The class has ended."
			} else {
				s.errMsg = msg.Err.Error()
			}
		}
		s.snap = s.room.State()
		return s, nil

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *FlippedScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.snap.Ended {
		return s, nil
	}

	switch msg.String() {
	case "tab":
		if s.target == threadStudent {
			s.target = threadCoach
			s.input.SetPlaceholder("Ask the coach for advice, then press Enter")
		} else {
			s.target = threadStudent
			s.input.SetPlaceholder("Explain the idea to your student, then press Enter")
		}
		return s, nil
	case "ctrl+e":
		room := s.room
		return s, s.run(func(ctx context.Context) error {
			room.EndClass(ctx)
			return nil
		})
	case "enter":
		text := s.input.Value()
		if text == "" {
			return s, nil
		}
		s.input.Reset()
		room := s.room
		if s.target == threadCoach {
			return s, s.run(func(ctx context.Context) error { return room.AskCoach(ctx, text) })
		}
		return s, s.run(func(ctx context.Context) error { return room.Teach(ctx, text) })
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *FlippedScreen) run(f func(context.Context) error) tea.Cmd {
	s.busy = true
	return func() tea.Msg {
		return doneMsg{Err: f(context.Background())}
	}
}

func (s *FlippedScreen) View(width, height int) string {
	rtl := lang.IsRTL(s.language)

	sideW := 34
	if layout.IsCompactWidth(width) {
		sideW = 28
	}
	mainW := width - sideW - 4
	half := (height - 6) / 2
	if half < 4 {
		half = 4
	}

	student := s.renderThread("Student", s.snap.Student, mainW, half, s.target == threadStudent, rtl)
	coach := s.renderThread("Coach", s.snap.Coach, mainW, half, s.target == threadCoach, rtl)

	var main strings.Builder
	main.WriteString(student)
	main.WriteString("\n")
	main.WriteString(coach)
	main.WriteString("\n")
	if !s.snap.Ended {
		main.WriteString(s.input.View())
	}
	if s.errMsg != "" {
		main.WriteString("\n")
		main.WriteString(theme.Incorrect.Render(s.errMsg))
	}
	if s.busy {
		main.WriteString("\n")
		main.WriteString(theme.Hint.Render("Thinking..."))
	}

	side := s.renderSide(sideW)
	return lipgloss.JoinHorizontal(lipgloss.Top, main.String(), "  ", side)
}

func (s *FlippedScreen) renderThread(title string, turns []chat.Turn, width, height int, active, rtl bool) string {
	tr := components.Transcript{
		Turns:      turns,
		Width:      width - 4,
		Height:     height - 2,
		Names:      map[chat.Role]string{chat.Teacher: "You"},
		RightAlign: rtl,
	}
	style := theme.Card
	if active {
		style = theme.FocusedCard
	}
	return style.Width(width).Render(theme.Subtitle.Render(title) + "\n" + tr.View())
}

func (s *FlippedScreen) renderSide(width int) string {
	var b strings.Builder

	bar := components.NewProgressBar("", float64(s.snap.Progress)/100, true, width-4)
	b.WriteString(theme.Title.Render("Teaching goals"))
	b.WriteString("\n")
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	item := lipgloss.NewStyle().Width(width - 4)
	for _, it := range s.snap.Checklist {
		mark := "○ "
		style := item.Foreground(theme.Text)
		if it.Done {
			mark = "● "
			style = item.Foreground(theme.Success)
		}
		b.WriteString(style.Render(mark + it.Label))
		b.WriteString("\n")
	}

	if s.snap.Summary != "" {
		b.WriteString("\n")
		b.WriteString(item.Foreground(theme.TextDim).Italic(true).Render(s.snap.Summary))
		b.WriteString("\n")
	}

	if r := s.snap.Report; r != nil {
		b.WriteString("\n")
		b.WriteString(theme.Title.Render("Report"))
		b.WriteString("\n")
		if r.Scores.Total > 0 {
			b.WriteString(item.Render(fmt.Sprintf("Total %.0f%%", r.Scores.Total*100)))
			b.WriteString("\n")
			b.WriteString(theme.Subtitle.Render(fmt.Sprintf("responsive %.1f  clarity %.1f", r.Scores.Responsiveness, r.Scores.Clarity)))
			b.WriteString("\n")
			b.WriteString(theme.Subtitle.Render(fmt.Sprintf("scaffold %.1f  coach %.1f", r.Scores.Scaffolding, r.Scores.CoachUse)))
			b.WriteString("\n")
		}
		if r.Summary != "" {
			b.WriteString(item.Render(r.Summary))
			b.WriteString("\n")
		}
	}

	return theme.Card.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}
