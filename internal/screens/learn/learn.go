// Package learn is the screen for the learn → test → reinforce loop.
package learn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "charm.land/bubbletea/v2"

	"github.com/rlpro/rlpro/internal/lang"
	"github.com/rlpro/rlpro/internal/quiz"
	"github.com/rlpro/rlpro/internal/router"
	"github.com/rlpro/rlpro/internal/screen"
	"github.com/rlpro/rlpro/internal/screens/settings"
	"github.com/rlpro/rlpro/internal/screens/summary"
	"github.com/rlpro/rlpro/internal/session"
	"github.com/rlpro/rlpro/internal/translate"
	"github.com/rlpro/rlpro/internal/ui/components"
	"github.com/rlpro/rlpro/internal/ui/layout"
)

// LabelSource provides the interface strings for a display language.
type LabelSource interface {
	Labels(ctx context.Context, u quiz.Unit, language, model string) translate.Labels
}

// Options configures a LearnScreen.
type Options struct {
	Controller *session.Controller
	Labels     LabelSource

	// Flipped builds the flipped classroom that follows a completed loop
	// over the displayed unit. When nil the option is not offered.
	Flipped func(quiz.Unit, session.Preferences) screen.Screen

	Logger *slog.Logger
}

type focus int

const (
	focusMain focus = iota
	focusChat
)

// LearnScreen renders one session.Controller.
type LearnScreen struct {
	ctrl     *session.Controller
	labelSrc LabelSource
	flipped  func(quiz.Unit, session.Preferences) screen.Screen
	logger   *slog.Logger

	snap   session.Snapshot
	labels translate.Labels

	started bool
	busy    bool
	errMsg  string
	focus   focus

	// lastCorrect is the verdict of the last graded answer.
	lastCorrect bool

	input     components.TextInput
	chatInput components.TextInput
	choice    *components.MultiChoice

	// questionKey identifies the question the inputs were built for.
	questionKey string

	// sentences of the learning note; selected is -1 for the whole note.
	sentences []string
	selected  int
}

var _ screen.Screen = (*LearnScreen)(nil)
var _ screen.KeyHintProvider = (*LearnScreen)(nil)
var _ screen.StatusProvider = (*LearnScreen)(nil)
var _ screen.EscapeHandler = (*LearnScreen)(nil)

// New creates a LearnScreen. The controller is started by Init.
func New(opts Options) *LearnScreen {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	labels := translate.DefaultLabels()
	return &LearnScreen{
		ctrl:      opts.Controller,
		labelSrc:  opts.Labels,
		flipped:   opts.Flipped,
		logger:    logger,
		labels:    labels,
		input:     components.NewTextInput(labels.Get(translate.LabelReflectionPlaceholder), 0),
		chatInput: components.NewTextInput(labels.Get(translate.LabelChatPlaceholder), 0),
		selected:  -1,
	}
}

func (s *LearnScreen) Init() tea.Cmd {
	return tea.Batch(s.input.Init(), s.start())
}

// start loads the unit and fetches the interface labels.
func (s *LearnScreen) start() tea.Cmd {
	s.busy = true
	ctrl := s.ctrl
	src := s.labelSrc
	return func() tea.Msg {
		ctx := context.Background()
		if err := ctrl.Start(ctx); err != nil {
			return startedMsg{Err: err}
		}
		return startedMsg{Labels: labelsFor(ctx, src, ctrl)}
	}
}

func labelsFor(ctx context.Context, src LabelSource, ctrl *session.Controller) translate.Labels {
	if src == nil {
		return translate.DefaultLabels()
	}
	st := ctrl.State()
	return src.Labels(ctx, st.Unit, st.Preferences.Language, st.Preferences.Model)
}

func (s *LearnScreen) Title() string {
	if s.snap.Unit.Title != "" {
		return s.snap.Unit.Title
	}
	return s.labels.Get(translate.LabelHeading)
}

// Status shows progress and the display language in the header.
func (s *LearnScreen) Status() string {
	name := s.snap.Preferences.Language
	if l, ok := lang.Lookup(name); ok {
		name = l.Native
	}
	return fmt.Sprintf("%d%%  %s", s.snap.Progress, name)
}

// HandlesEscape keeps Esc inside the screen while the chat has focus.
func (s *LearnScreen) HandlesEscape() bool {
	return s.focus == focusChat
}

func (s *LearnScreen) KeyHints() []layout.KeyHint {
	if s.busy {
		return []layout.KeyHint{{Key: "…", Description: "Waiting for the tutor"}}
	}
	if s.focus == focusChat {
		return []layout.KeyHint{
			{Key: "Enter", Description: s.labels.Get(translate.LabelChatSend)},
			{Key: "↑↓", Description: "Select sentence"},
			{Key: "Ctrl+A", Description: s.labels.Get(translate.LabelAskSelection)},
			{Key: "Esc", Description: "Back to loop"},
		}
	}
	if s.snap.Phase == session.PhaseDone {
		hints := []layout.KeyHint{
			{Key: "R", Description: s.labels.Get(translate.LabelRestart)},
		}
		if s.flipped != nil {
			hints = append(hints, layout.KeyHint{Key: "F", Description: s.labels.Get(translate.LabelContinueFlipped)})
		}
		return append(hints,
			layout.KeyHint{Key: "Enter", Description: "Summary"},
			layout.KeyHint{Key: "Ctrl+S", Description: "Settings"},
		)
	}
	submit := s.labels.Get(translate.LabelSubmit)
	switch s.snap.Phase {
	case session.PhaseLearn:
		submit = s.labels.Get(translate.LabelRespond)
	case session.PhaseReinforce:
		submit = s.labels.Get(translate.LabelFollowUp)
	}
	hints := []layout.KeyHint{{Key: "Enter", Description: submit}}
	if s.choice != nil && s.choice.Multi {
		hints = append(hints, layout.KeyHint{Key: "Space", Description: "Tick"})
	}
	return append(hints,
		layout.KeyHint{Key: "Tab", Description: s.labels.Get(translate.LabelChatTitle)},
		layout.KeyHint{Key: "Ctrl+S", Description: "Settings"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}

func (s *LearnScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		s.busy = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.started = true
		s.setLabels(msg.Labels)
		s.refresh()
		return s, nil

	case commandDoneMsg:
		return s.handleDone(msg)

	case settings.ChangedMsg:
		return s, s.applyPreferences(msg.Preferences)

	case prefsAppliedMsg:
		s.busy = false
		s.setLabels(msg.Labels)
		s.questionKey = ""
		s.refresh()
		return s, nil

	case tea.KeyMsg:
		if s.busy || !s.started {
			return s, nil
		}
		return s.handleKey(msg)
	}

	return s.forward(msg)
}

func (s *LearnScreen) handleDone(msg commandDoneMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	s.errMsg = ""
	switch {
	case errors.Is(msg.Err, session.ErrEmptyInput):
		s.errMsg = "Enter an answer first."
	case msg.Err != nil:
		s.errMsg = msg.Err.Error()
	}
	if msg.Op == "submit" && msg.Err == nil {
		s.lastCorrect = msg.Verdict.Correct
	}
	if msg.Op == "restart" {
		s.questionKey = ""
	}
	s.refresh()
	return s, nil
}

func (s *LearnScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		return s, router.Push(settings.New(s.snap.Preferences))
	case "tab":
		if s.focus == focusMain {
			s.focus = focusChat
			s.input.Model.Blur()
			return s, s.chatInput.Model.Focus()
		}
		s.focus = focusMain
		s.chatInput.Model.Blur()
		return s, s.input.Model.Focus()
	case "esc":
		if s.focus == focusChat {
			s.focus = focusMain
			s.chatInput.Model.Blur()
			return s, s.input.Model.Focus()
		}
		return s, nil
	}

	if s.focus == focusChat {
		return s.handleChatKey(msg)
	}
	if s.snap.Phase == session.PhaseDone {
		return s.handleDoneKey(msg)
	}
	return s.handleLoopKey(msg)
}

func (s *LearnScreen) handleChatKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up":
		if s.selected >= 0 {
			s.selected--
		}
		return s, nil
	case "down":
		if s.selected < len(s.sentences)-1 {
			s.selected++
		}
		return s, nil
	case "ctrl+a":
		selection := ""
		if s.selected >= 0 && s.selected < len(s.sentences) {
			selection = s.sentences[s.selected]
		}
		return s, s.run("ask", func(ctx context.Context) (session.Verdict, error) {
			return session.Verdict{}, s.ctrl.AskSelection(ctx, selection)
		})
	case "enter":
		text := s.chatInput.Value()
		if text == "" {
			return s, nil
		}
		s.chatInput.Reset()
		return s, s.run("chat", func(ctx context.Context) (session.Verdict, error) {
			return session.Verdict{}, s.ctrl.Chat(ctx, text)
		})
	}

	var cmd tea.Cmd
	s.chatInput, cmd = s.chatInput.Update(msg)
	return s, cmd
}

func (s *LearnScreen) handleDoneKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "r":
		return s, s.run("restart", func(ctx context.Context) (session.Verdict, error) {
			return session.Verdict{}, s.ctrl.Restart(ctx)
		})
	case "f":
		if s.flipped != nil {
			return s, router.Push(s.flipped(s.snap.Unit, s.snap.Preferences))
		}
	case "enter":
		return s, router.Push(summary.New(s.snap.Unit.Title, s.ctrl.Summary(), s.snap.Missed))
	}
	return s, nil
}

func (s *LearnScreen) handleLoopKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.snap.Phase == session.PhaseLearn {
		if msg.String() == "enter" {
			text := s.input.Value()
			s.input.Reset()
			return s, s.run("reflect", func(ctx context.Context) (session.Verdict, error) {
				return session.Verdict{}, s.ctrl.Reflect(ctx, text)
			})
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	if s.choice != nil {
		mc, cmd := s.choice.Update(msg)
		s.choice = &mc
		if chosen, ok := mc.ChosenAll(); ok {
			q, _ := s.snap.Current()
			return s, s.submit(quiz.Selection(q, chosen))
		}
		return s, cmd
	}

	if msg.String() == "enter" {
		answer := s.input.Value()
		return s, s.submit(answer)
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *LearnScreen) submit(answer string) tea.Cmd {
	return s.run("submit", func(ctx context.Context) (session.Verdict, error) {
		return s.ctrl.Submit(ctx, answer)
	})
}

// run executes one controller command off the UI loop. Keys are ignored
// until it returns.
func (s *LearnScreen) run(op string, f func(context.Context) (session.Verdict, error)) tea.Cmd {
	s.busy = true
	s.errMsg = ""
	logger := s.logger
	return func() tea.Msg {
		v, err := f(context.Background())
		if err != nil {
			logger.Debug("learn command failed", "op", op, "error", err)
		}
		return commandDoneMsg{Op: op, Verdict: v, Err: err}
	}
}

func (s *LearnScreen) applyPreferences(p session.Preferences) tea.Cmd {
	s.busy = true
	ctrl := s.ctrl
	src := s.labelSrc
	return func() tea.Msg {
		ctx := context.Background()
		ctrl.SetPreferences(ctx, p)
		return prefsAppliedMsg{Labels: labelsFor(ctx, src, ctrl)}
	}
}

func (s *LearnScreen) forward(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	if s.focus == focusChat {
		s.chatInput, cmd = s.chatInput.Update(msg)
	} else {
		s.input, cmd = s.input.Update(msg)
	}
	return s, cmd
}

func (s *LearnScreen) setLabels(l translate.Labels) {
	if l == nil {
		l = translate.DefaultLabels()
	}
	s.labels = l
	s.chatInput.SetPlaceholder(l.Get(translate.LabelChatPlaceholder))
}

// refresh pulls a new snapshot and rebuilds the answer inputs when the
// active question changed.
func (s *LearnScreen) refresh() {
	s.snap = s.ctrl.State()
	s.sentences = translate.SplitSentences(s.snap.Unit.Body)
	if s.selected >= len(s.sentences) {
		s.selected = -1
	}

	q, ok := s.snap.Current()
	key := s.snap.Phase.String()
	if ok {
		key = fmt.Sprintf("%s:%d:%d:%s", key, s.snap.TestIndex, s.snap.RemediationIndex, q.ID)
	}
	if key == s.questionKey {
		return
	}
	s.questionKey = key

	s.input.Reset()
	s.choice = nil
	switch {
	case s.snap.Phase == session.PhaseLearn:
		s.input.SetPlaceholder(s.labels.Get(translate.LabelReflectionPlaceholder))
	case ok && q.Kind == quiz.MultipleChoice:
		mc := components.NewMultiSelect(q.Options)
		s.choice = &mc
	case ok && q.Kind.IsChoice():
		mc := components.NewMultiChoice(q.Options)
		s.choice = &mc
	case ok:
		s.input.SetPlaceholder("Type your answer, then press Enter")
	}
}
