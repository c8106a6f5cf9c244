// Package session runs one learner's learn → test → reinforce loop over a
// content unit. It is the only component with a state machine; content
// comes from an injected Source and display strings from a Localizer.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/rlpro/rlpro/internal/chat"
	"github.com/rlpro/rlpro/internal/lang"
	"github.com/rlpro/rlpro/internal/llm"
	"github.com/rlpro/rlpro/internal/quiz"
	"github.com/rlpro/rlpro/internal/remediation"
	"github.com/rlpro/rlpro/internal/store"
)

// Config holds loop thresholds and initial preferences.
type Config struct {
	// ReflectionsToTest is the number of reflections that unlock the test.
	ReflectionsToTest int

	// HistoryTurns is how many recent turns are embedded in prompts.
	HistoryTurns int

	Preferences Preferences
}

// DefaultConfig returns the standard loop settings.
func DefaultConfig() Config {
	return Config{
		ReflectionsToTest: 2,
		HistoryTurns:      4,
		Preferences: Preferences{
			Language: lang.Source,
			Model:    llm.DefaultModel,
		},
	}
}

// Verdict is the outcome of one submission.
type Verdict struct {
	QuestionID string
	Correct    bool

	// Submitted is what was graded; "wrong answer" for force-fail questions.
	Submitted string

	// Result is the localized grading line (test phase only).
	Result string

	// Phase is the phase after the submission.
	Phase Phase
}

// Controller drives the learning loop. Commands are serialized; State may
// be called from another goroutine while a command is waiting on the model.
type Controller struct {
	cfg      Config
	gen      llm.Provider
	src      Source
	loc      Localizer
	remedy   Remediator
	recorder Recorder
	prefRepo PreferenceStore
	logger   *slog.Logger
	newID    func() string

	// cmd serializes commands; mu guards the fields below.
	cmd sync.Mutex
	mu  sync.Mutex

	prefs   Preferences
	unit    quiz.Unit
	display quiz.Unit
	local   bool
	loaded  bool
	st      state
}

// Option configures a Controller.
type Option func(*Controller)

// WithRemediator replaces the default remediation generator.
func WithRemediator(r Remediator) Option {
	return func(c *Controller) { c.remedy = r }
}

// WithRecorder records every transition.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithPreferenceStore persists preference changes.
func WithPreferenceStore(p PreferenceStore) Option {
	return func(c *Controller) { c.prefRepo = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithSessionID fixes the session identifier instead of generating one.
func WithSessionID(id string) Option {
	return func(c *Controller) { c.newID = func() string { return id } }
}

// New creates a Controller. loc may be nil, in which case content is always
// shown as authored.
func New(cfg Config, gen llm.Provider, src Source, loc Localizer, opts ...Option) *Controller {
	def := DefaultConfig()
	if cfg.ReflectionsToTest <= 0 {
		cfg.ReflectionsToTest = def.ReflectionsToTest
	}
	if cfg.HistoryTurns <= 0 {
		cfg.HistoryTurns = def.HistoryTurns
	}
	if cfg.Preferences.Language == "" {
		cfg.Preferences.Language = def.Preferences.Language
	}

	c := &Controller{
		cfg:    cfg,
		gen:    gen,
		src:    src,
		loc:    loc,
		logger: slog.Default(),
		newID:  func() string { return uuid.New().String() },
		prefs:  cfg.Preferences,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.st.phase = PhaseLearn
	return c
}

// Start loads the unit and issues the opening tutor turn. A Source failure
// is the only error a learner sees; the model call falls back silently.
func (c *Controller) Start(ctx context.Context) error {
	c.cmd.Lock()
	defer c.cmd.Unlock()

	unit, err := c.src.Load(ctx)
	if err != nil {
		c.logger.Error("load content failed", "error", err)
		return fmt.Errorf("load content: %w", err)
	}
	if len(unit.Questions) == 0 {
		return ErrNoContent
	}
	if err := unit.Questions.Validate(); err != nil {
		return fmt.Errorf("load content: %w", err)
	}

	prefs := c.Preferences()
	display, local := c.localize(ctx, unit, prefs)

	c.mu.Lock()
	c.unit = unit
	c.display = display
	c.local = local
	c.loaded = true
	c.st = state{sessionID: c.newID()}
	c.st.resetLoop()
	c.mu.Unlock()

	reply := c.ask(ctx, llm.PurposeTutor, buildOpeningPrompt(prefs.Language, display.Title), 120, 0.25, openingFallback)

	c.mu.Lock()
	c.st.transcript.Append(chat.Tutor, reply)
	c.mu.Unlock()

	c.record(ctx, "start", map[string]any{"unit_id": unit.ID, "questions": len(unit.Questions)})
	return nil
}

// Reflect submits a learn-phase reflection. Blank text counts as a turn.
func (c *Controller) Reflect(ctx context.Context, text string) error {
	c.cmd.Lock()
	defer c.cmd.Unlock()

	c.mu.Lock()
	if err := c.requireLocked(PhaseLearn); err != nil {
		c.mu.Unlock()
		return err
	}
	history := c.st.transcript.History(c.cfg.HistoryTurns)
	body := c.display.Body
	prefs := c.prefs
	c.mu.Unlock()

	text = strings.TrimSpace(text)
	content := text
	if content == "" {
		content = body
	}
	learnerTurn := text
	if learnerTurn == "" {
		learnerTurn = noInput
	}

	reply := c.ask(ctx, llm.PurposeTutor, buildReflectPrompt(prefs.Language, history, content), 200, 0.25, reflectFallback)

	c.mu.Lock()
	c.st.transcript.Append(chat.Learner, learnerTurn)
	c.st.transcript.Append(chat.Tutor, reply)
	c.st.learnTurns++
	if c.st.learnTurns >= c.cfg.ReflectionsToTest {
		c.st.phase = PhaseTest
		c.st.testIndex = 0
		c.st.testCorrect = 0
		c.st.missed = nil
		c.st.result = ""
	}
	c.mu.Unlock()

	c.record(ctx, "reflect", map[string]any{"chars": len(text)})
	return nil
}

// Submit grades an answer to the active question in the test or reinforce
// phase and advances the loop.
func (c *Controller) Submit(ctx context.Context, answer string) (Verdict, error) {
	c.cmd.Lock()
	defer c.cmd.Unlock()

	c.mu.Lock()
	if !c.loaded {
		c.mu.Unlock()
		return Verdict{}, ErrNoContent
	}
	phase := c.st.phase
	if phase != PhaseTest && phase != PhaseReinforce {
		c.mu.Unlock()
		return Verdict{}, ErrWrongPhase
	}
	q, _ := c.currentLocked()
	history := c.st.transcript.History(c.cfg.HistoryTurns)
	prefs := c.prefs
	c.mu.Unlock()

	if !q.ForceFail && strings.TrimSpace(answer) == "" {
		return Verdict{}, ErrEmptyInput
	}
	entry := answer
	if q.ForceFail {
		entry = quiz.WrongAnswer
	}
	correct := quiz.Grade(q, entry)

	var v Verdict
	if phase == PhaseTest {
		v = c.submitTest(ctx, q, entry, correct, history, prefs)
	} else {
		v = c.submitRemediation(q, entry, correct)
	}

	c.record(ctx, "submit", map[string]any{
		"question_id": q.ID,
		"correct":     correct,
		"from_phase":  phase.String(),
	})
	return v, nil
}

func (c *Controller) submitTest(ctx context.Context, q quiz.Question, entry string, correct bool, history string, prefs Preferences) Verdict {
	result := resultLine(entry, correct)
	if c.loc != nil && !lang.Same(prefs.Language, c.sourceLanguage()) {
		result = c.loc.Result(ctx, result, prefs.Language, prefs.Model)
	}

	coach, ok := c.generate(ctx, llm.PurposeCoach, buildCoachPrompt(prefs.Language, history, q, entry, correct), 180, 0.2)
	if !ok {
		coach = hintTurn(q)
	} else {
		coach = cleanReply(coach, hintTurn(q))
	}

	c.mu.Lock()
	c.st.result = result
	c.st.transcript.Append(chat.Learner, q.Prompt+" :: "+entry)
	c.st.transcript.Append(chat.Tutor, coach)
	if correct {
		c.st.testCorrect++
	} else {
		c.st.missed = append(c.st.missed, quiz.Miss{Question: q, Submitted: entry})
	}

	next := c.st.testIndex + 1
	if next < len(c.display.Questions) {
		c.st.testIndex = next
		c.mu.Unlock()
		return Verdict{QuestionID: q.ID, Correct: correct, Submitted: entry, Result: result, Phase: PhaseTest}
	}

	if len(c.st.missed) == 0 {
		c.st.phase = PhaseDone
		c.st.complete = true
		c.mu.Unlock()
		return Verdict{QuestionID: q.ID, Correct: correct, Submitted: entry, Result: result, Phase: PhaseDone}
	}
	misses := append([]quiz.Miss(nil), c.st.missed...)
	fallback := c.unit.Remediation
	c.mu.Unlock()

	set := c.remediator(fallback).Generate(ctx, misses, prefs.Language, prefs.Model)

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(set) == 0 {
		c.st.phase = PhaseDone
		c.st.complete = true
	} else {
		c.st.remediation = set
		c.st.remediationIndex = 0
		c.st.remediationCorrect = 0
		c.st.phase = PhaseReinforce
	}
	return Verdict{QuestionID: q.ID, Correct: correct, Submitted: entry, Result: result, Phase: c.st.phase}
}

func (c *Controller) submitRemediation(q quiz.Question, entry string, correct bool) Verdict {
	feedback := "Correct!"
	if !correct {
		feedback = "Expected: " + q.Answer
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.transcript.Append(chat.Learner, "Follow-up: "+q.Prompt+" :: "+entry)
	c.st.transcript.Append(chat.Tutor, feedback)
	if correct {
		c.st.remediationCorrect++
	}

	next := c.st.remediationIndex + 1
	if next < len(c.st.remediation) {
		c.st.remediationIndex = next
	} else {
		c.st.phase = PhaseDone
		c.st.complete = true
	}
	return Verdict{QuestionID: q.ID, Correct: correct, Submitted: entry, Phase: c.st.phase}
}

// Restart resets a completed loop back to the learn phase. The transcript
// is kept.
func (c *Controller) Restart(ctx context.Context) error {
	c.cmd.Lock()
	defer c.cmd.Unlock()

	c.mu.Lock()
	if err := c.requireLocked(PhaseDone); err != nil {
		c.mu.Unlock()
		return err
	}
	c.st.resetLoop()
	c.st.transcript.Append(chat.Tutor, restartMessage)
	c.mu.Unlock()

	c.record(ctx, "restart", nil)
	return nil
}

// AskSelection asks the tutor about a passage of the learning note, or the
// whole note when selection is blank. It never changes the phase.
func (c *Controller) AskSelection(ctx context.Context, selection string) error {
	c.cmd.Lock()
	defer c.cmd.Unlock()

	c.mu.Lock()
	if !c.loaded {
		c.mu.Unlock()
		return ErrNoContent
	}
	history := c.st.transcript.History(c.cfg.HistoryTurns)
	body := c.display.Body
	prefs := c.prefs
	c.mu.Unlock()

	content := strings.TrimSpace(selection)
	if content == "" {
		content = body
	}

	reply, ok := c.generate(ctx, llm.PurposeTutor, buildSelectionPrompt(prefs.Language, history, content), 200, 0.25)

	c.mu.Lock()
	if ok {
		c.st.transcript.Append(chat.Tutor, cleanReply(reply, selectionFallback))
		c.st.transcript.Append(chat.Tutor, selectionFollowUp)
	} else {
		c.st.transcript.Append(chat.Tutor, selectionFallback)
	}
	c.mu.Unlock()

	c.record(ctx, "ask_selection", nil)
	return nil
}

// Chat sends a free-form question to the tutor. Blank text is ignored. Chat
// never changes the phase.
func (c *Controller) Chat(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	c.cmd.Lock()
	defer c.cmd.Unlock()

	c.mu.Lock()
	if !c.loaded {
		c.mu.Unlock()
		return ErrNoContent
	}
	history := c.st.transcript.History(c.cfg.HistoryTurns)
	prefs := c.prefs
	c.mu.Unlock()

	reply := c.ask(ctx, llm.PurposeTutor, buildChatPrompt(prefs.Language, history, text), 200, 0.25, chatFallback)

	c.mu.Lock()
	c.st.transcript.Append(chat.Learner, text)
	c.st.transcript.Append(chat.Tutor, reply)
	c.mu.Unlock()

	c.record(ctx, "chat", nil)
	return nil
}

// State returns a snapshot of the session.
func (c *Controller) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		SessionID:        c.st.sessionID,
		Phase:            c.st.phase,
		LearnTurns:       c.st.learnTurns,
		TestIndex:        c.st.testIndex,
		RemediationIndex: c.st.remediationIndex,
		Unit:             c.display.Clone(),
		Localized:        c.local,
		Remediation:      c.st.remediation.Clone(),
		Missed:           append([]quiz.Miss(nil), c.st.missed...),
		Turns:            c.st.transcript.Turns(),
		Result:           c.st.result,
		Complete:         c.st.complete,
		Progress:         c.progressLocked(),
		Preferences:      c.prefs,
	}
}

// Progress returns the loop position as a percentage.
func (c *Controller) Progress() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progressLocked()
}

// Current returns the active question in the test or reinforce phase.
func (c *Controller) Current() (quiz.Question, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentLocked()
}

// Summary returns the per-pass results.
func (c *Controller) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Summary{
		TestTotal:          len(c.display.Questions),
		TestCorrect:        c.st.testCorrect,
		Missed:             len(c.st.missed),
		RemediationTotal:   len(c.st.remediation),
		RemediationCorrect: c.st.remediationCorrect,
		Complete:           c.st.complete,
	}
}

// Preferences returns the current preferences.
func (c *Controller) Preferences() Preferences {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefs
}

// SetPreferences changes the display language or model. A language change
// re-localizes the loaded unit; question order and count are unchanged, so
// the loop position is kept.
func (c *Controller) SetPreferences(ctx context.Context, p Preferences) {
	c.cmd.Lock()
	defer c.cmd.Unlock()

	if p.Language == "" {
		p.Language = lang.Source
	}

	c.mu.Lock()
	old := c.prefs
	c.prefs = p
	loaded := c.loaded
	unit := c.unit
	c.mu.Unlock()

	c.persist(ctx, p)

	if !loaded || (lang.Same(old.Language, p.Language) && old.Model == p.Model) {
		return
	}
	display, local := c.localize(ctx, unit, p)

	c.mu.Lock()
	c.display = display
	c.local = local
	c.mu.Unlock()

	c.record(ctx, "preferences", map[string]any{"language": p.Language, "model": p.Model})
}

func (c *Controller) persist(ctx context.Context, p Preferences) {
	if c.prefRepo == nil {
		return
	}
	if err := c.prefRepo.Set(ctx, store.PrefLanguage, p.Language); err != nil {
		c.logger.Warn("save preference failed", "key", store.PrefLanguage, "error", err)
	}
	if p.Model != "" {
		if err := c.prefRepo.Set(ctx, store.PrefModel, p.Model); err != nil {
			c.logger.Warn("save preference failed", "key", store.PrefModel, "error", err)
		}
	}
}

func (c *Controller) localize(ctx context.Context, unit quiz.Unit, p Preferences) (quiz.Unit, bool) {
	if c.loc == nil || lang.Same(p.Language, sourceOf(unit)) {
		return unit.Clone(), false
	}
	return c.loc.Localize(ctx, unit, p.Language, p.Model)
}

func (c *Controller) sourceLanguage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return sourceOf(c.unit)
}

func sourceOf(u quiz.Unit) string {
	if u.Language == "" {
		return lang.Source
	}
	return u.Language
}

func (c *Controller) remediator(fallback quiz.Set) Remediator {
	if c.remedy != nil {
		return c.remedy
	}
	return remediation.New(c.gen,
		remediation.WithFallback(fallback),
		remediation.WithLogger(c.logger),
	)
}

// generate issues one request. The reply is empty and ok is false when the
// request failed.
func (c *Controller) generate(ctx context.Context, purpose, prompt string, maxTokens int, temp float64) (string, bool) {
	text, err := llm.Text(llm.WithPurpose(ctx, purpose), c.gen, llm.Request{
		Prompt:       prompt,
		MaxNewTokens: maxTokens,
		Temperature:  temp,
		Model:        c.Preferences().Model,
	})
	if err != nil {
		c.logger.Warn("generation failed, using fallback", "purpose", purpose, "error", err)
		return "", false
	}
	return text, true
}

// ask is generate with a fallback reply.
func (c *Controller) ask(ctx context.Context, purpose, prompt string, maxTokens int, temp float64, fallback string) string {
	text, ok := c.generate(ctx, purpose, prompt, maxTokens, temp)
	if !ok {
		return fallback
	}
	return cleanReply(text, fallback)
}

func (c *Controller) record(ctx context.Context, action string, detail map[string]any) {
	if c.recorder == nil {
		return
	}
	c.mu.Lock()
	data := store.SessionEventData{
		SessionID: c.st.sessionID,
		Action:    action,
		Phase:     c.st.phase.String(),
		Progress:  c.progressLocked(),
		Detail:    detail,
	}
	c.mu.Unlock()

	if err := c.recorder.AppendSessionEvent(ctx, data); err != nil {
		c.logger.Warn("record session event failed", "action", action, "error", err)
	}
}

func (c *Controller) requireLocked(phase Phase) error {
	if !c.loaded {
		return ErrNoContent
	}
	if c.st.phase != phase {
		return fmt.Errorf("%w: in %s, need %s", ErrWrongPhase, c.st.phase, phase)
	}
	return nil
}

func (c *Controller) currentLocked() (quiz.Question, bool) {
	switch c.st.phase {
	case PhaseTest:
		if c.st.testIndex < len(c.display.Questions) {
			return c.display.Questions[c.st.testIndex], true
		}
	case PhaseReinforce:
		if c.st.remediationIndex < len(c.st.remediation) {
			return c.st.remediation[c.st.remediationIndex], true
		}
	}
	return quiz.Question{}, false
}

func (c *Controller) progressLocked() int {
	switch c.st.phase {
	case PhaseTest:
		return progress(PhaseTest, 0, c.st.testIndex, len(c.display.Questions))
	case PhaseReinforce:
		return progress(PhaseReinforce, 0, c.st.remediationIndex, len(c.st.remediation))
	}
	return progress(c.st.phase, c.st.learnTurns, 0, 0)
}
