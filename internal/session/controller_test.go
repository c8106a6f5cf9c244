package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rlpro/rlpro/internal/chat"
	"github.com/rlpro/rlpro/internal/llm"
	"github.com/rlpro/rlpro/internal/quiz"
	"github.com/rlpro/rlpro/internal/store"
)

func testUnit() quiz.Unit {
	return quiz.Unit{
		ID:       "unit-1",
		Title:    "Innateness",
		Language: "English",
		Body:     "Children acquire grammar quickly. Input is sparse.",
		Example:  "Deaf children create sign systems.",
		Prompts:  []string{"What would convince you?"},
		Questions: quiz.Set{
			{ID: "q1", Kind: quiz.SingleChoice, Prompt: "Pick B", Options: []string{"A", "B", "C", "D"}, Answer: "B", Hint: "Not A."},
			{ID: "q2", Kind: quiz.ShortAnswer, Prompt: "Why is learning fast?", Answer: "rapid grammar learning", Hint: "Think about speed."},
			{ID: "q3", Kind: quiz.SingleChoice, Prompt: "Pick usage", Options: []string{"usage", "nativist"}, Answer: "usage", Hint: "Patterns."},
		},
	}
}

func newTestController(t *testing.T, mock *llm.MockProvider, opts ...Option) *Controller {
	t.Helper()
	opts = append([]Option{WithSessionID("test-session")}, opts...)
	c := New(DefaultConfig(), mock, StaticSource(testUnit()), nil, opts...)
	if err := c.Start(t.Context()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return c
}

// toTest reflects twice, consuming two queued replies.
func toTest(t *testing.T, c *Controller) {
	t.Helper()
	for i := 0; i < 2; i++ {
		if err := c.Reflect(t.Context(), "a thought"); err != nil {
			t.Fatalf("Reflect %d: %v", i, err)
		}
	}
	if got := c.State().Phase; got != PhaseTest {
		t.Fatalf("phase = %s, want test", got)
	}
}

func TestStart_OpeningTurn(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "What surprises you about fast learning?"})
	c := newTestController(t, mock)

	s := c.State()
	if s.Phase != PhaseLearn || s.SessionID != "test-session" {
		t.Fatalf("unexpected state after start: %+v", s)
	}
	if len(s.Turns) != 1 || s.Turns[0].Role != chat.Tutor || s.Turns[0].Text != "What surprises you about fast learning?" {
		t.Errorf("turns = %+v", s.Turns)
	}
	req := mock.Calls[0]
	if req.MaxNewTokens != 120 || req.Temperature != 0.25 {
		t.Errorf("opening params = %+v", req)
	}
	if !strings.Contains(req.Prompt, `"Innateness"`) {
		t.Errorf("opening prompt should name the unit: %q", req.Prompt)
	}
}

func TestStart_OpeningFallback(t *testing.T) {
	c := newTestController(t, llm.NewMockProvider())

	turns := c.State().Turns
	if len(turns) != 1 || turns[0].Text != openingFallback {
		t.Errorf("turns = %+v", turns)
	}
}

func TestStart_SourceFailure(t *testing.T) {
	boom := errors.New("backend down")
	src := SourceFunc(func(context.Context) (quiz.Unit, error) { return quiz.Unit{}, boom })
	c := New(DefaultConfig(), llm.NewMockProvider(), src, nil)

	err := c.Start(t.Context())
	if !errors.Is(err, boom) {
		t.Fatalf("Start error = %v, want wrapped %v", err, boom)
	}
	if err := c.Reflect(t.Context(), "x"); !errors.Is(err, ErrNoContent) {
		t.Errorf("Reflect before a successful start = %v, want ErrNoContent", err)
	}
}

func TestStart_EmptyUnit(t *testing.T) {
	c := New(DefaultConfig(), llm.NewMockProvider(), StaticSource(quiz.Unit{ID: "empty"}), nil)
	if err := c.Start(t.Context()); !errors.Is(err, ErrNoContent) {
		t.Errorf("Start = %v, want ErrNoContent", err)
	}
}

func TestReflect_ThresholdUnlocksTest(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddText("opening", "ack one", "ack two")
	c := newTestController(t, mock)

	if err := c.Reflect(t.Context(), "first"); err != nil {
		t.Fatal(err)
	}
	s := c.State()
	if s.Phase != PhaseLearn || s.LearnTurns != 1 || s.Progress != 20 {
		t.Fatalf("after one reflection: phase=%s turns=%d progress=%d", s.Phase, s.LearnTurns, s.Progress)
	}

	if err := c.Reflect(t.Context(), ""); err != nil {
		t.Fatal(err)
	}
	s = c.State()
	if s.Phase != PhaseTest || s.TestIndex != 0 || len(s.Missed) != 0 {
		t.Fatalf("after two reflections: %+v", s)
	}
	if s.Progress != 67 {
		t.Errorf("progress = %d, want 67", s.Progress)
	}

	turns := s.Turns
	if turns[len(turns)-2].Text != noInput {
		t.Errorf("blank reflection should be recorded as %q, got %q", noInput, turns[len(turns)-2].Text)
	}
	// A blank reflection sends the learning note instead.
	if !strings.HasSuffix(mock.Calls[2].Prompt, "Text:\n"+testUnit().Body) {
		t.Errorf("reflect prompt = %q", mock.Calls[2].Prompt)
	}
}

func TestReflect_WrongPhase(t *testing.T) {
	c := newTestController(t, llm.NewMockProvider())
	toTest(t, c)

	err := c.Reflect(t.Context(), "late thought")
	if !errors.Is(err, ErrWrongPhase) {
		t.Errorf("Reflect in test = %v, want ErrWrongPhase", err)
	}
	if err := c.Restart(t.Context()); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("Restart in test = %v, want ErrWrongPhase", err)
	}
	if _, err := New(DefaultConfig(), nil, StaticSource(testUnit()), nil).Submit(t.Context(), "B"); !errors.Is(err, ErrNoContent) {
		t.Errorf("Submit before start = %v, want ErrNoContent", err)
	}
}

func TestSubmit_InLearnPhase(t *testing.T) {
	c := newTestController(t, llm.NewMockProvider())
	if _, err := c.Submit(t.Context(), "B"); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("Submit in learn = %v, want ErrWrongPhase", err)
	}
}

func TestSubmit_EmptyInputRejectedLocally(t *testing.T) {
	mock := llm.NewMockProvider()
	c := newTestController(t, mock)
	toTest(t, c)
	before := mock.CallCount()

	for _, in := range []string{"", "   ", "\n\t"} {
		if _, err := c.Submit(t.Context(), in); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Submit(%q) = %v, want ErrEmptyInput", in, err)
		}
	}
	if mock.CallCount() != before {
		t.Errorf("empty input issued %d requests", mock.CallCount()-before)
	}
	if s := c.State(); s.TestIndex != 0 || s.Phase != PhaseTest {
		t.Errorf("empty input changed state: %+v", s)
	}
}

func TestSubmit_ChoiceGradingIsCaseSensitive(t *testing.T) {
	c := newTestController(t, llm.NewMockProvider())
	toTest(t, c)

	v, err := c.Submit(t.Context(), "b")
	if err != nil {
		t.Fatal(err)
	}
	if v.Correct {
		t.Error(`"b" should not match "B"`)
	}
	if v.Result != "Your answer: b → incorrect" {
		t.Errorf("Result = %q", v.Result)
	}
	if got := c.State().Missed; len(got) != 1 || got[0].Submitted != "b" {
		t.Errorf("missed = %+v", got)
	}
}

func TestSubmit_CoachFailureFallsBackToHint(t *testing.T) {
	mock := llm.NewMockProvider()
	c := newTestController(t, mock)
	toTest(t, c)

	before := len(c.State().Turns)
	mock.AddResponse(llm.MockResponse{Err: &llm.ErrServer{StatusCode: 500, Body: "overloaded"}})

	v, err := c.Submit(t.Context(), "B")
	if err != nil {
		t.Fatal(err)
	}
	if !v.Correct || v.Phase != PhaseTest {
		t.Errorf("verdict = %+v", v)
	}

	turns := c.State().Turns[before:]
	var tutor []chat.Turn
	for _, turn := range turns {
		if turn.Role == chat.Tutor {
			tutor = append(tutor, turn)
		}
	}
	if len(tutor) != 1 || tutor[0].Text != "Hint: Not A." {
		t.Errorf("tutor turns = %+v, want exactly the hint", tutor)
	}
	if turns[0].Role != chat.Learner || turns[0].Text != "Pick B :: B" {
		t.Errorf("learner turn = %+v", turns[0])
	}
	if c.State().TestIndex != 1 {
		t.Errorf("TestIndex = %d, want 1", c.State().TestIndex)
	}
}

func TestSubmit_CoachPromptEmbedsContext(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddText("opening", "r1", "r2", "Good try. Which option fits?")
	c := newTestController(t, mock)
	toTest(t, c)

	if _, err := c.Submit(t.Context(), "A"); err != nil {
		t.Fatal(err)
	}
	req := mock.Calls[len(mock.Calls)-1]
	for _, want := range []string{
		"Recent turns:\n",
		"TUTOR: r2",
		"Question: Pick B\n",
		"Expected: B\n",
		"User answer: A\n",
		"Result: incorrect.",
	} {
		if !strings.Contains(req.Prompt, want) {
			t.Errorf("coach prompt missing %q:\n%s", want, req.Prompt)
		}
	}
	if strings.Contains(req.Prompt, "TUTOR: opening") {
		t.Error("coach prompt should only carry the last 4 turns")
	}
	if req.MaxNewTokens != 180 || req.Temperature != 0.2 {
		t.Errorf("coach params = %+v", req)
	}
	if last := c.State().Turns; last[len(last)-1].Text != "Good try. Which option fits?" {
		t.Errorf("coach reply not appended: %+v", last[len(last)-1])
	}
}

func TestSubmit_ForceFailSubstitutesWrongAnswer(t *testing.T) {
	u := testUnit()
	u.Questions[0].ForceFail = true
	c := New(DefaultConfig(), llm.NewMockProvider(), StaticSource(u), nil)
	if err := c.Start(t.Context()); err != nil {
		t.Fatal(err)
	}
	toTest(t, c)

	v, err := c.Submit(t.Context(), "")
	if err != nil {
		t.Fatalf("blank answer on a force-fail question: %v", err)
	}
	if v.Correct || v.Submitted != quiz.WrongAnswer {
		t.Errorf("verdict = %+v", v)
	}
	if _, err := c.Submit(t.Context(), "B"); err != nil {
		t.Fatal(err)
	}
	if missed := c.State().Missed; missed[0].Submitted != quiz.WrongAnswer {
		t.Errorf("missed = %+v", missed)
	}
}

func TestSubmit_AllCorrectGoesToDone(t *testing.T) {
	mock := llm.NewMockProvider()
	c := newTestController(t, mock)
	toTest(t, c)

	for _, ans := range []string{"B", "It is RAPID", "usage"} {
		if _, err := c.Submit(t.Context(), ans); err != nil {
			t.Fatal(err)
		}
	}
	s := c.State()
	if s.Phase != PhaseDone || !s.Complete || s.Progress != 100 {
		t.Errorf("state = phase %s complete %v progress %d", s.Phase, s.Complete, s.Progress)
	}
	if sum := c.Summary(); sum.TestCorrect != 3 || sum.TestAccuracy() != 1 {
		t.Errorf("summary = %+v", sum)
	}
}

const followUpChoice = `[{"id":"f1","card_type":"single_choice","question":"Which account uses patterns?","options":["usage","nativist","behaviourist","motor"],"answer":"usage"}]`

const followUpShort = `{"id":"fs","card_type":"short_answer","question":"Give one example of overgeneralisation.","answer":"goed instead of went"}`

func TestEndToEnd(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddText("opening", "ack 1", "ack 2", "coach 1", "coach 2", "coach 3")
	mock.AddText(followUpChoice, followUpChoice, followUpShort)

	rec := &recordingRecorder{}
	c := newTestController(t, mock, WithRecorder(rec))

	toTest(t, c)

	answers := []struct {
		in      string
		correct bool
	}{
		{"A", false},
		{"rapid, I think", true},
		{"nativist", false},
	}
	for i, a := range answers {
		v, err := c.Submit(t.Context(), a.in)
		if err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
		if v.Correct != a.correct {
			t.Errorf("answer %d correct = %v, want %v", i, v.Correct, a.correct)
		}
	}

	s := c.State()
	if len(s.Missed) != 2 {
		t.Fatalf("missed = %d, want 2", len(s.Missed))
	}
	if s.Missed[0].Question.ID != "q1" || s.Missed[1].Question.ID != "q3" {
		t.Errorf("missed order = %s, %s", s.Missed[0].Question.ID, s.Missed[1].Question.ID)
	}
	if s.Phase != PhaseReinforce || s.RemediationIndex != 0 {
		t.Fatalf("phase = %s index = %d, want reinforce 0", s.Phase, s.RemediationIndex)
	}
	if len(s.Remediation) < 2 {
		t.Fatalf("remediation set has %d items, want at least 2", len(s.Remediation))
	}
	if s.Complete {
		t.Error("loop should not be complete yet")
	}

	for i := range s.Remediation {
		q, ok := c.Current()
		if !ok {
			t.Fatalf("no active remediation question at %d", i)
		}
		if _, err := c.Submit(t.Context(), q.Answer); err != nil {
			t.Fatalf("remediation %d: %v", i, err)
		}
	}

	s = c.State()
	if s.Phase != PhaseDone || !s.Complete || s.Progress != 100 {
		t.Fatalf("final state: phase %s complete %v progress %d", s.Phase, s.Complete, s.Progress)
	}
	if mock.Pending() != 0 {
		t.Errorf("%d queued replies unused", mock.Pending())
	}
	sum := c.Summary()
	if sum.TestCorrect != 1 || sum.Missed != 2 || sum.RemediationCorrect != len(s.Remediation) {
		t.Errorf("summary = %+v", sum)
	}

	if err := c.Restart(t.Context()); err != nil {
		t.Fatal(err)
	}
	s = c.State()
	if s.Phase != PhaseLearn || s.Complete || len(s.Missed) != 0 || len(s.Remediation) != 0 || s.LearnTurns != 0 {
		t.Errorf("restart did not clear state: %+v", s)
	}
	if last := s.Turns[len(s.Turns)-1]; last.Text != restartMessage {
		t.Errorf("last turn = %q", last.Text)
	}

	actions := rec.actions()
	want := []string{"start", "reflect", "reflect", "submit", "submit", "submit"}
	for i, a := range want {
		if actions[i] != a {
			t.Fatalf("actions = %v, want prefix %v", actions, want)
		}
	}
	if actions[len(actions)-1] != "restart" {
		t.Errorf("last action = %q", actions[len(actions)-1])
	}
}

func TestReinforce_FeedbackTurns(t *testing.T) {
	set := quiz.Set{
		{ID: "r1", Kind: quiz.SingleChoice, Prompt: "One?", Options: []string{"x", "y"}, Answer: "x"},
		{ID: "r2", Kind: quiz.ShortAnswer, Prompt: "Two?", Answer: "because"},
	}
	c := newTestController(t, llm.NewMockProvider(), WithRemediator(fixedRemediator(set)))
	toTest(t, c)
	for _, a := range []string{"A", "slow", "nativist"} {
		if _, err := c.Submit(t.Context(), a); err != nil {
			t.Fatal(err)
		}
	}
	if c.State().Phase != PhaseReinforce {
		t.Fatalf("phase = %s", c.State().Phase)
	}
	if p := c.Progress(); p != 90 {
		t.Errorf("progress = %d, want 90", p)
	}

	if _, err := c.Submit(t.Context(), " "); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("blank remediation answer = %v", err)
	}
	v, _ := c.Submit(t.Context(), "y")
	if v.Correct || v.Phase != PhaseReinforce {
		t.Errorf("verdict = %+v", v)
	}
	turns := c.State().Turns
	if turns[len(turns)-2].Text != "Follow-up: One? :: y" || turns[len(turns)-1].Text != "Expected: x" {
		t.Errorf("feedback turns = %+v", turns[len(turns)-2:])
	}

	v, _ = c.Submit(t.Context(), "Because it is")
	if !v.Correct || v.Phase != PhaseDone {
		t.Errorf("verdict = %+v", v)
	}
	if last := c.State().Turns; last[len(last)-1].Text != "Correct!" {
		t.Errorf("last turn = %+v", last[len(last)-1])
	}
}

func TestPhaseMonotonicity(t *testing.T) {
	allowed := map[[2]Phase]bool{
		{PhaseLearn, PhaseLearn}:         true,
		{PhaseLearn, PhaseTest}:          true,
		{PhaseTest, PhaseTest}:           true,
		{PhaseTest, PhaseReinforce}:      true,
		{PhaseTest, PhaseDone}:           true,
		{PhaseReinforce, PhaseReinforce}: true,
		{PhaseReinforce, PhaseDone}:      true,
		{PhaseDone, PhaseDone}:           true,
	}

	// Every request fails, so every path runs on fallbacks.
	c := newTestController(t, llm.NewMockProvider())
	ctx := t.Context()

	ops := []func() error{
		func() error { return c.Reflect(ctx, "r") },
		func() error { _, err := c.Submit(ctx, "A"); return err },
		func() error { _, err := c.Submit(ctx, "rapid"); return err },
		func() error { return c.Chat(ctx, "why?") },
		func() error { return c.AskSelection(ctx, "Input is sparse.") },
		func() error { _, err := c.Submit(ctx, ""); return err },
	}

	prev := c.State().Phase
	for i := 0; i < 200; i++ {
		_ = ops[(i*7+i/3)%len(ops)]()
		cur := c.State().Phase
		if !allowed[[2]Phase{prev, cur}] {
			t.Fatalf("step %d: illegal transition %s -> %s", i, prev, cur)
		}
		if cur == PhaseDone {
			if err := c.Restart(ctx); err != nil {
				t.Fatalf("restart: %v", err)
			}
			cur = c.State().Phase
			if cur != PhaseLearn {
				t.Fatalf("restart led to %s", cur)
			}
		}
		prev = cur
	}
}

func TestSideChannelsKeepPhase(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddText("opening", "You are a co-learning tutor. Here is an insight. What next?")
	c := newTestController(t, mock)
	ctx := t.Context()

	if err := c.Chat(ctx, "   "); err != nil {
		t.Fatal(err)
	}
	if n := len(c.State().Turns); n != 1 {
		t.Errorf("blank chat appended turns: %d", n)
	}

	if err := c.Chat(ctx, "Is this about babies?"); err != nil {
		t.Fatal(err)
	}
	turns := c.State().Turns
	if turns[1].Role != chat.Learner || turns[2].Text != "Here is an insight. What next?" {
		t.Errorf("chat turns = %+v", turns[1:])
	}

	// The queue is now empty: selection falls back.
	if err := c.AskSelection(ctx, ""); err != nil {
		t.Fatal(err)
	}
	turns = c.State().Turns
	if turns[len(turns)-1].Text != selectionFallback {
		t.Errorf("selection fallback = %q", turns[len(turns)-1].Text)
	}
	if !strings.Contains(mock.Calls[2].Prompt, "The learner selected this text:\n"+testUnit().Body) {
		t.Errorf("blank selection should send the note: %q", mock.Calls[2].Prompt)
	}

	mock.AddText("Look at the second sentence. Why sparse?")
	if err := c.AskSelection(ctx, "Input is sparse."); err != nil {
		t.Fatal(err)
	}
	turns = c.State().Turns
	if turns[len(turns)-2].Text != "Look at the second sentence. Why sparse?" || turns[len(turns)-1].Text != selectionFollowUp {
		t.Errorf("selection turns = %+v", turns[len(turns)-2:])
	}

	if c.State().Phase != PhaseLearn || c.State().LearnTurns != 0 {
		t.Errorf("side channels changed the loop: %+v", c.State())
	}
}

func TestPreferences_LocalizeAndPersist(t *testing.T) {
	loc := &prefixLocalizer{tag: "[zh]"}
	prefs := &memPrefs{}
	mock := llm.NewMockProvider()
	c := New(DefaultConfig(), mock, StaticSource(testUnit()), loc, WithPreferenceStore(prefs))
	if err := c.Start(t.Context()); err != nil {
		t.Fatal(err)
	}
	if c.State().Localized {
		t.Fatal("source language should not be localized")
	}

	c.SetPreferences(t.Context(), Preferences{Language: "Chinese", Model: "qwen3-4b-cpu"})
	s := c.State()
	if !s.Localized || s.Unit.Title != "[zh] Innateness" {
		t.Fatalf("unit not localized: %+v", s.Unit)
	}
	if prefs.get(store.PrefLanguage) != "Chinese" || prefs.get(store.PrefModel) != "qwen3-4b-cpu" {
		t.Errorf("preferences not persisted: %v", prefs.values)
	}

	toTest(t, c)
	q, _ := c.Current()
	if q.Prompt != "[zh] Pick B" {
		t.Errorf("active question not localized: %q", q.Prompt)
	}
	v, _ := c.Submit(t.Context(), "[zh] B")
	if !v.Correct {
		t.Error("localized answer should grade against the localized question")
	}
	if v.Result != "[zh] Your answer: [zh] B → correct" {
		t.Errorf("Result = %q", v.Result)
	}
	for _, req := range mock.Calls[1:] {
		if !strings.HasPrefix(req.Prompt, "Please reply in Chinese.\n") || req.Model != "qwen3-4b-cpu" {
			t.Errorf("request not in display language: %q model %q", req.Prompt[:30], req.Model)
		}
	}

	c.SetPreferences(t.Context(), Preferences{Language: "English", Model: "qwen3-4b-cpu"})
	s = c.State()
	if s.Localized || s.Unit.Title != "Innateness" {
		t.Errorf("switching back should clear the overlay: %+v", s.Unit.Title)
	}
	if s.TestIndex != 1 || s.Phase != PhaseTest {
		t.Errorf("language switch moved the loop: phase %s index %d", s.Phase, s.TestIndex)
	}
}

func TestRecorderFailureIgnored(t *testing.T) {
	rec := &recordingRecorder{err: errors.New("disk full")}
	c := newTestController(t, llm.NewMockProvider(), WithRecorder(rec))
	if err := c.Reflect(t.Context(), "x"); err != nil {
		t.Fatalf("recorder failure surfaced: %v", err)
	}
	if len(rec.actions()) != 2 {
		t.Errorf("actions = %v", rec.actions())
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		phase      Phase
		turns, idx int
		n          int
		want       int
	}{
		{PhaseLearn, 0, 0, 0, 0},
		{PhaseLearn, 1, 0, 0, 20},
		{PhaseLearn, 5, 0, 0, 60},
		{PhaseTest, 0, 0, 3, 67},
		{PhaseTest, 0, 1, 3, 73},
		{PhaseTest, 0, 2, 3, 80},
		{PhaseReinforce, 0, 0, 3, 87},
		{PhaseReinforce, 0, 0, 2, 90},
		{PhaseReinforce, 0, 0, 0, 100},
		{PhaseDone, 0, 0, 0, 100},
	}
	for _, tc := range tests {
		if got := progress(tc.phase, tc.turns, tc.idx, tc.n); got != tc.want {
			t.Errorf("progress(%s, %d, %d, %d) = %d, want %d", tc.phase, tc.turns, tc.idx, tc.n, got, tc.want)
		}
	}
}

func TestCleanReply(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"You are a co-learning tutor. Think again.", "Think again."},
		{"you are a colearning tutor", "fb"},
		{"  plain  ", "plain"},
		{"", "fb"},
	}
	for _, tc := range tests {
		if got := cleanReply(tc.in, "fb"); got != tc.want {
			t.Errorf("cleanReply(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// --- fakes ---

type recordingRecorder struct {
	mu     sync.Mutex
	events []store.SessionEventData
	err    error
}

func (r *recordingRecorder) AppendSessionEvent(_ context.Context, data store.SessionEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return r.err
}

func (r *recordingRecorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Action
	}
	return out
}

type fixedRemediator quiz.Set

func (f fixedRemediator) Generate(context.Context, []quiz.Miss, string, string) quiz.Set {
	return quiz.Set(f).Clone()
}

type prefixLocalizer struct{ tag string }

func (p *prefixLocalizer) Localize(_ context.Context, u quiz.Unit, _, _ string) (quiz.Unit, bool) {
	out := u.Clone()
	out.Title = p.tag + " " + u.Title
	for i, q := range out.Questions {
		q.Prompt = p.tag + " " + q.Prompt
		for j, o := range q.Options {
			q.Options[j] = p.tag + " " + o
		}
		q.Answer = p.tag + " " + q.Answer
		out.Questions[i] = q
	}
	return out, true
}

func (p *prefixLocalizer) Result(_ context.Context, text, _, _ string) string {
	return p.tag + " " + text
}

type memPrefs struct {
	mu     sync.Mutex
	values map[string]string
}

func (m *memPrefs) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

func (m *memPrefs) get(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key]
}
