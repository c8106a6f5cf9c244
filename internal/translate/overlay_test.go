package translate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rlpro/rlpro/internal/llm"
	"github.com/rlpro/rlpro/internal/quiz"
)

// fakeTranslator answers every translation prompt with "<tag> <source>",
// where source is the text after the last ": " of the prompt.
type fakeTranslator struct {
	mu      sync.Mutex
	tag     string
	prompts []string
	fail    func(prompt string) bool
}

func (f *fakeTranslator) Generate(_ context.Context, req llm.Request) (*llm.Response, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, req.Prompt)
	f.mu.Unlock()

	if f.fail != nil && f.fail(req.Prompt) {
		return nil, &llm.ErrServer{StatusCode: 500, Body: "down"}
	}
	src := req.Prompt
	if i := strings.LastIndex(src, ": "); i >= 0 {
		src = src[i+2:]
	} else if i := strings.LastIndex(src, "\n"); i >= 0 {
		src = src[i+1:]
	}
	return &llm.Response{Text: f.tag + " " + src}, nil
}

func (f *fakeTranslator) ModelID() string { return "fake" }

func (f *fakeTranslator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func testUnit() quiz.Unit {
	return quiz.Unit{
		ID:       "u1",
		Title:    "Universal Grammar",
		Language: "English",
		Body:     "Children learn fast. Input is sparse! Is grammar innate?",
		Example:  "Deaf children create sign systems.",
		Prompts:  []string{"What convinces you?", "How else could it work?"},
		Questions: quiz.Set{
			{
				ID:      "q1",
				Kind:    quiz.SingleChoice,
				Prompt:  "Which view is pattern based?",
				Options: []string{"Usage-based", "Nativist"},
				Answer:  "Usage-based",
				Hint:    "Pick the pattern-based account.",
			},
			{
				ID:        "q2",
				Kind:      quiz.ShortAnswer,
				Prompt:    "Name one piece of evidence.",
				Answer:    "Critical period effects",
				Hint:      "Think about timing.",
				ForceFail: true,
			},
		},
	}
}

func TestApply_SourceLanguageClearsOverlay(t *testing.T) {
	f := &fakeTranslator{tag: "[zh]"}
	o := New(f)

	for _, language := range []string{"English", "english", ""} {
		if tr := o.Apply(t.Context(), testUnit(), language, ""); tr != nil {
			t.Errorf("Apply(%q) = %+v, want nil", language, tr)
		}
	}
	if f.calls() != 0 {
		t.Errorf("expected no requests, got %d", f.calls())
	}
}

func TestApply_TranslatesEveryStringPreservingOrder(t *testing.T) {
	f := &fakeTranslator{tag: "[zh]"}
	o := New(f)
	src := testUnit()

	tr := o.Apply(t.Context(), src, "Chinese", "qwen3-next")
	if tr == nil {
		t.Fatal("expected a translation")
	}
	u := tr.Unit

	if u.Title != "[zh] Universal Grammar" {
		t.Errorf("Title = %q", u.Title)
	}
	wantBody := "[zh] Children learn fast. [zh] Input is sparse! [zh] Is grammar innate?"
	if u.Body != wantBody {
		t.Errorf("Body = %q, want %q", u.Body, wantBody)
	}
	if u.Example != "[zh] Deaf children create sign systems." {
		t.Errorf("Example = %q", u.Example)
	}
	if len(u.Prompts) != 2 || u.Prompts[1] != "[zh] How else could it work?" {
		t.Errorf("Prompts = %v", u.Prompts)
	}
	if len(u.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(u.Questions))
	}

	q1 := u.Questions[0]
	if q1.ID != "q1" || q1.Kind != quiz.SingleChoice {
		t.Errorf("identity changed: %+v", q1)
	}
	if len(q1.Options) != 2 || q1.Options[0] != "[zh] Usage-based" {
		t.Errorf("Options = %v", q1.Options)
	}
	if q1.Answer != q1.Options[0] {
		t.Errorf("choice answer %q is not the translated option %q", q1.Answer, q1.Options[0])
	}
	q2 := u.Questions[1]
	if !q2.ForceFail || q2.Answer != "[zh] Critical period effects" || q2.Hint != "[zh] Think about timing." {
		t.Errorf("q2 = %+v", q2)
	}

	if len(tr.Labels) != len(LabelKeys) {
		t.Errorf("expected %d labels, got %d", len(LabelKeys), len(tr.Labels))
	}
	if got := tr.Labels.Get(LabelSubmit); got != "[zh] Submit" {
		t.Errorf("submit label = %q", got)
	}

	// Source unit is untouched.
	if src.Questions[0].Options[0] != "Usage-based" || src.Prompts[0] != "What convinces you?" {
		t.Error("Apply modified its input")
	}

	for _, p := range f.prompts {
		if !strings.HasPrefix(p, "Please reply in Chinese.\n") {
			t.Errorf("prompt without reply prefix: %q", p)
		}
	}
	if !strings.Contains(f.prompts[0], "Translate this title into Chinese: Universal Grammar") {
		t.Errorf("first request should translate the title, got %q", f.prompts[0])
	}
	if !strings.Contains(f.prompts[1], "Translate this sentence into Chinese. Keep meaning and tone; no added explanations.\nSentence: Children learn fast.") {
		t.Errorf("second request should translate the first sentence, got %q", f.prompts[1])
	}
}

func TestApply_MultipleAnswersFollowTranslatedOptions(t *testing.T) {
	f := &fakeTranslator{tag: "[fr]"}
	u := testUnit()
	u.Questions = quiz.Set{{
		ID:      "m1",
		Kind:    quiz.MultipleChoice,
		Prompt:  "Which are nativist claims?",
		Options: []string{"Innate grammar", "Pure imitation", "Sparse input"},
		Answer:  "Innate grammar; Sparse input",
	}}

	tr := New(f).Apply(t.Context(), u, "French", "")
	if tr == nil {
		t.Fatal("expected a translation")
	}
	q := tr.Unit.Questions[0]
	if q.Answer != "[fr] Innate grammar; [fr] Sparse input" {
		t.Errorf("Answer = %q", q.Answer)
	}
	if !quiz.Grade(q, quiz.Selection(q, []string{q.Options[2], q.Options[0]})) {
		t.Error("ticking the translated options should grade correct")
	}
	for _, p := range f.prompts {
		if strings.Contains(p, "Translate this answer") {
			t.Errorf("answer built from options should not be translated on its own: %q", p)
		}
	}
}

func TestApply_FailedStringsFallBackToSource(t *testing.T) {
	f := &fakeTranslator{
		tag: "[fr]",
		fail: func(p string) bool {
			return strings.Contains(p, "hint") || strings.Contains(p, "Input is sparse")
		},
	}
	tr := New(f).Apply(t.Context(), testUnit(), "French", "")
	if tr == nil {
		t.Fatal("expected a translation")
	}

	wantBody := "[fr] Children learn fast. Input is sparse! [fr] Is grammar innate?"
	if tr.Unit.Body != wantBody {
		t.Errorf("Body = %q, want %q", tr.Unit.Body, wantBody)
	}
	for i, q := range tr.Unit.Questions {
		if q.Hint != testUnit().Questions[i].Hint {
			t.Errorf("question %d hint = %q, want source text", i, q.Hint)
		}
	}
	if tr.Unit.Title != "[fr] Universal Grammar" {
		t.Errorf("Title = %q", tr.Unit.Title)
	}
}

func TestApply_EverythingFailsReturnsSourceStrings(t *testing.T) {
	failing := llm.ProviderFunc(func(context.Context, llm.Request) (*llm.Response, error) {
		return nil, errors.New("unreachable")
	})
	src := testUnit()
	tr := New(failing).Apply(t.Context(), src, "German", "")
	if tr == nil {
		t.Fatal("expected a translation value even when every request fails")
	}
	if tr.Unit.Title != src.Title || tr.Unit.Questions[1].Answer != src.Questions[1].Answer {
		t.Errorf("unexpected translated unit: %+v", tr.Unit)
	}
	if tr.Unit.Body != "Children learn fast. Input is sparse! Is grammar innate?" {
		t.Errorf("Body = %q", tr.Unit.Body)
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"One. Two! Three?", []string{"One.", "Two!", "Three?"}},
		{"  no boundary here  ", []string{"no boundary here"}},
		{"", nil},
	}
	for _, tc := range tests {
		got := SplitSentences(tc.in)
		if strings.Join(got, "|") != strings.Join(tc.want, "|") {
			t.Errorf("SplitSentences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResult(t *testing.T) {
	f := &fakeTranslator{tag: "[es]"}
	o := New(f)

	if got := o.Result(t.Context(), "Your answer: x - correct", "English", ""); got != "Your answer: x - correct" {
		t.Errorf("same-language Result = %q", got)
	}
	if f.calls() != 0 {
		t.Fatalf("expected no requests for the source language")
	}
	got := o.Result(t.Context(), "correct", "Spanish", "")
	if got != "[es] correct" {
		t.Errorf("Result = %q", got)
	}
	if !strings.Contains(f.prompts[0], "Translate this result into Spanish:\ncorrect") {
		t.Errorf("prompt = %q", f.prompts[0])
	}
}

func TestLabels_OverridesAndDefaults(t *testing.T) {
	o := New(&fakeTranslator{tag: "[ko]"}, WithLabels(Labels{LabelHeading: "Immersive"}))

	src := o.Labels(t.Context(), "English", "")
	if src.Get(LabelHeading) != "Immersive" || src.Get(LabelSubmit) != "Submit" {
		t.Errorf("source labels = %v", src)
	}
	ko := o.Labels(t.Context(), "Korean", "")
	if ko.Get(LabelHeading) != "[ko] Immersive" {
		t.Errorf("heading = %q", ko.Get(LabelHeading))
	}

	var empty Labels
	if empty.Get(LabelRestart) != "Restart Loop" {
		t.Error("Get on empty labels should return the default")
	}
}
