// Package translate renders a content unit and the interface labels in a
// display language by re-requesting every string through the LLM client.
package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/clipperhouse/uax29/v2/sentences"

	"github.com/rlpro/rlpro/internal/lang"
	"github.com/rlpro/rlpro/internal/llm"
	"github.com/rlpro/rlpro/internal/quiz"
)

// Translation is a unit and label set rendered in one display language.
type Translation struct {
	Language string
	Unit     quiz.Unit
	Labels   Labels
}

// Overlay translates display strings one request at a time. A failed
// request leaves that string in the source language; Overlay never
// returns an error.
type Overlay struct {
	provider llm.Provider
	labels   Labels
	logger   *slog.Logger
}

// Option configures an Overlay.
type Option func(*Overlay)

// WithLabels sets the source-language labels to translate.
func WithLabels(l Labels) Option {
	return func(o *Overlay) { o.labels = DefaultLabels().Merge(l) }
}

// WithLogger sets the logger used for fallback substitutions.
func WithLogger(l *slog.Logger) Option {
	return func(o *Overlay) { o.logger = l }
}

// New creates an Overlay.
func New(provider llm.Provider, opts ...Option) *Overlay {
	o := &Overlay{
		provider: provider,
		labels:   DefaultLabels(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SourceLabels returns the untranslated labels.
func (o *Overlay) SourceLabels() Labels {
	return o.labels.Merge(nil)
}

// Apply translates u into language. It returns nil when language is the
// unit's source language. Requests are issued sequentially: title, body
// sentences, example, prompts, questions, then labels.
func (o *Overlay) Apply(ctx context.Context, u quiz.Unit, language, model string) *Translation {
	if isSource(u, language) {
		return nil
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeTranslate)

	out := u.Clone()
	out.Language = language
	out.Title = o.one(ctx, "title", u.Title, language, model, 120, 0.2)
	out.Body = o.Sentences(ctx, u.Body, language, model)
	out.Example = o.one(ctx, "example", u.Example, language, model, 120, 0.2)
	for i, p := range u.Prompts {
		out.Prompts[i] = o.one(ctx, "prompt", p, language, model, 120, 0.2)
	}
	for i, q := range u.Questions {
		out.Questions[i] = o.question(ctx, q, language, model)
	}

	return &Translation{
		Language: language,
		Unit:     out,
		Labels:   o.Labels(ctx, language, model),
	}
}

// Sentences splits text into sentences, translates each independently and
// joins the results with single spaces.
func (o *Overlay) Sentences(ctx context.Context, text, language, model string) string {
	parts := SplitSentences(text)
	out := make([]string, len(parts))
	for i, s := range parts {
		prompt := lang.ReplyPrefix(language) +
			fmt.Sprintf("Translate this sentence into %s. Keep meaning and tone; no added explanations.\nSentence: %s", language, s)
		out[i] = o.request(ctx, prompt, s, model, 200, 0.2)
	}
	return strings.Join(out, " ")
}

// Labels translates the overlay's label set, keeping any label whose
// request fails.
func (o *Overlay) Labels(ctx context.Context, language, model string) Labels {
	if language == "" || lang.Same(language, lang.Source) {
		return o.SourceLabels()
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeTranslate)

	out := make(Labels, len(o.labels))
	for _, key := range LabelKeys {
		src := o.labels.Get(key)
		prompt := lang.ReplyPrefix(language) +
			fmt.Sprintf("Translate this UI label concisely into %s: %s", language, src)
		out[key] = o.request(ctx, prompt, src, model, 80, 0.1)
	}
	return out
}

// Result translates a one-off status line such as a grading verdict.
func (o *Overlay) Result(ctx context.Context, text, language, model string) string {
	if text == "" || language == "" || lang.Same(language, lang.Source) {
		return text
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeTranslate)
	prompt := lang.ReplyPrefix(language) + fmt.Sprintf("Translate this result into %s:\n%s", language, text)
	return o.request(ctx, prompt, text, model, 100, 0.2)
}

func (o *Overlay) question(ctx context.Context, q quiz.Question, language, model string) quiz.Question {
	out := q
	out.Prompt = o.one(ctx, "question", q.Prompt, language, model, 160, 0.2)

	if q.Kind.IsChoice() {
		out.Options = make([]string, len(q.Options))
		for i, opt := range q.Options {
			out.Options[i] = o.one(ctx, "option", opt, language, model, 80, 0.2)
		}
		// A choice answer must stay built from the displayed options or it
		// could never be graded correct.
		if idx, ok := quiz.AnswerIndexes(q); ok {
			parts := make([]string, len(idx))
			for j, i := range idx {
				parts[j] = out.Options[i]
			}
			out.Answer = quiz.JoinChoices(q.Answer, parts)
		} else {
			out.Answer = o.one(ctx, "answer", q.Answer, language, model, 100, 0.2)
		}
	} else {
		out.Answer = o.one(ctx, "answer", q.Answer, language, model, 140, 0.2)
	}

	out.Hint = o.one(ctx, "hint", q.Hint, language, model, 120, 0.2)
	return out
}

// one translates a single labelled string ("title", "hint", ...).
func (o *Overlay) one(ctx context.Context, what, text, language, model string, maxTokens int, temp float64) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	prompt := lang.ReplyPrefix(language) + fmt.Sprintf("Translate this %s into %s: %s", what, language, text)
	return o.request(ctx, prompt, text, model, maxTokens, temp)
}

func (o *Overlay) request(ctx context.Context, prompt, source, model string, maxTokens int, temp float64) string {
	text, err := llm.Text(ctx, o.provider, llm.Request{
		Prompt:       prompt,
		MaxNewTokens: maxTokens,
		Temperature:  temp,
		Model:        model,
	})
	if err != nil {
		o.logger.Warn("translation fallback", "purpose", llm.PurposeFrom(ctx), "error", err)
		return source
	}
	if text == "" {
		return source
	}
	return text
}

// SplitSentences segments text with Unicode sentence boundaries, dropping
// empty segments. Text without any boundary is returned whole.
func SplitSentences(text string) []string {
	var out []string
	seg := sentences.FromString(text)
	for seg.Next() {
		if s := strings.TrimSpace(seg.Value()); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		if s := strings.TrimSpace(text); s != "" {
			out = []string{s}
		}
	}
	return out
}

func isSource(u quiz.Unit, language string) bool {
	src := u.Language
	if src == "" {
		src = lang.Source
	}
	return language == "" || lang.Same(language, src)
}
