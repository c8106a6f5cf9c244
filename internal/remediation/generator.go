// Package remediation generates follow-up questions for the items a learner
// missed in the test phase.
package remediation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rlpro/rlpro/internal/llm"
	"github.com/rlpro/rlpro/internal/quiz"
)

// Generator produces a remediation set from a list of misses. Generation is
// best effort per item: a failed or unparsable reply is replaced by a
// placeholder question, so Generate never fails.
type Generator struct {
	provider llm.Provider
	cfg      Config
	fallback quiz.Set
	logger   *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithConfig overrides the generation parameters.
func WithConfig(cfg Config) Option {
	return func(g *Generator) { g.cfg = cfg }
}

// WithFallback sets the set returned when generation is interrupted.
func WithFallback(set quiz.Set) Option {
	return func(g *Generator) {
		if len(set) > 0 {
			g.fallback = set.Clone()
		}
	}
}

// WithLogger sets the logger used for fallback substitutions.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// New creates a Generator.
func New(provider llm.Provider, opts ...Option) *Generator {
	g := &Generator{
		provider: provider,
		cfg:      DefaultConfig(),
		fallback: DefaultFallback(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate issues one choice-question request per miss, in order, followed
// by a single short-answer request summarizing all misses. Each failed item
// is replaced by a placeholder, so a run where every request fails still
// yields one item per miss plus the short answer. Requests are sequential.
// If ctx is cancelled part way the remaining requests are skipped and the
// fallback set is returned.
func (g *Generator) Generate(ctx context.Context, misses []quiz.Miss, language, model string) quiz.Set {
	if len(misses) == 0 {
		return nil
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeRemediation)

	out := make(quiz.Set, 0, len(misses)+1)
	for i, m := range misses {
		if ctx.Err() != nil {
			return g.abandon(ctx, len(misses))
		}
		d := quiz.Defaults{ID: fmt.Sprintf("adhoc_choice_%d", i+1), Kind: quiz.SingleChoice}
		res := g.ask(ctx, buildChoicePrompt(m, language), model, d)
		switch res.Outcome {
		case quiz.Ok:
			q := res.Question
			q.Hint = ""
			out = append(out, q)
		case quiz.Malformed:
			g.logger.Warn("remediation choice fallback", "index", i, "reason", res.Reason)
			out = append(out, placeholderChoice(i))
		}
	}

	if ctx.Err() != nil {
		return g.abandon(ctx, len(misses))
	}
	d := quiz.Defaults{ID: "adhoc_short_1", Kind: quiz.ShortAnswer}
	res := g.ask(ctx, buildShortPrompt(misses, language), model, d)
	switch res.Outcome {
	case quiz.Ok:
		q := res.Question
		q.Hint = ""
		out = append(out, q)
	case quiz.Malformed:
		g.logger.Warn("remediation short answer fallback", "reason", res.Reason)
		out = append(out, placeholderShort())
	}

	return out
}

func (g *Generator) abandon(ctx context.Context, misses int) quiz.Set {
	g.logger.Warn("remediation interrupted, using fallback set", "misses", misses, "err", ctx.Err())
	return g.fallback.Clone()
}

// ask sends one generation request and parses the reply. A transport error
// is reported as a Malformed result.
func (g *Generator) ask(ctx context.Context, prompt, model string, d quiz.Defaults) quiz.Result {
	text, err := llm.Text(ctx, g.provider, llm.Request{
		Prompt:       prompt,
		MaxNewTokens: g.cfg.MaxNewTokens,
		Temperature:  g.cfg.Temperature,
		TopP:         g.cfg.TopP,
		Model:        model,
	})
	if err != nil {
		return quiz.Result{Outcome: quiz.Malformed, Reason: err.Error()}
	}
	return quiz.Parse(text, d)
}
