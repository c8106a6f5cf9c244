package session

import (
	"context"
	"errors"

	"github.com/rlpro/rlpro/internal/quiz"
	"github.com/rlpro/rlpro/internal/store"
)

var (
	// ErrEmptyInput is returned when a blank answer is submitted for a
	// question that needs one. No request is made.
	ErrEmptyInput = errors.New("empty answer")

	// ErrWrongPhase is returned when an operation is not valid in the
	// current phase.
	ErrWrongPhase = errors.New("operation not valid in current phase")

	// ErrNoContent is returned when the loop has no unit to work on.
	ErrNoContent = errors.New("no learning content loaded")
)

// Source supplies the content unit for a session.
type Source interface {
	Load(ctx context.Context) (quiz.Unit, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (quiz.Unit, error)

func (f SourceFunc) Load(ctx context.Context) (quiz.Unit, error) { return f(ctx) }

// StaticSource serves a fixed unit.
type StaticSource quiz.Unit

func (s StaticSource) Load(context.Context) (quiz.Unit, error) {
	return quiz.Unit(s).Clone(), nil
}

// Localizer renders learner-facing text in the display language.
type Localizer interface {
	// Localize returns u in language; false means u is shown as authored.
	Localize(ctx context.Context, u quiz.Unit, language, model string) (quiz.Unit, bool)

	// Result translates a one-off status line.
	Result(ctx context.Context, text, language, model string) string
}

// Remediator builds the follow-up set from the misses of a test pass.
type Remediator interface {
	Generate(ctx context.Context, misses []quiz.Miss, language, model string) quiz.Set
}

// Recorder persists session transitions.
type Recorder interface {
	AppendSessionEvent(ctx context.Context, data store.SessionEventData) error
}

// PreferenceStore persists preferences across runs.
type PreferenceStore interface {
	Set(ctx context.Context, key, value string) error
}
