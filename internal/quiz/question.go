// Package quiz holds the question model shared by the learning loop, the
// local grading heuristic and the parser for model-generated questions.
package quiz

import (
	"fmt"
	"strings"
)

// Kind is how a learner answers a question.
type Kind string

const (
	SingleChoice   Kind = "single_choice"
	MultipleChoice Kind = "multiple_choice"
	ShortAnswer    Kind = "short_answer"
)

// IsChoice reports whether the kind presents options.
func (k Kind) IsChoice() bool {
	return k == SingleChoice || k == MultipleChoice
}

// ParseKind maps backend card types onto the three kinds the loop knows.
// Open-ended card types (term, concept, cloze) are answered like short answers.
func ParseKind(s string) Kind {
	switch Kind(strings.TrimSpace(strings.ToLower(s))) {
	case SingleChoice:
		return SingleChoice
	case MultipleChoice:
		return MultipleChoice
	default:
		return ShortAnswer
	}
}

// Question is one test or remediation item. It is not modified once it has
// been handed to a session.
type Question struct {
	ID     string   `json:"id"`
	Kind   Kind     `json:"card_type"`
	Prompt string   `json:"question"`
	// Options is present iff Kind is a choice kind.
	Options []string `json:"options,omitempty"`
	Answer  string   `json:"answer"`
	Hint    string   `json:"hint,omitempty"`

	// ForceFail marks a question whose submission is always replaced by a
	// known-wrong answer, so the remediation path can be demonstrated.
	ForceFail bool `json:"force_fail,omitempty"`
}

// Validate checks the options-iff-choice invariant and required fields.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("question %q: empty prompt", q.ID)
	}
	switch {
	case q.Kind.IsChoice() && len(q.Options) == 0:
		return fmt.Errorf("question %q: %s without options", q.ID, q.Kind)
	case !q.Kind.IsChoice() && len(q.Options) > 0:
		return fmt.Errorf("question %q: %s with options", q.ID, q.Kind)
	}
	return nil
}

// Set is an ordered sequence of questions; order defines test sequencing.
type Set []Question

// Validate checks every question in the set.
func (s Set) Validate() error {
	for _, q := range s {
		if err := q.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a copy whose option slices are not shared with s.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	for i, q := range s {
		q.Options = append([]string(nil), q.Options...)
		if len(q.Options) == 0 {
			q.Options = nil
		}
		out[i] = q
	}
	return out
}

// Miss records a test-phase question the learner got wrong together with
// what they submitted.
type Miss struct {
	Question  Question
	Submitted string
}
