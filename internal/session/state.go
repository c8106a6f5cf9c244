package session

import (
	"github.com/rlpro/rlpro/internal/chat"
	"github.com/rlpro/rlpro/internal/quiz"
)

// Phase is a step of the learning loop.
type Phase int

const (
	PhaseLearn     Phase = iota // Reflecting on the learning note
	PhaseTest                   // Answering the unit's question set
	PhaseReinforce              // Answering generated follow-up questions
	PhaseDone                   // Loop complete
)

func (p Phase) String() string {
	switch p {
	case PhaseLearn:
		return "learn"
	case PhaseTest:
		return "test"
	case PhaseReinforce:
		return "reinforce"
	case PhaseDone:
		return "done"
	}
	return "unknown"
}

// Preferences are the learner's display choices.
type Preferences struct {
	// Language is the display language, e.g. "English" or "Chinese".
	Language string

	// Model is the model identifier sent with every request.
	Model string
}

// state is the mutable aggregate owned by a Controller.
type state struct {
	sessionID string
	phase     Phase

	// learnTurns counts accepted reflections in the current pass.
	learnTurns int

	testIndex        int
	remediationIndex int
	remediation      quiz.Set
	missed           []quiz.Miss

	// testCorrect and remediationCorrect count correct answers in the
	// current pass, for the summary.
	testCorrect        int
	remediationCorrect int

	transcript chat.Transcript
	result     string
	complete   bool
}

// resetLoop clears everything a restart discards. The transcript is kept.
func (s *state) resetLoop() {
	s.phase = PhaseLearn
	s.learnTurns = 0
	s.testIndex = 0
	s.remediationIndex = 0
	s.remediation = nil
	s.missed = nil
	s.testCorrect = 0
	s.remediationCorrect = 0
	s.result = ""
	s.complete = false
}

// Snapshot is a read-only copy of the controller state for rendering.
type Snapshot struct {
	SessionID string
	Phase     Phase

	LearnTurns       int
	TestIndex        int
	RemediationIndex int

	// Unit is the content unit as displayed, translated when a display
	// language other than the source language is selected.
	Unit      quiz.Unit
	Localized bool

	Remediation quiz.Set
	Missed      []quiz.Miss
	Turns       []chat.Turn

	// Result is the grading line for the last test answer.
	Result   string
	Complete bool
	Progress int

	Preferences Preferences
}

// Current returns the active question in a snapshot.
func (s Snapshot) Current() (quiz.Question, bool) {
	switch s.Phase {
	case PhaseTest:
		if s.TestIndex < len(s.Unit.Questions) {
			return s.Unit.Questions[s.TestIndex], true
		}
	case PhaseReinforce:
		if s.RemediationIndex < len(s.Remediation) {
			return s.Remediation[s.RemediationIndex], true
		}
	}
	return quiz.Question{}, false
}
