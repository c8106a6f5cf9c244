// Package chat holds the append-only transcript shared by the learning loop
// and the flipped classroom.
package chat

import (
	"strings"
)

// Role identifies who spoke a turn.
type Role string

const (
	Tutor   Role = "tutor"
	Learner Role = "learner"
	Coach   Role = "coach"
	Teacher Role = "teacher"
	Student Role = "student"
)

// Turn is one transcript entry.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Transcript is an ordered, append-only list of turns.
type Transcript struct {
	turns []Turn
}

// Append adds a turn at the end.
func (t *Transcript) Append(role Role, text string) {
	t.turns = append(t.turns, Turn{Role: role, Text: text})
}

// Len returns the number of turns.
func (t *Transcript) Len() int { return len(t.turns) }

// Turns returns a copy of all turns.
func (t *Transcript) Turns() []Turn {
	return append([]Turn(nil), t.turns...)
}

// Last returns the most recent n turns (all of them if fewer exist).
func (t *Transcript) Last(n int) []Turn {
	if n <= 0 {
		return nil
	}
	start := len(t.turns) - n
	if start < 0 {
		start = 0
	}
	return append([]Turn(nil), t.turns[start:]...)
}

// History formats the last n turns for embedding in a prompt, one
// "ROLE: text" line per turn.
func (t *Transcript) History(n int) string {
	return Format(t.Last(n))
}

// Reset drops every turn.
func (t *Transcript) Reset() {
	t.turns = nil
}

// Format renders turns as "ROLE: text" lines.
func Format(turns []Turn) string {
	lines := make([]string, len(turns))
	for i, turn := range turns {
		lines[i] = strings.ToUpper(string(turn.Role)) + ": " + turn.Text
	}
	return strings.Join(lines, "\n")
}
