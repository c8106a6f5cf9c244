package quiz

import "strings"

// WrongAnswer is substituted for the learner's entry on force-fail questions.
const WrongAnswer = "wrong answer"

// Grade applies the local grading heuristic.
//
// Choice kinds: the trimmed submission must equal the expected answer exactly
// (case-sensitive). Short answer: the first whitespace-delimited token of the
// expected answer must appear anywhere in the submission, ignoring case. An
// expected answer with no tokens accepts any submission.
func Grade(q Question, submitted string) bool {
	if q.Kind.IsChoice() {
		return strings.TrimSpace(submitted) == q.Answer
	}
	fields := strings.Fields(q.Answer)
	if len(fields) == 0 {
		return true
	}
	return strings.Contains(strings.ToLower(submitted), strings.ToLower(fields[0]))
}
