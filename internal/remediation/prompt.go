package remediation

import (
	"fmt"
	"strings"

	"github.com/rlpro/rlpro/internal/lang"
	"github.com/rlpro/rlpro/internal/quiz"
)

func buildChoicePrompt(m quiz.Miss, language string) string {
	var b strings.Builder

	b.WriteString(lang.ReplyPrefix(language))
	b.WriteString(fmt.Sprintf("Generate 1 follow-up choice question in %s for this missed item.\n", language))
	b.WriteString("Do not translate or repeat the original question; create a new question on the same knowledge point.\n")
	b.WriteString(fmt.Sprintf("Question: %s\n", m.Question.Prompt))
	b.WriteString(fmt.Sprintf("Expected answer: %s\n", m.Question.Answer))
	b.WriteString(fmt.Sprintf("User answer: %s\n", m.Submitted))
	b.WriteString("Return JSON array with one object: {id, card_type (single_choice or multiple_choice), question, options (4 strings), answer}. No hint. Return only JSON.")

	return b.String()
}

func buildShortPrompt(misses []quiz.Miss, language string) string {
	var b strings.Builder

	b.WriteString(lang.ReplyPrefix(language))
	b.WriteString(fmt.Sprintf("Generate 1 short_answer follow-up question in %s based on these missed items.\n", language))
	b.WriteString("Context:\n")
	b.WriteString(summarize(misses))
	b.WriteString("\nDo not repeat or translate the original questions; create a new question on the same knowledge point.\n")
	b.WriteString(`Return JSON object: {id, card_type="short_answer", question, answer}. No hint. Return only JSON.`)

	return b.String()
}

// summarize renders one "Qn: question | Expected: answer | User: submitted"
// line per miss.
func summarize(misses []quiz.Miss) string {
	lines := make([]string, len(misses))
	for i, m := range misses {
		lines[i] = fmt.Sprintf("Q%d: %s | Expected: %s | User: %s", i+1, m.Question.Prompt, m.Question.Answer, m.Submitted)
	}
	return strings.Join(lines, "\n")
}
