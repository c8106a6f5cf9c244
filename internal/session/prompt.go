package session

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rlpro/rlpro/internal/lang"
	"github.com/rlpro/rlpro/internal/quiz"
)

// Static replies used when a generation request fails.
const (
	openingFallback   = "Think about the main idea. What do you think?"
	reflectFallback   = "Does your view fit the main point? How would you extend it?"
	selectionFallback = "How does this fit the main idea? What evidence would you add?"
	chatFallback      = "Consider how this fits the main idea. What evidence would you add?"
	selectionFollowUp = "What do you think? How would you apply this?"
	restartMessage    = "Restarting the loop. What stands out to you now?"
	noInput           = "(no input)"
)

func buildOpeningPrompt(language, title string) string {
	topic := "the module topic"
	if strings.TrimSpace(title) != "" {
		topic = fmt.Sprintf("%q", title)
	}
	return lang.ReplyPrefix(language) + fmt.Sprintf(
		"You are a co-learning tutor. Start by addressing the learner as \"you\" with one engaging question about %s. Keep it 2 sentences and end with a question.",
		topic)
}

func buildReflectPrompt(language, history, content string) string {
	var b strings.Builder
	b.WriteString(lang.ReplyPrefix(language))
	b.WriteString("You are a co-learning tutor. Keep memory only for this learner.\n")
	b.WriteString("Recent turns:\n")
	b.WriteString(history)
	b.WriteString("\nThe learner responded. In second person, acknowledge briefly, invite them to check alignment with the main idea, and ask one question to connect or extend (stay grounded in the snippet).\n")
	b.WriteString("Text:\n")
	b.WriteString(content)
	return b.String()
}

func buildCoachPrompt(language, history string, q quiz.Question, submitted string, correct bool) string {
	var b strings.Builder
	b.WriteString(lang.ReplyPrefix(language))
	b.WriteString("Coach the learner step by step, addressing them as \"you\". Keep thread-specific context only.\n")
	b.WriteString("Recent turns:\n")
	b.WriteString(history)
	b.WriteString("\nGive one brief encouragement, one hint toward the correct idea (without giving it fully), and one probing question.\n")
	b.WriteString(fmt.Sprintf("Question: %s\n", q.Prompt))
	b.WriteString(fmt.Sprintf("Expected: %s\n", q.Answer))
	b.WriteString(fmt.Sprintf("User answer: %s\n", submitted))
	b.WriteString(fmt.Sprintf("Result: %s.", verdictWord(correct)))
	return b.String()
}

func buildSelectionPrompt(language, history, selection string) string {
	var b strings.Builder
	b.WriteString(lang.ReplyPrefix(language))
	b.WriteString("You are a co-learning tutor. Keep context scoped to this learner only.\n")
	b.WriteString("Recent turns:\n")
	b.WriteString(history)
	b.WriteString("\nThe learner selected this text:\n")
	b.WriteString(selection)
	b.WriteString("\nExplain in second person, invite self-evaluation, and ask one probing question that connects or extends beyond the snippet (but stay grounded). Keep the reply to 2-3 sentences in one short paragraph.")
	return b.String()
}

func buildChatPrompt(language, history, text string) string {
	var b strings.Builder
	b.WriteString(lang.ReplyPrefix(language))
	b.WriteString("You are a co-learning tutor. Keep memory scoped to this learner only.\n")
	b.WriteString("Recent turns:\n")
	b.WriteString(history)
	b.WriteString("\nLearner asks: ")
	b.WriteString(text)
	b.WriteString("\nReply in second person with one brief insight and one probing question (2 sentences).")
	return b.String()
}

func verdictWord(correct bool) string {
	if correct {
		return "correct"
	}
	return "incorrect"
}

// resultLine is the grading status shown after a test answer.
func resultLine(submitted string, correct bool) string {
	return fmt.Sprintf("Your answer: %s → %s", submitted, verdictWord(correct))
}

func hintTurn(q quiz.Question) string {
	if strings.TrimSpace(q.Hint) == "" {
		return "Hint: review the learning note and look for the main idea."
	}
	return "Hint: " + q.Hint
}

var personaEcho = regexp.MustCompile(`(?i)you are a co-?learning tutor[^.]*\.?`)

// cleanReply drops an echoed persona line from a model reply. An empty
// result is replaced by fallback.
func cleanReply(text, fallback string) string {
	cleaned := strings.TrimSpace(personaEcho.ReplaceAllString(text, ""))
	if cleaned == "" {
		return fallback
	}
	return cleaned
}
