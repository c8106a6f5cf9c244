package flipped

import (
	"fmt"
	"strings"

	"github.com/rlpro/rlpro/internal/lang"
)

func buildStudentPrompt(language, history, said string, t Topic, misunderstand bool) string {
	var b strings.Builder
	b.WriteString(lang.ReplyPrefix(language))
	if misunderstand {
		b.WriteString("You are a curious student who sometimes misunderstands. Keep context scoped to this student thread only.\n")
	} else {
		b.WriteString("You are a curious student. Keep context scoped to this student thread only.\n")
	}
	b.WriteString("Recent turns:\n")
	b.WriteString(history)
	b.WriteString("\nTeacher just said:\n")
	b.WriteString(said)
	b.WriteString("\n")
	if misunderstand {
		b.WriteString(fmt.Sprintf("Respond in 2 sentences: show a mild misunderstanding about %s, and end with a clarifying question.", t.Misconception))
	} else {
		b.WriteString(fmt.Sprintf("Reply in 2 concise sentences, acknowledge what you heard, and ask one clarifying question about %s.", t.Subject))
	}
	return b.String()
}

func buildEvaluatePrompt(language string, checklist []string, transcript string) string {
	quoted := make([]string, len(checklist))
	for i, label := range checklist {
		quoted[i] = fmt.Sprintf("%q", label)
	}

	var b strings.Builder
	b.WriteString(lang.ReplyPrefix(language))
	b.WriteString("You are evaluating teaching progress in a flipped classroom. Return JSON with keys: checklist (array of {label, done}), summary (one sentence). ")
	b.WriteString(fmt.Sprintf("Checklist labels to use exactly: %s. ", strings.Join(quoted, ", ")))
	b.WriteString("Mark an item done only if the student shows corrected understanding (do not award if a misunderstanding was left uncorrected). Use only the transcript; do not invent progress.\n")
	b.WriteString("Transcript: ")
	b.WriteString(transcript)
	return b.String()
}

func buildCoachPrompt(language, history, asked string, t Topic) string {
	var b strings.Builder
	b.WriteString(lang.ReplyPrefix(language))
	b.WriteString("You are a senior instructor coach. Keep context limited to this coach thread.\n")
	b.WriteString("Recent coach turns:\n")
	b.WriteString(history)
	b.WriteString(fmt.Sprintf("\nTeacher asks: %s\n", asked))
	b.WriteString(fmt.Sprintf("Give concise advice (2 sentences) on helping the student progress on %s; suggest one actionable move.", t.CoachFocus))
	return b.String()
}

func buildReportPrompt(language, student, coach string) string {
	var b strings.Builder
	b.WriteString(lang.ReplyPrefix(language))
	b.WriteString("Evaluate the teacher's performance across multiple dimensions. ")
	b.WriteString("Prefer JSON with: scores ({responsiveness:0-1, clarity:0-1, scaffolding:0-1, coach_use:0-1, total:0-1}), summary (2 sentences, <=70 words), strengths (array of short phrases), weaknesses (array of short phrases). ")
	b.WriteString("Weight 80% on student interaction transcript and 20% on coach interaction. ")
	b.WriteString("If the teacher teaches well without coach help, give a bonus in coach_use; if teaching is weak and coach not used, penalize coach_use. ")
	b.WriteString("If you cannot return JSON, return plain text with the scores explicitly numbered.\n")
	b.WriteString("Student transcript: ")
	b.WriteString(student)
	b.WriteString("\nCoach transcript: ")
	b.WriteString(coach)
	return b.String()
}
