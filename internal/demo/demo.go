// Package demo is the built-in learning unit used when no content backend
// is configured: section 5.2 on innateness and Universal Grammar.
package demo

import (
	"context"

	"github.com/rlpro/rlpro/internal/flipped"
	"github.com/rlpro/rlpro/internal/lang"
	"github.com/rlpro/rlpro/internal/quiz"
	"github.com/rlpro/rlpro/internal/translate"
)

// ID identifies the demo unit in session events.
const ID = "demo_ug_5_2"

const body = "Universal grammar posits that humans are born with grammatical constraints that guide language acquisition. " +
	"Children learn rapidly despite sparse and noisy input (poverty of the stimulus), leading innateness advocates to argue for built-in biases. " +
	"Critical periods and specific language impairments are cited as evidence for biological underpinnings. " +
	"Usage-based and statistical learning views counter that children can extract constructions from distributional patterns without a rich innate grammar. " +
	"Cross-linguistic universals may reflect innate constraints, communicative pressures, or historical convergence rather than hard-wired blueprints."

// Unit returns a fresh copy of the demo unit. The second question always
// fails so the reinforce phase can be shown.
func Unit() quiz.Unit {
	return quiz.Unit{
		ID:       ID,
		Title:    "Immersive: Innateness and Universal Grammar (Section 5.2)",
		Language: lang.Source,
		Body:     body,
		Example:  "Deaf children of hearing parents create systematic sign systems even with limited input, suggesting generalisation beyond provided examples.",
		Prompts: []string{
			"What evidence would convince you that grammar learning needs more than general pattern discovery?",
			"How might usage-based learning explain rapid acquisition without an elaborate innate grammar?",
		},
		Questions: quiz.Set{
			{
				ID:     "demo_q1",
				Kind:   quiz.MultipleChoice,
				Prompt: "What is the core claim of the poverty-of-the-stimulus argument?",
				Options: []string{
					"Children fully learn grammar from explicit instruction",
					"Input is too sparse/noisy to explain rapid grammar learning without innate constraints",
					"Statistical learning alone instantly yields adult grammar",
					"Adults relearn grammar each generation",
				},
				Answer: "Input is too sparse/noisy to explain rapid grammar learning without innate constraints",
				Hint:   "Focus on why input alone might be insufficient.",
			},
			{
				ID:        "demo_q2",
				Kind:      quiz.ShortAnswer,
				Prompt:    "Give one piece of evidence often cited for language-specific biological mechanisms.",
				Answer:    "Critical period effects or specific language impairments that selectively affect grammar.",
				Hint:      "Think about timing or selective deficits.",
				ForceFail: true,
			},
			{
				ID:      "demo_q3",
				Kind:    quiz.SingleChoice,
				Prompt:  "Which view emphasises extracting constructions from distributional patterns without positing rich innate grammar?",
				Options: []string{"Usage-based/statistical learning", "Strong UG-only view", "Pure behaviourism", "Motor theory"},
				Answer:  "Usage-based/statistical learning",
				Hint:    "Pick the pattern-based account.",
			},
		},
		Remediation: Remediation(),
		Checklist:   Checklist(),
	}
}

// Remediation is used when follow-up generation fails completely.
func Remediation() quiz.Set {
	return quiz.Set{
		{
			ID:     "adhoc_choice_1",
			Kind:   quiz.SingleChoice,
			Prompt: "Which scenario best illustrates poverty-of-the-stimulus?",
			Options: []string{
				"Child learns grammar despite limited examples",
				"Adult relearns vocabulary",
				"Child memorises times tables",
				"Teacher drills irregular verbs only",
			},
			Answer: "Child learns grammar despite limited examples",
			Hint:   "Sparse input but rich grammar outcome.",
		},
		{
			ID:     "adhoc_short_1",
			Kind:   quiz.ShortAnswer,
			Prompt: "Give a real-life example from your language where children generalise beyond input.",
			Answer: "Children form novel sentences not heard before.",
			Hint:   "Think of novel sentence creation.",
		},
	}
}

// Checklist is what a learner must get across in the flipped classroom.
func Checklist() []string {
	return []string{
		"Explain poverty-of-the-stimulus",
		"Give UG vs usage-based example",
		"Pose real-life example question",
	}
}

// Labels overrides the generic interface strings for the demo.
func Labels() translate.Labels {
	return translate.Labels{
		translate.LabelHeading:         "Immersive: Universal Grammar (5.2)",
		translate.LabelChatPlaceholder: "Ask the tutor anything about UG... then press Enter",
	}
}

// Topic configures the flipped classroom for the demo unit.
func Topic() flipped.Topic {
	return flipped.Topic{
		Subject:       "universal grammar or poverty of the stimulus",
		Misconception: "UG vs usage-based learning",
		CoachFocus:    "universal grammar",
		CoachFallback: "Try an example contrasting sparse input vs innate bias.",
		Checklist:     Checklist(),
	}
}

// Source serves the demo unit.
type Source struct{}

// Load returns the demo unit.
func (Source) Load(context.Context) (quiz.Unit, error) {
	return Unit(), nil
}
