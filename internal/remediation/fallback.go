package remediation

import (
	"fmt"

	"github.com/rlpro/rlpro/internal/quiz"
)

func placeholderChoice(i int) quiz.Question {
	return quiz.Question{
		ID:      fmt.Sprintf("adhoc_choice_%d", i+1),
		Kind:    quiz.SingleChoice,
		Prompt:  "Which statement best fits the idea?",
		Options: append([]string(nil), quiz.PlaceholderOptions...),
		Answer:  quiz.PlaceholderOptions[0],
		Hint:    "Think about the core claim.",
	}
}

func placeholderShort() quiz.Question {
	return quiz.Question{
		ID:     "adhoc_short_1",
		Kind:   quiz.ShortAnswer,
		Prompt: "Provide a new example illustrating the same point.",
		Answer: "Example here.",
		Hint:   "Ground it in the missed concept.",
	}
}

// DefaultFallback is the two-item set used when generation produced nothing
// and the unit supplies no remediation set of its own.
func DefaultFallback() quiz.Set {
	return quiz.Set{
		{
			ID:     "adhoc_choice_1",
			Kind:   quiz.SingleChoice,
			Prompt: "Which scenario best illustrates the main point?",
			Options: []string{
				"A scenario that applies the core claim",
				"A scenario about an unrelated topic",
				"A scenario that contradicts the core claim",
				"A scenario with no clear connection",
			},
			Answer: "A scenario that applies the core claim",
			Hint:   "Think about the core claim.",
		},
		{
			ID:     "adhoc_short_1",
			Kind:   quiz.ShortAnswer,
			Prompt: "Give a real-life example supporting the main point.",
			Answer: "An example that applies the core claim.",
			Hint:   "Keep it concise.",
		},
	}
}
