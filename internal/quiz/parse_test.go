package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ObjectAndArray(t *testing.T) {
	obj := `{"id":"g1","card_type":"multiple_choice","question":"Which?","options":["a","b","c","d"],"answer":"a"}`
	for name, text := range map[string]string{
		"object":        obj,
		"array":         "[" + obj + "]",
		"fenced":        "```json\n" + obj + "\n```",
		"with thinking": "<think>let me see</think>\n" + obj,
	} {
		t.Run(name, func(t *testing.T) {
			r := Parse(text, Defaults{ID: "fallback", Kind: SingleChoice})
			require.Equal(t, Ok, r.Outcome, r.Reason)
			assert.Equal(t, "g1", r.Question.ID)
			assert.Equal(t, MultipleChoice, r.Question.Kind)
			assert.Equal(t, "Which?", r.Question.Prompt)
			assert.Equal(t, []string{"a", "b", "c", "d"}, r.Question.Options)
			assert.Equal(t, "a", r.Question.Answer)
		})
	}
}

func TestParse_Defaults(t *testing.T) {
	r := Parse(`{"question":"What is innate?"}`, Defaults{ID: "adhoc_choice_1", Kind: SingleChoice})
	require.Equal(t, Ok, r.Outcome)
	assert.Equal(t, "adhoc_choice_1", r.Question.ID)
	assert.Equal(t, SingleChoice, r.Question.Kind)
	assert.Equal(t, PlaceholderOptions, r.Question.Options)
	assert.Equal(t, "", r.Question.Answer)
	assert.NoError(t, r.Question.Validate())
}

func TestParse_ShortAnswerDropsOptions(t *testing.T) {
	r := Parse(`{"card_type":"single_choice","question":"Explain.","options":["x"],"answer":"because"}`,
		Defaults{ID: "adhoc_short_1", Kind: ShortAnswer})
	require.Equal(t, Ok, r.Outcome)
	assert.Equal(t, ShortAnswer, r.Question.Kind)
	assert.Nil(t, r.Question.Options)
	assert.NoError(t, r.Question.Validate())
}

func TestParse_ArrayAnswerIsJoined(t *testing.T) {
	r := Parse(`{"card_type":"multiple_choice","question":"Pick two","options":["a","b","c"],"answer":["a","c"]}`,
		Defaults{Kind: SingleChoice})
	require.Equal(t, Ok, r.Outcome)
	assert.Equal(t, "a, c", r.Question.Answer)
}

func TestParse_Malformed(t *testing.T) {
	tests := map[string]string{
		"not json":          "I think the answer is B",
		"missing question":  `{"answer":"B"}`,
		"empty question":    `{"question":""}`,
		"blank question":    `{"question":"   "}`,
		"empty array":       `[]`,
		"number":            `42`,
		"array of strings":  `["What?"]`,
		"question not text": `{"question":7}`,
		"bad options":       `{"question":"Q","options":[1,2]}`,
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			r := Parse(text, Defaults{ID: "x", Kind: SingleChoice})
			assert.Equal(t, Malformed, r.Outcome)
			assert.NotEmpty(t, r.Reason)
		})
	}
}
