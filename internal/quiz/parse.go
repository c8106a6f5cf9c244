package quiz

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rlpro/rlpro/internal/llm"
)

// PlaceholderOptions are used when a generated choice question has none.
var PlaceholderOptions = []string{"Option A", "Option B", "Option C", "Option D"}

// Outcome tags a parse Result.
type Outcome int

const (
	Ok Outcome = iota
	Malformed
)

func (o Outcome) String() string {
	if o == Ok {
		return "ok"
	}
	return "malformed"
}

// Result is the outcome of parsing model output as a Question. Callers
// switch on Outcome; Question is only meaningful when Outcome is Ok.
type Result struct {
	Outcome  Outcome
	Question Question
	Reason   string
}

func malformed(format string, args ...any) Result {
	return Result{Outcome: Malformed, Reason: fmt.Sprintf(format, args...)}
}

// Defaults supply the fields a generated question may omit.
type Defaults struct {
	ID   string
	Kind Kind
}

// Parse reads a single question from model output. The reply may be an
// object or an array whose first element is the object, optionally wrapped
// in a reasoning block or a code fence. A reply without a non-empty
// "question" is Malformed.
func Parse(text string, d Defaults) Result {
	raw, ok := llm.ExtractJSON(text)
	if !ok {
		return malformed("no JSON in reply")
	}

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return malformed("decode: %v", err)
	}
	if arr, isArr := v.([]any); isArr {
		if len(arr) == 0 {
			return malformed("empty array")
		}
		v = arr[0]
	}
	obj, isObj := v.(map[string]any)
	if !isObj {
		return malformed("expected an object, got %T", v)
	}

	sch, err := compiledQuestionSchema()
	if err != nil {
		return malformed("schema: %v", err)
	}
	if err := sch.Validate(obj); err != nil {
		return malformed("schema validation failed: %v", err)
	}

	q := Question{
		ID:     stringField(obj, "id"),
		Kind:   resolveKind(stringField(obj, "card_type"), d.Kind),
		Prompt: strings.TrimSpace(stringField(obj, "question")),
		Answer: answerField(obj["answer"]),
		Hint:   stringField(obj, "hint"),
	}
	if q.Prompt == "" {
		return malformed("blank question")
	}
	if q.ID == "" {
		q.ID = d.ID
	}
	if q.Kind.IsChoice() {
		q.Options = optionsField(obj["options"])
		if len(q.Options) == 0 {
			q.Options = append([]string(nil), PlaceholderOptions...)
		}
	}

	return Result{Outcome: Ok, Question: q}
}

// resolveKind keeps the requested family: a choice request yields a choice
// kind, a short-answer request always yields ShortAnswer.
func resolveKind(got string, want Kind) Kind {
	if want == "" {
		want = SingleChoice
	}
	if !want.IsChoice() {
		return ShortAnswer
	}
	if got == "" {
		return want
	}
	if k := ParseKind(got); k.IsChoice() {
		return k
	}
	return want
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func answerField(v any) string {
	switch a := v.(type) {
	case string:
		return strings.TrimSpace(a)
	case []any:
		parts := make([]string, 0, len(a))
		for _, p := range a {
			if s, ok := p.(string); ok {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

func optionsField(v any) []string {
	arr, _ := v.([]any)
	out := make([]string, 0, len(arr))
	for _, o := range arr {
		if s, ok := o.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
