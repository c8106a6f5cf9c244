package quiz

import (
	"slices"
	"strings"
)

// choiceSeparator reports how a multi-answer string separates its parts.
// Stored cards use semicolons; answers parsed from a JSON array use ", ".
func choiceSeparator(answer string) string {
	switch {
	case strings.Contains(answer, "; "):
		return "; "
	case strings.Contains(answer, ";"):
		return ";"
	}
	return ", "
}

func splitChoices(answer string) []string {
	var out []string
	for _, p := range strings.Split(answer, strings.TrimSpace(choiceSeparator(answer))) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinChoices joins parts with the separator used by answer.
func JoinChoices(answer string, parts []string) string {
	return strings.Join(parts, choiceSeparator(answer))
}

// AnswerIndexes returns the indexes of the options named by q's answer, in
// answer order. ok is false when some part of the answer is not an option.
func AnswerIndexes(q Question) ([]int, bool) {
	if i := slices.Index(q.Options, q.Answer); i >= 0 {
		return []int{i}, true
	}
	parts := splitChoices(q.Answer)
	if len(parts) == 0 {
		return nil, false
	}
	idx := make([]int, 0, len(parts))
	for _, p := range parts {
		i := slices.Index(q.Options, p)
		if i < 0 {
			return nil, false
		}
		idx = append(idx, i)
	}
	return idx, true
}

// Selection renders the options a learner ticked on a multiple-choice
// question as one submission. Ticked options named by the answer come
// first in answer order, the rest follow in option order, so the order in
// which boxes were ticked does not matter.
func Selection(q Question, chosen []string) string {
	if len(chosen) == 1 {
		return chosen[0]
	}
	want := splitChoices(q.Answer)
	rank := func(s string) int {
		if i := slices.Index(want, s); i >= 0 {
			return i
		}
		return len(want) + slices.Index(q.Options, s)
	}
	ordered := slices.Clone(chosen)
	slices.SortStableFunc(ordered, func(a, b string) int { return rank(a) - rank(b) })
	return JoinChoices(q.Answer, ordered)
}
