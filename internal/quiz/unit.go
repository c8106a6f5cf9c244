package quiz

// Unit is one content unit: an explanatory note, reflection prompts and the
// ordered test set that follows it.
type Unit struct {
	ID       string
	Title    string
	Language string
	Body     string
	Example  string
	Prompts  []string

	Questions Set

	// Remediation replaces the generic fallback when remediation
	// generation produces nothing.
	Remediation Set

	Checklist []string
}

// Clone returns a deep copy of u.
func (u Unit) Clone() Unit {
	u.Prompts = append([]string(nil), u.Prompts...)
	u.Questions = u.Questions.Clone()
	u.Remediation = u.Remediation.Clone()
	u.Checklist = append([]string(nil), u.Checklist...)
	return u
}
