package session

// Summary holds the results shown when a loop completes.
type Summary struct {
	TestTotal          int
	TestCorrect        int
	Missed             int
	RemediationTotal   int
	RemediationCorrect int
	Complete           bool
}

// TestAccuracy returns the fraction of test questions answered correctly.
func (s Summary) TestAccuracy() float64 {
	if s.TestTotal == 0 {
		return 0
	}
	return float64(s.TestCorrect) / float64(s.TestTotal)
}
