package session

import "math"

// progress maps a position in the loop to a percentage: up to 60 while
// reflecting, 60-80 across the test set, 80-100 across remediation.
func progress(phase Phase, learnTurns, index, setLen int) int {
	switch phase {
	case PhaseLearn:
		return min(60, learnTurns*20)
	case PhaseTest:
		if setLen == 0 {
			return 60
		}
		return 60 + roundHalfUp(float64(index+1)/float64(setLen)*20)
	case PhaseReinforce:
		return 80 + roundHalfUp(float64(index+1)/float64(max(setLen, 1))*20)
	}
	return 100
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
