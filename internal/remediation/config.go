package remediation

// Config holds remediation generation settings.
type Config struct {
	MaxNewTokens int
	Temperature  float64
	TopP         float64
}

// DefaultConfig returns the generation parameters used for follow-up
// questions.
func DefaultConfig() Config {
	return Config{
		MaxNewTokens: 400,
		Temperature:  0.35,
		TopP:         0.9,
	}
}
