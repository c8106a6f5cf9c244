package llm

import (
	"fmt"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which backend to use.
	// Values: "http", "openai", "openrouter", "anthropic", "gemini", "mock"
	Provider string

	HTTP       HTTPConfig
	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig

	// Timeout bounds a single request. Default: 60s.
	Timeout time.Duration
}

// HTTPConfig configures the rlpro backend's /generate endpoint.
type HTTPConfig struct {
	BaseURL string // Default: "http://127.0.0.1:8000"
	Model   string // Default: DefaultModel
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for DashScope or other compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "qwen/qwen3-next-80b-a3b-instruct"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// DefaultBaseURL is where the rlpro backend listens by default.
const DefaultBaseURL = "http://127.0.0.1:8000"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "http",
		HTTP: HTTPConfig{
			BaseURL: DefaultBaseURL,
			Model:   DefaultModel,
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "qwen/qwen3-next-80b-a3b-instruct",
		},
		Timeout: 60 * time.Second,
	}
}

// Validate checks that the selected provider has what it needs.
func (c Config) Validate() error {
	switch c.Provider {
	case "http":
		if c.HTTP.BaseURL == "" {
			return fmt.Errorf("llm.endpoint is required for the http provider")
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("RLPRO_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("RLPRO_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("RLPRO_GEMINI_API_KEY is required for the gemini provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("RLPRO_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "mock":
		// No credentials needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
