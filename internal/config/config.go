// Package config loads rlpro settings from flags, RLPRO_* environment
// variables and an optional config.yaml.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rlpro/rlpro/internal/content"
	"github.com/rlpro/rlpro/internal/lang"
	"github.com/rlpro/rlpro/internal/llm"
)

// EnvPrefix is prepended to every environment variable, so llm.model is
// read from RLPRO_LLM_MODEL.
const EnvPrefix = "RLPRO"

// Config is the resolved configuration.
type Config struct {
	LLM struct {
		Provider string        `mapstructure:"provider"`
		Endpoint string        `mapstructure:"endpoint"`
		Model    string        `mapstructure:"model"`
		Timeout  time.Duration `mapstructure:"timeout"`
	} `mapstructure:"llm"`

	OpenAI struct {
		APIKey  string `mapstructure:"api_key"`
		Model   string `mapstructure:"model"`
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"openai"`

	Anthropic struct {
		APIKey string `mapstructure:"api_key"`
		Model  string `mapstructure:"model"`
	} `mapstructure:"anthropic"`

	Gemini struct {
		APIKey string `mapstructure:"api_key"`
		Model  string `mapstructure:"model"`
	} `mapstructure:"gemini"`

	OpenRouter struct {
		APIKey  string `mapstructure:"api_key"`
		Model   string `mapstructure:"model"`
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"openrouter"`

	Content struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"content"`

	// Language is the display language at startup.
	Language string `mapstructure:"language"`

	// DB overrides the database path.
	DB string `mapstructure:"db"`

	LogLevel string `mapstructure:"log_level"`
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	d := llm.DefaultConfig()

	v.SetDefault("llm.provider", d.Provider)
	v.SetDefault("llm.endpoint", d.HTTP.BaseURL)
	v.SetDefault("llm.model", d.HTTP.Model)
	v.SetDefault("llm.timeout", d.Timeout)
	v.SetDefault("openai.model", d.OpenAI.Model)
	v.SetDefault("anthropic.model", d.Anthropic.Model)
	v.SetDefault("gemini.model", d.Gemini.Model)
	v.SetDefault("openrouter.model", d.OpenRouter.Model)
	v.SetDefault("content.url", content.DefaultURL)
	v.SetDefault("language", lang.Source)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unprefixed vendor variables are honoured as well.
	v.BindEnv("openai.api_key", "RLPRO_OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("anthropic.api_key", "RLPRO_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	v.BindEnv("gemini.api_key", "RLPRO_GEMINI_API_KEY", "GEMINI_API_KEY")
	v.BindEnv("openrouter.api_key", "RLPRO_OPENROUTER_API_KEY", "OPENROUTER_API_KEY")
	return v
}

// Load reads config.yaml from the first of dirs that has one, then
// unmarshals everything v knows. A missing file is not an error.
func Load(v *viper.Viper, dirs ...string) (Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	if len(dirs) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Language = lang.Normalize(cfg.Language)
	return cfg, nil
}

// LLMConfig maps the settings onto the provider factory's configuration.
func (c Config) LLMConfig() llm.Config {
	out := llm.DefaultConfig()
	out.Provider = c.LLM.Provider
	out.Timeout = c.LLM.Timeout

	out.HTTP.BaseURL = c.LLM.Endpoint
	out.HTTP.Model = c.LLM.Model

	out.OpenAI.APIKey = c.OpenAI.APIKey
	out.OpenAI.Model = c.OpenAI.Model
	out.OpenAI.BaseURL = c.OpenAI.BaseURL

	out.Anthropic.APIKey = c.Anthropic.APIKey
	out.Anthropic.Model = c.Anthropic.Model

	out.Gemini.APIKey = c.Gemini.APIKey
	out.Gemini.Model = c.Gemini.Model

	out.OpenRouter.APIKey = c.OpenRouter.APIKey
	out.OpenRouter.Model = c.OpenRouter.Model
	if c.OpenRouter.BaseURL != "" {
		out.OpenRouter.BaseURL = c.OpenRouter.BaseURL
	}
	return out
}

// Source describes where a loaded file came from, or "defaults".
func Source(v *viper.Viper) string {
	if f := v.ConfigFileUsed(); f != "" {
		return f
	}
	return "defaults"
}
