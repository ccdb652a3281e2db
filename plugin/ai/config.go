package ai

import (
	"time"

	"github.com/pkg/errors"

	"github.com/tastegraph/tastegraph/internal/profile"
)

// LLMConfig represents the language model collaborator configuration.
type LLMConfig struct {
	Provider string // openai, ollama (any OpenAI-compatible endpoint)
	Model    string // gpt-4o-mini
	APIKey   string
	BaseURL  string

	MaxTokens         int           // default: 1024
	Timeout           time.Duration // default: 30s
	MaxRetries        int           // default: 3
	RequestsPerSecond float64       // default: 10
	Burst             int           // default: 20
}

// DefaultLLMConfig returns the default configuration.
func DefaultLLMConfig() *LLMConfig {
	return &LLMConfig{
		Provider:          "openai",
		Model:             "gpt-4o-mini",
		BaseURL:           "https://api.openai.com/v1",
		MaxTokens:         1024,
		Timeout:           30 * time.Second,
		MaxRetries:        3,
		RequestsPerSecond: 10,
		Burst:             20,
	}
}

// NewLLMConfigFromProfile creates the LLM config from the runtime profile.
func NewLLMConfigFromProfile(p *profile.Profile) *LLMConfig {
	cfg := DefaultLLMConfig()
	if p.LLMProvider != "" {
		cfg.Provider = p.LLMProvider
	}
	if p.LLMModel != "" {
		cfg.Model = p.LLMModel
	}
	if p.LLMBaseURL != "" {
		cfg.BaseURL = p.LLMBaseURL
	}
	if p.LLMTimeout > 0 {
		cfg.Timeout = p.LLMTimeout
	}
	cfg.APIKey = p.LLMAPIKey
	return cfg
}

// Validate validates the configuration and fills remaining defaults.
func (c *LLMConfig) Validate() error {
	if c.Model == "" {
		return errors.New("LLM model is required")
	}
	if c.Provider != "ollama" && c.APIKey == "" {
		return errors.New("LLM API key is required")
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 1024
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = 10
	}
	if c.Burst <= 0 {
		c.Burst = 20
	}
	return nil
}
