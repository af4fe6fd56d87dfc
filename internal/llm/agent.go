// Package llm talks to the external language-model provider that turns
// prompts into answers. The agent is an external collaborator: it gets one
// prompt and a deadline, and whatever it returns is treated as opaque text
// for the layers above to pick apart.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Agent runs one prompt against the configured model and returns its
// response text
type Agent interface {
	Run(ctx context.Context, prompt string) (string, error)
}

// Config represents agent configuration. BaseURL overrides the provider
// default endpoint; OpenAI-compatible services (Groq, Together, vLLM) work
// by pairing the openai provider with their URL.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// Provider constants for the supported backends
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderLocal     = "local"
)

// Model constants for common models
const (
	ModelGPT4       = "gpt-4"
	ModelGPT35Turbo = "gpt-3.5-turbo"
	ModelClaude3    = "claude-3-sonnet-20240229"
	ModelLlama2     = "llama2"
)

const defaultTimeout = 60 * time.Second

// NewAgent validates the configuration, fills in provider defaults, and
// returns a ready client.
func NewAgent(config Config) (Agent, error) {
	resolved, err := resolveConfig(config)
	if err != nil {
		return nil, err
	}

	return NewClient(resolved), nil
}

// resolveConfig applies provider-specific defaults and requirements
func resolveConfig(config Config) (Config, error) {
	config.Provider = strings.ToLower(strings.TrimSpace(config.Provider))

	if config.Provider == "" {
		return config, fmt.Errorf("provider is required")
	}

	switch config.Provider {
	case ProviderOpenAI:
		if config.APIKey == "" {
			return config, fmt.Errorf("API key is required for OpenAI provider")
		}

		if config.BaseURL == "" {
			config.BaseURL = "https://api.openai.com/v1"
		}

		if config.Model == "" {
			config.Model = ModelGPT4
		}
	case ProviderAnthropic:
		if config.APIKey == "" {
			return config, fmt.Errorf("API key is required for Anthropic provider")
		}

		if config.BaseURL == "" {
			config.BaseURL = "https://api.anthropic.com/v1"
		}

		if config.Model == "" {
			config.Model = ModelClaude3
		}
	case ProviderLocal, ProviderOllama:
		if config.BaseURL == "" {
			config.BaseURL = "http://localhost:11434"
		}

		if config.Model == "" {
			config.Model = ModelLlama2
		}
	default:
		return config, fmt.Errorf("unsupported provider: %s", config.Provider)
	}

	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}

	return config, nil
}
