package llm

import (
	"fmt"
	"os"
	"strconv"
)

const (
	defaultAnthropicModel = "claude-sonnet-4-20250514"
	defaultOpenAIModel    = "gpt-4o"
)

// loadConfig loads model backend configuration from environment variables
func loadConfig() (*Config, error) {
	provider := Provider(os.Getenv("MODEL_PROVIDER"))
	if provider == "" {
		provider = ProviderAnthropic // default
	}

	var apiKey, model string

	switch provider {
	case ProviderAnthropic:
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
		}
		model = defaultAnthropicModel

	case ProviderOpenAI:
		apiKey = os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
		}
		model = defaultOpenAIModel

	default:
		return nil, fmt.Errorf("unsupported model provider: %s", provider)
	}

	if override := os.Getenv("MODEL_NAME"); override != "" {
		model = override
	}

	maxTokens := 4096 // default
	if maxTokensStr := os.Getenv("MODEL_MAX_TOKENS"); maxTokensStr != "" {
		if val, err := strconv.Atoi(maxTokensStr); err == nil {
			maxTokens = val
		}
	}

	temperature := float32(0.3) // default, kept low for structured output
	if tempStr := os.Getenv("MODEL_TEMPERATURE"); tempStr != "" {
		if val, err := strconv.ParseFloat(tempStr, 32); err == nil {
			temperature = float32(val)
		}
	}

	return &Config{
		Provider:    provider,
		APIKey:      apiKey,
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}, nil
}
