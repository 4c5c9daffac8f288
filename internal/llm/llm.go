package llm

import (
	"fmt"
)

// creates a model backend with auto-configuration from environment variables
func NewModelBackend() (ModelBackend, error) {
	config, err := loadConfig()

	if err != nil {
		return nil, fmt.Errorf("failed to load model config: %w", err)
	}

	return NewModelBackendWithConfig(config)
}

// creates a model backend with explicit configuration
func NewModelBackendWithConfig(config *Config) (ModelBackend, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	switch config.Provider {
	case ProviderAnthropic:
		return NewAnthropicClient(AnthropicConfig{
			APIKey:      config.APIKey,
			Model:       config.Model,
			MaxTokens:   config.MaxTokens,
			Temperature: config.Temperature,
		}), nil

	case ProviderOpenAI:
		return NewOpenAIClient(OpenAIConfig{
			APIKey:      config.APIKey,
			Model:       config.Model,
			MaxTokens:   config.MaxTokens,
			Temperature: config.Temperature,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported model provider: %s", config.Provider)
	}
}
