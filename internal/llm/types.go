package llm

import (
	"context"
	"fmt"
)

// represents different model providers
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// a single message in a conversation
type Message struct {
	Role    string
	Content string
}

// generates free-form text from a prompt
type TextGenerator interface {
	GenerateText(ctx context.Context, req TextGenerationRequest) (*TextGenerationResponse, error)
}

// generates text from an image plus an instruction prompt
type VisionGenerator interface {
	GenerateVision(ctx context.Context, req VisionRequest) (*TextGenerationResponse, error)
}

// the full capability set the gateway needs from a model backend
type ModelBackend interface {
	TextGenerator
	VisionGenerator
	Model() string
}

// a text-only generation request
type TextGenerationRequest struct {
	SystemPrompt string
	Messages     []Message
	MaxTokens    int
}

// a vision request: one base64-encoded image plus an instruction prompt
type VisionRequest struct {
	SystemPrompt string
	Prompt       string
	ImageBase64  string
	MimeType     string
	MaxTokens    int
}

// the model's reply
type TextGenerationResponse struct {
	Text  string
	Usage Usage
}

// token accounting reported by the provider
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// holds configuration for model backend initialization
type Config struct {
	Provider    Provider
	APIKey      string
	Model       string // e.g., "claude-sonnet-4-20250514"
	MaxTokens   int
	Temperature float32
}

// APIError is a non-2xx response from the model provider
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("model API request failed with status %d: %s", e.Status, e.Body)
}

// reports whether the failure is expected to clear on retry
// (provider overload, rate limit, or request timeout)
func (e *APIError) Transient() bool {
	return e.Status == 408 || e.Status == 429 || e.Status >= 500
}
