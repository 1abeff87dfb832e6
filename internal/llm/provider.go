package llm

import (
	"fmt"
	"time"

	"github.com/Harshitk-cp/ratelens/internal/config"
	"github.com/Harshitk-cp/ratelens/internal/domain"
)

// Provider constants
const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
	ProviderCerebras   = "cerebras"
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
	ProviderMock       = "mock"
)

// Options configures a Predictor. Model and BaseURL fall back to the
// provider's defaults when empty.
type Options struct {
	Provider   string
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// NewPredictor creates a Predictor for the named provider.
// Returns an error if the provider is unknown or the API key is empty (except for mock).
func NewPredictor(opts Options) (domain.Predictor, error) {
	switch opts.Provider {
	case ProviderOpenRouter, ProviderOpenAI, ProviderCerebras:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("an API key is required for the %s provider", opts.Provider)
		}
		return NewChatCompletionsClient(opts), nil

	case ProviderAnthropic:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for Anthropic provider")
		}
		return NewAnthropicClient(opts), nil

	case ProviderGemini:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return NewGeminiClient(opts), nil

	case ProviderMock:
		return NewMockPredictor(), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (valid options: openrouter, openai, cerebras, anthropic, gemini, mock)", opts.Provider)
	}
}

// ConfigOptions reads the predictor settings from the environment.
func ConfigOptions() Options {
	return Options{
		Provider:   config.LLMProvider(),
		APIKey:     config.LLMAPIKey(),
		Model:      config.LLMModel(),
		BaseURL:    config.LLMBaseURL(),
		Timeout:    config.LLMTimeout(),
		MaxRetries: config.LLMMaxRetries(),
	}
}
