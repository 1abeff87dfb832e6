package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	anthropicModel     = "claude-3-5-haiku-20241022"
	anthropicMaxTokens = 500
)

// AnthropicClient calls the Messages API through the official SDK. The SDK's
// own retries are disabled so callPolicy owns the retry budget.
type AnthropicClient struct {
	client anthropic.Client
	model  string
	policy callPolicy
}

func NewAnthropicClient(opts Options) *AnthropicClient {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}

	model := opts.Model
	if model == "" {
		model = anthropicModel
	}
	return &AnthropicClient{
		client: anthropic.NewClient(reqOpts...),
		model:  model,
		policy: newCallPolicy(opts),
	}
}

func (c *AnthropicClient) Name() string {
	return ProviderAnthropic + ":" + c.model
}

func (c *AnthropicClient) Predict(ctx context.Context, prompt string) (string, error) {
	return c.policy.run(ctx, func(ctx context.Context) (string, error) {
		return c.complete(ctx, prompt)
	})
}

func (c *AnthropicClient) complete(ctx context.Context, prompt string) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   anthropicMaxTokens,
		Temperature: anthropic.Float(0),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", &statusError{provider: ProviderAnthropic, code: apiErr.StatusCode, body: apiErr.Error()}
		}
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", fmt.Errorf("anthropic API returned no text content")
}
