package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	chatTemperature = 0
	chatMaxTokens   = 500
)

// chatEndpoint is the default URL and model of an OpenAI-compatible provider.
type chatEndpoint struct {
	url   string
	model string
}

var chatEndpoints = map[string]chatEndpoint{
	ProviderOpenRouter: {url: "https://openrouter.ai/api/v1/chat/completions", model: "anthropic/claude-3.5-sonnet"},
	ProviderOpenAI:     {url: "https://api.openai.com/v1/chat/completions", model: "gpt-4o-mini"},
	ProviderCerebras:   {url: "https://api.cerebras.ai/v1/chat/completions", model: "llama-3.3-70b"},
}

// ChatCompletionsClient talks to any provider exposing the OpenAI chat
// completions wire format.
type ChatCompletionsClient struct {
	provider   string
	url        string
	model      string
	apiKey     string
	httpClient *http.Client
	policy     callPolicy
}

func NewChatCompletionsClient(opts Options) *ChatCompletionsClient {
	ep, ok := chatEndpoints[opts.Provider]
	if !ok {
		ep = chatEndpoints[ProviderOpenAI]
	}
	c := &ChatCompletionsClient{
		provider:   opts.Provider,
		url:        ep.url,
		model:      ep.model,
		apiKey:     opts.APIKey,
		httpClient: &http.Client{},
		policy:     newCallPolicy(opts),
	}
	if opts.BaseURL != "" {
		c.url = opts.BaseURL
	}
	if opts.Model != "" {
		c.model = opts.Model
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *ChatCompletionsClient) Name() string {
	return c.provider + ":" + c.model
}

func (c *ChatCompletionsClient) Predict(ctx context.Context, prompt string) (string, error) {
	return c.policy.run(ctx, func(ctx context.Context) (string, error) {
		return c.complete(ctx, []chatMessage{{Role: "user", Content: prompt}})
	})
}

func (c *ChatCompletionsClient) complete(ctx context.Context, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &statusError{provider: c.provider, code: resp.StatusCode, body: string(respBody)}
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("unmarshal chat response: %w", err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("chat API error: %s", result.Error.Message)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("chat API returned no choices")
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}
