package llm

import (
	"context"
	"fmt"
	"strings"

	"surveykit/internal/errors"
	"surveykit/ports"

	"github.com/sashabaranov/go-openai"
)

const systemContext = "You are a survey analyst. Output exactly what the user asks for."

// OpenAIClient implements ports.LLMClient over the OpenAI chat completions API
type OpenAIClient struct {
	client      *openai.Client
	temperature float32
}

// NewOpenAIClient creates a client; BaseURL overrides the API endpoint when set
func NewOpenAIClient(cfg Config) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.ConfigInvalid("missing OpenAI API key")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAIClient{
		client:      openai.NewClientWithConfig(clientCfg),
		temperature: cfg.Temperature,
	}, nil
}

// ChatCompletion returns only the generated text
func (c *OpenAIClient) ChatCompletion(ctx context.Context, model string, prompt string, maxTokens int) (string, error) {
	resp, err := c.ChatCompletionWithUsage(ctx, model, prompt, maxTokens)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// ChatCompletionWithUsage sends one system and one user message
func (c *OpenAIClient) ChatCompletionWithUsage(ctx context.Context, model string, prompt string, maxTokens int) (*ports.LLMResponse, error) {
	if strings.TrimSpace(model) == "" {
		return nil, errors.ConfigInvalid("missing model")
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemContext},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, errors.ExternalServiceError("openai", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.ExternalServiceError("openai", fmt.Errorf("response missing choices"))
	}

	return &ports.LLMResponse{
		Content: resp.Choices[0].Message.Content,
		Usage: &ports.UsageData{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
			Model:            resp.Model,
			Provider:         "openai",
		},
	}, nil
}

// MockLLMClient is a mock LLM client for testing
type MockLLMClient struct {
	Response string // Set this for testing
	Error    error  // Set this to simulate errors
	Prompts  []string
}

func (m *MockLLMClient) ChatCompletion(ctx context.Context, model string, prompt string, maxTokens int) (string, error) {
	resp, err := m.ChatCompletionWithUsage(ctx, model, prompt, maxTokens)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func (m *MockLLMClient) ChatCompletionWithUsage(ctx context.Context, model string, prompt string, maxTokens int) (*ports.LLMResponse, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Error != nil {
		return nil, m.Error
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &ports.LLMResponse{
		Content: m.Response,
		Usage:   &ports.UsageData{Model: model, Provider: "mock"},
	}, nil
}
