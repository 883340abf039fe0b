package llm

import (
	"context"
	"fmt"
	"time"

	"surveykit/internal"
	"surveykit/ports"
)

// FailurePrefix starts the text returned in place of a failed generation
const FailurePrefix = "Failed to generate the response. Exception code: "

// Config holds LLM adapter configuration
type Config struct {
	Model       string        // e.g., "gpt-4o-mini"
	APIKey      string        // OpenAI API key
	BaseURL     string        // Optional override (default: https://api.openai.com/v1)
	Temperature float32       // 0.0-2.0, lower = more deterministic
	MaxTokens   int           // Max tokens in response
	Timeout     time.Duration // Request timeout
}

// Generator is the text-generation boundary: errors never cross it
type Generator struct {
	config Config
	client ports.LLMClient
	logger *internal.Logger
}

// NewGenerator wraps client with the configured model, limits and timeout
func NewGenerator(config Config, client ports.LLMClient, logger *internal.Logger) *Generator {
	if logger == nil {
		logger = internal.NopLogger()
	}
	return &Generator{config: config, client: client, logger: logger}
}

// Ask returns the generated text, or a failure string starting with FailurePrefix
func (g *Generator) Ask(ctx context.Context, prompt string) string {
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.client.ChatCompletionWithUsage(ctx, g.config.Model, prompt, g.config.MaxTokens)
	if err != nil {
		g.logger.Error("[Generator] Generation failed after %s: %v", time.Since(start).Round(time.Millisecond), err)
		return fmt.Sprintf("%s%v", FailurePrefix, err)
	}
	if resp.Usage != nil {
		g.logger.Info("[Generator] %s used %d prompt + %d completion tokens",
			resp.Usage.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	}
	return resp.Content
}
