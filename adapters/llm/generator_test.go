package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"surveykit/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorAskReturnsContent(t *testing.T) {
	mock := &MockLLMClient{Response: "- **B**: Channels"}
	g := NewGenerator(Config{Model: "gpt-4o-mini", MaxTokens: 100}, mock, nil)

	out := g.Ask(context.Background(), "outline please")
	assert.Equal(t, "- **B**: Channels", out)
	assert.Equal(t, []string{"outline please"}, mock.Prompts)
}

func TestGeneratorAskConvertsErrors(t *testing.T) {
	mock := &MockLLMClient{Error: fmt.Errorf("429 rate limited")}
	g := NewGenerator(Config{Model: "gpt-4o-mini"}, mock, nil)

	out := g.Ask(context.Background(), "outline please")
	assert.Equal(t, FailurePrefix+"429 rate limited", out)
}

func TestGeneratorAskHonoursTimeout(t *testing.T) {
	g := NewGenerator(Config{Model: "m", Timeout: time.Minute}, &MockLLMClient{Response: "late"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := g.Ask(ctx, "p")
	assert.True(t, strings.HasPrefix(out, FailurePrefix))
}

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	_, err := NewOpenAIClient(Config{})
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	c, err := NewOpenAIClient(Config{APIKey: "sk-test", BaseURL: "http://localhost:1234/v1/"})
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestOpenAIClientChatCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"gpt-4o-mini",
			"choices":[{"index":0,"message":{"role":"assistant","content":"- A: Region"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":12,"completion_tokens":4,"total_tokens":16}}`))
	}))
	defer server.Close()

	c, err := NewOpenAIClient(Config{APIKey: "sk-test", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	resp, err := c.ChatCompletionWithUsage(context.Background(), "gpt-4o-mini", "outline", 100)
	require.NoError(t, err)
	assert.Equal(t, "- A: Region", resp.Content)
	assert.Equal(t, 16, resp.Usage.TotalTokens)

	g := NewGenerator(Config{Model: "gpt-4o-mini", Timeout: time.Minute}, c, nil)
	assert.Equal(t, "- A: Region", g.Ask(context.Background(), "outline"))
}

func TestOpenAIClientServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	c, err := NewOpenAIClient(Config{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = c.ChatCompletion(context.Background(), "gpt-4o-mini", "outline", 100)
	require.Error(t, err)
	assert.Equal(t, errors.CodeExternalService, errors.GetCode(err))

	out := NewGenerator(Config{Model: "gpt-4o-mini"}, c, nil).Ask(context.Background(), "outline")
	assert.True(t, strings.HasPrefix(out, FailurePrefix))
}
