package llm

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/legal-assistant/backend/internal/metrics"
	"github.com/legal-assistant/backend/pkg/apperror"
	"github.com/legal-assistant/backend/pkg/logger"
)

// OpenAIClient talks to OpenAI and to OpenAI-compatible APIs such as Groq.
type OpenAIClient struct {
	client  *openai.Client
	binding Binding
}

func NewOpenAIClient(apiKey, baseURL string, binding Binding) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	logger.Info("LLM client initialized",
		zap.String("provider", binding.Provider),
		zap.String("model", binding.Model),
		zap.String("base_url", cfg.BaseURL),
	)

	return &OpenAIClient{
		client:  openai.NewClientWithConfig(cfg),
		binding: binding,
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, req Request) (*Response, error) {
	const op = "llm.OpenAIClient.Generate"

	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.binding.Temperature
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.binding.MaxTokens
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: req.UserPrompt,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.binding.Model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, apperror.E(apperror.KindModelInvocation, op, "failed to create completion", err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperror.E(apperror.KindModelInvocation, op, "failed to create completion",
			errors.New("model returned no choices"))
	}

	logger.Debug("LLM completion generated",
		zap.String("model", resp.Model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	usage := Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	recordUsage(c.binding.ModelID(), usage)

	return &Response{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage:   usage,
	}, nil
}

func recordUsage(model string, usage Usage) {
	metrics.LLMTokensUsed.WithLabelValues(model, "prompt").Add(float64(usage.PromptTokens))
	metrics.LLMTokensUsed.WithLabelValues(model, "completion").Add(float64(usage.CompletionTokens))
}
