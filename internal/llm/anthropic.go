package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/legal-assistant/backend/pkg/apperror"
	"github.com/legal-assistant/backend/pkg/logger"
)

// AnthropicClient serves "anthropic/<model>" bindings.
type AnthropicClient struct {
	client  *anthropic.Client
	binding Binding
}

func NewAnthropicClient(apiKey, baseURL string, binding Binding) *AnthropicClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	client := anthropic.NewClient(opts...)

	logger.Info("LLM client initialized",
		zap.String("provider", binding.Provider),
		zap.String("model", binding.Model),
	)

	return &AnthropicClient{
		client:  &client,
		binding: binding,
	}
}

func (c *AnthropicClient) Generate(ctx context.Context, req Request) (*Response, error) {
	const op = "llm.AnthropicClient.Generate"

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.binding.MaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.binding.Model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)),
		},
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt}}
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.binding.Temperature
	}
	if temperature > 0 {
		params.Temperature = anthropic.Float(float64(temperature))
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, apperror.E(apperror.KindModelInvocation, op, "failed to create message", err)
	}

	var content strings.Builder
	for _, block := range msg.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			content.WriteString(b.Text)
		}
	}
	if content.Len() == 0 {
		return nil, apperror.E(apperror.KindModelInvocation, op, "failed to create message",
			errors.New("model returned no text content"))
	}

	usage := Usage{
		PromptTokens:     int(msg.Usage.InputTokens),
		CompletionTokens: int(msg.Usage.OutputTokens),
		TotalTokens:      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
	}
	recordUsage(c.binding.ModelID(), usage)

	return &Response{
		Content: content.String(),
		Model:   string(msg.Model),
		Usage:   usage,
	}, nil
}
