package llm

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/legal-assistant/backend/pkg/apperror"
	"github.com/legal-assistant/backend/pkg/config"
	"github.com/legal-assistant/backend/pkg/logger"
)

// Generator is the single call the orchestrator makes against a model backend.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

type Request struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
	MaxTokens    int
}

type Response struct {
	Content string
	Model   string
	Usage   Usage
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Binding is the model configuration every role shares. It carries no credential.
type Binding struct {
	Provider    string
	Model       string
	Temperature float32
	MaxTokens   int
}

// ModelID is the provider-qualified id reported to clients.
func (b Binding) ModelID() string {
	if b.Provider == "" {
		return b.Model
	}
	return b.Provider + "/" + b.Model
}

func NewBinding(cfg config.LLMConfig) Binding {
	provider, model := ParseModel(cfg.Model)
	return Binding{
		Provider:    provider,
		Model:       model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}
}

type providerSpec struct {
	baseURL     string
	needsAPIKey bool
	anthropic   bool
}

var providers = map[string]providerSpec{
	"openai":    {needsAPIKey: true},
	"groq":      {baseURL: "https://api.groq.com/openai/v1", needsAPIKey: true},
	"ollama":    {baseURL: "http://localhost:11434/v1"},
	"anthropic": {needsAPIKey: true, anthropic: true},
}

// ParseModel splits "groq/llama-3.3-70b-versatile" into provider and model.
// Ids without a known provider prefix are treated as OpenAI models.
func ParseModel(id string) (provider, model string) {
	id = strings.TrimSpace(id)
	if i := strings.IndexByte(id, '/'); i > 0 {
		prefix := strings.ToLower(id[:i])
		if _, ok := providers[prefix]; ok {
			return prefix, id[i+1:]
		}
	}
	return "openai", id
}

// NewGenerator builds the client for the binding's provider. A missing
// credential yields a generator that fails every call instead of an error,
// so the rest of the API keeps serving.
func NewGenerator(binding Binding, cfg config.LLMConfig) Generator {
	spec, ok := providers[binding.Provider]
	if !ok {
		spec = providers["openai"]
	}

	if spec.needsAPIKey && cfg.APIKey == "" {
		logger.Warn("LLM credential missing, model calls will fail",
			zap.String("model", binding.ModelID()),
		)
		return unavailable{reason: "model backend credential is not configured"}
	}

	if spec.anthropic {
		return NewAnthropicClient(cfg.APIKey, cfg.BaseURL, binding)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = spec.baseURL
	}
	return NewOpenAIClient(cfg.APIKey, baseURL, binding)
}

type unavailable struct {
	reason string
}

func (u unavailable) Generate(ctx context.Context, req Request) (*Response, error) {
	return nil, apperror.E(apperror.KindModelInvocation, "llm.Generate", u.reason, nil)
}
