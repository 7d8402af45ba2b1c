// Package llmtest provides a testify mock of llm.Generator.
package llmtest

import (
	"context"
	"strings"

	"github.com/stretchr/testify/mock"

	"github.com/legal-assistant/backend/internal/llm"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Response), args.Error(1)
}

// Reply is a shorthand for a successful response with the given content.
func Reply(content string) *llm.Response {
	return &llm.Response{
		Content: content,
		Model:   "test-model",
		Usage:   llm.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}
}

// PromptMatches reports whether the user prompt contains substr.
func PromptMatches(req llm.Request, substr string) bool {
	return strings.Contains(req.UserPrompt, substr)
}

// RoleMatches reports whether the system prompt is for the named role.
func RoleMatches(req llm.Request, name string) bool {
	return strings.Contains(req.SystemPrompt, "You are "+name+".")
}

func PromptContains(substr string) any {
	return mock.MatchedBy(func(req llm.Request) bool {
		return PromptMatches(req, substr)
	})
}

func RoleIs(name string) any {
	return mock.MatchedBy(func(req llm.Request) bool {
		return RoleMatches(req, name)
	})
}
