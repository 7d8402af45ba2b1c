package crew

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/legal-assistant/backend/internal/agents"
	"github.com/legal-assistant/backend/internal/llm"
	"github.com/legal-assistant/backend/internal/llm/llmtest"
	"github.com/legal-assistant/backend/internal/tasks"
	"github.com/legal-assistant/backend/pkg/apperror"
)

var testBinding = llm.Binding{Provider: "groq", Model: "llama-3.3-70b-versatile", Temperature: 0.7, MaxTokens: 8000}

func TestRunPassesRoleAndTask(t *testing.T) {
	gen := new(llmtest.MockGenerator)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return req.Temperature == testBinding.Temperature &&
			req.MaxTokens == testBinding.MaxTokens &&
			req.SystemPrompt == agents.LegalAnalyst(testBinding).SystemPrompt() &&
			req.UserPrompt == tasks.AnalyzeDocument("text", "lease").Render()
	})).Return(llmtest.Reply("analysis"), nil).Once()

	c := New(gen, testBinding)

	out, err := c.AnalyzeDocument(context.Background(), "text", "lease")
	require.NoError(t, err)
	assert.Equal(t, "analysis", out)
	gen.AssertExpectations(t)
}

func TestRunEmptyPipeline(t *testing.T) {
	c := New(new(llmtest.MockGenerator), testBinding)

	_, err := c.Run(context.Background(), Pipeline{Name: "empty"})
	require.Error(t, err)
}

func TestSingleStepUseCases(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		prompt string
		run    func(c *Crew) (string, error)
	}{
		{
			name:   "review contract",
			role:   "Contract Review Specialist",
			prompt: "Review the following NDA contract",
			run: func(c *Crew) (string, error) {
				return c.ReviewContract(context.Background(), "body", "NDA")
			},
		},
		{
			name:   "extract clauses",
			role:   "Contract Review Specialist",
			prompt: "Extract and categorize all important clauses",
			run: func(c *Crew) (string, error) {
				return c.ExtractClauses(context.Background(), "body")
			},
		},
		{
			name:   "research",
			role:   "Legal Research Specialist",
			prompt: "Jurisdiction: General",
			run: func(c *Crew) (string, error) {
				return c.ConductResearch(context.Background(), "adverse possession", "")
			},
		},
		{
			name:   "compliance",
			role:   "Compliance & Regulatory Advisor",
			prompt: "Industry: Healthcare",
			run: func(c *Crew) (string, error) {
				return c.AssessCompliance(context.Background(), "telehealth clinic", "Healthcare")
			},
		},
		{
			name:   "risk",
			role:   "Legal Risk Assessment Expert",
			prompt: "Risk Type: Employment",
			run: func(c *Crew) (string, error) {
				return c.AssessRisk(context.Background(), "layoffs", "Employment")
			},
		},
		{
			name:   "consultation",
			role:   "General Legal Consultant",
			prompt: "Question: Can I sublet?",
			run: func(c *Crew) (string, error) {
				return c.GeneralConsultation(context.Background(), "Can I sublet?", "")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := new(llmtest.MockGenerator)
			gen.On("Generate", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
				return llmtest.RoleMatches(req, tt.role) && llmtest.PromptMatches(req, tt.prompt)
			})).Return(llmtest.Reply(tt.name+" output"), nil).Once()

			out, err := tt.run(New(gen, testBinding))
			require.NoError(t, err)
			assert.Equal(t, tt.name+" output", out)
			gen.AssertExpectations(t)
		})
	}
}

func TestComprehensiveContractAnalysisOrder(t *testing.T) {
	gen := new(llmtest.MockGenerator)

	var order []string
	gen.On("Generate", mock.Anything, llmtest.RoleIs("Contract Review Specialist")).
		Run(func(args mock.Arguments) { order = append(order, "review") }).
		Return(llmtest.Reply("review text"), nil).Once()
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return llmtest.RoleMatches(req, "Legal Risk Assessment Expert") &&
			llmtest.PromptMatches(req, "Scenario: Contract review for NDA\nRisk Type: Contractual Risk") &&
			!llmtest.PromptMatches(req, "review text")
	})).
		Run(func(args mock.Arguments) { order = append(order, "risk") }).
		Return(llmtest.Reply("risk text"), nil).Once()

	c := New(gen, testBinding)

	res, err := c.ComprehensiveContractAnalysis(context.Background(), "contract body", "NDA")
	require.NoError(t, err)

	assert.Equal(t, []string{"review", "risk"}, order)
	assert.Equal(t, "review text", res.Review)
	assert.Equal(t, "risk text", res.Risk)
	gen.AssertExpectations(t)
}

func TestComprehensiveStopsOnFirstFailure(t *testing.T) {
	gen := new(llmtest.MockGenerator)
	gen.On("Generate", mock.Anything, llmtest.RoleIs("Contract Review Specialist")).
		Return(nil, errors.New("upstream 503")).Once()

	c := New(gen, testBinding)

	res, err := c.ComprehensiveContractAnalysis(context.Background(), "contract body", "NDA")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, apperror.Is(err, apperror.KindModelInvocation))
	assert.Contains(t, err.Error(), "upstream 503")
	gen.AssertNumberOfCalls(t, "Generate", 1)
}

func TestRunKeepsModelErrorKind(t *testing.T) {
	gen := new(llmtest.MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).
		Return(nil, apperror.E(apperror.KindModelInvocation, "llm.Generate", "model backend credential is not configured", nil))

	_, err := New(gen, testBinding).AssessRisk(context.Background(), "s", "r")
	require.Error(t, err)
	assert.Equal(t, "model backend credential is not configured", err.Error())
}
