package crew

import (
	"context"

	"github.com/legal-assistant/backend/internal/agents"
	"github.com/legal-assistant/backend/internal/tasks"
)

const contractualRisk = "Contractual Risk"

func (c *Crew) AnalyzeDocument(ctx context.Context, content, documentType string) (string, error) {
	return c.single(ctx, "analyze_document",
		agents.LegalAnalyst(c.binding), tasks.AnalyzeDocument(content, documentType))
}

func (c *Crew) ReviewContract(ctx context.Context, content, contractType string) (string, error) {
	return c.single(ctx, "review_contract",
		agents.ContractReviewer(c.binding), tasks.ReviewContract(content, contractType))
}

func (c *Crew) ExtractClauses(ctx context.Context, content string) (string, error) {
	return c.single(ctx, "extract_clauses",
		agents.ContractReviewer(c.binding), tasks.ExtractClauses(content))
}

func (c *Crew) ConductResearch(ctx context.Context, query, jurisdiction string) (string, error) {
	return c.single(ctx, "conduct_research",
		agents.LegalResearcher(c.binding), tasks.LegalResearch(query, jurisdiction))
}

func (c *Crew) AssessCompliance(ctx context.Context, businessContext, industry string) (string, error) {
	return c.single(ctx, "assess_compliance",
		agents.ComplianceAdvisor(c.binding), tasks.ComplianceAssessment(businessContext, industry))
}

func (c *Crew) AssessRisk(ctx context.Context, scenario, riskType string) (string, error) {
	return c.single(ctx, "assess_risk",
		agents.RiskAssessor(c.binding), tasks.RiskAssessment(scenario, riskType))
}

func (c *Crew) GeneralConsultation(ctx context.Context, question, context string) (string, error) {
	return c.single(ctx, "general_consultation",
		agents.LegalConsultant(c.binding), tasks.GeneralConsultation(question, context))
}

type ComprehensiveResult struct {
	Review string
	Risk   string
}

// ComprehensiveContractAnalysis runs the contract review and then a risk
// assessment of the same contract type. The risk step is prompted only from
// the contract type, not from the review text.
func (c *Crew) ComprehensiveContractAnalysis(ctx context.Context, content, contractType string) (*ComprehensiveResult, error) {
	res, err := c.Run(ctx, Pipeline{
		Name: "comprehensive_contract_analysis",
		Steps: []Step{
			{
				Role: agents.ContractReviewer(c.binding),
				Task: tasks.ReviewContract(content, contractType),
			},
			{
				Role: agents.RiskAssessor(c.binding),
				Task: tasks.RiskAssessment("Contract review for "+contractType, contractualRisk),
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return &ComprehensiveResult{
		Review: res.Outputs[0].Content,
		Risk:   res.Final,
	}, nil
}
