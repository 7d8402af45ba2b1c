// Package tasks builds the prompt rubric for each kind of legal work.
// Every constructor is pure: the same inputs always render the same prompt.
package tasks

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindDocumentAnalysis    Kind = "document_analysis"
	KindContractReview      Kind = "contract_review"
	KindClauseExtraction    Kind = "clause_extraction"
	KindLegalResearch       Kind = "legal_research"
	KindCompliance          Kind = "compliance_assessment"
	KindRiskAssessment      Kind = "risk_assessment"
	KindGeneralConsultation Kind = "general_consultation"
)

const DefaultJurisdiction = "General"

type PromptTask struct {
	Kind           Kind
	Description    string
	ExpectedOutput string
}

// Render is the user prompt. The expected output is a hint to the model and
// is never checked against the response.
func (t PromptTask) Render() string {
	var b strings.Builder
	b.WriteString(t.Description)
	if t.ExpectedOutput != "" {
		b.WriteString("\n\nThis is the expected criteria for your final answer: ")
		b.WriteString(t.ExpectedOutput)
	}
	return b.String()
}

func AnalyzeDocument(content, documentType string) PromptTask {
	return PromptTask{
		Kind: KindDocumentAnalysis,
		Description: fmt.Sprintf(`Analyze the following %s document and provide a comprehensive analysis:

Document Content:
%s

Your analysis should include:
1. Document Overview: Brief summary of the document type and purpose
2. Key Parties: Identify all parties involved
3. Main Terms: Extract and explain key terms and conditions
4. Important Dates: List all critical dates, deadlines, and time periods
5. Key Obligations: Outline primary obligations of each party
6. Notable Clauses: Highlight any unusual or important clauses
7. Plain English Summary: Provide a clear, non-technical summary

Format your response in a structured, easy-to-read manner.`, documentType, content),
		ExpectedOutput: "A detailed analysis of the document including overview, parties, terms, dates, obligations, notable clauses, and plain English summary",
	}
}

func ReviewContract(content, contractType string) PromptTask {
	return PromptTask{
		Kind: KindContractReview,
		Description: fmt.Sprintf(`Review the following %s contract and provide a detailed assessment:

Contract Content:
%s

Your review should include:
1. Contract Type & Purpose: Identify the contract type and its purpose
2. Parties & Roles: List all parties and their roles
3. Key Terms Analysis:
   - Payment terms
   - Duration and termination conditions
   - Deliverables or performance obligations
   - Warranties and representations
4. Risk Assessment:
   - HIGH RISK clauses (could cause significant problems)
   - MEDIUM RISK clauses (require attention)
   - LOW RISK clauses (standard terms)
5. Missing Protections: Identify any important protections that should be included
6. Unfavorable Terms: Flag terms that may be one-sided or unfair
7. Recommendations: Provide specific recommendations for improvement

Rate the overall contract risk as: LOW, MEDIUM, or HIGH.`, contractType, content),
		ExpectedOutput: "A comprehensive contract review including risk assessment, problematic clauses, missing protections, and specific recommendations",
	}
}

func ExtractClauses(content string) PromptTask {
	return PromptTask{
		Kind: KindClauseExtraction,
		Description: fmt.Sprintf(`Extract and categorize all important clauses from the following contract:

Contract Content:
%s

Identify and extract the following clause types:
1. Payment & Financial Clauses
2. Term & Termination Clauses
3. Liability & Indemnification Clauses
4. Confidentiality & Non-Disclosure Clauses
5. Intellectual Property Clauses
6. Dispute Resolution Clauses
7. Warranty & Representation Clauses
8. Force Majeure Clauses
9. Non-Compete & Non-Solicitation Clauses
10. Governing Law & Jurisdiction Clauses

For each clause found:
- Quote the actual clause text
- Explain what it means in plain English
- Assess its fairness (Favorable/Neutral/Unfavorable)
- Note any concerns or recommendations`, content),
		ExpectedOutput: "A categorized list of all important clauses with explanations, fairness assessments, and recommendations",
	}
}

// LegalResearch falls back to DefaultJurisdiction when jurisdiction is blank.
func LegalResearch(query, jurisdiction string) PromptTask {
	if strings.TrimSpace(jurisdiction) == "" {
		jurisdiction = DefaultJurisdiction
	}
	return PromptTask{
		Kind: KindLegalResearch,
		Description: fmt.Sprintf(`Conduct comprehensive legal research on the following query:

Query: %s
Jurisdiction: %s

Your research should include:
1. Legal Framework: Explain the relevant legal framework and applicable laws
2. Key Legal Principles: Identify and explain key legal principles
3. Relevant Case Law: Reference important cases and precedents (if applicable)
4. Statutory Provisions: Cite relevant statutes and regulations
5. Current Trends: Discuss any recent developments or trends in this area
6. Practical Implications: Explain practical implications and considerations
7. Recommendations: Provide guidance based on the research

Note: While this research is comprehensive, it is for informational purposes only
and should not be considered legal advice. Consult with a licensed attorney for
specific legal matters.`, query, jurisdiction),
		ExpectedOutput: "A thorough legal research report with legal framework, principles, case law, statutes, trends, and practical guidance",
	}
}

func ComplianceAssessment(businessContext, industry string) PromptTask {
	return PromptTask{
		Kind: KindCompliance,
		Description: fmt.Sprintf(`Assess compliance requirements for the following business context:

Business Context: %s
Industry: %s

Your compliance assessment should cover:
1. Regulatory Framework: Identify applicable regulations and standards
2. Key Compliance Requirements: List main compliance obligations
3. Industry-Specific Requirements: Highlight industry-specific regulations
4. Data Privacy & Security: Address data protection requirements (GDPR, CCPA, etc.)
5. Employment & Labor Laws: Cover relevant employment compliance
6. Financial & Tax Compliance: Note financial reporting and tax obligations
7. Compliance Gaps: Identify potential compliance gaps or risks
8. Recommended Actions: Provide a prioritized action plan

Rate compliance complexity as: LOW, MEDIUM, or HIGH.`, businessContext, industry),
		ExpectedOutput: "A comprehensive compliance assessment with regulatory requirements, gaps, risks, and prioritized action plan",
	}
}

func RiskAssessment(scenario, riskType string) PromptTask {
	return PromptTask{
		Kind: KindRiskAssessment,
		Description: fmt.Sprintf(`Assess legal risks for the following scenario:

Scenario: %s
Risk Type: %s

Your risk assessment should include:
1. Risk Identification: Identify all potential legal risks
2. Risk Analysis:
   - Likelihood (Low/Medium/High)
   - Impact (Low/Medium/High)
   - Overall Risk Rating (Low/Medium/High/Critical)
3. Detailed Risk Breakdown: Analyze each identified risk
4. Potential Consequences: Describe possible outcomes if risks materialize
5. Mitigation Strategies: Provide specific risk mitigation recommendations
6. Best Practices: Suggest industry best practices to minimize risks
7. Action Plan: Create a prioritized action plan

Prioritize risks by severity and provide clear, actionable recommendations.`, scenario, riskType),
		ExpectedOutput: "A detailed risk assessment with identified risks, ratings, consequences, mitigation strategies, and prioritized action plan",
	}
}

// GeneralConsultation appends an Additional Context block only when context is non-empty.
func GeneralConsultation(question, context string) PromptTask {
	additional := ""
	if context != "" {
		additional = "\n\nAdditional Context: " + context
	}
	return PromptTask{
		Kind: KindGeneralConsultation,
		Description: fmt.Sprintf(`Provide clear, helpful guidance on the following legal question:

Question: %s%s

Your response should:
1. Address the Question: Provide a direct answer to the question
2. Explain the Law: Explain relevant legal principles and concepts
3. Consider Different Scenarios: Discuss various situations or interpretations
4. Practical Guidance: Offer practical advice and considerations
5. Next Steps: Suggest appropriate next steps
6. Important Disclaimers: Clarify limitations and when to seek legal counsel

Remember to:
- Explain legal concepts in plain, accessible language
- Avoid excessive legal jargon
- Be clear this is information, not legal advice
- Recommend consulting a licensed attorney for specific legal matters
- Be thorough but concise`, question, additional),
		ExpectedOutput: "A clear, comprehensive response addressing the legal question with explanations, practical guidance, and appropriate disclaimers",
	}
}
