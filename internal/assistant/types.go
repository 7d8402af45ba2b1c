package assistant

import (
	"github.com/legal-assistant/backend/internal/storage/models"
)

type ChatRequest struct {
	UserID           string `json:"user_id" validate:"required"`
	ConversationID   string `json:"conversation_id"`
	Message          string `json:"message" validate:"required"`
	ConversationType string `json:"conversation_type"`
	Context          string `json:"context"`
}

type ChatResponse struct {
	ConversationID string `json:"conversation_id"`
	Response       string `json:"response"`
	Timestamp      string `json:"timestamp"`
}

type UploadRequest struct {
	UserID         string `json:"user_id" validate:"required"`
	ConversationID string `json:"conversation_id"`
	FileName       string `json:"file_name" validate:"required"`
	ContentType    string `json:"content_type"`
	Data           []byte `json:"-"`
}

type UploadResponse struct {
	DocumentID string                  `json:"document_id"`
	FileName   string                  `json:"file_name"`
	Text       string                  `json:"text"`
	Metadata   models.DocumentMetadata `json:"metadata"`
}

type AnalyzeRequest struct {
	UserID       string `json:"user_id" validate:"required"`
	DocumentID   string `json:"document_id" validate:"required"`
	AnalysisType string `json:"analysis_type" validate:"required"`
}

type AnalyzeResponse struct {
	DocumentID   string `json:"document_id"`
	AnalysisType string `json:"analysis_type"`
	Analysis     string `json:"analysis"`
	Review       string `json:"review,omitempty"`
	Timestamp    string `json:"timestamp"`
}

type ResearchRequest struct {
	UserID         string `json:"user_id" validate:"required"`
	ConversationID string `json:"conversation_id"`
	Query          string `json:"query" validate:"required"`
	Jurisdiction   string `json:"jurisdiction"`
}

type ResearchResponse struct {
	ResearchID   string `json:"research_id"`
	Query        string `json:"query"`
	Jurisdiction string `json:"jurisdiction"`
	Research     string `json:"research"`
	Timestamp    string `json:"timestamp"`
}

type ComplianceRequest struct {
	UserID          string `json:"user_id" validate:"required"`
	BusinessContext string `json:"business_context" validate:"required"`
	Industry        string `json:"industry" validate:"required"`
}

type ComplianceResponse struct {
	BusinessContext string `json:"business_context"`
	Industry        string `json:"industry"`
	Assessment      string `json:"assessment"`
	Timestamp       string `json:"timestamp"`
}

type RiskRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Scenario string `json:"scenario" validate:"required"`
	RiskType string `json:"risk_type" validate:"required"`
}

type RiskResponse struct {
	Scenario   string `json:"scenario"`
	RiskType   string `json:"risk_type"`
	Assessment string `json:"assessment"`
	Timestamp  string `json:"timestamp"`
}

type Info struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Model   string `json:"model"`
}

// Label is one entry of a selectable type table.
type Label struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Types struct {
	ConversationTypes []Label `json:"conversation_types"`
	AnalysisTypes     []Label `json:"analysis_types"`
}

var conversationTypes = []Label{
	{"general", "General Legal Consultation"},
	{"contract_review", "Contract Review & Analysis"},
	{"legal_research", "Legal Research & Case Law"},
	{"document_drafting", "Document Drafting Assistance"},
	{"compliance", "Compliance & Regulatory Guidance"},
	{"risk_assessment", "Risk Assessment"},
}

var analysisTypes = []Label{
	{AnalysisDocument, "Document Analysis"},
	{AnalysisContractReview, "Contract Review"},
	{AnalysisClauseExtraction, "Clause Extraction"},
	{AnalysisComprehensive, "Comprehensive Contract Review"},
	{"risk_assessment", "Risk Assessment"},
	{"compliance_check", "Compliance Check"},
	{"legal_summary", "Legal Summary"},
}

const (
	AnalysisDocument         = "document_analysis"
	AnalysisContractReview   = "contract_review"
	AnalysisClauseExtraction = "clause_extraction"
	AnalysisComprehensive    = "comprehensive_review"
)
