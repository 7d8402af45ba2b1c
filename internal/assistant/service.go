// Package assistant implements one operation per API endpoint on top of the
// row store and the agent crew. It knows nothing about HTTP.
package assistant

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/legal-assistant/backend/internal/crew"
	"github.com/legal-assistant/backend/internal/extraction"
	"github.com/legal-assistant/backend/internal/metrics"
	"github.com/legal-assistant/backend/internal/middleware/validation"
	"github.com/legal-assistant/backend/internal/storage"
	"github.com/legal-assistant/backend/internal/storage/blob"
	"github.com/legal-assistant/backend/internal/storage/models"
	"github.com/legal-assistant/backend/internal/tasks"
	"github.com/legal-assistant/backend/pkg/apperror"
	"github.com/legal-assistant/backend/pkg/logger"
	"github.com/legal-assistant/backend/pkg/utils"
)

const (
	apiMessage = "Legal AI Assistant API"
	apiVersion = "1.0.0"

	defaultConversationType = "general"
	defaultContractType     = "contract"
	defaultDocumentType     = "document"

	titleLength   = 100
	summaryLength = 500
)

// Orchestrator is the subset of the crew the service drives.
type Orchestrator interface {
	AnalyzeDocument(ctx context.Context, content, documentType string) (string, error)
	ReviewContract(ctx context.Context, content, contractType string) (string, error)
	ExtractClauses(ctx context.Context, content string) (string, error)
	ConductResearch(ctx context.Context, query, jurisdiction string) (string, error)
	AssessCompliance(ctx context.Context, businessContext, industry string) (string, error)
	AssessRisk(ctx context.Context, scenario, riskType string) (string, error)
	GeneralConsultation(ctx context.Context, question, context string) (string, error)
	ComprehensiveContractAnalysis(ctx context.Context, content, contractType string) (*crew.ComprehensiveResult, error)
}

type Service struct {
	store    storage.Store
	crew     Orchestrator
	uploader blob.Uploader
	model    string
	now      func() time.Time
}

type Option func(*Service)

// WithUploader stores the original bytes of every uploaded document.
func WithUploader(u blob.Uploader) Option {
	return func(s *Service) { s.uploader = u }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store storage.Store, c Orchestrator, model string, opts ...Option) *Service {
	s := &Service{
		store: store,
		crew:  c,
		model: model,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Info() Info {
	return Info{Message: apiMessage, Version: apiVersion, Model: s.model}
}

func (s *Service) Types() Types {
	return Types{ConversationTypes: conversationTypes, AnalysisTypes: analysisTypes}
}

func (s *Service) timestamp() string {
	return utils.Timestamp(s.now())
}

// Chat starts a conversation when none is given, then records the user turn,
// consults the general legal consultant and records the answer. Earlier rows
// are kept if a later step fails.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	const op = "assistant.Chat"

	if err := validation.Struct(op, req); err != nil {
		return nil, err
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationType := req.ConversationType
		if conversationType == "" {
			conversationType = defaultConversationType
		}

		conv := &models.Conversation{
			UserID:           req.UserID,
			Title:            utils.Truncate(req.Message, titleLength),
			ConversationType: conversationType,
			Status:           models.StatusActive,
			CreatedAt:        s.now().UTC(),
		}
		if err := s.store.CreateConversation(ctx, conv); err != nil {
			return nil, err
		}
		conversationID = conv.ID

		logger.Info("Conversation created",
			zap.String("conversation_id", conversationID),
			zap.String("user_id", req.UserID),
			zap.String("conversation_type", conversationType),
		)
	}

	if err := s.store.CreateMessage(ctx, &models.Message{
		ConversationID: conversationID,
		Role:           models.RoleUser,
		Content:        req.Message,
		CreatedAt:      s.now().UTC(),
	}); err != nil {
		return nil, err
	}

	response, err := s.crew.GeneralConsultation(ctx, req.Message, req.Context)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateMessage(ctx, &models.Message{
		ConversationID: conversationID,
		Role:           models.RoleAssistant,
		Content:        response,
		CreatedAt:      s.now().UTC(),
	}); err != nil {
		return nil, err
	}

	return &ChatResponse{
		ConversationID: conversationID,
		Response:       response,
		Timestamp:      s.timestamp(),
	}, nil
}

func (s *Service) UploadDocument(ctx context.Context, req UploadRequest) (*UploadResponse, error) {
	const op = "assistant.UploadDocument"

	if err := validation.Struct(op, req); err != nil {
		return nil, err
	}

	mediaType := resolveMediaType(req.ContentType, req.FileName)

	result, err := extraction.Extract(req.Data, mediaType)
	if err != nil {
		metrics.DocumentsProcessed.WithLabelValues(formatLabel(mediaType), "failed").Inc()
		return nil, err
	}

	storagePath := blob.ObjectName(req.UserID, req.FileName)
	if s.uploader != nil {
		if _, err := s.uploader.Upload(ctx, storagePath, mediaType, bytes.NewReader(req.Data)); err != nil {
			metrics.DocumentsProcessed.WithLabelValues(formatLabel(mediaType), "failed").Inc()
			return nil, apperror.E(apperror.KindStorage, op, "failed to store original file", err)
		}
	}

	metadata := models.DocumentMetadata{
		WordCount: result.WordCount,
		CharCount: result.CharCount,
	}

	doc := &models.Document{
		UserID:         req.UserID,
		ConversationID: optional(req.ConversationID),
		FileName:       req.FileName,
		FileType:       mediaType,
		FileSize:       int64(len(req.Data)),
		StoragePath:    storagePath,
		Processed:      true,
		Text:           result.Text,
		Metadata:       models.JSON(metadata),
		CreatedAt:      s.now().UTC(),
	}
	if err := s.store.CreateDocument(ctx, doc); err != nil {
		metrics.DocumentsProcessed.WithLabelValues(formatLabel(mediaType), "failed").Inc()
		return nil, err
	}

	metrics.DocumentsProcessed.WithLabelValues(formatLabel(mediaType), "processed").Inc()
	logger.Info("Document uploaded",
		zap.String("document_id", doc.ID),
		zap.String("file_name", doc.FileName),
		zap.Int("word_count", metadata.WordCount),
	)

	return &UploadResponse{
		DocumentID: doc.ID,
		FileName:   doc.FileName,
		Text:       result.Text,
		Metadata:   metadata,
	}, nil
}

// AnalyzeDocument runs the pipeline named by the analysis type over the
// stored document text. Unknown types get the general document analysis.
func (s *Service) AnalyzeDocument(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error) {
	const op = "assistant.AnalyzeDocument"

	if err := validation.Struct(op, req); err != nil {
		return nil, err
	}

	doc, err := s.store.GetDocument(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}

	var analysis, review string
	switch req.AnalysisType {
	case AnalysisContractReview:
		analysis, err = s.crew.ReviewContract(ctx, doc.Text, orDefault(doc.FileType, defaultContractType))
	case AnalysisClauseExtraction:
		analysis, err = s.crew.ExtractClauses(ctx, doc.Text)
	case AnalysisComprehensive:
		var res *crew.ComprehensiveResult
		res, err = s.crew.ComprehensiveContractAnalysis(ctx, doc.Text, orDefault(doc.FileType, defaultContractType))
		if err == nil {
			analysis, review = res.Risk, res.Review
		}
	default:
		analysis, err = s.crew.AnalyzeDocument(ctx, doc.Text, orDefault(doc.FileType, defaultDocumentType))
	}
	if err != nil {
		return nil, err
	}

	results := map[string]string{"analysis": analysis}
	if review != "" {
		results["review"] = review
	}

	if err := s.store.CreateDocumentAnalysis(ctx, &models.DocumentAnalysis{
		DocumentID:   req.DocumentID,
		AnalysisType: req.AnalysisType,
		Results:      models.JSON(results),
		CreatedAt:    s.now().UTC(),
	}); err != nil {
		return nil, err
	}

	return &AnalyzeResponse{
		DocumentID:   req.DocumentID,
		AnalysisType: req.AnalysisType,
		Analysis:     analysis,
		Review:       review,
		Timestamp:    s.timestamp(),
	}, nil
}

func (s *Service) LegalResearch(ctx context.Context, req ResearchRequest) (*ResearchResponse, error) {
	const op = "assistant.LegalResearch"

	if err := validation.Struct(op, req); err != nil {
		return nil, err
	}

	jurisdiction := req.Jurisdiction
	if strings.TrimSpace(jurisdiction) == "" {
		jurisdiction = tasks.DefaultJurisdiction
	}

	research, err := s.crew.ConductResearch(ctx, req.Query, jurisdiction)
	if err != nil {
		return nil, err
	}

	row := &models.LegalResearch{
		UserID:         req.UserID,
		ConversationID: optional(req.ConversationID),
		Query:          req.Query,
		Jurisdiction:   jurisdiction,
		Results:        models.JSON(map[string]string{"research": research}),
		Summary:        utils.Truncate(research, summaryLength),
		CreatedAt:      s.now().UTC(),
	}
	if err := s.store.CreateLegalResearch(ctx, row); err != nil {
		return nil, err
	}

	return &ResearchResponse{
		ResearchID:   row.ID,
		Query:        req.Query,
		Jurisdiction: jurisdiction,
		Research:     research,
		Timestamp:    s.timestamp(),
	}, nil
}

// ComplianceAssessment writes no row.
func (s *Service) ComplianceAssessment(ctx context.Context, req ComplianceRequest) (*ComplianceResponse, error) {
	const op = "assistant.ComplianceAssessment"

	if err := validation.Struct(op, req); err != nil {
		return nil, err
	}

	assessment, err := s.crew.AssessCompliance(ctx, req.BusinessContext, req.Industry)
	if err != nil {
		return nil, err
	}

	return &ComplianceResponse{
		BusinessContext: req.BusinessContext,
		Industry:        req.Industry,
		Assessment:      assessment,
		Timestamp:       s.timestamp(),
	}, nil
}

// RiskAssessment records exactly one completed agent task per successful run.
func (s *Service) RiskAssessment(ctx context.Context, req RiskRequest) (*RiskResponse, error) {
	const op = "assistant.RiskAssessment"

	if err := validation.Struct(op, req); err != nil {
		return nil, err
	}

	assessment, err := s.crew.AssessRisk(ctx, req.Scenario, req.RiskType)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateAgentTask(ctx, &models.AgentTask{
		UserID:    req.UserID,
		AgentType: "risk_assessment",
		TaskType:  req.RiskType,
		InputData: models.JSON(map[string]string{
			"scenario":  req.Scenario,
			"risk_type": req.RiskType,
		}),
		OutputData: models.JSON(map[string]string{"assessment": assessment}),
		Status:     models.StatusCompleted,
		CreatedAt:  s.now().UTC(),
	}); err != nil {
		return nil, err
	}

	return &RiskResponse{
		Scenario:   req.Scenario,
		RiskType:   req.RiskType,
		Assessment: assessment,
		Timestamp:  s.timestamp(),
	}, nil
}

func (s *Service) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	return s.store.ListConversations(ctx, userID)
}

func (s *Service) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	return s.store.ListMessages(ctx, conversationID)
}

func (s *Service) ListDocuments(ctx context.Context, userID string) ([]models.Document, error) {
	return s.store.ListDocuments(ctx, userID)
}

// Ready reports whether the row store answers.
func (s *Service) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// resolveMediaType falls back to the file extension only when the client
// sent no usable content type.
func resolveMediaType(contentType, fileName string) string {
	ct := strings.TrimSpace(contentType)
	if ct != "" && !strings.HasPrefix(strings.ToLower(ct), "application/octet-stream") {
		return ct
	}
	if ext := strings.TrimPrefix(filepath.Ext(fileName), "."); ext != "" && extraction.Supported(ext) {
		return strings.ToLower(ext)
	}
	return ct
}

func formatLabel(mediaType string) string {
	if f, ok := extraction.FormatOf(mediaType); ok {
		return string(f)
	}
	return "unsupported"
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
