package assistant

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/legal-assistant/backend/internal/crew"
	"github.com/legal-assistant/backend/internal/llm"
	"github.com/legal-assistant/backend/internal/llm/llmtest"
	"github.com/legal-assistant/backend/internal/storage/models"
	"github.com/legal-assistant/backend/internal/storage/sqlite"
	"github.com/legal-assistant/backend/pkg/apperror"
)

var (
	testBinding = llm.Binding{Provider: "groq", Model: "llama-3.3-70b-versatile", Temperature: 0.7, MaxTokens: 8000}
	fixedNow    = time.Date(2026, 5, 4, 12, 30, 0, 0, time.UTC)
)

type fixture struct {
	svc   *Service
	store *sqlite.Client
	gen   *llmtest.MockGenerator
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	store, err := sqlite.NewClient(filepath.Join(t.TempDir(), "legal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	gen := new(llmtest.MockGenerator)
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	svc := NewService(store, crew.New(gen, testBinding), testBinding.ModelID(), opts...)

	return &fixture{svc: svc, store: store, gen: gen}
}

func TestChatCreatesConversation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.gen.On("Generate", mock.Anything, llmtest.RoleIs("General Legal Consultant")).
		Return(llmtest.Reply("Consideration is something of value exchanged."), nil).Once()

	resp, err := f.svc.Chat(ctx, ChatRequest{
		UserID:           "u1",
		Message:          "What is consideration in contract law?",
		ConversationType: "general",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ConversationID)
	assert.Equal(t, "Consideration is something of value exchanged.", resp.Response)
	assert.Equal(t, "2026-05-04T12:30:00.000000", resp.Timestamp)

	convs, err := f.store.ListConversations(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, resp.ConversationID, convs[0].ID)
	assert.Equal(t, "What is consideration in contract law?", convs[0].Title)
	assert.Equal(t, "general", convs[0].ConversationType)

	msgs, err := f.store.ListMessages(ctx, resp.ConversationID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, models.RoleAssistant, msgs[1].Role)
	f.gen.AssertExpectations(t)
}

func TestChatExistingConversationAndContext(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	conv := &models.Conversation{UserID: "u1", Title: "lease"}
	require.NoError(t, f.store.CreateConversation(ctx, conv))

	f.gen.On("Generate", mock.Anything, llmtest.PromptContains("Additional Context: Tenant in Ohio")).
		Return(llmtest.Reply("answer"), nil).Once()

	resp, err := f.svc.Chat(ctx, ChatRequest{
		UserID:         "u1",
		ConversationID: conv.ID,
		Message:        "Can I break my lease?",
		Context:        "Tenant in Ohio",
	})
	require.NoError(t, err)
	assert.Equal(t, conv.ID, resp.ConversationID)

	convs, err := f.store.ListConversations(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, convs, 1)
}

func TestChatTitleTruncated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.gen.On("Generate", mock.Anything, mock.Anything).Return(llmtest.Reply("ok"), nil)

	long := bytes.Repeat([]byte("é"), 150)
	_, err := f.svc.Chat(ctx, ChatRequest{UserID: "u1", Message: string(long)})
	require.NoError(t, err)

	convs, err := f.store.ListConversations(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, string(bytes.Repeat([]byte("é"), 100)), convs[0].Title)
	assert.Equal(t, "general", convs[0].ConversationType)
}

func TestChatModelFailureKeepsUserMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	conv := &models.Conversation{UserID: "u1", Title: "t"}
	require.NoError(t, f.store.CreateConversation(ctx, conv))

	f.gen.On("Generate", mock.Anything, mock.Anything).Return(nil, errors.New("rate limited"))

	_, err := f.svc.Chat(ctx, ChatRequest{UserID: "u1", ConversationID: conv.ID, Message: "hi"})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindModelInvocation))

	msgs, err := f.store.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
}

func TestChatValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Chat(context.Background(), ChatRequest{Message: "hi"})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Equal(t, "user_id is required", err.Error())
	f.gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestUploadPlainText(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.UploadDocument(ctx, UploadRequest{
		UserID:      "u1",
		FileName:    "hello.txt",
		ContentType: "text/plain",
		Data:        []byte("Hello world"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello world", resp.Text)
	assert.Equal(t, 2, resp.Metadata.WordCount)
	assert.Equal(t, 11, resp.Metadata.CharCount)

	doc, err := f.store.GetDocument(ctx, resp.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, "Hello world", doc.Text)
	assert.Equal(t, "documents/u1/hello.txt", doc.StoragePath)
	assert.Equal(t, int64(11), doc.FileSize)
	assert.True(t, doc.Processed)
	assert.Nil(t, doc.ConversationID)
}

func TestUploadExtensionFallback(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.UploadDocument(context.Background(), UploadRequest{
		UserID:      "u1",
		FileName:    "notes.TXT",
		ContentType: "application/octet-stream",
		Data:        []byte("  three little words "),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Metadata.WordCount)
}

func TestUploadUnsupported(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UploadDocument(context.Background(), UploadRequest{
		UserID:      "u1",
		FileName:    "photo.png",
		ContentType: "image/png",
		Data:        []byte{0x89, 0x50},
	})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindUnsupportedFormat))
	assert.Contains(t, err.Error(), "image/png")
}

type recordingUploader struct {
	objects map[string][]byte
	err     error
}

func (u *recordingUploader) Upload(ctx context.Context, objectName, contentType string, r io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	b, _ := io.ReadAll(r)
	u.objects[objectName] = b
	return "gs://bucket/" + objectName, nil
}

func TestUploadStoresOriginal(t *testing.T) {
	up := &recordingUploader{objects: map[string][]byte{}}
	f := newFixture(t, WithUploader(up))

	_, err := f.svc.UploadDocument(context.Background(), UploadRequest{
		UserID:      "u1",
		FileName:    "nda.txt",
		ContentType: "text/plain",
		Data:        []byte("Mutual NDA"),
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("Mutual NDA"), up.objects["documents/u1/nda.txt"])
}

func TestUploadOriginalFailure(t *testing.T) {
	up := &recordingUploader{err: errors.New("bucket gone")}
	f := newFixture(t, WithUploader(up))

	_, err := f.svc.UploadDocument(context.Background(), UploadRequest{
		UserID:      "u1",
		FileName:    "nda.txt",
		ContentType: "text/plain",
		Data:        []byte("Mutual NDA"),
	})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindStorage))

	docs, err := f.store.ListDocuments(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func seedDocument(t *testing.T, f *fixture, fileType string) string {
	t.Helper()
	doc := &models.Document{UserID: "u1", FileName: "c.txt", FileType: fileType, Text: "The Supplier shall deliver goods."}
	require.NoError(t, f.store.CreateDocument(context.Background(), doc))
	return doc.ID
}

func TestAnalyzeDocumentDispatch(t *testing.T) {
	tests := []struct {
		analysisType string
		role         string
		prompt       string
	}{
		{"contract_review", "Contract Review Specialist", "Review the following text/plain contract"},
		{"clause_extraction", "Contract Review Specialist", "Extract and categorize all important clauses"},
		{"document_analysis", "Senior Legal Analyst", "Analyze the following text/plain document"},
		{"legal_summary", "Senior Legal Analyst", "Analyze the following text/plain document"},
	}

	for _, tt := range tests {
		t.Run(tt.analysisType, func(t *testing.T) {
			f := newFixture(t)
			docID := seedDocument(t, f, "text/plain")

			f.gen.On("Generate", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
				return llmtest.RoleMatches(req, tt.role) &&
					llmtest.PromptMatches(req, tt.prompt) &&
					llmtest.PromptMatches(req, "The Supplier shall deliver goods.")
			})).Return(llmtest.Reply("result"), nil).Once()

			resp, err := f.svc.AnalyzeDocument(context.Background(), AnalyzeRequest{
				UserID:       "u1",
				DocumentID:   docID,
				AnalysisType: tt.analysisType,
			})
			require.NoError(t, err)
			assert.Equal(t, "result", resp.Analysis)
			assert.Equal(t, tt.analysisType, resp.AnalysisType)
			assert.Empty(t, resp.Review)
			f.gen.AssertExpectations(t)
		})
	}
}

func TestAnalyzeDocumentDefaultsType(t *testing.T) {
	f := newFixture(t)
	docID := seedDocument(t, f, "")

	f.gen.On("Generate", mock.Anything, llmtest.PromptContains("Review the following contract contract")).
		Return(llmtest.Reply("review"), nil).Once()

	_, err := f.svc.AnalyzeDocument(context.Background(), AnalyzeRequest{UserID: "u1", DocumentID: docID, AnalysisType: "contract_review"})
	require.NoError(t, err)
	f.gen.AssertExpectations(t)
}

func TestAnalyzeDocumentComprehensive(t *testing.T) {
	f := newFixture(t)
	docID := seedDocument(t, f, "NDA")

	f.gen.On("Generate", mock.Anything, llmtest.RoleIs("Contract Review Specialist")).
		Return(llmtest.Reply("the review"), nil).Once()
	f.gen.On("Generate", mock.Anything, llmtest.RoleIs("Legal Risk Assessment Expert")).
		Return(llmtest.Reply("the risk"), nil).Once()

	resp, err := f.svc.AnalyzeDocument(context.Background(), AnalyzeRequest{UserID: "u1", DocumentID: docID, AnalysisType: AnalysisComprehensive})
	require.NoError(t, err)
	assert.Equal(t, "the risk", resp.Analysis)
	assert.Equal(t, "the review", resp.Review)
}

func TestAnalyzeDocumentNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AnalyzeDocument(context.Background(), AnalyzeRequest{UserID: "u1", DocumentID: "missing", AnalysisType: "contract_review"})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	f.gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestLegalResearch(t *testing.T) {
	f := newFixture(t)

	long := string(bytes.Repeat([]byte("a"), 800))
	f.gen.On("Generate", mock.Anything, llmtest.PromptContains("Jurisdiction: General")).
		Return(llmtest.Reply(long), nil).Once()

	resp, err := f.svc.LegalResearch(context.Background(), ResearchRequest{UserID: "u1", Query: "Is a handshake deal binding?"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ResearchID)
	assert.Equal(t, "General", resp.Jurisdiction)
	assert.Equal(t, long, resp.Research)
}

func TestComplianceAssessment(t *testing.T) {
	f := newFixture(t)

	f.gen.On("Generate", mock.Anything, llmtest.PromptContains("Industry: Fintech")).
		Return(llmtest.Reply("complexity HIGH"), nil).Once()

	resp, err := f.svc.ComplianceAssessment(context.Background(), ComplianceRequest{
		UserID:          "u1",
		BusinessContext: "Payments app",
		Industry:        "Fintech",
	})
	require.NoError(t, err)
	assert.Equal(t, "complexity HIGH", resp.Assessment)
	assert.Equal(t, "Payments app", resp.BusinessContext)
}

func TestRiskAssessmentFailureWritesNoTask(t *testing.T) {
	f := newFixture(t)

	f.gen.On("Generate", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	_, err := f.svc.RiskAssessment(context.Background(), RiskRequest{UserID: "u1", Scenario: "s", RiskType: "r"})
	require.Error(t, err)
}

func TestInfoAndTypes(t *testing.T) {
	f := newFixture(t)

	info := f.svc.Info()
	assert.Equal(t, "Legal AI Assistant API", info.Message)
	assert.Equal(t, "1.0.0", info.Version)
	assert.Equal(t, "groq/llama-3.3-70b-versatile", info.Model)

	types := f.svc.Types()
	assert.Len(t, types.ConversationTypes, 6)
	assert.Equal(t, "general", types.ConversationTypes[0].Value)
	assert.Equal(t, "document_analysis", types.AnalysisTypes[0].Value)
}

func TestResolveMediaType(t *testing.T) {
	assert.Equal(t, "application/pdf", resolveMediaType("application/pdf", "a.docx"))
	assert.Equal(t, "pdf", resolveMediaType("", "contract.PDF"))
	assert.Equal(t, "docx", resolveMediaType("application/octet-stream", "lease.docx"))
	assert.Equal(t, "application/octet-stream", resolveMediaType("application/octet-stream", "photo.png"))
}
