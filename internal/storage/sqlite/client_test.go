package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legal-assistant/backend/internal/storage/models"
	"github.com/legal-assistant/backend/pkg/apperror"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	c, err := NewClient(filepath.Join(t.TempDir(), "data", "legal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Migrate(context.Background()))
	return c
}

func TestConversationsNewestFirst(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

	older := &models.Conversation{UserID: "u1", Title: "older", ConversationType: "general", CreatedAt: base}
	newer := &models.Conversation{UserID: "u1", Title: "newer", ConversationType: "compliance", CreatedAt: base.Add(time.Minute)}
	other := &models.Conversation{UserID: "u2", Title: "other"}

	require.NoError(t, c.CreateConversation(ctx, older))
	require.NoError(t, c.CreateConversation(ctx, newer))
	require.NoError(t, c.CreateConversation(ctx, other))
	assert.NotEmpty(t, older.ID)

	got, err := c.ListConversations(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "newer", got[0].Title)
	assert.Equal(t, "older", got[1].Title)
	assert.True(t, got[1].CreatedAt.Equal(base))
}

func TestMessagesOldestFirst(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	conv := &models.Conversation{UserID: "u1", Title: "t"}
	require.NoError(t, c.CreateConversation(ctx, conv))

	now := time.Now().UTC()
	require.NoError(t, c.CreateMessage(ctx, &models.Message{ConversationID: conv.ID, Role: models.RoleUser, Content: "question", CreatedAt: now}))
	require.NoError(t, c.CreateMessage(ctx, &models.Message{ConversationID: conv.ID, Role: models.RoleAssistant, Content: "answer", CreatedAt: now}))

	got, err := c.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.RoleUser, got[0].Role)
	assert.Equal(t, models.RoleAssistant, got[1].Role)
}

func TestMessageRequiresConversation(t *testing.T) {
	c := newTestClient(t)

	err := c.CreateMessage(context.Background(), &models.Message{ConversationID: "missing", Role: models.RoleUser, Content: "x"})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindStorage))
}

func TestDocumentRoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	convID := "c-1"
	doc := &models.Document{
		UserID:         "u1",
		ConversationID: &convID,
		FileName:       "nda.txt",
		FileType:       "text/plain",
		FileSize:       11,
		StoragePath:    "documents/u1/nda.txt",
		Processed:      true,
		Text:           "Hello world",
		Metadata:       models.JSON(models.DocumentMetadata{WordCount: 2, CharCount: 11}),
	}
	require.NoError(t, c.CreateDocument(ctx, doc))

	got, err := c.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello world", got.Text)
	assert.True(t, got.Processed)
	require.NotNil(t, got.ConversationID)
	assert.Equal(t, "c-1", *got.ConversationID)
	assert.Equal(t, models.DocumentMetadata{WordCount: 2, CharCount: 11}, got.DecodeMetadata())

	list, err := c.ListDocuments(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, doc.ID, list[0].ID)
}

func TestDocumentWithoutConversation(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	doc := &models.Document{UserID: "u1", FileName: "a.pdf"}
	require.NoError(t, c.CreateDocument(ctx, doc))

	got, err := c.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ConversationID)
	assert.Equal(t, models.DocumentMetadata{}, got.DecodeMetadata())
}

func TestGetDocumentNotFound(t *testing.T) {
	c := newTestClient(t)

	_, err := c.GetDocument(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestAuditRows(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	doc := &models.Document{UserID: "u1", FileName: "a.txt"}
	require.NoError(t, c.CreateDocument(ctx, doc))

	require.NoError(t, c.CreateDocumentAnalysis(ctx, &models.DocumentAnalysis{
		DocumentID:   doc.ID,
		AnalysisType: "contract_review",
		Results:      models.JSON(map[string]string{"analysis": "ok"}),
	}))
	require.NoError(t, c.CreateLegalResearch(ctx, &models.LegalResearch{
		UserID:       "u1",
		Query:        "q",
		Jurisdiction: "General",
		Results:      models.JSON(map[string]string{"research": "r"}),
		Summary:      "r",
	}))

	task := &models.AgentTask{
		UserID:     "u1",
		AgentType:  "risk_assessment",
		TaskType:   "Contractual Risk",
		InputData:  models.JSON(map[string]string{"scenario": "s", "risk_type": "Contractual Risk"}),
		OutputData: models.JSON(map[string]string{"assessment": "a"}),
		Status:     models.StatusCompleted,
	}
	require.NoError(t, c.CreateAgentTask(ctx, task))

	var status, input string
	err := c.db.QueryRowContext(ctx, `SELECT status, input_data FROM agent_tasks WHERE id = ?`, task.ID).Scan(&status, &input)
	require.NoError(t, err)
	assert.Equal(t, "completed", status)
	assert.JSONEq(t, `{"scenario":"s","risk_type":"Contractual Risk"}`, input)
}

func TestPing(t *testing.T) {
	c := newTestClient(t)
	assert.NoError(t, c.Ping(context.Background()))
}
