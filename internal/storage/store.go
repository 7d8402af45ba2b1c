// Package storage defines the row store the request service writes to.
package storage

import (
	"context"

	"github.com/legal-assistant/backend/internal/storage/models"
	"github.com/legal-assistant/backend/pkg/apperror"
)

// Store persists conversations, documents and the analysis audit logs.
// Create methods assign an ID and created_at when the caller left them empty.
// Write failures are reported as apperror.KindStorage; GetDocument reports
// apperror.KindNotFound for an unknown id.
type Store interface {
	CreateConversation(ctx context.Context, c *models.Conversation) error
	ListConversations(ctx context.Context, userID string) ([]models.Conversation, error)

	CreateMessage(ctx context.Context, m *models.Message) error
	ListMessages(ctx context.Context, conversationID string) ([]models.Message, error)

	CreateDocument(ctx context.Context, d *models.Document) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	ListDocuments(ctx context.Context, userID string) ([]models.Document, error)

	CreateDocumentAnalysis(ctx context.Context, a *models.DocumentAnalysis) error
	CreateLegalResearch(ctx context.Context, r *models.LegalResearch) error
	CreateAgentTask(ctx context.Context, t *models.AgentTask) error

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Unavailable is the store used when the row store is not configured.
// Every call fails with a storage error carrying reason.
type Unavailable struct {
	Reason string
}

func (u Unavailable) err(op string) error {
	return apperror.E(apperror.KindStorage, op, u.Reason, nil)
}

func (u Unavailable) CreateConversation(context.Context, *models.Conversation) error {
	return u.err("storage.CreateConversation")
}

func (u Unavailable) ListConversations(context.Context, string) ([]models.Conversation, error) {
	return nil, u.err("storage.ListConversations")
}

func (u Unavailable) CreateMessage(context.Context, *models.Message) error {
	return u.err("storage.CreateMessage")
}

func (u Unavailable) ListMessages(context.Context, string) ([]models.Message, error) {
	return nil, u.err("storage.ListMessages")
}

func (u Unavailable) CreateDocument(context.Context, *models.Document) error {
	return u.err("storage.CreateDocument")
}

func (u Unavailable) GetDocument(context.Context, string) (*models.Document, error) {
	return nil, u.err("storage.GetDocument")
}

func (u Unavailable) ListDocuments(context.Context, string) ([]models.Document, error) {
	return nil, u.err("storage.ListDocuments")
}

func (u Unavailable) CreateDocumentAnalysis(context.Context, *models.DocumentAnalysis) error {
	return u.err("storage.CreateDocumentAnalysis")
}

func (u Unavailable) CreateLegalResearch(context.Context, *models.LegalResearch) error {
	return u.err("storage.CreateLegalResearch")
}

func (u Unavailable) CreateAgentTask(context.Context, *models.AgentTask) error {
	return u.err("storage.CreateAgentTask")
}

func (u Unavailable) Migrate(context.Context) error { return u.err("storage.Migrate") }

func (u Unavailable) Ping(context.Context) error { return u.err("storage.Ping") }

func (u Unavailable) Close() error { return nil }
