package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/legal-assistant/backend/internal/storage/models"
	"github.com/legal-assistant/backend/pkg/apperror"
	"github.com/legal-assistant/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return storageErr("sqlite.Ping", "database unreachable", err)
	}
	return nil
}

func (c *Client) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT,
		conversation_type TEXT,
		status TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_conversations_user ON conversations(user_id, created_at);

	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		tokens_used INTEGER DEFAULT 0,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at);

	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		conversation_id TEXT,
		file_name TEXT NOT NULL,
		file_type TEXT,
		file_size INTEGER,
		storage_path TEXT,
		processed INTEGER DEFAULT 0,
		text TEXT,
		metadata TEXT NOT NULL DEFAULT '{}',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_documents_user ON documents(user_id, created_at);

	CREATE TABLE IF NOT EXISTS document_analysis (
		id TEXT PRIMARY KEY,
		document_id TEXT NOT NULL,
		analysis_type TEXT NOT NULL,
		results TEXT NOT NULL DEFAULT '{}',
		created_at INTEGER NOT NULL,
		FOREIGN KEY (document_id) REFERENCES documents(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_analysis_document ON document_analysis(document_id);

	CREATE TABLE IF NOT EXISTS legal_research (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		conversation_id TEXT,
		query TEXT NOT NULL,
		jurisdiction TEXT,
		results TEXT NOT NULL DEFAULT '{}',
		summary TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_research_user ON legal_research(user_id);

	CREATE TABLE IF NOT EXISTS agent_tasks (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		agent_type TEXT NOT NULL,
		task_type TEXT,
		input_data TEXT NOT NULL DEFAULT '{}',
		output_data TEXT NOT NULL DEFAULT '{}',
		status TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_agent_tasks_user ON agent_tasks(user_id);
	`

	_, err := c.db.ExecContext(ctx, schema)
	if err != nil {
		return storageErr("sqlite.Migrate", "failed to initialize schema", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

func (c *Client) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	models.EnsureID(&conv.ID)
	models.EnsureCreated(&conv.CreatedAt)
	if conv.UpdatedAt.IsZero() {
		conv.UpdatedAt = conv.CreatedAt
	}

	query := `
		INSERT INTO conversations (id, user_id, title, conversation_type, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.ExecContext(ctx,
		query,
		conv.ID,
		conv.UserID,
		conv.Title,
		conv.ConversationType,
		conv.Status,
		conv.CreatedAt.UnixMicro(),
		conv.UpdatedAt.UnixMicro(),
	)
	if err != nil {
		return storageErr("sqlite.CreateConversation", "failed to insert conversation", err)
	}

	logger.Debug("Conversation inserted", zap.String("conversation_id", conv.ID))
	return nil
}

func (c *Client) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	query := `
		SELECT id, user_id, title, conversation_type, status, created_at, updated_at
		FROM conversations
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
	`

	rows, err := c.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, storageErr("sqlite.ListConversations", "failed to get conversations", err)
	}
	defer rows.Close()

	conversations := make([]models.Conversation, 0)
	for rows.Next() {
		var conv models.Conversation
		var createdAt, updatedAt int64

		err := rows.Scan(&conv.ID, &conv.UserID, &conv.Title, &conv.ConversationType, &conv.Status, &createdAt, &updatedAt)
		if err != nil {
			return nil, storageErr("sqlite.ListConversations", "failed to scan row", err)
		}

		conv.CreatedAt = fromMicro(createdAt)
		conv.UpdatedAt = fromMicro(updatedAt)
		conversations = append(conversations, conv)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("sqlite.ListConversations", "failed to read rows", err)
	}
	return conversations, nil
}

func (c *Client) CreateMessage(ctx context.Context, msg *models.Message) error {
	models.EnsureID(&msg.ID)
	models.EnsureCreated(&msg.CreatedAt)

	query := `INSERT INTO messages (id, conversation_id, role, content, tokens_used, created_at) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := c.db.ExecContext(ctx,
		query,
		msg.ID,
		msg.ConversationID,
		msg.Role,
		msg.Content,
		msg.TokensUsed,
		msg.CreatedAt.UnixMicro(),
	)
	if err != nil {
		return storageErr("sqlite.CreateMessage", "failed to insert message", err)
	}

	return nil
}

func (c *Client) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	query := `
		SELECT id, conversation_id, role, content, tokens_used, created_at
		FROM messages
		WHERE conversation_id = ?
		ORDER BY created_at ASC, rowid ASC
	`

	rows, err := c.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, storageErr("sqlite.ListMessages", "failed to get messages", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var m models.Message
		var createdAt int64

		err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.TokensUsed, &createdAt)
		if err != nil {
			return nil, storageErr("sqlite.ListMessages", "failed to scan row", err)
		}

		m.CreatedAt = fromMicro(createdAt)
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("sqlite.ListMessages", "failed to read rows", err)
	}
	return messages, nil
}

func (c *Client) CreateDocument(ctx context.Context, doc *models.Document) error {
	models.EnsureID(&doc.ID)
	models.EnsureCreated(&doc.CreatedAt)

	query := `
		INSERT INTO documents (id, user_id, conversation_id, file_name, file_type, file_size,
			storage_path, processed, text, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.ExecContext(ctx,
		query,
		doc.ID,
		doc.UserID,
		doc.ConversationID,
		doc.FileName,
		doc.FileType,
		doc.FileSize,
		doc.StoragePath,
		doc.Processed,
		doc.Text,
		jsonText(doc.Metadata),
		doc.CreatedAt.UnixMicro(),
	)
	if err != nil {
		return storageErr("sqlite.CreateDocument", "failed to insert document", err)
	}

	logger.Debug("Document inserted", zap.String("document_id", doc.ID), zap.String("file_name", doc.FileName))
	return nil
}

const documentColumns = `id, user_id, conversation_id, file_name, file_type, file_size, storage_path, processed, text, metadata, created_at`

func (c *Client) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = ?`

	doc, err := scanDocument(c.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.E(apperror.KindNotFound, "sqlite.GetDocument", "Document not found", nil)
	}
	if err != nil {
		return nil, storageErr("sqlite.GetDocument", "failed to get document", err)
	}

	return doc, nil
}

func (c *Client) ListDocuments(ctx context.Context, userID string) ([]models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`

	rows, err := c.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, storageErr("sqlite.ListDocuments", "failed to get documents", err)
	}
	defer rows.Close()

	documents := make([]models.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, storageErr("sqlite.ListDocuments", "failed to scan row", err)
		}
		documents = append(documents, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("sqlite.ListDocuments", "failed to read rows", err)
	}
	return documents, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*models.Document, error) {
	var doc models.Document
	var text sql.NullString
	var metadata string
	var createdAt int64

	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.ConversationID,
		&doc.FileName,
		&doc.FileType,
		&doc.FileSize,
		&doc.StoragePath,
		&doc.Processed,
		&text,
		&metadata,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	doc.Text = text.String
	doc.Metadata = datatypes.JSON(metadata)
	doc.CreatedAt = fromMicro(createdAt)
	return &doc, nil
}

func (c *Client) CreateDocumentAnalysis(ctx context.Context, a *models.DocumentAnalysis) error {
	models.EnsureID(&a.ID)
	models.EnsureCreated(&a.CreatedAt)

	query := `INSERT INTO document_analysis (id, document_id, analysis_type, results, created_at) VALUES (?, ?, ?, ?, ?)`

	_, err := c.db.ExecContext(ctx, query, a.ID, a.DocumentID, a.AnalysisType, jsonText(a.Results), a.CreatedAt.UnixMicro())
	if err != nil {
		return storageErr("sqlite.CreateDocumentAnalysis", "failed to insert document analysis", err)
	}

	return nil
}

func (c *Client) CreateLegalResearch(ctx context.Context, r *models.LegalResearch) error {
	models.EnsureID(&r.ID)
	models.EnsureCreated(&r.CreatedAt)

	query := `
		INSERT INTO legal_research (id, user_id, conversation_id, query, jurisdiction, results, summary, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.ExecContext(ctx,
		query,
		r.ID,
		r.UserID,
		r.ConversationID,
		r.Query,
		r.Jurisdiction,
		jsonText(r.Results),
		r.Summary,
		r.CreatedAt.UnixMicro(),
	)
	if err != nil {
		return storageErr("sqlite.CreateLegalResearch", "failed to insert legal research", err)
	}

	logger.Info("Legal research recorded", zap.String("research_id", r.ID), zap.String("jurisdiction", r.Jurisdiction))
	return nil
}

func (c *Client) CreateAgentTask(ctx context.Context, t *models.AgentTask) error {
	models.EnsureID(&t.ID)
	models.EnsureCreated(&t.CreatedAt)

	query := `
		INSERT INTO agent_tasks (id, user_id, agent_type, task_type, input_data, output_data, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.ExecContext(ctx,
		query,
		t.ID,
		t.UserID,
		t.AgentType,
		t.TaskType,
		jsonText(t.InputData),
		jsonText(t.OutputData),
		t.Status,
		t.CreatedAt.UnixMicro(),
	)
	if err != nil {
		return storageErr("sqlite.CreateAgentTask", "failed to insert agent task", err)
	}

	logger.Info("Agent task recorded",
		zap.String("task_id", t.ID),
		zap.String("agent_type", t.AgentType),
		zap.String("status", t.Status),
	)
	return nil
}

func jsonText(j datatypes.JSON) string {
	if len(j) == 0 {
		return "{}"
	}
	return string(j)
}

func fromMicro(v int64) time.Time {
	return time.UnixMicro(v).UTC()
}

func storageErr(op, msg string, err error) error {
	return apperror.E(apperror.KindStorage, op, msg, err)
}
