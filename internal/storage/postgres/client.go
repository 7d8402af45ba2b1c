package postgres

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/legal-assistant/backend/internal/storage/models"
	"github.com/legal-assistant/backend/pkg/apperror"
	"github.com/legal-assistant/backend/pkg/logger"
)

type Options struct {
	MaxOpenConns int
	MaxIdleConns int
}

type Client struct {
	db *gorm.DB
}

// NewClient connects to the row store at rawURL using the database password.
// A Supabase project URL (https://<ref>.supabase.co) is rewritten to its
// database host. The Supabase API service key is not a database credential.
func NewClient(rawURL, password string, opts Options) (*Client, error) {
	dsn, err := DSN(rawURL, password)
	if err != nil {
		return nil, err
	}
	return Open(postgres.Open(dsn), opts)
}

// Open accepts any gorm dialector, so tests can run the same code on SQLite.
func Open(dialector gorm.Dialector, opts Options) (*Client, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(zapWriter{}, gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	logger.Info("Row store client initialized", zap.String("dialect", dialector.Name()))

	return &Client{db: db}, nil
}

// DSN builds the connection string. password fills the password slot only
// when the URL carries none; a Supabase project URL requires it.
func DSN(rawURL, password string) (string, error) {
	if rawURL == "" {
		return "", errors.New("row store url is empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid row store url: %w", err)
	}

	switch u.Scheme {
	case "postgres", "postgresql":
	case "https", "http":
		ref, ok := strings.CutSuffix(u.Hostname(), ".supabase.co")
		if !ok || ref == "" {
			return "", fmt.Errorf("unsupported row store url host: %s", u.Hostname())
		}
		if password == "" {
			return "", errors.New("database password is required for a supabase project url")
		}
		u = &url.URL{
			Scheme:   "postgres",
			User:     url.User("postgres"),
			Host:     "db." + ref + ".supabase.co:5432",
			Path:     "/postgres",
			RawQuery: "sslmode=require",
		}
	default:
		return "", fmt.Errorf("unsupported row store url scheme: %s", u.Scheme)
	}

	if _, hasPassword := u.User.Password(); !hasPassword && password != "" {
		username := "postgres"
		if u.User != nil && u.User.Username() != "" {
			username = u.User.Username()
		}
		u.User = url.UserPassword(username, password)
	}

	return u.String(), nil
}

func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return storageErr("postgres.Ping", "database unreachable", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return storageErr("postgres.Ping", "database unreachable", err)
	}
	return nil
}

func (c *Client) Migrate(ctx context.Context) error {
	if err := c.db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return storageErr("postgres.Migrate", "failed to migrate schema", err)
	}
	logger.Info("Row store schema migrated")
	return nil
}

func (c *Client) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	models.EnsureID(&conv.ID)
	models.EnsureCreated(&conv.CreatedAt)
	if conv.UpdatedAt.IsZero() {
		conv.UpdatedAt = conv.CreatedAt
	}
	return c.create(ctx, "postgres.CreateConversation", "failed to insert conversation", conv)
}

func (c *Client) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	rows := make([]models.Conversation, 0)
	err := c.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, storageErr("postgres.ListConversations", "failed to get conversations", err)
	}
	return rows, nil
}

func (c *Client) CreateMessage(ctx context.Context, msg *models.Message) error {
	models.EnsureID(&msg.ID)
	models.EnsureCreated(&msg.CreatedAt)
	return c.create(ctx, "postgres.CreateMessage", "failed to insert message", msg)
}

func (c *Client) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	rows := make([]models.Message, 0)
	err := c.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, storageErr("postgres.ListMessages", "failed to get messages", err)
	}
	return rows, nil
}

func (c *Client) CreateDocument(ctx context.Context, doc *models.Document) error {
	models.EnsureID(&doc.ID)
	models.EnsureCreated(&doc.CreatedAt)
	if len(doc.Metadata) == 0 {
		doc.Metadata = models.JSON(models.DocumentMetadata{})
	}
	return c.create(ctx, "postgres.CreateDocument", "failed to insert document", doc)
}

func (c *Client) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	err := c.db.WithContext(ctx).Where("id = ?", id).Take(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.E(apperror.KindNotFound, "postgres.GetDocument", "Document not found", nil)
	}
	if err != nil {
		return nil, storageErr("postgres.GetDocument", "failed to get document", err)
	}
	return &doc, nil
}

func (c *Client) ListDocuments(ctx context.Context, userID string) ([]models.Document, error) {
	rows := make([]models.Document, 0)
	err := c.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, storageErr("postgres.ListDocuments", "failed to get documents", err)
	}
	return rows, nil
}

func (c *Client) CreateDocumentAnalysis(ctx context.Context, a *models.DocumentAnalysis) error {
	models.EnsureID(&a.ID)
	models.EnsureCreated(&a.CreatedAt)
	return c.create(ctx, "postgres.CreateDocumentAnalysis", "failed to insert document analysis", a)
}

func (c *Client) CreateLegalResearch(ctx context.Context, r *models.LegalResearch) error {
	models.EnsureID(&r.ID)
	models.EnsureCreated(&r.CreatedAt)
	return c.create(ctx, "postgres.CreateLegalResearch", "failed to insert legal research", r)
}

func (c *Client) CreateAgentTask(ctx context.Context, t *models.AgentTask) error {
	models.EnsureID(&t.ID)
	models.EnsureCreated(&t.CreatedAt)
	return c.create(ctx, "postgres.CreateAgentTask", "failed to insert agent task", t)
}

func (c *Client) create(ctx context.Context, op, msg string, value any) error {
	if err := c.db.WithContext(ctx).Create(value).Error; err != nil {
		return storageErr(op, msg, err)
	}
	return nil
}

func storageErr(op, msg string, err error) error {
	return apperror.E(apperror.KindStorage, op, msg, err)
}

type zapWriter struct{}

func (zapWriter) Printf(format string, args ...any) {
	logger.Warn(fmt.Sprintf(format, args...), zap.String("component", "gorm"))
}
