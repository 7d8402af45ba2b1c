package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	StatusActive    = "active"
	StatusCompleted = "completed"
)

type Conversation struct {
	ID               string    `gorm:"column:id;primaryKey" json:"id"`
	UserID           string    `gorm:"column:user_id;index;not null" json:"user_id"`
	Title            string    `gorm:"column:title" json:"title"`
	ConversationType string    `gorm:"column:conversation_type" json:"conversation_type"`
	Status           string    `gorm:"column:status" json:"status"`
	CreatedAt        time.Time `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Conversation) TableName() string { return "conversations" }

type Message struct {
	ID             string    `gorm:"column:id;primaryKey" json:"id"`
	ConversationID string    `gorm:"column:conversation_id;index;not null" json:"conversation_id"`
	Role           string    `gorm:"column:role" json:"role"` // "user" | "assistant"
	Content        string    `gorm:"column:content" json:"content"`
	TokensUsed     int       `gorm:"column:tokens_used" json:"tokens_used"`
	CreatedAt      time.Time `gorm:"column:created_at;index" json:"created_at"`
}

func (Message) TableName() string { return "messages" }

type DocumentMetadata struct {
	WordCount int `json:"word_count"`
	CharCount int `json:"char_count"`
}

type Document struct {
	ID             string         `gorm:"column:id;primaryKey" json:"id"`
	UserID         string         `gorm:"column:user_id;index;not null" json:"user_id"`
	ConversationID *string        `gorm:"column:conversation_id" json:"conversation_id"`
	FileName       string         `gorm:"column:file_name" json:"file_name"`
	FileType       string         `gorm:"column:file_type" json:"file_type"`
	FileSize       int64          `gorm:"column:file_size" json:"file_size"`
	StoragePath    string         `gorm:"column:storage_path" json:"storage_path"`
	Processed      bool           `gorm:"column:processed" json:"processed"`
	Text           string         `gorm:"column:text" json:"text"`
	Metadata       datatypes.JSON `gorm:"column:metadata" json:"metadata"`
	CreatedAt      time.Time      `gorm:"column:created_at;index" json:"created_at"`
}

func (Document) TableName() string { return "documents" }

// DecodeMetadata returns the zero value when metadata is absent or malformed.
func (d *Document) DecodeMetadata() DocumentMetadata {
	var m DocumentMetadata
	if len(d.Metadata) > 0 {
		_ = json.Unmarshal(d.Metadata, &m)
	}
	return m
}

type DocumentAnalysis struct {
	ID           string         `gorm:"column:id;primaryKey" json:"id"`
	DocumentID   string         `gorm:"column:document_id;index;not null" json:"document_id"`
	AnalysisType string         `gorm:"column:analysis_type" json:"analysis_type"`
	Results      datatypes.JSON `gorm:"column:results" json:"results"`
	CreatedAt    time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (DocumentAnalysis) TableName() string { return "document_analysis" }

type LegalResearch struct {
	ID             string         `gorm:"column:id;primaryKey" json:"id"`
	UserID         string         `gorm:"column:user_id;index;not null" json:"user_id"`
	ConversationID *string        `gorm:"column:conversation_id" json:"conversation_id"`
	Query          string         `gorm:"column:query" json:"query"`
	Jurisdiction   string         `gorm:"column:jurisdiction" json:"jurisdiction"`
	Results        datatypes.JSON `gorm:"column:results" json:"results"`
	Summary        string         `gorm:"column:summary" json:"summary"`
	CreatedAt      time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (LegalResearch) TableName() string { return "legal_research" }

type AgentTask struct {
	ID         string         `gorm:"column:id;primaryKey" json:"id"`
	UserID     string         `gorm:"column:user_id;index;not null" json:"user_id"`
	AgentType  string         `gorm:"column:agent_type" json:"agent_type"`
	TaskType   string         `gorm:"column:task_type" json:"task_type"`
	InputData  datatypes.JSON `gorm:"column:input_data" json:"input_data"`
	OutputData datatypes.JSON `gorm:"column:output_data" json:"output_data"`
	Status     string         `gorm:"column:status" json:"status"`
	CreatedAt  time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (AgentTask) TableName() string { return "agent_tasks" }

// All lists every persisted model, in dependency order for migrations.
func All() []any {
	return []any{
		&Conversation{},
		&Message{},
		&Document{},
		&DocumentAnalysis{},
		&LegalResearch{},
		&AgentTask{},
	}
}

// JSON marshals v for a JSON column. Values that cannot be marshalled
// produce an empty object.
func JSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(b)
}

// EnsureID assigns a UUIDv4 when id is empty.
func EnsureID(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
}

// EnsureCreated stamps t with the current UTC time when it is zero.
func EnsureCreated(t *time.Time) {
	if t.IsZero() {
		*t = time.Now().UTC()
	}
}
