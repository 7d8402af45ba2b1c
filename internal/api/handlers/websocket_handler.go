package handlers

import (
	"context"
	"regexp"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/legal-assistant/backend/internal/assistant"
	"github.com/legal-assistant/backend/pkg/logger"
)

// WebSocketHandler runs chat turns over a websocket and streams the answer
// back word by word once the model has produced it.
type WebSocketHandler struct {
	svc *assistant.Service
}

func NewWebSocketHandler(svc *assistant.Service) *WebSocketHandler {
	return &WebSocketHandler{
		svc: svc,
	}
}

type wsMessage struct {
	Type             string `json:"type"`
	UserID           string `json:"user_id"`
	ConversationID   string `json:"conversation_id"`
	Message          string `json:"message"`
	ConversationType string `json:"conversation_type"`
	Context          string `json:"context"`
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	for {
		var msg wsMessage
		err := c.ReadJSON(&msg)
		if err != nil {
			logger.Debug("WebSocket read ended", zap.Error(err))
			break
		}

		if msg.Type != "chat" {
			continue
		}

		err = h.streamResponse(c, msg)
		if err != nil {
			logger.Error("Failed to stream response", zap.Error(err))
			h.sendError(c, err.Error())
		}
	}
}

func (h *WebSocketHandler) streamResponse(c *websocket.Conn, msg wsMessage) error {
	if err := h.sendChunk(c, "status", "Consulting legal assistant..."); err != nil {
		return err
	}

	resp, err := h.svc.Chat(context.Background(), assistant.ChatRequest{
		UserID:           msg.UserID,
		ConversationID:   msg.ConversationID,
		Message:          msg.Message,
		ConversationType: msg.ConversationType,
		Context:          msg.Context,
	})
	if err != nil {
		return err
	}

	for _, chunk := range splitIntoChunks(resp.Response) {
		if err := h.sendChunk(c, "chunk", chunk); err != nil {
			return err
		}
	}

	return c.WriteJSON(map[string]any{
		"type":            "complete",
		"conversation_id": resp.ConversationID,
		"timestamp":       resp.Timestamp,
	})
}

func (h *WebSocketHandler) sendChunk(c *websocket.Conn, msgType, content string) error {
	return c.WriteJSON(map[string]any{
		"type":    msgType,
		"content": content,
	})
}

func (h *WebSocketHandler) sendError(c *websocket.Conn, detail string) {
	_ = c.WriteJSON(map[string]any{
		"type":   "error",
		"detail": detail,
	})
}

var chunkPattern = regexp.MustCompile(`^\s+|\S+\s*`)

// splitIntoChunks cuts text into words that keep their trailing whitespace,
// so the chunks concatenate back to text exactly.
func splitIntoChunks(text string) []string {
	chunks := chunkPattern.FindAllString(text, -1)
	if chunks == nil {
		return []string{}
	}
	return chunks
}
