package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/legal-assistant/backend/internal/assistant"
)

type ChatHandler struct {
	svc *assistant.Service
}

func NewChatHandler(svc *assistant.Service) *ChatHandler {
	return &ChatHandler{
		svc: svc,
	}
}

func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req assistant.ChatRequest
	if err := parseBody(c, "handlers.Chat", &req); err != nil {
		return respondError(c, err)
	}

	resp, err := h.svc.Chat(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

func (h *ChatHandler) ListConversations(c *fiber.Ctx) error {
	conversations, err := h.svc.ListConversations(c.UserContext(), c.Params("user_id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"conversations": conversations,
	})
}

func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	messages, err := h.svc.ListMessages(c.UserContext(), c.Params("conversation_id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"messages": messages,
	})
}
