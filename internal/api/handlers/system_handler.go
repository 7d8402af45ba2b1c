package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/legal-assistant/backend/internal/assistant"
)

type SystemHandler struct {
	svc *assistant.Service
}

func NewSystemHandler(svc *assistant.Service) *SystemHandler {
	return &SystemHandler{
		svc: svc,
	}
}

func (h *SystemHandler) Info(c *fiber.Ctx) error {
	return c.JSON(h.svc.Info())
}

func (h *SystemHandler) Types(c *fiber.Ctx) error {
	return c.JSON(h.svc.Types())
}

func (h *SystemHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
	})
}

func (h *SystemHandler) Ready(c *fiber.Ctx) error {
	if err := h.svc.Ready(c.UserContext()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "not ready",
			"detail": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status": "ready",
	})
}
