package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/legal-assistant/backend/internal/assistant"
)

// AnalysisHandler serves research, compliance and risk requests.
type AnalysisHandler struct {
	svc *assistant.Service
}

func NewAnalysisHandler(svc *assistant.Service) *AnalysisHandler {
	return &AnalysisHandler{
		svc: svc,
	}
}

func (h *AnalysisHandler) LegalResearch(c *fiber.Ctx) error {
	var req assistant.ResearchRequest
	if err := parseBody(c, "handlers.LegalResearch", &req); err != nil {
		return respondError(c, err)
	}

	resp, err := h.svc.LegalResearch(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

func (h *AnalysisHandler) ComplianceAssessment(c *fiber.Ctx) error {
	var req assistant.ComplianceRequest
	if err := parseBody(c, "handlers.ComplianceAssessment", &req); err != nil {
		return respondError(c, err)
	}

	resp, err := h.svc.ComplianceAssessment(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

func (h *AnalysisHandler) RiskAssessment(c *fiber.Ctx) error {
	var req assistant.RiskRequest
	if err := parseBody(c, "handlers.RiskAssessment", &req); err != nil {
		return respondError(c, err)
	}

	resp, err := h.svc.RiskAssessment(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}
