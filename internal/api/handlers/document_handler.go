package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/legal-assistant/backend/internal/assistant"
	"github.com/legal-assistant/backend/pkg/apperror"
)

type DocumentHandler struct {
	svc *assistant.Service
}

func NewDocumentHandler(svc *assistant.Service) *DocumentHandler {
	return &DocumentHandler{
		svc: svc,
	}
}

// UploadDocument takes multipart fields user_id, conversation_id and file.
func (h *DocumentHandler) UploadDocument(c *fiber.Ctx) error {
	const op = "handlers.UploadDocument"

	fh, err := c.FormFile("file")
	if err != nil {
		return respondError(c, apperror.E(apperror.KindValidation, op, "file is required", err))
	}

	f, err := fh.Open()
	if err != nil {
		return respondError(c, apperror.E(apperror.KindInternal, op, "failed to open uploaded file", err))
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return respondError(c, apperror.E(apperror.KindInternal, op, "failed to read uploaded file", err))
	}

	resp, err := h.svc.UploadDocument(c.UserContext(), assistant.UploadRequest{
		UserID:         c.FormValue("user_id"),
		ConversationID: c.FormValue("conversation_id"),
		FileName:       fh.Filename,
		ContentType:    fh.Header.Get(fiber.HeaderContentType),
		Data:           data,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

func (h *DocumentHandler) AnalyzeDocument(c *fiber.Ctx) error {
	var req assistant.AnalyzeRequest
	if err := parseBody(c, "handlers.AnalyzeDocument", &req); err != nil {
		return respondError(c, err)
	}

	resp, err := h.svc.AnalyzeDocument(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

func (h *DocumentHandler) ListDocuments(c *fiber.Ctx) error {
	documents, err := h.svc.ListDocuments(c.UserContext(), c.Params("user_id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"documents": documents,
	})
}
