package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/legal-assistant/backend/pkg/apperror"
	"github.com/legal-assistant/backend/pkg/logger"
)

// respondError writes {"detail": message} with the status for the error kind.
func respondError(c *fiber.Ctx, err error) error {
	status := apperror.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("path", c.Path()),
			zap.String("kind", string(apperror.KindOf(err))),
			zap.Error(err),
		)
	} else {
		logger.Debug("Request rejected",
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Error(err),
		)
	}

	return c.Status(status).JSON(fiber.Map{
		"detail": err.Error(),
	})
}

func parseBody(c *fiber.Ctx, op string, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.E(apperror.KindValidation, op, "Invalid request body", err)
	}
	return nil
}

// ErrorHandler is the fiber fallback for errors that escape a handler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{"detail": fe.Message})
	}
	return respondError(c, err)
}
