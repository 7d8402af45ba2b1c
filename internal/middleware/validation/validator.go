package validation

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Config struct {
	AllowedContentTypes []string
	Logger              *zap.Logger
}

// Middleware rejects POST and PUT bodies whose content type is not accepted.
// Requests without a Content-Type are left to the handler's body parsing.
func Middleware(cfg Config) fiber.Handler {
	if len(cfg.AllowedContentTypes) == 0 {
		cfg.AllowedContentTypes = []string{fiber.MIMEApplicationJSON, fiber.MIMEMultipartForm}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost && c.Method() != fiber.MethodPut {
			return c.Next()
		}

		contentType := strings.ToLower(c.Get(fiber.HeaderContentType))
		if contentType == "" {
			return c.Next()
		}

		for _, allowed := range cfg.AllowedContentTypes {
			if strings.HasPrefix(contentType, allowed) {
				return c.Next()
			}
		}

		cfg.Logger.Debug("Unsupported content type",
			zap.String("path", c.Path()),
			zap.String("content_type", contentType),
		)
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
			"detail": "Unsupported content type",
		})
	}
}
