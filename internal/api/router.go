package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/legal-assistant/backend/internal/api/handlers"
	"github.com/legal-assistant/backend/internal/assistant"
	"github.com/legal-assistant/backend/internal/metrics"
	"github.com/legal-assistant/backend/internal/middleware/ratelimit"
	"github.com/legal-assistant/backend/internal/middleware/security"
	"github.com/legal-assistant/backend/internal/middleware/validation"
	"github.com/legal-assistant/backend/pkg/config"
	"github.com/legal-assistant/backend/pkg/logger"
)

// Options carries the optional pieces of the HTTP stack.
type Options struct {
	// Limiter guards /api routes when set.
	Limiter *ratelimit.RateLimiter
	// AccessLog enables the fiber request log.
	AccessLog bool
}

// NewApp builds the fiber app with middleware and every route registered.
func NewApp(cfg config.ServerConfig, svc *assistant.Service, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(fiberlogger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins(cfg.AllowedOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		IsDevelopment:  cfg.Environment == "development",
	}))
	app.Use(metrics.Middleware())

	Register(app, svc, opts)

	return app
}

// Register mounts the routes on app.
func Register(app *fiber.App, svc *assistant.Service, opts Options) {
	chatHandler := handlers.NewChatHandler(svc)
	documentHandler := handlers.NewDocumentHandler(svc)
	analysisHandler := handlers.NewAnalysisHandler(svc)
	systemHandler := handlers.NewSystemHandler(svc)
	wsHandler := handlers.NewWebSocketHandler(svc)

	app.Get("/", systemHandler.Info)
	app.Get("/health", systemHandler.Health)
	app.Get("/ready", systemHandler.Ready)
	app.Get("/metrics", metrics.MetricsHandler())

	api := app.Group("/api")
	api.Use(validation.Middleware(validation.Config{
		Logger: logger.GetLogger(),
	}))
	if opts.Limiter != nil {
		api.Use(opts.Limiter.Middleware())
	}

	api.Post("/chat", chatHandler.Chat)
	api.Get("/conversations/:user_id", chatHandler.ListConversations)
	api.Get("/messages/:conversation_id", chatHandler.ListMessages)

	api.Post("/upload-document", documentHandler.UploadDocument)
	api.Post("/analyze-document", documentHandler.AnalyzeDocument)
	api.Get("/documents/:user_id", documentHandler.ListDocuments)

	api.Post("/legal-research", analysisHandler.LegalResearch)
	api.Post("/compliance-assessment", analysisHandler.ComplianceAssessment)
	api.Post("/risk-assessment", analysisHandler.RiskAssessment)

	api.Get("/types", systemHandler.Types)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/chat", websocket.New(wsHandler.HandleConnection))
}

func allowOrigins(origins []string) string {
	if len(origins) == 0 {
		return "*"
	}
	return strings.Join(origins, ", ")
}
