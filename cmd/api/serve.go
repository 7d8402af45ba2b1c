package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/legal-assistant/backend/internal/api"
	"github.com/legal-assistant/backend/internal/assistant"
	"github.com/legal-assistant/backend/internal/crew"
	"github.com/legal-assistant/backend/internal/llm"
	"github.com/legal-assistant/backend/internal/metrics"
	"github.com/legal-assistant/backend/internal/middleware/ratelimit"
	"github.com/legal-assistant/backend/internal/storage"
	"github.com/legal-assistant/backend/internal/storage/blob"
	"github.com/legal-assistant/backend/pkg/config"
	appLogger "github.com/legal-assistant/backend/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Legal AI Assistant API Server")
	for _, w := range cfg.Warnings() {
		appLogger.Warn(w)
	}

	metrics.Init()

	store, err := storage.Open(cfg.RowStore)
	if err != nil {
		return fmt.Errorf("failed to open row store: %w", err)
	}
	defer store.Close()

	if err := prepareStore(context.Background(), cfg.RowStore, store); err != nil {
		return err
	}

	var opts []assistant.Option
	if cfg.Blob.Bucket != "" {
		uploader, err := blob.NewGCSUploader(context.Background(), cfg.Blob.Bucket)
		if err != nil {
			appLogger.Warn("Blob storage disabled", zap.Error(err))
		} else {
			defer uploader.Close()
			opts = append(opts, assistant.WithUploader(uploader))
		}
	}

	svc := newService(cfg.LLM, store, opts...)

	var limiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = newLimiter(cfg.RateLimit)
		defer limiter.Stop()
	}

	app := api.NewApp(cfg.Server, svc, api.Options{
		Limiter:   limiter,
		AccessLog: true,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		appLogger.Error("Server shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server stopped")
	return nil
}

// prepareStore creates the schema only for the local sqlite store. The
// postgres row store is owned elsewhere; use the migrate command for it.
func prepareStore(ctx context.Context, cfg config.RowStoreConfig, store storage.Store) error {
	if cfg.Driver != "sqlite" {
		return nil
	}
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate sqlite row store: %w", err)
	}
	return nil
}

// newService binds the model and reports it to clients as configured.
func newService(cfg config.LLMConfig, store storage.Store, opts ...assistant.Option) *assistant.Service {
	binding := llm.NewBinding(cfg)
	generator := llm.NewGenerator(binding, cfg)
	appLogger.Info("Model bound", zap.String("model", binding.ModelID()))

	return assistant.NewService(store, crew.New(generator, binding), cfg.Model, opts...)
}

// newLimiter prefers a shared redis window and falls back to in-process buckets.
func newLimiter(cfg config.RateLimitConfig) *ratelimit.RateLimiter {
	rlCfg := ratelimit.Config{
		MaxRequestsPerMinute: cfg.RequestsPerMinute,
		WindowDuration:       time.Minute,
		Logger:               appLogger.GetLogger(),
	}

	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		client, err := ratelimit.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			appLogger.Warn("Redis unavailable, using in-memory rate limiting", zap.Error(err))
		} else {
			rlCfg.Store = ratelimit.NewRedisStore(client, cfg.RequestsPerMinute, time.Minute)
			appLogger.Info("Rate limiting backed by redis", zap.String("addr", cfg.RedisAddr))
		}
	}

	return ratelimit.New(rlCfg)
}
