package ratelimit

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/legal-assistant/backend/internal/metrics"
)

// Store decides whether one more request for key fits the current window.
type Store interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type RateLimiter struct {
	store  Store
	logger *zap.Logger
}

type Config struct {
	MaxRequestsPerMinute int
	WindowDuration       time.Duration
	Logger               *zap.Logger
	// Store overrides the in-process token bucket, e.g. with NewRedisStore.
	Store Store
}

func New(cfg Config) *RateLimiter {
	if cfg.MaxRequestsPerMinute == 0 {
		cfg.MaxRequestsPerMinute = 60
	}
	if cfg.WindowDuration == 0 {
		cfg.WindowDuration = time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Store == nil {
		cfg.Store = NewMemoryStore(cfg.MaxRequestsPerMinute, cfg.WindowDuration)
	}

	return &RateLimiter{
		store:  cfg.Store,
		logger: cfg.Logger,
	}
}

func (rl *RateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Client headers are not trusted for the key.
		key := c.IP()

		allowed, err := rl.store.Allow(c.UserContext(), key)
		if err != nil {
			// Limiter backend down: let the request through.
			rl.logger.Warn("Rate limit check failed",
				zap.String("key", key),
				zap.Error(err),
			)
			return c.Next()
		}

		if !allowed {
			metrics.RateLimited.Inc()
			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", c.Path()),
			)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"detail": "Rate limit exceeded. Please try again later.",
			})
		}

		return c.Next()
	}
}

// Stop releases background resources held by the store.
func (rl *RateLimiter) Stop() {
	if s, ok := rl.store.(interface{ Stop() }); ok {
		s.Stop()
	}
}
