package ratelimit

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) Allow(context.Context, string) (bool, error) {
	return false, errors.New("connection refused")
}

func newApp(rl *RateLimiter) *fiber.App {
	app := fiber.New()
	app.Use(rl.Middleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestMemoryStoreRefill(t *testing.T) {
	s := NewMemoryStore(2, time.Minute)
	defer s.Stop()

	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		ok, err := s.Allow(ctx, "user-1")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, _ := s.Allow(ctx, "user-1")
	assert.False(t, ok)

	ok, _ = s.Allow(ctx, "user-2")
	assert.True(t, ok, "buckets are per key")

	now = now.Add(30 * time.Second)
	ok, _ = s.Allow(ctx, "user-1")
	assert.True(t, ok, "one token refilled after half the window")
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	rl := New(Config{MaxRequestsPerMinute: 1})
	defer rl.Stop()
	app := newApp(rl)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestMiddlewareIgnoresUserHeader(t *testing.T) {
	rl := New(Config{MaxRequestsPerMinute: 1})
	defer rl.Stop()
	app := newApp(rl)

	for i, user := range []string{"user-1", "user-2", "user-3"} {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		req.Header.Set("X-User-ID", user)

		resp, err := app.Test(req)
		require.NoError(t, err)
		if i == 0 {
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		} else {
			assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode, "rotating %s must not reset the limit", user)
		}
	}
}

func TestMiddlewareFailsOpen(t *testing.T) {
	app := newApp(New(Config{Store: failingStore{}}))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRedisWindowKey(t *testing.T) {
	s := NewRedisStore(nil, 10, time.Minute)
	s.now = func() time.Time { return time.Unix(120, 0) }

	assert.Equal(t, "ratelimit:user-1:2", s.windowKey("user-1"))

	s.now = func() time.Time { return time.Unix(179, 0) }
	assert.Equal(t, "ratelimit:user-1:2", s.windowKey("user-1"))
}
