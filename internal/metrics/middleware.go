package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Middleware records latency and status per matched route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		route := c.Route().Path
		RequestDuration.WithLabelValues(route, c.Method()).Observe(time.Since(start).Seconds())
		RequestTotal.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()

		return err
	}
}
