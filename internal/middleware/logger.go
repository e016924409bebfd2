package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/pressops/wpgate/internal/logger"
)

// RequestLogger logs one structured line per request. Passing a nil
// logger falls back to the global one.
func RequestLogger(log *zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if log == nil {
			log = logger.Get()
		}

		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		event := log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Str("ip", c.IP()).
			Str("user_agent", c.Get("User-Agent")).
			Dur("latency", latency)
		if err != nil {
			event = event.Err(err)
		}
		event.Msg("request")

		return err
	}
}
