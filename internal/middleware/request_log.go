package middleware

import (
	"errors"
	"time"

	"go-color-catalog/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// RequestLog writes one access log line per request. It should run after the
// requestid middleware so the id is available.
func RequestLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()

		status := c.Response().StatusCode()
		if chainErr != nil {
			// The app ErrorHandler has not run yet; use the status it will pick.
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(chainErr, &fe) {
				status = fe.Code
			}
		}

		var event *zerolog.Event
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		default:
			event = logger.Info()
		}

		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP())
		if id, ok := c.Locals("requestid").(string); ok {
			event.Str("request_id", id)
		}
		event.Msg("http request")

		return chainErr
	}
}
