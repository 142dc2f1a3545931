package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/meridianpay/ledgercore/pkg/mlog"
)

const (
	correlationIDHeader = "X-Correlation-Id"
	correlationIDLocal  = "correlation_id"
)

// withCorrelationID assigns the inbound X-Correlation-Id or mints one,
// stashing it in fiber.Locals so every handler and writeError call can
// attach it to its response (spec §6: "every response carries
// correlation_id").
func withCorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(correlationIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(correlationIDLocal, id)
		c.Set(correlationIDHeader, id)

		return c.Next()
	}
}

// withHTTPLogging logs one line per request, grounded on the teacher's
// common/net/http request logging middleware.
func withHTTPLogging(logger mlog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		logger.WithFields(
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"correlation_id", c.Locals(correlationIDLocal),
			"latency_ms", time.Since(start).Milliseconds(),
		).Info("http request")

		return err
	}
}
