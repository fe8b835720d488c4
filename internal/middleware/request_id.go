package middleware

import (
	"github.com/tuantrunglc/ecom-backend-api/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxRequestIDLength = 128

// RequestID reuses a sane incoming X-Request-ID or mints a UUID, echoes it
// back and stores it in the user context for logging.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(fiber.HeaderXRequestID)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		c.Set(fiber.HeaderXRequestID, id)
		c.Locals("request_id", id)
		c.SetUserContext(logger.WithRequestID(c.UserContext(), id))
		return c.Next()
	}
}
