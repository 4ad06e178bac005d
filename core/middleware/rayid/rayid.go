package rayid

import (
	"vocab-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the request and response header carrying the ray id.
const HeaderName = "X-Ray-ID"

// New returns a middleware that assigns every request a ray id.
// An incoming X-Ray-ID header is reused so that traces can span services.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(logger.RayIDKey, rid)
		c.Set(HeaderName, rid)
		return c.Next()
	}
}

// Get returns the ray id of the current request.
func Get(c *fiber.Ctx) string {
	rid, _ := c.Locals(logger.RayIDKey).(string)
	return rid
}
