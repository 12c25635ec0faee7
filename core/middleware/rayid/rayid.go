package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// HeaderName is echoed on every response.
	HeaderName = "X-Ray-ID"
	// LocalsKey is where handlers find the ray id (see logger.WithRayID).
	LocalsKey = "ray_id"
)

// New returns a middleware that tags each request with a ray id. An id supplied by
// the caller is kept.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalsKey, rid)
		c.Set(HeaderName, rid)
		return c.Next()
	}
}
