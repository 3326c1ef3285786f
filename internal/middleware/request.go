package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/noxus/leadops/internal/upstream"
)

// UpstreamContext carries the request ID into the request's context so
// upstream calls are correlated with the inbound request.
func UpstreamContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := c.Locals("requestid").(string); ok && id != "" {
			c.SetUserContext(upstream.WithRequestID(c.UserContext(), id))
		}
		return c.Next()
	}
}

// SecurityHeaders sets the static hardening headers on every response.
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "same-origin")
		return c.Next()
	}
}
