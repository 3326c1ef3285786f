package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/noxus/leadops/internal/auth"
	"github.com/noxus/leadops/internal/dto"
)

// AdminOnly rejects API calls from anyone but administrators.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		v := auth.ViewerFrom(c)
		if v == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Não autenticado"))
		}
		if !v.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(dto.Fail("Acesso restrito a administradores"))
		}
		return c.Next()
	}
}
