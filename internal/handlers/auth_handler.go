package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/noxus/leadops/internal/auth"
	"github.com/noxus/leadops/internal/dto"
	"github.com/noxus/leadops/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
	cookies     auth.Cookies
}

func NewAuthHandler(authService *services.AuthService, cookies auth.Cookies) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Requisição inválida"))
	}

	res, err := h.authService.Login(c.UserContext(), req.Identifier(), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingCredentials):
			return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Email e senha são obrigatórios"))
		case errors.Is(err, services.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Credenciais inválidas"))
		}
		slog.Error("login failed", "endpoint", c.Path(), "request_id", requestID(c), "error", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Erro ao realizar login"))
	}

	h.cookies.Set(c, res.Signed, res.Session)
	v := auth.NewViewer(res.Session.User)
	return c.JSON(dto.LoginResponse{
		Success:  true,
		Redirect: auth.LandingPath(v, req.CallbackURL),
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.cookies.Clear(c)
	return c.Redirect(auth.LoginPath, fiber.StatusSeeOther)
}

func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return c.JSON(dto.Page[dto.LoginPage]{
		Title: "Entrar",
		Data:  dto.LoginPage{CallbackURL: auth.SafeCallback(c.Query("callbackUrl"))},
	})
}

func (h *AuthHandler) UnauthorizedPage(c *fiber.Ctx) error {
	v := auth.ViewerFrom(c)
	home := auth.LoginPath
	if v != nil {
		home = auth.HomePath(v)
	}
	return c.Status(fiber.StatusForbidden).JSON(dto.Page[dto.UnauthorizedPage]{
		Title: "Acesso negado",
		Data: dto.UnauthorizedPage{
			Message: "Você não tem permissão para acessar esta página.",
			Home:    home,
		},
	})
}
