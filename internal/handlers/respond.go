package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/noxus/leadops/internal/auth"
	"github.com/noxus/leadops/internal/dto"
	"github.com/noxus/leadops/internal/services"
	"github.com/noxus/leadops/internal/upstream"
)

const msgUpstreamFailed = "Erro ao comunicar com a API"

// fail maps a service error onto the JSON error envelope.
func fail(c *fiber.Ctx, err error) error {
	var ue *upstream.Error
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Não autenticado"))
	case errors.Is(err, services.ErrMissingToken):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Token de autenticação ausente"))
	case errors.Is(err, auth.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.Fail("Acesso negado"))
	case errors.Is(err, services.ErrMissingDate):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Data é obrigatória"))
	case errors.Is(err, services.ErrInvalidDate):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Data inválida"))
	case errors.Is(err, services.ErrInvalidContact):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Contato inválido"))
	case errors.As(err, &ue) && ue.Status >= 400 && ue.Status < 500:
		msg := ue.Reason()
		if msg == "" {
			msg = msgUpstreamFailed
		}
		return c.Status(ue.Status).JSON(dto.Fail(msg))
	}

	slog.Error("request failed",
		"endpoint", c.Path(),
		"request_id", requestID(c),
		"error", err.Error(),
	)
	msg := msgUpstreamFailed
	if ue != nil && ue.Reason() != "" {
		msg = ue.Reason()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail(msg))
}

// relay writes an upstream reply back unchanged.
func relay(c *fiber.Ctx, resp *upstream.Response) error {
	ct := resp.ContentType
	if ct == "" {
		ct = fiber.MIMEApplicationJSON
	}
	c.Set(fiber.HeaderContentType, ct)
	return c.Status(resp.Status).Send(resp.Body)
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

// paramID parses a positive numeric route parameter.
func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	return id, err == nil && id > 0
}

// queryID parses an optional positive numeric query parameter.
func queryID(c *fiber.Ctx, name string) *int64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

// viewerInfo is the header block for page view models.
func viewerInfo(v *auth.Viewer) dto.ViewerInfo {
	u := v.User()
	return dto.ViewerInfo{
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		LojaID:   u.LojaID,
		LojaNome: u.LojaNome,
		Home:     auth.HomePath(v),
	}
}

func page[T any](c *fiber.Ctx, title string, v *auth.Viewer, data T) error {
	return c.JSON(dto.Page[T]{Title: title, Viewer: viewerInfo(v), Data: data})
}

func logOptional(c *fiber.Ctx, section string, err error) {
	slog.Warn("optional section unavailable",
		"section", section,
		"endpoint", c.Path(),
		"request_id", requestID(c),
		"error", err,
	)
}
