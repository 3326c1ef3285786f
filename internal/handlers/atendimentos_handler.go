package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/noxus/leadops/internal/auth"
	"github.com/noxus/leadops/internal/dto"
	"github.com/noxus/leadops/internal/kanban"
	"github.com/noxus/leadops/internal/services"
	"github.com/noxus/leadops/internal/upstream"
)

// AtendimentosHandler serves the attendance kanban.
type AtendimentosHandler struct {
	attendance *services.AttendanceService
}

func NewAtendimentosHandler(attendance *services.AttendanceService) *AtendimentosHandler {
	return &AtendimentosHandler{attendance: attendance}
}

func (h *AtendimentosHandler) Board(c *fiber.Ctx) error {
	v := auth.ViewerFrom(c)
	board, err := h.attendance.Board(c.UserContext(), v, auth.TokenFrom(c))
	if err != nil {
		return fail(c, err)
	}
	cols := board.Columns()
	return page(c, "Atendimentos", v, dto.KanbanPage{
		Columns:         cols,
		NotAttendedSize: len(cols.NotAttended),
		AttendedSize:    len(cols.Attended),
	})
}

func (h *AtendimentosHandler) Contato(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("ID inválido"))
	}
	var req dto.ContatoRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Requisição inválida"))
		}
	}

	n, board, err := h.attendance.MarkAttended(c.UserContext(), auth.ViewerFrom(c), auth.TokenFrom(c), id, kanban.ContactType(req.TipoContato))
	resp := dto.ContatoResponse{Success: err == nil, Notification: n}
	if board != nil {
		cols := board.Columns()
		resp.Columns = &cols
	}
	if err != nil {
		return c.Status(contatoStatus(err)).JSON(resp)
	}
	return c.JSON(resp)
}

func contatoStatus(err error) int {
	switch {
	case errors.Is(err, kanban.ErrTransitionPending), errors.Is(err, kanban.ErrAlreadyAttended):
		return fiber.StatusConflict
	case errors.Is(err, kanban.ErrLeadNotFound), errors.Is(err, upstream.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, auth.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrInvalidContact):
		return fiber.StatusBadRequest
	}
	return fiber.StatusBadGateway
}
