package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/noxus/leadops/internal/auth"
	"github.com/noxus/leadops/internal/dto"
	"github.com/noxus/leadops/internal/services"
	"github.com/noxus/leadops/internal/upstream"
)

// GatewayHandler serves the /api routes the dashboard's scripts call. Each
// route maps onto one upstream endpoint, scoped by the caller's viewer.
type GatewayHandler struct {
	api   *upstream.Client
	leads *services.LeadService
}

func NewGatewayHandler(api *upstream.Client, leads *services.LeadService) *GatewayHandler {
	return &GatewayHandler{api: api, leads: leads}
}

func (h *GatewayHandler) ListLeads(c *fiber.Ctx) error {
	f := services.LeadFilter{
		Page:    c.QueryInt("page", 1),
		PerPage: c.QueryInt("per_page", services.LeadsPerPage),
		LojaID:  queryID(c, "loja_id"),
		Search:  c.Query("search"),
		From:    c.Query("from"),
		To:      c.Query("to"),
	}
	resp, err := h.leads.ForwardLeads(c.UserContext(), auth.ViewerFrom(c), auth.TokenFrom(c), f)
	if err != nil {
		return fail(c, err)
	}
	return relay(c, resp)
}

func (h *GatewayHandler) GetLead(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("ID inválido"))
	}
	lead, err := h.leads.GetLead(c.UserContext(), auth.ViewerFrom(c), auth.TokenFrom(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK(lead))
}

func (h *GatewayHandler) DeleteLead(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("ID inválido"))
	}
	resp, err := h.leads.DeleteLead(c.UserContext(), auth.ViewerFrom(c), auth.TokenFrom(c), id)
	if err != nil {
		return fail(c, err)
	}
	return relay(c, resp)
}

func (h *GatewayHandler) LeadActions(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("ID inválido"))
	}
	resp, err := h.api.Forward(c.UserContext(), http.MethodGet, fmt.Sprintf("leads/%d/actions", id), nil, auth.TokenFrom(c), nil)
	if err != nil {
		return fail(c, err)
	}
	return relay(c, resp)
}

func (h *GatewayHandler) RegisterContato(c *fiber.Ctx) error {
	var in services.ContatoInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Requisição inválida"))
	}
	resp, err := h.leads.ForwardContato(c.UserContext(), auth.ViewerFrom(c), auth.TokenFrom(c), in)
	if err != nil {
		return fail(c, err)
	}
	return relay(c, resp)
}

func (h *GatewayHandler) ListLojas(c *fiber.Ctx) error {
	resp, err := h.api.Forward(c.UserContext(), http.MethodGet, "lojas", nil, auth.TokenFrom(c), nil)
	if err != nil {
		return fail(c, err)
	}
	return relay(c, resp)
}

func (h *GatewayHandler) LeadsPorDia(c *fiber.Ctx) error {
	leads, err := h.leads.LeadsPorDia(c.UserContext(), auth.ViewerFrom(c), auth.TokenFrom(c), c.Query("date"), queryID(c, "loja_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK(leads))
}

func (h *GatewayHandler) StatsService(c *fiber.Ctx) error {
	st, err := h.api.ContatoStats(c.UserContext(), auth.TokenFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK(st))
}

func (h *GatewayHandler) TempoAtendimento(c *fiber.Ctx) error {
	ranking, err := h.api.TempoPorLoja(c.UserContext(), auth.TokenFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.TempoAtendimentoResponse{
		Success:    true,
		TotalLojas: len(ranking),
		Data:       ranking,
	})
}

func (h *GatewayHandler) LeadsPorOrigem(c *fiber.Ctx) error {
	q := url.Values{}
	if from := c.Query("from"); from != "" {
		q.Set("from", from)
	}
	if to := c.Query("to"); to != "" {
		q.Set("to", to)
	}
	resp, err := h.api.Forward(c.UserContext(), http.MethodGet, "leads-por-origem", q, auth.TokenFrom(c), nil)
	if err != nil {
		return fail(c, err)
	}
	return relay(c, resp)
}

func (h *GatewayHandler) LeadsStats(c *fiber.Ctx) error {
	serie, err := h.leads.LeadsSerie(c.UserContext(), auth.TokenFrom(c), c.Query("from"), c.Query("to"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK(serie))
}
