package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/noxus/leadops/internal/auth"
	"github.com/noxus/leadops/internal/dto"
	"github.com/noxus/leadops/internal/format"
	"github.com/noxus/leadops/internal/models"
	"github.com/noxus/leadops/internal/pagination"
	"github.com/noxus/leadops/internal/services"
)

// PagesHandler renders the dashboard pages as JSON view models.
type PagesHandler struct {
	dashboard *services.DashboardService
	leads     *services.LeadService
	lojas     *services.LojasService
}

func NewPagesHandler(dashboard *services.DashboardService, leads *services.LeadService, lojas *services.LojasService) *PagesHandler {
	return &PagesHandler{dashboard: dashboard, leads: leads, lojas: lojas}
}

func (h *PagesHandler) AdminHome(c *fiber.Ctx) error {
	v := auth.ViewerFrom(c)
	d, err := h.dashboard.Admin(c.UserContext(), v, auth.TokenFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return page(c, "Dashboard", v, d)
}

func (h *PagesHandler) AdminLeads(c *fiber.Ctx) error {
	return h.leadsPage(c, "Leads", true)
}

func (h *PagesHandler) AdminLojas(c *fiber.Ctx) error {
	v := auth.ViewerFrom(c)
	res, err := h.lojas.BuscarLojas(c.UserContext(), auth.TokenFrom(c), services.BuscarLojasParams{
		Search:  c.Query("search"),
		SortBy:  services.ParseSortBy(c.Query("sortBy")),
		Page:    c.QueryInt("page", 1),
		PerPage: services.LojasPerPage,
	})
	if err != nil {
		return fail(c, err)
	}
	return page(c, "Lojas", v, res)
}

func (h *PagesHandler) AdminLoja(c *fiber.Ctx) error {
	v := auth.ViewerFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("Loja não encontrada"))
	}
	d, err := h.lojas.Detail(c.UserContext(), auth.TokenFrom(c), id)
	if err != nil {
		return fail(c, err)
	}
	return page(c, d.Loja.Nome, v, d)
}

func (h *PagesHandler) StoreHome(c *fiber.Ctx) error {
	v := auth.ViewerFrom(c)
	d, err := h.dashboard.Store(c.UserContext(), v, auth.TokenFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return page(c, "Dashboard", v, d)
}

func (h *PagesHandler) StoreLeads(c *fiber.Ctx) error {
	return h.leadsPage(c, "Meus leads", false)
}

func (h *PagesHandler) leadsPage(c *fiber.Ctx, title string, admin bool) error {
	v := auth.ViewerFrom(c)
	pageNum, perPage := pagination.Normalize(c.QueryInt("page", 1), services.LeadsPerPage, services.LeadsPerPage)
	f := services.LeadFilter{
		Page:    pageNum,
		PerPage: perPage,
		Search:  c.Query("search"),
		From:    c.Query("from"),
		To:      c.Query("to"),
	}
	if admin {
		f.LojaID = queryID(c, "loja")
	}

	listing, err := h.dashboard.Leads(c.UserContext(), v, auth.TokenFrom(c), f, admin)
	if err != nil {
		return fail(c, err)
	}

	data := dto.LeadsPage{
		Leads:      listing.Page.Leads,
		Pagination: pagination.New(int(listing.Page.Total), pageNum, perPage),
		Filters: dto.LeadFilters{
			LojaID: f.LojaID,
			Search: f.Search,
			From:   f.From,
			To:     f.To,
		},
	}
	if admin {
		data.Lojas = listing.Lojas
		data.SelectedLoja = selectedLoja(listing.Lojas, f.LojaID)
	}
	return page(c, title, v, data)
}

func selectedLoja(lojas []models.Loja, id *int64) string {
	if id == nil {
		return ""
	}
	for _, l := range lojas {
		if l.ID.Int64() == *id {
			return l.Nome
		}
	}
	return fmt.Sprintf("Loja #%d", *id)
}

func (h *PagesHandler) LeadDetail(c *fiber.Ctx) error {
	v := auth.ViewerFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("Lead não encontrado"))
	}

	token := auth.TokenFrom(c)
	lead, err := h.leads.GetLead(c.UserContext(), v, token, id)
	if err != nil {
		if errors.Is(err, auth.ErrForbidden) {
			return c.Redirect(auth.UnauthorizedPath)
		}
		return fail(c, err)
	}

	data := dto.LeadDetailPage{
		Lead:     *lead,
		Contato:  format.Links(lead.Telefone, lead.Email),
		CanAdmin: v.IsAdmin(),
	}
	if t, ok := lead.CreatedAt(h.leads.Location()); ok {
		data.Criado = format.Date(t)
	}
	if v.IsAdmin() {
		actions, err := h.leads.Actions(c.UserContext(), v, token, id)
		if err != nil {
			logOptional(c, "lead actions", err)
		} else {
			data.Actions = actions
		}
	}
	return page(c, lead.Nome, v, data)
}

// Root sends the viewer to their home page.
func (h *PagesHandler) Root(c *fiber.Ctx) error {
	return c.Redirect(auth.HomePath(auth.ViewerFrom(c)))
}
