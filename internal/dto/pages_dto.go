package dto

import (
	"github.com/noxus/leadops/internal/format"
	"github.com/noxus/leadops/internal/kanban"
	"github.com/noxus/leadops/internal/models"
	"github.com/noxus/leadops/internal/pagination"
)

// ViewerInfo is the header block shared by every page.
type ViewerInfo struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	LojaID   *int64      `json:"loja_id"`
	LojaNome string      `json:"loja_nome,omitempty"`
	Home     string      `json:"home"`
}

// Page is the envelope every page view model is rendered in.
type Page[T any] struct {
	Title  string     `json:"title"`
	Viewer ViewerInfo `json:"viewer"`
	Data   T          `json:"data"`
}

type LoginPage struct {
	CallbackURL string `json:"callbackUrl,omitempty"`
}

type UnauthorizedPage struct {
	Message string `json:"message"`
	Home    string `json:"home"`
}

// LeadFilters echoes the active filters back to the page.
type LeadFilters struct {
	LojaID *int64 `json:"loja,omitempty"`
	Search string `json:"search,omitempty"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
}

type LeadsPage struct {
	Leads        []models.Lead   `json:"leads"`
	Pagination   pagination.Page `json:"pagination"`
	Filters      LeadFilters     `json:"filters"`
	Lojas        []models.Loja   `json:"lojas,omitempty"`
	SelectedLoja string          `json:"selectedLoja,omitempty"`
}

type LeadDetailPage struct {
	Lead     models.Lead         `json:"lead"`
	Contato  format.ContactLinks `json:"contato"`
	Criado   string              `json:"criadoEm"`
	CanAdmin bool                `json:"canAdmin"`
	Actions  []models.LeadAction `json:"actions,omitempty"`
}

type KanbanPage struct {
	Columns         kanban.Columns `json:"columns"`
	NotAttendedSize int            `json:"naoAtendidosTotal"`
	AttendedSize    int            `json:"atendidosTotal"`
}

type ContatoRequest struct {
	TipoContato string `json:"tipo_contato" form:"tipo_contato"`
}

type ContatoResponse struct {
	Success      bool                `json:"success"`
	Notification kanban.Notification `json:"notification"`
	Columns      *kanban.Columns     `json:"columns,omitempty"`
}
