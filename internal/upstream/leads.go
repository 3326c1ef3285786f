package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/noxus/leadops/internal/models"
)

// AllLeadsPerPage is the page size used to pull a whole lead set at once.
const AllLeadsPerPage = 10000

// LeadQuery filters the upstream lead listing. Zero values are omitted.
type LeadQuery struct {
	Page    int
	PerPage int
	LojaID  *int64
	Search  string
	From    string
	To      string
}

func (q LeadQuery) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.LojaID != nil {
		v.Set("loja_id", strconv.FormatInt(*q.LojaID, 10))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.From != "" {
		v.Set("from", q.From)
	}
	if q.To != "" {
		v.Set("to", q.To)
	}
	return v
}

func (c *Client) ListLeads(ctx context.Context, token string, q LeadQuery) (*models.LeadsPage, error) {
	var page models.LeadsPage
	if err := c.getAPI(ctx, token, "leads", q.Values(), &page); err != nil {
		return nil, err
	}
	if page.Leads == nil {
		page.Leads = []models.Lead{}
	}
	return &page, nil
}

// AllLeads fetches every lead matching q in a single request.
func (c *Client) AllLeads(ctx context.Context, token string, q LeadQuery) ([]models.Lead, error) {
	q.Page, q.PerPage = 1, AllLeadsPerPage
	page, err := c.ListLeads(ctx, token, q)
	if err != nil {
		return nil, err
	}
	return page.Leads, nil
}

func (c *Client) GetLead(ctx context.Context, token string, id int64) (*models.Lead, error) {
	var resp struct {
		Lead *models.Lead `json:"lead"`
	}
	path := fmt.Sprintf("leads/%d", id)
	if err := c.getAPI(ctx, token, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Lead == nil {
		return nil, &Error{Endpoint: path, Status: http.StatusNotFound, Message: "Lead não encontrado"}
	}
	return resp.Lead, nil
}

func (c *Client) DeleteLead(ctx context.Context, token string, id int64) (*Response, error) {
	return c.Forward(ctx, http.MethodDelete, fmt.Sprintf("leads/%d", id), nil, token, nil)
}

// LeadActions returns a lead's contact history. The upstream answers either
// {"actions": [...]} or a bare array.
func (c *Client) LeadActions(ctx context.Context, token string, id int64) ([]models.LeadAction, error) {
	var raw json.RawMessage
	path := fmt.Sprintf("leads/%d/actions", id)
	if err := c.getAPI(ctx, token, path, nil, &raw); err != nil {
		return nil, err
	}

	actions := []models.LeadAction{}
	if err := json.Unmarshal(raw, &actions); err == nil {
		return actions, nil
	}
	var wrapped struct {
		Actions []models.LeadAction `json:"actions"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode lead actions: %w", err)
	}
	if wrapped.Actions == nil {
		return actions, nil
	}
	return wrapped.Actions, nil
}

// ContatoRequest registers one contact attempt with a lead.
type ContatoRequest struct {
	LeadID      int64  `json:"lead_id"`
	TipoContato string `json:"tipo_contato"`
	Observacao  string `json:"observacao,omitempty"`
	UsuarioID   int64  `json:"usuario_id"`
}

// RegisterContato records the contact; the upstream flips the lead to
// atendido as a side effect.
func (c *Client) RegisterContato(ctx context.Context, token string, req ContatoRequest) error {
	return c.call(ctx, http.MethodPost, "lead-contato", c.apiURL("lead-contato", nil), token, req, nil)
}

// ForwardContato posts the contact and returns the upstream reply as-is.
func (c *Client) ForwardContato(ctx context.Context, token string, req ContatoRequest) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return c.Forward(ctx, http.MethodPost, "lead-contato", nil, token, body)
}
