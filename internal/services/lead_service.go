package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/noxus/leadops/internal/auth"
	"github.com/noxus/leadops/internal/models"
	"github.com/noxus/leadops/internal/stats"
	"github.com/noxus/leadops/internal/upstream"
)

var (
	ErrInvalidDate    = errors.New("invalid date")
	ErrMissingDate    = errors.New("date is required")
	ErrInvalidContact = errors.New("invalid contact type")
	ErrMissingToken   = errors.New("upstream token required")
)

// LeadFilter is a lead listing request as issued by a page or the API.
type LeadFilter struct {
	Page    int
	PerPage int
	LojaID  *int64
	Search  string
	From    string
	To      string
}

type LeadService struct {
	api *upstream.Client
	loc *time.Location
	now func() time.Time
}

func NewLeadService(api *upstream.Client, loc *time.Location) *LeadService {
	if loc == nil {
		loc = time.UTC
	}
	return &LeadService{api: api, loc: loc, now: time.Now}
}

// Now is the current time in the dashboard's time zone.
func (s *LeadService) Now() time.Time { return s.now().In(s.loc) }

func (s *LeadService) Location() *time.Location { return s.loc }

func (s *LeadService) query(v *auth.Viewer, f LeadFilter) (upstream.LeadQuery, bool) {
	scope := v.ScopeStore(f.LojaID)
	q := upstream.LeadQuery{
		Page:    f.Page,
		PerPage: f.PerPage,
		LojaID:  scope,
		Search:  f.Search,
		From:    f.From,
		To:      f.To,
	}
	return q, scope == nil || *scope != auth.NoStore
}

// visible drops leads the viewer must not see. The upstream already filters
// by loja_id; this keeps the guarantee if it ever does not.
func visible(v *auth.Viewer, leads []models.Lead) []models.Lead {
	if v.IsAdmin() {
		return leads
	}
	out := leads[:0:0]
	for _, l := range leads {
		if auth.CanAccessLead(v, l.StoreID()) {
			out = append(out, l)
		}
	}
	return out
}

func emptyPage(f LeadFilter) *models.LeadsPage {
	return &models.LeadsPage{
		Success: true,
		Leads:   []models.Lead{},
		Page:    models.FlexInt(max(f.Page, 1)),
		PerPage: models.FlexInt(f.PerPage),
	}
}

// GetLeads lists one page of leads within the viewer's scope.
func (s *LeadService) GetLeads(ctx context.Context, v *auth.Viewer, token string, f LeadFilter) (*models.LeadsPage, error) {
	q, ok := s.query(v, f)
	if !ok {
		return emptyPage(f), nil
	}
	page, err := s.api.ListLeads(ctx, token, q)
	if err != nil {
		return nil, err
	}
	page.Leads = visible(v, page.Leads)
	return page, nil
}

// ForwardLeads relays the lead listing verbatim, with the store filter
// forced for store users.
func (s *LeadService) ForwardLeads(ctx context.Context, v *auth.Viewer, token string, f LeadFilter) (*upstream.Response, error) {
	q, ok := s.query(v, f)
	if !ok {
		body, err := json.Marshal(emptyPage(f))
		if err != nil {
			return nil, err
		}
		return &upstream.Response{
			Status:      http.StatusOK,
			ContentType: "application/json",
			Body:        body,
		}, nil
	}
	return s.api.Forward(ctx, http.MethodGet, "leads", q.Values(), token, nil)
}

// AllLeads fetches every lead in scope.
func (s *LeadService) AllLeads(ctx context.Context, v *auth.Viewer, token string, lojaID *int64) ([]models.Lead, error) {
	q, ok := s.query(v, LeadFilter{LojaID: lojaID})
	if !ok {
		return []models.Lead{}, nil
	}
	leads, err := s.api.AllLeads(ctx, token, q)
	if err != nil {
		return nil, err
	}
	return visible(v, leads), nil
}

// GetLead returns one lead, or auth.ErrForbidden when it belongs to another
// store.
func (s *LeadService) GetLead(ctx context.Context, v *auth.Viewer, token string, id int64) (*models.Lead, error) {
	lead, err := s.api.GetLead(ctx, token, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanAccessLead(v, lead.StoreID()) {
		return nil, auth.ErrForbidden
	}
	return lead, nil
}

func (s *LeadService) Actions(ctx context.Context, v *auth.Viewer, token string, id int64) ([]models.LeadAction, error) {
	if !v.IsAdmin() {
		return nil, auth.ErrForbidden
	}
	return s.api.LeadActions(ctx, token, id)
}

// StatsGeral is the headline summary over every lead in scope.
func (s *LeadService) StatsGeral(ctx context.Context, v *auth.Viewer, token string, lojaID *int64) (stats.Summary, error) {
	leads, err := s.AllLeads(ctx, v, token, lojaID)
	if err != nil {
		return stats.Summary{}, err
	}
	return stats.Summarize(leads, s.Now()), nil
}

// Aggregates are the chart series computed locally from a lead set.
type Aggregates struct {
	Summary         stats.Summary       `json:"summary"`
	PorInvestimento []stats.Bucket      `json:"porInvestimento"`
	PorInteresse    []stats.Bucket      `json:"porInteresse"`
	PorEstado       []stats.Bucket      `json:"porEstado"`
	PorLoja         []stats.Bucket      `json:"porLoja"`
	Last30Days      []models.DayCount   `json:"last30Days"`
	Last12Months    []models.MonthCount `json:"last12Months"`
	Contato         models.ContatoStats `json:"contato"`
}

func (s *LeadService) Aggregate(leads []models.Lead) Aggregates {
	now := s.Now()
	return Aggregates{
		Summary:         stats.Summarize(leads, now),
		PorInvestimento: stats.ByInvestimento(leads),
		PorInteresse:    stats.ByInteresse(leads),
		PorEstado:       stats.ByEstado(leads),
		PorLoja:         stats.ByLoja(leads),
		Last30Days:      stats.Last30Days(leads, now),
		Last12Months:    stats.Last12Months(leads, now),
		Contato:         stats.ContactRate(leads),
	}
}

// Aggregates fetches every lead in scope and aggregates them.
func (s *LeadService) Aggregates(ctx context.Context, v *auth.Viewer, token string, lojaID *int64) (Aggregates, error) {
	leads, err := s.AllLeads(ctx, v, token, lojaID)
	if err != nil {
		return Aggregates{}, err
	}
	return s.Aggregate(leads), nil
}

// LeadsPorDia lists up to 100 leads created on date (YYYY-MM-DD).
func (s *LeadService) LeadsPorDia(ctx context.Context, v *auth.Viewer, token, date string, lojaID *int64) ([]models.Lead, error) {
	if date == "" {
		return nil, ErrMissingDate
	}
	if _, err := time.ParseInLocation("2006-01-02", date, s.loc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDate, date)
	}
	page, err := s.GetLeads(ctx, v, token, LeadFilter{Page: 1, PerPage: 100, LojaID: lojaID, From: date, To: date})
	if err != nil {
		return nil, err
	}
	return page.Leads, nil
}

// LeadsSerie returns the per-day series between from and to with missing
// days filled with zero.
func (s *LeadService) LeadsSerie(ctx context.Context, token, from, to string) ([]models.DayCount, error) {
	if from == "" || to == "" {
		return nil, ErrMissingDate
	}
	start, err := time.ParseInLocation("2006-01-02", from, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDate, from)
	}
	end, err := time.ParseInLocation("2006-01-02", to, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDate, to)
	}
	points, err := s.api.LeadsPorDia(ctx, token, from, to)
	if err != nil {
		return nil, err
	}
	return stats.FillDays(points, start, end), nil
}

// ContatoInput is a contact registration coming from the dashboard.
type ContatoInput struct {
	LeadID      int64  `json:"lead_id"`
	TipoContato string `json:"tipo_contato"`
	Observacao  string `json:"observacao"`
}

// contato validates in and builds the upstream request on behalf of v.
// Store users may only register contacts on their own store's leads.
func (s *LeadService) contato(ctx context.Context, v *auth.Viewer, token string, in ContatoInput) (upstream.ContatoRequest, error) {
	if in.LeadID <= 0 {
		return upstream.ContatoRequest{}, fmt.Errorf("%w: lead_id", ErrInvalidContact)
	}
	if !v.IsAdmin() {
		if _, err := s.GetLead(ctx, v, token, in.LeadID); err != nil {
			return upstream.ContatoRequest{}, err
		}
	}
	return upstream.ContatoRequest{
		LeadID:      in.LeadID,
		TipoContato: in.TipoContato,
		Observacao:  in.Observacao,
		UsuarioID:   v.User().ID,
	}, nil
}

func contatoFailed(v *auth.Viewer, leadID int64, err error) {
	slog.Error("failed to register contact",
		"lead_id", leadID,
		"user_id", fmt.Sprint(v.User().ID),
		"endpoint", "lead-contato",
		"error", err.Error(),
	)
}

// RegisterContato records a contact on behalf of the viewer.
func (s *LeadService) RegisterContato(ctx context.Context, v *auth.Viewer, token string, in ContatoInput) error {
	req, err := s.contato(ctx, v, token, in)
	if err != nil {
		return err
	}
	if err := s.api.RegisterContato(ctx, token, req); err != nil {
		contatoFailed(v, in.LeadID, err)
		return err
	}
	return nil
}

// ForwardContato records a contact on behalf of the viewer and returns the
// upstream reply unchanged.
func (s *LeadService) ForwardContato(ctx context.Context, v *auth.Viewer, token string, in ContatoInput) (*upstream.Response, error) {
	req, err := s.contato(ctx, v, token, in)
	if err != nil {
		return nil, err
	}
	resp, err := s.api.ForwardContato(ctx, token, req)
	if err != nil {
		contatoFailed(v, in.LeadID, err)
		return nil, err
	}
	if resp.Status >= http.StatusBadRequest {
		contatoFailed(v, in.LeadID, fmt.Errorf("upstream status %d", resp.Status))
	}
	return resp, nil
}

// DeleteLead relays an administrator's delete request.
func (s *LeadService) DeleteLead(ctx context.Context, v *auth.Viewer, token string, id int64) (*upstream.Response, error) {
	if !v.IsAdmin() {
		return nil, auth.ErrForbidden
	}
	if token == "" {
		return nil, ErrMissingToken
	}
	return s.api.DeleteLead(ctx, token, id)
}
