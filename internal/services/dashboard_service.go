package services

import (
	"context"

	"github.com/noxus/leadops/internal/auth"
	"github.com/noxus/leadops/internal/format"
	"github.com/noxus/leadops/internal/models"
	"github.com/noxus/leadops/internal/stats"
	"github.com/noxus/leadops/internal/upstream"
	"golang.org/x/sync/errgroup"
)

const (
	// RecentLeadsLimit is how many leads the store home lists.
	RecentLeadsLimit = 50
	// LeadsPerPage is the lead table page size.
	LeadsPerPage = 10
)

// DashboardService composes page data from several upstream calls at once.
// Required sections fail the whole page; optional sections are logged and
// left empty.
type DashboardService struct {
	api   *upstream.Client
	leads *LeadService
	lojas *LojasService
}

func NewDashboardService(api *upstream.Client, leads *LeadService, lojas *LojasService) *DashboardService {
	return &DashboardService{api: api, leads: leads, lojas: lojas}
}

type ContatoSection struct {
	models.ContatoStats
	TempoMedioFormatado string `json:"tempoMedioFormatado"`
}

type AdminDashboard struct {
	StatsGeral      stats.Summary       `json:"statsGeral"`
	UltimaCaptura   string              `json:"ultimaCapturaFormatada"`
	Contato         ContatoSection      `json:"contato"`
	TempoRanking    []models.TempoLoja  `json:"tempoRanking"`
	Last30Days      []models.DayCount   `json:"last30Days"`
	Last12Months    []models.MonthCount `json:"last12Months"`
	PorEstado       []stats.Bucket      `json:"porEstado"`
	PorInvestimento []stats.Bucket      `json:"porInvestimento"`
	PorInteresse    []stats.Bucket      `json:"porInteresse"`
	PorLoja         []stats.Bucket      `json:"porLoja"`
	PorOrigem       []models.OrigemItem `json:"porOrigem"`
}

// Admin builds the administrator dashboard.
func (s *DashboardService) Admin(ctx context.Context, v *auth.Viewer, token string) (*AdminDashboard, error) {
	d := &AdminDashboard{
		TempoRanking: []models.TempoLoja{},
		PorOrigem:    []models.OrigemItem{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		agg, err := s.leads.Aggregates(gctx, v, token, nil)
		if err != nil {
			return err
		}
		d.StatsGeral = agg.Summary
		d.Last30Days = agg.Last30Days
		d.Last12Months = agg.Last12Months
		d.PorEstado = agg.PorEstado
		d.PorInvestimento = agg.PorInvestimento
		d.PorInteresse = agg.PorInteresse
		d.PorLoja = agg.PorLoja
		return nil
	})
	g.Go(func() error {
		c, err := s.api.ContatoStats(gctx, token)
		if err != nil {
			optionalFailed("contato stats", 0, err)
			return nil
		}
		d.Contato.ContatoStats = c
		return nil
	})
	g.Go(func() error {
		ranking, err := s.api.TempoPorLoja(gctx, token)
		if err != nil {
			optionalFailed("tempo por loja", 0, err)
			return nil
		}
		d.TempoRanking = ranking
		return nil
	})
	g.Go(func() error {
		origens, err := s.api.LeadsPorOrigem(gctx, token, "", "")
		if err != nil {
			optionalFailed("leads por origem", 0, err)
			return nil
		}
		d.PorOrigem = origens
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	d.Contato.TempoMedioFormatado = format.Minutes(d.Contato.TempoMedioMinutos)
	d.UltimaCaptura = format.LastCapture(d.StatsGeral.UltimaCaptura, s.leads.Location())
	return d, nil
}

type StoreDashboard struct {
	Stats         stats.Summary `json:"stats"`
	UltimaCaptura string        `json:"ultimaCapturaFormatada"`
	RecentLeads   []models.Lead `json:"recentLeads"`
}

// Store builds the store user's home page.
func (s *DashboardService) Store(ctx context.Context, v *auth.Viewer, token string) (*StoreDashboard, error) {
	d := &StoreDashboard{RecentLeads: []models.Lead{}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := s.leads.StatsGeral(gctx, v, token, nil)
		if err != nil {
			return err
		}
		d.Stats = summary
		return nil
	})
	g.Go(func() error {
		page, err := s.leads.GetLeads(gctx, v, token, LeadFilter{Page: 1, PerPage: RecentLeadsLimit})
		if err != nil {
			optionalFailed("recent leads", 0, err)
			return nil
		}
		d.RecentLeads = page.Leads
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	d.UltimaCaptura = format.LastCapture(d.Stats.UltimaCaptura, s.leads.Location())
	return d, nil
}

type LeadsListing struct {
	Page  *models.LeadsPage `json:"page"`
	Lojas []models.Loja     `json:"lojas"`
}

// Leads loads a page of leads and, when withLojas is set, the store list
// used by the filter.
func (s *DashboardService) Leads(ctx context.Context, v *auth.Viewer, token string, f LeadFilter, withLojas bool) (*LeadsListing, error) {
	l := &LeadsListing{Lojas: []models.Loja{}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := s.leads.GetLeads(gctx, v, token, f)
		if err != nil {
			return err
		}
		l.Page = page
		return nil
	})
	if withLojas {
		g.Go(func() error {
			lojas, err := s.lojas.List(gctx, token)
			if err != nil {
				optionalFailed("lojas", 0, err)
				return nil
			}
			l.Lojas = lojas
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return l, nil
}
