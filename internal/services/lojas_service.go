package services

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/noxus/leadops/internal/models"
	"github.com/noxus/leadops/internal/pagination"
	"github.com/noxus/leadops/internal/stats"
	"github.com/noxus/leadops/internal/upstream"
	"golang.org/x/sync/errgroup"
)

// SortBy is a store listing order.
type SortBy string

const (
	SortNome        SortBy = "nome"
	SortNomeDesc    SortBy = "nome-desc"
	SortLeadsDesc   SortBy = "leads-desc"
	SortLeadsAsc    SortBy = "leads-asc"
	SortHojeDesc    SortBy = "hoje-desc"
	SortHojeAsc     SortBy = "hoje-asc"
	SortLocalizacao SortBy = "localizacao"
)

// LojasPerPage is the store grid page size.
const LojasPerPage = 9

// ParseSortBy falls back to SortNome for unknown keys.
func ParseSortBy(s string) SortBy {
	switch v := SortBy(s); v {
	case SortNome, SortNomeDesc, SortLeadsDesc, SortLeadsAsc, SortHojeDesc, SortHojeAsc, SortLocalizacao:
		return v
	}
	return SortNome
}

type BuscarLojasParams struct {
	Search  string
	SortBy  SortBy
	Page    int
	PerPage int
}

type LojasService struct {
	api *upstream.Client
}

func NewLojasService(api *upstream.Client) *LojasService {
	return &LojasService{api: api}
}

func (s *LojasService) List(ctx context.Context, token string) ([]models.Loja, error) {
	return s.api.ListLojas(ctx, token)
}

// BuscarLojas fetches every store with its counters, then filters, sorts
// and paginates them in that order.
func (s *LojasService) BuscarLojas(ctx context.Context, token string, p BuscarLojasParams) (pagination.Result[models.LojaWithStats], error) {
	lojas, err := s.api.ListLojasWithStats(ctx, token)
	if err != nil {
		return pagination.Result[models.LojaWithStats]{}, err
	}
	return BuscarLojas(lojas, p), nil
}

// BuscarLojas is the in-memory filter, sort and paginate pipeline.
func BuscarLojas(lojas []models.LojaWithStats, p BuscarLojasParams) pagination.Result[models.LojaWithStats] {
	page, perPage := pagination.Normalize(p.Page, p.PerPage, LojasPerPage)
	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = SortNome
	}
	filtered := FiltrarLojas(lojas, p.Search)
	OrdenarLojas(filtered, sortBy)
	return pagination.Slice(filtered, page, perPage)
}

// FiltrarLojas keeps stores whose name, city, state, location or any e-mail
// contains query, case-insensitively. The input is not modified.
func FiltrarLojas(lojas []models.LojaWithStats, query string) []models.LojaWithStats {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]models.LojaWithStats, 0, len(lojas))
	for _, l := range lojas {
		if query == "" || lojaMatches(l, query) {
			out = append(out, l)
		}
	}
	return out
}

func lojaMatches(l models.LojaWithStats, query string) bool {
	for _, field := range []string{l.Nome, l.Cidade, l.Estado, l.Localizacao} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	for _, e := range l.Emails {
		if strings.Contains(strings.ToLower(e.Email), query) {
			return true
		}
	}
	return false
}

// OrdenarLojas sorts lojas in place. Ties always fall back to the name and
// then the ID, so the order is total and stable across requests.
func OrdenarLojas(lojas []models.LojaWithStats, sortBy SortBy) {
	col := stats.NewCollator()
	byNome := func(a, b models.LojaWithStats) int {
		if c := col.CompareString(a.Nome, b.Nome); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	}

	var less func(a, b models.LojaWithStats) int
	switch ParseSortBy(string(sortBy)) {
	case SortNomeDesc:
		less = func(a, b models.LojaWithStats) int { return byNome(b, a) }
	case SortLeadsDesc:
		less = func(a, b models.LojaWithStats) int {
			return cmp.Or(cmp.Compare(b.TotalLeads, a.TotalLeads), byNome(a, b))
		}
	case SortLeadsAsc:
		less = func(a, b models.LojaWithStats) int {
			return cmp.Or(cmp.Compare(a.TotalLeads, b.TotalLeads), byNome(a, b))
		}
	case SortHojeDesc:
		less = func(a, b models.LojaWithStats) int {
			return cmp.Or(cmp.Compare(b.LeadsHoje, a.LeadsHoje), byNome(a, b))
		}
	case SortHojeAsc:
		less = func(a, b models.LojaWithStats) int {
			return cmp.Or(cmp.Compare(a.LeadsHoje, b.LeadsHoje), byNome(a, b))
		}
	case SortLocalizacao:
		less = func(a, b models.LojaWithStats) int {
			return cmp.Or(col.CompareString(a.Localizacao, b.Localizacao), byNome(a, b))
		}
	default:
		less = byNome
	}
	slices.SortStableFunc(lojas, less)
}

// LojaDetail is everything the store detail page shows.
type LojaDetail struct {
	Loja         models.Loja         `json:"loja"`
	Stats        models.LojaStats    `json:"stats"`
	Last30Days   []models.DayCount   `json:"last30Days"`
	Last12Months []models.MonthCount `json:"last12Months"`
}

// Detail loads a store and its series concurrently. The store itself is
// required; the counters and series fall back to empty.
func (s *LojasService) Detail(ctx context.Context, token string, id int64) (*LojaDetail, error) {
	d := &LojaDetail{Last30Days: []models.DayCount{}, Last12Months: []models.MonthCount{}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loja, err := s.api.GetLoja(gctx, token, id)
		if err != nil {
			return err
		}
		d.Loja = *loja
		return nil
	})
	g.Go(func() error {
		st, err := s.api.LojaStats(gctx, token, id)
		if err != nil {
			optionalFailed("loja stats", id, err)
			return nil
		}
		d.Stats = st
		return nil
	})
	g.Go(func() error {
		days, err := s.api.LojaLeads30Days(gctx, token, id)
		if err != nil {
			optionalFailed("loja leads 30 days", id, err)
			return nil
		}
		d.Last30Days = days
		return nil
	})
	g.Go(func() error {
		months, err := s.api.LojaLeads12Months(gctx, token, id)
		if err != nil {
			optionalFailed("loja leads 12 months", id, err)
			return nil
		}
		d.Last12Months = months
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

func optionalFailed(section string, lojaID int64, err error) {
	if lojaID > 0 {
		slog.Warn("optional section unavailable", "section", section, "loja_id", lojaID, "error", err)
		return
	}
	slog.Warn("optional section unavailable", "section", section, "error", err)
}
