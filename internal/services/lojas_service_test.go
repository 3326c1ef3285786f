package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/noxus/leadops/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loja(id int64, nome, cidade string, total, hoje int64) models.LojaWithStats {
	return models.LojaWithStats{
		Loja: models.Loja{
			ID:          models.FlexInt(id),
			Nome:        nome,
			Cidade:      cidade,
			Localizacao: cidade + " - SP",
		},
		TotalLeads: models.FlexInt(total),
		LeadsHoje:  models.FlexInt(hoje),
	}
}

func fixture() []models.LojaWithStats {
	return []models.LojaWithStats{
		loja(1, "Noxus Centro", "Campinas", 10, 1),
		loja(2, "Noxus Shopping", "Santos", 50, 4),
		loja(3, "Centro Sul", "Sorocaba", 30, 0),
		loja(4, "Praça Central", "Centro", 20, 2),
		loja(5, "Bairro Alto", "Jundiaí", 70, 9),
	}
}

func names(items []models.LojaWithStats) []string {
	out := make([]string, 0, len(items))
	for _, l := range items {
		out = append(out, l.Nome)
	}
	return out
}

func TestBuscarLojas_SearchSortPaginate(t *testing.T) {
	got := BuscarLojas(fixture(), BuscarLojasParams{Search: "centro", SortBy: SortLeadsDesc, Page: 1, PerPage: 2})

	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 2, got.TotalPages)
	assert.Equal(t, []string{"Centro Sul", "Praça Central"}, names(got.Items))
	assert.True(t, got.HasNext)

	second := BuscarLojas(fixture(), BuscarLojasParams{Search: "centro", SortBy: SortLeadsDesc, Page: 2, PerPage: 2})
	assert.Equal(t, []string{"Noxus Centro"}, names(second.Items))
}

func TestBuscarLojas_Defaults(t *testing.T) {
	got := BuscarLojas(fixture(), BuscarLojasParams{})
	assert.Equal(t, LojasPerPage, got.PerPage)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, []string{"Bairro Alto", "Centro Sul", "Noxus Centro", "Noxus Shopping", "Praça Central"}, names(got.Items))
}

func TestBuscarLojas_NoMatch(t *testing.T) {
	got := BuscarLojas(fixture(), BuscarLojasParams{Search: "manaus"})
	require.NotNil(t, got.Items)
	assert.Empty(t, got.Items)
	assert.Equal(t, 0, got.TotalPages)
	assert.Equal(t, 0, got.Total)
}

func TestFiltrarLojas_MatchesEmailsAndState(t *testing.T) {
	lojas := fixture()
	lojas[1].Emails = []models.LojaEmail{{Email: "gerencia@santos.com.br"}}
	lojas[2].Estado = "PR"

	assert.Equal(t, []string{"Noxus Shopping"}, names(FiltrarLojas(lojas, "GERENCIA@")))
	assert.Equal(t, []string{"Centro Sul"}, names(FiltrarLojas(lojas, "pr")))
	assert.Len(t, FiltrarLojas(lojas, ""), len(lojas))
}

func TestOrdenarLojas_NomeDescIsReverse(t *testing.T) {
	asc := fixture()
	asc = append(asc, loja(6, "noxus centro", "Campinas", 1, 0), loja(7, "Árvore", "Itu", 3, 0))
	desc := append([]models.LojaWithStats(nil), asc...)

	OrdenarLojas(asc, SortNome)
	OrdenarLojas(desc, SortNomeDesc)

	require.Len(t, desc, len(asc))
	for i := range asc {
		assert.Equal(t, asc[i].ID, desc[len(desc)-1-i].ID)
	}
	assert.Equal(t, "Árvore", asc[0].Nome)
}

func TestOrdenarLojas_Keys(t *testing.T) {
	tests := []struct {
		sortBy SortBy
		first  string
	}{
		{SortLeadsDesc, "Bairro Alto"},
		{SortLeadsAsc, "Noxus Centro"},
		{SortHojeDesc, "Bairro Alto"},
		{SortHojeAsc, "Centro Sul"},
		{SortLocalizacao, "Noxus Centro"},
		{SortBy("bogus"), "Bairro Alto"},
	}
	for _, tt := range tests {
		t.Run(string(tt.sortBy), func(t *testing.T) {
			lojas := fixture()
			OrdenarLojas(lojas, tt.sortBy)
			assert.Equal(t, tt.first, lojas[0].Nome)
		})
	}
}

func TestLojasService_BuscarLojasFetches(t *testing.T) {
	api, client := newFakeUpstream(t)
	api.on(http.MethodGet, "lojas-with-stats", 200, `{"success":true,"lojas":[
		{"id":"1","nome":"Noxus Centro","cidade":"Campinas","localizacao":"Campinas","totalLeads":"10","leadsHoje":"1"},
		{"id":"2","nome":"Alpha","cidade":"Santos","localizacao":"Santos","totalLeads":5,"leadsHoje":0}]}`)

	got, err := NewLojasService(client).BuscarLojas(context.Background(), "", BuscarLojasParams{SortBy: SortLeadsDesc})
	require.NoError(t, err)
	assert.Equal(t, []string{"Noxus Centro", "Alpha"}, names(got.Items))
}

func TestLojasService_DetailOptionalSections(t *testing.T) {
	api, client := newFakeUpstream(t)
	api.on(http.MethodGet, "lojas/3", 200, `{"success":true,"loja":{"id":3,"nome":"Centro Sul"}}`)
	api.on(http.MethodGet, "lojas/3/stats", 200, `{"success":true,"stats":{"total":"12","hoje":"1","semana":4,"mes":9}}`)
	api.on(http.MethodGet, "lojas/3/leads-30-days", 500, `{"mensagem":"erro"}`)
	api.on(http.MethodGet, "lojas/3/leads-12-months", 200, `{"success":true,"data":[{"date":"2025-01","total":"2"}]}`)

	d, err := NewLojasService(client).Detail(context.Background(), "", 3)
	require.NoError(t, err)
	assert.Equal(t, "Centro Sul", d.Loja.Nome)
	assert.Equal(t, int64(12), d.Stats.Total.Int64())
	assert.NotNil(t, d.Last30Days)
	assert.Empty(t, d.Last30Days)
	require.Len(t, d.Last12Months, 1)
	assert.Equal(t, int64(2), d.Last12Months[0].Total)

	_, err = NewLojasService(client).Detail(context.Background(), "", 99)
	assert.Error(t, err)
}
