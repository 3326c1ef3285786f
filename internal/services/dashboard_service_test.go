package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/noxus/leadops/internal/kanban"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDashboard(t *testing.T) (*fakeUpstream, *DashboardService, *LeadService) {
	api, client := newFakeUpstream(t)
	leads := NewLeadService(client, time.UTC)
	leads.now = func() time.Time { return time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC) }
	return api, NewDashboardService(client, leads, NewLojasService(client)), leads
}

func TestAdminDashboard_OptionalSectionsDefault(t *testing.T) {
	api, dash, _ := newDashboard(t)
	api.on(http.MethodGet, "leads", 200, `{"success":true,"leads":[{"id":1,"data_criacao":"2025-06-30 08:15:00","estado":"SP"}]}`)
	api.on(http.MethodGet, "leads-stats-service", 200, `{"success":true,"data":{"total_leads":"1","tempo_medio_minutos":"150"}}`)
	// tempo ranking and origem are missing upstream

	d, err := dash.Admin(context.Background(), adminViewer(), "")
	require.NoError(t, err)

	assert.Equal(t, int64(1), d.StatsGeral.Hoje)
	assert.Equal(t, "30/06/2025 às 08:15", d.UltimaCaptura)
	assert.Equal(t, "2h 30min", d.Contato.TempoMedioFormatado)
	assert.NotNil(t, d.TempoRanking)
	assert.Empty(t, d.TempoRanking)
	assert.NotNil(t, d.PorOrigem)
	assert.Len(t, d.Last30Days, 30)
}

func TestAdminDashboard_RequiredFailure(t *testing.T) {
	api, dash, _ := newDashboard(t)
	api.on(http.MethodGet, "leads", 500, `{"mensagem":"fora do ar"}`)

	_, err := dash.Admin(context.Background(), adminViewer(), "")
	assert.Error(t, err)
}

func TestStoreDashboard(t *testing.T) {
	api, dash, _ := newDashboard(t)
	api.on(http.MethodGet, "leads", 200, `{"success":true,"leads":[{"id":1,"loja_id":101}]}`)

	d, err := dash.Store(context.Background(), storeViewer(101), "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.Stats.Total)
	assert.Equal(t, "—", d.UltimaCaptura)
	assert.Len(t, d.RecentLeads, 1)
	for _, q := range api.seen(http.MethodGet, "leads") {
		assert.Contains(t, q, "loja_id=101")
	}
}

func TestLeadsListing_LojasOptional(t *testing.T) {
	api, dash, _ := newDashboard(t)
	api.on(http.MethodGet, "leads", 200, `{"success":true,"leads":[],"total":0}`)
	api.on(http.MethodGet, "lojas", 500, `{}`)

	l, err := dash.Leads(context.Background(), adminViewer(), "", LeadFilter{Page: 1, PerPage: LeadsPerPage}, true)
	require.NoError(t, err)
	assert.NotNil(t, l.Lojas)
	assert.Empty(t, l.Lojas)
}

func TestAttendance_MarkAttended(t *testing.T) {
	api, _, leads := newDashboard(t)
	api.on(http.MethodGet, "leads/7", 200, `{"success":true,"lead":{"id":7,"loja_id":101,"atendido":false}}`)
	api.on(http.MethodPost, "lead-contato", 200, `{"success":true}`)
	api.on(http.MethodGet, "leads/8", 200, `{"success":true,"lead":{"id":8,"loja_id":101,"atendido":false}}`)
	svc := NewAttendanceService(leads, kanban.NewGuard())

	n, board, err := svc.MarkAttended(context.Background(), storeViewer(101), "", 7, kanban.ContactWhatsApp)
	require.NoError(t, err)
	assert.Equal(t, kanban.MsgAttended, n.Message)
	col, _ := board.Column(7)
	assert.Equal(t, kanban.Attended, col)

	api.on(http.MethodPost, "lead-contato", 200, `{"success":false,"mensagem":"Lead já registrado"}`)
	n, board, err = svc.MarkAttended(context.Background(), storeViewer(101), "", 8, "")
	require.Error(t, err)
	assert.Equal(t, "Lead já registrado", n.Message)
	col, _ = board.Column(8)
	assert.Equal(t, kanban.NotAttended, col)

	_, _, err = svc.MarkAttended(context.Background(), storeViewer(101), "", 7, kanban.ContactType("fax"))
	assert.ErrorIs(t, err, ErrInvalidContact)
}

func TestAttendance_Board(t *testing.T) {
	api, _, leads := newDashboard(t)
	api.on(http.MethodGet, "leads", 200, `{"success":true,"leads":[
		{"id":1,"loja_id":101,"atendido":"1"},{"id":2,"loja_id":101}]}`)

	board, err := NewAttendanceService(leads, nil).Board(context.Background(), storeViewer(101), "")
	require.NoError(t, err)
	cols := board.Columns()
	assert.Len(t, cols.Attended, 1)
	assert.Len(t, cols.NotAttended, 1)
	assert.Contains(t, api.seen(http.MethodGet, "leads")[0], "per_page=100")
}
