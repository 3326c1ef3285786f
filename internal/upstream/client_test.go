package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves canned JSON per path and records the last request.
type fakeAPI struct {
	t      *testing.T
	routes map[string]func(w http.ResponseWriter, r *http.Request)
	last   *http.Request
	body   []byte
}

func newFakeAPI(t *testing.T) (*fakeAPI, *Client) {
	f := &fakeAPI{t: t, routes: map[string]func(http.ResponseWriter, *http.Request){}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.last = r
		f.body, _ = io.ReadAll(r.Body)
		h, ok := f.routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"mensagem":"rota inexistente"}`))
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return f, NewClient(srv.URL+"/wp-json", "/api/v1", 2*time.Second)
}

func (f *fakeAPI) json(route string, status int, body string) {
	f.routes[route] = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func ptr(v int64) *int64 { return &v }

func TestListLeads_QueryAndHeaders(t *testing.T) {
	api, client := newFakeAPI(t)
	api.json("GET /wp-json/api/v1/leads", 200,
		`{"success":true,"leads":[{"id":"1","nome":"Ana","loja_id":"101"}],"total":"1","page":1,"per_page":10,"total_pages":1}`)

	ctx := WithRequestID(context.Background(), "req-42")
	page, err := client.ListLeads(ctx, "tok", LeadQuery{Page: 2, PerPage: 10, LojaID: ptr(101), Search: "ana", From: "2025-01-01", To: "2025-01-31"})

	require.NoError(t, err)
	require.Len(t, page.Leads, 1)
	assert.Equal(t, int64(1), page.Total.Int64())

	q := api.last.URL.Query()
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "10", q.Get("per_page"))
	assert.Equal(t, "101", q.Get("loja_id"))
	assert.Equal(t, "ana", q.Get("search"))
	assert.Equal(t, "2025-01-01", q.Get("from"))
	assert.Equal(t, "2025-01-31", q.Get("to"))
	assert.Equal(t, "Bearer tok", api.last.Header.Get("Authorization"))
	assert.Equal(t, "req-42", api.last.Header.Get("X-Request-ID"))
	assert.Equal(t, "application/json", api.last.Header.Get("Accept"))
}

func TestListLeads_OmitsEmptyFilters(t *testing.T) {
	api, client := newFakeAPI(t)
	api.json("GET /wp-json/api/v1/leads", 200, `{"success":true}`)

	page, err := client.ListLeads(context.Background(), "", LeadQuery{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.NotNil(t, page.Leads)
	assert.Empty(t, api.last.Header.Get("Authorization"))
	assert.False(t, api.last.URL.Query().Has("loja_id"))
	assert.NotEmpty(t, api.last.Header.Get("X-Request-ID"))
}

func TestCall_Failures(t *testing.T) {
	api, client := newFakeAPI(t)
	api.json("GET /wp-json/api/v1/lojas", 200, `{"success":false,"message":"sem permissão"}`)
	api.json("GET /wp-json/api/v1/leads/9", 500, `{"mensagem":"falha interna"}`)
	api.json("GET /wp-json/api/v1/lojas-with-stats", 200, `not json`)

	_, err := client.ListLojas(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnsuccessful)
	var ue *Error
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "sem permissão", ue.Reason())

	_, err = client.GetLead(context.Background(), "", 9)
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, 500, ue.Status)
	assert.Equal(t, "falha interna", ue.Message)

	_, err = client.GetLead(context.Background(), "", 10)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = client.ListLojasWithStats(context.Background(), "")
	assert.Error(t, err)
}

func TestContatoStats_CoercesStrings(t *testing.T) {
	api, client := newFakeAPI(t)
	api.json("GET /wp-json/api/v1/leads-stats-service", 200, `{"success":true,"data":{
		"total_leads":"120","leads_contatados":"90","leads_nao_contatados":"30",
		"perc_contatados":"75.00","perc_nao_contatados":"25","tempo_medio_minutos":"135.5",
		"tempo_medio_horas":null}}`)

	s, err := client.ContatoStats(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(120), s.TotalLeads)
	assert.Equal(t, int64(90), s.LeadsContatados)
	assert.Equal(t, int64(30), s.LeadsNaoContatados)
	assert.InDelta(t, 75.0, s.PercContatados, 0.001)
	assert.InDelta(t, 135.5, s.TempoMedioMinutos, 0.001)
	assert.Zero(t, s.TempoMedioHoras)
}

func TestTempoPorLoja_SortsByRanking(t *testing.T) {
	api, client := newFakeAPI(t)
	api.json("GET /wp-json/api/v1/leads-tempo-por-loja", 200, `{"success":true,"total_lojas":2,"data":[
		{"loja_id":"2","loja_nome":"Sul","total_leads":"5","tempo_medio_minutos":"80","tempo_medio_horas":"1.3","ranking":"2"},
		{"loja_id":1,"loja_nome":"Norte","total_leads":7,"tempo_medio_minutos":20,"tempo_medio_horas":0.3,"ranking":1}]}`)

	rows, err := client.TempoPorLoja(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Norte", rows[0].LojaNome)
	assert.Equal(t, int64(2), rows[1].LojaID)
}

func TestLeadsPorDia_AcceptsBothShapes(t *testing.T) {
	api, client := newFakeAPI(t)
	api.json("GET /wp-json/api/v1/leads-30dias", 200, `{"success":true,"data":[{"date":"2025-01-02","total":"3"}]}`)
	api.json("GET /wp-json/api/v1/leads-por-origem", 200, `[{"origem":"site","total":"4"}]`)

	days, err := client.LeadsPorDia(context.Background(), "", "2025-01-01", "2025-01-03")
	require.NoError(t, err)
	assert.Equal(t, int64(3), days[0].Total)

	origens, err := client.LeadsPorOrigem(context.Background(), "", "", "")
	require.NoError(t, err)
	assert.Equal(t, "site", origens[0].Origem)
	assert.Equal(t, int64(4), origens[0].Total)
	assert.Empty(t, api.last.URL.RawQuery)
}

func TestLeadActions_BareAndWrapped(t *testing.T) {
	api, client := newFakeAPI(t)
	api.json("GET /wp-json/api/v1/leads/1/actions", 200, `[{"id":1,"lead_id":1,"tipo_contato":"tel"}]`)
	api.json("GET /wp-json/api/v1/leads/2/actions", 200, `{"success":true,"actions":[{"id":2,"lead_id":2,"tipo_contato":"whatsapp"}]}`)

	a, err := client.LeadActions(context.Background(), "", 1)
	require.NoError(t, err)
	assert.Equal(t, "tel", a[0].TipoContato)

	a, err = client.LeadActions(context.Background(), "", 2)
	require.NoError(t, err)
	assert.Equal(t, "whatsapp", a[0].TipoContato)
}

func TestRegisterContato_SendsBody(t *testing.T) {
	api, client := newFakeAPI(t)
	api.json("POST /wp-json/api/v1/lead-contato", 200, `{"success":true}`)

	err := client.RegisterContato(context.Background(), "tok", ContatoRequest{LeadID: 5, TipoContato: "manual", UsuarioID: 9})
	require.NoError(t, err)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(api.body, &sent))
	assert.EqualValues(t, 5, sent["lead_id"])
	assert.EqualValues(t, 9, sent["usuario_id"])
	assert.Equal(t, "manual", sent["tipo_contato"])
}

func TestForward_RelaysStatus(t *testing.T) {
	api, client := newFakeAPI(t)
	api.json("DELETE /wp-json/api/v1/leads/3", 403, `{"success":false,"mensagem":"proibido"}`)

	resp, err := client.DeleteLead(context.Background(), "tok", 3)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.Status)
	assert.JSONEq(t, `{"success":false,"mensagem":"proibido"}`, string(resp.Body))
}

func TestForward_RejectsNonJSON(t *testing.T) {
	api, client := newFakeAPI(t)
	api.routes["GET /wp-json/api/v1/lojas"] = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>WordPress database error</html>"))
	}
	api.routes["DELETE /wp-json/api/v1/leads/4"] = func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}

	_, err := client.Forward(context.Background(), http.MethodGet, "lojas", nil, "", nil)
	assert.ErrorIs(t, err, ErrInvalidResponse)

	resp, err := client.DeleteLead(context.Background(), "tok", 4)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.Status)
}

func TestForwardContato_ReturnsReply(t *testing.T) {
	api, client := newFakeAPI(t)
	api.json("POST /wp-json/api/v1/lead-contato", 201, `{"success":true,"action_id":55}`)

	resp, err := client.ForwardContato(context.Background(), "tok", ContatoRequest{LeadID: 5, TipoContato: "tel", UsuarioID: 9})
	require.NoError(t, err)
	assert.Equal(t, 201, resp.Status)
	assert.JSONEq(t, `{"success":true,"action_id":55}`, string(resp.Body))

	var sent map[string]any
	require.NoError(t, json.Unmarshal(api.body, &sent))
	assert.EqualValues(t, 9, sent["usuario_id"])
}

func TestForward_NetworkFailure(t *testing.T) {
	client := NewClient("http://127.0.0.1:1/wp-json", "/api/v1", 200*time.Millisecond)
	_, err := client.Forward(context.Background(), http.MethodGet, "lojas", nil, "", nil)
	assert.Error(t, err)
}

func TestAuthenticateAndCurrentUser(t *testing.T) {
	api, client := newFakeAPI(t)
	api.json("POST /wp-json/jwt-auth/v1/token", 200, `{"token":"wp-jwt","user_email":"loja@x.com"}`)
	api.json("GET /wp-json/wp/v2/users/me", 200,
		`{"id":12,"email":"loja@x.com","name":"Loja Centro","roles":["subscriber"],"meta":{"loja_id":["101"],"loja_nome":"Centro"}}`)

	token, err := client.Authenticate(context.Background(), "loja@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "wp-jwt", token)

	u, err := client.CurrentUser(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "edit", api.last.URL.Query().Get("context"))
	assert.Equal(t, "Bearer wp-jwt", api.last.Header.Get("Authorization"))
	assert.Equal(t, "loja", string(u.Role))
	require.NotNil(t, u.LojaID)
	assert.Equal(t, int64(101), *u.LojaID)

	api.json("GET /wp-json/wp/v2/users/me", 200, `{"id":1,"roles":["editor","administrator"],"meta":{}}`)
	u, err = client.CurrentUser(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "administrator", string(u.Role))
	assert.Nil(t, u.LojaID)
}

func TestAuthenticate_BadCredentials(t *testing.T) {
	api, client := newFakeAPI(t)
	api.json("POST /wp-json/jwt-auth/v1/token", 403, `{"code":"incorrect_password","message":"Senha incorreta"}`)

	_, err := client.Authenticate(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
