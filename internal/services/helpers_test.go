package services

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/noxus/leadops/internal/auth"
	"github.com/noxus/leadops/internal/models"
	"github.com/noxus/leadops/internal/upstream"
)

// fakeUpstream answers API paths (relative to /wp-json/api/v1) with canned
// bodies and records the queries it saw.
type fakeUpstream struct {
	mu      sync.Mutex
	routes  map[string]route
	queries map[string][]string
}

type route struct {
	status int
	body   string
}

func newFakeUpstream(t *testing.T) (*fakeUpstream, *upstream.Client) {
	f := &fakeUpstream{routes: map[string]route{}, queries: map[string][]string{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		f.mu.Lock()
		f.queries[key] = append(f.queries[key], r.URL.RawQuery)
		rt, ok := f.routes[key]
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"mensagem":"não encontrado"}`))
			return
		}
		w.WriteHeader(rt.status)
		_, _ = w.Write([]byte(rt.body))
	}))
	t.Cleanup(srv.Close)
	return f, upstream.NewClient(srv.URL+"/wp-json", "/api/v1", 2*time.Second)
}

func (f *fakeUpstream) on(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" /wp-json/api/v1/"+path] = route{status: status, body: body}
}

func (f *fakeUpstream) seen(method, path string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[method+" /wp-json/api/v1/"+path]
}

func ptr(v int64) *int64 { return &v }

func adminViewer() *auth.Viewer {
	return auth.NewViewer(models.User{ID: 1, Role: models.RoleAdministrator})
}

func storeViewer(loja int64) *auth.Viewer {
	return auth.NewViewer(models.User{ID: 50 + loja, Role: models.RoleLoja, LojaID: ptr(loja)})
}
