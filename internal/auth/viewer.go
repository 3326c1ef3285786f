// Package auth decides who is looking at the dashboard and what they may see.
package auth

import (
	"errors"
	"net/url"
	"strings"

	"github.com/noxus/leadops/internal/models"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access denied")
)

// NoStore is the store scope given to store users without a store. No lead
// or store carries it, so such users see nothing.
const NoStore int64 = -1

const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
	AdminHome        = "/admin"
	StoreHome        = "/crm"
)

// Viewer is the authenticated user as seen by handlers and services: either
// an administrator or a store user bound to one store. A nil *Viewer is an
// anonymous visitor.
type Viewer struct {
	user    models.User
	admin   bool
	storeID int64
}

// NewViewer classifies u. Anything that is not an administrator is a store
// user.
func NewViewer(u models.User) *Viewer {
	v := &Viewer{user: u, admin: u.Role == models.RoleAdministrator, storeID: NoStore}
	if !v.admin && u.LojaID != nil && *u.LojaID > 0 {
		v.storeID = *u.LojaID
	}
	return v
}

func (v *Viewer) User() models.User { return v.user }

func (v *Viewer) IsAdmin() bool { return v != nil && v.admin }

// Store returns the store of a store user. ok is false for administrators
// and for store users without a store.
func (v *Viewer) Store() (id int64, ok bool) {
	if v == nil || v.admin || v.storeID == NoStore {
		return 0, false
	}
	return v.storeID, true
}

// ScopeStore applies the viewer's visibility to a requested store filter.
// Administrators keep whatever they asked for (nil = all stores); store
// users are pinned to their own store regardless of the request.
func (v *Viewer) ScopeStore(requested *int64) *int64 {
	if v.IsAdmin() {
		return requested
	}
	id := NoStore
	if v != nil {
		id = v.storeID
	}
	return &id
}

// Redirect is a navigation decision taken instead of rendering a page.
type Redirect struct {
	Location string
}

func (r *Redirect) Error() string { return "redirect to " + r.Location }

// LoginRedirect sends an anonymous visitor to the login page, remembering
// where they were going.
func LoginRedirect(path string) *Redirect {
	if path == "" || path == "/" {
		return &Redirect{Location: LoginPath}
	}
	return &Redirect{Location: LoginPath + "?callbackUrl=" + url.QueryEscape(path)}
}

// RequireAuth admits any authenticated viewer.
func RequireAuth(v *Viewer, path string) (*Viewer, *Redirect) {
	if v == nil {
		return nil, LoginRedirect(path)
	}
	return v, nil
}

// RequireAdmin admits administrators only.
func RequireAdmin(v *Viewer, path string) (*Viewer, *Redirect) {
	if v == nil {
		return nil, LoginRedirect(path)
	}
	if !v.IsAdmin() {
		return nil, &Redirect{Location: UnauthorizedPath}
	}
	return v, nil
}

// CanAccessLead reports whether v may see a lead owned by lojaID. A lead
// without a store is visible to administrators only.
func CanAccessLead(v *Viewer, lojaID *int64) bool {
	if v == nil {
		return false
	}
	if v.IsAdmin() {
		return true
	}
	own, ok := v.Store()
	return ok && lojaID != nil && *lojaID == own
}

func CanAccessLoja(v *Viewer, lojaID int64) bool {
	if v == nil {
		return false
	}
	if v.IsAdmin() {
		return true
	}
	own, ok := v.Store()
	return ok && own == lojaID
}

// HomePath is where a viewer lands after login or on "/".
func HomePath(v *Viewer) string {
	if v.IsAdmin() {
		return AdminHome
	}
	return StoreHome
}

// IsAdminPath reports whether path belongs to the administrator area.
func IsAdminPath(path string) bool {
	return path == AdminHome || strings.HasPrefix(path, AdminHome+"/")
}

// SafeCallback returns raw when it is a local absolute path, "" otherwise.
func SafeCallback(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") {
		return ""
	}
	if strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return ""
	}
	return raw
}

// LandingPath picks the post-login destination: the callback when it is
// safe and allowed for v, the home page otherwise.
func LandingPath(v *Viewer, callback string) string {
	cb := SafeCallback(callback)
	if cb == "" || strings.HasPrefix(cb, LoginPath) {
		return HomePath(v)
	}
	path := cb
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if IsAdminPath(path) && !v.IsAdmin() {
		return HomePath(v)
	}
	return cb
}
