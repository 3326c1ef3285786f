package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/noxus/leadops/internal/models"
)

const (
	SessionCookie = "crm_session"
	TokenCookie   = "auth_token"

	localsSession = "crm_session"
)

// SetSession stores a verified session on the request.
func SetSession(c *fiber.Ctx, s models.Session) {
	c.Locals(localsSession, s)
}

// SessionFrom returns the verified session of the request, if any.
func SessionFrom(c *fiber.Ctx) (models.Session, bool) {
	s, ok := c.Locals(localsSession).(models.Session)
	return s, ok
}

// ViewerFrom returns the request's viewer, nil when anonymous.
func ViewerFrom(c *fiber.Ctx) *Viewer {
	s, ok := SessionFrom(c)
	if !ok {
		return nil
	}
	return NewViewer(s.User)
}

// TokenFrom returns the upstream bearer token. The session copy wins over
// the raw cookie.
func TokenFrom(c *fiber.Ctx) string {
	if s, ok := SessionFrom(c); ok && s.Token != "" {
		return s.Token
	}
	return c.Cookies(TokenCookie)
}

// Cookies writes and clears the session cookies.
type Cookies struct {
	Secure bool
}

func (k Cookies) Set(c *fiber.Ctx, signed string, s models.Session) {
	c.Cookie(k.cookie(SessionCookie, signed, s.Expires))
	if s.Token != "" {
		c.Cookie(k.cookie(TokenCookie, s.Token, s.Expires))
	}
}

func (k Cookies) Clear(c *fiber.Ctx) {
	past := time.Unix(0, 0)
	for _, name := range []string{SessionCookie, TokenCookie} {
		ck := k.cookie(name, "", past)
		ck.MaxAge = -1
		c.Cookie(ck)
	}
}

func (k Cookies) cookie(name, value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   k.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
