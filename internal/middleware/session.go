package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/noxus/leadops/internal/auth"
	"github.com/noxus/leadops/internal/dto"

	jwtware "github.com/gofiber/contrib/jwt"
)

const sessionTokenKey = "session_token"

// Paths that never carry a page session.
var pageSkipPrefixes = []string{
	"/api/",
	"/static/",
	"/favicon.ico",
}

func skipPage(path string) bool {
	if path == "/api" {
		return true
	}
	for _, p := range pageSkipPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func sessionConfig(codec *auth.SessionCodec) jwtware.Config {
	return jwtware.Config{
		SigningKey:  jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: codec.Key()},
		TokenLookup: "cookie:" + auth.SessionCookie,
		Claims:      &auth.SessionClaims{},
		ContextKey:  sessionTokenKey,
		SuccessHandler: func(c *fiber.Ctx) error {
			if token, ok := c.Locals(sessionTokenKey).(*jwt.Token); ok {
				if claims, ok := token.Claims.(*auth.SessionClaims); ok {
					auth.SetSession(c, claims.Session())
				}
			}
			return c.Next()
		},
	}
}

// PageSession verifies the crm_session cookie on page requests. A missing
// cookie leaves the request anonymous; an expired or forged one is also
// cleared from the browser.
func PageSession(codec *auth.SessionCodec, cookies auth.Cookies) fiber.Handler {
	cfg := sessionConfig(codec)
	cfg.Filter = func(c *fiber.Ctx) bool { return skipPage(c.Path()) }
	cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
		if c.Cookies(auth.SessionCookie) != "" {
			cookies.Clear(c)
		}
		return c.Next()
	}
	return jwtware.New(cfg)
}

// PageGate enforces page access rules once PageSession has run.
func PageGate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if skipPage(path) {
			return c.Next()
		}
		v := auth.ViewerFrom(c)

		switch path {
		case auth.LoginPath:
			if v != nil && c.Method() == fiber.MethodGet {
				return c.Redirect(auth.HomePath(v))
			}
			return c.Next()
		case auth.UnauthorizedPath:
			return c.Next()
		}

		check := auth.RequireAuth
		if auth.IsAdminPath(path) {
			check = auth.RequireAdmin
		}
		if _, r := check(v, c.OriginalURL()); r != nil {
			return c.Redirect(r.Location)
		}

		if path == "/" {
			return c.Redirect(auth.HomePath(v))
		}
		return c.Next()
	}
}

// APISession requires a valid session on API routes and answers 401 with
// the error envelope otherwise.
func APISession(codec *auth.SessionCodec, cookies auth.Cookies, skip ...string) fiber.Handler {
	cfg := sessionConfig(codec)
	cfg.Filter = func(c *fiber.Ctx) bool {
		for _, s := range skip {
			if c.Path() == s {
				return true
			}
		}
		return false
	}
	cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
		msg := "Não autenticado"
		if errors.Is(err, jwt.ErrTokenExpired) {
			msg = "Sessão expirada"
		}
		if c.Cookies(auth.SessionCookie) != "" {
			cookies.Clear(c)
		}
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail(msg))
	}
	return jwtware.New(cfg)
}
