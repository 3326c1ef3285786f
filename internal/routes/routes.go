package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/noxus/leadops/internal/auth"
	"github.com/noxus/leadops/internal/dto"
	"github.com/noxus/leadops/internal/handlers"
	"github.com/noxus/leadops/internal/middleware"
)

// Handlers groups everything Setup mounts.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Health       *handlers.HealthHandler
	Gateway      *handlers.GatewayHandler
	Pages        *handlers.PagesHandler
	Atendimentos *handlers.AtendimentosHandler
}

func rateLimit(limit int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               limit,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.Fail("Muitas requisições, tente novamente em instantes"))
		},
	})
}

func Setup(app *fiber.App, codec *auth.SessionCodec, cookies auth.Cookies, h Handlers) {
	// Page session is soft: anonymous requests continue and PageGate decides.
	app.Use(middleware.PageSession(codec, cookies))
	app.Use(middleware.PageGate())

	api := app.Group("/api", rateLimit(60))

	// Health (no session required)
	api.Get("/health", h.Health.Check)

	api.Use(middleware.APISession(codec, cookies, "/api/health"))
	admin := middleware.AdminOnly()

	// Fixed paths first so they are not captured by /leads/:id
	api.Get("/leads/stats-service", admin, h.Gateway.StatsService)
	api.Get("/leads/tempo-atendimento", admin, h.Gateway.TempoAtendimento)
	api.Get("/leads/origem", admin, h.Gateway.LeadsPorOrigem)
	api.Get("/leads/leads-stats", admin, h.Gateway.LeadsStats)

	api.Get("/leads", h.Gateway.ListLeads)
	api.Get("/leads/:id", h.Gateway.GetLead)
	api.Delete("/leads/:id", admin, h.Gateway.DeleteLead)
	api.Get("/leads/:id/actions", admin, h.Gateway.LeadActions)
	api.Post("/lead-contato", h.Gateway.RegisterContato)
	api.Get("/lojas", h.Gateway.ListLojas)
	api.Get("/leads-por-dia", h.Gateway.LeadsPorDia)

	// Login and logout, stricter limit on credential attempts
	app.Get(auth.LoginPath, h.Auth.LoginPage)
	app.Post(auth.LoginPath, rateLimit(10), h.Auth.Login)
	app.Post("/logout", h.Auth.Logout)
	app.Get(auth.UnauthorizedPath, h.Auth.UnauthorizedPage)

	app.Get("/", h.Pages.Root)

	adminPages := app.Group(auth.AdminHome)
	adminPages.Get("/", h.Pages.AdminHome)
	adminPages.Get("/leads", h.Pages.AdminLeads)
	adminPages.Get("/lojas", h.Pages.AdminLojas)
	adminPages.Get("/lojas/:id", h.Pages.AdminLoja)

	crm := app.Group(auth.StoreHome)
	crm.Get("/", h.Pages.StoreHome)
	crm.Get("/leads", h.Pages.StoreLeads)
	crm.Get("/leads/:id", h.Pages.LeadDetail)
	crm.Get("/atendimentos", h.Atendimentos.Board)
	crm.Post("/atendimentos/:id/contato", h.Atendimentos.Contato)
}
