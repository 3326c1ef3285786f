package main

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/noxus/leadops/internal/accounts"
	"github.com/noxus/leadops/internal/auth"
	"github.com/noxus/leadops/internal/config"
	"github.com/noxus/leadops/internal/database"
	"github.com/noxus/leadops/internal/dto"
	"github.com/noxus/leadops/internal/handlers"
	"github.com/noxus/leadops/internal/kanban"
	"github.com/noxus/leadops/internal/logging"
	"github.com/noxus/leadops/internal/middleware"
	"github.com/noxus/leadops/internal/routes"
	"github.com/noxus/leadops/internal/services"
	"github.com/noxus/leadops/internal/upstream"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.SlogLevel())

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// Error log sink (optional)
	var (
		db           *gorm.DB
		pgLogHandler *logging.PGHandler
		cleanupDone  = make(chan struct{})
	)
	if cfg.DatabaseDSN != "" {
		db, err = database.Connect(cfg.DatabaseDSN)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		pgLogHandler = logging.NewPGHandler(db)
		slog.SetDefault(slog.New(logging.NewMultiHandler(
			logging.NewJSONHandler(os.Stdout, cfg.SlogLevel()),
			pgLogHandler,
		)))
		logging.StartCleanup(db, cleanupDone)
	} else {
		slog.Info("DATABASE_DSN not set, error log sink disabled")
	}

	// Local accounts (optional)
	var directory *accounts.Directory
	if cfg.UsersFile != "" {
		directory, err = accounts.LoadFromFile(cfg.UsersFile)
		if err != nil {
			slog.Error("failed to load accounts", "path", cfg.UsersFile, "error", err)
			os.Exit(1)
		}
		slog.Info("accounts loaded", "accounts", directory.Len())
	}

	// Services
	api := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.APIPrefix, cfg.Upstream.Timeout)
	codec := auth.NewSessionCodec(cfg.Session.Secret, cfg.Session.TTL)
	cookies := auth.Cookies{Secure: cfg.SecureCookies()}

	leadService := services.NewLeadService(api, cfg.Location())
	lojasService := services.NewLojasService(api)
	dashboardService := services.NewDashboardService(api, leadService, lojasService)
	attendanceService := services.NewAttendanceService(leadService, kanban.NewGuard())
	authService := services.NewAuthService(api, directory, codec)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())
	app.Use(middleware.UpstreamContext())

	routes.Setup(app, codec, cookies, routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService, cookies),
		Health:       handlers.NewHealthHandler(api, db),
		Gateway:      handlers.NewGatewayHandler(api, leadService),
		Pages:        handlers.NewPagesHandler(dashboardService, leadService, lojasService),
		Atendimentos: handlers.NewAtendimentosHandler(attendanceService),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "upstream", api.BaseURL())
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	if pgLogHandler != nil {
		pgLogHandler.Stop()
	}
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Erro interno do servidor"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		requestID, _ := c.Locals("requestid").(string)
		slog.Error("unhandled server error",
			"method", c.Method(),
			"endpoint", c.Path(),
			"request_id", requestID,
			"error", err.Error(),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		message = "Erro interno do servidor"
	}

	return c.Status(code).JSON(dto.Fail(message))
}
