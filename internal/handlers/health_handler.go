package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/noxus/leadops/internal/database"
	"github.com/noxus/leadops/internal/dto"
	"github.com/noxus/leadops/internal/upstream"
	"gorm.io/gorm"
)

const healthTimeout = 3 * time.Second

type HealthHandler struct {
	api *upstream.Client
	db  *gorm.DB
}

// NewHealthHandler reports on the upstream API and the log sink. db may be
// nil when no log sink is configured.
func NewHealthHandler(api *upstream.Client, db *gorm.DB) *HealthHandler {
	return &HealthHandler{api: api, db: db}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	upstreamStatus := "ok"
	if err := h.api.Ping(ctx); err != nil {
		upstreamStatus = "unhealthy: " + err.Error()
	}

	sinkStatus := "disabled"
	if h.db != nil {
		sinkStatus = "ok"
		if err := database.Ping(h.db); err != nil {
			sinkStatus = "unhealthy: " + err.Error()
		}
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Upstream:  upstreamStatus,
		LogSink:   sinkStatus,
	})
}
