// Package server exposes the bot's HTTP surface: health probes and the
// optional Telegram webhook receiver. The dialog core never sees HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"homestock/internal/gateway/telegram"
	"homestock/internal/repositories"
)

// New builds the echo instance. rdb is nil when sessions are in-memory;
// adapter and webhookSecret are zero when running in long-polling mode.
func New(db repositories.Database, rdb *redis.Client, adapter *telegram.Adapter, webhookSecret string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())

	h := &HealthHandlers{db: db, rdb: rdb}
	e.GET("/health", h.HealthCheck)
	e.GET("/health/ready", h.ReadinessCheck)

	if adapter != nil && webhookSecret != "" {
		w := &WebhookHandler{adapter: adapter, secret: webhookSecret}
		e.POST("/telegram/webhook/:secret", w.Receive)
	}
	return e
}

// HealthHandlers handles health check endpoints.
type HealthHandlers struct {
	db  repositories.Database
	rdb *redis.Client
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
	}

	if err := h.checkDatabase(ctx); err != nil {
		health.Services["database"] = "unhealthy"
		health.Status = "degraded"
	} else {
		health.Services["database"] = "healthy"
	}

	if h.rdb != nil {
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			health.Services["redis"] = "unhealthy"
			health.Status = "degraded"
		} else {
			health.Services["redis"] = "healthy"
		}
	}

	statusCode := http.StatusOK
	if health.Status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}
	return c.JSON(statusCode, health)
}

func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	if err := h.checkDatabase(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}

func (h *HealthHandlers) checkDatabase(ctx context.Context) error {
	_, err := h.db.Exec(ctx, "SELECT 1")
	return err
}
