package server

import (
	"net/http"
	"time"

	"agents-manager/core/loader"
	"agents-manager/core/logger"
	"agents-manager/core/middleware/auth"
	"agents-manager/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"
)

const (
	// HealthPath answers without authentication.
	HealthPath = "/health"
	// MetricsPath serves Prometheus metrics without authentication.
	MetricsPath = "/metrics"
)

// New builds the HTTP app: ray id, request logging, API-key auth, health and
// metrics endpoints, then every enabled feature of mgr. metrics may be nil.
func New(cfg Config, log *zap.Logger, metrics http.Handler, mgr *loader.Manager) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// RayID first so every log line of the request carries it.
	app.Use(rayid.New())
	app.Use(requestLogger(log))

	app.Get(HealthPath, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if metrics != nil {
		app.Get(MetricsPath, adaptor.HTTPHandler(metrics))
	}

	app.Use(auth.New(auth.Config{
		ApiKey: cfg.ApiKey,
		Skip:   []string{HealthPath, MetricsPath},
	}))

	if err := mgr.LoadAll(app); err != nil {
		return nil, err
	}
	return app, nil
}

func requestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		l := logger.WithRayID(log, c)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		l.Info("Request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.String("ip", c.IP()),
			zap.Duration("took", time.Since(start)),
		)
		return err
	}
}
