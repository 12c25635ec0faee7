package history

import (
	"context"
	"strconv"

	"agents-manager/core/journal"
	"agents-manager/core/logger"
	"agents-manager/core/resource"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// maxLimit caps a single page of history.
const maxLimit = 500

// Source is the part of the journal the handler reads.
type Source interface {
	Recent(ctx context.Context, limit int, kind string) ([]journal.Record, error)
}

// Handler serves the sync journal.
type Handler struct {
	source Source
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(source Source, logger *zap.Logger) *Handler {
	return &Handler{source: source, logger: logger}
}

// RegisterRoutes registers the history routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/history", h.HandleHistory)
}

// HandleHistory lists recent sync steps, newest first.
// Query: limit (default 50), kind.
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be a positive integer"})
		}
		limit = min(n, maxLimit)
	}

	var kind string
	if raw := c.Query("kind"); raw != "" {
		k, err := resource.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		kind = string(k)
	}

	records, err := h.source.Recent(c.UserContext(), limit, kind)
	if err != nil {
		l.Error("History lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"records": records})
}
