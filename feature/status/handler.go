package status

import (
	"errors"

	"agents-manager/core/faults"
	"agents-manager/core/logger"
	"agents-manager/core/manifest"
	"agents-manager/core/reconcile"
	"agents-manager/core/resource"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for status and plans.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the status routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/status/:kind", h.HandleStatus)
	plans := app.Group("/plans")
	plans.Get("/:kind/push", h.HandlePushPlan)
	plans.Get("/:kind/pull", h.HandlePullPlan)
}

// HandleStatus reports the hash state of every manifest entry.
// Query: env.
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	kind, err := resource.Parse(c.Params("kind"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	report, err := h.service.Status(kind, c.Query("env"))
	if err != nil {
		l.Error("Status failed", zap.String("kind", string(kind)), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandlePushPlan returns a dry-run push plan.
// Query: env, policy.
func (h *Handler) HandlePushPlan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	kind, err := resource.Parse(c.Params("kind"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	var policy reconcile.Policy
	if raw := c.Query("policy"); raw != "" {
		if policy, err = reconcile.ParsePolicy(raw); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	plan, err := h.service.PushPlan(c.UserContext(), kind, c.Query("env"), policy)
	if err != nil {
		l.Error("Push plan failed", zap.String("kind", string(kind)), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(plan)
}

// HandlePullPlan returns a dry-run pull plan. Only list-level remote metadata is read.
// Query: mode (default, update, all), env, search, id.
func (h *Handler) HandlePullPlan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	kind, err := resource.Parse(c.Params("kind"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	mode, err := reconcile.ParsePullMode(c.Query("mode"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	plan, err := h.service.PullPlan(c.UserContext(), kind, reconcile.PullOptions{
		Mode:        mode,
		Environment: c.Query("env"),
		Search:      c.Query("search"),
		RemoteID:    c.Query("id"),
	})
	if err != nil {
		l.Error("Pull plan failed", zap.String("kind", string(kind)), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(plan)
}

// statusFor maps an error category to an HTTP status.
func statusFor(err error) int {
	if errors.Is(err, manifest.ErrNotFound) {
		return fiber.StatusNotFound
	}
	switch faults.CategoryOf(err) {
	case faults.NotFound:
		return fiber.StatusNotFound
	case faults.Ambiguous:
		return fiber.StatusConflict
	case faults.Configuration:
		return fiber.StatusUnprocessableEntity
	case faults.Unauthorized, faults.Network:
		return fiber.StatusBadGateway
	case faults.RateLimited:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
