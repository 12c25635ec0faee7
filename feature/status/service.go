package status

import (
	"context"

	"agents-manager/core/reconcile"
	"agents-manager/core/resource"

	"go.uber.org/zap"
)

// Service answers read-only questions about a project.
type Service struct {
	engine *reconcile.Engine
	logger *zap.Logger
}

// NewService creates a new status service.
func NewService(engine *reconcile.Engine, logger *zap.Logger) *Service {
	return &Service{engine: engine, logger: logger}
}

// Status reports the local sync state of kind.
func (s *Service) Status(kind resource.Kind, env string) (*reconcile.StatusReport, error) {
	return s.engine.Status(kind, env)
}

// PushPlan returns what a push would do.
func (s *Service) PushPlan(ctx context.Context, kind resource.Kind, env string, policy reconcile.Policy) (*reconcile.Plan, error) {
	return s.engine.PlanPush(ctx, kind, reconcile.PushOptions{Environment: env, Policy: policy})
}

// PullPlan returns what a pull would do.
func (s *Service) PullPlan(ctx context.Context, kind resource.Kind, opts reconcile.PullOptions) (*reconcile.Plan, error) {
	opts.DryRun = true
	return s.engine.PlanPull(ctx, kind, opts)
}
