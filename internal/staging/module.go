// Package staging provides the lead staging domain module: intake, merge,
// classification, and the transactional write into the shared store.
package staging

import (
	"context"

	"takeout_backend/internal/events"
	apphttp "takeout_backend/internal/http"
	"takeout_backend/internal/staging/handler"
	"takeout_backend/internal/staging/repository"
	"takeout_backend/internal/staging/service"
	"takeout_backend/platform/logger"
	"takeout_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the staging domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
	log     *logger.Logger
}

// NewModule creates the staging module with all dependencies wired. A nil
// pool leaves the module in degraded mode: submissions are accepted and
// reported not_sent, lookups answer 503.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	var (
		repo  *repository.Repository
		store service.Store
	)
	if pool != nil {
		repo = repository.New(pool)
		store = repo
	}
	svc := service.New(store, eventBus, log)
	h := handler.New(svc, repo, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
		log:     log,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "staging"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository, nil in degraded mode. The composition
// root uses it for the boot-time default campaign check.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	leads := ctx.V1.Group("/leads")
	if ctx.IntakeLimiter != nil {
		leads.Use(ctx.IntakeLimiter.RateLimit())
	}
	m.handler.RegisterRoutes(leads)
}

// RegisterHandlers subscribes the module's audit handler to staging events.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.LeadStaged{}.EventName(), m)

	m.log.Info("staging module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadStaged:
		return m.handleLeadStaged(ctx, e)
	}
	return nil
}

func (m *Module) handleLeadStaged(_ context.Context, e events.LeadStaged) error {
	m.log.StagingOutcome(service.OutcomeStaged, e.PlatformLeadID, e.SessionID)
	return nil
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
