package feed

import (
	"context"

	"takeout_backend/internal/events"
	apphttp "takeout_backend/internal/http"
	"takeout_backend/platform/logger"
)

// Module represents the live feed module.
type Module struct {
	service *Service
	log     *logger.Logger
}

// NewModule creates the feed module with all dependencies wired.
func NewModule(log *logger.Logger) *Module {
	return &Module{
		service: New(log),
		log:     log,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "feed"
}

// Service returns the feed service for external use.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	feed := ctx.V1.Group("/feed")
	feed.GET("/leads", m.service.Handler())
}

// RegisterHandlers subscribes the feed to lead announcements.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.LeadObserved{}.EventName(), m)

	m.log.Info("feed module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadObserved:
		return m.handleLeadObserved(ctx, e)
	}
	return nil
}

func (m *Module) handleLeadObserved(_ context.Context, e events.LeadObserved) error {
	m.service.Broadcast(Event{
		Type:       EventLeadObserved,
		LeadID:     e.LeadID,
		Channel:    e.Channel,
		ObservedAt: e.OccurredAt(),
	})
	return nil
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
