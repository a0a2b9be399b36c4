package events

import (
	platformevents "takeout_backend/platform/events"
	"takeout_backend/platform/logger"
)

// InMemoryBus aliases the platform implementation so modules can wire
// handlers without importing platform/events directly.
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus builds the process-wide bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}
