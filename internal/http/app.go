// Package http declares the contract between the composition root, the
// router and the domain modules.
package http

import (
	"context"

	"takeout_backend/internal/events"
	"takeout_backend/platform/config"
	"takeout_backend/platform/logger"
)

// RouterConfig is the slice of configuration the router itself consumes.
type RouterConfig interface {
	config.HTTPConfig
	config.IntakeConfig
}

// HealthChecker is what the health endpoint needs from the shared store.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App carries everything main.go assembles for the router: configuration,
// logging, the store health probe and the modules to mount.
type App struct {
	Config RouterConfig
	Logger *logger.Logger
	// Health is nil when the store was never configured, which is a legal
	// degraded state rather than an error.
	Health   HealthChecker
	EventBus events.Bus
	Modules  []Module
}
