// Package service implements the staging pipeline boundary: normalize the
// two partial payloads into one canonical lead, write it through the shared
// store, and map every failure mode to a caller-safe outcome. The
// conversational caller must never see a raw storage error.
package service

import (
	"context"
	"errors"
	"time"

	"takeout_backend/internal/events"
	"takeout_backend/internal/staging/domain"
	"takeout_backend/internal/staging/repository"
	"takeout_backend/platform/logger"

	"github.com/google/uuid"
)

// Outcomes of one staging attempt.
const (
	OutcomeStaged    = "staged"
	OutcomeDuplicate = "duplicate"
	OutcomeNotSent   = "not_sent"
	OutcomeNoRoute   = "no_route"
	OutcomeFailed    = "failed"
)

// Store is the slice of the repository the staging pipeline writes through.
type Store interface {
	StageLead(ctx context.Context, lead domain.CanonicalLead) (repository.StagedLead, error)
}

// StageResult reports one staging attempt. LeadID is set only for a fresh
// staged row; a duplicate never yields a second identifier.
type StageResult struct {
	Outcome string
	LeadID  *uuid.UUID
}

// Service is the staging pipeline boundary.
type Service struct {
	store    Store
	eventBus events.Bus
	log      *logger.Logger
}

// New creates a staging service. A nil store puts the pipeline in degraded
// mode: every attempt reports not_sent without touching storage.
func New(store Store, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, eventBus: eventBus, log: log}
}

// Stage runs one intake submission through the pipeline.
func (s *Service) Stage(ctx context.Context, prefilled, extracted domain.LeadPayload, sessionID string) StageResult {
	lead := domain.Normalize(prefilled, extracted, sessionID, time.Now().UTC())

	if s.store == nil {
		s.log.Warn("staging: shared store not configured, lead not sent", "sessionId", sessionID)
		return StageResult{Outcome: OutcomeNotSent}
	}

	staged, err := s.store.StageLead(ctx, lead)
	if err != nil {
		return s.failureResult(err, lead)
	}

	s.eventBus.Publish(ctx, events.LeadStaged{
		BaseEvent:      events.NewBaseEvent(),
		LeadID:         staged.ID,
		CampaignID:     staged.CampaignID,
		Platform:       lead.Platform,
		PlatformLeadID: lead.PlatformLeadID,
		SessionID:      lead.SessionID,
		MenuItem:       lead.MenuItem,
	})

	id := staged.ID
	return StageResult{Outcome: OutcomeStaged, LeadID: &id}
}

func (s *Service) failureResult(err error, lead domain.CanonicalLead) StageResult {
	switch {
	case errors.Is(err, repository.ErrNoDefaultCampaign):
		s.log.Error("staging: no default campaign for fallback platform, lead not routed",
			"platformLeadId", lead.PlatformLeadID, "sessionId", lead.SessionID)
		return StageResult{Outcome: OutcomeNoRoute}
	case errors.Is(err, repository.ErrDuplicateLead):
		s.log.Info("staging: duplicate lead ignored",
			"platformLeadId", lead.PlatformLeadID, "sessionId", lead.SessionID)
		return StageResult{Outcome: OutcomeDuplicate}
	default:
		s.log.Error("staging: lead write failed", "error", err,
			"platformLeadId", lead.PlatformLeadID, "sessionId", lead.SessionID)
		return StageResult{Outcome: OutcomeFailed}
	}
}
