// Package events defines the domain events exchanged between modules. The
// bus and handler contracts live in platform/events; this package aliases
// them so modules need a single import.
package events

import (
	"takeout_backend/platform/events"

	"github.com/google/uuid"
)

// Aliases into the platform contracts.
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Staging Domain Events
// =============================================================================

// LeadStaged is published after a lead row has been committed to the shared
// store. The Postgres trigger announces the same row to external consumers;
// this event is the in-process counterpart.
type LeadStaged struct {
	BaseEvent
	LeadID         uuid.UUID `json:"leadId"`
	CampaignID     uuid.UUID `json:"campaignId"`
	Platform       string    `json:"platform"`
	PlatformLeadID string    `json:"platformLeadId"`
	SessionID      string    `json:"sessionId"`
	MenuItem       string    `json:"menuItem"`
}

func (e LeadStaged) EventName() string { return "staging.lead.staged" }

// =============================================================================
// Notify Domain Events
// =============================================================================

// LeadObserved is published when the channel listener receives a new_lead
// notification from Postgres.
type LeadObserved struct {
	BaseEvent
	LeadID  uuid.UUID `json:"leadId"`
	Channel string    `json:"channel"`
}

func (e LeadObserved) EventName() string { return "notify.lead.observed" }
