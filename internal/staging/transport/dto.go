// Package transport defines the wire DTOs of the staging intake API.
package transport

import (
	"time"

	"takeout_backend/internal/staging/domain"

	"github.com/google/uuid"
)

// ContactPayload is the contact portion of a partial lead. Every field is
// optional; validation stays permissive because a malformed value from the
// extraction model must degrade into stored text, not a rejected submission.
type ContactPayload struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email *string `json:"email,omitempty" validate:"omitempty,max=200"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=40"`
}

// LeadPayload is a partial lead from one source, either the structured
// pre-chat selections or the model's extraction tool call.
type LeadPayload struct {
	Geo       *string         `json:"geo,omitempty" validate:"omitempty,max=100"`
	LoanType  *string         `json:"loanType,omitempty" validate:"omitempty,max=50"`
	BudgetMin *int64          `json:"budgetMin,omitempty"`
	BudgetMax *int64          `json:"budgetMax,omitempty"`
	Timeline  *string         `json:"timeline,omitempty" validate:"omitempty,max=200"`
	Contact   *ContactPayload `json:"contact,omitempty"`
}

// SubmitLeadRequest is one staging attempt for a conversation session.
// The session id is bounded so the derived platform lead id fits its column.
type SubmitLeadRequest struct {
	SessionID string      `json:"sessionId" validate:"required,max=128"`
	Prefilled LeadPayload `json:"prefilled"`
	Extracted LeadPayload `json:"extracted"`
}

// StageLeadResponse reports the outcome of one submission. LeadID is present
// only when a fresh row was staged.
type StageLeadResponse struct {
	LeadID  *uuid.UUID `json:"leadId,omitempty"`
	Outcome string     `json:"outcome"`
	Message string     `json:"message"`
}

// LeadResponse is the stored-lead view returned by the lookup endpoints.
type LeadResponse struct {
	ID             uuid.UUID       `json:"id"`
	CampaignID     uuid.UUID       `json:"campaignId"`
	TicketID       uuid.UUID       `json:"ticketId"`
	BrandID        string          `json:"brandId"`
	Platform       string          `json:"platform"`
	PlatformLeadID string          `json:"platformLeadId"`
	Status         string          `json:"status"`
	MenuItem       *string         `json:"menuItem,omitempty"`
	FormData       domain.FormData `json:"formData"`
	Metadata       domain.Metadata `json:"metadata"`
	CapturedAt     time.Time       `json:"capturedAt"`
	StagedAt       time.Time       `json:"stagedAt"`
	DeliveredAt    *time.Time      `json:"deliveredAt,omitempty"`
}

// ToDomain converts the wire payload to the domain shape.
func (p LeadPayload) ToDomain() domain.LeadPayload {
	lead := domain.LeadPayload{
		Geo:       p.Geo,
		LoanType:  p.LoanType,
		BudgetMin: p.BudgetMin,
		BudgetMax: p.BudgetMax,
		Timeline:  p.Timeline,
	}
	if p.Contact != nil {
		lead.Contact = &domain.Contact{
			Name:  p.Contact.Name,
			Email: p.Contact.Email,
			Phone: p.Contact.Phone,
		}
	}
	return lead
}
