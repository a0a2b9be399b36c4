// Package domain provides the pure lead-shaping rules of the staging
// pipeline: payload merging, canonical form data and metadata composition,
// and menu item classification. Nothing here touches the network or the
// database.
package domain

import (
	"fmt"
	"strings"
	"time"

	"takeout_backend/platform/phone"
	"takeout_backend/platform/sanitize"
)

// Wire contract shared with the downstream consumer. The consumer routes on
// these literal values; they must not drift.
const (
	Platform         = "takeout"
	StatusStaged     = "staged"
	FallbackPlatform = "other"
	NotifyChannel    = "new_lead"

	IntakeSource   = "takeout_chatbot"
	IntakePlatform = "takeout"
)

// Contact carries the contact portion of a partial lead. Nil means the
// source never offered the field.
type Contact struct {
	Name  *string
	Email *string
	Phone *string
}

// LeadPayload is a partial lead as produced by either source: the structured
// pre-chat selections or the model's extraction tool call.
type LeadPayload struct {
	Geo       *string
	LoanType  *string
	BudgetMin *int64
	BudgetMax *int64
	Timeline  *string
	Contact   *Contact
}

// FormData is the form_data column payload, the consumer's primary contact
// record. Missing fields are stored as empty strings, never omitted.
type FormData struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Metadata is the metadata column payload. The context keys (budget_min,
// budget_max, timeline, loan_type, session_id) are always present, carrying
// JSON null when unknown; geo appears only when it is a recognized state.
type Metadata map[string]any

// CanonicalLead is the fully normalized lead handed to the staging writer.
type CanonicalLead struct {
	Platform       string
	PlatformLeadID string
	SessionID      string
	MenuItem       string
	FormData       FormData
	Metadata       Metadata
}

// MergePayloads combines the caller's prefilled selections with the model's
// extracted fields. The extraction wins per individual field it actually
// fills; a missing or blank extracted field never erases a prefilled value.
// Contact merges the same way per sub-field, so an extracted contact that
// omits phone keeps a prefilled phone intact.
func MergePayloads(prefilled, extracted LeadPayload) LeadPayload {
	merged := prefilled
	merged.Geo = pickString(prefilled.Geo, extracted.Geo)
	merged.LoanType = pickString(prefilled.LoanType, extracted.LoanType)
	merged.BudgetMin = pickInt64(prefilled.BudgetMin, extracted.BudgetMin)
	merged.BudgetMax = pickInt64(prefilled.BudgetMax, extracted.BudgetMax)
	merged.Timeline = pickString(prefilled.Timeline, extracted.Timeline)
	merged.Contact = mergeContacts(prefilled.Contact, extracted.Contact)
	return merged
}

func mergeContacts(prefilled, extracted *Contact) *Contact {
	if prefilled == nil && extracted == nil {
		return nil
	}
	var merged Contact
	if prefilled != nil {
		merged = *prefilled
	}
	if extracted != nil {
		merged.Name = pickString(merged.Name, extracted.Name)
		merged.Email = pickString(merged.Email, extracted.Email)
		merged.Phone = pickString(merged.Phone, extracted.Phone)
	}
	return &merged
}

func pickString(base, override *string) *string {
	if override != nil && strings.TrimSpace(*override) != "" {
		return override
	}
	return base
}

func pickInt64(base, override *int64) *int64 {
	if override != nil {
		return override
	}
	return base
}

// BuildPlatformLeadID derives the dedup key for one staging attempt.
// The timestamp component means a caller retry after an ambiguous timeout
// produces a fresh key; callers reconcile through the session lookup instead
// of relying on this key for retry idempotence.
func BuildPlatformLeadID(sessionID string, at time.Time) string {
	return fmt.Sprintf("%s_%s_%d", Platform, sessionID, at.UnixNano())
}

// Normalize merges the two partial payloads and shapes the result into the
// canonical row content: sanitized form data, the metadata document, the
// dedup key, and the menu item classification.
func Normalize(prefilled, extracted LeadPayload, sessionID string, at time.Time) CanonicalLead {
	merged := MergePayloads(prefilled, extracted)

	return CanonicalLead{
		Platform:       Platform,
		PlatformLeadID: BuildPlatformLeadID(sessionID, at),
		SessionID:      sessionID,
		MenuItem:       MenuItemForLoanType(stringValue(merged.LoanType)),
		FormData:       buildFormData(merged.Contact),
		Metadata:       buildMetadata(merged, sessionID),
	}
}

func buildFormData(contact *Contact) FormData {
	if contact == nil {
		return FormData{}
	}
	return FormData{
		Name:  sanitize.Text(stringValue(contact.Name)),
		Email: strings.TrimSpace(stringValue(contact.Email)),
		Phone: phone.NormalizeE164(stringValue(contact.Phone)),
	}
}

func buildMetadata(merged LeadPayload, sessionID string) Metadata {
	md := Metadata{
		"budget_min":      int64OrNil(merged.BudgetMin),
		"budget_max":      int64OrNil(merged.BudgetMax),
		"timeline":        stringOrNil(sanitize.TextPtr(merged.Timeline)),
		"loan_type":       stringOrNil(merged.LoanType),
		"session_id":      sessionID,
		"intake_source":   IntakeSource,
		"intake_platform": IntakePlatform,
	}
	if merged.Geo != nil {
		if state, ok := NormalizeState(*merged.Geo); ok {
			md["geo"] = state
		}
	}
	return md
}

func stringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func stringOrNil(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func int64OrNil(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
