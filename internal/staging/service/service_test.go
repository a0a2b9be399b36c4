package service

import (
	"context"
	"errors"
	"testing"

	"takeout_backend/internal/events"
	"takeout_backend/internal/staging/domain"
	"takeout_backend/internal/staging/repository"
	"takeout_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	calls    int
	lastLead domain.CanonicalLead
	staged   repository.StagedLead
	err      error
}

func (f *fakeStore) StageLead(_ context.Context, lead domain.CanonicalLead) (repository.StagedLead, error) {
	f.calls++
	f.lastLead = lead
	if f.err != nil {
		return repository.StagedLead{}, f.err
	}
	return f.staged, nil
}

type fakeBus struct {
	published []events.Event
}

func (f *fakeBus) Publish(_ context.Context, event events.Event) {
	f.published = append(f.published, event)
}

func (f *fakeBus) PublishSync(_ context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}

func (f *fakeBus) Subscribe(string, events.Handler) {}

func strPtr(s string) *string { return &s }

func TestStageSuccessPublishesLeadStaged(t *testing.T) {
	staged := repository.StagedLead{
		ID:         uuid.New(),
		CampaignID: uuid.New(),
		TicketID:   uuid.New(),
		BrandID:    "brand-1",
	}
	store := &fakeStore{staged: staged}
	bus := &fakeBus{}
	svc := New(store, bus, logger.New("development"))

	prefilled := domain.LeadPayload{LoanType: strPtr("purchase"), Geo: strPtr("TX")}
	extracted := domain.LeadPayload{Contact: &domain.Contact{Name: strPtr("Jane")}}

	result := svc.Stage(context.Background(), prefilled, extracted, "sess-1")

	if result.Outcome != OutcomeStaged {
		t.Fatalf("expected outcome %q, got %q", OutcomeStaged, result.Outcome)
	}
	if result.LeadID == nil || *result.LeadID != staged.ID {
		t.Fatalf("expected staged lead id %s, got %v", staged.ID, result.LeadID)
	}
	if store.calls != 1 {
		t.Fatalf("expected 1 store call, got %d", store.calls)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(bus.published))
	}

	event, ok := bus.published[0].(events.LeadStaged)
	if !ok {
		t.Fatalf("expected LeadStaged event, got %T", bus.published[0])
	}
	if event.LeadID != staged.ID || event.CampaignID != staged.CampaignID {
		t.Fatalf("event ids do not match staged row: %+v", event)
	}
	if event.Platform != "takeout" || event.SessionID != "sess-1" {
		t.Fatalf("unexpected event envelope: %+v", event)
	}
	if event.MenuItem != domain.MenuItemPurchase {
		t.Fatalf("expected purchase menu item on event, got %q", event.MenuItem)
	}
	if event.PlatformLeadID != store.lastLead.PlatformLeadID {
		t.Fatalf("event platform lead id %q does not match staged lead %q", event.PlatformLeadID, store.lastLead.PlatformLeadID)
	}
}

func TestStageDuplicateYieldsNoSecondIdentifier(t *testing.T) {
	store := &fakeStore{err: repository.ErrDuplicateLead}
	bus := &fakeBus{}
	svc := New(store, bus, logger.New("development"))

	result := svc.Stage(context.Background(), domain.LeadPayload{}, domain.LeadPayload{}, "sess-1")

	if result.Outcome != OutcomeDuplicate {
		t.Fatalf("expected outcome %q, got %q", OutcomeDuplicate, result.Outcome)
	}
	if result.LeadID != nil {
		t.Fatalf("duplicate must not return an identifier, got %v", result.LeadID)
	}
	if len(bus.published) != 0 {
		t.Fatalf("expected no events on duplicate, got %d", len(bus.published))
	}
}

func TestStageOutcomesPerFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"no default campaign", repository.ErrNoDefaultCampaign, OutcomeNoRoute},
		{"duplicate", repository.ErrDuplicateLead, OutcomeDuplicate},
		{"storage failure", errors.New("connection reset"), OutcomeFailed},
	}

	for _, tc := range tests {
		store := &fakeStore{err: tc.err}
		bus := &fakeBus{}
		svc := New(store, bus, logger.New("development"))

		result := svc.Stage(context.Background(), domain.LeadPayload{}, domain.LeadPayload{}, "sess-1")

		if result.Outcome != tc.want {
			t.Errorf("%s: expected outcome %q, got %q", tc.name, tc.want, result.Outcome)
		}
		if result.LeadID != nil {
			t.Errorf("%s: expected no lead id, got %v", tc.name, result.LeadID)
		}
		if len(bus.published) != 0 {
			t.Errorf("%s: expected no events on failure, got %d", tc.name, len(bus.published))
		}
	}
}

// With no store configured the pipeline must degrade quietly and behave the
// same on every attempt.
func TestStageDegradedModeIsRepeatable(t *testing.T) {
	bus := &fakeBus{}
	svc := New(nil, bus, logger.New("development"))

	for i := 0; i < 3; i++ {
		result := svc.Stage(context.Background(), domain.LeadPayload{}, domain.LeadPayload{}, "sess-1")
		if result.Outcome != OutcomeNotSent {
			t.Fatalf("attempt %d: expected outcome %q, got %q", i, OutcomeNotSent, result.Outcome)
		}
		if result.LeadID != nil {
			t.Fatalf("attempt %d: expected no lead id, got %v", i, result.LeadID)
		}
	}
	if len(bus.published) != 0 {
		t.Fatalf("expected no events in degraded mode, got %d", len(bus.published))
	}
}
