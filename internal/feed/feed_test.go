package feed

import (
	"context"
	"testing"
	"time"

	"takeout_backend/internal/events"
	"takeout_backend/platform/logger"

	"github.com/google/uuid"
)

func TestBroadcastReachesAllClients(t *testing.T) {
	svc := New(logger.New("development"))

	first := &client{events: make(chan Event, 32)}
	second := &client{events: make(chan Event, 32)}
	svc.addClient(first)
	svc.addClient(second)

	leadID := uuid.New()
	svc.Broadcast(Event{Type: EventLeadObserved, LeadID: leadID})

	for name, cl := range map[string]*client{"first": first, "second": second} {
		select {
		case got := <-cl.events:
			if got.LeadID != leadID {
				t.Errorf("%s client LeadID = %s, want %s", name, got.LeadID, leadID)
			}
		default:
			t.Errorf("%s client received no event", name)
		}
	}
}

func TestBroadcastDropsForSlowClient(t *testing.T) {
	svc := New(logger.New("development"))

	slow := &client{events: make(chan Event, 1)}
	svc.addClient(slow)
	slow.events <- Event{Type: EventLeadObserved, LeadID: uuid.New()}

	// Must return instead of blocking on the full buffer.
	done := make(chan struct{})
	go func() {
		svc.Broadcast(Event{Type: EventLeadObserved, LeadID: uuid.New()})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked on a slow client")
	}

	if got := len(slow.events); got != 1 {
		t.Errorf("slow client buffer length = %d, want 1", got)
	}
}

func TestRemoveClientIsIdempotent(t *testing.T) {
	svc := New(logger.New("development"))

	cl := &client{events: make(chan Event, 32)}
	svc.addClient(cl)
	svc.removeClient(cl)
	svc.removeClient(cl)
	svc.Close()

	if _, ok := <-cl.events; ok {
		t.Error("expected client channel to be closed after removal")
	}
}

func TestHandleLeadObservedBroadcasts(t *testing.T) {
	m := NewModule(logger.New("development"))

	cl := &client{events: make(chan Event, 32)}
	m.service.addClient(cl)

	leadID := uuid.New()
	observed := events.LeadObserved{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		Channel:   "new_lead",
	}
	if err := m.Handle(context.Background(), observed); err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}

	select {
	case got := <-cl.events:
		if got.Type != EventLeadObserved {
			t.Errorf("Type = %q, want %q", got.Type, EventLeadObserved)
		}
		if got.LeadID != leadID {
			t.Errorf("LeadID = %s, want %s", got.LeadID, leadID)
		}
		if got.Channel != "new_lead" {
			t.Errorf("Channel = %q, want %q", got.Channel, "new_lead")
		}
		if !got.ObservedAt.Equal(observed.OccurredAt()) {
			t.Errorf("ObservedAt = %v, want %v", got.ObservedAt, observed.OccurredAt())
		}
	default:
		t.Fatal("expected a broadcast event for the connected client")
	}
}

func TestHandleIgnoresUnrelatedEvents(t *testing.T) {
	m := NewModule(logger.New("development"))

	cl := &client{events: make(chan Event, 32)}
	m.service.addClient(cl)

	if err := m.Handle(context.Background(), events.LeadStaged{BaseEvent: events.NewBaseEvent()}); err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}

	if got := len(cl.events); got != 0 {
		t.Errorf("expected no broadcast for unrelated event, got %d", got)
	}
}
