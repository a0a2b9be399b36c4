package notify

import (
	"context"
	"testing"
	"time"

	"takeout_backend/internal/events"
	"takeout_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

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

type fakeListenerConfig struct {
	url   string
	delay time.Duration
}

func (c fakeListenerConfig) GetDatabaseURL() string                   { return c.url }
func (c fakeListenerConfig) IsDatabaseConfigured() bool               { return c.url != "" }
func (c fakeListenerConfig) GetListenerReconnectDelay() time.Duration { return c.delay }

func TestRunDisabledWithoutStore(t *testing.T) {
	bus := &fakeBus{}
	l := NewListener(fakeListenerConfig{url: ""}, bus, logger.New("development"))

	done := make(chan error, 1)
	go func() {
		done <- l.Run(context.Background())
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil error from disabled listener, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("disabled listener did not return promptly")
	}

	if len(bus.published) != 0 {
		t.Errorf("expected no events from disabled listener, got %d", len(bus.published))
	}
}

func TestHandleNotificationPublishesObservedLead(t *testing.T) {
	bus := &fakeBus{}
	l := NewListener(fakeListenerConfig{url: "postgres://unused"}, bus, logger.New("development"))

	leadID := uuid.New()
	l.handleNotification(context.Background(), &pgconn.Notification{
		Channel: "new_lead",
		Payload: leadID.String(),
	})

	if len(bus.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(bus.published))
	}
	observed, ok := bus.published[0].(events.LeadObserved)
	if !ok {
		t.Fatalf("expected LeadObserved event, got %T", bus.published[0])
	}
	if observed.LeadID != leadID {
		t.Errorf("LeadID = %s, want %s", observed.LeadID, leadID)
	}
	if observed.Channel != "new_lead" {
		t.Errorf("Channel = %q, want %q", observed.Channel, "new_lead")
	}
}

func TestHandleNotificationDropsGarbagePayload(t *testing.T) {
	bus := &fakeBus{}
	l := NewListener(fakeListenerConfig{url: "postgres://unused"}, bus, logger.New("development"))

	l.handleNotification(context.Background(), &pgconn.Notification{
		Channel: "new_lead",
		Payload: "not-a-lead-id",
	})

	if len(bus.published) != 0 {
		t.Errorf("expected malformed payload to be dropped, got %d events", len(bus.published))
	}
}
