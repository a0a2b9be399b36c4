// Package events carries the in-process messaging layer modules use to react
// to each other without importing each other. The staging pipeline publishes
// here after commit and the live feed subscribes; this package knows neither.
package events

import (
	"context"
	"time"
)

// Event is implemented by every message that travels over the Bus. The name
// doubles as the subscription key.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// Handler consumes events. Implementations are registered per event name and
// must tolerate concurrent invocation.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function into a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error { return f(ctx, event) }

// Bus decouples publishers from subscribers.
type Bus interface {
	// Publish fans the event out without waiting for handlers, so it is safe
	// on request hot paths. Delivery failures are the bus's to log, not the
	// publisher's to handle.
	Publish(ctx context.Context, event Event)

	// PublishSync runs all handlers inline and reports their combined error.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler under the name the event reports from
	// EventName().
	Subscribe(eventName string, handler Handler)
}

// BaseEvent supplies the timestamp half of the Event contract; domain events
// embed it and add their own EventName.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// NewBaseEvent stamps a BaseEvent with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// OccurredAt returns the stamped time.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}
