// Package feed streams staged-lead announcements to connected operators over
// Server-Sent Events.
package feed

import (
	"encoding/json"
	"sync"
	"time"

	"takeout_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EventType names the SSE event a payload is sent under.
type EventType string

const (
	EventLeadObserved EventType = "lead_observed"
)

// Event is the wire payload pushed to feed subscribers.
type Event struct {
	Type       EventType `json:"type"`
	LeadID     uuid.UUID `json:"leadId"`
	Channel    string    `json:"channel,omitempty"`
	ObservedAt time.Time `json:"observedAt"`
}

type client struct {
	events chan Event
}

// Service tracks connected subscribers and fans events out to them. The feed
// is one shared operator stream: every client sees every event.
type Service struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	log     *logger.Logger
}

func New(log *logger.Logger) *Service {
	return &Service{
		clients: make(map[*client]struct{}),
		log:     log,
	}
}

func (s *Service) addClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clients[c] = struct{}{}
}

// removeClient owns the channel close, so a double remove (client teardown
// racing Close) is a no-op.
func (s *Service) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.events)
}

// Broadcast delivers event to every subscriber. A client whose buffer is
// full loses the event instead of blocking the caller.
func (s *Service) Broadcast(event Event) {
	s.mu.RLock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.events <- event:
		default:
			s.log.Warn("feed: dropping event for slow client", "type", string(event.Type), "leadId", event.LeadID.String())
		}
	}
}

// Handler serves one SSE subscription per request, holding the connection
// open until the client goes away or the service closes.
func (s *Service) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")

		cl := &client{events: make(chan Event, 32)}
		s.addClient(cl)
		defer s.removeClient(cl)

		c.SSEvent("connected", gin.H{"stream": "leads"})
		c.Writer.Flush()
		s.log.Debug("feed: client connected", "clientIp", c.ClientIP())

		clientGone := c.Request.Context().Done()
		for {
			select {
			case <-clientGone:
				s.log.Debug("feed: client disconnected", "clientIp", c.ClientIP())
				return
			case event, ok := <-cl.events:
				if !ok {
					return
				}
				data, _ := json.Marshal(event)
				c.SSEvent(string(event.Type), string(data))
				c.Writer.Flush()
			}
		}
	}
}

// Close disconnects every subscriber. Streams see their channel close and
// finish their handlers.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for c := range s.clients {
		delete(s.clients, c)
		close(c.events)
	}
}
