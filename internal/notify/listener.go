// Package notify consumes the Postgres new_lead channel and republishes
// announcements on the in-process event bus.
package notify

import (
	"context"
	"fmt"
	"time"

	"takeout_backend/internal/events"
	"takeout_backend/internal/staging/domain"
	"takeout_backend/platform/config"
	"takeout_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Listener holds a dedicated connection to the shared store and blocks on
// channel notifications. It does not use the pool: a pooled connection
// cannot sit in LISTEN state without starving other queries.
type Listener struct {
	cfg config.ListenerConfig
	bus events.Bus
	log *logger.Logger
}

// NewListener creates a channel listener. It does not connect yet; Run does.
func NewListener(cfg config.ListenerConfig, bus events.Bus, log *logger.Logger) *Listener {
	return &Listener{
		cfg: cfg,
		bus: bus,
		log: log,
	}
}

// Run listens on the new_lead channel until ctx is cancelled, reconnecting
// with a delay whenever the connection drops. Notifications missed while
// disconnected are recovered through the undelivered backlog, not replayed
// by Postgres.
func (l *Listener) Run(ctx context.Context) error {
	if !l.cfg.IsDatabaseConfigured() {
		l.log.Warn("notify: shared store not configured, channel listener disabled")
		return nil
	}

	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			l.log.Info("notify: channel listener stopped")
			return nil
		}
		l.log.Error("notify: listener connection lost, reconnecting", "error", err)

		select {
		case <-ctx.Done():
			l.log.Info("notify: channel listener stopped")
			return nil
		case <-time.After(l.cfg.GetListenerReconnectDelay()):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect listener: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = conn.Close(closeCtx)
	}()

	if _, err := conn.Exec(ctx, "listen "+domain.NotifyChannel); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", domain.NotifyChannel, err)
	}
	l.log.Info("notify: listening for staged leads", "channel", domain.NotifyChannel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		l.handleNotification(ctx, notification)
	}
}

// handleNotification parses the announced lead id and republishes it. The
// payload carries only the id; consumers re-fetch current row state.
func (l *Listener) handleNotification(ctx context.Context, n *pgconn.Notification) {
	leadID, err := uuid.Parse(n.Payload)
	if err != nil {
		l.log.Warn("notify: discarding malformed notification payload", "channel", n.Channel, "payload", n.Payload)
		return
	}

	l.bus.Publish(ctx, events.LeadObserved{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		Channel:   n.Channel,
	})
}
