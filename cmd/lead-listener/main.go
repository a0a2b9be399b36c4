package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"takeout_backend/internal/events"
	"takeout_backend/internal/notify"
	"takeout_backend/internal/staging/repository"
	"takeout_backend/platform/config"
	"takeout_backend/platform/db"
	"takeout_backend/platform/logger"

	"github.com/google/uuid"
)

// backlogLimit caps the reconciliation scan at startup. Anything beyond it
// shows up again on the next run.
const backlogLimit = 100

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting lead listener")

	if !cfg.IsDatabaseConfigured() {
		log.Error("BOH_DATABASE_URL is required for the lead listener")
		panic("BOH_DATABASE_URL is required for the lead listener")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	repo := repository.New(pool)

	// Announcements missed while this process was down never replay, so the
	// undelivered backlog comes first.
	printBacklog(ctx, log, repo)

	bus := events.NewInMemoryBus(log)
	bus.Subscribe(events.LeadObserved{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		observed, ok := event.(events.LeadObserved)
		if !ok {
			return nil
		}
		printLead(ctx, log, repo, observed.LeadID)
		return nil
	}))

	listener := notify.NewListener(cfg, bus, log)
	if err := listener.Run(ctx); err != nil {
		log.Error("channel listener exited", "error", err)
	}
}

func printBacklog(ctx context.Context, log *logger.Logger, repo *repository.Repository) {
	leads, err := repo.ListUndelivered(ctx, backlogLimit)
	if err != nil {
		log.Error("failed to list undelivered leads", "error", err)
		return
	}
	if len(leads) == 0 {
		log.Info("no undelivered leads in backlog")
		return
	}

	log.Info("undelivered backlog", "count", len(leads))
	for _, lead := range leads {
		logLead(log, "undelivered lead", lead)
	}
}

// printLead re-fetches the announced row. The notification payload only
// carries the id; the row is the source of truth.
func printLead(ctx context.Context, log *logger.Logger, repo *repository.Repository, id uuid.UUID) {
	lead, err := repo.GetByID(ctx, id)
	if err != nil {
		log.Error("failed to fetch announced lead", "leadId", id.String(), "error", err)
		return
	}
	logLead(log, "new lead staged", lead)
}

func logLead(log *logger.Logger, msg string, lead repository.Lead) {
	menuItem := ""
	if lead.MenuItem != nil {
		menuItem = *lead.MenuItem
	}
	log.Info(msg,
		"leadId", lead.ID.String(),
		"platformLeadId", lead.PlatformLeadID,
		"menuItem", menuItem,
		"status", lead.Status,
		"stagedAt", lead.StagedAt.Format(time.RFC3339),
	)
}
