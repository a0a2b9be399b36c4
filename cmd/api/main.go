package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"takeout_backend/internal/events"
	"takeout_backend/internal/feed"
	apphttp "takeout_backend/internal/http"
	"takeout_backend/internal/http/router"
	"takeout_backend/internal/notify"
	"takeout_backend/internal/staging"
	"takeout_backend/internal/staging/repository"
	"takeout_backend/migrations"
	"takeout_backend/platform/config"
	"takeout_backend/platform/db"
	"takeout_backend/platform/logger"
	"takeout_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Shared store
	// ========================================================================

	// The store is optional. Without it the intake still answers and reports
	// every lead as not sent, so a half-provisioned environment never takes
	// the conversational frontend down with it.
	var pool *pgxpool.Pool
	if cfg.IsDatabaseConfigured() {
		if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
			return db.RunMigrations(ctx, cfg, migrations.FS, migrations.Dir)
		}); err != nil {
			log.Error("failed to run database migrations", "error", err)
			panic("failed to run database migrations: " + err.Error())
		}
		log.Info("database migrations complete")

		if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
			p, err := db.NewPool(ctx, cfg)
			if err != nil {
				return err
			}
			pool = p
			return nil
		}); err != nil {
			log.Error("failed to connect to database", "error", err)
			panic("failed to connect to database: " + err.Error())
		}
		defer pool.Close()
		log.Info("database connection established")
	} else {
		log.Warn("BOH_DATABASE_URL not configured, staging disabled, leads will be reported as not_sent")
	}

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	// ========================================================================
	// Modules
	// ========================================================================

	stagingModule := staging.NewModule(pool, eventBus, val, log)
	stagingModule.RegisterHandlers(eventBus)

	feedModule := feed.NewModule(log)
	feedModule.RegisterHandlers(eventBus)
	defer feedModule.Service().Close()

	checkDefaultCampaign(ctx, log, stagingModule.Repository())

	// ========================================================================
	// HTTP server and channel listener
	// ========================================================================

	var health apphttp.HealthChecker
	if pool != nil {
		health = db.NewPoolAdapter(pool)
	}

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   health,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			stagingModule,
			feedModule,
		},
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router.New(app),
	}

	// The server, the channel listener and the shutdown watcher run as one
	// group: the first hard failure cancels the other two.
	g, gctx := errgroup.WithContext(ctx)

	listener := notify.NewListener(cfg, eventBus, log)
	g.Go(func() error {
		return listener.Run(gctx)
	})

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			log.Error("shutdown did not complete cleanly", "error", err)
			return
		}
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
}

// checkDefaultCampaign warns at boot when lead routing is not provisioned.
// Every submission would come back no_route, which is better surfaced once
// here than discovered lead by lead in the logs.
func checkDefaultCampaign(ctx context.Context, log *logger.Logger, repo *repository.Repository) {
	if repo == nil {
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := repo.ResolveDefaultCampaign(checkCtx)
	switch {
	case err == nil:
		log.Info("default campaign route verified")
	case errors.Is(err, repository.ErrNoDefaultCampaign):
		log.Warn("no default campaign configured, submissions will report no_route until one is seeded")
	default:
		log.Error("default campaign check failed", "error", err)
	}
}

// withRetry runs fn up to attempts times with quadratically growing pauses
// between tries. Boot infrastructure behind it either comes up or takes the
// process down.
func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}
		log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", lastErr)

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt*attempt) * baseDelay):
		}
	}
	if lastErr == nil {
		return fmt.Errorf("%s: no attempts made", name)
	}
	return fmt.Errorf("%s: %w", name, lastErr)
}
