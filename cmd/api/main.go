package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campaign_portal_backend/internal/bulkupload"
	"campaign_portal_backend/internal/campaigns"
	"campaign_portal_backend/internal/engagement"
	"campaign_portal_backend/internal/events"
	apphttp "campaign_portal_backend/internal/http"
	"campaign_portal_backend/internal/http/router"
	"campaign_portal_backend/internal/leads"
	leadrepo "campaign_portal_backend/internal/leads/repository"
	"campaign_portal_backend/internal/leads/segment"
	"campaign_portal_backend/internal/masterdata"
	"campaign_portal_backend/internal/notification"
	"campaign_portal_backend/internal/scheduler"
	"campaign_portal_backend/internal/snapshots"
	"campaign_portal_backend/platform/config"
	"campaign_portal_backend/platform/db"
	"campaign_portal_backend/platform/logger"
	"campaign_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
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

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Redis backs the segment catalog cache and the recompute task queue.
	// Without it the cache is bypassed and recomputes run inline.
	rdb := initRedis(cfg, log)
	if rdb != nil {
		defer rdb.Close()
	}

	taskClient, closeTaskClient := initTaskClient(cfg, log)
	if closeTaskClient != nil {
		defer closeTaskClient()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	masterdataModule := masterdata.NewModule(pool, rdb, cfg, log)
	campaignsModule := campaigns.NewModule(pool, masterdataModule.Service(), eventBus, val)

	// Recompute requests go through the dispatcher: onto the task queue when
	// redis is configured, otherwise inline against the campaign service.
	recomputer := scheduler.NewRecomputeDispatcher(taskClient, campaignsModule.Service(), log)

	segmentResolver := segment.NewResolver(masterdataModule.Service(), log)

	leadsModule := leads.NewModule(pool, campaignsModule.Service(), masterdataModule.Service(), recomputer, eventBus, val, log)
	engagementModule := engagement.NewModule(pool, leadrepo.New(pool), recomputer, val, log)
	bulkuploadModule := bulkupload.NewModule(pool, campaignsModule.Service(), segmentResolver, recomputer, eventBus, log)
	snapshotsModule := snapshots.NewModule(pool)

	// Notification module subscribes to domain events (not HTTP-facing)
	notification.NewModule(cfg, eventBus, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			masterdataModule,
			campaignsModule,
			leadsModule,
			engagementModule,
			bulkuploadModule,
			snapshotsModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initRedis(cfg *config.Config, log *logger.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		log.Warn("REDIS_URL not configured; segment cache disabled")
		return nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Error("invalid REDIS_URL; segment cache disabled", "error", err)
		return nil
	}

	return redis.NewClient(opt)
}

func initTaskClient(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; metric recomputes run inline")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize task queue client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
