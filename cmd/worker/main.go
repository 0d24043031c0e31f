package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"campaign_portal_backend/internal/campaigns/repository"
	"campaign_portal_backend/internal/campaigns/service"
	"campaign_portal_backend/internal/events"
	"campaign_portal_backend/internal/scheduler"
	"campaign_portal_backend/platform/config"
	"campaign_portal_backend/platform/db"
	"campaign_portal_backend/platform/logger"
)

// The worker consumes recompute tasks from the queue and rebuilds campaign
// aggregates. It shares the database with the API but runs as its own process.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env, "queue", cfg.AsynqQueueName)

	if cfg.RedisURL == "" {
		log.Error("REDIS_URL is required for the worker")
		panic("REDIS_URL is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	campaignService := service.New(repository.New(pool), nil, eventBus)

	worker, err := scheduler.NewWorker(cfg, campaignService, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("worker stopped")
}
