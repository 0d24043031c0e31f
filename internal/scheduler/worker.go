package scheduler

import (
	"context"
	"fmt"

	"campaign_portal_backend/platform/apperr"
	"campaign_portal_backend/platform/config"
	"campaign_portal_backend/platform/logger"

	"github.com/hibiken/asynq"
)

type Worker struct {
	server     *asynq.Server
	mux        *asynq.ServeMux
	recomputer CampaignRecomputer
	log        *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, recomputer CampaignRecomputer, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:     server,
		mux:        mux,
		recomputer: recomputer,
		log:        log,
	}

	mux.HandleFunc(TaskCampaignMetricsRecompute, w.handleCampaignMetricsRecompute)

	return w, nil
}

func (w *Worker) handleCampaignMetricsRecompute(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCampaignMetricsRecomputePayload(task)
	if err != nil {
		return err
	}

	err = w.recomputer.Recompute(ctx, payload.CampaignID)
	if apperr.Is(err, apperr.KindNotFound) {
		// Campaign deleted between enqueue and execution; nothing to retry.
		w.log.Warn("recompute skipped, campaign gone", "campaignId", payload.CampaignID)
		return nil
	}
	if err != nil {
		w.log.RecomputeFailed(payload.CampaignID, err)
		return err
	}
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
