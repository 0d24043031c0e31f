package scheduler

import (
	"context"
	"fmt"

	"campaign_portal_backend/platform/logger"

	"golang.org/x/sync/singleflight"
)

// CampaignRecomputer is the campaigns module's aggregate recomputer.
type CampaignRecomputer interface {
	Recompute(ctx context.Context, campaignID int64) error
}

// RecomputeDispatcher routes campaign recompute requests either onto the
// task queue or, when no queue is configured, inline. Inline recomputes for
// the same campaign are collapsed through singleflight so concurrent lead
// writes do not rebuild the same aggregates in parallel.
type RecomputeDispatcher struct {
	client     *Client
	recomputer CampaignRecomputer
	group      singleflight.Group
	log        *logger.Logger
}

// NewRecomputeDispatcher creates a dispatcher. The client may be nil, which
// selects the inline path.
func NewRecomputeDispatcher(client *Client, recomputer CampaignRecomputer, log *logger.Logger) *RecomputeDispatcher {
	return &RecomputeDispatcher{
		client:     client,
		recomputer: recomputer,
		log:        log,
	}
}

// RecomputeCampaign schedules or runs an aggregate recompute for a campaign.
func (d *RecomputeDispatcher) RecomputeCampaign(ctx context.Context, campaignID int64) error {
	if d.client != nil {
		return d.client.EnqueueMetricsRecompute(ctx, campaignID)
	}

	key := fmt.Sprintf("campaign:%d", campaignID)
	_, err, _ := d.group.Do(key, func() (interface{}, error) {
		return nil, d.recomputer.Recompute(ctx, campaignID)
	})
	return err
}
