package service

import (
	"context"
	"errors"
	"math"

	"campaign_portal_backend/internal/campaigns/repository"
	"campaign_portal_backend/internal/events"
	"campaign_portal_backend/platform/apperr"
)

// Recompute rebuilds a campaign's cached aggregates from current lead and
// engagement state. The operation is idempotent: running it twice against
// unchanged rows yields the same stored values. A campaign with zero leads
// gets totalLeads 0 and both rates 0.
func (s *Service) Recompute(ctx context.Context, campaignID int64) error {
	agg, err := s.repo.AggregateLeadStats(ctx, campaignID)
	if err != nil {
		return err
	}

	openRate := 0.0
	convRate := 0.0
	if agg.TotalLeads > 0 {
		openRate = round2(float64(agg.EngagedLeads) / float64(agg.TotalLeads) * 100)
		convRate = round2(float64(agg.ConvertedLeads) / float64(agg.TotalLeads) * 100)
	}

	if err := s.repo.UpdateAggregates(ctx, campaignID, agg.TotalLeads, openRate, convRate); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("campaign not found")
		}
		return err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.CampaignMetricsRecomputed{
			BaseEvent:      events.NewBaseEvent(),
			CampaignID:     campaignID,
			TotalLeads:     agg.TotalLeads,
			OpenRate:       openRate,
			ConversionRate: convRate,
		})
	}

	return nil
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
