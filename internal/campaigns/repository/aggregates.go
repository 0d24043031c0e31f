package repository

import "context"

// LeadAggregates holds the raw inputs for the lead/engagement-driven
// aggregate computation of a single campaign.
type LeadAggregates struct {
	TotalLeads     int
	EngagedLeads   int
	ConvertedLeads int
}

// AggregateLeadStats derives the raw aggregate inputs from current lead and
// engagement state. Soft-deleted leads and metrics are excluded. A converted
// lead is one with at least one metric carrying a positive conversion rate
// (rates, not raw counts, are what is stored at rest).
func (r *Repository) AggregateLeadStats(ctx context.Context, campaignID int64) (LeadAggregates, error) {
	var agg LeadAggregates
	err := r.pool.QueryRow(ctx, `
		SELECT
			(
				SELECT COUNT(*)
				FROM leads
				WHERE campaign_id = $1 AND is_deleted = FALSE
			) AS total_leads,
			(
				SELECT COUNT(DISTINCT l.lead_id)
				FROM leads l
				JOIN engagement_metrics m ON m.lead_id = l.lead_id AND m.is_deleted = FALSE
				WHERE l.campaign_id = $1 AND l.is_deleted = FALSE
			) AS engaged_leads,
			(
				SELECT COUNT(DISTINCT l.lead_id)
				FROM leads l
				JOIN engagement_metrics m ON m.lead_id = l.lead_id
					AND m.is_deleted = FALSE AND m.conversion_rate > 0
				WHERE l.campaign_id = $1 AND l.is_deleted = FALSE
			) AS converted_leads
	`, campaignID).Scan(&agg.TotalLeads, &agg.EngagedLeads, &agg.ConvertedLeads)
	if err != nil {
		return LeadAggregates{}, err
	}
	return agg, nil
}

// UpdateAggregates overwrites the campaign's cached aggregate fields.
// Returns ErrNotFound when the campaign does not exist or is soft-deleted.
func (r *Repository) UpdateAggregates(ctx context.Context, campaignID int64, totalLeads int, openRate, conversionRate float64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE campaigns
		SET total_leads = $2, open_rate = $3, conversion_rate = $4, last_modified_date = now()
		WHERE campaign_id = $1 AND is_deleted = FALSE
	`, campaignID, totalLeads, openRate, conversionRate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
