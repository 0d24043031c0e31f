package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("campaign not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Snapshot struct {
	ID             int64
	CampaignID     int64
	DateCaptured   time.Time
	TotalLeads     int
	OpenRate       float64
	ConversionRate float64
}

// Capture computes the metric-average figures for a campaign, writes an
// immutable snapshot row, and overwrites the campaign's cached aggregates
// with the same values, all in one transaction.
//
// This is the rate-averaging strategy: totalLeads is the count of live
// metric rows and the rates are plain averages of the stored per-metric
// rates. It intentionally differs from the lead-driven recomputer and exists
// for trend reporting over the metric stream.
func (r *Repository) Capture(ctx context.Context, campaignID int64, createdBy *int64) (Snapshot, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM campaigns WHERE campaign_id = $1 AND is_deleted = FALSE
		)
	`, campaignID).Scan(&exists)
	if err != nil {
		return Snapshot{}, err
	}
	if !exists {
		return Snapshot{}, ErrNotFound
	}

	var (
		metricCount int
		avgOpen     float64
		avgConv     float64
	)
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*),
			COALESCE(ROUND(AVG(open_rate), 2), 0),
			COALESCE(ROUND(AVG(conversion_rate), 2), 0)
		FROM engagement_metrics
		WHERE campaign_id = $1 AND is_deleted = FALSE
	`, campaignID).Scan(&metricCount, &avgOpen, &avgConv)
	if err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	err = tx.QueryRow(ctx, `
		INSERT INTO campaign_performance_snapshots (campaign_id, total_leads, open_rate, conversion_rate, created_by_user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING snapshot_id, campaign_id, date_captured, total_leads, open_rate, conversion_rate
	`, campaignID, metricCount, avgOpen, avgConv, createdBy).Scan(
		&snap.ID, &snap.CampaignID, &snap.DateCaptured, &snap.TotalLeads, &snap.OpenRate, &snap.ConversionRate,
	)
	if err != nil {
		return Snapshot{}, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE campaigns
		SET total_leads = $2, open_rate = $3, conversion_rate = $4, last_modified_date = now()
		WHERE campaign_id = $1
	`, campaignID, metricCount, avgOpen, avgConv)
	if err != nil {
		return Snapshot{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// ListByCampaign returns the snapshots of a campaign created by the given
// user, newest first. Returns ErrNotFound when the campaign does not exist
// or belongs to another user.
func (r *Repository) ListByCampaign(ctx context.Context, campaignID, userID int64) ([]Snapshot, error) {
	var owned bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM campaigns
			WHERE campaign_id = $1 AND is_deleted = FALSE
				AND (($2 = 0 AND created_by_user_id IS NULL) OR created_by_user_id = $2)
		)
	`, campaignID, userID).Scan(&owned)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrNotFound
	}

	return r.list(ctx, `
		SELECT snapshot_id, campaign_id, date_captured, total_leads, open_rate, conversion_rate
		FROM campaign_performance_snapshots
		WHERE campaign_id = $1
		ORDER BY date_captured DESC
	`, campaignID)
}

// ListAll returns every snapshot of campaigns created by the given user,
// newest first.
func (r *Repository) ListAll(ctx context.Context, userID int64) ([]Snapshot, error) {
	return r.list(ctx, `
		SELECT s.snapshot_id, s.campaign_id, s.date_captured, s.total_leads, s.open_rate, s.conversion_rate
		FROM campaign_performance_snapshots s
		JOIN campaigns c ON c.campaign_id = s.campaign_id
		WHERE c.is_deleted = FALSE
			AND (($1 = 0 AND c.created_by_user_id IS NULL) OR c.created_by_user_id = $1)
		ORDER BY s.date_captured DESC
	`, userID)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]Snapshot, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Snapshot, 0)
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.ID, &s.CampaignID, &s.DateCaptured, &s.TotalLeads, &s.OpenRate, &s.ConversionRate); err != nil {
			return nil, err
		}
		items = append(items, s)
	}

	return items, rows.Err()
}
