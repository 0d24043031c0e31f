package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("engagement metric not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Metric struct {
	ID                 int64
	LeadID             int64
	CampaignID         *int64
	OpenRate           float64
	ClickRate          float64
	ConversionRate     float64
	CreatedByUserID    *int64
	CreatedDate        time.Time
	LastModifiedUserID *int64
	LastModifiedDate   *time.Time
	IsActive           bool
	IsDeleted          bool
}

const metricColumns = `
	metric_id, lead_id, campaign_id, open_rate, click_rate, conversion_rate,
	created_by_user_id, created_date, last_modified_user_id, last_modified_date,
	is_active, is_deleted`

func scanMetric(row pgx.Row) (Metric, error) {
	var m Metric
	err := row.Scan(
		&m.ID, &m.LeadID, &m.CampaignID, &m.OpenRate, &m.ClickRate, &m.ConversionRate,
		&m.CreatedByUserID, &m.CreatedDate, &m.LastModifiedUserID, &m.LastModifiedDate,
		&m.IsActive, &m.IsDeleted,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Metric{}, ErrNotFound
	}
	return m, err
}

// ListByLead returns all non-deleted metrics for a lead, newest first.
func (r *Repository) ListByLead(ctx context.Context, leadID int64) ([]Metric, error) {
	return r.list(ctx, `
		SELECT `+metricColumns+`
		FROM engagement_metrics
		WHERE lead_id = $1 AND is_deleted = FALSE
		ORDER BY created_date DESC
	`, leadID)
}

// ListByCampaign returns all non-deleted metrics for a campaign, newest first.
func (r *Repository) ListByCampaign(ctx context.Context, campaignID int64) ([]Metric, error) {
	return r.list(ctx, `
		SELECT `+metricColumns+`
		FROM engagement_metrics
		WHERE campaign_id = $1 AND is_deleted = FALSE
		ORDER BY created_date DESC
	`, campaignID)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]Metric, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Metric, 0)
	for rows.Next() {
		m, err := scanMetric(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}

	return items, rows.Err()
}

// GetByID returns a non-deleted metric by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (Metric, error) {
	return scanMetric(r.pool.QueryRow(ctx, `
		SELECT `+metricColumns+`
		FROM engagement_metrics
		WHERE metric_id = $1 AND is_deleted = FALSE
	`, id))
}

type CreateMetricParams struct {
	LeadID          int64
	CampaignID      *int64
	OpenRate        float64
	ClickRate       float64
	ConversionRate  float64
	CreatedByUserID *int64
}

// Create inserts a metric row. Only rates are stored.
func (r *Repository) Create(ctx context.Context, params CreateMetricParams) (Metric, error) {
	return scanMetric(r.pool.QueryRow(ctx, `
		INSERT INTO engagement_metrics (lead_id, campaign_id, open_rate, click_rate, conversion_rate, created_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+metricColumns,
		params.LeadID, params.CampaignID, params.OpenRate, params.ClickRate, params.ConversionRate, params.CreatedByUserID,
	))
}

type UpdateMetricParams struct {
	OpenRate           *float64
	ClickRate          *float64
	ConversionRate     *float64
	LastModifiedUserID *int64
}

// Update applies a partial rate update; nil fields keep their current value.
func (r *Repository) Update(ctx context.Context, id int64, params UpdateMetricParams) (Metric, error) {
	return scanMetric(r.pool.QueryRow(ctx, `
		UPDATE engagement_metrics SET
			open_rate = COALESCE($2, open_rate),
			click_rate = COALESCE($3, click_rate),
			conversion_rate = COALESCE($4, conversion_rate),
			last_modified_user_id = COALESCE($5, last_modified_user_id),
			last_modified_date = now()
		WHERE metric_id = $1 AND is_deleted = FALSE
		RETURNING `+metricColumns,
		id, params.OpenRate, params.ClickRate, params.ConversionRate, params.LastModifiedUserID,
	))
}

// SoftDelete marks a metric deleted.
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE engagement_metrics
		SET is_deleted = TRUE, is_active = FALSE, last_modified_date = now()
		WHERE metric_id = $1 AND is_deleted = FALSE
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
