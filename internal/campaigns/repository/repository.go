package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("campaign not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Campaign struct {
	ID                 int64
	Name               string
	StartDate          *time.Time
	EndDate            *time.Time
	Status             string
	BuyerID            *int64
	AgencyID           *int64
	BrandID            *int64
	TotalLeads         int
	OpenRate           float64
	ConversionRate     float64
	CreatedByUserID    *int64
	CreatedDate        time.Time
	LastModifiedUserID *int64
	LastModifiedDate   *time.Time
	IsActive           bool
	IsDeleted          bool
}

// Ref is a lightweight campaign reference used for existence checks and
// segment resolution.
type Ref struct {
	ID   int64
	Name string
}

const campaignColumns = `
	campaign_id, campaign_name, start_date, end_date, status,
	buyer_id, agency_id, brand_id, total_leads, open_rate, conversion_rate,
	created_by_user_id, created_date, last_modified_user_id, last_modified_date,
	is_active, is_deleted`

func scanCampaign(row pgx.Row) (Campaign, error) {
	var c Campaign
	err := row.Scan(
		&c.ID, &c.Name, &c.StartDate, &c.EndDate, &c.Status,
		&c.BuyerID, &c.AgencyID, &c.BrandID, &c.TotalLeads, &c.OpenRate, &c.ConversionRate,
		&c.CreatedByUserID, &c.CreatedDate, &c.LastModifiedUserID, &c.LastModifiedDate,
		&c.IsActive, &c.IsDeleted,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Campaign{}, ErrNotFound
	}
	return c, err
}

// List returns all non-deleted campaigns, newest first.
func (r *Repository) List(ctx context.Context) ([]Campaign, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+campaignColumns+`
		FROM campaigns
		WHERE is_deleted = FALSE
		ORDER BY created_date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Campaign, 0)
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}

	return items, rows.Err()
}

// GetByID returns a non-deleted campaign by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (Campaign, error) {
	return scanCampaign(r.pool.QueryRow(ctx, `
		SELECT `+campaignColumns+`
		FROM campaigns
		WHERE campaign_id = $1 AND is_deleted = FALSE
	`, id))
}

// FindActiveRef returns the id and name of a non-deleted campaign, or
// ErrNotFound. Soft-deleted campaigns are treated as absent.
func (r *Repository) FindActiveRef(ctx context.Context, id int64) (Ref, error) {
	var ref Ref
	err := r.pool.QueryRow(ctx, `
		SELECT campaign_id, campaign_name
		FROM campaigns
		WHERE campaign_id = $1 AND is_deleted = FALSE
	`, id).Scan(&ref.ID, &ref.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Ref{}, ErrNotFound
	}
	return ref, err
}

type CreateCampaignParams struct {
	Name            string
	StartDate       *time.Time
	EndDate         *time.Time
	Status          string
	BuyerID         *int64
	AgencyID        *int64
	BrandID         *int64
	CreatedByUserID *int64
}

// Create inserts a campaign with zeroed aggregate fields.
func (r *Repository) Create(ctx context.Context, params CreateCampaignParams) (Campaign, error) {
	return scanCampaign(r.pool.QueryRow(ctx, `
		INSERT INTO campaigns (campaign_name, start_date, end_date, status, buyer_id, agency_id, brand_id, created_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+campaignColumns,
		params.Name, params.StartDate, params.EndDate, params.Status,
		params.BuyerID, params.AgencyID, params.BrandID, params.CreatedByUserID,
	))
}

type UpdateCampaignParams struct {
	Name               *string
	StartDate          *time.Time
	EndDate            *time.Time
	Status             *string
	BuyerID            *int64
	AgencyID           *int64
	BrandID            *int64
	LastModifiedUserID *int64
}

// Update applies a partial update; nil fields keep their current value.
// The cached aggregate fields are deliberately not updatable here; only the
// metrics recomputer and the snapshot recorder write them.
func (r *Repository) Update(ctx context.Context, id int64, params UpdateCampaignParams) (Campaign, error) {
	return scanCampaign(r.pool.QueryRow(ctx, `
		UPDATE campaigns SET
			campaign_name = COALESCE($2, campaign_name),
			start_date = COALESCE($3, start_date),
			end_date = COALESCE($4, end_date),
			status = COALESCE($5, status),
			buyer_id = COALESCE($6, buyer_id),
			agency_id = COALESCE($7, agency_id),
			brand_id = COALESCE($8, brand_id),
			last_modified_user_id = COALESCE($9, last_modified_user_id),
			last_modified_date = now()
		WHERE campaign_id = $1 AND is_deleted = FALSE
		RETURNING `+campaignColumns,
		id, params.Name, params.StartDate, params.EndDate, params.Status,
		params.BuyerID, params.AgencyID, params.BrandID, params.LastModifiedUserID,
	))
}

// SoftDelete marks a campaign deleted and inactive.
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE campaigns
		SET is_deleted = TRUE, is_active = FALSE, last_modified_date = now()
		WHERE campaign_id = $1 AND is_deleted = FALSE
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
