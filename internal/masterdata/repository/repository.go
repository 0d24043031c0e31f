package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Segment is a classification catalog entry.
type Segment struct {
	ID          int64
	Name        string
	CreatedDate time.Time
	IsActive    bool
}

// ReferenceItem is a buyer, agency, or brand catalog row.
type ReferenceItem struct {
	ID   int64
	Name string
}

// ListActiveSegmentNames returns the names of all active, non-deleted segments.
func (r *Repository) ListActiveSegmentNames(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT segment_name
		FROM campaign_segments
		WHERE is_active = TRUE AND is_deleted = FALSE
		ORDER BY segment_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// ListSegments returns all non-deleted segments.
func (r *Repository) ListSegments(ctx context.Context) ([]Segment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT segment_id, segment_name, created_date, is_active
		FROM campaign_segments
		WHERE is_deleted = FALSE
		ORDER BY segment_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Segment, 0)
	for rows.Next() {
		var item Segment
		if err := rows.Scan(&item.ID, &item.Name, &item.CreatedDate, &item.IsActive); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// ListBuyers returns all non-deleted buyers.
func (r *Repository) ListBuyers(ctx context.Context) ([]ReferenceItem, error) {
	return r.listReference(ctx, `
		SELECT buyer_id, buyer_name FROM buyers
		WHERE is_deleted = FALSE ORDER BY buyer_name
	`)
}

// ListAgencies returns all non-deleted agencies.
func (r *Repository) ListAgencies(ctx context.Context) ([]ReferenceItem, error) {
	return r.listReference(ctx, `
		SELECT agency_id, agency_name FROM agencies
		WHERE is_deleted = FALSE ORDER BY agency_name
	`)
}

// ListBrands returns all non-deleted brands.
func (r *Repository) ListBrands(ctx context.Context) ([]ReferenceItem, error) {
	return r.listReference(ctx, `
		SELECT brand_id, brand_name FROM brands
		WHERE is_deleted = FALSE ORDER BY brand_name
	`)
}

// BuyerExists reports whether a non-deleted buyer with the given id exists.
func (r *Repository) BuyerExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM buyers WHERE buyer_id = $1 AND is_deleted = FALSE)`, id)
}

// AgencyExists reports whether a non-deleted agency with the given id exists.
func (r *Repository) AgencyExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM agencies WHERE agency_id = $1 AND is_deleted = FALSE)`, id)
}

// BrandExists reports whether a non-deleted brand with the given id exists.
func (r *Repository) BrandExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM brands WHERE brand_id = $1 AND is_deleted = FALSE)`, id)
}

func (r *Repository) listReference(ctx context.Context, query string) ([]ReferenceItem, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]ReferenceItem, 0)
	for rows.Next() {
		var item ReferenceItem
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *Repository) exists(ctx context.Context, query string, id int64) (bool, error) {
	var found bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&found); err != nil {
		return false, err
	}
	return found, nil
}
