package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound       = errors.New("lead not found")
	ErrDuplicateEmail = errors.New("lead email already exists")
)

// uniqueViolation is the postgres error code raised by the partial unique
// index on lower(email).
const uniqueViolation = "23505"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID                 int64
	Name               string
	Email              string
	Phone              *string
	CampaignID         *int64
	Segment            *string
	CreatedByUserID    *int64
	CreatedDate        time.Time
	LastModifiedUserID *int64
	LastModifiedDate   *time.Time
	IsActive           bool
	IsDeleted          bool
}

const leadColumns = `
	lead_id, name, email, phone, campaign_id, segment,
	created_by_user_id, created_date, last_modified_user_id, last_modified_date,
	is_active, is_deleted`

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID, &l.Name, &l.Email, &l.Phone, &l.CampaignID, &l.Segment,
		&l.CreatedByUserID, &l.CreatedDate, &l.LastModifiedUserID, &l.LastModifiedDate,
		&l.IsActive, &l.IsDeleted,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return l, err
}

func mapInsertErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateEmail
	}
	return err
}

type ListParams struct {
	CampaignID *int64
	Segment    *string
	Search     string
	Offset     int
	Limit      int
}

// List returns a page of non-deleted leads, newest first, together with the
// total count matching the filters.
func (r *Repository) List(ctx context.Context, params ListParams) ([]Lead, int, error) {
	whereClause, args, argIdx := buildLeadListWhere(params)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM leads WHERE %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM leads
		WHERE %s
		ORDER BY created_date DESC
		LIMIT $%d OFFSET $%d
	`, leadColumns, whereClause, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, l)
	}

	return items, total, rows.Err()
}

func buildLeadListWhere(params ListParams) (string, []interface{}, int) {
	whereClauses := []string{"is_deleted = FALSE"}
	args := []interface{}{}
	argIdx := 1

	if params.CampaignID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("campaign_id = $%d", argIdx))
		args = append(args, *params.CampaignID)
		argIdx++
	}
	if params.Segment != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("segment = $%d", argIdx))
		args = append(args, *params.Segment)
		argIdx++
	}
	if params.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)",
			argIdx, argIdx, argIdx,
		))
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}

	return strings.Join(whereClauses, " AND "), args, argIdx
}

// GetByID returns a non-deleted lead by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE lead_id = $1 AND is_deleted = FALSE
	`, id))
}

// EmailExists reports whether a non-deleted lead already holds the given
// email, compared case-insensitively.
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM leads
			WHERE lower(email) = lower($1) AND is_deleted = FALSE
		)
	`, email).Scan(&exists)
	return exists, err
}

type CreateLeadParams struct {
	Name            string
	Email           string
	Phone           *string
	CampaignID      *int64
	Segment         string
	CreatedByUserID *int64
}

// Create inserts a lead. Case-folded email uniqueness among non-deleted leads
// is enforced by the partial unique index; violations surface as
// ErrDuplicateEmail.
func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	l, err := scanLead(r.pool.QueryRow(ctx, `
		INSERT INTO leads (name, email, phone, campaign_id, segment, created_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+leadColumns,
		params.Name, params.Email, params.Phone, params.CampaignID, params.Segment, params.CreatedByUserID,
	))
	if err != nil {
		return Lead{}, mapInsertErr(err)
	}
	return l, nil
}

type UpdateLeadParams struct {
	Name               *string
	Email              *string
	Phone              *string
	CampaignID         *int64
	ClearCampaign      bool
	Segment            *string
	LastModifiedUserID *int64
}

// Update applies a partial update; nil fields keep their current value.
// ClearCampaign detaches the lead from its campaign.
func (r *Repository) Update(ctx context.Context, id int64, params UpdateLeadParams) (Lead, error) {
	l, err := scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads SET
			name = COALESCE($2, name),
			email = COALESCE($3, email),
			phone = COALESCE($4, phone),
			campaign_id = CASE WHEN $6 THEN NULL ELSE COALESCE($5, campaign_id) END,
			segment = COALESCE($7, segment),
			last_modified_user_id = COALESCE($8, last_modified_user_id),
			last_modified_date = now()
		WHERE lead_id = $1 AND is_deleted = FALSE
		RETURNING `+leadColumns,
		id, params.Name, params.Email, params.Phone,
		params.CampaignID, params.ClearCampaign, params.Segment, params.LastModifiedUserID,
	))
	if err != nil {
		return Lead{}, mapInsertErr(err)
	}
	return l, nil
}

// SoftDelete marks the lead deleted and cascades a soft delete to its
// engagement metrics in the same transaction, so the recomputer never sees a
// live metric pointing at a deleted lead.
func (r *Repository) SoftDelete(ctx context.Context, id int64, modifiedBy *int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE leads
		SET is_deleted = TRUE, is_active = FALSE,
			last_modified_user_id = COALESCE($2, last_modified_user_id),
			last_modified_date = now()
		WHERE lead_id = $1 AND is_deleted = FALSE
	`, id, modifiedBy)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	_, err = tx.Exec(ctx, `
		UPDATE engagement_metrics
		SET is_deleted = TRUE, is_active = FALSE, last_modified_date = now()
		WHERE lead_id = $1 AND is_deleted = FALSE
	`, id)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
