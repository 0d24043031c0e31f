package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("upload log not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type UploadLog struct {
	ID             int64
	ReferenceToken string
	UploadedBy     *int64
	UploadedAt     time.Time
	TotalRecords   int
	ValidRecords   int
	InvalidRecords int
}

type Detail struct {
	ID               int64
	UploadID         int64
	LeadEmail        string
	ValidationStatus string
	Message          string
	CreatedDate      time.Time
}

// LeadInsert is a validated row ready to be written to the leads table.
type LeadInsert struct {
	Name       string
	Email      string
	Phone      *string
	CampaignID *int64
	Segment    string
}

// DetailInsert is a per-row outcome ready to be written to the details table.
type DetailInsert struct {
	LeadEmail        string
	ValidationStatus string
	Message          string
}

// CreateProvisionalLog writes the upload log before any row is processed so
// that a failed batch still leaves an audit trail with zero counts.
func (r *Repository) CreateProvisionalLog(ctx context.Context, token string, total int, uploadedBy *int64) (int64, time.Time, error) {
	var (
		id         int64
		uploadedAt time.Time
	)
	err := r.pool.QueryRow(ctx, `
		INSERT INTO bulk_upload_logs (reference_token, uploaded_by, total_records, created_by_user_id)
		VALUES ($1, $2, $3, $2)
		RETURNING upload_id, uploaded_at
	`, token, uploadedBy, total).Scan(&id, &uploadedAt)
	return id, uploadedAt, err
}

// FindCollidingEmails returns the case-folded emails that already belong to a
// non-deleted lead, loaded in one query for the whole batch.
func (r *Repository) FindCollidingEmails(ctx context.Context, emails []string) (map[string]bool, error) {
	folded := make([]string, 0, len(emails))
	for _, e := range emails {
		folded = append(folded, strings.ToLower(e))
	}

	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT lower(email)
		FROM leads
		WHERE lower(email) = ANY($1) AND is_deleted = FALSE
	`, folded)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	colliding := make(map[string]bool)
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		colliding[email] = true
	}

	return colliding, rows.Err()
}

// CommitBatch writes the accepted leads, every per-row detail, and the final
// log counts in a single transaction. Either the whole batch outcome becomes
// visible or none of it does.
func (r *Repository) CommitBatch(ctx context.Context, uploadID int64, leads []LeadInsert, details []DetailInsert, uploadedBy *int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, l := range leads {
		if _, err := tx.Exec(ctx, `
			INSERT INTO leads (name, email, phone, campaign_id, segment, created_by_user_id)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, l.Name, l.Email, l.Phone, l.CampaignID, l.Segment, uploadedBy); err != nil {
			return err
		}
	}

	valid, invalid := 0, 0
	batch := &pgx.Batch{}
	for _, d := range details {
		if d.ValidationStatus == StatusValid {
			valid++
		} else {
			invalid++
		}
		batch.Queue(`
			INSERT INTO bulk_upload_details (upload_id, lead_email, validation_status, message)
			VALUES ($1, $2, $3, $4)
		`, uploadID, d.LeadEmail, d.ValidationStatus, d.Message)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE bulk_upload_logs
		SET valid_records = $2, invalid_records = $3, last_modified_date = now()
		WHERE upload_id = $1
	`, uploadID, valid, invalid); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Row validation statuses recorded in bulk_upload_details.
const (
	StatusValid   = "Valid"
	StatusInvalid = "Invalid"
)

// ListLogs returns the upload logs created by the given user, newest first.
// A zero userID means an unidentified uploader; those logs are matched on
// NULL created_by_user_id.
func (r *Repository) ListLogs(ctx context.Context, userID int64) ([]UploadLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT upload_id, reference_token, uploaded_by, uploaded_at, total_records, valid_records, invalid_records
		FROM bulk_upload_logs
		WHERE is_deleted = FALSE
			AND (($1 = 0 AND created_by_user_id IS NULL) OR created_by_user_id = $1)
		ORDER BY uploaded_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]UploadLog, 0)
	for rows.Next() {
		var l UploadLog
		if err := rows.Scan(&l.ID, &l.ReferenceToken, &l.UploadedBy, &l.UploadedAt,
			&l.TotalRecords, &l.ValidRecords, &l.InvalidRecords); err != nil {
			return nil, err
		}
		items = append(items, l)
	}

	return items, rows.Err()
}

// ListDetails returns the per-row details of an upload, scoped to its
// creating user, ordered by detail id. Returns ErrNotFound when the upload
// does not exist or belongs to another user.
func (r *Repository) ListDetails(ctx context.Context, uploadID, userID int64) ([]Detail, error) {
	var owned bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bulk_upload_logs
			WHERE upload_id = $1 AND is_deleted = FALSE
				AND (($2 = 0 AND created_by_user_id IS NULL) OR created_by_user_id = $2)
		)
	`, uploadID, userID).Scan(&owned)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrNotFound
	}

	rows, err := r.pool.Query(ctx, `
		SELECT detail_id, upload_id, lead_email, validation_status, message, created_date
		FROM bulk_upload_details
		WHERE upload_id = $1
		ORDER BY detail_id
	`, uploadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Detail, 0)
	for rows.Next() {
		var d Detail
		if err := rows.Scan(&d.ID, &d.UploadID, &d.LeadEmail, &d.ValidationStatus, &d.Message, &d.CreatedDate); err != nil {
			return nil, err
		}
		items = append(items, d)
	}

	return items, rows.Err()
}
