// Package service implements the bulk lead ingestion pipeline: per-row
// validation, duplicate detection within the file and against persisted
// leads, segment resolution, and a single-transaction commit of accepted
// leads plus the full audit trail.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"campaign_portal_backend/internal/bulkupload/repository"
	"campaign_portal_backend/internal/bulkupload/transport"
	campaignrepo "campaign_portal_backend/internal/campaigns/repository"
	"campaign_portal_backend/internal/events"
	"campaign_portal_backend/platform/apperr"
	"campaign_portal_backend/platform/logger"
	"campaign_portal_backend/platform/phone"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Per-row detail messages. These are part of the audit contract; reporting
// built on bulk_upload_details matches on them.
const (
	msgMissingFields = "Missing required fields (Name or Email)."
	msgInvalidEmail  = "Invalid email format."
	msgDuplicateFile = "Duplicate email in uploaded file."
	msgDuplicateDB   = "Duplicate email already exists in system."
	msgCampaignFmt   = "Campaign %d not found."
	msgInsertedFmt   = "Inserted successfully into leads (Segment: %s)."
)

var emailPattern = regexp.MustCompile(`(?i)^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Repository defines the data access interface needed by the bulk upload
// service.
type Repository interface {
	CreateProvisionalLog(ctx context.Context, token string, total int, uploadedBy *int64) (int64, time.Time, error)
	FindCollidingEmails(ctx context.Context, emails []string) (map[string]bool, error)
	CommitBatch(ctx context.Context, uploadID int64, leads []repository.LeadInsert, details []repository.DetailInsert, uploadedBy *int64) error
	ListLogs(ctx context.Context, userID int64) ([]repository.UploadLog, error)
	ListDetails(ctx context.Context, uploadID, userID int64) ([]repository.Detail, error)
}

// CampaignReader resolves campaign references for per-row checks and segment
// classification.
type CampaignReader interface {
	FindActiveRef(ctx context.Context, id int64) (campaignrepo.Ref, error)
}

// SegmentResolver assigns a segment label to an accepted row.
type SegmentResolver interface {
	Resolve(ctx context.Context, campaignName, email, phone string) string
}

// Recomputer rebuilds campaign aggregates after the batch commits. The
// implementation decides whether that happens through the task queue or
// inline; either way failures are best-effort and only logged here.
type Recomputer interface {
	RecomputeCampaign(ctx context.Context, campaignID int64) error
}

// Service orchestrates bulk lead ingestion.
type Service struct {
	repo       Repository
	campaigns  CampaignReader
	segments   SegmentResolver
	recomputer Recomputer
	bus        events.Bus
	log        *logger.Logger
}

// New creates a new bulk upload service.
func New(repo Repository, campaigns CampaignReader, segments SegmentResolver, recomputer Recomputer, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:       repo,
		campaigns:  campaigns,
		segments:   segments,
		recomputer: recomputer,
		bus:        bus,
		log:        log,
	}
}

// Ingest processes a batch of lead rows. Rows are validated in order; a
// failing row is recorded as Invalid and never blocks the rest of the batch.
// Accepted leads, all per-row details, and the final counts commit in one
// transaction, so validRecords+invalidRecords always equals totalRecords.
func (s *Service) Ingest(ctx context.Context, req transport.BulkUploadRequest, userID int64) (transport.BulkUploadResponse, error) {
	if len(req.Leads) == 0 {
		return transport.BulkUploadResponse{}, apperr.Validation("no lead rows provided")
	}

	var uploadedBy *int64
	if userID != 0 {
		uploadedBy = &userID
	}

	token := uuid.NewString()
	uploadID, uploadedAt, err := s.repo.CreateProvisionalLog(ctx, token, len(req.Leads), uploadedBy)
	if err != nil {
		return transport.BulkUploadResponse{}, err
	}

	// The forced campaign is checked once; a miss invalidates the whole
	// batch without inserting a single lead.
	campaignNames := make(map[int64]*string)
	if req.CampaignID != nil {
		name, err := s.lookupCampaign(ctx, campaignNames, *req.CampaignID)
		if err != nil {
			return transport.BulkUploadResponse{}, err
		}
		if name == nil {
			return s.failBatch(ctx, uploadID, uploadedAt, token, req, uploadedBy, userID,
				fmt.Sprintf(msgCampaignFmt, *req.CampaignID))
		}
	}

	colliding, err := s.repo.FindCollidingEmails(ctx, collectEmails(req.Leads))
	if err != nil {
		return transport.BulkUploadResponse{}, err
	}

	var (
		inserts   []repository.LeadInsert
		details   = make([]repository.DetailInsert, 0, len(req.Leads))
		results   = make([]transport.RowResult, 0, len(req.Leads))
		seen      = make(map[string]bool)
		campaigns = make(map[int64]bool)
		valid     int
	)

	for i, row := range req.Leads {
		outcome := s.processRow(ctx, row, req.CampaignID, seen, colliding, campaignNames)

		status := repository.StatusInvalid
		if outcome.insert != nil {
			status = repository.StatusValid
			inserts = append(inserts, *outcome.insert)
			seen[strings.ToLower(outcome.insert.Email)] = true
			if outcome.insert.CampaignID != nil {
				campaigns[*outcome.insert.CampaignID] = true
			}
			valid++
		}

		details = append(details, repository.DetailInsert{
			LeadEmail:        strings.TrimSpace(row.Email),
			ValidationStatus: status,
			Message:          outcome.message,
		})
		results = append(results, transport.RowResult{
			RowNumber: i + 1,
			Email:     strings.TrimSpace(row.Email),
			Status:    status,
			Message:   outcome.message,
		})
	}

	if err := s.repo.CommitBatch(ctx, uploadID, inserts, details, uploadedBy); err != nil {
		return transport.BulkUploadResponse{}, err
	}

	s.finishBatch(ctx, uploadID, userID, len(req.Leads), valid, campaigns)

	return transport.BulkUploadResponse{
		UploadID:       uploadID,
		ReferenceToken: token,
		UploadedBy:     userID,
		UploadedAt:     uploadedAt,
		TotalRecords:   len(req.Leads),
		ValidRecords:   valid,
		InvalidRecords: len(req.Leads) - valid,
		Results:        results,
	}, nil
}

type rowOutcome struct {
	message string
	insert  *repository.LeadInsert
}

func invalidRow(message string) rowOutcome {
	return rowOutcome{message: message}
}

func (s *Service) processRow(
	ctx context.Context,
	row transport.LeadRow,
	forcedCampaign *int64,
	seen map[string]bool,
	colliding map[string]bool,
	campaignNames map[int64]*string,
) rowOutcome {
	name := strings.TrimSpace(row.Name)
	email := strings.TrimSpace(row.Email)

	if name == "" || email == "" {
		return invalidRow(msgMissingFields)
	}
	if !emailPattern.MatchString(email) {
		return invalidRow(msgInvalidEmail)
	}

	folded := strings.ToLower(email)
	if seen[folded] {
		return invalidRow(msgDuplicateFile)
	}
	if colliding[folded] {
		return invalidRow(msgDuplicateDB)
	}

	campaignID := row.CampaignID
	if forcedCampaign != nil {
		campaignID = forcedCampaign
	}

	campaignName := ""
	if campaignID != nil {
		found, err := s.lookupCampaign(ctx, campaignNames, *campaignID)
		if err != nil {
			s.log.DatabaseError("bulkupload.campaign_lookup", err)
			return invalidRow(fmt.Sprintf(msgCampaignFmt, *campaignID))
		}
		if found == nil {
			return invalidRow(fmt.Sprintf(msgCampaignFmt, *campaignID))
		}
		campaignName = *found
	}

	normalizedPhone := phone.NormalizeE164(row.Phone)
	seg := s.segments.Resolve(ctx, campaignName, email, normalizedPhone)

	insert := &repository.LeadInsert{
		Name:       name,
		Email:      email,
		CampaignID: campaignID,
		Segment:    seg,
	}
	if normalizedPhone != "" {
		insert.Phone = &normalizedPhone
	}

	return rowOutcome{
		message: fmt.Sprintf(msgInsertedFmt, seg),
		insert:  insert,
	}
}

// lookupCampaign memoizes per-batch campaign existence checks. A nil result
// with nil error means the campaign is absent or soft-deleted.
func (s *Service) lookupCampaign(ctx context.Context, cache map[int64]*string, id int64) (*string, error) {
	if name, ok := cache[id]; ok {
		return name, nil
	}

	ref, err := s.campaigns.FindActiveRef(ctx, id)
	if errors.Is(err, campaignrepo.ErrNotFound) {
		cache[id] = nil
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cache[id] = &ref.Name
	return &ref.Name, nil
}

// failBatch records every row as invalid with the given message and commits
// the audit trail. The response still carries the full counts.
func (s *Service) failBatch(ctx context.Context, uploadID int64, uploadedAt time.Time, token string, req transport.BulkUploadRequest, uploadedBy *int64, userID int64, message string) (transport.BulkUploadResponse, error) {
	details := make([]repository.DetailInsert, 0, len(req.Leads))
	results := make([]transport.RowResult, 0, len(req.Leads))
	for i, row := range req.Leads {
		email := strings.TrimSpace(row.Email)
		details = append(details, repository.DetailInsert{
			LeadEmail:        email,
			ValidationStatus: repository.StatusInvalid,
			Message:          message,
		})
		results = append(results, transport.RowResult{
			RowNumber: i + 1,
			Email:     email,
			Status:    repository.StatusInvalid,
			Message:   message,
		})
	}

	if err := s.repo.CommitBatch(ctx, uploadID, nil, details, uploadedBy); err != nil {
		return transport.BulkUploadResponse{}, err
	}

	s.finishBatch(ctx, uploadID, userID, len(req.Leads), 0, nil)

	return transport.BulkUploadResponse{
		UploadID:       uploadID,
		ReferenceToken: token,
		UploadedBy:     userID,
		UploadedAt:     uploadedAt,
		TotalRecords:   len(req.Leads),
		InvalidRecords: len(req.Leads),
		Results:        results,
	}, nil
}

// finishBatch runs the post-commit side effects: aggregate recomputes for
// every affected campaign and the completion event. None of them can fail
// the upload; the batch is already durable.
func (s *Service) finishBatch(ctx context.Context, uploadID int64, userID int64, total, valid int, campaigns map[int64]bool) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for campaignID := range campaigns {
		campaignID := campaignID
		g.Go(func() error {
			if err := s.recomputer.RecomputeCampaign(gctx, campaignID); err != nil {
				s.log.RecomputeFailed(campaignID, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	if s.bus != nil {
		s.bus.Publish(ctx, events.BulkUploadCompleted{
			BaseEvent:      events.NewBaseEvent(),
			UploadID:       uploadID,
			UploadedBy:     userID,
			TotalRecords:   total,
			ValidRecords:   valid,
			InvalidRecords: total - valid,
		})
	}

	s.log.BulkUploadCompleted(uploadID, total, valid, total-valid)
}

// ListLogs returns the upload logs created by the calling user.
func (s *Service) ListLogs(ctx context.Context, userID int64) ([]transport.UploadLogResponse, error) {
	logs, err := s.repo.ListLogs(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]transport.UploadLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, transport.UploadLogResponse{
			UploadID:       l.ID,
			ReferenceToken: l.ReferenceToken,
			UploadedAt:     l.UploadedAt,
			TotalRecords:   l.TotalRecords,
			ValidRecords:   l.ValidRecords,
			InvalidRecords: l.InvalidRecords,
		})
	}
	return out, nil
}

// ListDetails returns the per-row audit records of an upload owned by the
// calling user.
func (s *Service) ListDetails(ctx context.Context, uploadID, userID int64) ([]transport.UploadDetailResponse, error) {
	details, err := s.repo.ListDetails(ctx, uploadID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("upload not found")
		}
		return nil, err
	}

	out := make([]transport.UploadDetailResponse, 0, len(details))
	for _, d := range details {
		out = append(out, transport.UploadDetailResponse{
			DetailID:         d.ID,
			LeadEmail:        d.LeadEmail,
			ValidationStatus: d.ValidationStatus,
			Message:          d.Message,
			CreatedDate:      d.CreatedDate,
		})
	}
	return out, nil
}

func collectEmails(rows []transport.LeadRow) []string {
	emails := make([]string, 0, len(rows))
	for _, row := range rows {
		if e := strings.TrimSpace(row.Email); e != "" {
			emails = append(emails, e)
		}
	}
	return emails
}
