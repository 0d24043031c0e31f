package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"campaign_portal_backend/internal/bulkupload/repository"
	"campaign_portal_backend/internal/bulkupload/transport"
	campaignrepo "campaign_portal_backend/internal/campaigns/repository"
	"campaign_portal_backend/internal/leads/segment"
	"campaign_portal_backend/platform/apperr"
	"campaign_portal_backend/platform/logger"
)

type committedBatch struct {
	uploadID int64
	leads    []repository.LeadInsert
	details  []repository.DetailInsert
}

type fakeUploadRepo struct {
	existingEmails map[string]bool
	nextUploadID   int64
	committed      []committedBatch
	logs           []repository.UploadLog
}

func newFakeUploadRepo() *fakeUploadRepo {
	return &fakeUploadRepo{existingEmails: make(map[string]bool), nextUploadID: 1}
}

var fakeUploadedAt = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func (f *fakeUploadRepo) CreateProvisionalLog(ctx context.Context, token string, total int, uploadedBy *int64) (int64, time.Time, error) {
	id := f.nextUploadID
	f.nextUploadID++
	return id, fakeUploadedAt, nil
}

func (f *fakeUploadRepo) FindCollidingEmails(ctx context.Context, emails []string) (map[string]bool, error) {
	colliding := make(map[string]bool)
	for _, e := range emails {
		if f.existingEmails[strings.ToLower(e)] {
			colliding[strings.ToLower(e)] = true
		}
	}
	return colliding, nil
}

func (f *fakeUploadRepo) CommitBatch(ctx context.Context, uploadID int64, leads []repository.LeadInsert, details []repository.DetailInsert, uploadedBy *int64) error {
	f.committed = append(f.committed, committedBatch{uploadID: uploadID, leads: leads, details: details})
	return nil
}

func (f *fakeUploadRepo) ListLogs(ctx context.Context, userID int64) ([]repository.UploadLog, error) {
	return f.logs, nil
}

func (f *fakeUploadRepo) ListDetails(ctx context.Context, uploadID, userID int64) ([]repository.Detail, error) {
	return nil, repository.ErrNotFound
}

type fakeCampaigns struct {
	refs map[int64]string
}

func (f fakeCampaigns) FindActiveRef(ctx context.Context, id int64) (campaignrepo.Ref, error) {
	name, ok := f.refs[id]
	if !ok {
		return campaignrepo.Ref{}, campaignrepo.ErrNotFound
	}
	return campaignrepo.Ref{ID: id, Name: name}, nil
}

type recordingRecomputer struct {
	mu          sync.Mutex
	campaignIDs []int64
}

func (r *recordingRecomputer) RecomputeCampaign(ctx context.Context, campaignID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.campaignIDs = append(r.campaignIDs, campaignID)
	return nil
}

func newTestService(repo *fakeUploadRepo, campaigns fakeCampaigns, rec *recordingRecomputer) *Service {
	log := logger.New("test")
	return New(repo, campaigns, segment.NewResolver(nil, log), rec, nil, log)
}

func assertCounts(t *testing.T, resp transport.BulkUploadResponse) {
	t.Helper()
	if resp.ValidRecords+resp.InvalidRecords != resp.TotalRecords {
		t.Fatalf("count invariant broken: %d valid + %d invalid != %d total",
			resp.ValidRecords, resp.InvalidRecords, resp.TotalRecords)
	}
	if len(resp.Results) != resp.TotalRecords {
		t.Fatalf("expected %d row results, got %d", resp.TotalRecords, len(resp.Results))
	}
}

func TestIngestEmptyBatchRejected(t *testing.T) {
	svc := newTestService(newFakeUploadRepo(), fakeCampaigns{}, &recordingRecomputer{})

	_, err := svc.Ingest(context.Background(), transport.BulkUploadRequest{}, 1)
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for empty batch, got %v", err)
	}
}

func TestIngestMixedBatch(t *testing.T) {
	repo := newFakeUploadRepo()
	repo.existingEmails["known@example.net"] = true
	rec := &recordingRecomputer{}
	svc := newTestService(repo, fakeCampaigns{refs: map[int64]string{7: "Summer Sale"}}, rec)

	cid := int64(7)
	missing := int64(99)
	resp, err := svc.Ingest(context.Background(), transport.BulkUploadRequest{
		Leads: []transport.LeadRow{
			{Name: "Alice", Email: "alice@example.net", CampaignID: &cid},
			{Name: "", Email: "noname@example.net"},
			{Name: "Bob", Email: "not-an-email"},
			{Name: "Carol", Email: "alice@example.net"},
			{Name: "Dave", Email: "known@example.net"},
			{Name: "Erin", Email: "erin@example.net", CampaignID: &missing},
		},
	}, 3)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	assertCounts(t, resp)
	if resp.ValidRecords != 1 || resp.InvalidRecords != 5 {
		t.Fatalf("expected 1 valid / 5 invalid, got %d/%d", resp.ValidRecords, resp.InvalidRecords)
	}
	if resp.UploadedBy != 3 {
		t.Fatalf("expected uploadedBy 3, got %d", resp.UploadedBy)
	}
	if !resp.UploadedAt.Equal(fakeUploadedAt) {
		t.Fatalf("expected uploadedAt %v, got %v", fakeUploadedAt, resp.UploadedAt)
	}

	wantMessages := []string{
		"Inserted successfully into leads (Segment: Seasonal).",
		"Missing required fields (Name or Email).",
		"Invalid email format.",
		"Duplicate email in uploaded file.",
		"Duplicate email already exists in system.",
		"Campaign 99 not found.",
	}
	for i, want := range wantMessages {
		if resp.Results[i].Message != want {
			t.Fatalf("row %d: message %q, want %q", i+1, resp.Results[i].Message, want)
		}
	}

	if len(repo.committed) != 1 {
		t.Fatalf("expected one committed batch, got %d", len(repo.committed))
	}
	batch := repo.committed[0]
	if len(batch.leads) != 1 || batch.leads[0].Email != "alice@example.net" {
		t.Fatalf("expected only alice inserted, got %+v", batch.leads)
	}
	if len(batch.details) != 6 {
		t.Fatalf("expected 6 detail rows, got %d", len(batch.details))
	}

	if len(rec.campaignIDs) != 1 || rec.campaignIDs[0] != 7 {
		t.Fatalf("expected recompute for campaign 7 only, got %v", rec.campaignIDs)
	}
}

func TestIngestForcedCampaignMissInvalidatesWholeBatch(t *testing.T) {
	repo := newFakeUploadRepo()
	rec := &recordingRecomputer{}
	svc := newTestService(repo, fakeCampaigns{refs: map[int64]string{}}, rec)

	forced := int64(99)
	resp, err := svc.Ingest(context.Background(), transport.BulkUploadRequest{
		CampaignID: &forced,
		Leads: []transport.LeadRow{
			{Name: "Alice", Email: "alice@example.net"},
			{Name: "Bob", Email: "bob@example.net"},
		},
	}, 1)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	assertCounts(t, resp)
	if resp.ValidRecords != 0 || resp.InvalidRecords != 2 {
		t.Fatalf("expected all rows invalid, got %d/%d", resp.ValidRecords, resp.InvalidRecords)
	}
	if resp.UploadedBy != 1 || !resp.UploadedAt.Equal(fakeUploadedAt) {
		t.Fatalf("failed batch must still report uploader and timestamp, got %d / %v",
			resp.UploadedBy, resp.UploadedAt)
	}
	for _, r := range resp.Results {
		if r.Message != "Campaign 99 not found." {
			t.Fatalf("expected forced-campaign message, got %q", r.Message)
		}
	}

	if len(repo.committed) != 1 || len(repo.committed[0].leads) != 0 {
		t.Fatalf("no leads may be inserted on a forced-campaign miss")
	}
	if len(rec.campaignIDs) != 0 {
		t.Fatalf("no recompute on a forced-campaign miss, got %v", rec.campaignIDs)
	}
}

func TestIngestForcedCampaignOverridesRowCampaigns(t *testing.T) {
	repo := newFakeUploadRepo()
	rec := &recordingRecomputer{}
	svc := newTestService(repo, fakeCampaigns{refs: map[int64]string{1: "Corporate Outreach", 2: "Summer Sale"}}, rec)

	forced := int64(2)
	rowCampaign := int64(1)
	resp, err := svc.Ingest(context.Background(), transport.BulkUploadRequest{
		CampaignID: &forced,
		Leads: []transport.LeadRow{
			{Name: "Alice", Email: "alice@example.net", CampaignID: &rowCampaign},
		},
	}, 1)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	assertCounts(t, resp)
	lead := repo.committed[0].leads[0]
	if lead.CampaignID == nil || *lead.CampaignID != 2 {
		t.Fatalf("forced campaign must override the row campaign, got %v", lead.CampaignID)
	}
	if lead.Segment != "Seasonal" {
		t.Fatalf("segment must follow the forced campaign name, got %q", lead.Segment)
	}
}

func TestIngestDuplicateInFileDetectedCaseInsensitively(t *testing.T) {
	repo := newFakeUploadRepo()
	svc := newTestService(repo, fakeCampaigns{}, &recordingRecomputer{})

	resp, err := svc.Ingest(context.Background(), transport.BulkUploadRequest{
		Leads: []transport.LeadRow{
			{Name: "Alice", Email: "Alice@Example.net"},
			{Name: "Alice Again", Email: "alice@example.net"},
		},
	}, 1)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	assertCounts(t, resp)
	if resp.Results[1].Message != "Duplicate email in uploaded file." {
		t.Fatalf("expected in-file duplicate, got %q", resp.Results[1].Message)
	}
}

func TestIngestInvalidRowDoesNotClaimEmail(t *testing.T) {
	// A row rejected for a missing name must not block a later valid row
	// with the same email.
	repo := newFakeUploadRepo()
	svc := newTestService(repo, fakeCampaigns{}, &recordingRecomputer{})

	resp, err := svc.Ingest(context.Background(), transport.BulkUploadRequest{
		Leads: []transport.LeadRow{
			{Name: "", Email: "alice@example.net"},
			{Name: "Alice", Email: "alice@example.net"},
		},
	}, 1)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	assertCounts(t, resp)
	if resp.Results[0].Status != repository.StatusInvalid {
		t.Fatalf("first row must be invalid")
	}
	if resp.Results[1].Status != repository.StatusValid {
		t.Fatalf("second row must be valid, got %q: %q", resp.Results[1].Status, resp.Results[1].Message)
	}
}

func TestIngestCampaignWithEmptyNameIsNotAMiss(t *testing.T) {
	// An existing campaign whose name happens to be empty must not be
	// confused with an absent one by the per-batch lookup memo.
	repo := newFakeUploadRepo()
	rec := &recordingRecomputer{}
	svc := newTestService(repo, fakeCampaigns{refs: map[int64]string{5: ""}}, rec)

	cid := int64(5)
	resp, err := svc.Ingest(context.Background(), transport.BulkUploadRequest{
		Leads: []transport.LeadRow{
			{Name: "Alice", Email: "alice@example.net", CampaignID: &cid},
			{Name: "Bob", Email: "bob@example.net", CampaignID: &cid},
		},
	}, 1)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	assertCounts(t, resp)
	if resp.ValidRecords != 2 {
		t.Fatalf("expected both rows valid, got %d valid: %+v", resp.ValidRecords, resp.Results)
	}
	if len(rec.campaignIDs) != 1 || rec.campaignIDs[0] != 5 {
		t.Fatalf("expected recompute for campaign 5, got %v", rec.campaignIDs)
	}
}

func TestIngestSegmentsFromEmailAndPhone(t *testing.T) {
	repo := newFakeUploadRepo()
	svc := newTestService(repo, fakeCampaigns{}, &recordingRecomputer{})

	resp, err := svc.Ingest(context.Background(), transport.BulkUploadRequest{
		Leads: []transport.LeadRow{
			{Name: "Alice", Email: "alice@company.com"},
			{Name: "Bob", Email: "bob@example.net", Phone: "+919876543210"},
			{Name: "Carol", Email: "carol@example.net"},
		},
	}, 1)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	assertCounts(t, resp)
	leads := repo.committed[0].leads
	if leads[0].Segment != "Corporate Leads" {
		t.Fatalf("expected Corporate Leads, got %q", leads[0].Segment)
	}
	if leads[1].Segment != "India Leads" {
		t.Fatalf("expected India Leads, got %q", leads[1].Segment)
	}
	if leads[2].Segment != segment.Fallback {
		t.Fatalf("expected fallback segment, got %q", leads[2].Segment)
	}
}
