package service

import (
	"context"
	"strings"
	"testing"

	campaignrepo "campaign_portal_backend/internal/campaigns/repository"
	"campaign_portal_backend/internal/leads/repository"
	"campaign_portal_backend/internal/leads/segment"
	"campaign_portal_backend/internal/leads/transport"
	"campaign_portal_backend/platform/apperr"
	"campaign_portal_backend/platform/logger"
)

type fakeLeadRepo struct {
	leads   map[int64]repository.Lead
	nextID  int64
	deleted []int64
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{leads: make(map[int64]repository.Lead), nextID: 1}
}

func (f *fakeLeadRepo) List(ctx context.Context, params repository.ListParams) ([]repository.Lead, int, error) {
	matched := make([]repository.Lead, 0)
	for _, l := range f.leads {
		if l.IsDeleted {
			continue
		}
		if params.CampaignID != nil && (l.CampaignID == nil || *l.CampaignID != *params.CampaignID) {
			continue
		}
		if params.Segment != nil && (l.Segment == nil || *l.Segment != *params.Segment) {
			continue
		}
		if params.Search != "" &&
			!strings.Contains(strings.ToLower(l.Name), strings.ToLower(params.Search)) &&
			!strings.Contains(strings.ToLower(l.Email), strings.ToLower(params.Search)) {
			continue
		}
		matched = append(matched, l)
	}

	total := len(matched)
	if params.Offset >= total {
		return []repository.Lead{}, total, nil
	}
	end := params.Offset + params.Limit
	if end > total {
		end = total
	}
	return matched[params.Offset:end], total, nil
}

func (f *fakeLeadRepo) GetByID(ctx context.Context, id int64) (repository.Lead, error) {
	l, ok := f.leads[id]
	if !ok || l.IsDeleted {
		return repository.Lead{}, repository.ErrNotFound
	}
	return l, nil
}

func (f *fakeLeadRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	for _, l := range f.leads {
		if !l.IsDeleted && strings.EqualFold(l.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLeadRepo) Create(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	if exists, _ := f.EmailExists(ctx, params.Email); exists {
		return repository.Lead{}, repository.ErrDuplicateEmail
	}
	l := repository.Lead{
		ID:         f.nextID,
		Name:       params.Name,
		Email:      params.Email,
		Phone:      params.Phone,
		CampaignID: params.CampaignID,
		Segment:    &params.Segment,
		IsActive:   true,
	}
	f.leads[l.ID] = l
	f.nextID++
	return l, nil
}

func (f *fakeLeadRepo) Update(ctx context.Context, id int64, params repository.UpdateLeadParams) (repository.Lead, error) {
	l, ok := f.leads[id]
	if !ok || l.IsDeleted {
		return repository.Lead{}, repository.ErrNotFound
	}
	if params.Name != nil {
		l.Name = *params.Name
	}
	if params.Email != nil {
		l.Email = *params.Email
	}
	if params.Phone != nil {
		l.Phone = params.Phone
	}
	if params.ClearCampaign {
		l.CampaignID = nil
	} else if params.CampaignID != nil {
		l.CampaignID = params.CampaignID
	}
	if params.Segment != nil {
		l.Segment = params.Segment
	}
	f.leads[id] = l
	return l, nil
}

func (f *fakeLeadRepo) SoftDelete(ctx context.Context, id int64, modifiedBy *int64) error {
	l, ok := f.leads[id]
	if !ok || l.IsDeleted {
		return repository.ErrNotFound
	}
	l.IsDeleted = true
	f.leads[id] = l
	f.deleted = append(f.deleted, id)
	return nil
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
	campaignIDs []int64
}

func (r *recordingRecomputer) RecomputeCampaign(ctx context.Context, campaignID int64) error {
	r.campaignIDs = append(r.campaignIDs, campaignID)
	return nil
}

func newTestService(repo *fakeLeadRepo, campaigns fakeCampaigns, rec *recordingRecomputer) *Service {
	log := logger.New("test")
	return New(repo, campaigns, segment.NewResolver(nil, log), rec, nil, log)
}

func TestCreateResolvesSegmentFromCampaignName(t *testing.T) {
	repo := newFakeLeadRepo()
	rec := &recordingRecomputer{}
	svc := newTestService(repo, fakeCampaigns{refs: map[int64]string{7: "Summer Sale"}}, rec)

	cid := int64(7)
	lead, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name:       "Alice",
		Email:      "alice@example.net",
		CampaignID: &cid,
	}, 3)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if lead.Segment != "Seasonal" {
		t.Fatalf("expected Seasonal segment, got %q", lead.Segment)
	}
	if len(rec.campaignIDs) != 1 || rec.campaignIDs[0] != 7 {
		t.Fatalf("expected recompute for campaign 7, got %v", rec.campaignIDs)
	}
}

func TestCreateRejectsUnknownCampaign(t *testing.T) {
	svc := newTestService(newFakeLeadRepo(), fakeCampaigns{refs: map[int64]string{}}, &recordingRecomputer{})

	cid := int64(99)
	_, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name:       "Bob",
		Email:      "bob@example.net",
		CampaignID: &cid,
	}, 0)
	if apperr.GetKind(err) != apperr.KindBadRequest {
		t.Fatalf("expected bad request for unknown campaign, got %v", err)
	}
}

func TestCreateDuplicateEmailIsCaseInsensitive(t *testing.T) {
	repo := newFakeLeadRepo()
	svc := newTestService(repo, fakeCampaigns{}, &recordingRecomputer{})

	if _, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name: "Alice", Email: "Alice@Example.net",
	}, 0); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name: "Other", Email: "alice@example.net",
	}, 0)
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
}

func TestCreateWithoutCampaignFallsThroughCascade(t *testing.T) {
	repo := newFakeLeadRepo()
	rec := &recordingRecomputer{}
	svc := newTestService(repo, fakeCampaigns{}, rec)

	lead, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name:  "Carol",
		Email: "carol@gmail.com",
	}, 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if lead.Segment != "General Public" {
		t.Fatalf("expected email domain rule, got %q", lead.Segment)
	}
	if len(rec.campaignIDs) != 0 {
		t.Fatalf("no campaign, no recompute; got %v", rec.campaignIDs)
	}
}

func TestUpdateMovingLeadRecomputesBothCampaigns(t *testing.T) {
	repo := newFakeLeadRepo()
	rec := &recordingRecomputer{}
	svc := newTestService(repo, fakeCampaigns{refs: map[int64]string{1: "Plain Drive", 2: "Corporate Outreach"}}, rec)

	oldID := int64(1)
	lead, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name: "Dave", Email: "dave@example.net", CampaignID: &oldID,
	}, 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	rec.campaignIDs = nil

	newID := int64(2)
	updated, err := svc.Update(context.Background(), lead.LeadID, transport.UpdateLeadRequest{
		CampaignID: &newID,
	}, 0)
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Segment != "Corporate" {
		t.Fatalf("expected segment reassignment to Corporate, got %q", updated.Segment)
	}
	if len(rec.campaignIDs) != 2 || rec.campaignIDs[0] != 1 || rec.campaignIDs[1] != 2 {
		t.Fatalf("expected recompute for campaigns [1 2], got %v", rec.campaignIDs)
	}
}

func TestUpdateDetachesCampaignWithZero(t *testing.T) {
	repo := newFakeLeadRepo()
	rec := &recordingRecomputer{}
	svc := newTestService(repo, fakeCampaigns{refs: map[int64]string{1: "Plain Drive"}}, rec)

	cid := int64(1)
	lead, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name: "Erin", Email: "erin@example.net", CampaignID: &cid,
	}, 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	rec.campaignIDs = nil

	zero := int64(0)
	updated, err := svc.Update(context.Background(), lead.LeadID, transport.UpdateLeadRequest{
		CampaignID: &zero,
	}, 0)
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.CampaignID != nil {
		t.Fatalf("expected lead detached from campaign, got %v", *updated.CampaignID)
	}
	if len(rec.campaignIDs) != 1 || rec.campaignIDs[0] != 1 {
		t.Fatalf("expected recompute only for the old campaign, got %v", rec.campaignIDs)
	}
}

func TestDeleteRecomputesCampaign(t *testing.T) {
	repo := newFakeLeadRepo()
	rec := &recordingRecomputer{}
	svc := newTestService(repo, fakeCampaigns{refs: map[int64]string{4: "Plain Drive"}}, rec)

	cid := int64(4)
	lead, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name: "Frank", Email: "frank@example.net", CampaignID: &cid,
	}, 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	rec.campaignIDs = nil

	if err := svc.Delete(context.Background(), lead.LeadID, 0); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if len(repo.deleted) != 1 || repo.deleted[0] != lead.LeadID {
		t.Fatalf("expected soft delete of lead %d, got %v", lead.LeadID, repo.deleted)
	}
	if len(rec.campaignIDs) != 1 || rec.campaignIDs[0] != 4 {
		t.Fatalf("expected recompute for campaign 4, got %v", rec.campaignIDs)
	}

	if _, err := svc.GetByID(context.Background(), lead.LeadID); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected deleted lead to be absent, got %v", err)
	}
}

func TestDeletedLeadEmailCanBeReused(t *testing.T) {
	repo := newFakeLeadRepo()
	svc := newTestService(repo, fakeCampaigns{}, &recordingRecomputer{})

	lead, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name: "Gina", Email: "gina@example.net",
	}, 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(context.Background(), lead.LeadID, 0); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name: "Gina Again", Email: "gina@example.net",
	}, 0); err != nil {
		t.Fatalf("reusing a soft-deleted email must succeed: %v", err)
	}
}

func TestListFiltersAndPaginates(t *testing.T) {
	repo := newFakeLeadRepo()
	svc := newTestService(repo, fakeCampaigns{refs: map[int64]string{7: "Corporate Outreach"}}, &recordingRecomputer{})

	campaignID := int64(7)
	emails := []string{"ann@company.com", "ben@company.com", "cara@gmail.com"}
	names := []string{"Ann", "Ben", "Cara"}
	for i := range emails {
		req := transport.CreateLeadRequest{Name: names[i], Email: emails[i]}
		if i < 2 {
			req.CampaignID = &campaignID
		}
		if _, err := svc.Create(context.Background(), req, 0); err != nil {
			t.Fatalf("create %s: %v", emails[i], err)
		}
	}

	result, err := svc.List(context.Background(), transport.ListLeadsRequest{CampaignID: &campaignID})
	if err != nil {
		t.Fatalf("list by campaign: %v", err)
	}
	if result.Total != 2 || len(result.Items) != 2 {
		t.Fatalf("expected 2 campaign leads, got total=%d items=%d", result.Total, len(result.Items))
	}

	seg := "General Public"
	result, err = svc.List(context.Background(), transport.ListLeadsRequest{Segment: &seg})
	if err != nil {
		t.Fatalf("list by segment: %v", err)
	}
	if result.Total != 1 || result.Items[0].Email != "cara@gmail.com" {
		t.Fatalf("expected cara in General Public, got %+v", result.Items)
	}

	result, err = svc.List(context.Background(), transport.ListLeadsRequest{Search: "company.com", PageSize: 1, Page: 2})
	if err != nil {
		t.Fatalf("list by search: %v", err)
	}
	if result.Total != 2 || len(result.Items) != 1 || result.TotalPages != 2 {
		t.Fatalf("expected page 2 of 2, got total=%d items=%d pages=%d", result.Total, len(result.Items), result.TotalPages)
	}
}
