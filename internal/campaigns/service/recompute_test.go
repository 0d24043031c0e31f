package service

import (
	"context"
	"testing"

	"campaign_portal_backend/internal/campaigns/repository"
	"campaign_portal_backend/platform/apperr"
)

type fakeRepo struct {
	campaigns map[int64]repository.Campaign
	stats     map[int64]repository.LeadAggregates
	updates   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		campaigns: make(map[int64]repository.Campaign),
		stats:     make(map[int64]repository.LeadAggregates),
	}
}

func (f *fakeRepo) List(ctx context.Context) ([]repository.Campaign, error) {
	out := make([]repository.Campaign, 0, len(f.campaigns))
	for _, c := range f.campaigns {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (repository.Campaign, error) {
	c, ok := f.campaigns[id]
	if !ok || c.IsDeleted {
		return repository.Campaign{}, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeRepo) FindActiveRef(ctx context.Context, id int64) (repository.Ref, error) {
	c, err := f.GetByID(ctx, id)
	if err != nil {
		return repository.Ref{}, err
	}
	return repository.Ref{ID: c.ID, Name: c.Name}, nil
}

func (f *fakeRepo) Create(ctx context.Context, params repository.CreateCampaignParams) (repository.Campaign, error) {
	id := int64(len(f.campaigns) + 1)
	c := repository.Campaign{ID: id, Name: params.Name, Status: params.Status}
	f.campaigns[id] = c
	return c, nil
}

func (f *fakeRepo) Update(ctx context.Context, id int64, params repository.UpdateCampaignParams) (repository.Campaign, error) {
	c, err := f.GetByID(ctx, id)
	if err != nil {
		return repository.Campaign{}, err
	}
	if params.Name != nil {
		c.Name = *params.Name
	}
	if params.Status != nil {
		c.Status = *params.Status
	}
	f.campaigns[id] = c
	return c, nil
}

func (f *fakeRepo) SoftDelete(ctx context.Context, id int64) error {
	c, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	c.IsDeleted = true
	f.campaigns[id] = c
	return nil
}

func (f *fakeRepo) AggregateLeadStats(ctx context.Context, campaignID int64) (repository.LeadAggregates, error) {
	return f.stats[campaignID], nil
}

func (f *fakeRepo) UpdateAggregates(ctx context.Context, campaignID int64, totalLeads int, openRate, conversionRate float64) error {
	c, ok := f.campaigns[campaignID]
	if !ok || c.IsDeleted {
		return repository.ErrNotFound
	}
	c.TotalLeads = totalLeads
	c.OpenRate = openRate
	c.ConversionRate = conversionRate
	f.campaigns[campaignID] = c
	f.updates++
	return nil
}

type allowAllRefs struct{}

func (allowAllRefs) BuyerExists(ctx context.Context, id int64) (bool, error)  { return true, nil }
func (allowAllRefs) AgencyExists(ctx context.Context, id int64) (bool, error) { return true, nil }
func (allowAllRefs) BrandExists(ctx context.Context, id int64) (bool, error)  { return true, nil }

func TestRecomputeDerivesRatesFromLeadCounts(t *testing.T) {
	repo := newFakeRepo()
	repo.campaigns[1] = repository.Campaign{ID: 1, Name: "Summer Sale"}
	repo.stats[1] = repository.LeadAggregates{TotalLeads: 8, EngagedLeads: 6, ConvertedLeads: 2}

	svc := New(repo, allowAllRefs{}, nil)
	if err := svc.Recompute(context.Background(), 1); err != nil {
		t.Fatalf("recompute: %v", err)
	}

	c := repo.campaigns[1]
	if c.TotalLeads != 8 {
		t.Fatalf("expected totalLeads 8, got %d", c.TotalLeads)
	}
	if c.OpenRate != 75.0 {
		t.Fatalf("expected openRate 75.00, got %v", c.OpenRate)
	}
	if c.ConversionRate != 25.0 {
		t.Fatalf("expected conversionRate 25.00, got %v", c.ConversionRate)
	}
}

func TestRecomputeRoundsToTwoDecimals(t *testing.T) {
	repo := newFakeRepo()
	repo.campaigns[1] = repository.Campaign{ID: 1, Name: "Launch"}
	repo.stats[1] = repository.LeadAggregates{TotalLeads: 3, EngagedLeads: 1, ConvertedLeads: 2}

	svc := New(repo, allowAllRefs{}, nil)
	if err := svc.Recompute(context.Background(), 1); err != nil {
		t.Fatalf("recompute: %v", err)
	}

	c := repo.campaigns[1]
	if c.OpenRate != 33.33 {
		t.Fatalf("expected openRate 33.33, got %v", c.OpenRate)
	}
	if c.ConversionRate != 66.67 {
		t.Fatalf("expected conversionRate 66.67, got %v", c.ConversionRate)
	}
}

func TestRecomputeZeroLeadsYieldsZeroRates(t *testing.T) {
	repo := newFakeRepo()
	repo.campaigns[1] = repository.Campaign{ID: 1, Name: "Empty", TotalLeads: 5, OpenRate: 40, ConversionRate: 20}
	repo.stats[1] = repository.LeadAggregates{}

	svc := New(repo, allowAllRefs{}, nil)
	if err := svc.Recompute(context.Background(), 1); err != nil {
		t.Fatalf("recompute: %v", err)
	}

	c := repo.campaigns[1]
	if c.TotalLeads != 0 || c.OpenRate != 0 || c.ConversionRate != 0 {
		t.Fatalf("expected zeroed aggregates, got %d/%v/%v", c.TotalLeads, c.OpenRate, c.ConversionRate)
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	repo.campaigns[1] = repository.Campaign{ID: 1, Name: "Stable"}
	repo.stats[1] = repository.LeadAggregates{TotalLeads: 4, EngagedLeads: 2, ConvertedLeads: 1}

	svc := New(repo, allowAllRefs{}, nil)
	for i := 0; i < 3; i++ {
		if err := svc.Recompute(context.Background(), 1); err != nil {
			t.Fatalf("recompute %d: %v", i, err)
		}
	}

	c := repo.campaigns[1]
	if c.TotalLeads != 4 || c.OpenRate != 50.0 || c.ConversionRate != 25.0 {
		t.Fatalf("unexpected aggregates after repeated recompute: %d/%v/%v", c.TotalLeads, c.OpenRate, c.ConversionRate)
	}
	if repo.updates != 3 {
		t.Fatalf("expected 3 aggregate writes, got %d", repo.updates)
	}
}

func TestRecomputeUnknownCampaign(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, allowAllRefs{}, nil)

	err := svc.Recompute(context.Background(), 42)
	if err == nil {
		t.Fatal("expected error for unknown campaign")
	}
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found kind, got %v", apperr.GetKind(err))
	}
}

func TestDeleteSoftDeletesCampaign(t *testing.T) {
	repo := newFakeRepo()
	repo.campaigns[1] = repository.Campaign{ID: 1, Name: "Old"}

	svc := New(repo, allowAllRefs{}, nil)
	if err := svc.Delete(context.Background(), 1); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.GetByID(context.Background(), 1); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected soft-deleted campaign to be absent, got %v", err)
	}
}
