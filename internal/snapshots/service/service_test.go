package service

import (
	"context"
	"testing"
	"time"

	"campaign_portal_backend/internal/snapshots/repository"
	"campaign_portal_backend/platform/apperr"
)

type fakeSnapshotRepo struct {
	campaigns map[int64]int64 // campaign id -> creator user id
	snapshots []repository.Snapshot
	nextID    int64
	avgOpen   float64
	avgConv   float64
	metrics   int
}

func (f *fakeSnapshotRepo) Capture(ctx context.Context, campaignID int64, createdBy *int64) (repository.Snapshot, error) {
	if _, ok := f.campaigns[campaignID]; !ok {
		return repository.Snapshot{}, repository.ErrNotFound
	}
	f.nextID++
	snap := repository.Snapshot{
		ID:             f.nextID,
		CampaignID:     campaignID,
		DateCaptured:   time.Now(),
		TotalLeads:     f.metrics,
		OpenRate:       f.avgOpen,
		ConversionRate: f.avgConv,
	}
	f.snapshots = append(f.snapshots, snap)
	return snap, nil
}

func (f *fakeSnapshotRepo) ListByCampaign(ctx context.Context, campaignID, userID int64) ([]repository.Snapshot, error) {
	creator, ok := f.campaigns[campaignID]
	if !ok || creator != userID {
		return nil, repository.ErrNotFound
	}
	out := make([]repository.Snapshot, 0)
	for _, s := range f.snapshots {
		if s.CampaignID == campaignID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSnapshotRepo) ListAll(ctx context.Context, userID int64) ([]repository.Snapshot, error) {
	out := make([]repository.Snapshot, 0)
	for _, s := range f.snapshots {
		if f.campaigns[s.CampaignID] == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func TestCaptureReturnsAveragedFigures(t *testing.T) {
	repo := &fakeSnapshotRepo{
		campaigns: map[int64]int64{1: 3},
		metrics:   4,
		avgOpen:   42.5,
		avgConv:   12.25,
	}
	svc := New(repo)

	snap, err := svc.Capture(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}

	if snap.TotalLeads != 4 || snap.OpenRate != 42.5 || snap.ConversionRate != 12.25 {
		t.Fatalf("unexpected snapshot figures: %+v", snap)
	}
}

func TestCaptureUnknownCampaign(t *testing.T) {
	svc := New(&fakeSnapshotRepo{campaigns: map[int64]int64{}})

	_, err := svc.Capture(context.Background(), 42, 1)
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListByCampaignScopedToCreator(t *testing.T) {
	repo := &fakeSnapshotRepo{campaigns: map[int64]int64{1: 3}}
	svc := New(repo)

	if _, err := svc.Capture(context.Background(), 1, 3); err != nil {
		t.Fatalf("capture: %v", err)
	}

	if _, err := svc.ListByCampaign(context.Background(), 1, 99); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("another user's campaign must look absent, got %v", err)
	}

	snaps, err := svc.ListByCampaign(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(snaps))
	}
}
