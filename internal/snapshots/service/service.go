// Package service captures campaign performance snapshots using the
// rate-averaging strategy over stored engagement metrics. Snapshots are
// immutable; listing is scoped to the campaigns the caller created.
package service

import (
	"context"
	"errors"

	"campaign_portal_backend/internal/snapshots/repository"
	"campaign_portal_backend/internal/snapshots/transport"
	"campaign_portal_backend/platform/apperr"
)

// Repository defines the data access interface needed by the snapshot
// service.
type Repository interface {
	Capture(ctx context.Context, campaignID int64, createdBy *int64) (repository.Snapshot, error)
	ListByCampaign(ctx context.Context, campaignID, userID int64) ([]repository.Snapshot, error)
	ListAll(ctx context.Context, userID int64) ([]repository.Snapshot, error)
}

// Service captures and lists performance snapshots.
type Service struct {
	repo Repository
}

// New creates a new snapshot service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Capture records a snapshot of a campaign's current metric averages and
// mirrors the figures onto the campaign's cached aggregates.
func (s *Service) Capture(ctx context.Context, campaignID, userID int64) (transport.SnapshotResponse, error) {
	var createdBy *int64
	if userID != 0 {
		createdBy = &userID
	}

	snap, err := s.repo.Capture(ctx, campaignID, createdBy)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.SnapshotResponse{}, apperr.NotFound("campaign not found")
		}
		return transport.SnapshotResponse{}, err
	}
	return toResponse(snap), nil
}

// ListByCampaign returns the snapshots of one campaign owned by the caller.
func (s *Service) ListByCampaign(ctx context.Context, campaignID, userID int64) ([]transport.SnapshotResponse, error) {
	snaps, err := s.repo.ListByCampaign(ctx, campaignID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("campaign not found")
		}
		return nil, err
	}
	return toResponses(snaps), nil
}

// ListAll returns every snapshot of the caller's campaigns.
func (s *Service) ListAll(ctx context.Context, userID int64) ([]transport.SnapshotResponse, error) {
	snaps, err := s.repo.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toResponses(snaps), nil
}

func toResponse(s repository.Snapshot) transport.SnapshotResponse {
	return transport.SnapshotResponse{
		SnapshotID:     s.ID,
		CampaignID:     s.CampaignID,
		DateCaptured:   s.DateCaptured,
		TotalLeads:     s.TotalLeads,
		OpenRate:       s.OpenRate,
		ConversionRate: s.ConversionRate,
	}
}

func toResponses(snaps []repository.Snapshot) []transport.SnapshotResponse {
	out := make([]transport.SnapshotResponse, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, toResponse(s))
	}
	return out
}
