// Package service exposes read-only master data to the rest of the system.
// The core never mutates these catalogs; they are reference data only.
package service

import (
	"context"

	"campaign_portal_backend/internal/masterdata/repository"
	"campaign_portal_backend/internal/masterdata/transport"
)

// Repository defines the data access interface needed by the master data service.
type Repository interface {
	ListSegments(ctx context.Context) ([]repository.Segment, error)
	ListBuyers(ctx context.Context) ([]repository.ReferenceItem, error)
	ListAgencies(ctx context.Context) ([]repository.ReferenceItem, error)
	ListBrands(ctx context.Context) ([]repository.ReferenceItem, error)
	BuyerExists(ctx context.Context, id int64) (bool, error)
	AgencyExists(ctx context.Context, id int64) (bool, error)
	BrandExists(ctx context.Context, id int64) (bool, error)
}

// SegmentNameReader reads active segment names (possibly cached).
type SegmentNameReader interface {
	ListActiveSegmentNames(ctx context.Context) ([]string, error)
}

// Service handles master data reads.
type Service struct {
	repo     Repository
	segments SegmentNameReader
}

// New creates a new master data service.
func New(repo Repository, segments SegmentNameReader) *Service {
	return &Service{repo: repo, segments: segments}
}

// ActiveSegmentNames returns active segment names for segment resolution.
func (s *Service) ActiveSegmentNames(ctx context.Context) ([]string, error) {
	return s.segments.ListActiveSegmentNames(ctx)
}

// ListSegments returns the segment catalog.
func (s *Service) ListSegments(ctx context.Context) ([]transport.SegmentResponse, error) {
	segments, err := s.repo.ListSegments(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]transport.SegmentResponse, 0, len(segments))
	for _, segment := range segments {
		out = append(out, transport.SegmentResponse{
			SegmentID:   segment.ID,
			SegmentName: segment.Name,
			IsActive:    segment.IsActive,
		})
	}
	return out, nil
}

// ListBuyers returns the buyer catalog.
func (s *Service) ListBuyers(ctx context.Context) ([]transport.ReferenceResponse, error) {
	return s.listReference(ctx, s.repo.ListBuyers)
}

// ListAgencies returns the agency catalog.
func (s *Service) ListAgencies(ctx context.Context) ([]transport.ReferenceResponse, error) {
	return s.listReference(ctx, s.repo.ListAgencies)
}

// ListBrands returns the brand catalog.
func (s *Service) ListBrands(ctx context.Context) ([]transport.ReferenceResponse, error) {
	return s.listReference(ctx, s.repo.ListBrands)
}

// BuyerExists reports whether the buyer reference is valid.
func (s *Service) BuyerExists(ctx context.Context, id int64) (bool, error) {
	return s.repo.BuyerExists(ctx, id)
}

// AgencyExists reports whether the agency reference is valid.
func (s *Service) AgencyExists(ctx context.Context, id int64) (bool, error) {
	return s.repo.AgencyExists(ctx, id)
}

// BrandExists reports whether the brand reference is valid.
func (s *Service) BrandExists(ctx context.Context, id int64) (bool, error) {
	return s.repo.BrandExists(ctx, id)
}

func (s *Service) listReference(ctx context.Context, load func(context.Context) ([]repository.ReferenceItem, error)) ([]transport.ReferenceResponse, error) {
	items, err := load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]transport.ReferenceResponse, 0, len(items))
	for _, item := range items {
		out = append(out, transport.ReferenceResponse{ID: item.ID, Name: item.Name})
	}
	return out, nil
}
