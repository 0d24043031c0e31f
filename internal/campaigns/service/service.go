// Package service handles campaign lifecycle operations and owns the
// aggregate metrics recomputer. The campaign's totalLeads/openRate/
// conversionRate columns are a derived cache: nothing else in the system may
// write them.
package service

import (
	"context"
	"errors"

	"campaign_portal_backend/internal/campaigns/repository"
	"campaign_portal_backend/internal/campaigns/transport"
	"campaign_portal_backend/internal/events"
	"campaign_portal_backend/platform/apperr"
)

// Repository defines the data access interface needed by the campaign service.
type Repository interface {
	List(ctx context.Context) ([]repository.Campaign, error)
	GetByID(ctx context.Context, id int64) (repository.Campaign, error)
	FindActiveRef(ctx context.Context, id int64) (repository.Ref, error)
	Create(ctx context.Context, params repository.CreateCampaignParams) (repository.Campaign, error)
	Update(ctx context.Context, id int64, params repository.UpdateCampaignParams) (repository.Campaign, error)
	SoftDelete(ctx context.Context, id int64) error
	AggregateLeadStats(ctx context.Context, campaignID int64) (repository.LeadAggregates, error)
	UpdateAggregates(ctx context.Context, campaignID int64, totalLeads int, openRate, conversionRate float64) error
}

// ReferenceChecker validates buyer/agency/brand references against master data.
type ReferenceChecker interface {
	BuyerExists(ctx context.Context, id int64) (bool, error)
	AgencyExists(ctx context.Context, id int64) (bool, error)
	BrandExists(ctx context.Context, id int64) (bool, error)
}

// Service handles campaign operations.
type Service struct {
	repo Repository
	refs ReferenceChecker
	bus  events.Bus
}

// New creates a new campaign service.
func New(repo Repository, refs ReferenceChecker, bus events.Bus) *Service {
	return &Service{repo: repo, refs: refs, bus: bus}
}

// List returns all non-deleted campaigns.
func (s *Service) List(ctx context.Context) ([]transport.CampaignResponse, error) {
	campaigns, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]transport.CampaignResponse, 0, len(campaigns))
	for _, c := range campaigns {
		out = append(out, toResponse(c))
	}
	return out, nil
}

// GetByID returns a campaign by id.
func (s *Service) GetByID(ctx context.Context, id int64) (transport.CampaignResponse, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.CampaignResponse{}, apperr.NotFound("campaign not found")
		}
		return transport.CampaignResponse{}, err
	}
	return toResponse(c), nil
}

// Exists reports whether a non-deleted campaign with the given id exists.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := s.repo.FindActiveRef(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FindActiveRef returns the id and name of a non-deleted campaign.
// Used by the leads and bulk upload modules for reference checks and
// segment resolution.
func (s *Service) FindActiveRef(ctx context.Context, id int64) (repository.Ref, error) {
	return s.repo.FindActiveRef(ctx, id)
}

// Create creates a campaign after validating its master data references,
// then runs an initial recompute so the aggregate cache starts consistent.
func (s *Service) Create(ctx context.Context, req transport.CreateCampaignRequest, createdBy int64) (transport.CampaignResponse, error) {
	if err := s.checkReferences(ctx, req.BuyerID, req.AgencyID, req.BrandID); err != nil {
		return transport.CampaignResponse{}, err
	}

	status := req.Status
	if status == "" {
		status = "Active"
	}

	params := repository.CreateCampaignParams{
		Name:      req.CampaignName,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    status,
		BuyerID:   req.BuyerID,
		AgencyID:  req.AgencyID,
		BrandID:   req.BrandID,
	}
	if createdBy != 0 {
		params.CreatedByUserID = &createdBy
	}

	c, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.CampaignResponse{}, err
	}

	if err := s.Recompute(ctx, c.ID); err != nil {
		return transport.CampaignResponse{}, err
	}

	return s.GetByID(ctx, c.ID)
}

// Update partially updates a campaign. A request with no fields set returns
// the current state unchanged.
func (s *Service) Update(ctx context.Context, id int64, req transport.UpdateCampaignRequest, modifiedBy int64) (transport.CampaignResponse, error) {
	if req.CampaignName == nil && req.StartDate == nil && req.EndDate == nil &&
		req.Status == nil && req.BuyerID == nil && req.AgencyID == nil && req.BrandID == nil {
		return s.GetByID(ctx, id)
	}

	if err := s.checkReferences(ctx, req.BuyerID, req.AgencyID, req.BrandID); err != nil {
		return transport.CampaignResponse{}, err
	}

	params := repository.UpdateCampaignParams{
		Name:      req.CampaignName,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    req.Status,
		BuyerID:   req.BuyerID,
		AgencyID:  req.AgencyID,
		BrandID:   req.BrandID,
	}
	if modifiedBy != 0 {
		params.LastModifiedUserID = &modifiedBy
	}

	c, err := s.repo.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.CampaignResponse{}, apperr.NotFound("campaign not found")
		}
		return transport.CampaignResponse{}, err
	}

	return toResponse(c), nil
}

// Delete soft-deletes a campaign. Leads keep their campaign reference;
// the foreign key nulls it only on hard removal.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.repo.SoftDelete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("campaign not found")
	}
	return err
}

func (s *Service) checkReferences(ctx context.Context, buyerID, agencyID, brandID *int64) error {
	if buyerID != nil {
		ok, err := s.refs.BuyerExists(ctx, *buyerID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.BadRequest("invalid buyerId provided")
		}
	}
	if agencyID != nil {
		ok, err := s.refs.AgencyExists(ctx, *agencyID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.BadRequest("invalid agencyId provided")
		}
	}
	if brandID != nil {
		ok, err := s.refs.BrandExists(ctx, *brandID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.BadRequest("invalid brandId provided")
		}
	}
	return nil
}

func toResponse(c repository.Campaign) transport.CampaignResponse {
	return transport.CampaignResponse{
		CampaignID:     c.ID,
		CampaignName:   c.Name,
		StartDate:      c.StartDate,
		EndDate:        c.EndDate,
		Status:         c.Status,
		BuyerID:        c.BuyerID,
		AgencyID:       c.AgencyID,
		BrandID:        c.BrandID,
		TotalLeads:     c.TotalLeads,
		OpenRate:       c.OpenRate,
		ConversionRate: c.ConversionRate,
		CreatedDate:    c.CreatedDate,
	}
}
