// Package service handles lead lifecycle operations: creation with segment
// resolution, updates with segment reassignment, and soft deletion with a
// cascading metric soft delete. Every write that can change a campaign's
// aggregates triggers a recompute for the affected campaigns.
package service

import (
	"context"
	"errors"
	"strings"

	campaignrepo "campaign_portal_backend/internal/campaigns/repository"
	"campaign_portal_backend/internal/events"
	"campaign_portal_backend/internal/leads/repository"
	"campaign_portal_backend/internal/leads/transport"
	"campaign_portal_backend/platform/apperr"
	"campaign_portal_backend/platform/logger"
	"campaign_portal_backend/platform/phone"
)

// Repository defines the data access interface needed by the lead service.
type Repository interface {
	List(ctx context.Context, params repository.ListParams) ([]repository.Lead, int, error)
	GetByID(ctx context.Context, id int64) (repository.Lead, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error)
	Update(ctx context.Context, id int64, params repository.UpdateLeadParams) (repository.Lead, error)
	SoftDelete(ctx context.Context, id int64, modifiedBy *int64) error
}

// CampaignReader resolves campaign references for validation and segment
// classification.
type CampaignReader interface {
	FindActiveRef(ctx context.Context, id int64) (campaignrepo.Ref, error)
}

// SegmentResolver assigns a segment label to a lead.
type SegmentResolver interface {
	Resolve(ctx context.Context, campaignName, email, phone string) string
}

// Recomputer rebuilds a campaign's cached aggregates. Recompute failures
// after a committed lead write are logged, not returned: the cache is
// re-derivable and must not fail the lead operation.
type Recomputer interface {
	RecomputeCampaign(ctx context.Context, campaignID int64) error
}

// Service handles lead operations.
type Service struct {
	repo       Repository
	campaigns  CampaignReader
	segments   SegmentResolver
	recomputer Recomputer
	bus        events.Bus
	log        *logger.Logger
}

// New creates a new lead service.
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

// List returns a page of non-deleted leads filtered by campaign, segment, and
// free-text search.
func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	leads, total, err := s.repo.List(ctx, repository.ListParams{
		CampaignID: req.CampaignID,
		Segment:    req.Segment,
		Search:     strings.TrimSpace(req.Search),
		Offset:     (req.Page - 1) * req.PageSize,
		Limit:      req.PageSize,
	})
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, l := range leads {
		items = append(items, toResponse(l))
	}

	return transport.LeadListResponse{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: (total + req.PageSize - 1) / req.PageSize,
	}, nil
}

// GetByID returns a lead by id.
func (s *Service) GetByID(ctx context.Context, id int64) (transport.LeadResponse, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}
	return toResponse(l), nil
}

// Create creates a lead. The email must not collide, case-insensitively, with
// any non-deleted lead. The segment label is resolved from the campaign name,
// email domain, and phone prefix before the row is written.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest, createdBy int64) (transport.LeadResponse, error) {
	email := strings.TrimSpace(req.Email)

	campaignName := ""
	if req.CampaignID != nil {
		ref, err := s.campaigns.FindActiveRef(ctx, *req.CampaignID)
		if err != nil {
			if errors.Is(err, campaignrepo.ErrNotFound) {
				return transport.LeadResponse{}, apperr.BadRequest("campaign not found")
			}
			return transport.LeadResponse{}, err
		}
		campaignName = ref.Name
	}

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if exists {
		return transport.LeadResponse{}, apperr.Conflict("a lead with this email already exists")
	}

	normalizedPhone := phone.NormalizeE164(req.Phone)
	seg := s.segments.Resolve(ctx, campaignName, email, normalizedPhone)

	params := repository.CreateLeadParams{
		Name:       strings.TrimSpace(req.Name),
		Email:      email,
		CampaignID: req.CampaignID,
		Segment:    seg,
	}
	if normalizedPhone != "" {
		params.Phone = &normalizedPhone
	}
	if createdBy != 0 {
		params.CreatedByUserID = &createdBy
	}

	l, err := s.repo.Create(ctx, params)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return transport.LeadResponse{}, apperr.Conflict("a lead with this email already exists")
		}
		return transport.LeadResponse{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.LeadCreated{
			BaseEvent:  events.NewBaseEvent(),
			LeadID:     l.ID,
			CampaignID: l.CampaignID,
			Email:      l.Email,
			Segment:    seg,
		})
	}

	s.recompute(ctx, l.CampaignID)

	return toResponse(l), nil
}

// Update partially updates a lead. When the campaign, email, or phone
// changes, the segment is re-resolved against the new values. Both the old
// and new campaign get their aggregates recomputed, so moving a lead never
// leaves either side stale.
func (s *Service) Update(ctx context.Context, id int64, req transport.UpdateLeadRequest, modifiedBy int64) (transport.LeadResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	params := repository.UpdateLeadParams{}
	if modifiedBy != 0 {
		params.LastModifiedUserID = &modifiedBy
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		params.Name = &name
	}

	email := current.Email
	if req.Email != nil {
		email = strings.TrimSpace(*req.Email)
		if !strings.EqualFold(email, current.Email) {
			exists, err := s.repo.EmailExists(ctx, email)
			if err != nil {
				return transport.LeadResponse{}, err
			}
			if exists {
				return transport.LeadResponse{}, apperr.Conflict("a lead with this email already exists")
			}
		}
		params.Email = &email
	}

	phoneValue := ""
	if current.Phone != nil {
		phoneValue = *current.Phone
	}
	if req.Phone != nil {
		phoneValue = phone.NormalizeE164(*req.Phone)
		params.Phone = &phoneValue
	}

	oldCampaignID := current.CampaignID
	newCampaignID := current.CampaignID
	campaignName := ""
	if req.CampaignID != nil {
		if *req.CampaignID == 0 {
			params.ClearCampaign = true
			newCampaignID = nil
		} else {
			ref, err := s.campaigns.FindActiveRef(ctx, *req.CampaignID)
			if err != nil {
				if errors.Is(err, campaignrepo.ErrNotFound) {
					return transport.LeadResponse{}, apperr.BadRequest("campaign not found")
				}
				return transport.LeadResponse{}, err
			}
			campaignName = ref.Name
			params.CampaignID = req.CampaignID
			newCampaignID = req.CampaignID
		}
	} else if current.CampaignID != nil {
		ref, err := s.campaigns.FindActiveRef(ctx, *current.CampaignID)
		if err == nil {
			campaignName = ref.Name
		} else if !errors.Is(err, campaignrepo.ErrNotFound) {
			return transport.LeadResponse{}, err
		}
	}

	if req.Email != nil || req.Phone != nil || req.CampaignID != nil {
		seg := s.segments.Resolve(ctx, campaignName, email, phoneValue)
		params.Segment = &seg
	}

	l, err := s.repo.Update(ctx, id, params)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		case errors.Is(err, repository.ErrDuplicateEmail):
			return transport.LeadResponse{}, apperr.Conflict("a lead with this email already exists")
		}
		return transport.LeadResponse{}, err
	}

	s.recompute(ctx, oldCampaignID)
	if !sameCampaign(oldCampaignID, newCampaignID) {
		s.recompute(ctx, newCampaignID)
	}

	return toResponse(l), nil
}

// Delete soft-deletes a lead along with its engagement metrics, then
// recomputes the campaign the lead belonged to.
func (s *Service) Delete(ctx context.Context, id int64, deletedBy int64) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("lead not found")
		}
		return err
	}

	var modifiedBy *int64
	if deletedBy != 0 {
		modifiedBy = &deletedBy
	}

	if err := s.repo.SoftDelete(ctx, id, modifiedBy); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("lead not found")
		}
		return err
	}

	s.recompute(ctx, current.CampaignID)
	return nil
}

func (s *Service) recompute(ctx context.Context, campaignID *int64) {
	if campaignID == nil || s.recomputer == nil {
		return
	}
	if err := s.recomputer.RecomputeCampaign(ctx, *campaignID); err != nil {
		s.log.RecomputeFailed(*campaignID, err)
	}
}

func sameCampaign(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func toResponse(l repository.Lead) transport.LeadResponse {
	resp := transport.LeadResponse{
		LeadID:      l.ID,
		Name:        l.Name,
		Email:       l.Email,
		CampaignID:  l.CampaignID,
		CreatedDate: l.CreatedDate,
	}
	if l.Phone != nil {
		resp.Phone = *l.Phone
	}
	if l.Segment != nil {
		resp.Segment = *l.Segment
	}
	return resp
}
