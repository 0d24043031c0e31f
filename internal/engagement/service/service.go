// Package service records engagement metrics for leads. Metrics are stored
// as rates only; raw counts submitted by callers are converted on write and
// then discarded. Every metric write triggers a recompute of the owning
// lead's campaign aggregates.
package service

import (
	"context"
	"errors"
	"math"

	"campaign_portal_backend/internal/engagement/repository"
	"campaign_portal_backend/internal/engagement/transport"
	leadrepo "campaign_portal_backend/internal/leads/repository"
	"campaign_portal_backend/platform/apperr"
	"campaign_portal_backend/platform/logger"
)

// Repository defines the data access interface needed by the engagement
// service.
type Repository interface {
	ListByLead(ctx context.Context, leadID int64) ([]repository.Metric, error)
	ListByCampaign(ctx context.Context, campaignID int64) ([]repository.Metric, error)
	GetByID(ctx context.Context, id int64) (repository.Metric, error)
	Create(ctx context.Context, params repository.CreateMetricParams) (repository.Metric, error)
	Update(ctx context.Context, id int64, params repository.UpdateMetricParams) (repository.Metric, error)
	SoftDelete(ctx context.Context, id int64) error
}

// LeadReader resolves the lead a metric belongs to.
type LeadReader interface {
	GetByID(ctx context.Context, id int64) (leadrepo.Lead, error)
}

// Recomputer rebuilds a campaign's cached aggregates.
type Recomputer interface {
	RecomputeCampaign(ctx context.Context, campaignID int64) error
}

// Service records and maintains engagement metrics.
type Service struct {
	repo       Repository
	leads      LeadReader
	recomputer Recomputer
	log        *logger.Logger
}

// New creates a new engagement service.
func New(repo Repository, leads LeadReader, recomputer Recomputer, log *logger.Logger) *Service {
	return &Service{repo: repo, leads: leads, recomputer: recomputer, log: log}
}

// ListByLead returns all metrics recorded for a lead.
func (s *Service) ListByLead(ctx context.Context, leadID int64) ([]transport.MetricResponse, error) {
	metrics, err := s.repo.ListByLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	return toResponses(metrics), nil
}

// ListByCampaign returns all metrics recorded against a campaign.
func (s *Service) ListByCampaign(ctx context.Context, campaignID int64) ([]transport.MetricResponse, error) {
	metrics, err := s.repo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	return toResponses(metrics), nil
}

// GetByID returns a metric by id.
func (s *Service) GetByID(ctx context.Context, id int64) (transport.MetricResponse, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.MetricResponse{}, apperr.NotFound("engagement metric not found")
		}
		return transport.MetricResponse{}, err
	}
	return toResponse(m), nil
}

// Record stores an engagement metric for a lead. The metric inherits the
// lead's campaign at write time. Counts, when present, are converted to rates
// and take precedence over any rates in the same request.
func (s *Service) Record(ctx context.Context, req transport.RecordMetricRequest, createdBy int64) (transport.MetricResponse, error) {
	lead, err := s.leads.GetByID(ctx, req.LeadID)
	if err != nil {
		if errors.Is(err, leadrepo.ErrNotFound) {
			return transport.MetricResponse{}, apperr.BadRequest("lead not found")
		}
		return transport.MetricResponse{}, err
	}

	openRate, clickRate, convRate := resolveRates(req)

	params := repository.CreateMetricParams{
		LeadID:         lead.ID,
		CampaignID:     lead.CampaignID,
		OpenRate:       openRate,
		ClickRate:      clickRate,
		ConversionRate: convRate,
	}
	if createdBy != 0 {
		params.CreatedByUserID = &createdBy
	}

	m, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.MetricResponse{}, err
	}

	s.recompute(ctx, m.CampaignID)
	return toResponse(m), nil
}

// Update partially updates a metric and recomputes the affected campaign.
// When counts are supplied they override the stored rates entirely, exactly
// as on Record: emailsSent of 0 zeroes all three rates.
func (s *Service) Update(ctx context.Context, id int64, req transport.UpdateMetricRequest, modifiedBy int64) (transport.MetricResponse, error) {
	var params repository.UpdateMetricParams
	if req.EmailsSent != nil {
		sent := *req.EmailsSent
		openRate := rateFromCounts(req.EmailsOpened, sent)
		clickRate := rateFromCounts(req.Clicks, sent)
		convRate := rateFromCounts(req.Conversions, sent)
		params.OpenRate = &openRate
		params.ClickRate = &clickRate
		params.ConversionRate = &convRate
	} else {
		params.OpenRate = roundPtr(req.OpenRate)
		params.ClickRate = roundPtr(req.ClickRate)
		params.ConversionRate = roundPtr(req.ConversionRate)
	}
	if modifiedBy != 0 {
		params.LastModifiedUserID = &modifiedBy
	}

	m, err := s.repo.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.MetricResponse{}, apperr.NotFound("engagement metric not found")
		}
		return transport.MetricResponse{}, err
	}

	s.recompute(ctx, m.CampaignID)
	return toResponse(m), nil
}

// Delete soft-deletes a metric and recomputes the affected campaign.
func (s *Service) Delete(ctx context.Context, id int64) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("engagement metric not found")
		}
		return err
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("engagement metric not found")
		}
		return err
	}

	s.recompute(ctx, m.CampaignID)
	return nil
}

// resolveRates derives the stored rates from a request. Counts mode is
// active when emailsSent is present: each rate becomes
// round(count/sent*100, 2), or 0 when sent is 0. Otherwise the explicit
// rates are used, defaulting to 0.
func resolveRates(req transport.RecordMetricRequest) (openRate, clickRate, convRate float64) {
	if req.EmailsSent != nil {
		sent := *req.EmailsSent
		openRate = rateFromCounts(req.EmailsOpened, sent)
		clickRate = rateFromCounts(req.Clicks, sent)
		convRate = rateFromCounts(req.Conversions, sent)
		return openRate, clickRate, convRate
	}

	return deref(req.OpenRate), deref(req.ClickRate), deref(req.ConversionRate)
}

func rateFromCounts(count *int, sent int) float64 {
	if count == nil || sent <= 0 {
		return 0
	}
	return round2(float64(*count) / float64(sent) * 100)
}

func (s *Service) recompute(ctx context.Context, campaignID *int64) {
	if campaignID == nil || s.recomputer == nil {
		return
	}
	if err := s.recomputer.RecomputeCampaign(ctx, *campaignID); err != nil {
		s.log.RecomputeFailed(*campaignID, err)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := round2(*v)
	return &r
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return round2(*v)
}

func toResponse(m repository.Metric) transport.MetricResponse {
	return transport.MetricResponse{
		MetricID:       m.ID,
		LeadID:         m.LeadID,
		CampaignID:     m.CampaignID,
		OpenRate:       m.OpenRate,
		ClickRate:      m.ClickRate,
		ConversionRate: m.ConversionRate,
		CreatedDate:    m.CreatedDate,
	}
}

func toResponses(metrics []repository.Metric) []transport.MetricResponse {
	out := make([]transport.MetricResponse, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, toResponse(m))
	}
	return out
}
