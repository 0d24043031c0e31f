// Package transport defines request/response DTOs for the campaigns module.
package transport

import "time"

// CreateCampaignRequest creates a new campaign.
type CreateCampaignRequest struct {
	CampaignName string     `json:"campaignName" validate:"required,min=1,max=200"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	Status       string     `json:"status" validate:"omitempty,oneof=Active Paused Completed Draft"`
	BuyerID      *int64     `json:"buyerId"`
	AgencyID     *int64     `json:"agencyId"`
	BrandID      *int64     `json:"brandId"`
}

// UpdateCampaignRequest partially updates a campaign. Nil fields are ignored.
// The derived aggregate fields cannot be set directly; they are owned by the
// metrics recomputer.
type UpdateCampaignRequest struct {
	CampaignName *string    `json:"campaignName" validate:"omitempty,min=1,max=200"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	Status       *string    `json:"status" validate:"omitempty,oneof=Active Paused Completed Draft"`
	BuyerID      *int64     `json:"buyerId"`
	AgencyID     *int64     `json:"agencyId"`
	BrandID      *int64     `json:"brandId"`
}

// CampaignResponse is the API representation of a campaign.
type CampaignResponse struct {
	CampaignID     int64      `json:"campaignId"`
	CampaignName   string     `json:"campaignName"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	Status         string     `json:"status"`
	BuyerID        *int64     `json:"buyerId,omitempty"`
	AgencyID       *int64     `json:"agencyId,omitempty"`
	BrandID        *int64     `json:"brandId,omitempty"`
	TotalLeads     int        `json:"totalLeads"`
	OpenRate       float64    `json:"openRate"`
	ConversionRate float64    `json:"conversionRate"`
	CreatedDate    time.Time  `json:"createdDate"`
}
