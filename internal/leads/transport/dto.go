// Package transport defines request/response DTOs for the leads module.
package transport

import "time"

// CreateLeadRequest creates a single lead.
type CreateLeadRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=200"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"omitempty,max=32"`
	CampaignID *int64 `json:"campaignId"`
}

// UpdateLeadRequest partially updates a lead. Nil fields are ignored.
// Setting campaignId to 0 detaches the lead from its campaign.
type UpdateLeadRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=200"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Phone      *string `json:"phone" validate:"omitempty,max=32"`
	CampaignID *int64  `json:"campaignId"`
}

// ListLeadsRequest filters and paginates the lead list.
type ListLeadsRequest struct {
	CampaignID *int64  `form:"campaignId" validate:"omitempty,gt=0"`
	Segment    *string `form:"segment" validate:"omitempty,max=100"`
	Search     string  `form:"search" validate:"max=100"`
	Page       int     `form:"page" validate:"min=0"`
	PageSize   int     `form:"pageSize" validate:"min=0,max=100"`
}

// LeadResponse is the API representation of a lead.
type LeadResponse struct {
	LeadID      int64     `json:"leadId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	CampaignID  *int64    `json:"campaignId,omitempty"`
	Segment     string    `json:"segment"`
	CreatedDate time.Time `json:"createdDate"`
}

// LeadListResponse is a page of leads with pagination metadata.
type LeadListResponse struct {
	Items      []LeadResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}
