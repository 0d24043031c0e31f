// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"campaign_portal_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead is created, either individually or
// by the bulk ingestion pipeline.
type LeadCreated struct {
	BaseEvent
	LeadID     int64  `json:"leadId"`
	CampaignID *int64 `json:"campaignId,omitempty"`
	Email      string `json:"email"`
	Segment    string `json:"segment"`
}

func (e LeadCreated) EventName() string { return "leads.created" }

// =============================================================================
// Bulk Upload Domain Events
// =============================================================================

// BulkUploadCompleted is published after a bulk lead upload batch has been
// committed, with its final row counts.
type BulkUploadCompleted struct {
	BaseEvent
	UploadID       int64 `json:"uploadId"`
	UploadedBy     int64 `json:"uploadedBy"`
	TotalRecords   int   `json:"totalRecords"`
	ValidRecords   int   `json:"validRecords"`
	InvalidRecords int   `json:"invalidRecords"`
}

func (e BulkUploadCompleted) EventName() string { return "bulkupload.completed" }

// =============================================================================
// Campaign Domain Events
// =============================================================================

// CampaignMetricsRecomputed is published after a campaign's cached aggregate
// fields have been overwritten by the recomputer.
type CampaignMetricsRecomputed struct {
	BaseEvent
	CampaignID     int64   `json:"campaignId"`
	TotalLeads     int     `json:"totalLeads"`
	OpenRate       float64 `json:"openRate"`
	ConversionRate float64 `json:"conversionRate"`
}

func (e CampaignMetricsRecomputed) EventName() string { return "campaigns.metrics.recomputed" }
