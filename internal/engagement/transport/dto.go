// Package transport defines request/response DTOs for the engagement module.
package transport

import "time"

// RecordMetricRequest records an engagement metric for a lead. Callers may
// submit raw counts or precomputed rates; when counts are present they win
// and the rates are derived from them, since only rates are stored at rest.
type RecordMetricRequest struct {
	LeadID int64 `json:"leadId" validate:"required,gt=0"`

	EmailsSent   *int `json:"emailsSent" validate:"omitempty,gte=0"`
	EmailsOpened *int `json:"emailsOpened" validate:"omitempty,gte=0"`
	Clicks       *int `json:"clicks" validate:"omitempty,gte=0"`
	Conversions  *int `json:"conversions" validate:"omitempty,gte=0"`

	OpenRate       *float64 `json:"openRate" validate:"omitempty,gte=0,lte=100"`
	ClickRate      *float64 `json:"clickRate" validate:"omitempty,gte=0,lte=100"`
	ConversionRate *float64 `json:"conversionRate" validate:"omitempty,gte=0,lte=100"`
}

// UpdateMetricRequest partially updates a metric. Nil fields are ignored.
// As with Record, counts win when emailsSent is present: all three rates are
// recomputed from the counts and any rates in the same request are discarded.
type UpdateMetricRequest struct {
	EmailsSent   *int `json:"emailsSent" validate:"omitempty,gte=0"`
	EmailsOpened *int `json:"emailsOpened" validate:"omitempty,gte=0"`
	Clicks       *int `json:"clicks" validate:"omitempty,gte=0"`
	Conversions  *int `json:"conversions" validate:"omitempty,gte=0"`

	OpenRate       *float64 `json:"openRate" validate:"omitempty,gte=0,lte=100"`
	ClickRate      *float64 `json:"clickRate" validate:"omitempty,gte=0,lte=100"`
	ConversionRate *float64 `json:"conversionRate" validate:"omitempty,gte=0,lte=100"`
}

// MetricResponse is the API representation of an engagement metric.
type MetricResponse struct {
	MetricID       int64     `json:"metricId"`
	LeadID         int64     `json:"leadId"`
	CampaignID     *int64    `json:"campaignId,omitempty"`
	OpenRate       float64   `json:"openRate"`
	ClickRate      float64   `json:"clickRate"`
	ConversionRate float64   `json:"conversionRate"`
	CreatedDate    time.Time `json:"createdDate"`
}
