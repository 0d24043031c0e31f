// Package transport defines response DTOs for the snapshots module.
package transport

import "time"

// SnapshotResponse is the API representation of a performance snapshot.
type SnapshotResponse struct {
	SnapshotID     int64     `json:"snapshotId"`
	CampaignID     int64     `json:"campaignId"`
	DateCaptured   time.Time `json:"dateCaptured"`
	TotalLeads     int       `json:"totalLeads"`
	OpenRate       float64   `json:"openRate"`
	ConversionRate float64   `json:"conversionRate"`
}
