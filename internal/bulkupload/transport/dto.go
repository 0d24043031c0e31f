// Package transport defines request/response DTOs for the bulk upload module.
package transport

import "time"

// LeadRow is a single row in an uploaded batch. Rows carry no validation
// tags: the orchestrator classifies every row itself so that one bad row
// never rejects the batch.
type LeadRow struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	CampaignID *int64 `json:"campaignId"`
}

// BulkUploadRequest ingests a batch of lead rows. When CampaignID is set it
// is forced onto every row, overriding per-row campaign ids.
type BulkUploadRequest struct {
	CampaignID *int64    `json:"campaignId"`
	Leads      []LeadRow `json:"leads"`
}

// RowResult reports the outcome of a single row.
type RowResult struct {
	RowNumber int    `json:"rowNumber"`
	Email     string `json:"email"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

// BulkUploadResponse summarizes a completed batch. UploadedBy is 0 for an
// unidentified uploader.
type BulkUploadResponse struct {
	UploadID       int64       `json:"uploadId"`
	ReferenceToken string      `json:"referenceToken"`
	UploadedBy     int64       `json:"uploadedBy"`
	UploadedAt     time.Time   `json:"uploadedAt"`
	TotalRecords   int         `json:"totalRecords"`
	ValidRecords   int         `json:"validRecords"`
	InvalidRecords int         `json:"invalidRecords"`
	Results        []RowResult `json:"results"`
}

// UploadLogResponse is the API representation of an upload log entry.
type UploadLogResponse struct {
	UploadID       int64     `json:"uploadId"`
	ReferenceToken string    `json:"referenceToken"`
	UploadedAt     time.Time `json:"uploadedAt"`
	TotalRecords   int       `json:"totalRecords"`
	ValidRecords   int       `json:"validRecords"`
	InvalidRecords int       `json:"invalidRecords"`
}

// UploadDetailResponse is the API representation of a per-row detail record.
type UploadDetailResponse struct {
	DetailID         int64     `json:"detailId"`
	LeadEmail        string    `json:"leadEmail"`
	ValidationStatus string    `json:"validationStatus"`
	Message          string    `json:"message"`
	CreatedDate      time.Time `json:"createdDate"`
}
