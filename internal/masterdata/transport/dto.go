// Package transport defines request/response DTOs for the master data module.
package transport

// SegmentResponse is a segment catalog entry.
type SegmentResponse struct {
	SegmentID   int64  `json:"segmentId"`
	SegmentName string `json:"segmentName"`
	IsActive    bool   `json:"isActive"`
}

// ReferenceResponse is a buyer, agency, or brand catalog entry.
type ReferenceResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
