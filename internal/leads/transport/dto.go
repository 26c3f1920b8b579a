// Package transport defines request/response DTOs for the leads HTTP surface.
package transport

import (
	"time"

	"estate_assistant_backend/internal/leads/domain"
)

// ListLeadsRequest captures the admin listing filters from query params.
// Dates accept either RFC 3339 timestamps or plain YYYY-MM-DD dates.
type ListLeadsRequest struct {
	Status    string `form:"status" validate:"omitempty,oneof=pending_sync synced sync_failed"`
	MinScore  *int   `form:"minScore" validate:"omitempty,gte=0,lte=100"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

// LeadResponse is the wire form of a lead record.
type LeadResponse struct {
	ID            string         `json:"id"`
	Phone         string         `json:"phone"`
	Details       domain.Details `json:"details"`
	Score         int            `json:"score"`
	Summary       string         `json:"summary"`
	Source        string         `json:"source"`
	Status        string         `json:"status"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	LastSyncError *string        `json:"lastSyncError,omitempty"`
}

// ListLeadsResponse wraps the filtered collection.
type ListLeadsResponse struct {
	Leads []LeadResponse `json:"leads"`
	Total int            `json:"total"`
}

// FromRecord maps a domain record to its wire form.
func FromRecord(rec domain.Record) LeadResponse {
	return LeadResponse{
		ID:            rec.ID,
		Phone:         rec.Phone,
		Details:       rec.Details,
		Score:         rec.Score,
		Summary:       rec.Summary,
		Source:        rec.Source,
		Status:        string(rec.Status),
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
		LastSyncError: rec.LastSyncError,
	}
}

// ParseDate parses the two accepted date formats. Empty input yields nil.
func ParseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
