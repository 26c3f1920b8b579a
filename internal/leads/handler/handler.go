// Package handler exposes the admin listing surface over the lead store.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"estate_assistant_backend/internal/leads/domain"
	"estate_assistant_backend/internal/leads/repository"
	"estate_assistant_backend/internal/leads/transport"
	"estate_assistant_backend/platform/httpkit"
	"estate_assistant_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidDate      = "invalid date filter"
)

// Handler handles HTTP requests for leads.
type Handler struct {
	repo *repository.Repository
	val  *validator.Validator
}

// New creates a new leads handler.
func New(repo *repository.Repository, val *validator.Validator) *Handler {
	return &Handler{repo: repo, val: val}
}

// ListLeads retrieves lead records filtered by status, score, and date range.
// GET /api/v1/admin/leads
func (h *Handler) ListLeads(c *gin.Context) {
	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	filters := repository.ListFilters{MinScore: req.MinScore}
	if req.Status != "" {
		status := domain.Status(req.Status)
		filters.Status = &status
	}

	var err error
	if filters.StartDate, err = transport.ParseDate(req.StartDate); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidDate, "startDate")
		return
	}
	if filters.EndDate, err = transport.ParseDate(req.EndDate); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidDate, "endDate")
		return
	}

	records, err := h.repo.List(filters)
	if httpkit.HandleError(c, err) {
		return
	}

	leads := make([]transport.LeadResponse, 0, len(records))
	for _, rec := range records {
		leads = append(leads, transport.FromRecord(rec))
	}

	httpkit.OK(c, transport.ListLeadsResponse{Leads: leads, Total: len(leads)})
}
