// Package handler exposes the admin property catalog endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"estate_assistant_backend/internal/properties/repository"
	"estate_assistant_backend/internal/properties/service"
	"estate_assistant_backend/internal/properties/transport"
	"estate_assistant_backend/platform/httpkit"
	"estate_assistant_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for the property catalog.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new properties handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListProperties retrieves listings filtered by status, city, and type.
// GET /api/v1/admin/properties
func (h *Handler) ListProperties(c *gin.Context) {
	var req transport.ListPropertiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	listings, err := h.svc.List(repository.ListFilters{
		Status: req.Status,
		City:   req.City,
		Type:   req.Type,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ListPropertiesResponse{Properties: listings, Total: len(listings)})
}

// GetProperty retrieves a listing by id.
// GET /api/v1/admin/properties/:id
func (h *Handler) GetProperty(c *gin.Context) {
	listing, err := h.svc.GetByID(c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, listing)
}

// CreateProperty adds a listing to the catalog.
// POST /api/v1/admin/properties
func (h *Handler) CreateProperty(c *gin.Context) {
	var req transport.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	listing, err := h.svc.Add(req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, listing)
}

// UpdateProperty applies a partial update to a listing.
// PUT /api/v1/admin/properties/:id
func (h *Handler) UpdateProperty(c *gin.Context) {
	var req transport.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	listing, err := h.svc.Update(c.Param("id"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, listing)
}

// ArchiveProperty removes a listing from matching without deleting it.
// DELETE /api/v1/admin/properties/:id
func (h *Handler) ArchiveProperty(c *gin.Context) {
	listing, err := h.svc.Archive(c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, listing)
}
