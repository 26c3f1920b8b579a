// Package leads provides the lead store bounded context module.
package leads

import (
	"estate_assistant_backend/internal/leads/handler"
	"estate_assistant_backend/internal/leads/repository"
	apphttp "estate_assistant_backend/internal/http"
	"estate_assistant_backend/platform/logger"
	"estate_assistant_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
}

// NewModule creates and initializes the leads module.
func NewModule(storePath string, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(storePath, log)
	h := handler.New(repo, val)

	return &Module{
		handler: h,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Repository returns the lead store for use by the conversation pipeline.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.GET("/leads", m.handler.ListLeads)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
