// Package properties provides the property catalog bounded context module.
package properties

import (
	"estate_assistant_backend/internal/properties/handler"
	"estate_assistant_backend/internal/properties/repository"
	"estate_assistant_backend/internal/properties/service"
	apphttp "estate_assistant_backend/internal/http"
	"estate_assistant_backend/platform/logger"
	"estate_assistant_backend/platform/validator"
)

// Module is the properties bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the properties module.
func NewModule(storePath string, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(storePath, log)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "properties"
}

// Service returns the service layer for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts property routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	adminGroup := ctx.Admin.Group("/properties")
	adminGroup.GET("", m.handler.ListProperties)
	adminGroup.GET("/:id", m.handler.GetProperty)
	adminGroup.POST("", m.handler.CreateProperty)
	adminGroup.PUT("/:id", m.handler.UpdateProperty)
	adminGroup.DELETE("/:id", m.handler.ArchiveProperty)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
