package conversation

import (
	"golang.org/x/time/rate"

	"estate_assistant_backend/internal/events"
	apphttp "estate_assistant_backend/internal/http"
	"estate_assistant_backend/platform/httpkit"
	"estate_assistant_backend/platform/logger"
)

// Module is the conversation bounded context module implementing http.Module.
// It owns the public webhook surface.
type Module struct {
	handler *Handler
	service *Service
	limiter *httpkit.IPRateLimiter
}

// NewModule wires the conversation pipeline and its webhook handler.
func NewModule(inventory Inventory, messenger Messenger, model ModelClient, leads LeadStore, syncer Syncer, bus events.Bus, verifyToken string, log *logger.Logger) *Module {
	svc := NewService(inventory, messenger, model, leads, syncer, bus, log)
	h := NewHandler(svc, verifyToken, log)

	return &Module{
		handler: h,
		service: svc,
		// WhatsApp delivers with bursts; 10 rps with headroom is plenty
		// for one business number.
		limiter: httpkit.NewIPRateLimiter(rate.Limit(10), 30, log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "conversation"
}

// Service returns the pipeline service.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes mounts the webhook routes on the engine root, matching the
// path Meta is configured to call.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	webhook := ctx.Engine.Group("/webhook")
	webhook.Use(m.limiter.RateLimit())
	webhook.GET("", m.handler.Verify)
	webhook.POST("", m.handler.Receive)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
